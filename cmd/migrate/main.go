package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/quamilek/ralph-pricing/internal/infrastructure/config"
	"github.com/quamilek/ralph-pricing/internal/infrastructure/logger"
	"github.com/quamilek/ralph-pricing/internal/infrastructure/migration"
	"go.uber.org/zap"
)

// createDir is where create writes new files when no path is set
const createDir = "migrations"

var errUsage = errors.New("usage")

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "migrations directory (default: migrations embedded in the binary)")
	flag.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.Usage = func() { printUsage(os.Stderr) }
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	err = run(flag.Args(), migrationsPath, log)
	_ = logger.Sync(log)
	if errors.Is(err, errUsage) {
		printUsage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		log.Error("Migration failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(args []string, path string, log *zap.Logger) error {
	if len(args) == 0 {
		return errUsage
	}
	command, args := args[0], args[1:]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if path == "" {
		path = cfg.Database.MigrationsPath
	}
	if path != "" {
		if path, err = filepath.Abs(path); err != nil {
			return err
		}
	}
	log.Debug("Migration command",
		zap.String("command", command),
		zap.String("migrations_path", path),
	)

	// create and list work on files only
	switch command {
	case "create":
		return create(args, path, log)
	case "list":
		return list(os.Stdout, migration.Source(path))
	}

	cmd, ok := dbCommands[command]
	if !ok {
		log.Error("Unknown command", zap.String("command", command))
		return errUsage
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	m, err := migration.New(db, migration.Source(path), log)
	if err != nil {
		return err
	}
	defer m.Close()

	return cmd(m, args, log)
}

type dbCommand func(m *migration.Migrator, args []string, log *zap.Logger) error

var dbCommands = map[string]dbCommand{
	"up": func(m *migration.Migrator, _ []string, _ *zap.Logger) error {
		return m.Up()
	},
	"down": func(m *migration.Migrator, _ []string, _ *zap.Logger) error {
		return m.Down()
	},
	"step": func(m *migration.Migrator, args []string, _ *zap.Logger) error {
		n, err := intArg(args, "step count")
		if err != nil {
			return err
		}
		return m.Steps(n)
	},
	"goto": func(m *migration.Migrator, args []string, _ *zap.Logger) error {
		v, err := intArg(args, "version")
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("version must not be negative, got %d", v)
		}
		return m.GoTo(uint(v))
	},
	"version": func(m *migration.Migrator, _ []string, log *zap.Logger) error {
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			log.Info("No migrations applied")
			return nil
		}
		log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	},
	"force": func(m *migration.Migrator, args []string, log *zap.Logger) error {
		v, err := intArg(args, "version")
		if err != nil {
			return err
		}
		log.Warn("Forcing migration version", zap.Int("version", v))
		return m.Force(v)
	},
	"drop": func(m *migration.Migrator, args []string, _ *zap.Logger) error {
		if len(args) == 0 || (args[0] != "-confirm" && args[0] != "--confirm") {
			return errors.New("drop removes every pricing table; rerun as 'migrate drop -confirm'")
		}
		return m.Drop()
	},
}

func create(args []string, path string, log *zap.Logger) error {
	if len(args) == 0 {
		return errors.New("migration name required: migrate create <name> [description]")
	}
	if path == "" {
		path = createDir
	}
	description := ""
	if len(args) > 1 {
		description = args[1]
	}

	mf, err := migration.CreateMigration(path, args[0], description)
	if err != nil {
		return err
	}
	log.Info("Migration created",
		zap.String("version", mf.Version),
		zap.String("up_file", mf.UpPath),
		zap.String("down_file", mf.DownPath),
	)
	return nil
}

func list(out io.Writer, source fs.FS) error {
	names, err := migration.ListMigrations(source)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(out, "No migrations found")
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}

func intArg(args []string, what string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s required", what)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, args[0])
	}
	return n, nil
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `ralph-pricing database migrations

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Force set migration version (use with caution)
  drop -confirm         Drop all database objects
  create <name> [desc]  Create a new migration file pair
  list                  List available migrations

Flags:
  -path string          Migrations directory (default: embedded migrations)
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  PRICING_DATABASE_HOST, PRICING_DATABASE_PORT, PRICING_DATABASE_USER,
  PRICING_DATABASE_PASSWORD, PRICING_DATABASE_DBNAME, PRICING_DATABASE_SSLMODE,
  PRICING_DATABASE_MIGRATIONS_PATH

Examples:
  migrate up
  migrate step -1
  migrate create add_license_costs "Store license costs per venture"
  migrate version
`)
}
