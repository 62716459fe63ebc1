package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/quamilek/ralph-pricing/internal/domain/shared/valueobject"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "pricing",
		Short: "Allocate infrastructure costs to ventures",
		Long: `pricing turns daily usages and price definitions into per-venture costs.

Examples:
  pricing collect --date 2014-12-10
  pricing cost --usage-type disk --from 2013-10-01 --to 2013-10-31 --venture 12
  pricing report --usage-type power,disk --from 2013-10-01 --to 2013-10-31
  pricing deps --service 6f1c... --date 2013-10-03`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is ./config.toml or /etc/ralph-pricing/config.toml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newCollectCmd(opts),
		newCostCmd(opts),
		newReportCmd(opts),
		newDepsCmd(opts),
	)
	return cmd
}

// parseDay parses a YYYY-MM-DD flag value
func parseDay(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("--%s is required", flag)
	}
	d, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: expected YYYY-MM-DD, got %q", flag, value)
	}
	return d, nil
}

// parsePeriod builds the inclusive period of the --from and --to flags
func parsePeriod(from, to string) (valueobject.DateRange, error) {
	start, err := parseDay("from", from)
	if err != nil {
		return valueobject.DateRange{}, err
	}
	end, err := parseDay("to", to)
	if err != nil {
		return valueobject.DateRange{}, err
	}
	return valueobject.NewDateRange(start, end)
}

// splitList accepts repeated and comma separated flag values
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
