package main

import (
	"fmt"
	"time"

	"github.com/quamilek/ralph-pricing/internal/application/collect"
	"github.com/quamilek/ralph-pricing/internal/infrastructure/feed"
	"github.com/spf13/cobra"
)

func newCollectCmd(root *rootOptions) *cobra.Command {
	var (
		date   string
		stages []string
	)
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Run the daily collection stages for one day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			day := time.Now().UTC().AddDate(0, 0, -1)
			if date != "" {
				var err error
				if day, err = parseDay("date", date); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, root)
			if err != nil {
				return err
			}
			defer a.Close()

			names := splitList(stages)
			if len(names) == 0 {
				names = a.cfg.Collect.Stages
			}
			pipeline, err := a.pipeline(names)
			if err != nil {
				return err
			}

			reports, runErr := pipeline.Run(ctx, &collect.RunContext{Date: day})
			for _, line := range collect.Summary(reports) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return runErr
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to collect, YYYY-MM-DD (default yesterday)")
	cmd.Flags().StringSliceVar(&stages, "stage", nil, "stages to run in order (default collect.stages)")
	return cmd
}

// pipeline composes the named stages with their configured feeds
func (a *app) pipeline(names []string) (*collect.Pipeline, error) {
	metrics, err := collect.NewMetrics(a.telemetry.Meter.Meter("ralph-pricing/collect"))
	if err != nil {
		return nil, fmt.Errorf("failed to create collect metrics: %w", err)
	}

	stages := make([]collect.Stage, 0, len(names))
	for _, name := range names {
		switch name {
		case collect.TenantStageName:
			src, err := feed.OpenSource(a.cfg.Collect.TenantSource, &a.cfg.Storage)
			if err != nil {
				return nil, fmt.Errorf("stage %s: %w", name, err)
			}
			var unknown *collect.ServiceEnvironment
			if uid, env, ok := a.cfg.Collect.UnknownServiceEnvironment(name); ok {
				unknown = &collect.ServiceEnvironment{ServiceUID: uid, Environment: env}
			}
			stages = append(stages, collect.NewTenantCollector(
				a.repos.Ventures, a.repos.Tenants, feed.NewCSVFeed(src, a.log), unknown, metrics, a.log))
		case collect.ExtraCostStageName:
			src, err := feed.OpenSource(a.cfg.Collect.ExtraCostSource, &a.cfg.Storage)
			if err != nil {
				return nil, fmt.Errorf("stage %s: %w", name, err)
			}
			stages = append(stages, collect.NewExtraCostImporter(
				a.repos.ExtraCosts, feed.NewCSVFeed(src, a.log), metrics, a.log))
		default:
			return nil, fmt.Errorf("unknown stage %q", name)
		}
	}
	return collect.NewPipeline(a.log, stages...).WithMetrics(metrics), nil
}

