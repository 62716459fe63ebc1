package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/application/allocation"
	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/spf13/cobra"
)

func newDepsCmd(root *rootOptions) *cobra.Command {
	var (
		service    string
		date       string
		transitive bool
	)
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "List the services a pricing service depended on during a day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			serviceID, err := uuid.Parse(service)
			if err != nil {
				return fmt.Errorf("--service: %w", err)
			}
			day, err := parseDay("date", date)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, root)
			if err != nil {
				return err
			}
			defer a.Close()

			resolver := allocation.NewDependencyResolver(a.repos.Edges, a.repos.Ventures, a.repos.Services, a.repos.Usages, a.log)
			var deps []*pricing.PricingService
			if transitive {
				deps, err = resolver.TransitiveDependencies(ctx, serviceID, day)
			} else {
				deps, err = resolver.DependentServices(ctx, serviceID, day)
			}
			if err != nil {
				return err
			}
			for _, s := range deps {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", s.ID, s.Name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&service, "service", "", "pricing service id")
	cmd.Flags().StringVar(&date, "date", "", "day, YYYY-MM-DD")
	cmd.Flags().BoolVar(&transitive, "transitive", false, "follow dependencies of dependencies")
	return cmd
}
