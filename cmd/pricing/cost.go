package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/quamilek/ralph-pricing/internal/application/allocation"
	"github.com/spf13/cobra"
)

func newCostCmd(root *rootOptions) *cobra.Command {
	var (
		usageType string
		from, to  string
		ventures  []int64
		forecast  bool
	)
	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Show usage and cost of a usage type per warehouse",
		RunE: func(cmd *cobra.Command, _ []string) error {
			period, err := parsePeriod(from, to)
			if err != nil {
				return err
			}
			if usageType == "" {
				return errors.New("--usage-type is required")
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, root)
			if err != nil {
				return err
			}
			defer a.Close()

			ut, err := a.repos.UsageTypes.FindBySymbol(ctx, usageType)
			if err != nil {
				return fmt.Errorf("usage type %q: %w", usageType, err)
			}
			ids, err := a.ventureIDs(ctx, ventures)
			if err != nil {
				return err
			}

			breakdown, err := a.engine().TotalCostByWarehouses(ctx, allocation.CostQuery{
				UsageType: ut,
				Ventures:  ids,
				Period:    period,
				Forecast:  forecast,
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WAREHOUSE\tUSAGE\tCOST")
			for _, e := range breakdown.Entries {
				name := "-"
				if e.Warehouse != nil {
					name = e.Warehouse.Name
				}
				fmt.Fprintf(w, "%s\t%g\t%s\n", name, e.Usage, e.Cost.StringFixed(2))
			}
			fmt.Fprintf(w, "TOTAL\t%g\t%s\n", breakdown.Usage(), breakdown.Total.StringFixed(2))
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&usageType, "usage-type", "", "usage type symbol")
	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")
	cmd.Flags().Int64SliceVar(&ventures, "venture", nil, "venture ids (default every venture)")
	cmd.Flags().BoolVar(&forecast, "forecast", false, "use forecast prices and costs")
	return cmd
}
