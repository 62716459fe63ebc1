package main

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/quamilek/ralph-pricing/internal/application/report"
	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newReportCmd(root *rootOptions) *cobra.Command {
	var (
		usageTypes []string
		from, to   string
		ventures   []int64
		forecast   bool
		noExtra    bool
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a per-venture usage and cost report as CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			period, err := parsePeriod(from, to)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, root)
			if err != nil {
				return err
			}
			defer a.Close()

			types, err := a.usageTypes(ctx, splitList(usageTypes))
			if err != nil {
				return err
			}
			ids, err := a.ventureIDs(ctx, ventures)
			if err != nil {
				return err
			}

			var extra pricing.ExtraCostRepository = a.repos.ExtraCosts
			if noExtra {
				extra = nil
			}
			svc := report.NewUsageReportService(a.engine(), a.repos.Ventures, a.repos.Warehouses, extra,
				a.cfg.Allocation.MaxParallel, a.log)
			rep, err := svc.Build(ctx, report.Query{
				Period:     period,
				Forecast:   forecast,
				UsageTypes: types,
				Ventures:   ids,
			})
			if err != nil {
				return err
			}
			return writeCSV(cmd.OutOrStdout(), rep)
		},
	}
	cmd.Flags().StringSliceVar(&usageTypes, "usage-type", nil, "usage type symbols (default every usage type)")
	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")
	cmd.Flags().Int64SliceVar(&ventures, "venture", nil, "venture ids (default every active venture)")
	cmd.Flags().BoolVar(&forecast, "forecast", false, "use forecast prices and costs")
	cmd.Flags().BoolVar(&noExtra, "no-extra-cost", false, "leave out the extra cost column")
	return cmd
}

func writeCSV(out io.Writer, rep *report.Report) error {
	w := csv.NewWriter(out)
	header := make([]string, 0, len(rep.Columns))
	for _, c := range rep.Columns {
		header = append(header, c.Header)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, row := range rep.Rows {
		record := make([]string, 0, len(rep.Columns))
		for _, c := range rep.Columns {
			record = append(record, formatValue(row.Values[c.Key]))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case decimal.Decimal:
		return v.StringFixed(2)
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprint(v)
	}
}
