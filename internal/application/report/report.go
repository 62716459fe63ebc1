// Package report builds per-venture usage and cost tables.
package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/application/allocation"
	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/quamilek/ralph-pricing/internal/domain/shared/valueobject"
	"github.com/quamilek/ralph-pricing/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Information columns present in every report
const (
	ColumnVentureID       = "venture_id"
	ColumnVenture         = "venture"
	ColumnDepartment      = "department"
	ColumnBusinessSegment = "business_segment"
	ColumnProfitCenter    = "profit_center"
	ColumnExtraCost       = "extra_cost"
)

// Column is one report column
type Column struct {
	Key    string
	Header string
}

// Row is the report line of one venture, keyed by Column.Key
type Row struct {
	Venture *pricing.Venture
	Values  map[string]any
}

// Report is an ordered table of rows
type Report struct {
	Columns []Column
	Rows    []Row
}

// Query selects what a report covers
type Query struct {
	Period     valueobject.DateRange
	Forecast   bool
	UsageTypes []*pricing.UsageType
	// Ventures limits the rows; nil means every active venture
	Ventures []uuid.UUID
}

// UsageReportService computes usage reports
type UsageReportService struct {
	engine      *allocation.Engine
	ventures    pricing.VentureRepository
	warehouses  pricing.WarehouseRepository
	extraCosts  pricing.ExtraCostRepository
	maxParallel int
	logger      *zap.Logger
}

// NewUsageReportService creates a report service. extraCosts may be nil, in
// which case the extra cost column is left out.
func NewUsageReportService(
	engine *allocation.Engine,
	ventures pricing.VentureRepository,
	warehouses pricing.WarehouseRepository,
	extraCosts pricing.ExtraCostRepository,
	maxParallel int,
	logger *zap.Logger,
) *UsageReportService {
	if maxParallel <= 0 {
		maxParallel = 1
	}
	return &UsageReportService{
		engine:      engine,
		ventures:    ventures,
		warehouses:  warehouses,
		extraCosts:  extraCosts,
		maxParallel: maxParallel,
		logger:      logger.Named("report"),
	}
}

// Schema returns the ordered columns of a report over usageTypes
func (s *UsageReportService) Schema(ctx context.Context, usageTypes []*pricing.UsageType) ([]Column, error) {
	columns := []Column{
		{Key: ColumnVentureID, Header: "Venture ID"},
		{Key: ColumnVenture, Header: "Venture"},
		{Key: ColumnDepartment, Header: "Department"},
		{Key: ColumnBusinessSegment, Header: "Business segment"},
		{Key: ColumnProfitCenter, Header: "Profit center"},
	}

	var warehouses []*pricing.Warehouse
	for _, ut := range usageTypes {
		if !ut.ByWarehouse {
			columns = append(columns,
				Column{Key: CountKey(ut, nil), Header: ut.Name + " count"},
				Column{Key: CostKey(ut, nil), Header: ut.Name + " cost"},
			)
			continue
		}
		if warehouses == nil {
			all, err := s.warehouses.FindAll(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to load warehouses: %w", err)
			}
			warehouses = reported(all)
		}
		for _, wh := range warehouses {
			columns = append(columns,
				Column{Key: CountKey(ut, wh), Header: fmt.Sprintf("%s count (%s)", ut.Name, wh.Name)},
				Column{Key: CostKey(ut, wh), Header: fmt.Sprintf("%s cost (%s)", ut.Name, wh.Name)},
			)
		}
		columns = append(columns, Column{Key: TotalCostKey(ut), Header: ut.Name + " total cost"})
	}

	if s.extraCosts != nil {
		columns = append(columns, Column{Key: ColumnExtraCost, Header: "Extra cost"})
	}
	return columns, nil
}

// Build computes one row per venture
func (s *UsageReportService) Build(ctx context.Context, q Query) (*Report, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "Build",
		attribute.String(telemetry.SpanAttrPeriod, q.Period.String()),
		attribute.Bool(telemetry.SpanAttrForecast, q.Forecast))
	defer span.End()

	columns, err := s.Schema(ctx, q.UsageTypes)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	ventures, err := s.loadVentures(ctx, q.Ventures)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	breakdowns, err := s.breakdowns(ctx, q, ventures)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	rows := make([]Row, len(ventures))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)
	for i, v := range ventures {
		g.Go(func() error {
			row, err := s.buildRow(gctx, q, v, breakdowns)
			if err != nil {
				return fmt.Errorf("venture %d: %w", v.VentureID, err)
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Debug("Report built",
		zap.Stringer("period", q.Period),
		zap.Int("rows", len(rows)),
		zap.Int("columns", len(columns)))
	return &Report{Columns: columns, Rows: rows}, nil
}

func (s *UsageReportService) loadVentures(ctx context.Context, ids []uuid.UUID) ([]*pricing.Venture, error) {
	if ids == nil {
		ventures, err := s.ventures.FindAll(ctx, true)
		if err != nil {
			return nil, fmt.Errorf("failed to load ventures: %w", err)
		}
		return ventures, nil
	}
	ventures := make([]*pricing.Venture, 0, len(ids))
	for _, id := range ids {
		v, err := s.ventures.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load venture %s: %w", id, err)
		}
		ventures = append(ventures, v)
	}
	return ventures, nil
}

// costTable maps a usage type and venture to its cost breakdown
type costTable map[uuid.UUID]map[uuid.UUID]*allocation.CostBreakdown

// breakdowns prices every usage type for all report ventures in one pass per
// type, so a pool scoped to the query spans every row of the report.
func (s *UsageReportService) breakdowns(ctx context.Context, q Query, ventures []*pricing.Venture) (costTable, error) {
	ids := make([]uuid.UUID, len(ventures))
	for i, v := range ventures {
		ids[i] = v.ID
	}

	table := make(costTable, len(q.UsageTypes))
	for _, ut := range q.UsageTypes {
		byVenture, err := s.engine.BreakdownsForVentures(ctx, allocation.CostQuery{
			UsageType: ut,
			Period:    q.Period,
			Forecast:  q.Forecast,
		}, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to price %s: %w", ut.Name, err)
		}
		table[ut.ID] = byVenture
	}
	return table, nil
}

func (s *UsageReportService) buildRow(ctx context.Context, q Query, v *pricing.Venture, costs costTable) (Row, error) {
	ancestors, err := s.ventures.Ancestors(ctx, v)
	if err != nil {
		return Row{}, fmt.Errorf("failed to load ancestors: %w", err)
	}

	values := map[string]any{
		ColumnVentureID:       v.VentureID,
		ColumnVenture:         v.Path(ancestors),
		ColumnDepartment:      v.Department,
		ColumnBusinessSegment: v.BusinessSegment,
		ColumnProfitCenter:    v.ProfitCenter,
	}

	for _, ut := range q.UsageTypes {
		breakdown := costs[ut.ID][v.ID]
		if !ut.ByWarehouse {
			values[CountKey(ut, nil)] = breakdown.Usage()
			values[CostKey(ut, nil)] = breakdown.Total
			continue
		}
		for _, entry := range breakdown.Entries {
			if entry.Warehouse == nil || !entry.Warehouse.ShowInReport {
				continue
			}
			values[CountKey(ut, entry.Warehouse)] = entry.Usage
			values[CostKey(ut, entry.Warehouse)] = entry.Cost
		}
		values[TotalCostKey(ut)] = breakdown.Total
	}

	if s.extraCosts != nil {
		extra, err := s.extraCost(ctx, v, q.Period)
		if err != nil {
			return Row{}, err
		}
		values[ColumnExtraCost] = extra
	}
	return Row{Venture: v, Values: values}, nil
}

func (s *UsageReportService) extraCost(ctx context.Context, v *pricing.Venture, period valueobject.DateRange) (decimal.Decimal, error) {
	costs, err := s.extraCosts.FindOverlapping(ctx, []uuid.UUID{v.ID}, period)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load extra costs: %w", err)
	}
	total := decimal.Zero
	for _, c := range costs {
		total = total.Add(c.CostFor(period))
	}
	return total, nil
}

// CountKey is the usage column of ut, per warehouse when wh is set
func CountKey(ut *pricing.UsageType, wh *pricing.Warehouse) string {
	if wh == nil {
		return ut.Symbol + "_count"
	}
	return ut.Symbol + "_count_" + pricing.Symbolize(wh.Name)
}

// CostKey is the cost column of ut, per warehouse when wh is set
func CostKey(ut *pricing.UsageType, wh *pricing.Warehouse) string {
	if wh == nil {
		return ut.Symbol + "_cost"
	}
	return ut.Symbol + "_cost_" + pricing.Symbolize(wh.Name)
}

// TotalCostKey is the column summing a per-warehouse usage type
func TotalCostKey(ut *pricing.UsageType) string {
	return ut.Symbol + "_total_cost"
}

func reported(warehouses []*pricing.Warehouse) []*pricing.Warehouse {
	out := make([]*pricing.Warehouse, 0, len(warehouses))
	for _, wh := range warehouses {
		if wh.ShowInReport {
			out = append(out, wh)
		}
	}
	return out
}
