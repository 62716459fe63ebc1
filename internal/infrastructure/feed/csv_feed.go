package feed

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/quamilek/ralph-pricing/internal/application/collect"
	"go.uber.org/zap"
)

// DateLayout is the date format of feed columns
const DateLayout = "2006-01-02"

var (
	extraCostColumns = []string{"type", "venture_id", "start", "cost"}
	tenantColumns    = []string{"id", "service_uid", "environment"}
)

// CSVFeed reads extra cost and tenant records from a CSV source. Rows that
// cannot be parsed are logged and skipped; the importers validate the rest.
type CSVFeed struct {
	source Source
	logger *zap.Logger
}

var (
	_ collect.ExtraCostFeed = (*CSVFeed)(nil)
	_ collect.TenantFeed    = (*CSVFeed)(nil)
)

// NewCSVFeed creates a feed over source
func NewCSVFeed(source Source, logger *zap.Logger) *CSVFeed {
	return &CSVFeed{
		source: source,
		logger: logger.With(zap.String("feed", source.String())),
	}
}

func (f *CSVFeed) rows(ctx context.Context, required []string) ([]*Row, error) {
	body, err := f.source.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	parser, err := NewParser(body)
	if err != nil {
		return nil, fmt.Errorf("feed %s: %w", f.source, err)
	}
	if missing := parser.MissingHeaders(required...); len(missing) > 0 {
		return nil, fmt.Errorf("feed %s: missing columns %s", f.source, strings.Join(missing, ", "))
	}
	return parser.ReadAll()
}

func (f *CSVFeed) report(errs *ErrorCollection, parsed int) {
	if errs.HasErrors() {
		f.logger.Warn("Skipped invalid feed rows",
			zap.Int("skipped", errs.TotalCount()),
			zap.Int("parsed", parsed),
			zap.String("errors", errs.String()),
		)
	}
}

// ExtraCosts reads the columns type, venture_id, venture, start, end, cost.
// An empty end means the cost has no end date.
func (f *CSVFeed) ExtraCosts(ctx context.Context) ([]collect.ExtraCostRecord, error) {
	rows, err := f.rows(ctx, extraCostColumns)
	if err != nil {
		return nil, err
	}

	errs := NewErrorCollection(20)
	records := make([]collect.ExtraCostRecord, 0, len(rows))
	for _, row := range rows {
		rec, ok := parseExtraCost(row, errs)
		if ok {
			records = append(records, rec)
		}
	}
	f.report(errs, len(records))
	return records, nil
}

func parseExtraCost(row *Row, errs *ErrorCollection) (collect.ExtraCostRecord, bool) {
	rec := collect.ExtraCostRecord{
		Type:    row.Get("type"),
		Venture: row.Get("venture"),
	}
	before := errs.TotalCount()

	if v := row.Get("venture_id"); v == "" {
		errs.AddRequired(row.Line, "venture_id")
	} else if id, err := strconv.ParseInt(v, 10, 64); err != nil {
		errs.AddFormat(row.Line, "venture_id", "integer", v)
	} else {
		rec.VentureID = id
	}

	if v := row.Get("cost"); v == "" {
		errs.AddRequired(row.Line, "cost")
	} else if cost, err := strconv.ParseFloat(v, 64); err != nil {
		errs.AddFormat(row.Line, "cost", "number", v)
	} else {
		rec.Cost = cost
	}

	rec.Start = parseDate(row, "start", errs)
	if row.Get("end") != "" {
		rec.End = parseDate(row, "end", errs)
	}

	return rec, errs.TotalCount() == before
}

func parseDate(row *Row, column string, errs *ErrorCollection) *time.Time {
	v := row.Get(column)
	if v == "" {
		errs.AddRequired(row.Line, column)
		return nil
	}
	d, err := time.Parse(DateLayout, v)
	if err != nil {
		errs.AddFormat(row.Line, column, DateLayout, v)
		return nil
	}
	return &d
}

// Tenants reads the columns id, name, remarks, service_uid, environment
func (f *CSVFeed) Tenants(ctx context.Context) ([]collect.TenantRecord, error) {
	rows, err := f.rows(ctx, tenantColumns)
	if err != nil {
		return nil, err
	}

	errs := NewErrorCollection(20)
	records := make([]collect.TenantRecord, 0, len(rows))
	for _, row := range rows {
		if row.Get("id") == "" {
			errs.AddRequired(row.Line, "id")
			continue
		}
		records = append(records, collect.TenantRecord{
			ID:          row.Get("id"),
			Name:        row.Get("name"),
			Remarks:     row.Get("remarks"),
			ServiceUID:  row.Get("service_uid"),
			Environment: row.Get("environment"),
		})
	}
	f.report(errs, len(records))
	return records, nil
}
