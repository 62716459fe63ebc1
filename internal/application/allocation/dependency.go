package allocation

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/quamilek/ralph-pricing/internal/domain/shared/valueobject"
	"github.com/quamilek/ralph-pricing/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DependencyResolver finds which pricing services a service depends on,
// judged by the usage its ventures recorded on service usage types
type DependencyResolver struct {
	edges    pricing.ServiceUsageTypeRepository
	ventures pricing.VentureRepository
	services pricing.PricingServiceRepository
	usages   pricing.DailyUsageRepository
	logger   *zap.Logger
}

// NewDependencyResolver creates a new DependencyResolver
func NewDependencyResolver(
	edges pricing.ServiceUsageTypeRepository,
	ventures pricing.VentureRepository,
	services pricing.PricingServiceRepository,
	usages pricing.DailyUsageRepository,
	logger *zap.Logger,
) *DependencyResolver {
	return &DependencyResolver{
		edges:    edges,
		ventures: ventures,
		services: services,
		usages:   usages,
		logger:   logger.Named("dependencies"),
	}
}

// DependentServices returns the services serviceID depended on during date,
// sorted by name. A service counts when an active edge points at it and a
// venture providing serviceID used the edge's usage type that day.
func (r *DependencyResolver) DependentServices(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]*pricing.PricingService, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "dependencies", "dependent_services",
		attribute.String(telemetry.SpanAttrServiceID, serviceID.String()))
	defer span.End()

	day := valueobject.SingleDay(date)
	graph, err := r.DependencyGraph(ctx, serviceID, day)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return r.load(ctx, graph[day.Start()])
}

// DependencyGraph returns, for each day of period on which serviceID had
// dependencies, the IDs of the services it depended on
func (r *DependencyResolver) DependencyGraph(ctx context.Context, serviceID uuid.UUID, period valueobject.DateRange) (map[time.Time][]uuid.UUID, error) {
	providers, err := r.ventures.FindByService(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ventures of service %s: %w", serviceID, err)
	}
	graph := make(map[time.Time][]uuid.UUID)
	if len(providers) == 0 {
		return graph, nil
	}
	ventureIDs := make([]uuid.UUID, 0, len(providers))
	for _, v := range providers {
		ventureIDs = append(ventureIDs, v.ID)
	}

	edges, err := r.edges.FindActive(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to load service usage types: %w", err)
	}

	seen := make(map[time.Time]map[uuid.UUID]struct{})
	for _, edge := range edges {
		if edge.Percent.IsZero() {
			continue
		}
		window, ok := edge.Period.Intersect(period)
		if !ok {
			continue
		}
		days, err := r.usages.ActiveDays(ctx, pricing.UsageFilter{
			UsageTypeID: edge.UsageTypeID,
			VentureIDs:  ventureIDs,
			Period:      window,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load usage days: %w", err)
		}
		for _, d := range days {
			d = valueobject.Day(d)
			if seen[d] == nil {
				seen[d] = make(map[uuid.UUID]struct{})
			}
			if _, dup := seen[d][edge.ServiceID]; dup {
				continue
			}
			seen[d][edge.ServiceID] = struct{}{}
			graph[d] = append(graph[d], edge.ServiceID)
		}
	}

	for d := range graph {
		slices.SortFunc(graph[d], func(a, b uuid.UUID) int {
			return slices.Compare(a[:], b[:])
		})
	}
	return graph, nil
}

// TransitiveDependencies walks dependencies breadth first starting at
// serviceID and returns every reachable service except serviceID itself,
// sorted by name. Cycles are visited once.
func (r *DependencyResolver) TransitiveDependencies(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]*pricing.PricingService, error) {
	day := valueobject.SingleDay(date)
	visited := map[uuid.UUID]struct{}{serviceID: {}}
	queue := []uuid.UUID{serviceID}
	var reached []uuid.UUID

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		graph, err := r.DependencyGraph(ctx, current, day)
		if err != nil {
			return nil, err
		}
		for _, next := range graph[day.Start()] {
			if _, ok := visited[next]; ok {
				continue
			}
			visited[next] = struct{}{}
			reached = append(reached, next)
			queue = append(queue, next)
		}
	}

	r.logger.Debug("Resolved transitive dependencies",
		zap.String("service_id", serviceID.String()),
		zap.Time("date", day.Start()),
		zap.Int("count", len(reached)))

	return r.load(ctx, reached)
}

func (r *DependencyResolver) load(ctx context.Context, ids []uuid.UUID) ([]*pricing.PricingService, error) {
	if len(ids) == 0 {
		return []*pricing.PricingService{}, nil
	}
	services, err := r.services.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load pricing services: %w", err)
	}
	sortServicesByName(services)
	return services, nil
}
