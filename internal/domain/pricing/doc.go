// Package pricing provides the domain model for allocating infrastructure
// usage and extra costs to the ventures that consume them.
//
// Key Entities:
//   - UsageType: A measurable resource (CPU hours, rack units, a service's capacity)
//   - UsagePrice: A price or pooled cost valid for a date range, optionally per warehouse
//   - DailyUsage: One day of usage of a usage type by a venture
//   - Venture: A consuming unit, organised in a tree
//   - ServiceUsageType: A weighted, time-bounded dependency edge between services
//   - ExtraCost: A flat daily cost charged directly to a venture
//
// Value Objects:
//   - AllocationMode: UnitPrice or PooledCost, resolved per price definition
//
// All ranges are inclusive calendar days (valueobject.DateRange).
package pricing
