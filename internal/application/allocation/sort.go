package allocation

import (
	"slices"
	"strings"

	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
)

func sortPeriods(periods []PricePeriod) {
	slices.SortStableFunc(periods, func(a, b PricePeriod) int {
		return a.Period.Start().Compare(b.Period.Start())
	})
}

func sortServicesByName(services []*pricing.PricingService) {
	slices.SortFunc(services, func(a, b *pricing.PricingService) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
}
