package aggregation

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// PercentDelta calcula (atual - anterior) / anterior * 100.
// Fica indefinido quando não há anterior ou quando ele não é positivo.
func PercentDelta(current decimal.Decimal, previous *decimal.Decimal) domain.Delta {
	if previous == nil || !previous.IsPositive() {
		return domain.Delta{}
	}

	return domain.Delta{
		Percent: current.Sub(*previous).Div(*previous).Mul(hundred),
		Defined: true,
	}
}

// GroupDeltas compara os totais por grupo entre o período atual e o anterior.
// previous nil significa que o período anterior não existe.
func GroupDeltas(current, previous []domain.SalesRecord, dimension domain.Dimension) []domain.GroupDelta {
	currentTotals := make(map[string]decimal.Decimal)
	for _, group := range groupTotals(current, dimension) {
		currentTotals[group.Key] = group.Total
	}

	previousTotals := make(map[string]decimal.Decimal)
	if previous != nil {
		for _, group := range groupTotals(previous, dimension) {
			previousTotals[group.Key] = group.Total
		}
	}

	keys := make([]string, 0, len(currentTotals)+len(previousTotals))
	for key := range currentTotals {
		keys = append(keys, key)
	}
	for key := range previousTotals {
		if _, ok := currentTotals[key]; !ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	deltas := make([]domain.GroupDelta, 0, len(keys))
	for _, key := range keys {
		currentTotal, ok := currentTotals[key]
		if !ok {
			currentTotal = decimal.Zero
		}

		groupDelta := domain.GroupDelta{Key: key, Current: currentTotal, Previous: decimal.Zero}
		if previousTotal, ok := previousTotals[key]; ok {
			groupDelta.Previous = previousTotal
			groupDelta.Delta = PercentDelta(currentTotal, &previousTotal)
		}
		deltas = append(deltas, groupDelta)
	}

	return deltas
}
