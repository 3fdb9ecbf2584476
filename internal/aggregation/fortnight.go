package aggregation

import (
	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

// FortnightBoundary é o último dia da primeira quinzena, independente do tamanho do mês
const FortnightBoundary = 15

// SplitFortnights divide somas diárias entre dia <= 15 e dia > 15
func SplitFortnights(daily []domain.DailyTotal) domain.FortnightTotals {
	totals := domain.FortnightTotals{
		First:  decimal.Zero,
		Second: decimal.Zero,
		Total:  decimal.Zero,
	}

	for _, day := range daily {
		if day.Date.Day() <= FortnightBoundary {
			totals.First = totals.First.Add(day.Total)
		} else {
			totals.Second = totals.Second.Add(day.Total)
		}
		totals.Total = totals.Total.Add(day.Total)
	}

	return totals
}

// FortnightsOf soma as quinzenas das vendas com horário
func FortnightsOf(records []domain.SalesRecord) domain.FortnightTotals {
	return SplitFortnights(DailySum(records, domain.DimensionNone))
}

// CompareFortnights monta o comparativo das quinzenas do período atual entre si e,
// quando previous não é nil, com as quinzenas do período anterior
func CompareFortnights(period string, current []domain.SalesRecord, previousPeriod string, previous []domain.SalesRecord) domain.FortnightReport {
	totals := FortnightsOf(current)

	report := domain.FortnightReport{
		Period:        period,
		Totals:        totals,
		FirstVsSecond: PercentDelta(totals.First, &totals.Second),
		SecondVsFirst: PercentDelta(totals.Second, &totals.First),
	}

	if previous == nil {
		return report
	}

	previousTotals := FortnightsOf(previous)
	report.PreviousPeriod = previousPeriod
	report.Previous = &previousTotals
	report.FirstVsPrevious = PercentDelta(totals.First, &previousTotals.First)
	report.SecondVsPrevious = PercentDelta(totals.Second, &previousTotals.Second)

	return report
}
