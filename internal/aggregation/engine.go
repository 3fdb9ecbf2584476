package aggregation

import (
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

// Input reúne o que uma agregação precisa, já carregado do armazenamento
type Input struct {
	Request domain.AggregationRequest
	Periods []string
	Records []domain.SalesRecord

	// ComparePeriod e Previous alimentam period_delta e fortnight_split.
	// Previous nil indica que o período de comparação não existe.
	ComparePeriod string
	Previous      []domain.SalesRecord
}

// Run aplica os filtros e executa a agregação pedida; não faz I/O
func Run(in Input) domain.AggregationResult {
	request := in.Request
	filters := FiltersFromRequest(request)
	records := Apply(in.Records, filters)

	result := domain.AggregationResult{
		Kind:        request.Kind,
		Periods:     in.Periods,
		Total:       Total(records),
		RecordCount: len(records),
	}

	switch request.Kind {
	case domain.KindSumByGroup:
		dimension := request.GroupBy
		if dimension == domain.DimensionNone {
			dimension = domain.DimensionPaymentMethod
		}
		result.Groups = SumByGroup(records, dimension)

	case domain.KindTopN:
		result.Ranking = TopN(records, request.Limit, request.Direction)

	case domain.KindDailySum:
		result.Daily = DailySum(records, request.SecondaryGroupBy)

	case domain.KindFortnightSplit:
		var previous []domain.SalesRecord
		if in.Previous != nil {
			previous = Apply(in.Previous, filters)
		}
		report := CompareFortnights(firstOrEmpty(in.Periods), records, in.ComparePeriod, previous)
		result.Fortnight = &report
		result.ComparePeriod = report.PreviousPeriod

	case domain.KindPeriodDelta:
		dimension := request.GroupBy
		if dimension == domain.DimensionNone {
			dimension = domain.DimensionPaymentMethod
		}

		var previous []domain.SalesRecord
		totalDelta := domain.Delta{}
		if in.Previous != nil {
			previous = Apply(in.Previous, filters)
			previousTotal := Total(previous)
			totalDelta = PercentDelta(result.Total, &previousTotal)
			result.ComparePeriod = in.ComparePeriod
		}
		result.TotalDelta = &totalDelta
		result.Deltas = GroupDeltas(records, previous, dimension)

	case domain.KindAllowedPaymentMethods:
		result.PaymentMethods = AllowedPaymentMethods(request.TerminalType, in.Records)
	}

	return result
}

func firstOrEmpty(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
