package aggregation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

func sale(amount string, method domain.PaymentMethod, terminal, pdv string, day int) domain.SalesRecord {
	record := domain.SalesRecord{
		Amount:        decimal.RequireFromString(amount),
		PaymentMethod: method,
		TerminalType:  terminal,
		PDV:           pdv,
	}
	if day > 0 {
		ts := time.Date(2024, 1, day, 10, 0, 0, 0, time.UTC)
		record.Timestamp = &ts
	}
	return record
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestApply(t *testing.T) {
	records := []domain.SalesRecord{
		sale("10", domain.PaymentPix, "POS", "PDV1", 1),
		sale("20", domain.PaymentDinheiro, "TOTEM DE RECARGA", "PDV2", 2),
		sale("30", domain.PaymentLista, "POS SOMENTE LISTA", "PDV3", 3),
		sale("40", domain.PaymentPix, "POS SOMENTE LISTA", "PDV3", 4),
		sale("50", domain.PaymentCredito, "QUIOSQUE", "PDV4", 5),
	}

	tests := []struct {
		name    string
		filters Filters
		want    string
		count   int
	}{
		{name: "Sem filtros", filters: Filters{}, want: "150", count: 5},
		{name: "Forma de pagamento normalizada", filters: Filters{PaymentMethod: " pix "}, want: "50", count: 2},
		{name: "Exclui dinheiro", filters: Filters{Exclude: []string{"dinheiro"}}, want: "130", count: 4},
		{name: "Por PDV", filters: Filters{PDV: "PDV3"}, want: "70", count: 2},
		{name: "Tipo de terminal sem filtro de categoria", filters: Filters{TerminalType: "POS SOMENTE LISTA"}, want: "70", count: 2},
		{
			name:    "Terminal somente lista nunca reporta outra forma",
			filters: Filters{TerminalType: "POS SOMENTE LISTA", CategoryFilter: true},
			want:    "30",
			count:   1,
		},
		{
			name:    "Terminal desconhecido usa formas observadas",
			filters: Filters{TerminalType: "QUIOSQUE", CategoryFilter: true},
			want:    "50",
			count:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(records, tt.filters)
			assert.Len(t, got, tt.count)
			assert.True(t, dec(tt.want).Equal(Total(got)), "total %s", Total(got))
		})
	}
}

func TestAllowedPaymentMethods(t *testing.T) {
	records := []domain.SalesRecord{
		sale("1", domain.PaymentPix, "QUIOSQUE", "", 0),
		sale("1", "VALE", "QUIOSQUE", "", 0),
		sale("1", domain.PaymentPix, "QUIOSQUE", "", 0),
		sale("1", domain.PaymentLista, "POS", "", 0),
	}

	assert.Equal(t,
		[]domain.PaymentMethod{domain.PaymentLista},
		AllowedPaymentMethods("pos somente lista", records))
	assert.Equal(t,
		[]domain.PaymentMethod{domain.PaymentPix, domain.PaymentDinheiro, domain.PaymentDebito, domain.PaymentCredito},
		AllowedPaymentMethods("TOTEM DE RECARGA", records))
	assert.Equal(t,
		[]domain.PaymentMethod{domain.PaymentPix, "VALE"},
		AllowedPaymentMethods("QUIOSQUE", records))
	assert.Empty(t, AllowedPaymentMethods("INEXISTENTE", records))
}

func TestSumByGroup(t *testing.T) {
	records := []domain.SalesRecord{
		sale("10", domain.PaymentPix, "POS", "PDV1", 1),
		sale("5", domain.PaymentLista, "", "PDV2", 1),
		sale("7.5", domain.PaymentPix, "POS", "", 1),
		sale("15", domain.PaymentLista, "POS", "PDV1", 1),
	}

	byMethod := SumByGroup(records, domain.DimensionPaymentMethod)
	require.Len(t, byMethod, 2)
	assert.Equal(t, "LISTA", byMethod[0].Key)
	assert.True(t, dec("20").Equal(byMethod[0].Total))
	assert.Equal(t, "PIX", byMethod[1].Key)
	assert.True(t, dec("17.5").Equal(byMethod[1].Total))

	byTerminal := SumByGroup(records, domain.DimensionTerminalType)
	require.Len(t, byTerminal, 1, "vendas sem tipo de terminal não viram grupo 'desconhecido'")
	assert.True(t, dec("32.5").Equal(byTerminal[0].Total))
	assert.Equal(t, 3, byTerminal[0].Count)
}

func TestTopN(t *testing.T) {
	records := []domain.SalesRecord{
		sale("100", domain.PaymentPix, "POS", "PDV-C", 1),
		sale("50", domain.PaymentPix, "POS", "PDV-A", 1),
		sale("50", domain.PaymentPix, "POS", "PDV-B", 1),
		sale("10", domain.PaymentPix, "POS", "PDV-D", 1),
		sale("90", domain.PaymentPix, "POS", "", 1),
	}

	desc := TopN(records, 10, domain.SortDescending)
	assert.Equal(t, []string{"PDV-C", "PDV-A", "PDV-B", "PDV-D"}, rankingKeys(desc))
	assert.Equal(t, 1, desc[0].Position)
	assert.Equal(t, 4, desc[3].Position)

	asc := TopN(records, 10, domain.SortAscending)
	assert.Equal(t, []string{"PDV-D", "PDV-A", "PDV-B", "PDV-C"}, rankingKeys(asc))

	limited := TopN(records, 2, domain.SortDescending)
	assert.Equal(t, []string{"PDV-C", "PDV-A"}, rankingKeys(limited))

	assert.Len(t, TopN(records, 0, domain.SortDescending), 4)
}

func rankingKeys(ranking []domain.RankedGroup) []string {
	keys := make([]string, len(ranking))
	for i, item := range ranking {
		keys[i] = item.Key
	}
	return keys
}

func TestDailySum(t *testing.T) {
	records := []domain.SalesRecord{
		sale("10", domain.PaymentPix, "POS", "PDV1", 2),
		sale("5", domain.PaymentPix, "POS", "PDV1", 1),
		sale("7", domain.PaymentPix, "POS", "PDV2", 2),
		sale("1000", domain.PaymentPix, "POS", "PDV2", 0),
	}
	records[0].Serial = "S1"
	records[2].Serial = "S2"

	daily := DailySum(records, domain.DimensionNone)
	require.Len(t, daily, 2)
	assert.Equal(t, 1, daily[0].Date.Day())
	assert.True(t, dec("5").Equal(daily[0].Total))
	assert.True(t, dec("17").Equal(daily[1].Total))
	assert.Equal(t, 0, daily[1].Date.Hour())

	bySerial := DailySum(records, domain.DimensionSerial)
	require.Len(t, bySerial, 2)
	assert.Equal(t, "S1", bySerial[0].Key)
	assert.Equal(t, "S2", bySerial[1].Key)
}

func TestPercentDelta(t *testing.T) {
	hundredValue := dec("100")
	zero := decimal.Zero

	delta := PercentDelta(dec("150"), &hundredValue)
	require.True(t, delta.Defined)
	assert.True(t, dec("50").Equal(delta.Percent))

	delta = PercentDelta(dec("50"), &hundredValue)
	assert.True(t, dec("-50").Equal(delta.Percent))

	assert.False(t, PercentDelta(dec("150"), &zero).Defined)
	assert.False(t, PercentDelta(dec("150"), nil).Defined)

	raw, err := PercentDelta(dec("150"), &zero).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}

func TestCompareFortnights(t *testing.T) {
	current := []domain.SalesRecord{
		sale("100", domain.PaymentPix, "POS", "PDV1", 10),
		sale("50", domain.PaymentPix, "POS", "PDV1", 15),
		sale("300", domain.PaymentPix, "POS", "PDV1", 16),
		sale("999", domain.PaymentPix, "POS", "PDV1", 0),
	}

	report := CompareFortnights("Janeiro 2024", current, "", nil)
	assert.True(t, dec("150").Equal(report.Totals.First))
	assert.True(t, dec("300").Equal(report.Totals.Second))
	assert.True(t, dec("450").Equal(report.Totals.Total))
	assert.True(t, dec("100").Equal(report.SecondVsFirst.Percent))
	assert.True(t, dec("-50").Equal(report.FirstVsSecond.Percent))
	assert.Nil(t, report.Previous)
	assert.False(t, report.FirstVsPrevious.Defined)

	previous := []domain.SalesRecord{
		sale("100", domain.PaymentPix, "POS", "PDV1", 1),
	}
	report = CompareFortnights("Fevereiro 2024", current, "Janeiro 2024", previous)
	require.NotNil(t, report.Previous)
	assert.Equal(t, "Janeiro 2024", report.PreviousPeriod)
	assert.True(t, dec("50").Equal(report.FirstVsPrevious.Percent))
	assert.False(t, report.SecondVsPrevious.Defined, "segunda quinzena anterior zerada não gera delta")
}

func TestRun_PeriodDeltaBetweenMonths(t *testing.T) {
	january := domain.NewPeriodDataset(domain.Period{Month: "janeiro", Year: 2024}, []domain.SalesRecord{
		sale("600", domain.PaymentPix, "POS", "PDV1", 5),
		sale("400", domain.PaymentPix, "POS", "PDV2", 20),
		sale("300", domain.PaymentLista, "POS", "PDV1", 20),
	})
	february := domain.NewPeriodDataset(domain.Period{Month: "fevereiro", Year: 2024}, []domain.SalesRecord{
		sale("1200", domain.PaymentPix, "POS", "PDV1", 5),
		sale("100", domain.PaymentLista, "POS", "PDV1", 20),
	})

	result := Run(Input{
		Request:       domain.AggregationRequest{Kind: domain.KindPeriodDelta, PaymentMethod: "PIX"},
		Periods:       []string{"Fevereiro 2024"},
		Records:       february.Records,
		ComparePeriod: "Janeiro 2024",
		Previous:      january.Records,
	})

	require.NotNil(t, result.TotalDelta)
	assert.True(t, result.TotalDelta.Defined)
	assert.True(t, dec("20").Equal(result.TotalDelta.Percent))
	require.Len(t, result.Deltas, 1)
	assert.Equal(t, "PIX", result.Deltas[0].Key)
	assert.True(t, dec("20").Equal(result.Deltas[0].Delta.Percent))
	assert.Equal(t, "Janeiro 2024", result.ComparePeriod)
}

func TestRun_PeriodDeltaWithoutPreviousIsUndefined(t *testing.T) {
	result := Run(Input{
		Request: domain.AggregationRequest{Kind: domain.KindPeriodDelta},
		Records: []domain.SalesRecord{sale("150", domain.PaymentPix, "POS", "PDV1", 1)},
	})

	require.NotNil(t, result.TotalDelta)
	assert.False(t, result.TotalDelta.Defined)
	require.Len(t, result.Deltas, 1)
	assert.False(t, result.Deltas[0].Delta.Defined)
}

func TestRun_Kinds(t *testing.T) {
	records := []domain.SalesRecord{
		sale("10", domain.PaymentPix, "POS", "PDV1", 1),
		sale("20", domain.PaymentLista, "POS", "PDV2", 20),
	}

	groups := Run(Input{Request: domain.AggregationRequest{Kind: domain.KindSumByGroup}, Records: records})
	assert.Len(t, groups.Groups, 2)
	assert.True(t, dec("30").Equal(groups.Total))
	assert.Equal(t, 2, groups.RecordCount)

	top := Run(Input{Request: domain.AggregationRequest{Kind: domain.KindTopN, Limit: 1}, Records: records})
	assert.Equal(t, []string{"PDV2"}, rankingKeys(top.Ranking))

	daily := Run(Input{Request: domain.AggregationRequest{Kind: domain.KindDailySum}, Records: records})
	assert.Len(t, daily.Daily, 2)

	fortnight := Run(Input{Request: domain.AggregationRequest{Kind: domain.KindFortnightSplit}, Periods: []string{"Janeiro 2024"}, Records: records})
	require.NotNil(t, fortnight.Fortnight)
	assert.Equal(t, "Janeiro 2024", fortnight.Fortnight.Period)

	allowed := Run(Input{Request: domain.AggregationRequest{Kind: domain.KindAllowedPaymentMethods, TerminalType: "POS SOMENTE LISTA"}, Records: records})
	assert.Equal(t, []domain.PaymentMethod{domain.PaymentLista}, allowed.PaymentMethods)
}
