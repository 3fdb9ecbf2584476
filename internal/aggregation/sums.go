package aggregation

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

// SumByGroup soma o valor por valor da dimensão. Vendas sem o campo ficam fora.
// Resultado ordenado por total decrescente e, no empate, pela chave.
func SumByGroup(records []domain.SalesRecord, dimension domain.Dimension) []domain.GroupTotal {
	groups := groupTotals(records, dimension)

	sort.SliceStable(groups, func(i, j int) bool {
		if !groups[i].Total.Equal(groups[j].Total) {
			return groups[i].Total.GreaterThan(groups[j].Total)
		}
		return groups[i].Key < groups[j].Key
	})

	return groups
}

// groupTotals agrega sem ordenação definida
func groupTotals(records []domain.SalesRecord, dimension domain.Dimension) []domain.GroupTotal {
	index := make(map[string]int)
	groups := make([]domain.GroupTotal, 0)

	for _, record := range records {
		key := record.Value(dimension)
		if key == "" {
			continue
		}

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, domain.GroupTotal{Key: key, Total: decimal.Zero})
		}
		groups[i].Total = groups[i].Total.Add(record.Amount)
		groups[i].Count++
	}

	return groups
}

// DailySum soma por data do calendário; vendas sem horário ficam fora.
// Com dimensão secundária, soma por par (data, valor da dimensão).
func DailySum(records []domain.SalesRecord, secondary domain.Dimension) []domain.DailyTotal {
	type bucket struct {
		day string
		key string
	}

	index := make(map[bucket]int)
	totals := make([]domain.DailyTotal, 0)

	for _, record := range records {
		if !record.HasTimestamp() {
			continue
		}

		key := ""
		if secondary != domain.DimensionNone {
			key = record.Value(secondary)
			if key == "" {
				continue
			}
		}

		ts := *record.Timestamp
		date := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
		b := bucket{day: date.Format(time.DateOnly), key: key}

		i, ok := index[b]
		if !ok {
			i = len(totals)
			index[b] = i
			totals = append(totals, domain.DailyTotal{Date: date, Key: key, Total: decimal.Zero})
		}
		totals[i].Total = totals[i].Total.Add(record.Amount)
	}

	sort.SliceStable(totals, func(i, j int) bool {
		if !totals[i].Date.Equal(totals[j].Date) {
			return totals[i].Date.Before(totals[j].Date)
		}
		return totals[i].Key < totals[j].Key
	})

	return totals
}
