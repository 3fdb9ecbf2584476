package aggregation

import (
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

type generatedSale struct {
	Cents uint16
	Day   int
	PDV   int
}

func genSale() gopter.Gen {
	return gopter.CombineGens(
		gen.UInt16(),
		gen.IntRange(1, 31),
		gen.IntRange(0, 5),
	).Map(func(values []interface{}) generatedSale {
		return generatedSale{
			Cents: values[0].(uint16),
			Day:   values[1].(int),
			PDV:   values[2].(int),
		}
	})
}

func toRecords(sales []generatedSale) []domain.SalesRecord {
	records := make([]domain.SalesRecord, len(sales))
	for i, s := range sales {
		ts := time.Date(2024, 3, s.Day, 12, 0, 0, 0, time.UTC)
		records[i] = domain.SalesRecord{
			Amount:        decimal.New(int64(s.Cents), -2),
			PaymentMethod: domain.PaymentPix,
			PDV:           fmt.Sprintf("PDV%d", s.PDV),
			Timestamp:     &ts,
		}
	}
	return records
}

func TestAggregation_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("quinzenas são disjuntas e cobrem o total", prop.ForAll(
		func(sales []generatedSale) bool {
			records := toRecords(sales)
			totals := FortnightsOf(records)
			return totals.First.Add(totals.Second).Equal(Total(records)) &&
				totals.Total.Equal(Total(records))
		},
		gen.SliceOf(genSale()),
	))

	properties.Property("ranking crescente é o inverso do decrescente exceto empates", prop.ForAll(
		func(sales []generatedSale) bool {
			records := toRecords(sales)
			desc := TopN(records, 100, domain.SortDescending)
			asc := TopN(records, 100, domain.SortAscending)
			if len(desc) != len(asc) {
				return false
			}

			for i := range desc {
				mirrored := asc[len(asc)-1-i]
				if !desc[i].Total.Equal(mirrored.Total) {
					return false
				}
			}

			// empates sempre em ordem crescente de chave nas duas direções
			for _, ranking := range [][]domain.RankedGroup{desc, asc} {
				for i := 1; i < len(ranking); i++ {
					if ranking[i].Total.Equal(ranking[i-1].Total) && ranking[i].Key < ranking[i-1].Key {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(genSale()),
	))

	properties.Property("delta é indefinido somente sem anterior positivo", prop.ForAll(
		func(current, previous uint32) bool {
			cur := decimal.NewFromInt(int64(current))
			prev := decimal.NewFromInt(int64(previous))
			delta := PercentDelta(cur, &prev)
			if previous == 0 {
				return !delta.Defined
			}
			back := prev.Add(prev.Mul(delta.Percent).Div(hundred))
			return delta.Defined && back.Sub(cur).Abs().LessThan(decimal.New(1, -6))
		},
		gen.UInt32(),
		gen.UInt32(),
	))

	properties.TestingRun(t)
}
