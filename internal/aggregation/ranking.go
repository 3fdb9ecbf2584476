package aggregation

import (
	"sort"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

// TopN agrupa por PDV e devolve os n primeiros na direção pedida.
// Empates de total são sempre desempatados pela chave do PDV em ordem crescente,
// nas duas direções. n <= 0 usa domain.DefaultTopN.
func TopN(records []domain.SalesRecord, n int, direction domain.SortDirection) []domain.RankedGroup {
	if n <= 0 {
		n = domain.DefaultTopN
	}

	groups := groupTotals(records, domain.DimensionPDV)

	sort.SliceStable(groups, func(i, j int) bool {
		cmp := groups[i].Total.Cmp(groups[j].Total)
		if cmp == 0 {
			return groups[i].Key < groups[j].Key
		}
		if direction == domain.SortAscending {
			return cmp < 0
		}
		return cmp > 0
	})

	if len(groups) > n {
		groups = groups[:n]
	}

	ranking := make([]domain.RankedGroup, len(groups))
	for i, group := range groups {
		ranking[i] = domain.RankedGroup{
			Position: i + 1,
			Key:      group.Key,
			Total:    group.Total,
			Count:    group.Count,
		}
	}

	return ranking
}
