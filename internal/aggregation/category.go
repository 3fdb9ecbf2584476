package aggregation

import (
	"sort"
	"strings"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

// AllowedPaymentMethods retorna a lista fixa da categoria do terminal. Para tipos
// fora do conjunto conhecido, usa as formas de pagamento observadas nos dados.
func AllowedPaymentMethods(terminalType string, records []domain.SalesRecord) []domain.PaymentMethod {
	if methods := domain.CategoryOf(terminalType).PaymentMethods(); methods != nil {
		return methods
	}
	return ObservedPaymentMethods(terminalType, records)
}

// ObservedPaymentMethods lista, sem repetição e em ordem alfabética, as formas de
// pagamento das vendas do tipo de terminal informado
func ObservedPaymentMethods(terminalType string, records []domain.SalesRecord) []domain.PaymentMethod {
	terminalType = strings.TrimSpace(terminalType)
	seen := make(map[domain.PaymentMethod]struct{})

	for _, record := range records {
		if !strings.EqualFold(record.TerminalType, terminalType) || record.PaymentMethod == "" {
			continue
		}
		seen[record.PaymentMethod] = struct{}{}
	}

	methods := make([]domain.PaymentMethod, 0, len(seen))
	for method := range seen {
		methods = append(methods, method)
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i] < methods[j] })

	return methods
}
