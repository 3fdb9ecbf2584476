// Package aggregation reúne as agregações puras sobre vendas canônicas
package aggregation

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

// Filters restringe as vendas antes de qualquer agregação. Campos vazios não filtram.
type Filters struct {
	PaymentMethod  string
	TerminalType   string
	PDV            string
	Exclude        []string
	CategoryFilter bool
}

// FiltersFromRequest extrai os filtros de uma requisição de agregação
func FiltersFromRequest(request domain.AggregationRequest) Filters {
	return Filters{
		PaymentMethod:  request.PaymentMethod,
		TerminalType:   request.TerminalType,
		PDV:            request.PDV,
		Exclude:        request.ExcludePaymentMethods,
		CategoryFilter: request.CategoryFilter,
	}
}

// Combine concatena as vendas dos datasets na ordem recebida
func Combine(datasets ...*domain.PeriodDataset) []domain.SalesRecord {
	size := 0
	for _, dataset := range datasets {
		if dataset != nil {
			size += len(dataset.Records)
		}
	}

	records := make([]domain.SalesRecord, 0, size)
	for _, dataset := range datasets {
		if dataset != nil {
			records = append(records, dataset.Records...)
		}
	}
	return records
}

// Apply devolve uma nova fatia apenas com as vendas que passam nos filtros
func Apply(records []domain.SalesRecord, filters Filters) []domain.SalesRecord {
	paymentMethod := domain.NormalizePaymentMethod(filters.PaymentMethod)
	terminalType := strings.TrimSpace(filters.TerminalType)
	pdv := strings.TrimSpace(filters.PDV)

	excluded := make(map[domain.PaymentMethod]struct{}, len(filters.Exclude))
	for _, method := range filters.Exclude {
		excluded[domain.NormalizePaymentMethod(method)] = struct{}{}
	}

	var allowed map[domain.PaymentMethod]struct{}
	if filters.CategoryFilter && terminalType != "" {
		methods := AllowedPaymentMethods(terminalType, records)
		allowed = make(map[domain.PaymentMethod]struct{}, len(methods))
		for _, method := range methods {
			allowed[method] = struct{}{}
		}
	}

	out := make([]domain.SalesRecord, 0, len(records))
	for _, record := range records {
		if paymentMethod != "" && record.PaymentMethod != paymentMethod {
			continue
		}
		if terminalType != "" && !strings.EqualFold(record.TerminalType, terminalType) {
			continue
		}
		if pdv != "" && record.PDV != pdv {
			continue
		}
		if _, skip := excluded[record.PaymentMethod]; skip {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[record.PaymentMethod]; !ok {
				continue
			}
		}
		out = append(out, record)
	}

	return out
}

// Total soma o valor de todas as vendas
func Total(records []domain.SalesRecord) decimal.Decimal {
	total := decimal.Zero
	for _, record := range records {
		total = total.Add(record.Amount)
	}
	return total
}
