package ingestion

import (
	"strings"
	"time"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

// Nomes canônicos das colunas do arquivo do PDV
const (
	ColumnAmount        = "VALOR"
	ColumnPaymentMethod = "TIPO DE PAGAMENTO"
	ColumnTerminalType  = "TIPO DO TERMINAL"
	ColumnPDV           = "PDV"
	ColumnSerial        = "SERIAL"
	ColumnTimestamp     = "DATA/HORA"
)

// ColumnAliases mapeia cada campo canônico para os nomes aceitos, em ordem de precedência
type ColumnAliases map[string][]string

// DefaultColumnAliases cobre as variações conhecidas dos exports
var DefaultColumnAliases = ColumnAliases{
	ColumnAmount:        {"VALOR", "VALOR PAGO", "VALOR DA RECARGA"},
	ColumnPaymentMethod: {"TIPO DE PAGAMENTO", "FORMA DE PAGAMENTO"},
	ColumnTerminalType:  {"TIPO DO TERMINAL", "TIPO DE TERMINAL"},
	ColumnPDV:           {"PDV"},
	ColumnSerial:        {"SERIAL", "NÚMERO DE SÉRIE"},
	ColumnTimestamp:     {"DATA/HORA", "DATA HORA", "DATA"},
}

// CanonicalizeResult traz as vendas aceitas e as contagens do que ficou de fora
type CanonicalizeResult struct {
	Records        []domain.SalesRecord
	RejectedRows   int
	UntimedRows    int
	MissingColumns []string
}

// Canonicalizer converte linhas brutas em vendas canônicas
type Canonicalizer struct {
	aliases  ColumnAliases
	dates    DateChain
	location *time.Location
}

// NewCanonicalizer usa o fuso informado para interpretar datas sem deslocamento
func NewCanonicalizer(location *time.Location) *Canonicalizer {
	if location == nil {
		location = time.UTC
	}
	return &Canonicalizer{
		aliases:  DefaultColumnAliases,
		dates:    DefaultDateChain,
		location: location,
	}
}

// Location retorna o fuso usado nas datas
func (c *Canonicalizer) Location() *time.Location {
	return c.location
}

// Canonicalize aceita apenas linhas com valor numérico não negativo.
// Linhas rejeitadas não aparecem no resultado, só na contagem.
func (c *Canonicalizer) Canonicalize(batch *domain.RawBatch, periodLabel string) *CanonicalizeResult {
	result := &CanonicalizeResult{
		Records: make([]domain.SalesRecord, 0),
	}
	if batch == nil {
		return result
	}

	index := c.resolveColumns(batch.Header)
	for _, column := range []string{ColumnAmount, ColumnPaymentMethod} {
		if _, ok := index[column]; !ok {
			result.MissingColumns = append(result.MissingColumns, column)
		}
	}

	amountIdx, hasAmount := index[ColumnAmount]
	if !hasAmount {
		result.RejectedRows = len(batch.Rows)
		return result
	}

	for _, row := range batch.Rows {
		amount, err := ParseAmount(valueAt(row, amountIdx))
		if err != nil {
			result.RejectedRows++
			continue
		}

		record := domain.SalesRecord{
			Amount:        amount,
			PaymentMethod: domain.NormalizePaymentMethod(c.lookup(row, index, ColumnPaymentMethod)),
			TerminalType:  strings.TrimSpace(c.lookup(row, index, ColumnTerminalType)),
			PDV:           strings.TrimSpace(c.lookup(row, index, ColumnPDV)),
			Serial:        strings.TrimSpace(c.lookup(row, index, ColumnSerial)),
			PeriodLabel:   periodLabel,
		}

		if parsed, ok := c.dates.Parse(c.lookup(row, index, ColumnTimestamp), c.location); ok {
			record.Timestamp = &parsed
		} else {
			result.UntimedRows++
		}

		result.Records = append(result.Records, record)
	}

	return result
}

// resolveColumns encontra, para cada campo canônico, o primeiro alias presente no cabeçalho
func (c *Canonicalizer) resolveColumns(header []string) map[string]int {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToUpper(strings.TrimSpace(name))
		if _, exists := positions[key]; !exists {
			positions[key] = i
		}
	}

	index := make(map[string]int, len(c.aliases))
	for canonical, aliases := range c.aliases {
		for _, alias := range aliases {
			if i, ok := positions[strings.ToUpper(alias)]; ok {
				index[canonical] = i
				break
			}
		}
	}

	return index
}

func (c *Canonicalizer) lookup(row domain.RawRow, index map[string]int, column string) string {
	i, ok := index[column]
	if !ok {
		return ""
	}
	return valueAt(row, i)
}

func valueAt(row domain.RawRow, i int) string {
	if i < 0 || i >= len(row.Values) {
		return ""
	}
	return row.Values[i]
}
