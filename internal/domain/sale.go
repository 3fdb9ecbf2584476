package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod é o token normalizado (maiúsculo, sem espaços nas pontas) da forma de pagamento.
// O conjunto é aberto: tokens desconhecidos são mantidos como vieram.
type PaymentMethod string

const (
	PaymentPix      PaymentMethod = "PIX"
	PaymentLista    PaymentMethod = "LISTA"
	PaymentDinheiro PaymentMethod = "DINHEIRO"
	PaymentDebito   PaymentMethod = "DÉBITO"
	PaymentCredito  PaymentMethod = "CRÉDITO"
)

// NormalizePaymentMethod remove espaços e converte para maiúsculas, sem substituir valores
func NormalizePaymentMethod(raw string) PaymentMethod {
	return PaymentMethod(strings.ToUpper(strings.TrimSpace(raw)))
}

// SalesRecord é a venda já normalizada para o esquema canônico.
// Campos textuais vazios representam coluna ausente na origem.
type SalesRecord struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	TerminalType  string          `json:"terminal_type,omitempty"`
	PDV           string          `json:"pdv,omitempty"`
	Serial        string          `json:"serial,omitempty"`
	Timestamp     *time.Time      `json:"timestamp,omitempty"`
	PeriodLabel   string          `json:"period_label,omitempty"`
}

// HasTimestamp indica se a venda pode entrar em agregações por data
func (r SalesRecord) HasTimestamp() bool {
	return r.Timestamp != nil && !r.Timestamp.IsZero()
}

// PeriodDataset é o conjunto completo e ordenado de vendas de um período
type PeriodDataset struct {
	Period  Period        `json:"period"`
	Records []SalesRecord `json:"records"`
}

// NewPeriodDataset cria o dataset garantindo que todas as vendas carreguem o rótulo do período
func NewPeriodDataset(period Period, records []SalesRecord) *PeriodDataset {
	label := period.Label()
	tagged := make([]SalesRecord, len(records))
	for i, record := range records {
		record.PeriodLabel = label
		tagged[i] = record
	}

	return &PeriodDataset{
		Period:  period,
		Records: tagged,
	}
}

// Total soma o valor de todas as vendas do dataset
func (d *PeriodDataset) Total() decimal.Decimal {
	total := decimal.Zero
	if d == nil {
		return total
	}
	for _, record := range d.Records {
		total = total.Add(record.Amount)
	}
	return total
}
