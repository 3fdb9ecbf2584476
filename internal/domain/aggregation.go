package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AggregationKind identifica a agregação pedida pela camada de relatórios
type AggregationKind string

const (
	KindSumByGroup            AggregationKind = "sum_by_group"
	KindTopN                  AggregationKind = "top_n"
	KindDailySum              AggregationKind = "daily_sum"
	KindFortnightSplit        AggregationKind = "fortnight_split"
	KindPeriodDelta           AggregationKind = "period_delta"
	KindAllowedPaymentMethods AggregationKind = "allowed_payment_methods"
)

// Dimension é o campo categórico usado para agrupar vendas
type Dimension string

const (
	DimensionNone          Dimension = ""
	DimensionPaymentMethod Dimension = "payment_method"
	DimensionTerminalType  Dimension = "terminal_type"
	DimensionPDV           Dimension = "pdv"
	DimensionSerial        Dimension = "serial"
	DimensionPeriod        Dimension = "period"
)

// SortDirection define a ordem do ranking
type SortDirection string

const (
	SortDescending SortDirection = "desc"
	SortAscending  SortDirection = "asc"
)

// DefaultTopN é o tamanho padrão do ranking de PDVs
const DefaultTopN = 10

// Value retorna o valor do campo da dimensão; vazio significa ausente
func (r SalesRecord) Value(dimension Dimension) string {
	switch dimension {
	case DimensionPaymentMethod:
		return string(r.PaymentMethod)
	case DimensionTerminalType:
		return r.TerminalType
	case DimensionPDV:
		return r.PDV
	case DimensionSerial:
		return r.Serial
	case DimensionPeriod:
		return r.PeriodLabel
	}
	return ""
}

func (d Dimension) valid() bool {
	switch d {
	case DimensionNone, DimensionPaymentMethod, DimensionTerminalType, DimensionPDV, DimensionSerial, DimensionPeriod:
		return true
	}
	return false
}

// AggregationRequest combina filtros e o tipo de agregação. Nunca é persistido.
type AggregationRequest struct {
	Kind                  AggregationKind `json:"kind"`
	Periods               []string        `json:"periods,omitempty"`        // chaves ou rótulos; vazio = todos
	ComparePeriod         string          `json:"compare_period,omitempty"` // usado por period_delta
	PaymentMethod         string          `json:"payment_method,omitempty"`
	TerminalType          string          `json:"terminal_type,omitempty"`
	PDV                   string          `json:"pdv,omitempty"`
	ExcludePaymentMethods []string        `json:"exclude_payment_methods,omitempty"`
	CategoryFilter        bool            `json:"category_filter,omitempty"` // restringe às formas de pagamento da categoria do terminal
	GroupBy               Dimension       `json:"group_by,omitempty"`
	SecondaryGroupBy      Dimension       `json:"secondary_group_by,omitempty"`
	Limit                 int             `json:"limit,omitempty"`
	Direction             SortDirection   `json:"direction,omitempty"`
}

// Validate verifica a consistência da requisição antes de carregar qualquer período
func (r AggregationRequest) Validate() error {
	switch r.Kind {
	case KindSumByGroup, KindTopN, KindDailySum, KindFortnightSplit, KindPeriodDelta:
	case KindAllowedPaymentMethods:
		if r.TerminalType == "" {
			return fmt.Errorf("%w: terminal_type é obrigatório para %s", ErrInvalidRequest, r.Kind)
		}
	default:
		return fmt.Errorf("%w: tipo de agregação desconhecido %q", ErrInvalidRequest, r.Kind)
	}

	if !r.GroupBy.valid() {
		return fmt.Errorf("%w: dimensão desconhecida %q", ErrInvalidRequest, r.GroupBy)
	}
	if !r.SecondaryGroupBy.valid() {
		return fmt.Errorf("%w: dimensão secundária desconhecida %q", ErrInvalidRequest, r.SecondaryGroupBy)
	}
	if r.Limit < 0 {
		return fmt.Errorf("%w: limit não pode ser negativo", ErrInvalidRequest)
	}
	if r.Direction != "" && r.Direction != SortAscending && r.Direction != SortDescending {
		return fmt.Errorf("%w: direção inválida %q", ErrInvalidRequest, r.Direction)
	}
	if r.Kind == KindPeriodDelta && len(r.Periods) > 1 {
		return fmt.Errorf("%w: period_delta aceita apenas um período atual", ErrInvalidRequest)
	}

	return nil
}

// GroupTotal é a soma de valores de uma partição
type GroupTotal struct {
	Key   string          `json:"key"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// RankedGroup é um item do ranking de PDVs
type RankedGroup struct {
	Position int             `json:"position"`
	Key      string          `json:"key"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// DailyTotal é a soma do dia; Key preenchido quando há dimensão secundária
type DailyTotal struct {
	Date  time.Time       `json:"date"`
	Key   string          `json:"key,omitempty"`
	Total decimal.Decimal `json:"total"`
}

// FortnightTotals divide o período no dia 15
type FortnightTotals struct {
	First  decimal.Decimal `json:"first"`  // dias 1 a 15
	Second decimal.Decimal `json:"second"` // dias 16 ao fim do mês
	Total  decimal.Decimal `json:"total"`
}

// Delta é a variação percentual; Defined=false quando o denominador é zero ou inexistente
type Delta struct {
	Percent decimal.Decimal
	Defined bool
}

// Float retorna o percentual e se ele está definido
func (d Delta) Float() (float64, bool) {
	if !d.Defined {
		return 0, false
	}
	return d.Percent.InexactFloat64(), true
}

func (d Delta) MarshalJSON() ([]byte, error) {
	if !d.Defined {
		return []byte("null"), nil
	}
	return []byte(d.Percent.StringFixed(2)), nil
}

// FortnightReport compara as quinzenas do período e, se houver, do período anterior
type FortnightReport struct {
	Period           string           `json:"period,omitempty"`
	Totals           FortnightTotals  `json:"totals"`
	FirstVsSecond    Delta            `json:"first_vs_second"`
	SecondVsFirst    Delta            `json:"second_vs_first"`
	PreviousPeriod   string           `json:"previous_period,omitempty"`
	Previous         *FortnightTotals `json:"previous,omitempty"`
	FirstVsPrevious  Delta            `json:"first_vs_previous"`
	SecondVsPrevious Delta            `json:"second_vs_previous"`
}

// GroupDelta é a variação de um grupo entre dois períodos
type GroupDelta struct {
	Key      string          `json:"key"`
	Current  decimal.Decimal `json:"current"`
	Previous decimal.Decimal `json:"previous"`
	Delta    Delta           `json:"delta"`
}

// AggregationResult reúne o resultado de qualquer tipo de agregação
type AggregationResult struct {
	Kind           AggregationKind  `json:"kind"`
	Periods        []string         `json:"periods"`
	Total          decimal.Decimal  `json:"total"`
	RecordCount    int              `json:"record_count"`
	Groups         []GroupTotal     `json:"groups,omitempty"`
	Ranking        []RankedGroup    `json:"ranking,omitempty"`
	Daily          []DailyTotal     `json:"daily,omitempty"`
	Fortnight      *FortnightReport `json:"fortnight,omitempty"`
	ComparePeriod  string           `json:"compare_period,omitempty"`
	TotalDelta     *Delta           `json:"total_delta,omitempty"`
	Deltas         []GroupDelta     `json:"deltas,omitempty"`
	PaymentMethods []PaymentMethod  `json:"payment_methods,omitempty"`
}

// PeriodSummary alimenta os cards do período selecionado
type PeriodSummary struct {
	Period          string          `json:"period"`
	Total           decimal.Decimal `json:"total"`
	RecordCount     int             `json:"record_count"`
	ByPaymentMethod []GroupTotal    `json:"by_payment_method"`
	Fortnight       FortnightReport `json:"fortnight"`
	PreviousPeriod  string          `json:"previous_period,omitempty"`
	TotalDelta      Delta           `json:"total_delta"`
}
