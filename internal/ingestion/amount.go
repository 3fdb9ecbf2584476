package ingestion

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyAmount    = errors.New("valor vazio")
	ErrInvalidAmount  = errors.New("valor não numérico")
	ErrNegativeAmount = errors.New("valor negativo")
)

// ParseAmount limpa o texto do valor mantendo dígitos, separadores e o sinal inicial.
// Toda vírgula vira ponto, então "1.234,56" não é aceito.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := cleanAmount(raw)
	if cleaned == "" || cleaned == "-" {
		return decimal.Zero, ErrEmptyAmount
	}

	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNegativeAmount, raw)
	}

	return amount, nil
}

func cleanAmount(raw string) string {
	trimmed := strings.TrimSpace(raw)

	var builder strings.Builder
	builder.Grow(len(trimmed))

	for i, r := range trimmed {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.':
			builder.WriteRune(r)
		case r == '-' && builder.Len() == 0 && !hasDigitBefore(trimmed[:i]):
			builder.WriteRune(r)
		}
	}

	return builder.String()
}

// hasDigitBefore evita que um hífen no meio do texto seja lido como sinal
func hasDigitBefore(prefix string) bool {
	return strings.ContainsAny(prefix, "0123456789")
}
