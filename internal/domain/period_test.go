package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantKey   string
		wantLabel string
		wantErr   bool
	}{
		{name: "Chave", input: "janeiro_24", wantKey: "janeiro_24", wantLabel: "Janeiro 2024"},
		{name: "Rótulo", input: "Março 2025", wantKey: "março_25", wantLabel: "Março 2025"},
		{name: "Rótulo com ano de dois dígitos", input: "Abril 24", wantKey: "abril_24", wantLabel: "Abril 2024"},
		{name: "Último ano representável", input: "Dezembro 2099", wantKey: "dezembro_99", wantLabel: "Dezembro 2099"},
		{name: "Ano antes de 2000 não cabe na chave", input: "Janeiro 1999", wantErr: true},
		{name: "Ano depois de 2099 não cabe na chave", input: "Janeiro 2100", wantErr: true},
		{name: "Chave com ano de quatro dígitos", input: "janeiro_2024", wantErr: true},
		{name: "Texto solto", input: "janeiro", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			period, err := ParsePeriod(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPeriodKey)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, period.Key())
			assert.Equal(t, tt.wantLabel, period.Label())

			roundTrip, err := ParsePeriod(period.Key())
			require.NoError(t, err)
			assert.Equal(t, period, roundTrip)
		})
	}
}
