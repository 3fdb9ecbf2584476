package ingestion

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

func batchFrom(header []string, rows ...[]string) *domain.RawBatch {
	batch := &domain.RawBatch{Encoding: "utf-8", Header: header}
	for _, values := range rows {
		batch.Rows = append(batch.Rows, domain.RawRow{Columns: header, Values: values})
	}
	return batch
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "Vírgula decimal", input: "10,50", want: "10.5"},
		{name: "Ponto decimal", input: "10.50", want: "10.5"},
		{name: "Com símbolo de moeda", input: "R$ 1234,56", want: "1234.56"},
		{name: "Inteiro", input: "7", want: "7"},
		{name: "Zero é aceito", input: "0,00", want: "0"},
		{name: "Negativo é rejeitado", input: "-5,00", wantErr: ErrNegativeAmount},
		{name: "Negativo com moeda", input: "R$ -5,00", wantErr: ErrNegativeAmount},
		{name: "Separador de milhar não é suportado", input: "1.234,56", wantErr: ErrInvalidAmount},
		{name: "Vazio", input: "  ", wantErr: ErrEmptyAmount},
		{name: "Sem dígitos", input: "abc", wantErr: ErrEmptyAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "esperado %s, obtido %s", tt.want, got)
		})
	}
}

func TestParseAmount_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("reprocessar um valor já canônico não muda o valor", prop.ForAll(
		func(units uint32, cents uint8) bool {
			amount := decimal.New(int64(units), 0).Add(decimal.New(int64(cents%100), -2))
			parsed, err := ParseAmount(amount.String())
			if err != nil {
				return false
			}
			again, err := ParseAmount(parsed.String())
			return err == nil && parsed.Equal(amount) && again.Equal(parsed)
		},
		gen.UInt32(),
		gen.UInt8(),
	))

	properties.Property("valor aceito nunca é negativo", prop.ForAll(
		func(raw string) bool {
			parsed, err := ParseAmount(raw)
			return err != nil || !parsed.IsNegative()
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestCanonicalizer_Canonicalize(t *testing.T) {
	loc := time.UTC
	canonicalizer := NewCanonicalizer(loc)

	t.Run("Aceita valor válido e descarta negativo", func(t *testing.T) {
		batch := batchFrom(
			[]string{"VALOR", "TIPO DE PAGAMENTO", "DATA/HORA"},
			[]string{"10,50", " pix ", "2024-01-03"},
			[]string{"-5,00", "PIX", "2024-01-03"},
		)

		result := canonicalizer.Canonicalize(batch, "Janeiro 2024")

		require.Len(t, result.Records, 1)
		record := result.Records[0]
		assert.True(t, decimal.RequireFromString("10.50").Equal(record.Amount))
		assert.Equal(t, domain.PaymentPix, record.PaymentMethod)
		assert.Equal(t, "Janeiro 2024", record.PeriodLabel)
		require.NotNil(t, record.Timestamp)
		assert.True(t, time.Date(2024, 1, 3, 0, 0, 0, 0, loc).Equal(*record.Timestamp))
		assert.Equal(t, 1, result.RejectedRows)
		assert.Equal(t, 0, result.UntimedRows)
	})

	t.Run("VALOR PAGO é renomeado para VALOR", func(t *testing.T) {
		batch := batchFrom(
			[]string{"VALOR PAGO", "TIPO DE PAGAMENTO"},
			[]string{"3,00", "LISTA"},
		)

		result := canonicalizer.Canonicalize(batch, "")

		require.Len(t, result.Records, 1)
		assert.True(t, decimal.NewFromInt(3).Equal(result.Records[0].Amount))
		assert.Empty(t, result.Records[0].PeriodLabel)
		assert.Nil(t, result.Records[0].Timestamp)
		assert.Equal(t, 1, result.UntimedRows)
	})

	t.Run("VALOR tem precedência sobre VALOR PAGO", func(t *testing.T) {
		batch := batchFrom(
			[]string{"VALOR PAGO", "VALOR", "TIPO DE PAGAMENTO"},
			[]string{"1,00", "2,00", "PIX"},
		)

		result := canonicalizer.Canonicalize(batch, "")

		require.Len(t, result.Records, 1)
		assert.True(t, decimal.NewFromInt(2).Equal(result.Records[0].Amount))
	})

	t.Run("Sem coluna de valor todas as linhas são rejeitadas", func(t *testing.T) {
		batch := batchFrom(
			[]string{"TIPO DE PAGAMENTO"},
			[]string{"PIX"},
			[]string{"LISTA"},
		)

		result := canonicalizer.Canonicalize(batch, "")

		assert.Empty(t, result.Records)
		assert.Equal(t, 2, result.RejectedRows)
		assert.Contains(t, result.MissingColumns, ColumnAmount)
	})

	t.Run("Colunas opcionais e data inválida", func(t *testing.T) {
		batch := batchFrom(
			[]string{"VALOR", "TIPO DE PAGAMENTO", "TIPO DO TERMINAL", "PDV", "SERIAL", "DATA/HORA"},
			[]string{"1", "débito", "POS", "PDV 01", "ABC123", "ontem"},
		)

		result := canonicalizer.Canonicalize(batch, "")

		require.Len(t, result.Records, 1)
		record := result.Records[0]
		assert.Equal(t, domain.PaymentDebito, record.PaymentMethod)
		assert.Equal(t, "POS", record.TerminalType)
		assert.Equal(t, "PDV 01", record.PDV)
		assert.Equal(t, "ABC123", record.Serial)
		assert.Nil(t, record.Timestamp)
		assert.Equal(t, 1, result.UntimedRows)
	})

	t.Run("Batch nulo", func(t *testing.T) {
		result := canonicalizer.Canonicalize(nil, "")
		assert.Empty(t, result.Records)
	})
}

func TestCanonicalizer_EndToEndWithParser(t *testing.T) {
	input := []byte("VALOR;TIPO DE PAGAMENTO;DATA/HORA\n10,50;PIX;2024-01-03\n-5,00;PIX;2024-01-03\n")

	batch, err := newTestParser(t).Parse(input)
	require.NoError(t, err)

	result := NewCanonicalizer(time.UTC).Canonicalize(batch, "Janeiro 2024")

	require.Len(t, result.Records, 1)
	assert.True(t, decimal.RequireFromString("10.5").Equal(result.Records[0].Amount))
	assert.Equal(t, domain.PaymentPix, result.Records[0].PaymentMethod)
	assert.Equal(t, "Janeiro 2024", result.Records[0].PeriodLabel)
}
