package ingesting

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/ingestion"
	"go.uber.org/mock/gomock"
)

const sampleFile = "VALOR;TIPO DE PAGAMENTO;TIPO DO TERMINAL;PDV;DATA/HORA\n" +
	"10,50;PIX;POS;PDV1;2024-01-03\n" +
	"-5,00;PIX;POS;PDV1;2024-01-03\n"

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) InvalidateCache() int {
	c.calls++
	return 0
}

func newTestService(t *testing.T, store *mocks.MockPeriodStore) (*Service, *countingInvalidator) {
	t.Helper()
	encodings, err := ingestion.LookupEncodings(nil)
	require.NoError(t, err)

	invalidator := &countingInvalidator{}
	service := NewService(
		ingestion.NewParser(';', encodings),
		ingestion.NewCanonicalizer(time.UTC),
		store,
	).WithInvalidator(invalidator)

	return service, invalidator
}

func TestService_Ingest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockPeriodStore(ctrl)
	service, invalidator := newTestService(t, store)
	january := domain.Period{Month: "janeiro", Year: 2024}

	store.EXPECT().
		Put(january, gomock.Any()).
		DoAndReturn(func(_ domain.Period, dataset *domain.PeriodDataset) error {
			require.Len(t, dataset.Records, 1)
			assert.True(t, decimal.RequireFromString("10.50").Equal(dataset.Records[0].Amount))
			assert.Equal(t, "Janeiro 2024", dataset.Records[0].PeriodLabel)
			return nil
		}).
		Times(2)

	dataset, report, err := service.Ingest(context.Background(), []byte(sampleFile), "Janeiro 2024")
	require.NoError(t, err)
	require.Len(t, dataset.Records, 1)
	assert.Equal(t, domain.PaymentPix, dataset.Records[0].PaymentMethod)
	assert.Equal(t, "PDV1", dataset.Records[0].PDV)
	assert.Equal(t, 2, report.RawRows)
	assert.Equal(t, 1, report.AcceptedRows)
	assert.Equal(t, 1, report.RejectedRows)
	assert.Equal(t, "utf-8", report.Encoding)
	assert.False(t, report.Cached)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 1, invalidator.calls)

	// mesmo conteúdo e mesmo período reaproveitam o processamento, mas o período é gravado de novo
	_, report, err = service.Ingest(context.Background(), []byte(sampleFile), "janeiro_24")
	require.NoError(t, err)
	assert.True(t, report.Cached)
	assert.Equal(t, 2, invalidator.calls)
	assert.Equal(t, uint64(1), service.CacheStats().Hits)
}

func TestService_Ingest_Failures(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		period   string
		setup    func(store *mocks.MockPeriodStore)
		wantKind string
	}{
		{
			name:     "Arquivo sem linhas de dados não grava nada",
			raw:      "VALOR;TIPO DE PAGAMENTO\n",
			period:   "janeiro_24",
			setup:    func(store *mocks.MockPeriodStore) {},
			wantKind: domain.IngestionDecodeFailure,
		},
		{
			name:     "Período inválido",
			raw:      sampleFile,
			period:   "janeiro-2024",
			setup:    func(store *mocks.MockPeriodStore) {},
			wantKind: domain.IngestionInvalidPeriod,
		},
		{
			name:   "Falha no armazenamento",
			raw:    sampleFile,
			period: "janeiro_24",
			setup: func(store *mocks.MockPeriodStore) {
				store.EXPECT().Put(gomock.Any(), gomock.Any()).Return(domain.ErrStoreFailure)
			},
			wantKind: domain.IngestionStoreFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := mocks.NewMockPeriodStore(ctrl)
			tt.setup(store)
			service, invalidator := newTestService(t, store)

			dataset, report, err := service.Ingest(context.Background(), []byte(tt.raw), tt.period)

			var ingestionErr *domain.IngestionError
			require.True(t, errors.As(err, &ingestionErr))
			assert.Equal(t, tt.wantKind, ingestionErr.Kind)
			assert.Nil(t, dataset)
			assert.Nil(t, report)
			assert.Equal(t, 0, invalidator.calls)
		})
	}
}

func TestService_IngestFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockPeriodStore(ctrl)
	service, _ := newTestService(t, store)

	path := filepath.Join(t.TempDir(), "fevereiro_24.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleFile), 0o644))

	store.EXPECT().Put(domain.Period{Month: "fevereiro", Year: 2024}, gomock.Any()).Return(nil)

	_, report, err := service.IngestFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Fevereiro 2024", report.Period)

	_, _, err = service.IngestFile(context.Background(), filepath.Join(t.TempDir(), "vendas.csv"))
	assert.ErrorIs(t, err, domain.ErrInvalidPeriodKey)
}

func TestService_DeletePeriod(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockPeriodStore(ctrl)
	service, invalidator := newTestService(t, store)

	store.EXPECT().Put(domain.Period{Month: "janeiro", Year: 2024}, gomock.Any()).Return(nil)
	store.EXPECT().Delete(domain.Period{Month: "janeiro", Year: 2024}).Return(nil)
	store.EXPECT().Delete(domain.Period{Month: "abril", Year: 2024}).Return(domain.ErrPeriodNotFound)

	_, _, err := service.Ingest(context.Background(), []byte(sampleFile), "janeiro_24")
	require.NoError(t, err)
	require.Equal(t, 1, service.CacheStats().Entries)
	invalidator.calls = 0

	require.NoError(t, service.DeletePeriod(context.Background(), "janeiro_24"))
	assert.Equal(t, 1, invalidator.calls)
	assert.Zero(t, service.CacheStats().Entries, "a remoção descarta o cache de ingestão")

	err = service.DeletePeriod(context.Background(), "abril_24")
	var queryErr *domain.QueryError
	require.True(t, errors.As(err, &queryErr))
	assert.Equal(t, domain.QueryNotFound, queryErr.Kind)
	assert.Equal(t, 1, invalidator.calls)
}
