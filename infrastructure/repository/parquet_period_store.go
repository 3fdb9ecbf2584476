package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

const parquetExtension = ".parquet"

// parquetSale é a linha gravada no arquivo colunar; ponteiros viram colunas opcionais.
// O instante fica em segundos + nanossegundos para não estourar int64 fora de 1678-2262.
type parquetSale struct {
	Amount          string  `parquet:"amount"`
	PaymentMethod   string  `parquet:"payment_method"`
	TerminalType    *string `parquet:"terminal_type"`
	PDV             *string `parquet:"pdv"`
	Serial          *string `parquet:"serial"`
	OccurredAtUnix  *int64  `parquet:"occurred_at_unix"`
	OccurredAtNanos int32   `parquet:"occurred_at_nanos"`
}

type parquetPeriodStore struct {
	mu       sync.RWMutex
	rootDir  string
	location *time.Location
}

// NewParquetPeriodStore grava um arquivo <mes>_<aa>.parquet por período dentro de rootDir
func NewParquetPeriodStore(rootDir string, location *time.Location) (PeriodStore, error) {
	if rootDir == "" {
		return nil, errors.New("diretório do armazenamento não informado")
	}
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("erro ao criar diretório %s: %w", rootDir, err)
	}
	if location == nil {
		location = time.UTC
	}

	return &parquetPeriodStore{
		rootDir:  rootDir,
		location: location,
	}, nil
}

func (s *parquetPeriodStore) path(period domain.Period) string {
	return filepath.Join(s.rootDir, period.Key()+parquetExtension)
}

// Put grava em arquivo temporário e renomeia, para que leitores nunca vejam um período pela metade
func (s *parquetPeriodStore) Put(period domain.Period, dataset *domain.PeriodDataset) error {
	var records []domain.SalesRecord
	if dataset != nil {
		records = dataset.Records
	}

	rows := make([]parquetSale, len(records))
	for i, record := range records {
		rows[i] = toParquetSale(record)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.rootDir, "."+period.Key()+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := parquet.Write(tmp, rows); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: erro ao escrever parquet: %w", domain.ErrStoreFailure, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
	}

	if err := os.Rename(tmpName, s.path(period)); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
	}

	log.L.WithField("period", period.Key()).Debugf("Período gravado com %d vendas", len(records))
	return nil
}

func (s *parquetPeriodStore) Get(period domain.Period) (*domain.PeriodDataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.path(period)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPeriodNotFound, period.Key())
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
	}

	rows, err := parquet.ReadFile[parquetSale](path)
	if err != nil {
		return nil, fmt.Errorf("%w: erro ao ler parquet: %w", domain.ErrStoreFailure, err)
	}

	records := make([]domain.SalesRecord, 0, len(rows))
	for _, row := range rows {
		record, err := s.fromParquetSale(row)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
		}
		records = append(records, record)
	}

	return domain.NewPeriodDataset(period, records), nil
}

func (s *parquetPeriodStore) Delete(period domain.Period) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(period)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrPeriodNotFound, period.Key())
		}
		return fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
	}

	return nil
}

// ListKeys ignora arquivos cujo nome não segue <mes>_<aa>.parquet
func (s *parquetPeriodStore) ListKeys() ([]domain.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.rootDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
	}

	periods := make([]domain.Period, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, parquetExtension) {
			continue
		}

		period, err := domain.PeriodFromFilename(name)
		if err != nil {
			log.L.WithField("file", name).Warn("Arquivo fora do padrão de período ignorado")
			continue
		}
		periods = append(periods, period)
	}

	domain.SortPeriods(periods)
	return periods, nil
}

func toParquetSale(record domain.SalesRecord) parquetSale {
	row := parquetSale{
		Amount:        record.Amount.String(),
		PaymentMethod: string(record.PaymentMethod),
		TerminalType:  optionalString(record.TerminalType),
		PDV:           optionalString(record.PDV),
		Serial:        optionalString(record.Serial),
	}
	if record.HasTimestamp() {
		seconds := record.Timestamp.Unix()
		row.OccurredAtUnix = &seconds
		row.OccurredAtNanos = int32(record.Timestamp.Nanosecond())
	}
	return row
}

func (s *parquetPeriodStore) fromParquetSale(row parquetSale) (domain.SalesRecord, error) {
	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return domain.SalesRecord{}, fmt.Errorf("valor inválido no arquivo: %w", err)
	}

	record := domain.SalesRecord{
		Amount:        amount,
		PaymentMethod: domain.PaymentMethod(row.PaymentMethod),
		TerminalType:  derefString(row.TerminalType),
		PDV:           derefString(row.PDV),
		Serial:        derefString(row.Serial),
	}
	if row.OccurredAtUnix != nil {
		ts := time.Unix(*row.OccurredAtUnix, int64(row.OccurredAtNanos)).In(s.location)
		record.Timestamp = &ts
	}

	return record, nil
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
