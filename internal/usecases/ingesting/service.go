package ingesting

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard-api/internal/cache"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/ingestion"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

// Ingester recebe arquivos brutos do PDV e grava o dataset canônico do período
type Ingester interface {
	Ingest(ctx context.Context, raw []byte, period string) (*domain.PeriodDataset, *domain.IngestionReport, error)
	IngestFile(ctx context.Context, path string) (*domain.PeriodDataset, *domain.IngestionReport, error)
	DeletePeriod(ctx context.Context, period string) error
	InvalidateCache() int
	CacheStats() cache.Stats
}

// CacheInvalidator é avisado quando um período muda no armazenamento
type CacheInvalidator interface {
	InvalidateCache() int
}

// parsedFile é o resultado memoizado de parser + canonicalizador para um conteúdo
type parsedFile struct {
	encoding     string
	rawRows      int
	skippedLines int
	result       *ingestion.CanonicalizeResult
}

type Service struct {
	parser        *ingestion.Parser
	canonicalizer *ingestion.Canonicalizer
	store         repository.PeriodStore
	memo          *cache.Memo[*parsedFile]
	invalidators  []CacheInvalidator
	now           func() time.Time
}

func NewService(
	parser *ingestion.Parser,
	canonicalizer *ingestion.Canonicalizer,
	store repository.PeriodStore,
) *Service {
	return &Service{
		parser:        parser,
		canonicalizer: canonicalizer,
		store:         store,
		memo:          cache.NewMemo[*parsedFile](),
		now:           time.Now,
	}
}

// WithInvalidator registra quem deve descartar cache quando um período é gravado ou removido
func (s *Service) WithInvalidator(invalidator CacheInvalidator) *Service {
	if invalidator != nil {
		s.invalidators = append(s.invalidators, invalidator)
	}
	return s
}

// Ingest decodifica, normaliza e grava o período. O período pode ser a chave
// (janeiro_24) ou o rótulo (Janeiro 2024). Nada é gravado se a decodificação falhar.
func (s *Service) Ingest(ctx context.Context, raw []byte, periodValue string) (*domain.PeriodDataset, *domain.IngestionReport, error) {
	logger := log.ForContext(ctx)

	period, err := domain.ParsePeriod(periodValue)
	if err != nil {
		return nil, nil, domain.NewIngestionError(domain.IngestionInvalidPeriod, periodValue, err)
	}

	runID, err := utils.GenerateID()
	if err != nil {
		return nil, nil, fmt.Errorf("erro ao gerar id da execução: %w", err)
	}

	report := &domain.IngestionReport{
		RunID:     runID,
		Period:    period.Label(),
		StartedAt: s.now(),
	}

	logger = logger.WithFields(log.Fields{
		"run_id": runID,
		"period": period.Key(),
		"bytes":  len(raw),
	})

	key := cache.ContentKey(raw,
		period.Label(),
		string(s.parser.Delimiter()),
		strings.Join(s.parser.Encodings(), ","),
		s.canonicalizer.Location().String(),
	)

	parsed, cached, err := s.memo.Do(key, func() (*parsedFile, error) {
		batch, err := s.parser.Parse(raw)
		if err != nil {
			return nil, err
		}

		return &parsedFile{
			encoding:     batch.Encoding,
			rawRows:      len(batch.Rows),
			skippedLines: batch.SkippedLines,
			result:       s.canonicalizer.Canonicalize(batch, period.Label()),
		}, nil
	})
	if err != nil {
		logger.WithError(err).Error("Falha ao decodificar arquivo de vendas")
		if errors.Is(err, domain.ErrDecodeFailure) {
			return nil, nil, domain.NewIngestionError(domain.IngestionDecodeFailure, period.Key(), err)
		}
		return nil, nil, err
	}

	if len(parsed.result.MissingColumns) > 0 {
		logger.Warnf("Colunas ausentes no arquivo: %s", strings.Join(parsed.result.MissingColumns, ", "))
	}

	dataset := domain.NewPeriodDataset(period, parsed.result.Records)

	if err := s.store.Put(period, dataset); err != nil {
		logger.WithError(err).Error("Falha ao gravar período")
		return nil, nil, domain.NewIngestionError(domain.IngestionStoreFailure, period.Key(), err)
	}

	s.notifyInvalidators()

	report.Encoding = parsed.encoding
	report.RawRows = parsed.rawRows
	report.SkippedLines = parsed.skippedLines
	report.AcceptedRows = len(dataset.Records)
	report.RejectedRows = parsed.result.RejectedRows
	report.UntimedRows = parsed.result.UntimedRows
	report.Cached = cached
	report.FinishedAt = s.now()

	logger.Infof("Período %s ingerido: %d vendas aceitas, %d rejeitadas (%s)",
		period.Label(), report.AcceptedRows, report.RejectedRows, report.Encoding)

	return dataset, report, nil
}

// IngestFile lê o arquivo e usa o nome (<mes>_<aa>.csv) como período
func (s *Service) IngestFile(ctx context.Context, path string) (*domain.PeriodDataset, *domain.IngestionReport, error) {
	period, err := domain.PeriodFromFilename(path)
	if err != nil {
		return nil, nil, domain.NewIngestionError(domain.IngestionInvalidPeriod, path, err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("erro ao ler arquivo %s: %w", path, err)
	}

	return s.Ingest(ctx, raw, period.Key())
}

// DeletePeriod remove o período do armazenamento e descarta o cache de ingestão
// e os caches de consulta
func (s *Service) DeletePeriod(ctx context.Context, periodValue string) error {
	period, err := domain.ParsePeriod(periodValue)
	if err != nil {
		return domain.NewQueryError(domain.QueryInvalidRequest, periodValue, err)
	}

	if err := s.store.Delete(period); err != nil {
		if errors.Is(err, domain.ErrPeriodNotFound) {
			return domain.NewQueryError(domain.QueryNotFound, period.Key(), err)
		}
		return domain.NewQueryError(domain.QueryStoreFailure, period.Key(), err)
	}

	s.memo.InvalidateAll()
	s.notifyInvalidators()

	log.ForContext(ctx).WithField("period", period.Key()).Info("Período removido")
	return nil
}

// InvalidateCache descarta os arquivos já processados em memória
func (s *Service) InvalidateCache() int {
	return s.memo.InvalidateAll()
}

func (s *Service) CacheStats() cache.Stats {
	return s.memo.Stats()
}

func (s *Service) notifyInvalidators() {
	for _, invalidator := range s.invalidators {
		invalidator.InvalidateCache()
	}
}
