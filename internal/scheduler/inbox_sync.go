package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vfg2006/sales-dashboard-api/internal/cache"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/ingesting"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

var ErrSyncRunning = errors.New("sincronização da caixa de entrada já em andamento")

// InboxSyncConfig representa a configuração do agendador da caixa de entrada
type InboxSyncConfig struct {
	Dir          string
	CronSchedule string
	SyncEnabled  bool
}

// InboxSyncResult conta o que aconteceu com cada arquivo numa execução
type InboxSyncResult struct {
	Ingested  []string `json:"ingested"`
	Unchanged int      `json:"unchanged"`
	Skipped   []string `json:"skipped"`
	Failed    []string `json:"failed"`
}

// InboxSyncService varre a pasta de exportações do PDV e ingere os arquivos
// <mes>_<aa>.csv novos ou alterados desde a última execução
type InboxSyncService struct {
	scheduler           *gocron.Scheduler
	config              InboxSyncConfig
	ingester            ingesting.Ingester
	seen                map[string]string
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastResult          *InboxSyncResult
}

func NewInboxSyncService(ingester ingesting.Ingester, appConfig *config.Config) *InboxSyncService {
	syncConfig := InboxSyncConfig{
		Dir:          appConfig.InboxSync.Dir,
		CronSchedule: appConfig.InboxSync.CronSchedule,
		SyncEnabled:  appConfig.InboxSync.Enabled,
	}

	log.L.WithFields(log.Fields{
		"inbox_dir":     syncConfig.Dir,
		"inbox_cron":    syncConfig.CronSchedule,
		"inbox_enabled": syncConfig.SyncEnabled,
	}).Info("Configuração do agendador da caixa de entrada carregada")

	return &InboxSyncService{
		scheduler: gocron.NewScheduler(time.Local),
		config:    syncConfig,
		ingester:  ingester,
		seen:      make(map[string]string),
	}
}

// Start agenda a varredura periódica e para o agendador quando o contexto é cancelado
func (s *InboxSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		log.L.Info("Sincronização da caixa de entrada desabilitada por configuração")
		return nil
	}

	log.L.WithField("inbox_cron", s.config.CronSchedule).Info("Iniciando agendador da caixa de entrada")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runScheduled(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização da caixa de entrada: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		log.L.Info("Parando agendador da caixa de entrada")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *InboxSyncService) runScheduled(ctx context.Context) {
	ctx, _ = log.WithCorrelationID(ctx)
	if _, err := s.SyncNow(ctx); err != nil && !errors.Is(err, ErrSyncRunning) {
		log.ForContext(ctx).WithError(err).Error("Erro na sincronização da caixa de entrada")
	}
}

// TriggerManualSync dispara uma varredura em segundo plano, ignorada se já houver uma rodando
func (s *InboxSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	running := s.syncRunning
	s.syncMutex.Unlock()

	if running {
		log.L.Info("Sincronização da caixa de entrada já em andamento, ignorando solicitação manual")
		return
	}

	log.L.Info("Iniciando sincronização manual da caixa de entrada")
	go s.runScheduled(context.Background())
}

// SyncNow varre a pasta e ingere os arquivos alterados. Arquivos com nome fora do
// padrão são ignorados; falhas de decodificação não são repetidas até o conteúdo mudar.
func (s *InboxSyncService) SyncNow(ctx context.Context) (*InboxSyncResult, error) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		return nil, ErrSyncRunning
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	result := &InboxSyncResult{}

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.lastResult = result
		s.syncMutex.Unlock()
	}()

	logger := log.ForContext(ctx).WithField("inbox_dir", s.config.Dir)

	files, err := s.listFiles()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("Pasta da caixa de entrada não existe")
			return result, nil
		}
		return result, fmt.Errorf("erro ao listar caixa de entrada: %w", err)
	}

	for _, name := range files {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		s.syncFile(ctx, name, result)
	}

	logger.Infof("Caixa de entrada sincronizada: %d ingeridos, %d sem alteração, %d ignorados, %d com falha",
		len(result.Ingested), result.Unchanged, len(result.Skipped), len(result.Failed))

	return result, nil
}

func (s *InboxSyncService) listFiles() ([]string, error) {
	entries, err := os.ReadDir(s.config.Dir)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		files = append(files, entry.Name())
	}

	sort.Strings(files)
	return files, nil
}

func (s *InboxSyncService) syncFile(ctx context.Context, name string, result *InboxSyncResult) {
	logger := log.ForContext(ctx).WithField("file", name)

	period, err := domain.PeriodFromFilename(name)
	if err != nil {
		logger.Warn("Arquivo fora do padrão <mes>_<aa>.csv ignorado")
		result.Skipped = append(result.Skipped, name)
		return
	}

	raw, err := os.ReadFile(filepath.Join(s.config.Dir, name))
	if err != nil {
		logger.WithError(err).Error("Erro ao ler arquivo da caixa de entrada")
		result.Failed = append(result.Failed, name)
		return
	}

	hash := cache.ContentKey(raw)
	if s.seenHash(name) == hash {
		result.Unchanged++
		return
	}

	if _, _, err := s.ingester.Ingest(ctx, raw, period.Key()); err != nil {
		logger.WithError(err).Error("Erro ao ingerir arquivo da caixa de entrada")
		result.Failed = append(result.Failed, name)

		var ingestionErr *domain.IngestionError
		if errors.As(err, &ingestionErr) && ingestionErr.Kind == domain.IngestionStoreFailure {
			return
		}
		s.markSeen(name, hash)
		return
	}

	s.markSeen(name, hash)
	result.Ingested = append(result.Ingested, name)
}

func (s *InboxSyncService) seenHash(name string) string {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	return s.seen[name]
}

func (s *InboxSyncService) markSeen(name, hash string) {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	s.seen[name] = hash
}

// GetStatus retorna o status atual do agendador
func (s *InboxSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"inbox_dir":              s.config.Dir,
		"sync_running":           s.syncRunning,
		"tracked_files":          len(s.seen),
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_result":            s.lastResult,
	}
}
