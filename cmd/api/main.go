package main

import (
	"context"
	"io"

	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard-api/internal/api"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/ingestion"
	"github.com/vfg2006/sales-dashboard-api/internal/scheduler"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/ingesting"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/reporting"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

func main() {
	log.Configure("info")

	cfg, err := config.NewConfig()
	if err != nil {
		log.L.Fatal(err)
	}

	if !log.Configure(cfg.App.LogLevel) {
		log.L.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closer := periodStore(ctx, cfg)
	defer closer.Close()

	encodings, err := ingestion.LookupEncodings(cfg.Ingestion.Encodings)
	if err != nil {
		log.L.Fatal(err)
	}

	reportingService := reporting.NewService(store, reporting.Options{
		TopN:                   cfg.Report.TopN,
		ExcludedPaymentMethods: cfg.Report.ExcludedPaymentMethods,
	})

	ingestingService := ingesting.NewService(
		ingestion.NewParser(cfg.Ingestion.DelimiterRune(), encodings),
		ingestion.NewCanonicalizer(cfg.Ingestion.Location),
		store,
	).WithInvalidator(reportingService)

	inboxSyncService := scheduler.NewInboxSyncService(ingestingService, cfg)
	if err := inboxSyncService.Start(ctx); err != nil {
		log.L.WithError(err).Error("Erro ao iniciar o agendador da caixa de entrada")
	}

	server, err := api.New(cfg, ingestingService, reportingService, inboxSyncService)
	if err != nil {
		log.L.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		log.L.Error(err)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// periodStore escolhe o armazenamento de períodos pelo STORE_DRIVER
func periodStore(ctx context.Context, cfg *config.Config) (repository.PeriodStore, io.Closer) {
	if cfg.Store.Driver == config.StoreDriverPostgres {
		conn := pgconn(ctx, cfg.Database)
		if err := postgres.Migrate(ctx, conn); err != nil {
			log.L.WithError(err).Fatal("Erro ao criar tabelas de períodos")
		}
		log.L.Info("Períodos gravados no PostgreSQL")
		return repository.NewSalesPeriodRepository(conn, cfg.Ingestion.Location), conn
	}

	store, err := repository.NewParquetPeriodStore(cfg.Store.RootDir, cfg.Ingestion.Location)
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao abrir diretório de períodos")
	}
	log.L.WithField("store_root_dir", cfg.Store.RootDir).Info("Períodos gravados em arquivos parquet")
	return store, nopCloser{}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	if err := conn.Ping(ctx); err != nil {
		log.L.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	log.L.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
