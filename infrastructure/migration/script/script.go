// Script de migração: copia todos os períodos gravados em parquet (STORE_ROOT_DIR)
// para o PostgreSQL (DATABASE_*), criando as tabelas se necessário.
//
//	go run ./infrastructure/migration/script [-dry-run]
package main

import (
	"context"
	"flag"
	"time"

	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "apenas lista os períodos que seriam copiados")
	flag.Parse()

	log.Configure("info")
	log.L.Info("Iniciando script de migração de períodos...")

	cfg, err := config.NewConfig()
	if err != nil {
		log.L.Fatal(err)
	}

	source, err := repository.NewParquetPeriodStore(cfg.Store.RootDir, cfg.Ingestion.Location)
	if err != nil {
		log.L.Fatalf("ERRO ao abrir períodos parquet: %v", err)
	}

	ctx := context.Background()

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.L.Fatalf("ERRO ao conectar ao PostgreSQL: %v", err)
	}
	defer conn.Close()

	if err := postgres.Migrate(ctx, conn); err != nil {
		log.L.Fatalf("ERRO ao criar tabelas: %v", err)
	}

	target := repository.NewSalesPeriodRepository(conn, cfg.Ingestion.Location)

	copied, failed, err := copyPeriods(source, target, *dryRun)
	if err != nil {
		log.L.Fatalf("ERRO ao listar períodos: %v", err)
	}

	log.L.Infof("Migração concluída: %d períodos copiados, %d com erro", copied, failed)
}

// copyPeriods copia período a período; um período com erro não interrompe os demais
func copyPeriods(source, target repository.PeriodStore, dryRun bool) (int, int, error) {
	periods, err := source.ListKeys()
	if err != nil {
		return 0, 0, err
	}

	copied, failed := 0, 0
	for _, period := range periods {
		startTime := time.Now()

		dataset, err := source.Get(period)
		if err != nil {
			log.L.WithField("period", period.Key()).WithError(err).Error("ERRO ao ler período")
			failed++
			continue
		}

		if dryRun {
			log.L.Infof("[dry-run] %s: %d vendas", period.Label(), len(dataset.Records))
			continue
		}

		if err := target.Put(period, dataset); err != nil {
			log.L.WithField("period", period.Key()).WithError(err).Error("ERRO ao gravar período")
			failed++
			continue
		}

		copied++
		log.L.Infof("%s copiado: %d vendas em %v", period.Label(), len(dataset.Records), time.Since(startTime))
	}

	return copied, failed, nil
}
