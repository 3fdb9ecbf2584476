package handler

import (
	"net/http"

	"github.com/vfg2006/sales-dashboard-api/internal/usecases/ingesting"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/reporting"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

// InvalidateCache descarta de uma vez o cache de arquivos processados e o de consultas
func InvalidateCache(ingester ingesting.Ingester, reporter reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cleared := ingester.InvalidateCache() + reporter.InvalidateCache()

		log.ForContext(r.Context()).Infof("Cache invalidado: %d entradas descartadas", cleared)
		writeJSON(w, r, http.StatusOK, map[string]any{"cleared": cleared})
	}
}

// GetCacheStats retorna os contadores dos dois caches
func GetCacheStats(ingester ingesting.Ingester, reporter reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]any{
			"ingestion": ingester.CacheStats(),
			"reporting": reporter.CacheStats(),
		})
	}
}
