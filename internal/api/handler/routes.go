package handler

import (
	"net/http"

	"github.com/vfg2006/sales-dashboard-api/internal/api/handler/router"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/ingesting"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/reporting"
	"github.com/vfg2006/sales-dashboard-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Periods(reporter reporting.Reporter, ingester ingesting.Ingester) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/periods",
			Method:      http.MethodGet,
			Handler:     ListPeriods(reporter),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/periods/:period/summary",
			Method:      http.MethodGet,
			Handler:     GetPeriodSummary(reporter),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/periods/:period",
			Method:      http.MethodPut,
			Handler:     IngestPeriod(ingester),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/periods/:period",
			Method:      http.MethodDelete,
			Handler:     DeletePeriod(ingester),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func Reports(reporter reporting.Reporter) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/reports/query",
			Method:      http.MethodPost,
			Handler:     QueryReport(reporter),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/reports/export",
			Method:      http.MethodPost,
			Handler:     ExportReport(reporter),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Cache(ingester ingesting.Ingester, reporter reporting.Reporter) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cache/invalidate",
			Method:      http.MethodPost,
			Handler:     InvalidateCache(ingester, reporter),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cache/stats",
			Method:      http.MethodGet,
			Handler:     GetCacheStats(ingester, reporter),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func CronJobs(inboxSync InboxSyncer) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/inbox-sync",
			Method:      http.MethodPost,
			Handler:     RunInboxSync(inboxSync),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(inboxSync),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
