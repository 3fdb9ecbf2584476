package handler

import (
	"net/http"

	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

// InboxSyncer é o agendador da caixa de entrada visto pela API
type InboxSyncer interface {
	TriggerManualSync()
	GetStatus() map[string]any
}

// RunInboxSync dispara manualmente a varredura da caixa de entrada
func RunInboxSync(service InboxSyncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if service == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de sincronização da caixa de entrada não disponível", nil)
			return
		}

		if running, _ := service.GetStatus()["sync_running"].(bool); running {
			apiErrors.WriteError(w, apiErrors.ErrSyncRunning, "Sincronização já em andamento", nil)
			return
		}

		log.ForContext(r.Context()).Info("Sincronização manual da caixa de entrada solicitada")
		service.TriggerManualSync()

		writeJSON(w, r, http.StatusAccepted, map[string]any{
			"message": "Sincronização iniciada",
			"type":    "inbox-sync",
		})
	}
}

// GetCronStatus retorna o status dos agendadores
func GetCronStatus(service InboxSyncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}
		if service != nil {
			status["inbox-sync"] = service.GetStatus()
		}

		writeJSON(w, r, http.StatusOK, status)
	}
}
