package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/export"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/reporting"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

func decodeRequest(w http.ResponseWriter, r *http.Request) (domain.AggregationRequest, bool) {
	var request domain.AggregationRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "JSON da consulta inválido", nil)
		return request, false
	}
	return request, true
}

// QueryReport executa a agregação descrita no corpo da requisição
func QueryReport(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		request, ok := decodeRequest(w, r)
		if !ok {
			return
		}

		result, err := service.Query(r.Context(), request)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, result)
	}
}

// ExportReport executa a mesma consulta de QueryReport e devolve CSV ou XLSX (?format=)
func ExportReport(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format, err := export.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
			return
		}

		request, ok := decodeRequest(w, r)
		if !ok {
			return
		}

		result, err := service.Query(r.Context(), request)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		var buf bytes.Buffer
		if err := export.Write(&buf, format, result); err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao exportar relatório")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao gerar arquivo", nil)
			return
		}

		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename(result)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(buf.Bytes()); err != nil {
			log.ForContext(r.Context()).WithError(err).Warn("Erro ao enviar arquivo exportado")
		}
	}
}
