package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/ingesting"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/reporting"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

// MaxUploadBytes limita o tamanho do arquivo de vendas enviado
const MaxUploadBytes = 32 << 20

// ListPeriods retorna os períodos gravados em ordem cronológica
func ListPeriods(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		available, err := service.ListAvailablePeriods(r.Context())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, available)
	}
}

// GetPeriodSummary retorna os cards do período
func GetPeriodSummary(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period := httprouter.ParamsFromContext(r.Context()).ByName("period")

		summary, err := service.Summary(r.Context(), period)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, summary)
	}
}

// DeletePeriod remove o período gravado
func DeletePeriod(service ingesting.Ingester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period := httprouter.ParamsFromContext(r.Context()).ByName("period")

		if err := service.DeletePeriod(r.Context(), period); err != nil {
			writeDomainError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// IngestPeriod recebe o CSV do PDV (corpo cru ou multipart no campo "file")
// e grava o período da URL, substituindo o anterior
func IngestPeriod(service ingesting.Ingester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		period := httprouter.ParamsFromContext(r.Context()).ByName("period")

		raw, err := readUpload(w, r)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				apiErrors.WriteError(w, apiErrors.ErrPayloadTooLarge, "Arquivo maior que o limite permitido", maxErr.Limit)
				return
			}
			logger.WithError(err).Warn("Upload inválido")
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, err.Error(), nil)
			return
		}

		_, report, err := service.Ingest(r.Context(), raw, period)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, report)
	}
}

func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, errors.Wrap(err, "campo file ausente no formulário")
		}
		defer file.Close()
		return io.ReadAll(file)
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("corpo da requisição vazio")
	}
	return raw, nil
}
