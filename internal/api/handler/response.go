package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.ForContext(r.Context()).WithError(err).Error("Erro ao enviar resposta")
	}
}

// writeDomainError traduz IngestionError e QueryError para os códigos da API.
// Falhas de armazenamento não expõem a mensagem interna.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.ForContext(r.Context()).WithError(err)

	var ingestionErr *domain.IngestionError
	var queryErr *domain.QueryError

	switch {
	case errors.As(err, &ingestionErr):
		switch ingestionErr.Kind {
		case domain.IngestionDecodeFailure:
			apiErrors.WriteError(w, apiErrors.ErrDecodeFailure, "Não foi possível ler o arquivo em nenhuma codificação suportada", ingestionErr.Period)
		case domain.IngestionInvalidPeriod:
			apiErrors.WriteError(w, apiErrors.ErrInvalidPeriod, "Período deve seguir o padrão mes_aa ou Mes AAAA", ingestionErr.Period)
		default:
			logger.Error("Erro de armazenamento na ingestão")
			apiErrors.WriteError(w, apiErrors.ErrStoreOperation, "Erro ao gravar período", nil)
		}
	case errors.As(err, &queryErr):
		switch queryErr.Kind {
		case domain.QueryNotFound:
			apiErrors.WriteError(w, apiErrors.ErrPeriodNotFound, "Período não encontrado", queryErr.Period)
		case domain.QueryInvalidRequest:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, errors.Cause(queryErr.Err).Error(), queryErr.Period)
		default:
			logger.Error("Erro de armazenamento na consulta")
			apiErrors.WriteError(w, apiErrors.ErrStoreOperation, "Erro ao ler períodos", nil)
		}
	default:
		logger.Error("Erro inesperado")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno do servidor", nil)
	}
}
