package apiErrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// Erros de autenticação
	ErrInvalidToken          = "AUTH_006" // Token inválido
	ErrExpiredToken          = "AUTH_007" // Token expirado
	ErrInsufficientPrivilege = "AUTH_008" // Privilégios insuficientes

	// Erros de validação
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido
	ErrPayloadTooLarge     = "VAL_004" // Arquivo maior que o limite
	ErrNotFound            = "VAL_005" // Rota inexistente
	ErrMethodNotAllowed    = "VAL_006" // Método não aceito pela rota

	// Erros de período e ingestão
	ErrPeriodNotFound = "PER_001" // Período não gravado
	ErrInvalidPeriod  = "PER_002" // Período fora do padrão mes_aa / Mes AAAA
	ErrDecodeFailure  = "ING_001" // Nenhuma codificação leu o arquivo

	// Erros do servidor
	ErrInternalServer = "SRV_001" // Erro interno do servidor
	ErrStoreOperation = "SRV_002" // Erro no armazenamento de períodos
	ErrSyncRunning    = "SRV_005" // Sincronização já em andamento
)

var httpStatusMap = map[string]int{
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrExpiredToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrMissingRequiredData:   http.StatusBadRequest,
	ErrInvalidFormat:         http.StatusBadRequest,
	ErrPayloadTooLarge:       http.StatusRequestEntityTooLarge,
	ErrNotFound:              http.StatusNotFound,
	ErrMethodNotAllowed:      http.StatusMethodNotAllowed,
	ErrPeriodNotFound:        http.StatusNotFound,
	ErrInvalidPeriod:         http.StatusBadRequest,
	ErrDecodeFailure:         http.StatusUnprocessableEntity,
	ErrInternalServer:        http.StatusInternalServerError,
	ErrStoreOperation:        http.StatusInternalServerError,
	ErrSyncRunning:           http.StatusConflict,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Status devolve o status HTTP do código, 500 quando desconhecido
func Status(code string) int {
	status, exists := httpStatusMap[code]
	if !exists {
		return http.StatusInternalServerError
	}
	return status
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(Status(code))
	json.NewEncoder(w).Encode(apiErr)
}

// FromError cria um erro de API a partir de um erro Go
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "Erro desconhecido",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
