package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDecodeFailure    = errors.New("nenhuma codificação conseguiu ler o arquivo")
	ErrPeriodNotFound   = errors.New("período não encontrado")
	ErrInvalidPeriodKey = errors.New("chave de período inválida")
	ErrInvalidRequest   = errors.New("requisição de agregação inválida")
	ErrStoreFailure     = errors.New("falha no armazenamento de períodos")
)

// Tipos de falha de ingestão
const (
	IngestionDecodeFailure = "decode_failure"
	IngestionInvalidPeriod = "invalid_period"
	IngestionStoreFailure  = "store_failure"
)

// Tipos de falha de consulta
const (
	QueryNotFound       = "not_found"
	QueryInvalidRequest = "invalid_request"
	QueryStoreFailure   = "store_failure"
)

// IngestionError é a falha de um arquivo inteiro; linhas ruins nunca geram este erro
type IngestionError struct {
	Kind   string
	Period string
	Err    error
}

func (e *IngestionError) Error() string {
	if e.Period != "" {
		return fmt.Sprintf("ingestão de %s (%s): %s", e.Period, e.Kind, e.Err.Error())
	}
	return fmt.Sprintf("ingestão (%s): %s", e.Kind, e.Err.Error())
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

// NewIngestionError cria um IngestionError
func NewIngestionError(kind, period string, err error) *IngestionError {
	return &IngestionError{Kind: kind, Period: period, Err: err}
}

// QueryError diferencia período inexistente de resultado vazio
type QueryError struct {
	Kind   string
	Period string
	Err    error
}

func (e *QueryError) Error() string {
	if e.Period != "" {
		return fmt.Sprintf("consulta de %s (%s): %s", e.Period, e.Kind, e.Err.Error())
	}
	return fmt.Sprintf("consulta (%s): %s", e.Kind, e.Err.Error())
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError cria um QueryError
func NewQueryError(kind, period string, err error) *QueryError {
	return &QueryError{Kind: kind, Period: period, Err: err}
}
