package usecase

import (
	"errors"
	"fmt"
)

// Códigos devolvidos ao cliente junto com a mensagem.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeInvalidPatch      = "INVALID_PATCH"
	CodeInvalidSort       = "INVALID_SORT"
	CodeInvalidQuery      = "INVALID_QUERY"
	CodeNotFound          = "NOT_FOUND"
	CodeStageNotFound     = "STAGE_NOT_FOUND"
	CodePipelineMismatch  = "PIPELINE_MISMATCH"
	CodeDuplicateDocument = "DUPLICATE_DOCUMENT"
	CodeDatabase          = "DATABASE_ERROR"
)

// DomainError é culpa de quem chamou: dado inválido, referência inexistente.
type DomainError struct {
	Code    string
	Message string
	Fields  []ValidationError
}

func (e *DomainError) Error() string {
	return e.Message
}

// TechnicalError é falha de infraestrutura; Err guarda a causa.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func domainError(code, format string, args ...any) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func databaseError(what string, err error) *TechnicalError {
	return &TechnicalError{Code: CodeDatabase, Message: what + ": " + err.Error(), Err: err}
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// ErrorCode devolve o código de um DomainError ou TechnicalError, ou "" para outros erros.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}
