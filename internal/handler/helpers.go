package handler

import (
	"errors"
	"net/http"

	"module-owner-service/internal/domain"
)

// Вспомогательные функции преобразования ошибок в HTTP-ответы

func toErrorResponse(code, message string) domain.ErrorResponse {
	return domain.ErrorResponse{
		Error: domain.HTTPError{
			Code:    code,
			Message: message,
		},
	}
}

// getHTTPStatusCode сопоставляет ошибку с HTTP-статусом. Сентинелы
// приходят обернутыми через %w, поэтому сравнение идет по errors.Is.
func getHTTPStatusCode(err error) int {
	switch {
	// Not Found errors (404)
	case errors.Is(err, domain.ErrChangeNotFound),
		errors.Is(err, domain.ErrPatchSetNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrGroupNotFound),
		errors.Is(err, domain.ErrCommitNotFound):
		return http.StatusNotFound

	// Bad Request errors (400) - валидация
	case errors.Is(err, domain.ErrInvalidEventType),
		errors.Is(err, domain.ErrInvalidProject),
		errors.Is(err, domain.ErrInvalidChangeID),
		errors.Is(err, domain.ErrInvalidRevision),
		errors.Is(err, domain.ErrInvalidAccountID):
		return http.StatusBadRequest

	// Conflict errors (409)
	case errors.Is(err, domain.ErrSubmitBlocked):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}
