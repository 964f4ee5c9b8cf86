package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation        Code = "validation"
	CodeConflict          Code = "conflict"
	CodeNotFound          Code = "not_found"
	CodeForbidden         Code = "forbidden"
	CodeInsufficientStock Code = "insufficient_stock"
	CodeGateway           Code = "gateway"
)

// Error is the client-classifiable error carried across service boundaries.
// Anything that is not an *Error maps to a plain 500 at the transport layer.
type Error struct {
	Code    Code
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) *Error {
	return &Error{Code: CodeConflict, Status: http.StatusConflict, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbiddenf(format string, args ...any) *Error {
	return &Error{Code: CodeForbidden, Status: http.StatusForbidden, Message: fmt.Sprintf(format, args...)}
}

func InsufficientStockf(format string, args ...any) *Error {
	return &Error{Code: CodeInsufficientStock, Status: http.StatusConflict, Message: fmt.Sprintf(format, args...)}
}

func Gatewayf(format string, args ...any) *Error {
	return &Error{Code: CodeGateway, Status: http.StatusBadGateway, Message: fmt.Sprintf(format, args...)}
}

// CodeOf unwraps err looking for an *Error; empty string if none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// StatusOf returns the HTTP status an error maps to.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}
