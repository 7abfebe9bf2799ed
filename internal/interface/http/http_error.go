package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/run-reporter/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// fromDomainError maps an AppError code onto a status, keeping the domain code and message.
func fromDomainError(err error) *HTTPError {
	code := apperrors.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case apperrors.CodeInvalidInput:
		status = http.StatusBadRequest
	case apperrors.CodeInvalidCredentials, apperrors.CodeInvalidToken, apperrors.CodeSessionExpired:
		status = http.StatusUnauthorized
	case apperrors.CodeNotFound, apperrors.CodeNoSelection:
		status = http.StatusNotFound
	case apperrors.CodeNotSelectable:
		status = http.StatusUnprocessableEntity
	case apperrors.CodeUpstreamError:
		status = http.StatusBadGateway
	case apperrors.CodeUpstreamUnavailable:
		status = http.StatusServiceUnavailable
	case "":
		return asHTTPError(err)
	}
	message := apperrors.MessageOf(err)
	if status == http.StatusInternalServerError {
		message = "something went wrong"
	}
	return NewHTTPError(status, code, message, err)
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
