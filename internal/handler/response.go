package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"freightpay/internal/repository"
	"freightpay/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidClientID),
		errors.Is(err, service.ErrInvalidDeliveryID),
		errors.Is(err, service.ErrInvalidProofID),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrEmptyDeliveryList),
		errors.Is(err, service.ErrEmptyFile),
		errors.Is(err, service.ErrUnsupportedFileType),
		errors.Is(err, service.ErrFileTooLarge),
		errors.Is(err, service.ErrMissingProcessor),
		errors.Is(err, service.ErrMissingRejectionReason):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrProofInFlight),
		errors.Is(err, service.ErrDeliveryAlreadyPaid),
		errors.Is(err, service.ErrDeliveryCancelled),
		errors.Is(err, service.ErrProofAlreadyProcessed),
		errors.Is(err, service.ErrUploadInProgress),
		errors.Is(err, service.ErrInvalidStatusTransition),
		errors.Is(err, service.ErrDeliveryNotCancellable):
		return http.StatusConflict

	// Ownership errors
	case errors.Is(err, service.ErrDeliveryNotOwned):
		return http.StatusForbidden

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
