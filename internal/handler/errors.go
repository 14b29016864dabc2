package handler

import (
	"errors"
	"net/http"

	"peachy/internal/domain"
)

// statusFor maps domain errors onto HTTP statuses. Anything unrecognized is
// a 500 and should be logged by the caller.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrBelowMinimum),
		errors.Is(err, domain.ErrSelfPayment),
		errors.Is(err, domain.ErrNotRefundable),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrUnsupportedKind):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPayoutUnverified):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrGatewayUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
