package controllers

import (
	"errors"
	"net/http"

	"royal-dine/services"
)

// statusFor maps a use case error to the HTTP status returned with its
// outcome.
func statusFor(err error) int {
	var verr *services.ValidationError
	var derr *services.DeliveryError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidOTP):
		return http.StatusUnauthorized
	case errors.As(err, &derr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
