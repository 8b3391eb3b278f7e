package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/asterstay/hotel-booking/internal/repository"
	"github.com/asterstay/hotel-booking/internal/service"
)

// pathID parses the :id path parameter as a positive integer.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// respondError maps core errors onto HTTP responses. Validation and
// immutability failures are 400s, absent entities 404s, business
// conflicts (no availability, horizon exceeded, duplicate names) 409s,
// and lock contention 503 with a retry hint. Anything unmapped is a
// plain 500 so internals do not leak.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrGuestNameRequired),
		errors.Is(err, service.ErrInvalidRoomCount),
		errors.Is(err, service.ErrImmutableFieldChanged),
		errors.Is(err, repository.ErrCapacityShrink):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrHotelNotFound),
		errors.Is(err, repository.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrHotelExists),
		errors.Is(err, service.ErrUnavailable),
		errors.Is(err, service.ErrDateRangeTooFar),
		errors.Is(err, service.ErrReservationCancelled),
		errors.Is(err, repository.ErrNotProvisioned):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrBusy):
		c.Response().Header().Set("Retry-After", "1")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
