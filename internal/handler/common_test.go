package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asterstay/hotel-booking/internal/repository"
	"github.com/asterstay/hotel-booking/internal/service"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"invalid date range", service.ErrInvalidDateRange, http.StatusBadRequest},
		{"guest name required", service.ErrGuestNameRequired, http.StatusBadRequest},
		{"negative room count", service.ErrInvalidRoomCount, http.StatusBadRequest},
		{"immutable field", service.ErrImmutableFieldChanged, http.StatusBadRequest},
		{"capacity shrink", repository.ErrCapacityShrink, http.StatusBadRequest},
		{"hotel not found", repository.ErrHotelNotFound, http.StatusNotFound},
		{"reservation not found", repository.ErrReservationNotFound, http.StatusNotFound},
		{"duplicate hotel name", repository.ErrHotelExists, http.StatusConflict},
		{"no availability", service.ErrUnavailable, http.StatusConflict},
		{"beyond horizon", service.ErrDateRangeTooFar, http.StatusConflict},
		{"already cancelled", service.ErrReservationCancelled, http.StatusConflict},
		{"not provisioned", repository.ErrNotProvisioned, http.StatusConflict},
		{"lock contention", service.ErrBusy, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, respondError(c, tt.err))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestRespondErrorWrappedErrors(t *testing.T) {
	// Services wrap sentinels with context; mapping follows errors.Is.
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	wrapped := fmt.Errorf("%w: Error 1213: Deadlock found", service.ErrBusy)
	require.NoError(t, respondError(c, wrapped))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestRespondErrorHidesInternals(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, respondError(c, errors.New("dial tcp 10.0.0.3:3306: connection refused")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
}

func TestPathID(t *testing.T) {
	e := echo.New()
	newCtx := func(raw string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(raw)
		return c
	}

	id, err := pathID(newCtx("42"))
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	_, err = pathID(newCtx("0"))
	assert.Error(t, err)
	_, err = pathID(newCtx("abc"))
	assert.Error(t, err)
	_, err = pathID(newCtx("-1"))
	assert.Error(t, err)
}
