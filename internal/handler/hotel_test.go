package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asterstay/hotel-booking/internal/repository"
	"github.com/asterstay/hotel-booking/internal/service"
)

func newHotelTestHandler() *HotelHandler {
	return NewHotelHandler(
		service.NewProvisioner(nil, nil, nil, nil, 12),
		repository.NewHotelRepo(nil),
		12)
}

func postHotel(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/hotels", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, newHotelTestHandler().CreateHotel(c))
	return rec
}

func TestCreateHotelRejectsMissingName(t *testing.T) {
	rec := postHotel(t, `{"total_king_rooms": 2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateHotelHorizonBounds(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero months", `{"name": "Harbor View", "horizon_months": 0}`},
		{"negative months", `{"name": "Harbor View", "horizon_months": -3}`},
		// An oversized horizon would bulk-insert years of ledger rows.
		{"six hundred months", `{"name": "Harbor View", "horizon_months": 600}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postHotel(t, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "horizon_months")
		})
	}
}
