package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/asterstay/hotel-booking/internal/model"
	"github.com/asterstay/hotel-booking/internal/service"
	"github.com/asterstay/hotel-booking/internal/utils"
)

// AvailabilityHandler serves the read-side availability API. Answers are
// advisory: booking re-checks under row locks, so a cached or slightly
// stale answer here can never oversell.
type AvailabilityHandler struct {
	Checker *service.AvailabilityChecker
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(checker *service.AvailabilityChecker) *AvailabilityHandler {
	if checker == nil {
		panic("nil checker passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{Checker: checker}
}

// stayQuery parses the checkin/checkout query parameters common to all
// availability endpoints.
func stayQuery(c echo.Context) (checkin, checkout time.Time, err error) {
	checkin, err = utils.ParseDate(c.QueryParam("checkin"))
	if err != nil {
		return
	}
	checkout, err = utils.ParseDate(c.QueryParam("checkout"))
	return
}

// CheckAvailability handles GET /v1/hotels/:id/availability. It returns
// one of "available", "unavailable" or "not_provisioned"; the last means
// the requested dates lie beyond the materialized horizon, which is a
// different answer than "fully booked".
func (h *AvailabilityHandler) CheckAvailability(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	roomType, err := model.ParseRoomType(c.QueryParam("room_type"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	checkin, checkout, err := stayQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "checkin and checkout must be YYYY-MM-DD"})
	}
	availability, err := h.Checker.IsAvailable(c.Request().Context(), id, roomType, checkin, checkout)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": availability.String()})
}

// GetInventory handles GET /v1/hotels/:id/inventory. It returns the raw
// ledger rows for a range: per date, the capacity ceiling and the
// reserved count.
func (h *AvailabilityHandler) GetInventory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	roomType, err := model.ParseRoomType(c.QueryParam("room_type"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	checkin, checkout, err := stayQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "checkin and checkout must be YYYY-MM-DD"})
	}
	usage, err := h.Checker.Usage(c.Request().Context(), id, roomType, checkin, checkout)
	if err != nil {
		return respondError(c, err)
	}
	type usageView struct {
		Date              string `json:"date"`
		MaxRoomsAvailable int    `json:"max_rooms_available"`
		RoomsReserved     int    `json:"rooms_reserved"`
	}
	views := make([]usageView, 0, len(usage))
	for _, u := range usage {
		views = append(views, usageView{
			Date:              u.Date.Format(utils.DateLayout),
			MaxRoomsAvailable: u.MaxRoomsAvailable,
			RoomsReserved:     u.RoomsReserved,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"inventory": views})
}

// SearchAvailabilities handles GET /v1/availabilities. It lists the
// hotels that can host the stay in at least one of the requested room
// types on every night; omitting room_type searches all types.
func (h *AvailabilityHandler) SearchAvailabilities(c echo.Context) error {
	checkin, checkout, err := stayQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "checkin and checkout must be YYYY-MM-DD"})
	}
	roomTypes := make([]model.RoomType, 0)
	for _, raw := range c.QueryParams()["room_type"] {
		roomType, err := model.ParseRoomType(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		roomTypes = append(roomTypes, roomType)
	}
	hotels, err := h.Checker.SearchHotels(c.Request().Context(), roomTypes, checkin, checkout)
	if err != nil {
		return respondError(c, err)
	}
	views := make([]hotelView, 0, len(hotels))
	for i := range hotels {
		views = append(views, newHotelView(&hotels[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"hotels": views})
}
