package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/asterstay/hotel-booking/internal/model"
	"github.com/asterstay/hotel-booking/internal/repository"
	"github.com/asterstay/hotel-booking/internal/service"
)

// HotelHandler serves hotel CRUD. Creation and room-count edits go
// through the Provisioner so the inventory ledger stays in lockstep with
// the authoritative room counts; reads go straight to the repository.
type HotelHandler struct {
	Provisioner   *service.Provisioner
	Hotels        *repository.HotelRepo
	HorizonMonths int // default inventory horizon for new hotels
}

// NewHotelHandler constructs a HotelHandler with the provided
// dependencies. All dependencies must be non-nil.
func NewHotelHandler(provisioner *service.Provisioner, hotels *repository.HotelRepo, horizonMonths int) *HotelHandler {
	if provisioner == nil || hotels == nil {
		panic("nil dependency passed to NewHotelHandler")
	}
	return &HotelHandler{Provisioner: provisioner, Hotels: hotels, HorizonMonths: horizonMonths}
}

// hotelView is the wire representation of a hotel. Totals come from the
// authoritative room counts, never from counting inventory rows.
type hotelView struct {
	ID               uint64 `json:"id"`
	Name             string `json:"name"`
	TotalDoubleRooms int    `json:"total_double_rooms"`
	TotalQueenRooms  int    `json:"total_queen_rooms"`
	TotalKingRooms   int    `json:"total_king_rooms"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

func newHotelView(h *model.Hotel) hotelView {
	return hotelView{
		ID:               h.ID,
		Name:             h.Name,
		TotalDoubleRooms: h.TotalRooms(model.RoomTypeDouble),
		TotalQueenRooms:  h.TotalRooms(model.RoomTypeQueen),
		TotalKingRooms:   h.TotalRooms(model.RoomTypeKing),
		CreatedAt:        h.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        h.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// Bounds for the per-request horizon_months override. Materializing a
// horizon writes rows per (type, date), so an unbounded override would
// let one request bulk-insert years of ledger.
const (
	minHorizonMonths = 1
	maxHorizonMonths = 12
)

// CreateHotel handles POST /v1/hotels. It creates the hotel and
// materializes its full inventory horizon in one unit of work, returning
// 201 with the created hotel. Duplicate names return 409.
func (h *HotelHandler) CreateHotel(c echo.Context) error {
	var body struct {
		Name             string `json:"name"`
		TotalDoubleRooms int    `json:"total_double_rooms"`
		TotalQueenRooms  int    `json:"total_queen_rooms"`
		TotalKingRooms   int    `json:"total_king_rooms"`
		HorizonMonths    *int   `json:"horizon_months"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	horizon := h.HorizonMonths
	if body.HorizonMonths != nil {
		if *body.HorizonMonths < minHorizonMonths || *body.HorizonMonths > maxHorizonMonths {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "horizon_months must be between 1 and 12"})
		}
		horizon = *body.HorizonMonths
	}
	counts := map[model.RoomType]int{
		model.RoomTypeDouble: body.TotalDoubleRooms,
		model.RoomTypeQueen:  body.TotalQueenRooms,
		model.RoomTypeKing:   body.TotalKingRooms,
	}
	hotel, err := h.Provisioner.ProvisionHotel(c.Request().Context(), body.Name, counts, horizon)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"hotel": newHotelView(hotel)})
}

// ListHotels handles GET /v1/hotels.
func (h *HotelHandler) ListHotels(c echo.Context) error {
	hotels, err := h.Hotels.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	views := make([]hotelView, 0, len(hotels))
	for i := range hotels {
		views = append(views, newHotelView(&hotels[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"hotels": views})
}

// GetHotel handles GET /v1/hotels/:id.
func (h *HotelHandler) GetHotel(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	hotel, err := h.Hotels.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"hotel": newHotelView(hotel)})
}

// UpdateHotel handles PATCH /v1/hotels/:id. Only fields present in the
// body are applied. Room counts may only grow; any shrink rejects the
// whole update and leaves the ledger untouched.
func (h *HotelHandler) UpdateHotel(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	var body struct {
		Name             *string `json:"name"`
		TotalDoubleRooms *int    `json:"total_double_rooms"`
		TotalQueenRooms  *int    `json:"total_queen_rooms"`
		TotalKingRooms   *int    `json:"total_king_rooms"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	patch := service.HotelPatch{Name: body.Name, RoomCounts: map[model.RoomType]int{}}
	if body.TotalDoubleRooms != nil {
		patch.RoomCounts[model.RoomTypeDouble] = *body.TotalDoubleRooms
	}
	if body.TotalQueenRooms != nil {
		patch.RoomCounts[model.RoomTypeQueen] = *body.TotalQueenRooms
	}
	if body.TotalKingRooms != nil {
		patch.RoomCounts[model.RoomTypeKing] = *body.TotalKingRooms
	}
	hotel, err := h.Provisioner.UpdateHotel(c.Request().Context(), id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"hotel": newHotelView(hotel)})
}

// DeleteHotel handles DELETE /v1/hotels/:id: the full cascade delete of
// a hotel, its reservations and its inventory.
func (h *HotelHandler) DeleteHotel(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	if err := h.Provisioner.DeleteHotel(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": true})
}
