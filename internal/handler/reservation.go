package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/asterstay/hotel-booking/internal/model"
	"github.com/asterstay/hotel-booking/internal/queue"
	"github.com/asterstay/hotel-booking/internal/repository"
	"github.com/asterstay/hotel-booking/internal/service"
	"github.com/asterstay/hotel-booking/internal/utils"
)

// ReservationHandler exposes the reservation lifecycle over HTTP. All
// booking rules live in the service; the handler binds, translates
// errors and publishes lifecycle events after successful commits.
type ReservationHandler struct {
	Reservations *service.ReservationService
	Hotels       *repository.HotelRepo
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(reservations *service.ReservationService, hotels *repository.HotelRepo) *ReservationHandler {
	if reservations == nil || hotels == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: reservations, Hotels: hotels}
}

// reservationView is the JSON shape for a reservation.
type reservationView struct {
	ID            uint64 `json:"id"`
	HotelID       uint64 `json:"hotel_id"`
	RoomType      string `json:"room_type"`
	CheckinDate   string `json:"checkin_date"`
	CheckoutDate  string `json:"checkout_date"`
	GuestFullName string `json:"guest_full_name"`
	IsCancelled   bool   `json:"is_cancelled"`
	IsCompleted   bool   `json:"is_completed"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

func newReservationView(r *model.Reservation) reservationView {
	return reservationView{
		ID:            r.ID,
		HotelID:       r.HotelID,
		RoomType:      string(r.RoomType),
		CheckinDate:   r.CheckinDate.Format(utils.DateLayout),
		CheckoutDate:  r.CheckoutDate.Format(utils.DateLayout),
		GuestFullName: r.GuestFullName,
		IsCancelled:   r.IsCancelled,
		IsCompleted:   r.IsCompleted,
		CreatedAt:     r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// createReservationRequest is the request body for POST /v1/reservations.
type createReservationRequest struct {
	HotelID       uint64 `json:"hotel_id"`
	RoomType      string `json:"room_type"`
	CheckinDate   string `json:"checkin_date"`
	CheckoutDate  string `json:"checkout_date"`
	GuestFullName string `json:"guest_full_name"`
}

// Create handles POST /v1/reservations. On success it returns 201 with
// the stored reservation and publishes a confirmation event in the
// background; a broker outage never turns a committed booking into an
// error response.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	roomType, err := model.ParseRoomType(req.RoomType)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	checkin, err := utils.ParseDate(req.CheckinDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "checkin_date must be YYYY-MM-DD"})
	}
	checkout, err := utils.ParseDate(req.CheckoutDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "checkout_date must be YYYY-MM-DD"})
	}

	res, err := h.Reservations.Create(c.Request().Context(), req.HotelID, roomType, checkin, checkout, req.GuestFullName)
	if err != nil {
		return respondError(c, err)
	}

	go h.publishConfirmed(res)

	return c.JSON(http.StatusCreated, echo.Map{"reservation": newReservationView(res)})
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Reservations.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": newReservationView(res)})
}

// List handles GET /v1/reservations, optionally filtered by ?hotel_id.
func (h *ReservationHandler) List(c echo.Context) error {
	var (
		reservations []model.Reservation
		err          error
	)
	if raw := c.QueryParam("hotel_id"); raw != "" {
		hotelID, perr := strconv.ParseUint(raw, 10, 64)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel_id"})
		}
		reservations, err = h.Reservations.ListByHotel(c.Request().Context(), hotelID)
	} else {
		reservations, err = h.Reservations.List(c.Request().Context())
	}
	if err != nil {
		return respondError(c, err)
	}
	views := make([]reservationView, 0, len(reservations))
	for i := range reservations {
		views = append(views, newReservationView(&reservations[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": views})
}

// modifyReservationRequest is the request body for PATCH
// /v1/reservations/:id. Pointer fields distinguish "not sent" from
// "sent with the current value": hotel_id and guest_full_name may be
// echoed back unchanged, but sending a different value is rejected.
type modifyReservationRequest struct {
	HotelID       *uint64 `json:"hotel_id"`
	GuestFullName *string `json:"guest_full_name"`
	RoomType      *string `json:"room_type"`
	CheckinDate   *string `json:"checkin_date"`
	CheckoutDate  *string `json:"checkout_date"`
}

// Modify handles PATCH /v1/reservations/:id.
func (h *ReservationHandler) Modify(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req modifyReservationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	patch := service.ReservationPatch{
		HotelID:       req.HotelID,
		GuestFullName: req.GuestFullName,
	}
	if req.RoomType != nil {
		roomType, err := model.ParseRoomType(*req.RoomType)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		patch.RoomType = &roomType
	}
	if req.CheckinDate != nil {
		checkin, err := utils.ParseDate(*req.CheckinDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "checkin_date must be YYYY-MM-DD"})
		}
		patch.CheckinDate = &checkin
	}
	if req.CheckoutDate != nil {
		checkout, err := utils.ParseDate(*req.CheckoutDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "checkout_date must be YYYY-MM-DD"})
		}
		patch.CheckoutDate = &checkout
	}

	res, err := h.Reservations.Modify(c.Request().Context(), id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": newReservationView(res)})
}

// Cancel handles DELETE /v1/reservations/:id. Cancellation keeps the
// row as history and is idempotent; the cancellation event is published
// only when this call performed the transition, never on repeats.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, released, err := h.Reservations.Cancel(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	if released {
		go h.publishCancelled(res)
	}

	return c.JSON(http.StatusOK, echo.Map{"reservation": newReservationView(res)})
}

// Complete handles POST /v1/reservations/:id/complete.
func (h *ReservationHandler) Complete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Reservations.MarkCompleted(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": newReservationView(res)})
}

// publishConfirmed emits the confirmation event with the hotel name
// resolved for downstream consumers. Runs detached from the request.
func (h *ReservationHandler) publishConfirmed(res *model.Reservation) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	hotelName := ""
	if hotel, err := h.Hotels.GetByID(ctx, res.HotelID); err == nil {
		hotelName = hotel.Name
	}
	_ = queue.PublishReservationConfirmed(ctx, queue.ReservationConfirmedEvent{
		ReservationID: res.ID,
		HotelID:       res.HotelID,
		HotelName:     hotelName,
		RoomType:      string(res.RoomType),
		CheckinDate:   res.CheckinDate.Format(utils.DateLayout),
		CheckoutDate:  res.CheckoutDate.Format(utils.DateLayout),
		GuestFullName: res.GuestFullName,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *ReservationHandler) publishCancelled(res *model.Reservation) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = queue.PublishReservationCancelled(ctx, queue.ReservationCancelledEvent{
		ReservationID: res.ID,
		HotelID:       res.HotelID,
		RoomType:      string(res.RoomType),
		CheckinDate:   res.CheckinDate.Format(utils.DateLayout),
		CheckoutDate:  res.CheckoutDate.Format(utils.DateLayout),
		CancelledAt:   time.Now().UTC().Format(time.RFC3339),
	})
}
