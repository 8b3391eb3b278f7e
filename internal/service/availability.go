package service

import (
	"context"
	"errors"
	"time"

	"github.com/asterstay/hotel-booking/internal/model"
	"github.com/asterstay/hotel-booking/internal/repository"
	"github.com/asterstay/hotel-booking/internal/utils"
)

// Availability is the outcome of an availability check.
type Availability int

const (
	// Available means every night of the stay has free capacity.
	Available Availability = iota
	// Unavailable means at least one night is fully booked.
	Unavailable
	// NotProvisioned means the stay reaches past the inventory horizon.
	// Callers must surface this distinctly from Unavailable.
	NotProvisioned
)

// String implements fmt.Stringer.
func (a Availability) String() string {
	switch a {
	case Available:
		return "available"
	case Unavailable:
		return "unavailable"
	case NotProvisioned:
		return "not_provisioned"
	}
	return "unknown"
}

// AvailabilityChecker answers whether a stay can be booked. It is a pure
// read-side query with no side effects and takes no locks: the result is
// advisory, and the reservation service repeats the check under row
// locks before committing.
type AvailabilityChecker struct {
	inventory *repository.InventoryRepo
	hotels    *repository.HotelRepo
}

// NewAvailabilityChecker constructs an AvailabilityChecker over the
// given repositories.
func NewAvailabilityChecker(inventory *repository.InventoryRepo, hotels *repository.HotelRepo) *AvailabilityChecker {
	return &AvailabilityChecker{inventory: inventory, hotels: hotels}
}

// IsAvailable reports whether hotel has a free unit of roomType on every
// night in [checkin, checkout). A zero-or-negative-night stay fails with
// ErrInvalidDateRange before the ledger is queried; an unknown hotel is
// repository.ErrHotelNotFound, not a NotProvisioned answer.
func (c *AvailabilityChecker) IsAvailable(ctx context.Context, hotelID uint64, roomType model.RoomType, checkin, checkout time.Time) (Availability, error) {
	checkin, checkout = utils.Day(checkin), utils.Day(checkout)
	if utils.Nights(checkin, checkout) <= 0 {
		return Unavailable, ErrInvalidDateRange
	}
	if _, err := c.hotels.GetByID(ctx, hotelID); err != nil {
		return Unavailable, err
	}
	usage, err := c.inventory.GetUsage(ctx, hotelID, roomType, checkin, checkout)
	if errors.Is(err, repository.ErrNotProvisioned) {
		return NotProvisioned, nil
	}
	if err != nil {
		return Unavailable, err
	}
	return evaluateUsage(usage), nil
}

// Usage returns the raw ledger rows for a range, for the inventory read
// API. The repository's provisioning contract applies: a range past the
// horizon yields repository.ErrNotProvisioned.
func (c *AvailabilityChecker) Usage(ctx context.Context, hotelID uint64, roomType model.RoomType, checkin, checkout time.Time) ([]repository.UsageDay, error) {
	checkin, checkout = utils.Day(checkin), utils.Day(checkout)
	if utils.Nights(checkin, checkout) <= 0 {
		return nil, ErrInvalidDateRange
	}
	if _, err := c.hotels.GetByID(ctx, hotelID); err != nil {
		return nil, err
	}
	return c.inventory.GetUsage(ctx, hotelID, roomType, checkin, checkout)
}

// SearchHotels returns the hotels able to host a stay over
// [checkin, checkout) in at least one of the given room types on every
// night. An empty roomTypes slice searches all types.
func (c *AvailabilityChecker) SearchHotels(ctx context.Context, roomTypes []model.RoomType, checkin, checkout time.Time) ([]model.Hotel, error) {
	checkin, checkout = utils.Day(checkin), utils.Day(checkout)
	if utils.Nights(checkin, checkout) <= 0 {
		return nil, ErrInvalidDateRange
	}
	ids, err := c.inventory.SearchAvailableHotels(ctx, roomTypes, checkin, checkout)
	if err != nil {
		return nil, err
	}
	return c.hotels.GetByIDs(ctx, ids)
}

// evaluateUsage applies the availability rule to fetched ledger rows:
// every night must retain free capacity. The caller guarantees the rows
// cover the full range; missing rows are handled upstream as
// NotProvisioned.
func evaluateUsage(usage []repository.UsageDay) Availability {
	for _, day := range usage {
		if day.Free() <= 0 {
			return Unavailable
		}
	}
	return Available
}
