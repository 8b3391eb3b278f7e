package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/asterstay/hotel-booking/internal/model"
	"github.com/asterstay/hotel-booking/internal/repository"
	"github.com/asterstay/hotel-booking/internal/utils"
)

// Provisioner materializes and extends the capacity ledger. It creates
// hotels together with their full inventory horizon in one transaction,
// applies growth-only room-count updates, and performs the hotel cascade
// delete. It is called exactly once per hotel at creation; the ledger is
// never provisioned twice because creation and provisioning share a
// transaction keyed on the unique hotel name.
type Provisioner struct {
	db           *sql.DB
	hotels       *repository.HotelRepo
	inventory    *repository.InventoryRepo
	reservations *repository.ReservationRepo

	// horizonMonths is the horizon used when growth has to materialize
	// inventory for a hotel that has no ledger rows at all.
	horizonMonths int
}

// NewProvisioner constructs a Provisioner over the given repositories.
func NewProvisioner(db *sql.DB, hotels *repository.HotelRepo, inventory *repository.InventoryRepo, reservations *repository.ReservationRepo, horizonMonths int) *Provisioner {
	return &Provisioner{db: db, hotels: hotels, inventory: inventory, reservations: reservations, horizonMonths: horizonMonths}
}

// HotelPatch carries a partial hotel update. Only fields explicitly
// present (non-nil name, types named in RoomCounts) are applied; absent
// fields are left untouched rather than inferred from value diffs.
type HotelPatch struct {
	Name       *string
	RoomCounts map[model.RoomType]int
}

// ProvisionHotel creates a hotel with its authoritative room counts and
// one ledger row per (room type with capacity > 0, date) from today
// through the end-of-month-rounded horizon. Everything happens in a
// single transaction, so a half-provisioned hotel can never be observed.
func (p *Provisioner) ProvisionHotel(ctx context.Context, name string, counts map[model.RoomType]int, horizonMonths int) (*model.Hotel, error) {
	for _, n := range counts {
		if n < 0 {
			return nil, ErrInvalidRoomCount
		}
	}
	start := utils.Day(time.Now())
	end := utils.MonthsOut(start, horizonMonths)

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	hotelID, err := p.hotels.CreateTx(ctx, tx, name, counts)
	if err != nil {
		return nil, err
	}
	rows := buildInventoryRows(hotelID, counts, start, end)
	if err := p.inventory.BulkInsertTx(ctx, tx, rows); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return p.hotels.GetByID(ctx, hotelID)
}

// UpdateHotel applies a partial update to a hotel: a rename and/or
// room-count growth. Counts can only grow; a patch shrinking any type is
// rejected with repository.ErrCapacityShrink and leaves both the counts
// and the ledger unchanged. Growth raises max capacity across the
// hotel's full provisioned range, materializing rows for types that
// previously had none; a hotel with no ledger rows at all gets a fresh
// horizon from today.
func (p *Provisioner) UpdateHotel(ctx context.Context, hotelID uint64, patch HotelPatch) (*model.Hotel, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Locks the hotel row, serializing concurrent capacity edits.
	hotel, err := p.hotels.GetByIDTx(ctx, tx, hotelID)
	if err != nil {
		return nil, err
	}

	// Reject shrink for every named type before mutating anything.
	for roomType, total := range patch.RoomCounts {
		if total < hotel.TotalRooms(roomType) {
			return nil, repository.ErrCapacityShrink
		}
	}

	if patch.Name != nil && *patch.Name != hotel.Name {
		if err := p.hotels.UpdateNameTx(ctx, tx, hotelID, *patch.Name); err != nil {
			return nil, err
		}
	}

	var start, end time.Time
	var provisioned, rangeLoaded bool
	for _, roomType := range model.AllRoomTypes() {
		total, named := patch.RoomCounts[roomType]
		current := hotel.TotalRooms(roomType)
		if !named || total == current {
			continue
		}
		if err := p.hotels.SetRoomCountTx(ctx, tx, hotelID, roomType, total); err != nil {
			return nil, err
		}
		if !rangeLoaded {
			start, end, provisioned, err = p.inventory.ProvisionedRangeTx(ctx, tx, hotelID)
			if err != nil {
				return nil, err
			}
			if !provisioned {
				// A hotel created with all-zero counts has no ledger
				// rows at all; growth must materialize a fresh horizon
				// or the grown rooms would never become bookable.
				start = utils.Day(time.Now())
				end = utils.MonthsOut(start, p.horizonMonths)
			}
			rangeLoaded = true
		}
		if current == 0 {
			// No ledger rows exist for a type the hotel never offered;
			// materialize them over the provisioned range.
			rows := buildInventoryRows(hotelID, map[model.RoomType]int{roomType: total}, start, end)
			if err := p.inventory.BulkInsertTx(ctx, tx, rows); err != nil {
				return nil, err
			}
			continue
		}
		if err := p.inventory.GrowCapacityTx(ctx, tx, hotelID, roomType, start, end, total); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return p.hotels.GetByID(ctx, hotelID)
}

// DeleteHotel removes a hotel and everything that references it:
// reservations, ledger rows, room counts and the hotel itself, in one
// transaction. This is the only path that physically deletes
// reservations or ledger rows.
func (p *Provisioner) DeleteHotel(ctx context.Context, hotelID uint64) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := p.reservations.DeleteByHotelTx(ctx, tx, hotelID); err != nil {
		return err
	}
	if err := p.inventory.DeleteByHotelTx(ctx, tx, hotelID); err != nil {
		return err
	}
	if err := p.hotels.DeleteTx(ctx, tx, hotelID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// buildInventoryRows expands room counts into one ledger record per
// (room type with capacity > 0, date) over [start, end]. The horizon end
// is inclusive: the month-end date itself is materialized.
func buildInventoryRows(hotelID uint64, counts map[model.RoomType]int, start, end time.Time) []repository.InventoryDayRecord {
	dates := utils.DateRange(start, utils.Day(end).AddDate(0, 0, 1))
	rows := make([]repository.InventoryDayRecord, 0, len(dates)*len(counts))
	for _, date := range dates {
		for _, roomType := range model.AllRoomTypes() {
			capacity := counts[roomType]
			if capacity <= 0 {
				continue
			}
			rows = append(rows, repository.InventoryDayRecord{
				HotelID:           hotelID,
				RoomType:          roomType,
				Date:              date,
				MaxRoomsAvailable: capacity,
				RoomsReserved:     0,
			})
		}
	}
	return rows
}
