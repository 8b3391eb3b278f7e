package model

import "time"

// InventoryDay is the capacity ledger's unit record: how many rooms of a
// given type exist at a hotel on one calendar date, and how many of them
// are committed to reservations.  The invariant
// 0 <= RoomsReserved <= MaxRoomsAvailable must hold for every row.
//
// Fields:
//  ID                – primary key identifier.
//  HotelID           – hotel the row belongs to.
//  RoomType          – room class the capacity applies to.
//  Date              – calendar date (day granularity, UTC midnight).
//  MaxRoomsAvailable – capacity ceiling for this date.
//  RoomsReserved     – units currently committed to reservations.
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type InventoryDay struct {
	ID                uint64    // room_inventory.id
	HotelID           uint64    // room_inventory.hotel_id
	RoomType          RoomType  // room_inventory.room_type
	Date              time.Time // room_inventory.date
	MaxRoomsAvailable int       // room_inventory.max_rooms_available
	RoomsReserved     int       // room_inventory.rooms_reserved
	CreatedAt         time.Time // room_inventory.created_at
	UpdatedAt         time.Time // room_inventory.updated_at
}

// Free returns how many units remain bookable on this date.
func (d *InventoryDay) Free() int {
	return d.MaxRoomsAvailable - d.RoomsReserved
}
