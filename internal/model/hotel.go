package model

import "time"

// Hotel represents a property whose rooms can be reserved.  Room totals
// are kept in the hotel_room_counts table and reported from there, never
// derived by counting inventory rows.
//
// Fields:
//  ID         – primary key identifier.
//  Name       – unique hotel name.
//  RoomCounts – authoritative total rooms per room type.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Hotel struct {
	ID         uint64             // hotels.id
	Name       string             // hotels.name
	RoomCounts map[RoomType]int   // hotel_room_counts.total_rooms keyed by room_type
	CreatedAt  time.Time          // hotels.created_at
	UpdatedAt  time.Time          // hotels.updated_at
}

// TotalRooms returns the number of rooms of the given type, zero when
// the hotel offers none.
func (h *Hotel) TotalRooms(t RoomType) int {
	if h.RoomCounts == nil {
		return 0
	}
	return h.RoomCounts[t]
}
