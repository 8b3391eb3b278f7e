package model

import (
	"fmt"
	"strings"
)

// RoomType enumerates the room classes a hotel can offer.  The set is
// closed at deploy time; inventory and reservations always reference
// one of these values.  Values are stored lower-case in the database.
type RoomType string

const (
	RoomTypeDouble RoomType = "double"
	RoomTypeQueen  RoomType = "queen"
	RoomTypeKing   RoomType = "king"
)

// AllRoomTypes returns every known room type in a stable order.  The
// order matters for deterministic provisioning and API output.
func AllRoomTypes() []RoomType {
	return []RoomType{RoomTypeDouble, RoomTypeQueen, RoomTypeKing}
}

// ParseRoomType converts user input into a RoomType.  Input is matched
// case-insensitively; unknown values return an error naming the input.
func ParseRoomType(s string) (RoomType, error) {
	switch RoomType(strings.ToLower(strings.TrimSpace(s))) {
	case RoomTypeDouble:
		return RoomTypeDouble, nil
	case RoomTypeQueen:
		return RoomTypeQueen, nil
	case RoomTypeKing:
		return RoomTypeKing, nil
	}
	return "", fmt.Errorf("unknown room type %q", s)
}

// String implements fmt.Stringer.
func (t RoomType) String() string { return string(t) }
