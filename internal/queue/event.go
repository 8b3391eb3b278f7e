// Package queue defines the message payloads exchanged over the broker
// and the background consumer that records them. Events are published
// after commit, best-effort: a broker outage never fails a booking.
package queue

// ReservationConfirmedEvent is published when a reservation commits.
// It carries enough for downstream consumers to log or notify without
// querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	HotelID       uint64 `json:"hotel_id"`
	HotelName     string `json:"hotel_name"`
	RoomType      string `json:"room_type"`
	CheckinDate   string `json:"checkin_date"`
	CheckoutDate  string `json:"checkout_date"`
	GuestFullName string `json:"guest_full_name"`
	ConfirmedAt   string `json:"confirmed_at"`
}

// ReservationCancelledEvent is published when a reservation is
// cancelled and its night range released back to inventory.
type ReservationCancelledEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	HotelID       uint64 `json:"hotel_id"`
	RoomType      string `json:"room_type"`
	CheckinDate   string `json:"checkin_date"`
	CheckoutDate  string `json:"checkout_date"`
	CancelledAt   string `json:"cancelled_at"`
}
