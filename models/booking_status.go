package models

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// confirmed -> cancelled is the only move; cancelled is terminal.
var validNext = map[BookingStatus]map[BookingStatus]bool{
	BookingConfirmed: {BookingCancelled: true},
	BookingCancelled: {},
}

func CanTransition(from, to BookingStatus) bool {
	if m, ok := validNext[from]; ok {
		return m[to]
	}
	return false
}
