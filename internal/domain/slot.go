package domain

import (
	"time"

	"github.com/propdesk/PD-AgentBookingService/pkg/types"
)

// AvailableSlot represents one resolved bookable interval on a specific date.
// Bookable is false when the slot is free but the agent's daily booking limit
// is already reached, so callers can show "fully booked" instead of "no data".
type AvailableSlot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	Bookable  bool
}

// DaySlots holds the resolved slot sequence for a single date,
// ordered by start time and non-overlapping
type DaySlots struct {
	Date         time.Time
	Slots        []AvailableSlot
	LimitReached bool // daily_booking_limit уже достигнут на эту дату
}

// HasBookable returns true if at least one slot on the date can still be booked
func (d *DaySlots) HasBookable() bool {
	for _, slot := range d.Slots {
		if slot.Bookable {
			return true
		}
	}
	return false
}

// Contains reports whether the exact interval [start, end) is present and bookable.
// Booking creation requires an exact slot; for arbitrary intervals use Covers
func (d *DaySlots) Contains(start, end types.TimeString) bool {
	for _, slot := range d.Slots {
		if slot.StartTime == start && slot.EndTime == end {
			return slot.Bookable
		}
	}
	return false
}

// Covers reports whether [start, end) is fully covered by consecutive bookable
// slots with no gaps. A 60-minute window over two adjacent 30-minute slots
// is covered even though it is not a slot itself
func (d *DaySlots) Covers(start, end types.TimeString) bool {
	startMin, err := start.Minutes()
	if err != nil {
		return false
	}
	endMin, err := end.Minutes()
	if err != nil {
		return false
	}
	if startMin >= endMin {
		return false
	}

	// Слоты отсортированы по началу и не пересекаются
	cursor := startMin
	for _, slot := range d.Slots {
		slotStart, err := slot.StartTime.Minutes()
		if err != nil {
			return false
		}
		slotEnd, err := slot.EndTime.Minutes()
		if err != nil {
			return false
		}

		if slotEnd <= cursor {
			continue
		}
		if slotStart > cursor || !slot.Bookable {
			return false
		}

		cursor = slotEnd
		if cursor >= endMin {
			return true
		}
	}

	return false
}
