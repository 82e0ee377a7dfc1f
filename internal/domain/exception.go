package domain

import (
	"time"

	"github.com/propdesk/PD-AgentBookingService/pkg/types"
)

// ExtraSlotKind distinguishes date-specific additions from removals
type ExtraSlotKind string

const (
	// SlotKindExtra adds one-off open time outside the recurring schedule
	SlotKindExtra ExtraSlotKind = "extra"
	// SlotKindBlocked removes time from that date (temporary closure)
	SlotKindBlocked ExtraSlotKind = "blocked"
)

// ExtraTimeSlot represents a date-specific exception to the weekly schedule
type ExtraTimeSlot struct {
	ID        int64
	AgentID   int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Kind      ExtraSlotKind
	Reason    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExtraTimeSlotUpsert запись замены исключений на конкретную дату
// ID == nil означает новую запись; сохраненные записи с ID обновляются
type ExtraTimeSlotUpsert struct {
	ID        *int64
	StartTime types.TimeString
	EndTime   types.TimeString
	Kind      ExtraSlotKind
	Reason    *string
}
