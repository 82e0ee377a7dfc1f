package domain

import (
	"time"

	"github.com/propdesk/PD-AgentBookingService/pkg/types"
)

// WeeklyScheduleEntry represents one recurring open interval in the agent's
// default working week. Times are local wall-clock in the agent's timezone.
type WeeklyScheduleEntry struct {
	ID        int64
	AgentID   int64
	DayOfWeek time.Weekday
	StartTime types.TimeString
	EndTime   types.TimeString
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overlaps reports whether two entries on the same day intersect.
// Touching boundaries (one ends exactly where the other starts) do not overlap.
func (e *WeeklyScheduleEntry) Overlaps(other *WeeklyScheduleEntry) bool {
	if e.DayOfWeek != other.DayOfWeek {
		return false
	}
	return e.StartTime.IsBefore(other.EndTime) && e.EndTime.IsAfter(other.StartTime)
}

// WeeklyScheduleUpsert атомарный пакет изменений недельного расписания:
// записи с ID обновляются, без ID (nil) - вставляются, DeletedIDs - удаляются
type WeeklyScheduleUpsert struct {
	AgentID    int64
	Entries    []WeeklyScheduleUpsertEntry
	DeletedIDs []int64
}

// WeeklyScheduleUpsertEntry запись пакета изменений
// ID == nil означает новую, еще не сохраненную запись
type WeeklyScheduleUpsertEntry struct {
	ID        *int64
	DayOfWeek time.Weekday
	StartTime types.TimeString
	EndTime   types.TimeString
}
