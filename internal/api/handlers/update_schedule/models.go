package update_schedule

import (
	"github.com/propdesk/PD-AgentBookingService/internal/service/schedule/models"
	"github.com/propdesk/PD-AgentBookingService/pkg/types"
)

// ScheduleEntryRequest одна запись пакета изменений
type ScheduleEntryRequest struct {
	ID        *int64           `json:"id,omitempty"`
	DayOfWeek int              `json:"dayOfWeek"`
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
}

// UpdateScheduleRequest HTTP request model
type UpdateScheduleRequest struct {
	Entries    []ScheduleEntryRequest `json:"entries"`
	DeletedIDs []int64                `json:"deletedIds,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateScheduleRequest) ToServiceRequest(actorID, agentID int64) *models.UpsertScheduleRequest {
	req := &models.UpsertScheduleRequest{
		ActorID:    actorID,
		AgentID:    agentID,
		Entries:    make([]models.UpsertEntryRequest, 0, len(r.Entries)),
		DeletedIDs: r.DeletedIDs,
	}

	for _, entry := range r.Entries {
		req.Entries = append(req.Entries, models.UpsertEntryRequest{
			ID:        entry.ID,
			DayOfWeek: entry.DayOfWeek,
			StartTime: entry.StartTime,
			EndTime:   entry.EndTime,
		})
	}

	return req
}
