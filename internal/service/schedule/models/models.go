package models

import (
	"time"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
	"github.com/propdesk/PD-AgentBookingService/pkg/types"
)

// Request модели

// UpsertEntryRequest одна запись пакета изменений недельного расписания
// ID == nil означает новую запись
type UpsertEntryRequest struct {
	ID        *int64           `json:"id,omitempty"`
	DayOfWeek int              `json:"dayOfWeek"` // 0 = воскресенье ... 6 = суббота
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
}

// UpsertScheduleRequest атомарный пакет изменений недельного расписания
type UpsertScheduleRequest struct {
	ActorID    int64                `json:"actorId"`
	AgentID    int64                `json:"agentId"`
	Entries    []UpsertEntryRequest `json:"entries"`
	DeletedIDs []int64              `json:"deletedIds,omitempty"`
}

// ToDomainUpsert конвертирует request в domain модель пакета
func (r *UpsertScheduleRequest) ToDomainUpsert() domain.WeeklyScheduleUpsert {
	upsert := domain.WeeklyScheduleUpsert{
		AgentID:    r.AgentID,
		Entries:    make([]domain.WeeklyScheduleUpsertEntry, 0, len(r.Entries)),
		DeletedIDs: r.DeletedIDs,
	}

	for _, entry := range r.Entries {
		upsert.Entries = append(upsert.Entries, domain.WeeklyScheduleUpsertEntry{
			ID:        entry.ID,
			DayOfWeek: time.Weekday(entry.DayOfWeek),
			StartTime: entry.StartTime,
			EndTime:   entry.EndTime,
		})
	}

	return upsert
}

// Response модели

// ScheduleEntryResponse одна запись недельного расписания
type ScheduleEntryResponse struct {
	ID        int64  `json:"id"`
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ScheduleResponse ответ с недельным расписанием агента
type ScheduleResponse struct {
	AgentID int64                   `json:"agentId"`
	Entries []ScheduleEntryResponse `json:"entries"`
}

// FromDomainSchedule конвертирует список записей в DTO
func FromDomainSchedule(agentID int64, entries []*domain.WeeklyScheduleEntry) *ScheduleResponse {
	resp := &ScheduleResponse{
		AgentID: agentID,
		Entries: make([]ScheduleEntryResponse, 0, len(entries)),
	}

	for _, entry := range entries {
		resp.Entries = append(resp.Entries, ScheduleEntryResponse{
			ID:        entry.ID,
			DayOfWeek: int(entry.DayOfWeek),
			StartTime: entry.StartTime.String(),
			EndTime:   entry.EndTime.String(),
		})
	}

	return resp
}
