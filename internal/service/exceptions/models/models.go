package models

import (
	"time"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
	"github.com/propdesk/PD-AgentBookingService/pkg/types"
)

// Request модели

// ManageDateSlotRequest одна запись замены исключений на дату
// ID == nil означает новую запись
type ManageDateSlotRequest struct {
	ID        *int64           `json:"id,omitempty"`
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
	Kind      string           `json:"kind"` // "extra" или "blocked"
	Reason    *string          `json:"reason,omitempty"`
}

// ManageDateRequest запрос на замену исключений календаря на конкретную дату
// Отсутствующие в списке сохраненные записи этой даты удаляются
type ManageDateRequest struct {
	ActorID int64                   `json:"actorId"`
	AgentID int64                   `json:"agentId"`
	Date    time.Time               `json:"date"`
	Slots   []ManageDateSlotRequest `json:"slots"`
}

// ToDomainUpserts конвертирует запрос в domain модели
func (r *ManageDateRequest) ToDomainUpserts() []domain.ExtraTimeSlotUpsert {
	upserts := make([]domain.ExtraTimeSlotUpsert, 0, len(r.Slots))
	for _, slot := range r.Slots {
		upserts = append(upserts, domain.ExtraTimeSlotUpsert{
			ID:        slot.ID,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Kind:      domain.ExtraSlotKind(slot.Kind),
			Reason:    slot.Reason,
		})
	}
	return upserts
}

// DeleteSlotsRequest запрос на удаление исключений по ID
// Удаление идемпотентно - несуществующие ID не являются ошибкой
type DeleteSlotsRequest struct {
	ActorID int64   `json:"actorId"`
	AgentID int64   `json:"agentId"`
	IDs     []int64 `json:"ids"`
}

// CheckAvailabilityRequest запрос проверки доступности интервала
type CheckAvailabilityRequest struct {
	AgentID   int64            `json:"agentId"`
	Date      time.Time        `json:"date"`
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
}

// Response модели

// ExtraSlotResponse одна запись исключения календаря
type ExtraSlotResponse struct {
	ID        int64   `json:"id"`
	Date      string  `json:"date"` // "2026-03-15"
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Kind      string  `json:"kind"`
	Reason    *string `json:"reason,omitempty"`
}

// ExtraSlotListResponse ответ со списком исключений агента
type ExtraSlotListResponse struct {
	AgentID int64               `json:"agentId"`
	Slots   []ExtraSlotResponse `json:"slots"`
}

// CheckAvailabilityResponse ответ проверки доступности интервала
type CheckAvailabilityResponse struct {
	Available bool `json:"available"`
}

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(slot *domain.ExtraTimeSlot) ExtraSlotResponse {
	return ExtraSlotResponse{
		ID:        slot.ID,
		Date:      slot.Date.Format(domain.DateFormat),
		StartTime: slot.StartTime.String(),
		EndTime:   slot.EndTime.String(),
		Kind:      string(slot.Kind),
		Reason:    slot.Reason,
	}
}

// FromDomainSlotList конвертирует список domain моделей в DTO
func FromDomainSlotList(agentID int64, slots []*domain.ExtraTimeSlot) *ExtraSlotListResponse {
	resp := &ExtraSlotListResponse{
		AgentID: agentID,
		Slots:   make([]ExtraSlotResponse, 0, len(slots)),
	}

	for _, slot := range slots {
		resp.Slots = append(resp.Slots, FromDomainSlot(slot))
	}

	return resp
}
