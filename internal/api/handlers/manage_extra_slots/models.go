package manage_extra_slots

import (
	"time"

	"github.com/propdesk/PD-AgentBookingService/internal/service/exceptions/models"
	"github.com/propdesk/PD-AgentBookingService/pkg/types"
)

// ExtraSlotRequest одна запись замены исключений на дату
type ExtraSlotRequest struct {
	ID        *int64           `json:"id,omitempty"`
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
	Kind      string           `json:"kind"`
	Reason    *string          `json:"reason,omitempty"`
}

// ManageExtraSlotsRequest HTTP request model
type ManageExtraSlotsRequest struct {
	Slots []ExtraSlotRequest `json:"slots"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *ManageExtraSlotsRequest) ToServiceRequest(actorID, agentID int64, date time.Time) *models.ManageDateRequest {
	req := &models.ManageDateRequest{
		ActorID: actorID,
		AgentID: agentID,
		Date:    date,
		Slots:   make([]models.ManageDateSlotRequest, 0, len(r.Slots)),
	}

	for _, slot := range r.Slots {
		req.Slots = append(req.Slots, models.ManageDateSlotRequest{
			ID:        slot.ID,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Kind:      slot.Kind,
			Reason:    slot.Reason,
		})
	}

	return req
}
