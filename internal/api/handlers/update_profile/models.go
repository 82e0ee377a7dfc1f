package update_profile

import "github.com/propdesk/PD-AgentBookingService/internal/service/profile/models"

// UpdateProfileRequest HTTP request model
// Профиль заменяется целиком, частичных обновлений нет
type UpdateProfileRequest struct {
	MeetingDurationMinutes        int    `json:"meetingDurationMinutes"`
	LeadTimeMinutes               int    `json:"leadTimeMinutes"`
	BufferTimeMinutes             int    `json:"bufferTimeMinutes"`
	CancelRescheduleBufferMinutes int    `json:"cancelRescheduleBufferMinutes"`
	AutoConfirm                   bool   `json:"autoConfirm"`
	AutoCancelAfterMinutes        int    `json:"autoCancelAfterMinutes"`
	DailyBookingLimit             int    `json:"dailyBookingLimit"`
	AntiSpamEnabled               bool   `json:"antiSpamEnabled"`
	Timezone                      string `json:"timezone"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateProfileRequest) ToServiceRequest(actorID, agentID int64) *models.SetProfileRequest {
	return &models.SetProfileRequest{
		ActorID:                       actorID,
		AgentID:                       agentID,
		MeetingDurationMinutes:        r.MeetingDurationMinutes,
		LeadTimeMinutes:               r.LeadTimeMinutes,
		BufferTimeMinutes:             r.BufferTimeMinutes,
		CancelRescheduleBufferMinutes: r.CancelRescheduleBufferMinutes,
		AutoConfirm:                   r.AutoConfirm,
		AutoCancelAfterMinutes:        r.AutoCancelAfterMinutes,
		DailyBookingLimit:             r.DailyBookingLimit,
		AntiSpamEnabled:               r.AntiSpamEnabled,
		Timezone:                      r.Timezone,
	}
}
