package models

import (
	"time"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
)

// Request модели

// SetProfileRequest запрос на полную замену профиля доступности агента
type SetProfileRequest struct {
	ActorID                       int64  `json:"actorId"`
	AgentID                       int64  `json:"agentId"`
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

// ToDomainProfile конвертирует request в domain модель
func (r *SetProfileRequest) ToDomainProfile() *domain.AgentAvailabilityProfile {
	return &domain.AgentAvailabilityProfile{
		AgentID:                       r.AgentID,
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

// Response модели

// ProfileResponse ответ с профилем доступности агента
type ProfileResponse struct {
	AgentID                       int64  `json:"agentId"`
	MeetingDurationMinutes        int    `json:"meetingDurationMinutes"`
	LeadTimeMinutes               int    `json:"leadTimeMinutes"`
	BufferTimeMinutes             int    `json:"bufferTimeMinutes"`
	CancelRescheduleBufferMinutes int    `json:"cancelRescheduleBufferMinutes"`
	AutoConfirm                   bool   `json:"autoConfirm"`
	AutoCancelAfterMinutes        int    `json:"autoCancelAfterMinutes"`
	DailyBookingLimit             int    `json:"dailyBookingLimit"`
	AntiSpamEnabled               bool   `json:"antiSpamEnabled"`
	Timezone                      string `json:"timezone"`

	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// FromDomainProfile конвертирует domain модель в DTO
// У несохраненного дефолтного профиля временные метки отсутствуют
func FromDomainProfile(p *domain.AgentAvailabilityProfile) *ProfileResponse {
	if p == nil {
		return nil
	}

	resp := &ProfileResponse{
		AgentID:                       p.AgentID,
		MeetingDurationMinutes:        p.MeetingDurationMinutes,
		LeadTimeMinutes:               p.LeadTimeMinutes,
		BufferTimeMinutes:             p.BufferTimeMinutes,
		CancelRescheduleBufferMinutes: p.CancelRescheduleBufferMinutes,
		AutoConfirm:                   p.AutoConfirm,
		AutoCancelAfterMinutes:        p.AutoCancelAfterMinutes,
		DailyBookingLimit:             p.DailyBookingLimit,
		AntiSpamEnabled:               p.AntiSpamEnabled,
		Timezone:                      p.Timezone,
	}

	if !p.CreatedAt.IsZero() {
		created := p.CreatedAt
		resp.CreatedAt = &created
	}
	if !p.UpdatedAt.IsZero() {
		updated := p.UpdatedAt
		resp.UpdatedAt = &updated
	}

	return resp
}
