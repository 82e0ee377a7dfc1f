package domain

import "time"

// AgentAvailabilityProfile represents the per-agent booking configuration.
// Exactly one profile exists per agent; updates replace the row wholesale.
type AgentAvailabilityProfile struct {
	ID                            int64
	AgentID                       int64
	MeetingDurationMinutes        int
	LeadTimeMinutes               int
	BufferTimeMinutes             int
	CancelRescheduleBufferMinutes int
	AutoConfirm                   bool
	AutoCancelAfterMinutes        int // 0 = pending bookings never auto-cancel
	DailyBookingLimit             int // 0 = unlimited
	AntiSpamEnabled               bool
	Timezone                      string // IANA identifier, e.g. "Europe/Moscow"
	CreatedAt                     time.Time
	UpdatedAt                     time.Time
}

// HasDailyLimit returns true if the agent caps confirmed bookings per day
func (p *AgentAvailabilityProfile) HasDailyLimit() bool {
	return p.DailyBookingLimit > 0
}

// AutoCancelEnabled returns true if unconfirmed bookings expire
func (p *AgentAvailabilityProfile) AutoCancelEnabled() bool {
	return p.AutoCancelAfterMinutes > 0
}

// Location resolves the agent's IANA timezone
func (p *AgentAvailabilityProfile) Location() (*time.Location, error) {
	return time.LoadLocation(p.Timezone)
}

// DefaultProfile возвращает профиль с дефолтными значениями для агента,
// который еще не настраивал свою доступность
func DefaultProfile(agentID int64) *AgentAvailabilityProfile {
	return &AgentAvailabilityProfile{
		AgentID:                       agentID,
		MeetingDurationMinutes:        DefaultMeetingDurationMinutes,
		LeadTimeMinutes:               DefaultLeadTimeMinutes,
		BufferTimeMinutes:             DefaultBufferTimeMinutes,
		CancelRescheduleBufferMinutes: DefaultCancelRescheduleBufferMinutes,
		AutoConfirm:                   false,
		AutoCancelAfterMinutes:        DefaultAutoCancelAfterMinutes,
		DailyBookingLimit:             DefaultDailyBookingLimit,
		AntiSpamEnabled:               true,
		Timezone:                      DefaultTimezone,
	}
}
