package profile

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
	"github.com/propdesk/PD-AgentBookingService/pkg/dbmetrics"
	"github.com/propdesk/PD-AgentBookingService/pkg/psqlbuilder"
)

var profileColumns = []string{
	"id",
	"agent_id",
	"meeting_duration_minutes",
	"lead_time_minutes",
	"buffer_time_minutes",
	"cancel_reschedule_buffer_minutes",
	"auto_confirm",
	"auto_cancel_after_minutes",
	"daily_booking_limit",
	"anti_spam_enabled",
	"timezone",
	"created_at",
	"updated_at",
}

// Repository репозиторий профилей доступности агентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория профилей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByAgentID получает профиль агента
func (r *Repository) GetByAgentID(ctx context.Context, agentID int64) (*domain.AgentAvailabilityProfile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(profileColumns...).
		From("agent_availability_profiles").
		Where(squirrel.Eq{"agent_id": agentID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByAgentID - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.AgentAvailabilityProfile
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.AgentID,
		&p.MeetingDurationMinutes,
		&p.LeadTimeMinutes,
		&p.BufferTimeMinutes,
		&p.CancelRescheduleBufferMinutes,
		&p.AutoConfirm,
		&p.AutoCancelAfterMinutes,
		&p.DailyBookingLimit,
		&p.AntiSpamEnabled,
		&p.Timezone,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByAgentID - scan profile: %w", ErrScanRow, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}

// Replace заменяет профиль агента целиком (upsert по agent_id)
// Частичного обновления нет: вызывающая сторона присылает полную конфигурацию
func (r *Repository) Replace(ctx context.Context, p *domain.AgentAvailabilityProfile) (*domain.AgentAvailabilityProfile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("agent_availability_profiles").
		Columns(
			"agent_id",
			"meeting_duration_minutes",
			"lead_time_minutes",
			"buffer_time_minutes",
			"cancel_reschedule_buffer_minutes",
			"auto_confirm",
			"auto_cancel_after_minutes",
			"daily_booking_limit",
			"anti_spam_enabled",
			"timezone",
		).
		Values(
			p.AgentID,
			p.MeetingDurationMinutes,
			p.LeadTimeMinutes,
			p.BufferTimeMinutes,
			p.CancelRescheduleBufferMinutes,
			p.AutoConfirm,
			p.AutoCancelAfterMinutes,
			p.DailyBookingLimit,
			p.AntiSpamEnabled,
			p.Timezone,
		).
		Suffix(`ON CONFLICT (agent_id) DO UPDATE SET
			meeting_duration_minutes = EXCLUDED.meeting_duration_minutes,
			lead_time_minutes = EXCLUDED.lead_time_minutes,
			buffer_time_minutes = EXCLUDED.buffer_time_minutes,
			cancel_reschedule_buffer_minutes = EXCLUDED.cancel_reschedule_buffer_minutes,
			auto_confirm = EXCLUDED.auto_confirm,
			auto_cancel_after_minutes = EXCLUDED.auto_cancel_after_minutes,
			daily_booking_limit = EXCLUDED.daily_booking_limit,
			anti_spam_enabled = EXCLUDED.anti_spam_enabled,
			timezone = EXCLUDED.timezone,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Replace - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Replace - execute upsert: %w", ErrExecQuery, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return p, nil
}
