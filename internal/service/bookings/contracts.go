package bookings

import (
	"context"
	"time"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByRequesterID(ctx context.Context, requesterID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByAgentWithFilter(ctx context.Context, filter domain.AgentBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	UpdateMeetingType(ctx context.Context, id int64, meetingType domain.MeetingType) error
	Cancel(ctx context.Context, id int64, status domain.BookingStatus, reason string) error
}

// ProfileRepository интерфейс репозитория профилей доступности
type ProfileRepository interface {
	GetByAgentID(ctx context.Context, agentID int64) (*domain.AgentAvailabilityProfile, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
