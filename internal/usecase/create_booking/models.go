package create_booking

import (
	"time"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
	"github.com/propdesk/PD-AgentBookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	RequesterID int64              // ID пользователя, запрашивающего показ
	PropertyID  int64              // ID объекта недвижимости
	AgentID     int64              // ID агента
	Date        time.Time          // Дата показа (без времени, в таймзоне агента)
	StartTime   types.TimeString   // Время начала слота (например, "10:00")
	MeetingType domain.MeetingType // Формат встречи: очный или виртуальный
	Notes       *string            // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          int64
	PropertyID  int64
	RequesterID int64
	AgentID     int64
	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	MeetingType string
	Status      string
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
