package create_booking

import (
	"fmt"
	"time"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.RequesterID <= 0 {
		return fmt.Errorf("%w: requesterID must be positive", ErrInvalidInput)
	}

	if req.PropertyID <= 0 {
		return fmt.Errorf("%w: propertyID must be positive", ErrInvalidInput)
	}

	if req.AgentID <= 0 {
		return fmt.Errorf("%w: agentID must be positive", ErrInvalidInput)
	}

	if req.RequesterID == req.AgentID {
		return fmt.Errorf("%w: agent cannot book a viewing with themselves", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if !validMeetingType(req.MeetingType) {
		return fmt.Errorf("%w: %q", ErrInvalidMeetingType, req.MeetingType)
	}

	return nil
}

func validMeetingType(mt domain.MeetingType) bool {
	for _, valid := range domain.ValidMeetingTypes {
		if mt == valid {
			return true
		}
	}
	return false
}

// validateDate проверяет, что дата бронирования не в прошлом (в таймзоне агента)
func validateDate(bookingDate time.Time, now time.Time) error {
	dateOnly := time.Date(bookingDate.Year(), bookingDate.Month(), bookingDate.Day(), 0, 0, 0, 0, now.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if dateOnly.Before(nowOnly) {
		return ErrInvalidDate
	}

	return nil
}

// hasDuplicateActiveBooking проверяет наличие активного бронирования
// того же объекта тем же пользователем
func hasDuplicateActiveBooking(bookings []*domain.Booking, propertyID int64) bool {
	for _, booking := range bookings {
		if booking.PropertyID == propertyID && booking.IsActive() {
			return true
		}
	}
	return false
}
