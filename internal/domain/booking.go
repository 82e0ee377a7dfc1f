package domain

import (
	"time"

	"github.com/propdesk/PD-AgentBookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending              BookingStatus = "pending"
	StatusConfirmed            BookingStatus = "confirmed"
	StatusCompleted            BookingStatus = "completed"
	StatusCancelledByRequester BookingStatus = "cancelled_by_requester"
	StatusCancelledByAgent     BookingStatus = "cancelled_by_agent"
	StatusAutoCancelled        BookingStatus = "auto_cancelled"
)

// MeetingType represents how the appointment is held
type MeetingType string

const (
	MeetingInPerson MeetingType = "in_person"
	MeetingVirtual  MeetingType = "virtual"
)

// Booking represents a property viewing appointment between a requester and an agent
type Booking struct {
	ID          int64
	PropertyID  int64
	RequesterID int64
	AgentID     int64
	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	MeetingType MeetingType
	Status      BookingStatus

	Notes *string

	// NeedsReview помечает подтвержденные бронирования, выпавшие из нового
	// недельного расписания агента после его изменения
	NeedsReview bool

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its time slot.
// Cancelled bookings free the slot; completed ones keep it occupied.
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelledByRequester &&
		b.Status != StatusCancelledByAgent &&
		b.Status != StatusAutoCancelled
}

// IsTerminal returns true if no further status transitions are allowed
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted ||
		b.Status == StatusCancelledByRequester ||
		b.Status == StatusCancelledByAgent ||
		b.Status == StatusAutoCancelled
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeConfirmed returns true if the booking is waiting for agent confirmation
func (b *Booking) CanBeConfirmed() bool {
	return b.Status == StatusPending
}

// CanBeCompleted returns true if the booking can be marked completed
func (b *Booking) CanBeCompleted() bool {
	return b.Status == StatusConfirmed
}

// CanTransitionTo reports whether the state machine allows moving to target
func (b *Booking) CanTransitionTo(target BookingStatus) bool {
	switch target {
	case StatusConfirmed:
		return b.CanBeConfirmed()
	case StatusCompleted:
		return b.CanBeCompleted()
	case StatusCancelledByRequester, StatusCancelledByAgent:
		return b.CanBeCancelled()
	case StatusAutoCancelled:
		return b.Status == StatusPending
	default:
		return false
	}
}

// AutoCancelDue reports whether a pending booking has outlived the profile's
// auto-cancel deadline at the given moment. Bookings in any other status and
// profiles with auto-cancel disabled never expire.
func (b *Booking) AutoCancelDue(profile *AgentAvailabilityProfile, now time.Time) bool {
	if b.Status != StatusPending || !profile.AutoCancelEnabled() {
		return false
	}
	deadline := b.CreatedAt.Add(time.Duration(profile.AutoCancelAfterMinutes) * time.Minute)
	return !now.Before(deadline)
}

// StartsAt returns the exact start moment of the booking in the given location
func (b *Booking) StartsAt(loc *time.Location) (time.Time, error) {
	minutes, err := b.StartTime.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(b.BookingDate.Year(), b.BookingDate.Month(), b.BookingDate.Day(),
		minutes/60, minutes%60, 0, 0, loc), nil
}

// AgentBookingsFilter фильтр для получения бронирований агента
type AgentBookingsFilter struct {
	AgentID         int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отмененные бронирования
}
