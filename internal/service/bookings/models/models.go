package models

import (
	"errors"
	"time"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidMeetingType возвращается при некорректном типе встречи
	ErrInvalidMeetingType = errors.New("invalid meeting type")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	ActorID            int64  `json:"actorId"`
	CancellationReason string `json:"cancellationReason"`
}

// UpdateMeetingTypeRequest запрос на смену формата встречи
type UpdateMeetingTypeRequest struct {
	ActorID     int64  `json:"actorId"`
	MeetingType string `json:"meetingType"`
}

// GetRequesterBookingsRequest запрос на получение бронирований пользователя
type GetRequesterBookingsRequest struct {
	RequesterID int64   `json:"requesterId"`
	Status      *string `json:"status,omitempty"`
}

// GetAgentBookingsRequest запрос на получение бронирований агента
type GetAgentBookingsRequest struct {
	ActorID         int64      `json:"actorId"`
	AgentID         int64      `json:"agentId"`
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отмененные бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetAgentBookingsRequest) ToDomainFilter() (domain.AgentBookingsFilter, error) {
	filter := domain.AgentBookingsFilter{
		AgentID:         r.AgentID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          int64  `json:"id"`
	PropertyID  int64  `json:"propertyId"`
	RequesterID int64  `json:"requesterId"`
	AgentID     int64  `json:"agentId"`
	BookingDate string `json:"bookingDate"` // "2026-03-15"
	StartTime   string `json:"startTime"`   // "10:00"
	EndTime     string `json:"endTime"`     // "10:30"
	MeetingType string `json:"meetingType"`
	Status      string `json:"status"`

	Notes       *string `json:"notes,omitempty"`
	NeedsReview bool    `json:"needsReview,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		PropertyID:         b.PropertyID,
		RequesterID:        b.RequesterID,
		AgentID:            b.AgentID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		MeetingType:        string(b.MeetingType),
		Status:             string(b.Status),
		Notes:              b.Notes,
		NeedsReview:        b.NeedsReview,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		formatted := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &formatted
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, b := range bookings {
		if resp := FromDomainBooking(b); resp != nil {
			result.Bookings = append(result.Bookings, *resp)
		}
	}

	return result
}

// ToDomainBookingStatus конвертирует строку в domain статус
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	candidate := domain.BookingStatus(status)
	for _, valid := range domain.ValidStatuses {
		if candidate == valid {
			return candidate, nil
		}
	}
	return "", ErrInvalidStatus
}

// ToDomainMeetingType конвертирует строку в domain тип встречи
func ToDomainMeetingType(meetingType string) (domain.MeetingType, error) {
	candidate := domain.MeetingType(meetingType)
	for _, valid := range domain.ValidMeetingTypes {
		if candidate == valid {
			return candidate, nil
		}
	}
	return "", ErrInvalidMeetingType
}
