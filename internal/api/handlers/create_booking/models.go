package create_booking

import (
	"time"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
	createBooking "github.com/propdesk/PD-AgentBookingService/internal/usecase/create_booking"
	"github.com/propdesk/PD-AgentBookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	PropertyID  int64   `json:"propertyId"`
	AgentID     int64   `json:"agentId"`
	BookingDate string  `json:"bookingDate"` // "2026-03-15"
	StartTime   string  `json:"startTime"`   // "10:00"
	MeetingType string  `json:"meetingType"` // "in_person" или "virtual"
	Notes       *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          int64   `json:"id"`
	PropertyID  int64   `json:"propertyId"`
	RequesterID int64   `json:"requesterId"`
	AgentID     int64   `json:"agentId"`
	BookingDate string  `json:"bookingDate"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	MeetingType string  `json:"meetingType"`
	Status      string  `json:"status"`
	Notes       *string `json:"notes,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// requesterID приходит из заголовка аутентификации, не из тела
func (r *CreateBookingRequest) ToUseCaseRequest(requesterID int64) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		RequesterID: requesterID,
		PropertyID:  r.PropertyID,
		AgentID:     r.AgentID,
		Date:        bookingDate,
		StartTime:   startTime,
		MeetingType: domain.MeetingType(r.MeetingType),
		Notes:       r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:          resp.ID,
		PropertyID:  resp.PropertyID,
		RequesterID: resp.RequesterID,
		AgentID:     resp.AgentID,
		BookingDate: resp.BookingDate.Format(domain.DateFormat),
		StartTime:   resp.StartTime.String(),
		EndTime:     resp.EndTime.String(),
		MeetingType: resp.MeetingType,
		Status:      resp.Status,
		Notes:       resp.Notes,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
