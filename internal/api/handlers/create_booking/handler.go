package create_booking

import (
	"errors"
	"net/http"

	"github.com/propdesk/PD-AgentBookingService/internal/api/handlers"
	"github.com/propdesk/PD-AgentBookingService/internal/api/middleware"
	createBooking "github.com/propdesk/PD-AgentBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgDailyLimitReached  = "у агента достигнут дневной лимит бронирований"
	msgBookingCooldown    = "слишком много попыток бронирования, попробуйте позже"
	msgDuplicateBooking   = "у вас уже есть активное бронирование этого объекта"
	msgInvalidBookingDate = "некорректная дата бронирования"
	msgInvalidMeetingType = "некорректный тип встречи"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(requesterID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: requester_id=%d, agent_id=%d", requesterID, req.AgentID)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrDailyLimitReached):
			h.logger.Warn("POST /bookings - Daily limit reached: requester_id=%d, agent_id=%d", requesterID, req.AgentID)
			handlers.RespondError(w, http.StatusConflict, msgDailyLimitReached)

		case errors.Is(err, createBooking.ErrBookingCooldown):
			h.logger.Warn("POST /bookings - Cooldown active: requester_id=%d, agent_id=%d", requesterID, req.AgentID)
			handlers.RespondError(w, http.StatusTooManyRequests, msgBookingCooldown)

		case errors.Is(err, createBooking.ErrDuplicateBooking):
			h.logger.Warn("POST /bookings - Duplicate booking: requester_id=%d, property_id=%d", requesterID, req.PropertyID)
			handlers.RespondError(w, http.StatusConflict, msgDuplicateBooking)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: requester_id=%d, agent_id=%d", requesterID, req.AgentID)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrInvalidMeetingType):
			h.logger.Warn("POST /bookings - Invalid meeting type: requester_id=%d, type=%s", requesterID, req.MeetingType)
			handlers.RespondBadRequest(w, msgInvalidMeetingType)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: requester_id=%d, error=%v", requesterID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: requester_id=%d, agent_id=%d, error=%v",
				requesterID, req.AgentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, requester_id=%d, agent_id=%d",
		result.ID, requesterID, req.AgentID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
