package manage_extra_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/propdesk/PD-AgentBookingService/internal/api/handlers"
	"github.com/propdesk/PD-AgentBookingService/internal/api/middleware"
	"github.com/propdesk/PD-AgentBookingService/internal/domain"
	"github.com/propdesk/PD-AgentBookingService/internal/service/exceptions"
)

const (
	msgInvalidAgentID     = "некорректный ID агента"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgInvalidSlots       = "некорректные параметры исключений"
)

type Handler struct {
	service ExceptionService
	logger  Logger
}

func NewHandler(service ExceptionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/agents/{agentId}/extra-slots/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	agentID, err := strconv.ParseInt(vars["agentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /agents/{id}/extra-slots/{date} - Invalid agent ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAgentID)
		return
	}

	date, err := time.Parse(domain.DateFormat, vars["date"])
	if err != nil {
		h.logger.Warn("PUT /agents/{id}/extra-slots/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /agents/{id}/extra-slots/{date} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ManageExtraSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /agents/{id}/extra-slots/{date} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.ManageDate(r.Context(), req.ToServiceRequest(actorID, agentID, date))
	if err != nil {
		switch {
		case errors.Is(err, exceptions.ErrAccessDenied):
			h.logger.Warn("PUT /agents/{id}/extra-slots/{date} - Access denied: agent_id=%d, actor_id=%d", agentID, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, exceptions.ErrInvalidInput):
			h.logger.Warn("PUT /agents/{id}/extra-slots/{date} - Invalid slots: agent_id=%d, error=%v", agentID, err)
			handlers.RespondBadRequest(w, msgInvalidSlots)

		default:
			h.logger.Error("PUT /agents/{id}/extra-slots/{date} - Failed to manage exceptions: agent_id=%d, error=%v", agentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /agents/{id}/extra-slots/{date} - Updated exceptions: agent_id=%d, date=%s, slots=%d",
		agentID, vars["date"], len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
