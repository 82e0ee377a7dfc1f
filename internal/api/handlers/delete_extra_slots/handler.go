package delete_extra_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/propdesk/PD-AgentBookingService/internal/api/handlers"
	"github.com/propdesk/PD-AgentBookingService/internal/api/middleware"
	"github.com/propdesk/PD-AgentBookingService/internal/service/exceptions"
	"github.com/propdesk/PD-AgentBookingService/internal/service/exceptions/models"
)

const (
	msgInvalidAgentID     = "некорректный ID агента"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgMissingIDs         = "не указаны ID исключений"
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

// Handle DELETE /api/v1/agents/{agentId}/extra-slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	agentID, err := strconv.ParseInt(vars["agentId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /agents/{id}/extra-slots - Invalid agent ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAgentID)
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /agents/{id}/extra-slots - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req DeleteExtraSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("DELETE /agents/{id}/extra-slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq := &models.DeleteSlotsRequest{
		ActorID: actorID,
		AgentID: agentID,
		IDs:     req.IDs,
	}

	if err := h.service.Delete(r.Context(), serviceReq); err != nil {
		switch {
		case errors.Is(err, exceptions.ErrAccessDenied):
			h.logger.Warn("DELETE /agents/{id}/extra-slots - Access denied: agent_id=%d, actor_id=%d", agentID, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, exceptions.ErrInvalidInput):
			h.logger.Warn("DELETE /agents/{id}/extra-slots - Missing IDs: agent_id=%d", agentID)
			handlers.RespondBadRequest(w, msgMissingIDs)

		default:
			h.logger.Error("DELETE /agents/{id}/extra-slots - Failed to delete exceptions: agent_id=%d, error=%v", agentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /agents/{id}/extra-slots - Deleted exceptions: agent_id=%d, ids=%v", agentID, req.IDs)
	w.WriteHeader(http.StatusNoContent)
}
