package update_profile

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/propdesk/PD-AgentBookingService/internal/api/handlers"
	"github.com/propdesk/PD-AgentBookingService/internal/api/middleware"
	"github.com/propdesk/PD-AgentBookingService/internal/service/profile"
)

const (
	msgInvalidAgentID     = "некорректный ID агента"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgInvalidProfile     = "некорректные параметры профиля"
	msgInvalidTimezone    = "некорректная таймзона, ожидается IANA идентификатор"
)

type Handler struct {
	service ProfileService
	logger  Logger
}

func NewHandler(service ProfileService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/agents/{agentId}/profile
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	agentID, err := strconv.ParseInt(vars["agentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /agents/{id}/profile - Invalid agent ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAgentID)
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /agents/{id}/profile - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateProfileRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /agents/{id}/profile - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Set(r.Context(), req.ToServiceRequest(actorID, agentID))
	if err != nil {
		switch {
		case errors.Is(err, profile.ErrAccessDenied):
			h.logger.Warn("PUT /agents/{id}/profile - Access denied: agent_id=%d, actor_id=%d", agentID, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, profile.ErrInvalidTimezone):
			h.logger.Warn("PUT /agents/{id}/profile - Invalid timezone: agent_id=%d", agentID)
			handlers.RespondBadRequest(w, msgInvalidTimezone)

		case errors.Is(err, profile.ErrInvalidInput):
			h.logger.Warn("PUT /agents/{id}/profile - Invalid profile: agent_id=%d, error=%v", agentID, err)
			handlers.RespondBadRequest(w, msgInvalidProfile)

		default:
			h.logger.Error("PUT /agents/{id}/profile - Failed to update profile: agent_id=%d, error=%v", agentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /agents/{id}/profile - Profile updated: agent_id=%d", agentID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
