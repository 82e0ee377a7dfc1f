package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/propdesk/PD-AgentBookingService/internal/api/handlers"
	resolveSlots "github.com/propdesk/PD-AgentBookingService/internal/usecase/resolve_slots"
)

const (
	msgInvalidAgentID  = "некорректный ID агента"
	msgInvalidQuery    = "некорректные параметры запроса: нужна дата или месяц+год"
	msgInvalidTimezone = "в профиле агента указана некорректная таймзона"
)

type Handler struct {
	useCase ResolveSlotsUseCase
	logger  Logger
}

func NewHandler(useCase ResolveSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/agents/{agentId}/available-slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	agentID, err := strconv.ParseInt(vars["agentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /agents/{id}/available-slots - Invalid agent ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAgentID)
		return
	}

	query := r.URL.Query()
	req, err := parseQuery(agentID, query.Get("date"), query.Get("month"), query.Get("year"))
	if err != nil {
		h.logger.Warn("GET /agents/{id}/available-slots - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, resolveSlots.ErrInvalidInput):
			h.logger.Warn("GET /agents/{id}/available-slots - Invalid input: agent_id=%d, error=%v", agentID, err)
			handlers.RespondBadRequest(w, msgInvalidQuery)

		case errors.Is(err, resolveSlots.ErrInvalidTimezone):
			h.logger.Error("GET /agents/{id}/available-slots - Invalid timezone: agent_id=%d", agentID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidTimezone)

		default:
			h.logger.Error("GET /agents/{id}/available-slots - Failed to resolve slots: agent_id=%d, error=%v", agentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /agents/{id}/available-slots - Resolved %d days for agent_id=%d", len(result.Days), agentID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
