package exceptions

import (
	"context"
	"fmt"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
	"github.com/propdesk/PD-AgentBookingService/internal/service/exceptions/models"
)

// Service сервис для работы с исключениями календаря агента:
// разовые extra-слоты поверх недельного расписания и blocked-интервалы
type Service struct {
	exceptionRepo ExceptionRepository
	slotResolver  SlotResolver
	txManager     TransactionManager
	logger        Logger
}

// NewService создает новый экземпляр сервиса исключений
func NewService(
	exceptionRepo ExceptionRepository,
	slotResolver SlotResolver,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		exceptionRepo: exceptionRepo,
		slotResolver:  slotResolver,
		txManager:     txManager,
		logger:        logger,
	}
}

// List возвращает все исключения календаря агента
func (s *Service) List(ctx context.Context, agentID int64) (*models.ExtraSlotListResponse, error) {
	s.logger.Info("List: fetching calendar exceptions for agent=%d", agentID)

	slots, err := s.exceptionRepo.ListByAgentID(ctx, agentID)
	if err != nil {
		s.logger.Error("List: repository error for agent=%d: %v", agentID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSlotList(agentID, slots), nil
}

// ManageDate заменяет набор исключений на конкретную дату
// Записи с ID обновляются, без ID - создаются, не перечисленные - удаляются.
// Замена выполняется в одной транзакции
func (s *Service) ManageDate(ctx context.Context, req *models.ManageDateRequest) (*models.ExtraSlotListResponse, error) {
	s.logger.Info("ManageDate: agent=%d, date=%s, slots=%d, actor=%d",
		req.AgentID, req.Date.Format(domain.DateFormat), len(req.Slots), req.ActorID)

	if req.ActorID != req.AgentID {
		s.logger.Warn("ManageDate: access denied for actor=%d to agent=%d calendar", req.ActorID, req.AgentID)
		return nil, ErrAccessDenied
	}

	if err := validateManageDate(req); err != nil {
		s.logger.Warn("ManageDate: validation failed for agent=%d: %v", req.AgentID, err)
		return nil, err
	}

	var replaced []*domain.ExtraTimeSlot
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		slots, err := s.exceptionRepo.ReplaceForDate(txCtx, req.AgentID, req.Date, req.ToDomainUpserts())
		if err != nil {
			return fmt.Errorf("%w: ManageDate - repository error: %v", ErrInternal, err)
		}
		replaced = slots
		return nil
	})
	if err != nil {
		s.logger.Error("ManageDate: transaction failed for agent=%d: %v", req.AgentID, err)
		return nil, err
	}

	s.logger.Info("ManageDate: agent=%d now has %d exceptions on %s",
		req.AgentID, len(replaced), req.Date.Format(domain.DateFormat))
	return models.FromDomainSlotList(req.AgentID, replaced), nil
}

// Delete удаляет исключения по ID
// Идемпотентно: уже удаленные или несуществующие ID не являются ошибкой
func (s *Service) Delete(ctx context.Context, req *models.DeleteSlotsRequest) error {
	s.logger.Info("Delete: agent=%d, ids=%v, actor=%d", req.AgentID, req.IDs, req.ActorID)

	if req.ActorID != req.AgentID {
		s.logger.Warn("Delete: access denied for actor=%d to agent=%d calendar", req.ActorID, req.AgentID)
		return ErrAccessDenied
	}

	if len(req.IDs) == 0 {
		return fmt.Errorf("%w: ids are required", ErrInvalidInput)
	}

	if err := s.exceptionRepo.DeleteByIDs(ctx, req.AgentID, req.IDs); err != nil {
		s.logger.Error("Delete: repository error for agent=%d: %v", req.AgentID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted exceptions for agent=%d", req.AgentID)
	return nil
}

// CheckAvailability проверяет, доступен ли интервал на дату
// Интервал доступен, если он целиком покрыт бронируемыми слотами агента
// без разрывов - точного совпадения с одним слотом не требуется
func (s *Service) CheckAvailability(ctx context.Context, req *models.CheckAvailabilityRequest) (*models.CheckAvailabilityResponse, error) {
	s.logger.Info("CheckAvailability: agent=%d, date=%s, slot=%s-%s",
		req.AgentID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	if err := validateCheckAvailability(req); err != nil {
		s.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	day, err := s.slotResolver.ResolveDate(ctx, req.AgentID, req.Date)
	if err != nil {
		s.logger.Error("CheckAvailability: resolver error for agent=%d: %v", req.AgentID, err)
		return nil, fmt.Errorf("%w: CheckAvailability - resolver error: %v", ErrInternal, err)
	}

	return &models.CheckAvailabilityResponse{
		Available: day.Covers(req.StartTime, req.EndTime),
	}, nil
}

// validateManageDate проверяет корректность запроса замены исключений
func validateManageDate(req *models.ManageDateRequest) error {
	if req.AgentID <= 0 {
		return fmt.Errorf("%w: agentID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	for i, slot := range req.Slots {
		if err := slot.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: slot %d: invalid startTime: %v", ErrInvalidInput, i, err)
		}
		if err := slot.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: slot %d: invalid endTime: %v", ErrInvalidInput, i, err)
		}
		if !slot.StartTime.IsBefore(slot.EndTime) {
			return fmt.Errorf("%w: slot %d: startTime must be before endTime", ErrInvalidInput, i)
		}

		kind := domain.ExtraSlotKind(slot.Kind)
		if kind != domain.SlotKindExtra && kind != domain.SlotKindBlocked {
			return fmt.Errorf("%w: slot %d: kind must be %q or %q",
				ErrInvalidInput, i, domain.SlotKindExtra, domain.SlotKindBlocked)
		}

		if slot.Reason != nil && len(*slot.Reason) > domain.MaxReasonLength {
			return fmt.Errorf("%w: slot %d: reason exceeds %d characters",
				ErrInvalidInput, i, domain.MaxReasonLength)
		}

		if slot.ID != nil && *slot.ID <= 0 {
			return fmt.Errorf("%w: slot %d: id must be positive", ErrInvalidInput, i)
		}
	}

	return nil
}

// validateCheckAvailability проверяет корректность запроса доступности
func validateCheckAvailability(req *models.CheckAvailabilityRequest) error {
	if req.AgentID <= 0 {
		return fmt.Errorf("%w: agentID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}
	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
	}
	if !req.StartTime.IsBefore(req.EndTime) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}
	return nil
}
