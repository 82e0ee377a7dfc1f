package resolve_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
	profileRepo "github.com/propdesk/PD-AgentBookingService/internal/infra/storage/profile"
)

// UseCase use case расчета доступных слотов агента
//
// Детерминирован: одинаковые входы (профиль, расписание, исключения,
// бронирования, текущее время) всегда дают одинаковую последовательность слотов
type UseCase struct {
	bookingRepo   BookingRepository
	profileRepo   ProfileRepository
	scheduleRepo  ScheduleRepository
	exceptionRepo ExceptionRepository
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	profileRepo ProfileRepository,
	scheduleRepo ScheduleRepository,
	exceptionRepo ExceptionRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		profileRepo:   profileRepo,
		scheduleRepo:  scheduleRepo,
		exceptionRepo: exceptionRepo,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute вычисляет доступные слоты на дату или на месяц
// Ключи дат - полночь UTC, как и при записи; таймзона агента
// участвует только в расчете lead time и текущего дня
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ResolveSlots: validation failed: %v", err)
		return nil, err
	}

	// Профиль агента (дефолтный, если агент еще не настраивал доступность)
	profile, err := uc.loadProfile(ctx, req.AgentID)
	if err != nil {
		return nil, err
	}

	loc, err := profile.Location()
	if err != nil {
		uc.logger.Error("ResolveSlots: agent=%d has invalid timezone %q: %v", req.AgentID, profile.Timezone, err)
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, profile.Timezone)
	}

	now := uc.timeProvider.Now().In(loc)
	rangeStart, rangeEnd := requestRange(req)

	schedule, err := uc.scheduleRepo.ListByAgentID(ctx, req.AgentID)
	if err != nil {
		uc.logger.Error("ResolveSlots: failed to load schedule for agent=%d: %v", req.AgentID, err)
		return nil, fmt.Errorf("%w: failed to load schedule: %w", ErrInternal, err)
	}

	extras, err := uc.exceptionRepo.ListByAgentAndDateRange(ctx, req.AgentID, rangeStart, rangeEnd)
	if err != nil {
		uc.logger.Error("ResolveSlots: failed to load exceptions for agent=%d: %v", req.AgentID, err)
		return nil, fmt.Errorf("%w: failed to load exceptions: %w", ErrInternal, err)
	}

	filter := domain.AgentBookingsFilter{
		AgentID:         req.AgentID,
		StartDate:       &rangeStart,
		EndDate:         &rangeEnd,
		IncludeInactive: false,
	}
	bookings, err := uc.bookingRepo.GetByAgentWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("ResolveSlots: failed to load bookings for agent=%d: %v", req.AgentID, err)
		// Цепочка ошибки драйвера сохраняется: транзакционный менеджер
		// распознает serialization failure по вложенной pq.Error
		return nil, fmt.Errorf("%w: failed to load bookings: %w", ErrInternal, err)
	}

	days := make([]domain.DaySlots, 0)
	for date := rangeStart; !date.After(rangeEnd); date = date.AddDate(0, 0, 1) {
		day, err := resolveDay(profile, dayInputs{
			date:     date,
			schedule: schedule,
			extras:   extras,
			bookings: bookings,
		}, now)
		if err != nil {
			uc.logger.Error("ResolveSlots: failed to resolve %s for agent=%d: %v",
				date.Format(domain.DateFormat), req.AgentID, err)
			return nil, fmt.Errorf("%w: failed to resolve day: %v", ErrInternal, err)
		}
		days = append(days, day)
	}

	uc.logger.Info("ResolveSlots: agent=%d, range=%s..%s, days=%d",
		req.AgentID, rangeStart.Format(domain.DateFormat), rangeEnd.Format(domain.DateFormat), len(days))

	return &Response{
		AgentID:  req.AgentID,
		Timezone: profile.Timezone,
		Days:     days,
	}, nil
}

// ResolveDate вычисляет слоты одной даты
// Используется usecase создания бронирования для повторной проверки при коммите
func (uc *UseCase) ResolveDate(ctx context.Context, agentID int64, date time.Time) (*domain.DaySlots, error) {
	resp, err := uc.Execute(ctx, &Request{AgentID: agentID, Date: &date})
	if err != nil {
		return nil, err
	}
	if len(resp.Days) != 1 {
		return nil, fmt.Errorf("%w: expected single day, got %d", ErrInternal, len(resp.Days))
	}
	return &resp.Days[0], nil
}

func (uc *UseCase) loadProfile(ctx context.Context, agentID int64) (*domain.AgentAvailabilityProfile, error) {
	profile, err := uc.profileRepo.GetByAgentID(ctx, agentID)
	if err != nil {
		if errors.Is(err, profileRepo.ErrProfileNotFound) {
			uc.logger.Info("ResolveSlots: using default profile for agent=%d", agentID)
			return domain.DefaultProfile(agentID), nil
		}
		uc.logger.Error("ResolveSlots: failed to load profile for agent=%d: %v", agentID, err)
		return nil, fmt.Errorf("%w: failed to load profile: %v", ErrInternal, err)
	}
	return profile, nil
}

// requestRange возвращает границы запрошенного диапазона.
// Границы нормализуются к полуночи UTC - каноническому ключу даты,
// с которым хендлеры и репозитории пишут booking_date и date.
// Полночь в таймзоне агента здесь использовать нельзя: как момент времени
// она не совпадает с записанным ключом, и фильтры репозиториев
// потеряли бы бронирования и исключения этой даты
func requestRange(req *Request) (time.Time, time.Time) {
	if req.Date != nil {
		day := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, time.UTC)
		return day, day
	}

	start := time.Date(*req.Year, *req.Month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}
