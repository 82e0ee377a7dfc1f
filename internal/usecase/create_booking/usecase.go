package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
	bookingRepo "github.com/propdesk/PD-AgentBookingService/internal/infra/storage/booking"
	profileRepo "github.com/propdesk/PD-AgentBookingService/internal/infra/storage/profile"
)

// UseCase use case для создания бронирования показа
type UseCase struct {
	bookingRepo    BookingRepository
	profileRepo    ProfileRepository
	slotResolver   SlotResolver
	cooldown       CooldownTracker
	cooldownWindow time.Duration
	txManager      TransactionManager
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	profileRepo ProfileRepository,
	slotResolver SlotResolver,
	cooldown CooldownTracker,
	cooldownWindow time.Duration,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		profileRepo:    profileRepo,
		slotResolver:   slotResolver,
		cooldown:       cooldown,
		cooldownWindow: cooldownWindow,
		txManager:      txManager,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case создания бронирования
// Использует сериализуемую транзакцию и повторную проверку слота для
// предотвращения гонки данных; exclusion constraint в БД - финальный арбитр
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: requester=%d, property=%d, agent=%d, date=%s, time=%s",
		req.RequesterID, req.PropertyID, req.AgentID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Профиль агента (дефолтный, если агент еще не настраивал доступность)
	profile, err := uc.loadProfile(ctx, req.AgentID)
	if err != nil {
		return nil, err
	}

	loc, err := profile.Location()
	if err != nil {
		uc.logger.Error("CreateBooking: agent=%d has invalid timezone %q: %v", req.AgentID, profile.Timezone, err)
		return nil, fmt.Errorf("%w: invalid agent timezone: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now().In(loc)

	// 3. Дата не должна быть в прошлом
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateBooking: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, err
	}

	// 4. Анти-спам: cooldown повторных попыток и дубликаты активных бронирований
	if profile.AntiSpamEnabled {
		if err := uc.checkAntiSpam(ctx, req); err != nil {
			return nil, err
		}
	}

	endTime, err := req.StartTime.AddMinutes(profile.MeetingDurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateBooking: slot end out of range: %v", err)
		return nil, fmt.Errorf("%w: slot end out of range", ErrSlotNotAvailable)
	}

	status := domain.StatusPending
	if profile.AutoConfirm {
		status = domain.StatusConfirmed
	}

	var result *domain.Booking

	// 5. Сериализуемая транзакция: повторный расчет слотов с блокировкой
	// бронирований даты и создание записи
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		day, err := uc.slotResolver.ResolveDate(txCtx, req.AgentID, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to resolve slots: %v", err)
			return fmt.Errorf("%w: failed to resolve slots: %w", ErrInternal, err)
		}

		if day.LimitReached {
			uc.logger.Warn("CreateBooking: daily limit reached for agent=%d on %s",
				req.AgentID, req.Date.Format(domain.DateFormat))
			return ErrDailyLimitReached
		}

		if !day.Contains(req.StartTime, endTime) {
			uc.logger.Warn("CreateBooking: slot %s-%s not available for agent=%d on %s",
				req.StartTime, endTime, req.AgentID, req.Date.Format(domain.DateFormat))
			return ErrSlotNotAvailable
		}

		booking := &domain.Booking{
			PropertyID:  req.PropertyID,
			RequesterID: req.RequesterID,
			AgentID:     req.AgentID,
			BookingDate: req.Date,
			StartTime:   req.StartTime,
			EndTime:     endTime,
			MeetingType: req.MeetingType,
			Status:      status,
			Notes:       req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				uc.logger.Warn("CreateBooking: slot %s-%s lost to concurrent booking", req.StartTime, endTime)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			// %w сохраняет pq.Error для повторов DoSerializable
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, status=%s", result.ID, result.Status)

	return &Response{
		ID:          result.ID,
		PropertyID:  result.PropertyID,
		RequesterID: result.RequesterID,
		AgentID:     result.AgentID,
		BookingDate: result.BookingDate,
		StartTime:   result.StartTime,
		EndTime:     result.EndTime,
		MeetingType: string(result.MeetingType),
		Status:      string(result.Status),
		Notes:       result.Notes,
		CreatedAt:   result.CreatedAt,
		UpdatedAt:   result.UpdatedAt,
	}, nil
}

// checkAntiSpam отклоняет повторные попытки внутри окна cooldown и
// дубликаты активных бронирований того же объекта
func (uc *UseCase) checkAntiSpam(ctx context.Context, req *Request) error {
	key := fmt.Sprintf("%d:%d", req.RequesterID, req.AgentID)
	if !uc.cooldown.Allow(key) {
		uc.logger.Warn("CreateBooking: cooldown active for requester=%d, agent=%d", req.RequesterID, req.AgentID)
		return ErrBookingCooldown
	}

	since := uc.timeProvider.Now().Add(-uc.cooldownWindow)
	recent, err := uc.bookingRepo.GetRecentByRequesterAndAgent(ctx, req.RequesterID, req.AgentID, since)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to load recent bookings: %v", err)
		return fmt.Errorf("%w: failed to load recent bookings: %v", ErrInternal, err)
	}

	if hasDuplicateActiveBooking(recent, req.PropertyID) {
		uc.logger.Warn("CreateBooking: duplicate active booking, requester=%d, property=%d",
			req.RequesterID, req.PropertyID)
		return ErrDuplicateBooking
	}

	return nil
}

func (uc *UseCase) loadProfile(ctx context.Context, agentID int64) (*domain.AgentAvailabilityProfile, error) {
	profile, err := uc.profileRepo.GetByAgentID(ctx, agentID)
	if err != nil {
		if errors.Is(err, profileRepo.ErrProfileNotFound) {
			return domain.DefaultProfile(agentID), nil
		}
		uc.logger.Error("CreateBooking: failed to load profile for agent=%d: %v", agentID, err)
		return nil, fmt.Errorf("%w: failed to load profile: %v", ErrInternal, err)
	}
	return profile, nil
}
