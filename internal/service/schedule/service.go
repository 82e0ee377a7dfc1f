package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
	scheduleRepo "github.com/propdesk/PD-AgentBookingService/internal/infra/storage/schedule"
	"github.com/propdesk/PD-AgentBookingService/internal/service/schedule/models"
	"github.com/propdesk/PD-AgentBookingService/pkg/ptr"
)

// Service сервис для работы с недельным расписанием агента
type Service struct {
	scheduleRepo ScheduleRepository
	bookingRepo  BookingRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// List возвращает недельное расписание агента
func (s *Service) List(ctx context.Context, agentID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("List: fetching schedule for agent=%d", agentID)

	entries, err := s.scheduleRepo.ListByAgentID(ctx, agentID)
	if err != nil {
		s.logger.Error("List: repository error for agent=%d: %v", agentID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSchedule(agentID, entries), nil
}

// Upsert атомарно применяет пакет изменений недельного расписания:
// удаления, обновления и вставки в одной транзакции.
// Подтвержденные будущие бронирования, выпавшие из нового расписания,
// помечаются needs_review - они не отменяются автоматически
func (s *Service) Upsert(ctx context.Context, req *models.UpsertScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Upsert: updating schedule for agent=%d by actor=%d, entries=%d, deleted=%d",
		req.AgentID, req.ActorID, len(req.Entries), len(req.DeletedIDs))

	if req.ActorID != req.AgentID {
		s.logger.Warn("Upsert: access denied for actor=%d to agent=%d schedule", req.ActorID, req.AgentID)
		return nil, ErrAccessDenied
	}

	upsert := req.ToDomainUpsert()
	if err := validateUpsert(&upsert); err != nil {
		s.logger.Warn("Upsert: validation failed for agent=%d: %v", req.AgentID, err)
		return nil, err
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Текущее расписание читается внутри транзакции с блокировкой строк:
		// пакет, закоммиченный параллельным Upsert того же агента,
		// участвует в проверке пересечений
		existing, err := s.scheduleRepo.ListByAgentID(txCtx, req.AgentID)
		if err != nil {
			return fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
		}

		final, err := buildFinalSchedule(existing, &upsert)
		if err != nil {
			return err
		}

		if len(upsert.DeletedIDs) > 0 {
			if err := s.scheduleRepo.DeleteByIDs(txCtx, req.AgentID, upsert.DeletedIDs); err != nil {
				return fmt.Errorf("%w: Upsert - delete entries: %v", ErrInternal, err)
			}
		}

		for _, entry := range upsert.Entries {
			domainEntry := &domain.WeeklyScheduleEntry{
				AgentID:   req.AgentID,
				DayOfWeek: entry.DayOfWeek,
				StartTime: entry.StartTime,
				EndTime:   entry.EndTime,
			}

			if entry.ID != nil {
				domainEntry.ID = *entry.ID
				if err := s.scheduleRepo.Update(txCtx, domainEntry); err != nil {
					if errors.Is(err, scheduleRepo.ErrEntryNotFound) {
						return fmt.Errorf("%w: id=%d", ErrEntryNotFound, *entry.ID)
					}
					return fmt.Errorf("%w: Upsert - update entry: %v", ErrInternal, err)
				}
				continue
			}

			if _, err := s.scheduleRepo.Insert(txCtx, domainEntry); err != nil {
				return fmt.Errorf("%w: Upsert - insert entry: %v", ErrInternal, err)
			}
		}

		return s.markOutOfScheduleBookings(txCtx, req.AgentID, final)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrScheduleOverlap), errors.Is(err, ErrInvalidInput):
			s.logger.Warn("Upsert: final schedule invalid for agent=%d: %v", req.AgentID, err)
		case errors.Is(err, ErrEntryNotFound), errors.Is(err, ErrInternal):
			s.logger.Error("Upsert: transaction failed for agent=%d: %v", req.AgentID, err)
		}
		return nil, err
	}

	entries, err := s.scheduleRepo.ListByAgentID(ctx, req.AgentID)
	if err != nil {
		s.logger.Error("Upsert: failed to reload schedule for agent=%d: %v", req.AgentID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: successfully updated schedule for agent=%d, entries=%d", req.AgentID, len(entries))
	return models.FromDomainSchedule(req.AgentID, entries), nil
}

// markOutOfScheduleBookings помечает подтвержденные будущие бронирования,
// не покрытые новым недельным расписанием
func (s *Service) markOutOfScheduleBookings(ctx context.Context, agentID int64, final []*domain.WeeklyScheduleEntry) error {
	// Фильтр начинается с полуночи UTC - канонического ключа даты,
	// иначе сегодняшние бронирования выпадают из проверки
	now := s.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	status := domain.StatusConfirmed

	bookings, err := s.bookingRepo.GetByAgentWithFilter(ctx, domain.AgentBookingsFilter{
		AgentID:   agentID,
		StartDate: &today,
		Status:    &status,
	})
	if err != nil {
		return fmt.Errorf("%w: markOutOfScheduleBookings - load bookings: %v", ErrInternal, err)
	}

	var outOfSchedule []int64
	for _, booking := range bookings {
		if booking.NeedsReview {
			continue
		}
		if !coveredByWeeklySchedule(booking, final) {
			outOfSchedule = append(outOfSchedule, booking.ID)
		}
	}

	if len(outOfSchedule) == 0 {
		return nil
	}

	if err := s.bookingRepo.MarkNeedsReview(ctx, outOfSchedule); err != nil {
		return fmt.Errorf("%w: markOutOfScheduleBookings - mark bookings: %v", ErrInternal, err)
	}

	s.logger.Warn("markOutOfScheduleBookings: %d bookings of agent=%d flagged for review",
		len(outOfSchedule), agentID)
	return nil
}

// coveredByWeeklySchedule проверяет, что интервал бронирования целиком лежит
// в одной из записей расписания его дня недели
func coveredByWeeklySchedule(booking *domain.Booking, entries []*domain.WeeklyScheduleEntry) bool {
	weekday := booking.BookingDate.Weekday()

	for _, entry := range entries {
		if entry.DayOfWeek != weekday {
			continue
		}
		if !booking.StartTime.IsBefore(entry.StartTime) && !booking.EndTime.IsAfter(entry.EndTime) {
			return true
		}
	}

	return false
}

// validateUpsert проверяет корректность каждой записи пакета
func validateUpsert(upsert *domain.WeeklyScheduleUpsert) error {
	if upsert.AgentID <= 0 {
		return fmt.Errorf("%w: agentID must be positive", ErrInvalidInput)
	}

	for i, entry := range upsert.Entries {
		if entry.DayOfWeek < time.Sunday || entry.DayOfWeek > time.Saturday {
			return fmt.Errorf("%w: entry %d: dayOfWeek must be between 0 and 6", ErrInvalidInput, i)
		}
		if err := entry.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: entry %d: invalid startTime: %v", ErrInvalidInput, i, err)
		}
		if err := entry.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: entry %d: invalid endTime: %v", ErrInvalidInput, i, err)
		}
		if !entry.StartTime.IsBefore(entry.EndTime) {
			return fmt.Errorf("%w: entry %d: startTime must be before endTime", ErrInvalidInput, i)
		}
		if entry.ID != nil && *entry.ID <= 0 {
			return fmt.Errorf("%w: entry %d: id must be positive", ErrInvalidInput, i)
		}
	}

	return nil
}

// buildFinalSchedule собирает итоговое расписание после применения пакета
// и проверяет его на пересечения внутри каждого дня
func buildFinalSchedule(existing []*domain.WeeklyScheduleEntry, upsert *domain.WeeklyScheduleUpsert) ([]*domain.WeeklyScheduleEntry, error) {
	deleted := make(map[int64]bool, len(upsert.DeletedIDs))
	for _, id := range upsert.DeletedIDs {
		deleted[id] = true
	}

	updated := make(map[int64]bool, len(upsert.Entries))
	for _, entry := range upsert.Entries {
		if entry.ID != nil {
			if deleted[*entry.ID] {
				return nil, fmt.Errorf("%w: entry id=%d is both updated and deleted", ErrInvalidInput, *entry.ID)
			}
			updated[*entry.ID] = true
		}
	}

	final := make([]*domain.WeeklyScheduleEntry, 0, len(existing)+len(upsert.Entries))
	for _, entry := range existing {
		if deleted[entry.ID] || updated[entry.ID] {
			continue
		}
		final = append(final, entry)
	}

	for _, entry := range upsert.Entries {
		final = append(final, &domain.WeeklyScheduleEntry{
			ID:        ptr.Deref(entry.ID),
			AgentID:   upsert.AgentID,
			DayOfWeek: entry.DayOfWeek,
			StartTime: entry.StartTime,
			EndTime:   entry.EndTime,
		})
	}

	for i := 0; i < len(final); i++ {
		for j := i + 1; j < len(final); j++ {
			if final[i].Overlaps(final[j]) {
				return nil, fmt.Errorf("%w: %s %s-%s intersects %s-%s",
					ErrScheduleOverlap,
					final[i].DayOfWeek,
					final[i].StartTime, final[i].EndTime,
					final[j].StartTime, final[j].EndTime)
			}
		}
	}

	return final, nil
}
