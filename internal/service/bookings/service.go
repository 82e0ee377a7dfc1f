package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
	bookingRepo "github.com/propdesk/PD-AgentBookingService/internal/infra/storage/booking"
	profileRepo "github.com/propdesk/PD-AgentBookingService/internal/infra/storage/profile"
	"github.com/propdesk/PD-AgentBookingService/internal/service/bookings/models"
)

// autoCancelReason причина отмены, проставляемая просроченным pending бронированиям
const autoCancelReason = "booking was not confirmed in time"

// Service сервис для работы с жизненным циклом бронирований
//
// Автоотмена просроченных pending бронирований выполняется лениво при чтении:
// фонового воркера нет, статус пересчитывается в момент обращения
type Service struct {
	bookingRepo  BookingRepository
	profileRepo  ProfileRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	profileRepo ProfileRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		profileRepo:  profileRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Доступно только участникам бронирования - пользователю или агенту
func (s *Service) GetByID(ctx context.Context, id int64, actorID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for actor=%d", id, actorID)

	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.RequesterID != actorID && booking.AgentID != actorID {
		s.logger.Warn("GetByID: access denied for actor=%d to booking id=%d", actorID, id)
		return nil, ErrAccessDenied
	}

	if err := s.applyAutoCancel(ctx, booking, nil); err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetRequesterBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetRequesterBookings(ctx context.Context, req *models.GetRequesterBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetRequesterBookings: fetching bookings for requester=%d, status=%v", req.RequesterID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetRequesterBookings: invalid status=%s for requester=%d", *req.Status, req.RequesterID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByRequesterID(ctx, req.RequesterID, domainStatus)
	if err != nil {
		s.logger.Error("GetRequesterBookings: repository error for requester=%d: %v", req.RequesterID, err)
		return nil, fmt.Errorf("%w: GetRequesterBookings - repository error: %v", ErrInternal, err)
	}

	profiles := make(map[int64]*domain.AgentAvailabilityProfile)
	for _, booking := range bookings {
		if err := s.applyAutoCancel(ctx, booking, profiles); err != nil {
			return nil, err
		}
	}

	s.logger.Info("GetRequesterBookings: successfully fetched %d bookings for requester=%d", len(bookings), req.RequesterID)
	return models.FromDomainBookingList(bookings), nil
}

// GetAgentBookings получает бронирования агента с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению отмененных бронирований
// Доступно только самому агенту
func (s *Service) GetAgentBookings(ctx context.Context, req *models.GetAgentBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetAgentBookings: fetching bookings for agent=%d, actor=%d", req.AgentID, req.ActorID)

	if req.ActorID != req.AgentID {
		s.logger.Warn("GetAgentBookings: access denied for actor=%d to agent=%d calendar", req.ActorID, req.AgentID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetAgentBookings: invalid filter for agent=%d: %v", req.AgentID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByAgentWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetAgentBookings: repository error for agent=%d: %v", req.AgentID, err)
		return nil, fmt.Errorf("%w: GetAgentBookings - repository error: %v", ErrInternal, err)
	}

	profiles := make(map[int64]*domain.AgentAvailabilityProfile)
	for _, booking := range bookings {
		if err := s.applyAutoCancel(ctx, booking, profiles); err != nil {
			return nil, err
		}
	}

	s.logger.Info("GetAgentBookings: successfully fetched %d bookings for agent=%d", len(bookings), req.AgentID)
	return models.FromDomainBookingList(bookings), nil
}

// Confirm подтверждает pending бронирование
// Доступно только агенту бронирования
func (s *Service) Confirm(ctx context.Context, bookingID int64, actorID int64) (*models.BookingResponse, error) {
	s.logger.Info("Confirm: confirming booking id=%d by actor=%d", bookingID, actorID)
	return s.transition(ctx, bookingID, actorID, domain.StatusConfirmed)
}

// Complete помечает подтвержденное бронирование как состоявшееся
// Доступно только агенту бронирования
func (s *Service) Complete(ctx context.Context, bookingID int64, actorID int64) (*models.BookingResponse, error) {
	s.logger.Info("Complete: completing booking id=%d by actor=%d", bookingID, actorID)
	return s.transition(ctx, bookingID, actorID, domain.StatusCompleted)
}

// transition общий путь переходов confirmed/completed: только агент,
// с предварительной ленивой автоотменой просроченных pending
func (s *Service) transition(ctx context.Context, bookingID, actorID int64, target domain.BookingStatus) (*models.BookingResponse, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.AgentID != actorID {
		s.logger.Warn("transition: actor=%d is not the agent of booking id=%d", actorID, bookingID)
		return nil, ErrAccessDenied
	}

	if err := s.applyAutoCancel(ctx, booking, nil); err != nil {
		return nil, err
	}

	if !booking.CanTransitionTo(target) {
		s.logger.Warn("transition: booking id=%d cannot move %s -> %s", bookingID, booking.Status, target)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, target)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, target); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("transition: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: transition - repository error: %v", ErrInternal, err)
	}

	booking.Status = target
	s.logger.Info("transition: booking id=%d moved to status=%s", bookingID, target)
	return models.FromDomainBooking(booking), nil
}

// Cancel отменяет бронирование
// Пользователь может отменить только своё бронирование (cancelled_by_requester),
// агент - любое своё (cancelled_by_agent). Пользователь ограничен буфером
// отмены из профиля агента, агент может отменять в любой момент
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by actor=%d", bookingID, req.ActorID)

	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	var cancelStatus domain.BookingStatus
	switch req.ActorID {
	case booking.RequesterID:
		cancelStatus = domain.StatusCancelledByRequester
	case booking.AgentID:
		cancelStatus = domain.StatusCancelledByAgent
	default:
		s.logger.Warn("Cancel: access denied for actor=%d to booking id=%d", req.ActorID, bookingID)
		return ErrAccessDenied
	}

	if err := s.applyAutoCancel(ctx, booking, nil); err != nil {
		return err
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, cancelStatus)
	}

	if cancelStatus == domain.StatusCancelledByRequester {
		if err := s.checkModificationBuffer(ctx, booking); err != nil {
			return err
		}
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, cancelStatus, req.CancellationReason); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d with status=%s", bookingID, cancelStatus)
	return nil
}

// UpdateMeetingType меняет формат встречи активного бронирования
// Доступно обоим участникам; пользователь ограничен буфером переноса
func (s *Service) UpdateMeetingType(ctx context.Context, bookingID int64, req *models.UpdateMeetingTypeRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateMeetingType: booking id=%d, type=%s, actor=%d", bookingID, req.MeetingType, req.ActorID)

	meetingType, err := models.ToDomainMeetingType(req.MeetingType)
	if err != nil {
		s.logger.Warn("UpdateMeetingType: invalid meeting type=%s", req.MeetingType)
		return nil, fmt.Errorf("%w: invalid meeting type", ErrInvalidInput)
	}

	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.RequesterID != req.ActorID && booking.AgentID != req.ActorID {
		s.logger.Warn("UpdateMeetingType: access denied for actor=%d to booking id=%d", req.ActorID, bookingID)
		return nil, ErrAccessDenied
	}

	if err := s.applyAutoCancel(ctx, booking, nil); err != nil {
		return nil, err
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("UpdateMeetingType: booking id=%d is not modifiable, status=%s", bookingID, booking.Status)
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidTransition, booking.Status)
	}

	if req.ActorID == booking.RequesterID {
		if err := s.checkModificationBuffer(ctx, booking); err != nil {
			return nil, err
		}
	}

	if err := s.bookingRepo.UpdateMeetingType(ctx, bookingID, meetingType); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("UpdateMeetingType: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: UpdateMeetingType - repository error: %v", ErrInternal, err)
	}

	booking.MeetingType = meetingType
	s.logger.Info("UpdateMeetingType: booking id=%d switched to %s", bookingID, meetingType)
	return models.FromDomainBooking(booking), nil
}

// Вспомогательные методы

func (s *Service) loadBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("loadBooking: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("loadBooking: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: loadBooking - repository error: %v", ErrInternal, err)
	}
	return booking, nil
}

// applyAutoCancel лениво отменяет просроченное pending бронирование
// profiles - опциональный кеш профилей на время одного запроса
func (s *Service) applyAutoCancel(ctx context.Context, booking *domain.Booking, profiles map[int64]*domain.AgentAvailabilityProfile) error {
	if booking.Status != domain.StatusPending {
		return nil
	}

	profile, err := s.loadProfile(ctx, booking.AgentID, profiles)
	if err != nil {
		return err
	}

	if !booking.AutoCancelDue(profile, s.timeProvider.Now()) {
		return nil
	}

	if err := s.bookingRepo.Cancel(ctx, booking.ID, domain.StatusAutoCancelled, autoCancelReason); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("applyAutoCancel: repository error for booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: applyAutoCancel - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	reason := autoCancelReason
	booking.Status = domain.StatusAutoCancelled
	booking.CancellationReason = &reason
	booking.CancelledAt = &now

	s.logger.Info("applyAutoCancel: booking id=%d auto-cancelled after %d minutes",
		booking.ID, profile.AutoCancelAfterMinutes)
	return nil
}

// checkModificationBuffer проверяет буфер отмены/переноса из профиля агента
func (s *Service) checkModificationBuffer(ctx context.Context, booking *domain.Booking) error {
	profile, err := s.loadProfile(ctx, booking.AgentID, nil)
	if err != nil {
		return err
	}

	if profile.CancelRescheduleBufferMinutes <= 0 {
		return nil
	}

	loc, err := profile.Location()
	if err != nil {
		s.logger.Error("checkModificationBuffer: invalid timezone %q for agent=%d: %v",
			profile.Timezone, booking.AgentID, err)
		return fmt.Errorf("%w: invalid agent timezone: %v", ErrInternal, err)
	}

	startsAt, err := booking.StartsAt(loc)
	if err != nil {
		s.logger.Error("checkModificationBuffer: bad start time for booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: bad start time: %v", ErrInternal, err)
	}

	cutoff := startsAt.Add(-time.Duration(profile.CancelRescheduleBufferMinutes) * time.Minute)
	if !s.timeProvider.Now().Before(cutoff) {
		s.logger.Warn("checkModificationBuffer: booking id=%d is within %d minute buffer",
			booking.ID, profile.CancelRescheduleBufferMinutes)
		return fmt.Errorf("%w: must modify at least %d minutes before start",
			ErrTooLateToModify, profile.CancelRescheduleBufferMinutes)
	}

	return nil
}

func (s *Service) loadProfile(ctx context.Context, agentID int64, cache map[int64]*domain.AgentAvailabilityProfile) (*domain.AgentAvailabilityProfile, error) {
	if cache != nil {
		if profile, ok := cache[agentID]; ok {
			return profile, nil
		}
	}

	profile, err := s.profileRepo.GetByAgentID(ctx, agentID)
	if err != nil {
		if errors.Is(err, profileRepo.ErrProfileNotFound) {
			profile = domain.DefaultProfile(agentID)
		} else {
			s.logger.Error("loadProfile: repository error for agent=%d: %v", agentID, err)
			return nil, fmt.Errorf("%w: loadProfile - repository error: %v", ErrInternal, err)
		}
	}

	if cache != nil {
		cache[agentID] = profile
	}
	return profile, nil
}
