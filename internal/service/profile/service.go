package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
	profileRepo "github.com/propdesk/PD-AgentBookingService/internal/infra/storage/profile"
	"github.com/propdesk/PD-AgentBookingService/internal/service/profile/models"
)

// Service сервис для работы с профилем доступности агента
type Service struct {
	profileRepo ProfileRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса профилей
func NewService(profileRepo ProfileRepository, logger Logger) *Service {
	return &Service{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// Get получает профиль доступности агента
// Если агент еще не настраивал профиль, возвращает дефолтные значения
// без создания записи в БД
func (s *Service) Get(ctx context.Context, agentID int64) (*models.ProfileResponse, error) {
	s.logger.Info("Get: fetching profile for agent=%d", agentID)

	profile, err := s.profileRepo.GetByAgentID(ctx, agentID)
	if err != nil {
		if errors.Is(err, profileRepo.ErrProfileNotFound) {
			s.logger.Info("Get: no profile for agent=%d, returning defaults", agentID)
			return models.FromDomainProfile(domain.DefaultProfile(agentID)), nil
		}
		s.logger.Error("Get: repository error for agent=%d: %v", agentID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainProfile(profile), nil
}

// Set полностью заменяет профиль доступности агента
// Доступно только самому агенту
func (s *Service) Set(ctx context.Context, req *models.SetProfileRequest) (*models.ProfileResponse, error) {
	s.logger.Info("Set: updating profile for agent=%d by actor=%d", req.AgentID, req.ActorID)

	if req.ActorID != req.AgentID {
		s.logger.Warn("Set: access denied for actor=%d to agent=%d profile", req.ActorID, req.AgentID)
		return nil, ErrAccessDenied
	}

	if err := s.validateProfile(req); err != nil {
		s.logger.Warn("Set: validation failed for agent=%d: %v", req.AgentID, err)
		return nil, err
	}

	updated, err := s.profileRepo.Replace(ctx, req.ToDomainProfile())
	if err != nil {
		s.logger.Error("Set: repository error for agent=%d: %v", req.AgentID, err)
		return nil, fmt.Errorf("%w: Set - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Set: successfully updated profile for agent=%d", req.AgentID)
	return models.FromDomainProfile(updated), nil
}

// validateProfile проверяет бизнес-ограничения полей профиля
func (s *Service) validateProfile(req *models.SetProfileRequest) error {
	if req.AgentID <= 0 {
		return fmt.Errorf("%w: agentID must be positive", ErrInvalidInput)
	}

	if req.MeetingDurationMinutes < domain.MinMeetingDurationMinutes ||
		req.MeetingDurationMinutes > domain.MaxMeetingDurationMinutes {
		return fmt.Errorf("%w: meetingDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinMeetingDurationMinutes, domain.MaxMeetingDurationMinutes)
	}

	if req.LeadTimeMinutes < 0 || req.LeadTimeMinutes > domain.MaxLeadTimeMinutes {
		return fmt.Errorf("%w: leadTimeMinutes must be between 0 and %d",
			ErrInvalidInput, domain.MaxLeadTimeMinutes)
	}

	if req.BufferTimeMinutes < 0 || req.BufferTimeMinutes > domain.MaxBufferTimeMinutes {
		return fmt.Errorf("%w: bufferTimeMinutes must be between 0 and %d",
			ErrInvalidInput, domain.MaxBufferTimeMinutes)
	}

	if req.CancelRescheduleBufferMinutes < 0 {
		return fmt.Errorf("%w: cancelRescheduleBufferMinutes must be non-negative", ErrInvalidInput)
	}

	if req.AutoCancelAfterMinutes < 0 || req.AutoCancelAfterMinutes > domain.MaxAutoCancelAfterMinutes {
		return fmt.Errorf("%w: autoCancelAfterMinutes must be between 0 and %d",
			ErrInvalidInput, domain.MaxAutoCancelAfterMinutes)
	}

	if req.DailyBookingLimit < 0 || req.DailyBookingLimit > domain.MaxDailyBookingLimit {
		return fmt.Errorf("%w: dailyBookingLimit must be between 0 and %d",
			ErrInvalidInput, domain.MaxDailyBookingLimit)
	}

	if req.Timezone == "" {
		return fmt.Errorf("%w: timezone is required", ErrInvalidInput)
	}
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, req.Timezone)
	}

	return nil
}
