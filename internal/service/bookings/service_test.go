package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
	bookingRepo "github.com/propdesk/PD-AgentBookingService/internal/infra/storage/booking"
	profileRepo "github.com/propdesk/PD-AgentBookingService/internal/infra/storage/profile"
	"github.com/propdesk/PD-AgentBookingService/internal/service/bookings/models"
)

// --- фейки для зависимостей сервиса ---

type fakeBookingRepo struct {
	byID map[int64]*domain.Booking

	byRequester []*domain.Booking
	byAgent     []*domain.Booking

	updatedStatus      map[int64]domain.BookingStatus
	updatedMeetingType map[int64]domain.MeetingType
	cancelled          map[int64]domain.BookingStatus
	cancelReasons      map[int64]string
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{
		byID:               make(map[int64]*domain.Booking),
		updatedStatus:      make(map[int64]domain.BookingStatus),
		updatedMeetingType: make(map[int64]domain.MeetingType),
		cancelled:          make(map[int64]domain.BookingStatus),
		cancelReasons:      make(map[int64]string),
	}
	for _, b := range bookings {
		repo.byID[b.ID] = b
	}
	return repo
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	booking, ok := f.byID[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	clone := *booking
	return &clone, nil
}

func (f *fakeBookingRepo) GetByRequesterID(_ context.Context, _ int64, _ *domain.BookingStatus) ([]*domain.Booking, error) {
	return f.byRequester, nil
}

func (f *fakeBookingRepo) GetByAgentWithFilter(_ context.Context, _ domain.AgentBookingsFilter) ([]*domain.Booking, error) {
	return f.byAgent, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	if _, ok := f.byID[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	f.updatedStatus[id] = status
	return nil
}

func (f *fakeBookingRepo) UpdateMeetingType(_ context.Context, id int64, meetingType domain.MeetingType) error {
	if _, ok := f.byID[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	f.updatedMeetingType[id] = meetingType
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, status domain.BookingStatus, reason string) error {
	if _, ok := f.byID[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	f.cancelled[id] = status
	f.cancelReasons[id] = reason
	return nil
}

type fakeProfileRepo struct {
	profile *domain.AgentAvailabilityProfile
	err     error
	calls   int
}

func (f *fakeProfileRepo) GetByAgentID(_ context.Context, _ int64) (*domain.AgentAvailabilityProfile, error) {
	f.calls++
	return f.profile, f.err
}

type fixedTime struct {
	t time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.t
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const (
	requesterID = int64(7)
	agentID     = int64(42)
	strangerID  = int64(99)
)

var (
	testNow  = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	testDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
)

func testBooking(id int64, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:          id,
		PropertyID:  55,
		RequesterID: requesterID,
		AgentID:     agentID,
		BookingDate: testDate,
		StartTime:   "10:00",
		EndTime:     "10:30",
		MeetingType: domain.MeetingInPerson,
		Status:      status,
		CreatedAt:   testNow.Add(-time.Hour),
		UpdatedAt:   testNow.Add(-time.Hour),
	}
}

func testProfile() *domain.AgentAvailabilityProfile {
	return &domain.AgentAvailabilityProfile{
		ID:                            1,
		AgentID:                       agentID,
		MeetingDurationMinutes:        30,
		CancelRescheduleBufferMinutes: 60,
		Timezone:                      "UTC",
	}
}

func newTestService(bookings *fakeBookingRepo, profiles *fakeProfileRepo, clock *fixedTime) *Service {
	svc := NewService(bookings, profiles, nopLogger{})
	svc.timeProvider = clock
	return svc
}

func TestGetByID(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusPending))
	svc := newTestService(repo, &fakeProfileRepo{profile: testProfile()}, &fixedTime{t: testNow})

	t.Run("participant can read", func(t *testing.T) {
		resp, err := svc.GetByID(context.Background(), 1, requesterID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.ID)
		assert.Equal(t, "2026-03-02", resp.BookingDate)

		_, err = svc.GetByID(context.Background(), 1, agentID)
		assert.NoError(t, err)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), 1, strangerID)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("missing booking", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), 404, requesterID)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestTransitions(t *testing.T) {
	t.Run("agent confirms pending", func(t *testing.T) {
		repo := newFakeBookingRepo(testBooking(1, domain.StatusPending))
		svc := newTestService(repo, &fakeProfileRepo{profile: testProfile()}, &fixedTime{t: testNow})

		resp, err := svc.Confirm(context.Background(), 1, agentID)
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
		assert.Equal(t, domain.StatusConfirmed, repo.updatedStatus[1])
	})

	t.Run("requester cannot confirm", func(t *testing.T) {
		repo := newFakeBookingRepo(testBooking(1, domain.StatusPending))
		svc := newTestService(repo, &fakeProfileRepo{profile: testProfile()}, &fixedTime{t: testNow})

		_, err := svc.Confirm(context.Background(), 1, requesterID)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("confirm is not allowed twice", func(t *testing.T) {
		repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed))
		svc := newTestService(repo, &fakeProfileRepo{profile: testProfile()}, &fixedTime{t: testNow})

		_, err := svc.Confirm(context.Background(), 1, agentID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("complete requires confirmed", func(t *testing.T) {
		repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed), testBooking(2, domain.StatusPending))
		svc := newTestService(repo, &fakeProfileRepo{profile: testProfile()}, &fixedTime{t: testNow})

		resp, err := svc.Complete(context.Background(), 1, agentID)
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusCompleted), resp.Status)

		_, err = svc.Complete(context.Background(), 2, agentID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("terminal statuses are frozen", func(t *testing.T) {
		repo := newFakeBookingRepo(
			testBooking(1, domain.StatusCompleted),
			testBooking(2, domain.StatusCancelledByAgent),
		)
		svc := newTestService(repo, &fakeProfileRepo{profile: testProfile()}, &fixedTime{t: testNow})

		_, err := svc.Confirm(context.Background(), 1, agentID)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		_, err = svc.Complete(context.Background(), 2, agentID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestCancel(t *testing.T) {
	t.Run("requester cancels outside buffer", func(t *testing.T) {
		repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed))
		svc := newTestService(repo, &fakeProfileRepo{profile: testProfile()}, &fixedTime{t: testNow})

		err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
			ActorID:            requesterID,
			CancellationReason: "changed plans",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelledByRequester, repo.cancelled[1])
		assert.Equal(t, "changed plans", repo.cancelReasons[1])
	})

	t.Run("requester is blocked inside buffer", func(t *testing.T) {
		repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed))
		// Старт 2026-03-02 10:00, буфер 60 минут, сейчас 09:30 того же дня
		clock := &fixedTime{t: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)}
		svc := newTestService(repo, &fakeProfileRepo{profile: testProfile()}, clock)

		err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{ActorID: requesterID})
		assert.ErrorIs(t, err, ErrTooLateToModify)
	})

	t.Run("agent is exempt from the buffer", func(t *testing.T) {
		repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed))
		clock := &fixedTime{t: time.Date(2026, 3, 2, 9, 59, 0, 0, time.UTC)}
		svc := newTestService(repo, &fakeProfileRepo{profile: testProfile()}, clock)

		err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{ActorID: agentID})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelledByAgent, repo.cancelled[1])
	})

	t.Run("stranger is denied", func(t *testing.T) {
		repo := newFakeBookingRepo(testBooking(1, domain.StatusPending))
		svc := newTestService(repo, &fakeProfileRepo{profile: testProfile()}, &fixedTime{t: testNow})

		err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{ActorID: strangerID})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("completed booking cannot be cancelled", func(t *testing.T) {
		repo := newFakeBookingRepo(testBooking(1, domain.StatusCompleted))
		svc := newTestService(repo, &fakeProfileRepo{profile: testProfile()}, &fixedTime{t: testNow})

		err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{ActorID: requesterID})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestUpdateMeetingType(t *testing.T) {
	t.Run("participant switches format", func(t *testing.T) {
		repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed))
		svc := newTestService(repo, &fakeProfileRepo{profile: testProfile()}, &fixedTime{t: testNow})

		resp, err := svc.UpdateMeetingType(context.Background(), 1, &models.UpdateMeetingTypeRequest{
			ActorID:     requesterID,
			MeetingType: string(domain.MeetingVirtual),
		})
		require.NoError(t, err)
		assert.Equal(t, string(domain.MeetingVirtual), resp.MeetingType)
		assert.Equal(t, domain.MeetingVirtual, repo.updatedMeetingType[1])
	})

	t.Run("unknown meeting type", func(t *testing.T) {
		repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed))
		svc := newTestService(repo, &fakeProfileRepo{profile: testProfile()}, &fixedTime{t: testNow})

		_, err := svc.UpdateMeetingType(context.Background(), 1, &models.UpdateMeetingTypeRequest{
			ActorID:     requesterID,
			MeetingType: "telepathy",
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("requester is blocked inside buffer, agent is not", func(t *testing.T) {
		repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed))
		clock := &fixedTime{t: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)}
		svc := newTestService(repo, &fakeProfileRepo{profile: testProfile()}, clock)

		_, err := svc.UpdateMeetingType(context.Background(), 1, &models.UpdateMeetingTypeRequest{
			ActorID:     requesterID,
			MeetingType: string(domain.MeetingVirtual),
		})
		assert.ErrorIs(t, err, ErrTooLateToModify)

		_, err = svc.UpdateMeetingType(context.Background(), 1, &models.UpdateMeetingTypeRequest{
			ActorID:     agentID,
			MeetingType: string(domain.MeetingVirtual),
		})
		assert.NoError(t, err)
	})
}

func TestAutoCancel(t *testing.T) {
	autoCancelProfile := func(afterMinutes int) *domain.AgentAvailabilityProfile {
		p := testProfile()
		p.AutoCancelAfterMinutes = afterMinutes
		return p
	}

	t.Run("expired pending is cancelled on read", func(t *testing.T) {
		booking := testBooking(1, domain.StatusPending)
		booking.CreatedAt = testNow.Add(-2 * time.Hour)
		repo := newFakeBookingRepo(booking)
		svc := newTestService(repo, &fakeProfileRepo{profile: autoCancelProfile(60)}, &fixedTime{t: testNow})

		resp, err := svc.GetByID(context.Background(), 1, requesterID)
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusAutoCancelled), resp.Status)
		require.NotNil(t, resp.CancellationReason)
		assert.Equal(t, autoCancelReason, *resp.CancellationReason)
		assert.Equal(t, domain.StatusAutoCancelled, repo.cancelled[1])
	})

	t.Run("fresh pending survives", func(t *testing.T) {
		booking := testBooking(1, domain.StatusPending)
		booking.CreatedAt = testNow.Add(-30 * time.Minute)
		repo := newFakeBookingRepo(booking)
		svc := newTestService(repo, &fakeProfileRepo{profile: autoCancelProfile(60)}, &fixedTime{t: testNow})

		resp, err := svc.GetByID(context.Background(), 1, requesterID)
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusPending), resp.Status)
		assert.Empty(t, repo.cancelled)
	})

	t.Run("disabled auto-cancel never expires", func(t *testing.T) {
		booking := testBooking(1, domain.StatusPending)
		booking.CreatedAt = testNow.Add(-100 * time.Hour)
		repo := newFakeBookingRepo(booking)
		svc := newTestService(repo, &fakeProfileRepo{profile: autoCancelProfile(0)}, &fixedTime{t: testNow})

		resp, err := svc.GetByID(context.Background(), 1, requesterID)
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusPending), resp.Status)
	})

	t.Run("expired pending cannot be confirmed", func(t *testing.T) {
		booking := testBooking(1, domain.StatusPending)
		booking.CreatedAt = testNow.Add(-2 * time.Hour)
		repo := newFakeBookingRepo(booking)
		svc := newTestService(repo, &fakeProfileRepo{profile: autoCancelProfile(60)}, &fixedTime{t: testNow})

		_, err := svc.Confirm(context.Background(), 1, agentID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, domain.StatusAutoCancelled, repo.cancelled[1])
	})

	t.Run("list reuses profile cache", func(t *testing.T) {
		first := testBooking(1, domain.StatusPending)
		second := testBooking(2, domain.StatusPending)
		first.CreatedAt = testNow.Add(-30 * time.Minute)
		second.CreatedAt = testNow.Add(-30 * time.Minute)

		repo := newFakeBookingRepo(first, second)
		repo.byRequester = []*domain.Booking{first, second}
		profiles := &fakeProfileRepo{profile: autoCancelProfile(60)}
		svc := newTestService(repo, profiles, &fixedTime{t: testNow})

		resp, err := svc.GetRequesterBookings(context.Background(), &models.GetRequesterBookingsRequest{RequesterID: requesterID})
		require.NoError(t, err)
		assert.Len(t, resp.Bookings, 2)
		assert.Equal(t, 1, profiles.calls)
	})
}

func TestGetAgentBookings(t *testing.T) {
	repo := newFakeBookingRepo()
	repo.byAgent = []*domain.Booking{testBooking(1, domain.StatusConfirmed)}
	svc := newTestService(repo, &fakeProfileRepo{profile: testProfile()}, &fixedTime{t: testNow})

	t.Run("agent reads own calendar", func(t *testing.T) {
		resp, err := svc.GetAgentBookings(context.Background(), &models.GetAgentBookingsRequest{
			ActorID: agentID,
			AgentID: agentID,
		})
		require.NoError(t, err)
		assert.Len(t, resp.Bookings, 1)
	})

	t.Run("other actors are denied", func(t *testing.T) {
		_, err := svc.GetAgentBookings(context.Background(), &models.GetAgentBookingsRequest{
			ActorID: requesterID,
			AgentID: agentID,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("invalid status filter", func(t *testing.T) {
		bad := "imaginary"
		_, err := svc.GetAgentBookings(context.Background(), &models.GetAgentBookingsRequest{
			ActorID: agentID,
			AgentID: agentID,
			Status:  &bad,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestGetRequesterBookings_InvalidStatus(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := newTestService(repo, &fakeProfileRepo{profile: testProfile()}, &fixedTime{t: testNow})

	bad := "imaginary"
	_, err := svc.GetRequesterBookings(context.Background(), &models.GetRequesterBookingsRequest{
		RequesterID: requesterID,
		Status:      &bad,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDefaultProfileFallback(t *testing.T) {
	booking := testBooking(1, domain.StatusPending)
	booking.CreatedAt = testNow.Add(-100 * time.Hour)
	repo := newFakeBookingRepo(booking)
	profiles := &fakeProfileRepo{err: profileRepo.ErrProfileNotFound}
	svc := newTestService(repo, profiles, &fixedTime{t: testNow})

	// Дефолтный профиль не включает автоотмену
	resp, err := svc.GetByID(context.Background(), 1, requesterID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
}
