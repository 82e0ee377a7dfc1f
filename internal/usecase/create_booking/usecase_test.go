package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
	bookingRepo "github.com/propdesk/PD-AgentBookingService/internal/infra/storage/booking"
	profileRepo "github.com/propdesk/PD-AgentBookingService/internal/infra/storage/profile"
	"github.com/propdesk/PD-AgentBookingService/pkg/cooldown"
)

// --- фейки для зависимостей usecase ---

type fakeBookingRepo struct {
	created   *domain.Booking
	createErr error
	recent    []*domain.Booking
	recentErr error
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	saved := *booking
	saved.ID = 101
	saved.CreatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	saved.UpdatedAt = saved.CreatedAt
	f.created = &saved
	return &saved, nil
}

func (f *fakeBookingRepo) GetRecentByRequesterAndAgent(_ context.Context, _, _ int64, _ time.Time) ([]*domain.Booking, error) {
	return f.recent, f.recentErr
}

type fakeProfileRepo struct {
	profile *domain.AgentAvailabilityProfile
	err     error
}

func (f *fakeProfileRepo) GetByAgentID(_ context.Context, _ int64) (*domain.AgentAvailabilityProfile, error) {
	return f.profile, f.err
}

type fakeSlotResolver struct {
	day *domain.DaySlots
	err error
}

func (f *fakeSlotResolver) ResolveDate(_ context.Context, _ int64, _ time.Time) (*domain.DaySlots, error) {
	return f.day, f.err
}

type passthroughTxManager struct {
	calls int
}

func (m *passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
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

var testDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

type testEnv struct {
	uc       *UseCase
	bookings *fakeBookingRepo
	profiles *fakeProfileRepo
	resolver *fakeSlotResolver
	tx       *passthroughTxManager
	clock    *fixedTime
}

func newTestEnv() *testEnv {
	env := &testEnv{
		bookings: &fakeBookingRepo{},
		profiles: &fakeProfileRepo{profile: &domain.AgentAvailabilityProfile{
			ID:                     1,
			AgentID:                42,
			MeetingDurationMinutes: 30,
			LeadTimeMinutes:        60,
			AntiSpamEnabled:        true,
			Timezone:               "UTC",
		}},
		resolver: &fakeSlotResolver{day: &domain.DaySlots{
			Date: testDate,
			Slots: []domain.AvailableSlot{
				{StartTime: "10:00", EndTime: "10:30", Bookable: true},
				{StartTime: "10:30", EndTime: "11:00", Bookable: true},
			},
		}},
		tx:    &passthroughTxManager{},
		clock: &fixedTime{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
	}

	window := 2 * time.Minute
	tracker := cooldown.NewWithClock(window, func() time.Time { return env.clock.t })
	env.uc = NewUseCase(env.bookings, env.profiles, env.resolver, tracker, window, env.tx, nopLogger{})
	env.uc.timeProvider = env.clock
	return env
}

func validRequest() *Request {
	return &Request{
		RequesterID: 7,
		PropertyID:  55,
		AgentID:     42,
		Date:        testDate,
		StartTime:   "10:00",
		MeetingType: domain.MeetingInPerson,
	}
}

func TestExecute_CreatesPendingBooking(t *testing.T) {
	env := newTestEnv()

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(101), resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, "10:00", resp.StartTime.String())
	assert.Equal(t, "10:30", resp.EndTime.String())
	assert.Equal(t, 1, env.tx.calls)
}

func TestExecute_AutoConfirm(t *testing.T) {
	env := newTestEnv()
	env.profiles.profile.AutoConfirm = true

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestExecute_SlotNotInResolvedDay(t *testing.T) {
	env := newTestEnv()
	req := validRequest()
	req.StartTime = "11:00"

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_DailyLimitReached(t *testing.T) {
	env := newTestEnv()
	env.resolver.day.LimitReached = true
	for i := range env.resolver.day.Slots {
		env.resolver.day.Slots[i].Bookable = false
	}

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDailyLimitReached)
}

func TestExecute_ConcurrentSlotTaken(t *testing.T) {
	env := newTestEnv()
	env.bookings.createErr = bookingRepo.ErrSlotTaken

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_PastDate(t *testing.T) {
	env := newTestEnv()
	req := validRequest()
	req.Date = time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_Cooldown(t *testing.T) {
	env := newTestEnv()

	_, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Повторная попытка внутри окна блокируется еще до обращения к БД
	env.clock.t = env.clock.t.Add(30 * time.Second)
	req := validRequest()
	req.StartTime = "10:30"
	_, err = env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBookingCooldown)

	// После истечения окна попытка проходит
	env.clock.t = env.clock.t.Add(2 * time.Minute)
	_, err = env.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_DuplicateActiveBooking(t *testing.T) {
	env := newTestEnv()
	env.bookings.recent = []*domain.Booking{{
		ID:          9,
		PropertyID:  55,
		RequesterID: 7,
		AgentID:     42,
		Status:      domain.StatusPending,
	}}

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDuplicateBooking)
}

func TestExecute_CancelledDuplicateIsIgnored(t *testing.T) {
	env := newTestEnv()
	env.bookings.recent = []*domain.Booking{{
		ID:          9,
		PropertyID:  55,
		RequesterID: 7,
		AgentID:     42,
		Status:      domain.StatusCancelledByRequester,
	}}

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_AntiSpamDisabledSkipsChecks(t *testing.T) {
	env := newTestEnv()
	env.profiles.profile.AntiSpamEnabled = false
	env.bookings.recent = []*domain.Booking{{
		ID:          9,
		PropertyID:  55,
		RequesterID: 7,
		AgentID:     42,
		Status:      domain.StatusPending,
	}}

	_, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Повторная попытка сразу же тоже проходит
	req := validRequest()
	req.StartTime = "10:30"
	_, err = env.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_DefaultProfileWhenNotConfigured(t *testing.T) {
	env := newTestEnv()
	env.profiles.profile = nil
	env.profiles.err = profileRepo.ErrProfileNotFound

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Дефолтный профиль: длительность 30 минут, без автоподтверждения
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, "10:30", resp.EndTime.String())
}

func TestExecute_Validation(t *testing.T) {
	env := newTestEnv()

	cases := []struct {
		name    string
		mutate  func(req *Request)
		wantErr error
	}{
		{"zero requester", func(r *Request) { r.RequesterID = 0 }, ErrInvalidInput},
		{"zero property", func(r *Request) { r.PropertyID = 0 }, ErrInvalidInput},
		{"zero agent", func(r *Request) { r.AgentID = 0 }, ErrInvalidInput},
		{"self booking", func(r *Request) { r.RequesterID = r.AgentID }, ErrInvalidInput},
		{"zero date", func(r *Request) { r.Date = time.Time{} }, ErrInvalidInput},
		{"empty start time", func(r *Request) { r.StartTime = "" }, ErrInvalidInput},
		{"malformed start time", func(r *Request) { r.StartTime = "10am" }, ErrInvalidInput},
		{"unknown meeting type", func(r *Request) { r.MeetingType = "telepathy" }, ErrInvalidMeetingType},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(req)
			_, err := env.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
