package resolve_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
	profileRepo "github.com/propdesk/PD-AgentBookingService/internal/infra/storage/profile"
	"github.com/propdesk/PD-AgentBookingService/pkg/types"
)

// --- фейки для зависимостей usecase ---

type fakeBookingRepo struct {
	bookings []*domain.Booking
	err      error

	// rangeFilter воспроизводит диапазонный предикат настоящего репозитория:
	// booking_date сравнивается с границами фильтра как момент времени
	rangeFilter bool
	lastFilter  domain.AgentBookingsFilter
}

func (f *fakeBookingRepo) GetByAgentWithFilter(_ context.Context, filter domain.AgentBookingsFilter) ([]*domain.Booking, error) {
	f.lastFilter = filter
	if f.err != nil || !f.rangeFilter {
		return f.bookings, f.err
	}

	matched := make([]*domain.Booking, 0, len(f.bookings))
	for _, b := range f.bookings {
		if filter.StartDate != nil && b.BookingDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && b.BookingDate.After(*filter.EndDate) {
			continue
		}
		matched = append(matched, b)
	}
	return matched, nil
}

type fakeProfileRepo struct {
	profile *domain.AgentAvailabilityProfile
	err     error
}

func (f *fakeProfileRepo) GetByAgentID(_ context.Context, _ int64) (*domain.AgentAvailabilityProfile, error) {
	return f.profile, f.err
}

type fakeScheduleRepo struct {
	entries []*domain.WeeklyScheduleEntry
	err     error
}

func (f *fakeScheduleRepo) ListByAgentID(_ context.Context, _ int64) ([]*domain.WeeklyScheduleEntry, error) {
	return f.entries, f.err
}

type fakeExceptionRepo struct {
	slots []*domain.ExtraTimeSlot
	err   error
}

func (f *fakeExceptionRepo) ListByAgentAndDateRange(_ context.Context, _ int64, _, _ time.Time) ([]*domain.ExtraTimeSlot, error) {
	return f.slots, f.err
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

type testDeps struct {
	bookings   *fakeBookingRepo
	profiles   *fakeProfileRepo
	schedule   *fakeScheduleRepo
	exceptions *fakeExceptionRepo
	clock      *fixedTime
}

func newTestUseCase(deps testDeps) *UseCase {
	uc := NewUseCase(deps.bookings, deps.profiles, deps.schedule, deps.exceptions, nopLogger{})
	uc.timeProvider = deps.clock
	return uc
}

// 2026-03-02 - понедельник
var testMonday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func testProfile(agentID int64) *domain.AgentAvailabilityProfile {
	return &domain.AgentAvailabilityProfile{
		ID:                     1,
		AgentID:                agentID,
		MeetingDurationMinutes: 30,
		LeadTimeMinutes:        60,
		BufferTimeMinutes:      0,
		Timezone:               "UTC",
	}
}

func mondayEntry(start, end types.TimeString) *domain.WeeklyScheduleEntry {
	return &domain.WeeklyScheduleEntry{
		ID:        1,
		AgentID:   42,
		DayOfWeek: time.Monday,
		StartTime: start,
		EndTime:   end,
	}
}

func defaultDeps() testDeps {
	return testDeps{
		bookings:   &fakeBookingRepo{},
		profiles:   &fakeProfileRepo{profile: testProfile(42)},
		schedule:   &fakeScheduleRepo{entries: []*domain.WeeklyScheduleEntry{mondayEntry("09:00", "12:00")}},
		exceptions: &fakeExceptionRepo{},
		clock:      &fixedTime{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
}

func slotTimes(day domain.DaySlots) []string {
	out := make([]string, 0, len(day.Slots))
	for _, slot := range day.Slots {
		out = append(out, slot.StartTime.String()+"-"+slot.EndTime.String())
	}
	return out
}

func TestExecute_WeeklySchedule(t *testing.T) {
	uc := newTestUseCase(defaultDeps())

	resp, err := uc.Execute(context.Background(), &Request{AgentID: 42, Date: &testMonday})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)

	day := resp.Days[0]
	assert.Equal(t, []string{
		"09:00-09:30", "09:30-10:00", "10:00-10:30",
		"10:30-11:00", "11:00-11:30", "11:30-12:00",
	}, slotTimes(day))
	assert.True(t, day.HasBookable())
	assert.False(t, day.LimitReached)
}

func TestExecute_BookingWithBufferSplitsDay(t *testing.T) {
	deps := defaultDeps()
	deps.profiles.profile.BufferTimeMinutes = 15
	deps.bookings.bookings = []*domain.Booking{{
		ID:          7,
		AgentID:     42,
		BookingDate: testMonday,
		StartTime:   "10:00",
		EndTime:     "10:30",
		Status:      domain.StatusPending,
	}}
	uc := newTestUseCase(deps)

	resp, err := uc.Execute(context.Background(), &Request{AgentID: 42, Date: &testMonday})
	require.NoError(t, err)

	// Бронирование 10:00-10:30 с буфером 15 закрывает 09:45-10:45;
	// остаток 09:30-09:45 слишком короткий для слота и отбрасывается
	assert.Equal(t, []string{
		"09:00-09:30", "10:45-11:15", "11:15-11:45",
	}, slotTimes(resp.Days[0]))
}

func TestExecute_CancelledBookingFreesSlot(t *testing.T) {
	deps := defaultDeps()
	deps.bookings.bookings = []*domain.Booking{{
		ID:          7,
		AgentID:     42,
		BookingDate: testMonday,
		StartTime:   "10:00",
		EndTime:     "10:30",
		Status:      domain.StatusCancelledByRequester,
	}}
	uc := newTestUseCase(deps)

	resp, err := uc.Execute(context.Background(), &Request{AgentID: 42, Date: &testMonday})
	require.NoError(t, err)
	assert.Len(t, resp.Days[0].Slots, 6)
}

func TestExecute_ExtraAndBlockedExceptions(t *testing.T) {
	deps := defaultDeps()
	deps.exceptions.slots = []*domain.ExtraTimeSlot{
		{ID: 1, AgentID: 42, Date: testMonday, StartTime: "14:00", EndTime: "15:00", Kind: domain.SlotKindExtra},
		{ID: 2, AgentID: 42, Date: testMonday, StartTime: "09:00", EndTime: "10:00", Kind: domain.SlotKindBlocked},
	}
	uc := newTestUseCase(deps)

	resp, err := uc.Execute(context.Background(), &Request{AgentID: 42, Date: &testMonday})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"10:00-10:30", "10:30-11:00", "11:00-11:30", "11:30-12:00",
		"14:00-14:30", "14:30-15:00",
	}, slotTimes(resp.Days[0]))
}

func TestExecute_BlockedWinsOverExtra(t *testing.T) {
	deps := defaultDeps()
	deps.schedule.entries = nil
	deps.exceptions.slots = []*domain.ExtraTimeSlot{
		{ID: 1, AgentID: 42, Date: testMonday, StartTime: "10:00", EndTime: "12:00", Kind: domain.SlotKindExtra},
		{ID: 2, AgentID: 42, Date: testMonday, StartTime: "10:00", EndTime: "12:00", Kind: domain.SlotKindBlocked},
	}
	uc := newTestUseCase(deps)

	resp, err := uc.Execute(context.Background(), &Request{AgentID: 42, Date: &testMonday})
	require.NoError(t, err)
	assert.Empty(t, resp.Days[0].Slots)
}

func TestExecute_NonUTCTimezoneStillSubtractsBookings(t *testing.T) {
	deps := defaultDeps()
	deps.profiles.profile.Timezone = "Asia/Tokyo"
	deps.bookings.rangeFilter = true
	deps.bookings.bookings = []*domain.Booking{{
		ID:          7,
		AgentID:     42,
		BookingDate: testMonday, // полночь UTC, как пишет хендлер
		StartTime:   "10:00",
		EndTime:     "10:30",
		Status:      domain.StatusConfirmed,
	}}
	uc := newTestUseCase(deps)

	resp, err := uc.Execute(context.Background(), &Request{AgentID: 42, Date: &testMonday})
	require.NoError(t, err)

	// Границы фильтра - канонический ключ даты (полночь UTC),
	// бронирование найдено и вычтено независимо от таймзоны агента
	require.NotNil(t, deps.bookings.lastFilter.StartDate)
	assert.Equal(t, testMonday, *deps.bookings.lastFilter.StartDate)
	assert.Equal(t, []string{
		"09:00-09:30", "09:30-10:00", "10:30-11:00", "11:00-11:30", "11:30-12:00",
	}, slotTimes(resp.Days[0]))
}

func TestExecute_ExpiredPendingBookingFreesSlot(t *testing.T) {
	deps := defaultDeps()
	deps.profiles.profile.AutoCancelAfterMinutes = 30
	deps.bookings.bookings = []*domain.Booking{{
		ID:          7,
		AgentID:     42,
		BookingDate: testMonday,
		StartTime:   "10:00",
		EndTime:     "10:30",
		Status:      domain.StatusPending,
		CreatedAt:   deps.clock.t.Add(-24 * time.Hour),
	}}
	uc := newTestUseCase(deps)

	resp, err := uc.Execute(context.Background(), &Request{AgentID: 42, Date: &testMonday})
	require.NoError(t, err)

	// Просроченный pending слот не занимает
	assert.Len(t, resp.Days[0].Slots, 6)
	assert.True(t, resp.Days[0].Contains("10:00", "10:30"))
}

func TestExecute_FreshPendingBookingStillBlocksSlot(t *testing.T) {
	deps := defaultDeps()
	deps.profiles.profile.AutoCancelAfterMinutes = 30
	deps.bookings.bookings = []*domain.Booking{{
		ID:          7,
		AgentID:     42,
		BookingDate: testMonday,
		StartTime:   "10:00",
		EndTime:     "10:30",
		Status:      domain.StatusPending,
		CreatedAt:   deps.clock.t.Add(-10 * time.Minute),
	}}
	uc := newTestUseCase(deps)

	resp, err := uc.Execute(context.Background(), &Request{AgentID: 42, Date: &testMonday})
	require.NoError(t, err)

	assert.Len(t, resp.Days[0].Slots, 5)
	assert.False(t, resp.Days[0].Contains("10:00", "10:30"))
}

func TestExecute_DailyLimitMarksSlotsUnbookable(t *testing.T) {
	deps := defaultDeps()
	deps.profiles.profile.DailyBookingLimit = 1
	deps.bookings.bookings = []*domain.Booking{{
		ID:          7,
		AgentID:     42,
		BookingDate: testMonday,
		StartTime:   "09:00",
		EndTime:     "09:30",
		Status:      domain.StatusConfirmed,
	}}
	uc := newTestUseCase(deps)

	resp, err := uc.Execute(context.Background(), &Request{AgentID: 42, Date: &testMonday})
	require.NoError(t, err)

	day := resp.Days[0]
	assert.True(t, day.LimitReached)
	require.Len(t, day.Slots, 5)
	for _, slot := range day.Slots {
		assert.False(t, slot.Bookable)
	}
	assert.False(t, day.HasBookable())
	assert.False(t, day.Contains("09:30", "10:00"))
}

func TestExecute_LeadTimeCutsSameDaySlots(t *testing.T) {
	deps := defaultDeps()
	deps.clock.t = time.Date(2026, 3, 2, 9, 10, 0, 0, time.UTC)
	uc := newTestUseCase(deps)

	resp, err := uc.Execute(context.Background(), &Request{AgentID: 42, Date: &testMonday})
	require.NoError(t, err)

	// now=09:10 + lead 60 = 10:10, слот 10:00 уже недоступен
	assert.Equal(t, []string{
		"10:30-11:00", "11:00-11:30", "11:30-12:00",
	}, slotTimes(resp.Days[0]))
}

func TestExecute_PastDayHasNoSlots(t *testing.T) {
	deps := defaultDeps()
	deps.clock.t = time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	uc := newTestUseCase(deps)

	resp, err := uc.Execute(context.Background(), &Request{AgentID: 42, Date: &testMonday})
	require.NoError(t, err)
	assert.Empty(t, resp.Days[0].Slots)
}

func TestExecute_DefaultProfileWhenNotConfigured(t *testing.T) {
	deps := defaultDeps()
	deps.profiles.profile = nil
	deps.profiles.err = profileRepo.ErrProfileNotFound
	uc := newTestUseCase(deps)

	resp, err := uc.Execute(context.Background(), &Request{AgentID: 42, Date: &testMonday})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTimezone, resp.Timezone)
	assert.Len(t, resp.Days[0].Slots, 6)
}

func TestExecute_InvalidTimezone(t *testing.T) {
	deps := defaultDeps()
	deps.profiles.profile.Timezone = "Mars/Olympus"
	uc := newTestUseCase(deps)

	_, err := uc.Execute(context.Background(), &Request{AgentID: 42, Date: &testMonday})
	assert.ErrorIs(t, err, ErrInvalidTimezone)
}

func TestExecute_MonthRange(t *testing.T) {
	uc := newTestUseCase(defaultDeps())

	month := time.March
	year := 2026
	resp, err := uc.Execute(context.Background(), &Request{AgentID: 42, Month: &month, Year: &year})
	require.NoError(t, err)
	require.Len(t, resp.Days, 31)

	assert.Equal(t, "2026-03-01", resp.Days[0].Date.Format(domain.DateFormat))
	assert.Equal(t, "2026-03-31", resp.Days[30].Date.Format(domain.DateFormat))

	// Слоты есть только по понедельникам
	for _, day := range resp.Days {
		if day.Date.Weekday() == time.Monday {
			assert.NotEmpty(t, day.Slots, day.Date)
		} else {
			assert.Empty(t, day.Slots, day.Date)
		}
	}
}

func TestExecute_Deterministic(t *testing.T) {
	uc := newTestUseCase(defaultDeps())

	first, err := uc.Execute(context.Background(), &Request{AgentID: 42, Date: &testMonday})
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), &Request{AgentID: 42, Date: &testMonday})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(defaultDeps())
	month := time.March
	badMonth := time.Month(13)
	year := 2026
	badYear := 1999

	cases := []struct {
		name string
		req  *Request
	}{
		{"zero agent", &Request{AgentID: 0, Date: &testMonday}},
		{"no date and no month", &Request{AgentID: 42}},
		{"date and month together", &Request{AgentID: 42, Date: &testMonday, Month: &month, Year: &year}},
		{"month without year", &Request{AgentID: 42, Month: &month}},
		{"month out of range", &Request{AgentID: 42, Month: &badMonth, Year: &year}},
		{"year out of range", &Request{AgentID: 42, Month: &month, Year: &badYear}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tc.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestResolveDate_SingleDay(t *testing.T) {
	uc := newTestUseCase(defaultDeps())

	day, err := uc.ResolveDate(context.Background(), 42, testMonday)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", day.Date.Format(domain.DateFormat))
	assert.Len(t, day.Slots, 6)
	assert.True(t, day.Contains("09:00", "09:30"))
	assert.False(t, day.Contains("12:00", "12:30"))
}
