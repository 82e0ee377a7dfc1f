package exceptions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
	"github.com/propdesk/PD-AgentBookingService/internal/service/exceptions/models"
)

// --- фейки для зависимостей сервиса ---

type fakeExceptionRepo struct {
	slots []*domain.ExtraTimeSlot

	replacedDate    time.Time
	replacedUpserts []domain.ExtraTimeSlotUpsert
	deletedIDs      []int64
	deleteCalls     int
}

func (f *fakeExceptionRepo) ListByAgentID(_ context.Context, _ int64) ([]*domain.ExtraTimeSlot, error) {
	return f.slots, nil
}

func (f *fakeExceptionRepo) ReplaceForDate(_ context.Context, agentID int64, date time.Time, upserts []domain.ExtraTimeSlotUpsert) ([]*domain.ExtraTimeSlot, error) {
	f.replacedDate = date
	f.replacedUpserts = upserts

	result := make([]*domain.ExtraTimeSlot, 0, len(upserts))
	for i, u := range upserts {
		id := int64(i + 1)
		if u.ID != nil {
			id = *u.ID
		}
		result = append(result, &domain.ExtraTimeSlot{
			ID:        id,
			AgentID:   agentID,
			Date:      date,
			StartTime: u.StartTime,
			EndTime:   u.EndTime,
			Kind:      u.Kind,
			Reason:    u.Reason,
		})
	}
	f.slots = result
	return result, nil
}

func (f *fakeExceptionRepo) DeleteByIDs(_ context.Context, _ int64, ids []int64) error {
	f.deleteCalls++
	f.deletedIDs = append(f.deletedIDs, ids...)
	return nil
}

type fakeSlotResolver struct {
	day *domain.DaySlots
	err error
}

func (f *fakeSlotResolver) ResolveDate(_ context.Context, _ int64, _ time.Time) (*domain.DaySlots, error) {
	return f.day, f.err
}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const agentID = int64(42)

var testDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func newTestService(repo *fakeExceptionRepo, resolver *fakeSlotResolver) *Service {
	return NewService(repo, resolver, passthroughTxManager{}, nopLogger{})
}

func TestManageDate(t *testing.T) {
	t.Run("replaces exceptions for the date", func(t *testing.T) {
		repo := &fakeExceptionRepo{}
		svc := newTestService(repo, &fakeSlotResolver{})

		reason := "vacation"
		resp, err := svc.ManageDate(context.Background(), &models.ManageDateRequest{
			ActorID: agentID,
			AgentID: agentID,
			Date:    testDate,
			Slots: []models.ManageDateSlotRequest{
				{StartTime: "14:00", EndTime: "16:00", Kind: "extra"},
				{StartTime: "09:00", EndTime: "10:00", Kind: "blocked", Reason: &reason},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, testDate, repo.replacedDate)
		require.Len(t, resp.Slots, 2)
		assert.Equal(t, "extra", resp.Slots[0].Kind)
		assert.Equal(t, "blocked", resp.Slots[1].Kind)
		require.NotNil(t, resp.Slots[1].Reason)
		assert.Equal(t, "vacation", *resp.Slots[1].Reason)
	})

	t.Run("empty list clears the date", func(t *testing.T) {
		repo := &fakeExceptionRepo{}
		svc := newTestService(repo, &fakeSlotResolver{})

		resp, err := svc.ManageDate(context.Background(), &models.ManageDateRequest{
			ActorID: agentID,
			AgentID: agentID,
			Date:    testDate,
		})
		require.NoError(t, err)
		assert.Empty(t, resp.Slots)
		assert.Equal(t, testDate, repo.replacedDate)
	})

	t.Run("access denied", func(t *testing.T) {
		svc := newTestService(&fakeExceptionRepo{}, &fakeSlotResolver{})

		_, err := svc.ManageDate(context.Background(), &models.ManageDateRequest{
			ActorID: 7,
			AgentID: agentID,
			Date:    testDate,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("validation", func(t *testing.T) {
		svc := newTestService(&fakeExceptionRepo{}, &fakeSlotResolver{})
		longReason := string(make([]byte, domain.MaxReasonLength+1))

		cases := []struct {
			name string
			slot models.ManageDateSlotRequest
		}{
			{"bad kind", models.ManageDateSlotRequest{StartTime: "09:00", EndTime: "10:00", Kind: "holiday"}},
			{"start after end", models.ManageDateSlotRequest{StartTime: "12:00", EndTime: "10:00", Kind: "extra"}},
			{"bad time", models.ManageDateSlotRequest{StartTime: "9am", EndTime: "10:00", Kind: "extra"}},
			{"reason too long", models.ManageDateSlotRequest{StartTime: "09:00", EndTime: "10:00", Kind: "blocked", Reason: &longReason}},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.ManageDate(context.Background(), &models.ManageDateRequest{
					ActorID: agentID,
					AgentID: agentID,
					Date:    testDate,
					Slots:   []models.ManageDateSlotRequest{tc.slot},
				})
				assert.ErrorIs(t, err, ErrInvalidInput)
			})
		}
	})
}

func TestDelete(t *testing.T) {
	t.Run("deletes by ids", func(t *testing.T) {
		repo := &fakeExceptionRepo{}
		svc := newTestService(repo, &fakeSlotResolver{})

		err := svc.Delete(context.Background(), &models.DeleteSlotsRequest{
			ActorID: agentID,
			AgentID: agentID,
			IDs:     []int64{3, 5},
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 5}, repo.deletedIDs)
	})

	t.Run("idempotent for unknown ids", func(t *testing.T) {
		repo := &fakeExceptionRepo{}
		svc := newTestService(repo, &fakeSlotResolver{})

		err := svc.Delete(context.Background(), &models.DeleteSlotsRequest{
			ActorID: agentID,
			AgentID: agentID,
			IDs:     []int64{404},
		})
		assert.NoError(t, err)

		err = svc.Delete(context.Background(), &models.DeleteSlotsRequest{
			ActorID: agentID,
			AgentID: agentID,
			IDs:     []int64{404},
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, repo.deleteCalls)
	})

	t.Run("empty ids rejected", func(t *testing.T) {
		svc := newTestService(&fakeExceptionRepo{}, &fakeSlotResolver{})

		err := svc.Delete(context.Background(), &models.DeleteSlotsRequest{
			ActorID: agentID,
			AgentID: agentID,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("access denied", func(t *testing.T) {
		svc := newTestService(&fakeExceptionRepo{}, &fakeSlotResolver{})

		err := svc.Delete(context.Background(), &models.DeleteSlotsRequest{
			ActorID: 7,
			AgentID: agentID,
			IDs:     []int64{1},
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestCheckAvailability(t *testing.T) {
	resolver := &fakeSlotResolver{day: &domain.DaySlots{
		Date: testDate,
		Slots: []domain.AvailableSlot{
			{StartTime: "10:00", EndTime: "10:30", Bookable: true},
			{StartTime: "10:30", EndTime: "11:00", Bookable: false},
		},
	}}
	svc := newTestService(&fakeExceptionRepo{}, resolver)

	t.Run("present bookable slot", func(t *testing.T) {
		resp, err := svc.CheckAvailability(context.Background(), &models.CheckAvailabilityRequest{
			AgentID:   agentID,
			Date:      testDate,
			StartTime: "10:00",
			EndTime:   "10:30",
		})
		require.NoError(t, err)
		assert.True(t, resp.Available)
	})

	t.Run("unbookable slot is unavailable", func(t *testing.T) {
		resp, err := svc.CheckAvailability(context.Background(), &models.CheckAvailabilityRequest{
			AgentID:   agentID,
			Date:      testDate,
			StartTime: "10:30",
			EndTime:   "11:00",
		})
		require.NoError(t, err)
		assert.False(t, resp.Available)
	})

	t.Run("interval spanning adjacent bookable slots", func(t *testing.T) {
		spanning := &fakeSlotResolver{day: &domain.DaySlots{
			Date: testDate,
			Slots: []domain.AvailableSlot{
				{StartTime: "10:00", EndTime: "10:30", Bookable: true},
				{StartTime: "10:30", EndTime: "11:00", Bookable: true},
			},
		}}
		spanningSvc := newTestService(&fakeExceptionRepo{}, spanning)

		resp, err := spanningSvc.CheckAvailability(context.Background(), &models.CheckAvailabilityRequest{
			AgentID:   agentID,
			Date:      testDate,
			StartTime: "10:00",
			EndTime:   "11:00",
		})
		require.NoError(t, err)
		assert.True(t, resp.Available, "часовое окно покрыто двумя смежными слотами")
	})

	t.Run("missing slot is unavailable", func(t *testing.T) {
		resp, err := svc.CheckAvailability(context.Background(), &models.CheckAvailabilityRequest{
			AgentID:   agentID,
			Date:      testDate,
			StartTime: "15:00",
			EndTime:   "15:30",
		})
		require.NoError(t, err)
		assert.False(t, resp.Available)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := svc.CheckAvailability(context.Background(), &models.CheckAvailabilityRequest{
			AgentID:   agentID,
			Date:      testDate,
			StartTime: "11:00",
			EndTime:   "10:00",
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
