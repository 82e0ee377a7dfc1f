package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propdesk/PD-AgentBookingService/pkg/dbmetrics"
)

// --- фейки для источника транзакций ---

type fakeTx struct {
	commits   int
	rollbacks int
}

func (t *fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	t.commits++
	return nil
}

func (t *fakeTx) Rollback() error {
	t.rollbacks++
	return nil
}

type fakeBeginner struct {
	begun int
	tx    *fakeTx
}

func (b *fakeBeginner) BeginTx(context.Context, *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.begun++
	return b.tx, nil
}

var errStorage = errors.New("storage error")

func TestIsRetryable(t *testing.T) {
	serialization := &pq.Error{Code: "40001"}
	deadlock := &pq.Error{Code: "40P01"}
	unique := &pq.Error{Code: "23505"}

	cases := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"bare serialization failure", serialization, true},
		{"bare deadlock", deadlock, true},
		{"unique violation", unique, false},
		{"plain error", errors.New("boom"), false},
		// Репозитории оборачивают ошибку драйвера через %w - цепочка
		// должна сохраняться до транзакционного менеджера
		{"wrapped serialization failure", fmt.Errorf("%w: Create - execute insert: %w", errStorage, serialization), true},
		{"double-wrapped serialization failure", fmt.Errorf("internal: failed to resolve slots: %w",
			fmt.Errorf("%w: execute query: %w", errStorage, serialization)), true},
		{"wrapped unique violation", fmt.Errorf("%w: execute insert: %w", errStorage, unique), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.retryable, isRetryable(tc.err))
		})
	}
}

func TestDoSerializable_RetriesWrappedSerializationFailure(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	mgr := NewTransactionManager(beginner)

	attempts := 0
	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 2 {
			return fmt.Errorf("%w: execute query: %w", errStorage, &pq.Error{Code: "40001"})
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 2, beginner.begun)
	assert.Equal(t, 1, beginner.tx.rollbacks)
	assert.Equal(t, 1, beginner.tx.commits)
}

func TestDoSerializable_DoesNotRetryOrdinaryErrors(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	mgr := NewTransactionManager(beginner)

	attempts := 0
	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return errStorage
	})

	assert.ErrorIs(t, err, errStorage)
	assert.Equal(t, 1, attempts)
}

func TestDoSerializable_GivesUpAfterMaxRetries(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	mgr := NewTransactionManager(beginner)

	attempts := 0
	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return fmt.Errorf("%w: execute query: %w", errStorage, &pq.Error{Code: "40001"})
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, errStorage)
	assert.Equal(t, maxSerializableRetries, attempts)
}
