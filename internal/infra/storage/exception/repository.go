package exception

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
	"github.com/propdesk/PD-AgentBookingService/pkg/dbmetrics"
	"github.com/propdesk/PD-AgentBookingService/pkg/psqlbuilder"
)

var slotColumns = []string{
	"id",
	"agent_id",
	"date",
	"start_time",
	"end_time",
	"kind",
	"reason",
	"created_at",
	"updated_at",
}

// Repository репозиторий исключений календаря (extra/blocked слоты)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория исключений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByAgentID получает все исключения агента (прошлые и будущие)
func (r *Repository) ListByAgentID(ctx context.Context, agentID int64) ([]*domain.ExtraTimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("extra_time_slots").
		Where(squirrel.Eq{"agent_id": agentID}).
		OrderBy("date ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByAgentID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAgentID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSlots(rows)
}

// ListByAgentAndDateRange получает исключения агента за период [start, end]
// Используется slot resolver'ом при расчете доступности на месяц
func (r *Repository) ListByAgentAndDateRange(ctx context.Context, agentID int64, start, end time.Time) ([]*domain.ExtraTimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("extra_time_slots").
		Where(squirrel.Eq{"agent_id": agentID}).
		Where(squirrel.GtOrEq{"date": start}).
		Where(squirrel.LtOrEq{"date": end}).
		OrderBy("date ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByAgentAndDateRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAgentAndDateRange - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSlots(rows)
}

// ReplaceForDate заменяет все исключения агента на указанную дату
// Вызывается внутри транзакции: сначала удаляются записи даты, отсутствующие
// в новом наборе, затем записи с ID обновляются, без ID - вставляются
func (r *Repository) ReplaceForDate(ctx context.Context, agentID int64, date time.Time, slots []domain.ExtraTimeSlotUpsert) ([]*domain.ExtraTimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// Собираем ID, которые остаются на этой дате
	keepIDs := make([]int64, 0, len(slots))
	for _, slot := range slots {
		if slot.ID != nil {
			keepIDs = append(keepIDs, *slot.ID)
		}
	}

	// Удаляем записи даты, не вошедшие в новый набор
	deleteBuilder := psqlbuilder.Delete("extra_time_slots").
		Where(squirrel.Eq{"agent_id": agentID}).
		Where(squirrel.Eq{"date": date})
	if len(keepIDs) > 0 {
		deleteBuilder = deleteBuilder.Where(squirrel.NotEq{"id": keepIDs})
	}

	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceForDate - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: ReplaceForDate - execute delete: %w", ErrExecQuery, err)
	}

	result := make([]*domain.ExtraTimeSlot, 0, len(slots))

	for _, slot := range slots {
		if slot.ID != nil {
			updated, err := r.update(ctx, executor, agentID, date, *slot.ID, slot)
			if err != nil {
				return nil, err
			}
			result = append(result, updated)
			continue
		}

		inserted, err := r.insert(ctx, executor, agentID, date, slot)
		if err != nil {
			return nil, err
		}
		result = append(result, inserted)
	}

	return result, nil
}

// DeleteByIDs удаляет исключения агента по списку ID
// Идемпотентно: уже удаленные и неизвестные ID молча игнорируются
func (r *Repository) DeleteByIDs(ctx context.Context, agentID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("extra_time_slots").
		Where(squirrel.Eq{"agent_id": agentID}).
		Where(squirrel.Eq{"id": ids}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteByIDs - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteByIDs - execute delete: %w", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) insert(ctx context.Context, executor DBExecutor, agentID int64, date time.Time, slot domain.ExtraTimeSlotUpsert) (*domain.ExtraTimeSlot, error) {
	query, args, err := psqlbuilder.Insert("extra_time_slots").
		Columns("agent_id", "date", "start_time", "end_time", "kind", "reason").
		Values(agentID, date, slot.StartTime, slot.EndTime, slot.Kind, slot.Reason).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: insert - build insert query: %v", ErrBuildQuery, err)
	}

	created := &domain.ExtraTimeSlot{
		AgentID:   agentID,
		Date:      date,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
		Kind:      slot.Kind,
		Reason:    slot.Reason,
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&created.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: insert - execute insert: %w", ErrExecQuery, err)
	}

	created.CreatedAt = createdAt.Time
	created.UpdatedAt = updatedAt.Time

	return created, nil
}

func (r *Repository) update(ctx context.Context, executor DBExecutor, agentID int64, date time.Time, id int64, slot domain.ExtraTimeSlotUpsert) (*domain.ExtraTimeSlot, error) {
	query, args, err := psqlbuilder.Update("extra_time_slots").
		Set("start_time", slot.StartTime).
		Set("end_time", slot.EndTime).
		Set("kind", slot.Kind).
		Set("reason", slot.Reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "agent_id": agentID, "date": date}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: update - build update query: %v", ErrBuildQuery, err)
	}

	updated := &domain.ExtraTimeSlot{
		ID:        id,
		AgentID:   agentID,
		Date:      date,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
		Kind:      slot.Kind,
		Reason:    slot.Reason,
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: update - execute update: %w", ErrExecQuery, err)
	}

	updated.CreatedAt = createdAt.Time
	updated.UpdatedAt = updatedAt.Time

	return updated, nil
}

// scanSlots сканирует результаты запроса в слайс исключений
func (r *Repository) scanSlots(rows *sql.Rows) ([]*domain.ExtraTimeSlot, error) {
	slots := make([]*domain.ExtraTimeSlot, 0)

	for rows.Next() {
		var slot domain.ExtraTimeSlot
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&slot.ID,
			&slot.AgentID,
			&slot.Date,
			&slot.StartTime,
			&slot.EndTime,
			&slot.Kind,
			&slot.Reason,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %w", ErrScanRow, err)
		}

		slot.CreatedAt = createdAt.Time
		slot.UpdatedAt = updatedAt.Time

		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %w", ErrScanRow, err)
	}

	return slots, nil
}
