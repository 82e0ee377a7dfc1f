package schedule

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

var entryColumns = []string{
	"id",
	"agent_id",
	"day_of_week",
	"start_time",
	"end_time",
	"created_at",
	"updated_at",
}

// Repository репозиторий недельного расписания агентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByAgentID получает все записи недельного расписания агента,
// упорядоченные по дню недели и времени начала
func (r *Repository) ListByAgentID(ctx context.Context, agentID int64) ([]*domain.WeeklyScheduleEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(entryColumns...).
		From("weekly_schedule_entries").
		Where(squirrel.Eq{"agent_id": agentID}).
		OrderBy("day_of_week ASC, start_time ASC")

	// Блокировка строк при пересборке расписания внутри транзакции
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAgentID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAgentID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanEntries(rows)
}

// Insert вставляет новую запись расписания
func (r *Repository) Insert(ctx context.Context, entry *domain.WeeklyScheduleEntry) (*domain.WeeklyScheduleEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("weekly_schedule_entries").
		Columns("agent_id", "day_of_week", "start_time", "end_time").
		Values(entry.AgentID, int(entry.DayOfWeek), entry.StartTime, entry.EndTime).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Insert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Insert - execute insert: %w", ErrExecQuery, err)
	}

	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time

	return entry, nil
}

// Update обновляет существующую запись расписания агента
// Запись другого агента обновить нельзя - agent_id входит в условие
func (r *Repository) Update(ctx context.Context, entry *domain.WeeklyScheduleEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("weekly_schedule_entries").
		Set("day_of_week", int(entry.DayOfWeek)).
		Set("start_time", entry.StartTime).
		Set("end_time", entry.EndTime).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": entry.ID, "agent_id": entry.AgentID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// DeleteByIDs удаляет записи расписания агента по списку ID
// Отсутствующие ID не считаются ошибкой
func (r *Repository) DeleteByIDs(ctx context.Context, agentID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("weekly_schedule_entries").
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

// scanEntries сканирует результаты запроса в слайс записей расписания
func (r *Repository) scanEntries(rows *sql.Rows) ([]*domain.WeeklyScheduleEntry, error) {
	entries := make([]*domain.WeeklyScheduleEntry, 0)

	for rows.Next() {
		var entry domain.WeeklyScheduleEntry
		var dayOfWeek int
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&entry.ID,
			&entry.AgentID,
			&dayOfWeek,
			&entry.StartTime,
			&entry.EndTime,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanEntries - scan row: %w", ErrScanRow, err)
		}

		entry.DayOfWeek = time.Weekday(dayOfWeek)
		entry.CreatedAt = createdAt.Time
		entry.UpdatedAt = updatedAt.Time

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanEntries - rows error: %w", ErrScanRow, err)
	}

	return entries, nil
}
