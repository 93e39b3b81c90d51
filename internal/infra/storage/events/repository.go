package events

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository источник занятости из календарных событий сотрудников (таблица schedule_events)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория событий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Kind тип источника занятости
func (r *Repository) Kind() domain.CommitmentSourceKind {
	return domain.SourceScheduleEvent
}

// Fetch получает события сотрудника, пересекающиеся с окном запроса
// Событие попадает в выборку, даже если начинается до окна или заканчивается после него
func (r *Repository) Fetch(ctx context.Context, q domain.CommitmentQuery) ([]domain.Commitment, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"start_time",
		"end_time",
	).
		From("schedule_events").
		Where(squirrel.Eq{"employee_id": q.ResourceID}).
		Where(squirrel.Lt{"start_time": q.Window.End}).
		Where(squirrel.Gt{"end_time": q.Window.Start}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Fetch - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Fetch - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanCommitments(rows)
}

func (r *Repository) scanCommitments(rows *sql.Rows) ([]domain.Commitment, error) {
	commitments := make([]domain.Commitment, 0)

	for rows.Next() {
		var (
			id         string
			start, end time.Time
		)
		if err := rows.Scan(&id, &start, &end); err != nil {
			return nil, fmt.Errorf("%w: scanCommitments - scan row: %v", ErrScanRow, err)
		}

		commitments = append(commitments, domain.Commitment{
			ID:     id,
			Start:  start.UTC(),
			End:    end.UTC(),
			Source: domain.SourceScheduleEvent,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanCommitments - rows error: %v", ErrScanRow, err)
	}

	return commitments, nil
}
