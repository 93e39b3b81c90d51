package workorders

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository источник занятости из назначенных заказ-нарядов (таблица work_orders)
type Repository struct {
	db       DBExecutor
	statuses []string
}

// NewRepository создает новый экземпляр репозитория заказ-нарядов
// Время сотрудника занимают только заказы в статусах domain.WorkOrderBlockingStatuses
func NewRepository(db DBExecutor) *Repository {
	return &Repository{
		db:       db,
		statuses: domain.WorkOrderBlockingStatuses,
	}
}

func (r *Repository) Kind() domain.CommitmentSourceKind {
	return domain.SourceWorkOrder
}

// Fetch получает заказы сотрудника в компании, пересекающиеся с окном запроса
func (r *Repository) Fetch(ctx context.Context, q domain.CommitmentQuery) ([]domain.Commitment, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"scheduled_start",
		"scheduled_end",
	).
		From("work_orders").
		Where(squirrel.Eq{"company_id": q.CompanyID}).
		Where(squirrel.Eq{"assigned_to": q.ResourceID}).
		Where(squirrel.Lt{"scheduled_start": q.Window.End}).
		Where(squirrel.Gt{"scheduled_end": q.Window.Start}).
		Where(squirrel.Eq{"status": r.statuses}).
		OrderBy("scheduled_start ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Fetch - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Fetch - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	commitments := make([]domain.Commitment, 0)
	for rows.Next() {
		var (
			id         string
			start, end sql.NullTime
		)
		if err := rows.Scan(&id, &start, &end); err != nil {
			return nil, fmt.Errorf("%w: Fetch - scan row: %v", ErrScanRow, err)
		}

		// Незапланированный заказ время не занимает
		if !start.Valid || !end.Valid {
			continue
		}

		commitments = append(commitments, domain.Commitment{
			ID:     id,
			Start:  start.Time.UTC(),
			End:    end.Time.UTC(),
			Source: domain.SourceWorkOrder,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Fetch - rows error: %v", ErrScanRow, err)
	}

	return commitments, nil
}
