package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository репозиторий настроек планирования компании (таблица companies)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByCompanyID получает настройки планирования компании
// NULL-колонки возвращаются как nil: решение о значениях по умолчанию принимает PolicyResolver
func (r *Repository) GetByCompanyID(ctx context.Context, companyID string) (*domain.CompanySettings, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"job_buffer_minutes",
		"default_buffer_before_minutes",
		"default_buffer_after_minutes",
		"business_hours_start",
		"business_hours_end",
		"working_days",
		"min_advance_booking_hours",
		"max_advance_booking_days",
		"capacity_minutes_per_day",
		"timezone",
	).
		From("companies").
		Where(squirrel.Eq{"id": companyID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByCompanyID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		id                                   string
		jobBuffer, bufferBefore, bufferAfter sql.NullInt64
		hoursStart, hoursEnd, timezone       sql.NullString
		workingDays                          pq.Int64Array
		minAdvance, maxAdvance, capacity     sql.NullInt64
	)

	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&id,
		&jobBuffer,
		&bufferBefore,
		&bufferAfter,
		&hoursStart,
		&hoursEnd,
		&workingDays,
		&minAdvance,
		&maxAdvance,
		&capacity,
		&timezone,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCompanyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCompanyID - scan settings: %v", ErrScanRow, err)
	}

	settings := &domain.CompanySettings{
		CompanyID:              id,
		JobBufferMinutes:       nullableInt(jobBuffer),
		BufferBeforeMinutes:    nullableInt(bufferBefore),
		BufferAfterMinutes:     nullableInt(bufferAfter),
		BusinessHoursStart:     nullableString(hoursStart),
		BusinessHoursEnd:       nullableString(hoursEnd),
		MinAdvanceBookingHours: nullableInt(minAdvance),
		MaxAdvanceBookingDays:  nullableInt(maxAdvance),
		CapacityMinutesPerDay:  nullableInt(capacity),
		Timezone:               nullableString(timezone),
	}

	if workingDays != nil {
		settings.WorkingDays = make([]int, len(workingDays))
		for i, d := range workingDays {
			settings.WorkingDays[i] = int(d)
		}
	}

	return settings, nil
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

// nullableString пустая строка приравнивается к отсутствию значения
func nullableString(v sql.NullString) *string {
	if !v.Valid || v.String == "" {
		return nil
	}
	s := v.String
	return &s
}
