package settings

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const companyID = "5b1f7c3e-8f6d-4c1e-9a3b-2d4e6f8a0b1c"

var settingsColumns = []string{
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
}

func newSettingsRepoMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestRepositoryGetByCompanyID(t *testing.T) {
	repo, mock := newSettingsRepoMock(t)

	rows := sqlmock.NewRows(settingsColumns).
		AddRow(companyID, 15, 10, 20, "08:00:00", "17:30:00", "{1,2,3,4,5}", 2, 30, 360, "America/Denver")
	mock.ExpectQuery(`SELECT id, job_buffer_minutes, (.+), timezone FROM companies WHERE id = \$1`).
		WithArgs(companyID).
		WillReturnRows(rows)

	got, err := repo.GetByCompanyID(context.Background(), companyID)
	require.NoError(t, err)

	assert.Equal(t, companyID, got.CompanyID)
	require.NotNil(t, got.JobBufferMinutes)
	assert.Equal(t, 15, *got.JobBufferMinutes)
	assert.Equal(t, 10, *got.BufferBeforeMinutes)
	assert.Equal(t, 20, *got.BufferAfterMinutes)
	assert.Equal(t, "08:00:00", *got.BusinessHoursStart)
	assert.Equal(t, "17:30:00", *got.BusinessHoursEnd)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got.WorkingDays)
	assert.Equal(t, 2, *got.MinAdvanceBookingHours)
	assert.Equal(t, 30, *got.MaxAdvanceBookingDays)
	assert.Equal(t, 360, *got.CapacityMinutesPerDay)
	assert.Equal(t, "America/Denver", *got.Timezone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByCompanyIDKeepsNulls(t *testing.T) {
	repo, mock := newSettingsRepoMock(t)

	rows := sqlmock.NewRows(settingsColumns).
		AddRow(companyID, nil, nil, nil, nil, "17:00:00", nil, nil, nil, nil, "")
	mock.ExpectQuery(`FROM companies WHERE id = \$1`).
		WithArgs(companyID).
		WillReturnRows(rows)

	got, err := repo.GetByCompanyID(context.Background(), companyID)
	require.NoError(t, err)

	assert.Nil(t, got.JobBufferMinutes)
	assert.Nil(t, got.BufferBeforeMinutes)
	assert.Nil(t, got.BufferAfterMinutes)
	assert.Nil(t, got.BusinessHoursStart)
	assert.NotNil(t, got.BusinessHoursEnd)
	assert.Nil(t, got.WorkingDays)
	assert.Nil(t, got.CapacityMinutesPerDay)
	assert.Nil(t, got.Timezone, "empty timezone must be treated as not configured")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByCompanyIDNotFound(t *testing.T) {
	repo, mock := newSettingsRepoMock(t)

	mock.ExpectQuery(`FROM companies WHERE id = \$1`).
		WithArgs(companyID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByCompanyID(context.Background(), companyID)
	assert.ErrorIs(t, err, ErrCompanyNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByCompanyIDQueryError(t *testing.T) {
	repo, mock := newSettingsRepoMock(t)

	mock.ExpectQuery(`FROM companies WHERE id = \$1`).
		WithArgs(companyID).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.GetByCompanyID(context.Background(), companyID)
	assert.ErrorIs(t, err, ErrScanRow)
	assert.Contains(t, err.Error(), "connection reset")
}
