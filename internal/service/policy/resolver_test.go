package policy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	policyCache "github.com/m04kA/SMC-SchedulingService/internal/infra/cache/policy"
	settingsRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

const companyID = "5b1f7c3e-8f6d-4c1e-9a3b-2d4e6f8a0b1c"

type stubSettingsRepo struct {
	settings *domain.CompanySettings
	err      error
	calls    int
}

func (s *stubSettingsRepo) GetByCompanyID(_ context.Context, _ string) (*domain.CompanySettings, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.settings, nil
}

type stubPolicyCache struct {
	store  map[string]domain.SchedulingPolicy
	getErr error
	setErr error
	sets   int
}

func (c *stubPolicyCache) Get(_ context.Context, id string) (*domain.SchedulingPolicy, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	p, ok := c.store[id]
	if !ok {
		return nil, policyCache.ErrCacheMiss
	}
	// как после json: часовой пояс не сохраняется
	p.Location = nil
	return &p, nil
}

func (c *stubPolicyCache) Set(_ context.Context, p *domain.SchedulingPolicy) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	if c.store == nil {
		c.store = make(map[string]domain.SchedulingPolicy)
	}
	c.store[p.CompanyID] = *p
	return nil
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func completeSettings() *domain.CompanySettings {
	return &domain.CompanySettings{
		CompanyID:          companyID,
		BusinessHoursStart: strPtr("09:00:00"),
		BusinessHoursEnd:   strPtr("17:00:00"),
		WorkingDays:        []int{5, 1, 2, 3, 4, 1},
		Timezone:           strPtr("America/New_York"),
	}
}

func TestResolveAppliesDefaults(t *testing.T) {
	repo := &stubSettingsRepo{settings: completeSettings()}
	r := NewResolver(repo, nil, logger.NewNop())

	p, err := r.Resolve(context.Background(), companyID)
	require.NoError(t, err)

	assert.Equal(t, companyID, p.CompanyID)
	assert.Equal(t, types.MustParseTimeOfDay("09:00"), p.BusinessHoursStart)
	assert.Equal(t, types.MustParseTimeOfDay("17:00"), p.BusinessHoursEnd)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, p.WorkingDays, "weekdays are sorted and deduplicated")
	assert.Equal(t, domain.DefaultJobBufferMinutes, p.JobBufferMinutes)
	assert.Equal(t, 30, p.BufferBeforeMinutes)
	assert.Equal(t, 30, p.BufferAfterMinutes)
	assert.Equal(t, 1, p.MinAdvanceBookingHours)
	assert.Equal(t, 90, p.MaxAdvanceBookingDays)
	assert.Equal(t, 480, p.CapacityMinutesPerDay)
	require.NotNil(t, p.Location)
	assert.Equal(t, "America/New_York", p.Location.String())
}

func TestResolveKeepsExplicitZeroes(t *testing.T) {
	s := completeSettings()
	s.BufferBeforeMinutes = intPtr(0)
	s.BufferAfterMinutes = intPtr(0)
	s.MinAdvanceBookingHours = intPtr(0)
	s.CapacityMinutesPerDay = intPtr(120)

	r := NewResolver(&stubSettingsRepo{settings: s}, nil, logger.NewNop())

	p, err := r.Resolve(context.Background(), companyID)
	require.NoError(t, err)

	assert.Equal(t, 0, p.BufferBeforeMinutes)
	assert.Equal(t, 0, p.BufferAfterMinutes)
	assert.Equal(t, 0, p.MinAdvanceBookingHours)
	assert.Equal(t, 120, p.CapacityMinutesPerDay)
}

func TestResolveMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *domain.CompanySettings)
		missing string
	}{
		{name: "no start", mutate: func(s *domain.CompanySettings) { s.BusinessHoursStart = nil }, missing: "business_hours_start"},
		{name: "no end", mutate: func(s *domain.CompanySettings) { s.BusinessHoursEnd = nil }, missing: "business_hours_end"},
		{name: "no working days", mutate: func(s *domain.CompanySettings) { s.WorkingDays = nil }, missing: "working_days"},
		{name: "empty working days", mutate: func(s *domain.CompanySettings) { s.WorkingDays = []int{} }, missing: "working_days"},
		{name: "no timezone", mutate: func(s *domain.CompanySettings) { s.Timezone = nil }, missing: "timezone"},
		{name: "blank timezone", mutate: func(s *domain.CompanySettings) { s.Timezone = strPtr("  ") }, missing: "timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := completeSettings()
			tt.mutate(s)
			cache := &stubPolicyCache{}
			r := NewResolver(&stubSettingsRepo{settings: s}, cache, logger.NewNop())

			p, err := r.Resolve(context.Background(), companyID)
			assert.Nil(t, p)

			var cfgErr *domain.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.missing, cfgErr.MissingField)
			assert.Zero(t, cache.sets, "configuration errors are never cached")
		})
	}
}

func TestResolveInvalidPolicy(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *domain.CompanySettings)
		field  string
	}{
		{name: "start equals end", mutate: func(s *domain.CompanySettings) { s.BusinessHoursEnd = strPtr("09:00") }, field: "business_hours"},
		{name: "start after end", mutate: func(s *domain.CompanySettings) { s.BusinessHoursStart = strPtr("18:00") }, field: "business_hours"},
		{name: "bad time", mutate: func(s *domain.CompanySettings) { s.BusinessHoursStart = strPtr("9am") }, field: "business_hours_start"},
		{name: "unknown timezone", mutate: func(s *domain.CompanySettings) { s.Timezone = strPtr("Mars/Olympus_Mons") }, field: "timezone"},
		{name: "weekday out of range", mutate: func(s *domain.CompanySettings) { s.WorkingDays = []int{1, 7} }, field: "working_days"},
		{name: "negative buffer", mutate: func(s *domain.CompanySettings) { s.BufferAfterMinutes = intPtr(-5) }, field: "default_buffer_after_minutes"},
		{name: "zero capacity", mutate: func(s *domain.CompanySettings) { s.CapacityMinutesPerDay = intPtr(0) }, field: "capacity_minutes_per_day"},
		{name: "negative max advance", mutate: func(s *domain.CompanySettings) { s.MaxAdvanceBookingDays = intPtr(-1) }, field: "max_advance_booking_days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := completeSettings()
			tt.mutate(s)
			r := NewResolver(&stubSettingsRepo{settings: s}, nil, logger.NewNop())

			_, err := r.Resolve(context.Background(), companyID)

			var cfgErr *domain.ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.Empty(t, cfgErr.MissingField)
		})
	}
}

func TestResolveCompanyNotFound(t *testing.T) {
	repo := &stubSettingsRepo{err: settingsRepo.ErrCompanyNotFound}
	r := NewResolver(repo, nil, logger.NewNop())

	_, err := r.Resolve(context.Background(), companyID)
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestResolveStorageFailure(t *testing.T) {
	repo := &stubSettingsRepo{err: errors.New("dial tcp: connection refused")}
	r := NewResolver(repo, nil, logger.NewNop())

	_, err := r.Resolve(context.Background(), companyID)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestResolveUsesCache(t *testing.T) {
	repo := &stubSettingsRepo{settings: completeSettings()}
	cache := &stubPolicyCache{}
	r := NewResolver(repo, cache, logger.NewNop())

	first, err := r.Resolve(context.Background(), companyID)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	second, err := r.Resolve(context.Background(), companyID)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls, "cache hit skips storage")
	require.NotNil(t, second.Location, "location is reloaded after a cache hit")
	assert.Equal(t, first.Location.String(), second.Location.String())

	// один и тот же момент в обоих поясах
	day := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	open1, _ := first.BusinessHoursOn(day.Year(), day.Month(), day.Day())
	open2, _ := second.BusinessHoursOn(day.Year(), day.Month(), day.Day())
	assert.True(t, open1.Equal(open2))
}

func TestResolveCacheFailureFallsBackToStorage(t *testing.T) {
	repo := &stubSettingsRepo{settings: completeSettings()}
	cache := &stubPolicyCache{
		getErr: errors.New("redis: connection pool timeout"),
		setErr: errors.New("redis: connection pool timeout"),
	}
	r := NewResolver(repo, cache, logger.NewNop())

	p, err := r.Resolve(context.Background(), companyID)
	require.NoError(t, err)
	assert.NotNil(t, p)
	assert.Equal(t, 1, repo.calls)
}
