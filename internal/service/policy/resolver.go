package policy

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	policyCache "github.com/m04kA/SMC-SchedulingService/internal/infra/cache/policy"
	settingsRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Resolver загружает и проверяет политику планирования компании
type Resolver struct {
	settingsRepo SettingsRepository
	cache        PolicyCache
	logger       Logger
}

// NewResolver создает новый экземпляр PolicyResolver
// cache может быть nil: тогда настройки читаются из хранилища на каждый запрос
func NewResolver(settingsRepo SettingsRepository, cache PolicyCache, logger Logger) *Resolver {
	return &Resolver{
		settingsRepo: settingsRepo,
		cache:        cache,
		logger:       logger,
	}
}

// Resolve возвращает политику планирования компании
// Ошибки конфигурации возвращаются как *domain.ConfigurationError и не кэшируются
func (r *Resolver) Resolve(ctx context.Context, companyID string) (*domain.SchedulingPolicy, error) {
	// 1. Пробуем кэш
	if p := r.fromCache(ctx, companyID); p != nil {
		return p, nil
	}

	// 2. Читаем настройки компании (один запрос)
	settings, err := r.settingsRepo.GetByCompanyID(ctx, companyID)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrCompanyNotFound) {
			r.logger.Warn("Resolve: company id=%s not found", companyID)
			return nil, ErrCompanyNotFound
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		r.logger.Error("Resolve: failed to get settings for company id=%s: %v", companyID, err)
		return nil, fmt.Errorf("%w: failed to get company settings: %v", ErrInternal, err)
	}

	// 3. Обязательные поля: значений по умолчанию нет
	p, err := requireFields(settings)
	if err != nil {
		r.logger.Warn("Resolve: company id=%s: %v", companyID, err)
		return nil, err
	}

	// 4. Необязательные поля: значения по умолчанию
	if err := applyDefaults(p, settings); err != nil {
		r.logger.Warn("Resolve: company id=%s: %v", companyID, err)
		return nil, err
	}

	// 5. Бизнес-валидация и загрузка часового пояса
	if err := validatePolicy(p); err != nil {
		r.logger.Warn("Resolve: company id=%s: %v", companyID, err)
		return nil, err
	}

	// 6. Сохраняем в кэш только корректную политику
	if r.cache != nil {
		if err := r.cache.Set(ctx, p); err != nil {
			r.logger.Warn("Resolve: failed to cache policy for company id=%s: %v", companyID, err)
		}
	}

	return p, nil
}

func (r *Resolver) fromCache(ctx context.Context, companyID string) *domain.SchedulingPolicy {
	if r.cache == nil {
		return nil
	}

	p, err := r.cache.Get(ctx, companyID)
	if err != nil {
		if !errors.Is(err, policyCache.ErrCacheMiss) {
			r.logger.Warn("Resolve: policy cache read failed for company id=%s: %v", companyID, err)
		}
		return nil
	}

	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		r.logger.Warn("Resolve: cached policy for company id=%s has unknown timezone %q, reloading", companyID, p.Timezone)
		return nil
	}
	p.Location = loc

	return p
}

// requireFields переносит обязательные поля: рабочие часы, рабочие дни и часовой пояс
// Отсутствие любого из них ошибка конфигурации, подстановка не делается
func requireFields(s *domain.CompanySettings) (*domain.SchedulingPolicy, error) {
	if s.BusinessHoursStart == nil || strings.TrimSpace(*s.BusinessHoursStart) == "" {
		return nil, &domain.ConfigurationError{MissingField: "business_hours_start"}
	}
	if s.BusinessHoursEnd == nil || strings.TrimSpace(*s.BusinessHoursEnd) == "" {
		return nil, &domain.ConfigurationError{MissingField: "business_hours_end"}
	}
	if len(s.WorkingDays) == 0 {
		return nil, &domain.ConfigurationError{MissingField: "working_days"}
	}
	if s.Timezone == nil || strings.TrimSpace(*s.Timezone) == "" {
		return nil, &domain.ConfigurationError{MissingField: "timezone"}
	}

	start, err := types.ParseTimeOfDay(*s.BusinessHoursStart)
	if err != nil {
		return nil, &domain.ConfigurationError{Field: "business_hours_start", Reason: err.Error()}
	}
	end, err := types.ParseTimeOfDay(*s.BusinessHoursEnd)
	if err != nil {
		return nil, &domain.ConfigurationError{Field: "business_hours_end", Reason: err.Error()}
	}

	days, err := normalizeWorkingDays(s.WorkingDays)
	if err != nil {
		return nil, err
	}

	return &domain.SchedulingPolicy{
		CompanyID:          s.CompanyID,
		BusinessHoursStart: start,
		BusinessHoursEnd:   end,
		WorkingDays:        days,
		Timezone:           strings.TrimSpace(*s.Timezone),
	}, nil
}

// applyDefaults заполняет необязательные поля, подставляя значения по умолчанию для незаданных
func applyDefaults(p *domain.SchedulingPolicy, s *domain.CompanySettings) error {
	var err error

	if p.JobBufferMinutes, err = intOrDefault("job_buffer_minutes", s.JobBufferMinutes, domain.DefaultJobBufferMinutes, 0, domain.MaxBufferMinutes); err != nil {
		return err
	}
	if p.BufferBeforeMinutes, err = intOrDefault("default_buffer_before_minutes", s.BufferBeforeMinutes, domain.DefaultBufferBeforeMinutes, 0, domain.MaxBufferMinutes); err != nil {
		return err
	}
	if p.BufferAfterMinutes, err = intOrDefault("default_buffer_after_minutes", s.BufferAfterMinutes, domain.DefaultBufferAfterMinutes, 0, domain.MaxBufferMinutes); err != nil {
		return err
	}
	if p.MinAdvanceBookingHours, err = intOrDefault("min_advance_booking_hours", s.MinAdvanceBookingHours, domain.DefaultMinAdvanceBookingHours, 0, domain.MaxMinAdvanceBookingHours); err != nil {
		return err
	}
	if p.MaxAdvanceBookingDays, err = intOrDefault("max_advance_booking_days", s.MaxAdvanceBookingDays, domain.DefaultMaxAdvanceBookingDays, 0, domain.MaxAdvanceBookingDaysCap); err != nil {
		return err
	}
	if p.CapacityMinutesPerDay, err = intOrDefault("capacity_minutes_per_day", s.CapacityMinutesPerDay, domain.DefaultCapacityMinutesPerDay, 1, domain.MaxCapacityMinutesPerDay); err != nil {
		return err
	}

	return nil
}

func intOrDefault(field string, value *int, def, lo, hi int) (int, error) {
	if value == nil {
		return def, nil
	}
	if *value < lo || *value > hi {
		return 0, &domain.ConfigurationError{
			Field:  field,
			Reason: fmt.Sprintf("must be between %d and %d, got %d", lo, hi, *value),
		}
	}
	return *value, nil
}

// validatePolicy проверяет инварианты политики и загружает часовой пояс из базы IANA
func validatePolicy(p *domain.SchedulingPolicy) error {
	if !p.BusinessHoursStart.IsBefore(p.BusinessHoursEnd) {
		return &domain.ConfigurationError{
			Field:  "business_hours",
			Reason: fmt.Sprintf("start %s must be before end %s", p.BusinessHoursStart, p.BusinessHoursEnd),
		}
	}

	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return &domain.ConfigurationError{
			Field:  "timezone",
			Reason: fmt.Sprintf("unknown IANA timezone %q", p.Timezone),
		}
	}
	p.Location = loc

	return nil
}

// normalizeWorkingDays сортирует дни недели и убирает дубликаты
func normalizeWorkingDays(days []int) ([]int, error) {
	seen := make(map[int]struct{}, len(days))
	result := make([]int, 0, len(days))

	for _, d := range days {
		if d < 0 || d > 6 {
			return nil, &domain.ConfigurationError{
				Field:  "working_days",
				Reason: fmt.Sprintf("weekday must be between 0 (Sunday) and 6 (Saturday), got %d", d),
			}
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		result = append(result, d)
	}

	sort.Ints(result)
	return result, nil
}
