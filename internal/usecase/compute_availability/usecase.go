package compute_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/policy"
)

// commitmentLookaround расширение окна загрузки занятости с каждой стороны:
// обязательства у границ окна влияют на буферы и на лимит календарного дня
const commitmentLookaround = 24 * time.Hour

// UseCase use case для расчёта доступных слотов сотрудников
type UseCase struct {
	policyResolver   PolicyResolver
	commitmentLoader CommitmentLoader
	metrics          Metrics
	timeProvider     TimeProvider
	logger           Logger
	opts             Options
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	policyResolver PolicyResolver,
	commitmentLoader CommitmentLoader,
	metrics Metrics,
	logger Logger,
	opts Options,
) *UseCase {
	return &UseCase{
		policyResolver:   policyResolver,
		commitmentLoader: commitmentLoader,
		metrics:          metrics,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
		opts:             opts,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет расчёт доступности
// Ошибки конфигурации и входных данных прерывают весь запрос,
// отказ источников занятости помечает только соответствующего сотрудника
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ComputeAvailability: company=%s, employees=%d, duration=%d, window=[%s, %s)",
		req.CompanyID, len(req.EmployeeIDs), req.DurationMinutes,
		req.StartDate.Format(time.RFC3339), req.EndDate.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ComputeAvailability: validation failed: %v", err)
		uc.metrics.ObserveAvailability("invalid_input")
		return nil, err
	}

	// 2. Получаем текущее время (одно на весь запрос)
	now := uc.timeProvider.Now()

	// 3. Политика компании, общая для всех сотрудников
	p, err := uc.policyResolver.Resolve(ctx, req.CompanyID)
	if err != nil {
		return nil, uc.policyError(req.CompanyID, err)
	}

	window := domain.TimeWindow{Start: req.StartDate.UTC(), End: req.EndDate.UTC()}

	// 4. Сотрудники рассчитываются параллельно, каждый со своим учётом дня
	results := make([]ResourceAvailability, len(req.EmployeeIDs))

	g, gctx := errgroup.WithContext(ctx)
	limit := uc.opts.MaxParallelResources
	if limit <= 0 {
		limit = -1
	}
	g.SetLimit(limit)

	for i, employeeID := range req.EmployeeIDs {
		g.Go(func() error {
			res, err := uc.computeResource(gctx, req, p, employeeID, window, now)
			if err != nil {
				return err
			}
			results[i] = *res
			return nil
		})
	}

	// 5. Отмена запроса отбрасывает частичные результаты
	if err := g.Wait(); err != nil {
		uc.logger.Warn("ComputeAvailability: aborted for company=%s: %v", req.CompanyID, err)
		uc.metrics.ObserveAvailability("canceled")
		return nil, err
	}

	resp := &Response{
		Policy:    p,
		Window:    window,
		Resources: results,
	}

	failed := len(resp.Failures())
	if failed > 0 {
		uc.metrics.ObserveAvailability("partial")
	} else {
		uc.metrics.ObserveAvailability("ok")
	}

	uc.logger.Info("ComputeAvailability: company=%s done, employees=%d, failed=%d",
		req.CompanyID, len(results), failed)

	return resp, nil
}

// computeResource загрузка занятости, перечисление и фильтрация для одного сотрудника
// Возвращает ошибку только при отмене контекста
func (uc *UseCase) computeResource(
	ctx context.Context,
	req *Request,
	p *domain.SchedulingPolicy,
	employeeID string,
	window domain.TimeWindow,
	now time.Time,
) (*ResourceAvailability, error) {
	res := &ResourceAvailability{
		ResourceID: employeeID,
		Slots:      []domain.CandidateSlot{},
	}

	loaded, err := uc.commitmentLoader.Load(ctx, domain.CommitmentQuery{
		CompanyID:  req.CompanyID,
		ResourceID: employeeID,
		Window: domain.TimeWindow{
			Start: window.Start.Add(-commitmentLookaround),
			End:   window.End.Add(commitmentLookaround),
		},
	})
	if err != nil {
		return nil, err
	}

	if loaded.Failed() {
		for _, f := range loaded.Failures {
			uc.metrics.IncSourceFailure(string(f.Source))
		}

		if !uc.opts.AllowPartialSources {
			res.Failed = true
			res.Err = loaded.Err(employeeID)
			uc.logger.Error("ComputeAvailability: employee=%s marked failed: %v", employeeID, res.Err)
			return res, nil
		}

		for _, f := range loaded.Failures {
			res.Warnings = append(res.Warnings, fmt.Sprintf("commitment source %s unavailable: %v", f.Source, f.Err))
		}
		uc.logger.Warn("ComputeAvailability: employee=%s computed from partial sources: %v", employeeID, res.Warnings)
	}

	candidates := enumerateSlots(employeeID, req.DurationMinutes, window, p, now)
	res.Slots = filterSlots(candidates, loaded.Commitments, p)

	uc.metrics.ObserveResourceSlots(len(res.Slots))
	uc.logger.Info("ComputeAvailability: employee=%s, commitments=%d, candidates=%d, accepted=%d",
		employeeID, len(loaded.Commitments), len(candidates), len(res.Slots))

	return res, nil
}

func (uc *UseCase) policyError(companyID string, err error) error {
	var cfgErr *domain.ConfigurationError

	switch {
	case errors.As(err, &cfgErr):
		uc.logger.Warn("ComputeAvailability: company=%s has invalid scheduling policy: %v", companyID, err)
		uc.metrics.ObserveAvailability("config_error")
		return err
	case errors.Is(err, policy.ErrCompanyNotFound):
		uc.logger.Warn("ComputeAvailability: company=%s not found", companyID)
		uc.metrics.ObserveAvailability("config_error")
		return ErrCompanyNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		uc.metrics.ObserveAvailability("canceled")
		return err
	default:
		uc.logger.Error("ComputeAvailability: failed to resolve policy for company=%s: %v", companyID, err)
		uc.metrics.ObserveAvailability("error")
		return fmt.Errorf("%w: failed to resolve scheduling policy: %v", ErrInternal, err)
	}
}
