package compute_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/commitments"
)

// PolicyResolver интерфейс получения политики планирования компании
type PolicyResolver interface {
	Resolve(ctx context.Context, companyID string) (*domain.SchedulingPolicy, error)
}

// CommitmentLoader интерфейс получения занятости ресурса
type CommitmentLoader interface {
	Load(ctx context.Context, q domain.CommitmentQuery) (*commitments.LoadResult, error)
}

// Metrics интерфейс метрик расчёта доступности
type Metrics interface {
	ObserveAvailability(outcome string)
	ObserveResourceSlots(count int)
	IncSourceFailure(source string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
