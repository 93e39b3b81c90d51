package get_scheduling_policy

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type PolicyResolver interface {
	Resolve(ctx context.Context, companyID string) (*domain.SchedulingPolicy, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
