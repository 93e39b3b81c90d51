package policy

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек компании
type SettingsRepository interface {
	GetByCompanyID(ctx context.Context, companyID string) (*domain.CompanySettings, error)
}

// PolicyCache интерфейс кэша разрешённых политик
type PolicyCache interface {
	Get(ctx context.Context, companyID string) (*domain.SchedulingPolicy, error)
	Set(ctx context.Context, p *domain.SchedulingPolicy) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
