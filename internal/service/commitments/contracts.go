package commitments

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Source независимый источник занятости ресурса
// Возвращает интервалы, пересекающиеся с окном запроса: start < window.End и end > window.Start
type Source interface {
	Kind() domain.CommitmentSourceKind
	Fetch(ctx context.Context, q domain.CommitmentQuery) ([]domain.Commitment, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
