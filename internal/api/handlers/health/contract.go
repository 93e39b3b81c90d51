package health

import "context"

// Pinger проверка доступности хранилища
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Logger интерфейс для логирования
type Logger interface {
	Error(format string, v ...interface{})
}
