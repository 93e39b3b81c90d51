package middleware

import (
	"net/http"

	gorillaHandlers "github.com/gorilla/handlers"
)

// CORS разрешает кросс-доменные запросы виджета бронирования
// X-Request-ID разрешён и отдаётся клиенту всегда, остальные заголовки берутся из конфигурации
func CORS(allowedOrigins, allowedHeaders []string) func(http.Handler) http.Handler {
	headers := make([]string, 0, len(allowedHeaders)+1)
	headers = append(headers, allowedHeaders...)
	headers = append(headers, RequestIDHeader)

	return gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(allowedOrigins),
		gorillaHandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		gorillaHandlers.AllowedHeaders(headers),
		gorillaHandlers.ExposedHeaders([]string{RequestIDHeader}),
	)
}
