package calendarservice

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("calendarservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("calendarservice client: invalid response")

	// ErrUnavailable возвращается, когда сервис не ответил
	ErrUnavailable = errors.New("calendarservice client: service unavailable")
)
