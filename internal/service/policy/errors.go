package policy

import "errors"

var (
	// ErrCompanyNotFound возвращается, когда компания не найдена
	ErrCompanyNotFound = errors.New("company not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("policy.resolver: internal error")
)
