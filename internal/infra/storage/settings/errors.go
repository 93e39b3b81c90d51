package settings

import "errors"

var (
	// ErrCompanyNotFound возвращается, когда запись настроек компании не найдена
	ErrCompanyNotFound = errors.New("settings.repository: company not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("settings.repository: failed to build query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("settings.repository: failed to scan row")
)
