package calendarservice

import "time"

// BusyBlock интервал занятости сотрудника во внешнем календаре
type BusyBlock struct {
	ID    string    `json:"id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// BusyResponse ответ CalendarService со списком интервалов занятости
type BusyResponse struct {
	EmployeeID string      `json:"employee_id"`
	Busy       []BusyBlock `json:"busy"`
}

// ErrorResponse модель ошибки от CalendarService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
