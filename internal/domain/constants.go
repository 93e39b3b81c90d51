package domain

import "time"

// Значения по умолчанию для необязательных полей политики
// Рабочие часы, рабочие дни и часовой пояс значений по умолчанию не имеют
const (
	DefaultJobBufferMinutes       = 30
	DefaultBufferBeforeMinutes    = 30
	DefaultBufferAfterMinutes     = 30
	DefaultMinAdvanceBookingHours = 1
	DefaultMaxAdvanceBookingDays  = 90
	DefaultCapacityMinutesPerDay  = 480 // 8 часов
)

// Ограничения бизнес-валидации
const (
	MaxBufferMinutes          = 1440
	MaxDurationMinutes        = 1440
	MaxSearchWindowDays       = 366
	MaxEmployeesPerRequest    = 100
	MaxCapacityMinutesPerDay  = 1440
	MaxAdvanceBookingDaysCap  = 730
	MaxMinAdvanceBookingHours = 8760
)

// SlotGranularity шаг сетки слотов
const SlotGranularity = 15 * time.Minute

// Форматы времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
