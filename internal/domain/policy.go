package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// CompanySettings сырая запись настроек компании из хранилища
// nil означает, что значение в хранилище не задано (NULL)
type CompanySettings struct {
	CompanyID              string
	JobBufferMinutes       *int
	BufferBeforeMinutes    *int
	BufferAfterMinutes     *int
	BusinessHoursStart     *string
	BusinessHoursEnd       *string
	WorkingDays            []int
	MinAdvanceBookingHours *int
	MaxAdvanceBookingDays  *int
	CapacityMinutesPerDay  *int
	Timezone               *string
}

// SchedulingPolicy разрешённая политика планирования компании
// Неизменна в рамках одного запроса
type SchedulingPolicy struct {
	CompanyID              string          `json:"company_id"`
	JobBufferMinutes       int             `json:"job_buffer_minutes"`
	BufferBeforeMinutes    int             `json:"buffer_before_minutes"`
	BufferAfterMinutes     int             `json:"buffer_after_minutes"`
	BusinessHoursStart     types.TimeOfDay `json:"business_hours_start"`
	BusinessHoursEnd       types.TimeOfDay `json:"business_hours_end"`
	WorkingDays            []int           `json:"working_days"` // 0 = воскресенье ... 6 = суббота
	MinAdvanceBookingHours int             `json:"min_advance_booking_hours"`
	MaxAdvanceBookingDays  int             `json:"max_advance_booking_days"`
	CapacityMinutesPerDay  int             `json:"capacity_minutes_per_day"`
	Timezone               string          `json:"timezone"` // IANA, например America/Los_Angeles

	// Location загруженный часовой пояс, в кэш не сериализуется
	Location *time.Location `json:"-"`
}

// WorksOn возвращает true, если день недели рабочий
func (p *SchedulingPolicy) WorksOn(weekday time.Weekday) bool {
	for _, d := range p.WorkingDays {
		if d == int(weekday) {
			return true
		}
	}
	return false
}

func (p *SchedulingPolicy) BufferBefore() time.Duration {
	return time.Duration(p.BufferBeforeMinutes) * time.Minute
}

func (p *SchedulingPolicy) BufferAfter() time.Duration {
	return time.Duration(p.BufferAfterMinutes) * time.Minute
}

// Capacity максимальное занятое время ресурса за календарный день
func (p *SchedulingPolicy) Capacity() time.Duration {
	return time.Duration(p.CapacityMinutesPerDay) * time.Minute
}

// BusinessHoursOn возвращает начало и конец рабочего дня в указанную локальную дату
func (p *SchedulingPolicy) BusinessHoursOn(year int, month time.Month, day int) (time.Time, time.Time) {
	return p.BusinessHoursStart.On(year, month, day, p.Location),
		p.BusinessHoursEnd.On(year, month, day, p.Location)
}

// BookingHorizon окно [now+min, now+max], в котором разрешено бронирование
func (p *SchedulingPolicy) BookingHorizon(now time.Time) TimeWindow {
	return TimeWindow{
		Start: now.Add(time.Duration(p.MinAdvanceBookingHours) * time.Hour),
		End:   now.AddDate(0, 0, p.MaxAdvanceBookingDays),
	}
}
