package handlers

import "github.com/m04kA/SMC-SchedulingService/internal/domain"

// PolicyResponse разрешённая политика планирования компании в HTTP ответах
type PolicyResponse struct {
	CompanyID              string `json:"company_id"`
	JobBufferMinutes       int    `json:"job_buffer_minutes"`
	BufferBeforeMinutes    int    `json:"default_buffer_before_minutes"`
	BufferAfterMinutes     int    `json:"default_buffer_after_minutes"`
	BusinessHoursStart     string `json:"business_hours_start"`
	BusinessHoursEnd       string `json:"business_hours_end"`
	WorkingDays            []int  `json:"working_days"`
	MinAdvanceBookingHours int    `json:"min_advance_booking_hours"`
	MaxAdvanceBookingDays  int    `json:"max_advance_booking_days"`
	CapacityMinutesPerDay  int    `json:"capacity_minutes_per_day"`
	Timezone               string `json:"timezone"`
}

// NewPolicyResponse конвертирует политику в HTTP модель
func NewPolicyResponse(p *domain.SchedulingPolicy) PolicyResponse {
	return PolicyResponse{
		CompanyID:              p.CompanyID,
		JobBufferMinutes:       p.JobBufferMinutes,
		BufferBeforeMinutes:    p.BufferBeforeMinutes,
		BufferAfterMinutes:     p.BufferAfterMinutes,
		BusinessHoursStart:     p.BusinessHoursStart.String(),
		BusinessHoursEnd:       p.BusinessHoursEnd.String(),
		WorkingDays:            p.WorkingDays,
		MinAdvanceBookingHours: p.MinAdvanceBookingHours,
		MaxAdvanceBookingDays:  p.MaxAdvanceBookingDays,
		CapacityMinutesPerDay:  p.CapacityMinutesPerDay,
		Timezone:               p.Timezone,
	}
}
