package compute_availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	computeAvailability "github.com/m04kA/SMC-SchedulingService/internal/usecase/compute_availability"
)

// ComputeAvailabilityRequest HTTP request model
type ComputeAvailabilityRequest struct {
	EmployeeIDs     []string `json:"employeeIds" validate:"required,min=1,max=100,dive,uuid"`
	DurationMinutes int      `json:"durationMinutes" validate:"required,gt=0,lte=1440"`
	CompanyID       string   `json:"companyId" validate:"required,uuid"`
	StartDate       string   `json:"startDate" validate:"required"`
	EndDate         string   `json:"endDate" validate:"required"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Suggestions  map[string]*EmployeeSuggestions `json:"suggestions"`
	Settings     handlers.PolicyResponse         `json:"settings"`
	SearchPeriod SearchPeriod                    `json:"search_period"`
	Failures     []EmployeeFailure               `json:"failures,omitempty"`
}

// EmployeeSuggestions доступные слоты одного сотрудника
type EmployeeSuggestions struct {
	EmployeeID     string          `json:"employee_id"`
	AvailableSlots []AvailableSlot `json:"available_slots"`
	TotalAvailable int             `json:"total_available"`
	Failed         bool            `json:"failed,omitempty"`
	Error          string          `json:"error,omitempty"`
	Warnings       []string        `json:"warnings,omitempty"`
}

// AvailableSlot модель доступного слота
type AvailableSlot struct {
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
	EmployeeID      string `json:"employee_id"`
	BufferBefore    int    `json:"buffer_before"`
	BufferAfter     int    `json:"buffer_after"`
	IsCleanInterval bool   `json:"is_clean_interval"`
}

type SearchPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type EmployeeFailure struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

// ToUseCaseRequest создает запрос use case из тела запроса
func ToUseCaseRequest(req *ComputeAvailabilityRequest) (*computeAvailability.Request, error) {
	start, err := parseTimestamp(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("startDate: %w", err)
	}

	end, err := parseTimestamp(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("endDate: %w", err)
	}

	return &computeAvailability.Request{
		CompanyID:       req.CompanyID,
		EmployeeIDs:     req.EmployeeIDs,
		DurationMinutes: req.DurationMinutes,
		StartDate:       start,
		EndDate:         end,
	}, nil
}

// parseTimestamp принимает RFC 3339, дату-время без пояса (UTC) или дату YYYY-MM-DD (полночь UTC)
func parseTimestamp(s string) (time.Time, error) {
	layouts := []string{time.RFC3339Nano, "2006-01-02T15:04:05", domain.DateFormat}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid ISO-8601 timestamp %q", s)
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *computeAvailability.Response) *AvailabilityResponse {
	result := &AvailabilityResponse{
		Suggestions: make(map[string]*EmployeeSuggestions, len(resp.Resources)),
		Settings:    handlers.NewPolicyResponse(resp.Policy),
		SearchPeriod: SearchPeriod{
			Start: resp.Window.Start.Format(time.RFC3339),
			End:   resp.Window.End.Format(time.RFC3339),
		},
	}

	for _, res := range resp.Resources {
		slots := make([]AvailableSlot, len(res.Slots))
		for i, s := range res.Slots {
			slots[i] = AvailableSlot{
				StartTime:       s.Start.UTC().Format(time.RFC3339),
				EndTime:         s.End.UTC().Format(time.RFC3339),
				DurationMinutes: s.DurationMinutes,
				EmployeeID:      s.ResourceID,
				BufferBefore:    resp.Policy.BufferBeforeMinutes,
				BufferAfter:     resp.Policy.BufferAfterMinutes,
				IsCleanInterval: true,
			}
		}

		suggestion := &EmployeeSuggestions{
			EmployeeID:     res.ResourceID,
			AvailableSlots: slots,
			TotalAvailable: len(slots),
			Failed:         res.Failed,
			Warnings:       res.Warnings,
		}

		if res.Failed && res.Err != nil {
			suggestion.Error = res.Err.Error()
			result.Failures = append(result.Failures, EmployeeFailure{
				EmployeeID: res.ResourceID,
				Error:      res.Err.Error(),
			})
		}

		result.Suggestions[res.ResourceID] = suggestion
	}

	return result
}
