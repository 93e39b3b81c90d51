package compute_availability

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса до любых обращений к хранилищу
func validateRequest(req *Request) error {
	if _, err := uuid.Parse(req.CompanyID); err != nil {
		return fmt.Errorf("%w: companyId must be a UUID", ErrInvalidInput)
	}

	if len(req.EmployeeIDs) == 0 {
		return fmt.Errorf("%w: employeeIds must not be empty", ErrInvalidInput)
	}

	if len(req.EmployeeIDs) > domain.MaxEmployeesPerRequest {
		return fmt.Errorf("%w: at most %d employeeIds per request", ErrInvalidInput, domain.MaxEmployeesPerRequest)
	}

	seen := make(map[string]struct{}, len(req.EmployeeIDs))
	for _, id := range req.EmployeeIDs {
		if _, err := uuid.Parse(id); err != nil {
			return fmt.Errorf("%w: employeeId %q must be a UUID", ErrInvalidInput, id)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate employeeId %q", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	if req.DurationMinutes <= 0 {
		return fmt.Errorf("%w: durationMinutes must be positive", ErrInvalidInput)
	}

	if req.DurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must not exceed %d", ErrInvalidInput, domain.MaxDurationMinutes)
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}

	if !req.EndDate.After(req.StartDate) {
		return fmt.Errorf("%w: endDate must be after startDate", ErrInvalidInput)
	}

	if req.EndDate.Sub(req.StartDate) > domain.MaxSearchWindowDays*24*time.Hour {
		return fmt.Errorf("%w: search window must not exceed %d days", ErrInvalidInput, domain.MaxSearchWindowDays)
	}

	return nil
}
