package compute_availability

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модель запроса на расчёт доступности
type Request struct {
	CompanyID       string    // ID компании (UUID)
	EmployeeIDs     []string  // ID сотрудников (UUID), порядок сохраняется в ответе
	DurationMinutes int       // Длительность работы в минутах
	StartDate       time.Time // Начало окна поиска
	EndDate         time.Time // Конец окна поиска (не включительно)
}

// Response модель ответа с доступными слотами по каждому сотруднику
type Response struct {
	Policy    *domain.SchedulingPolicy
	Window    domain.TimeWindow
	Resources []ResourceAvailability
}

// ResourceAvailability результат расчёта для одного сотрудника
type ResourceAvailability struct {
	ResourceID string
	Slots      []domain.CandidateSlot // в хронологическом порядке
	Failed     bool                   // источники занятости не ответили, слоты не рассчитаны
	Err        error
	Warnings   []string // отказы источников при AllowPartialSources
}

// Failures сотрудники, для которых расчёт не выполнен
func (r *Response) Failures() []ResourceAvailability {
	failed := make([]ResourceAvailability, 0)
	for _, res := range r.Resources {
		if res.Failed {
			failed = append(failed, res)
		}
	}
	return failed
}

// Options настройки расчёта
type Options struct {
	// MaxParallelResources максимум сотрудников, рассчитываемых одновременно (<= 0 без ограничения)
	MaxParallelResources int

	// AllowPartialSources считать слоты по ответившим источникам, а отказы возвращать предупреждениями
	AllowPartialSources bool
}
