package domain

import "time"

// CommitmentSourceKind источник занятости ресурса
// Используется только для диагностики: логика конфликтов одинакова для всех источников
type CommitmentSourceKind string

const (
	SourceScheduleEvent    CommitmentSourceKind = "schedule_event"
	SourceWorkOrder        CommitmentSourceKind = "work_order"
	SourceExternalCalendar CommitmentSourceKind = "external_calendar"
)

// WorkOrderBlockingStatuses статусы заказов, занимающих время сотрудника
var WorkOrderBlockingStatuses = []string{"scheduled", "in_progress"}

// Commitment интервал, в который ресурс занят
type Commitment struct {
	ID     string
	Start  time.Time // UTC
	End    time.Time // UTC
	Source CommitmentSourceKind
}

// IsValid возвращает true, если интервал непустой
func (c Commitment) IsValid() bool {
	return c.End.After(c.Start)
}

// TimeWindow полуоткрытый интервал [Start, End)
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// IsEmpty возвращает true, если окно не содержит ни одного момента времени
func (w TimeWindow) IsEmpty() bool {
	return !w.End.After(w.Start)
}

// Overlaps возвращает true, если интервалы [start, end) и окно пересекаются
// Соприкосновение границ пересечением не считается
func (w TimeWindow) Overlaps(start, end time.Time) bool {
	return start.Before(w.End) && end.After(w.Start)
}

// Intersect пересечение двух окон (может оказаться пустым)
func (w TimeWindow) Intersect(other TimeWindow) TimeWindow {
	result := w
	if other.Start.After(result.Start) {
		result.Start = other.Start
	}
	if other.End.Before(result.End) {
		result.End = other.End
	}
	return result
}

// CommitmentQuery параметры выборки занятости одного ресурса
type CommitmentQuery struct {
	CompanyID  string
	ResourceID string
	Window     TimeWindow
}
