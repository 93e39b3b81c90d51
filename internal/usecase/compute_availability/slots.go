package compute_availability

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// enumerateSlots генерирует кандидатов для одного сотрудника с шагом domain.SlotGranularity
//
// Окно поиска обрезается горизонтом бронирования [now+min, now+max].
// Дни перебираются в часовом поясе компании; нерабочие дни пропускаются.
// Первый кандидат дня: max(открытие + буфер до, начало горизонта), округлённый вверх до сетки.
// Кандидат не выходит за закрытие и за конец горизонта.
func enumerateSlots(
	resourceID string,
	durationMinutes int,
	window domain.TimeWindow,
	p *domain.SchedulingPolicy,
	now time.Time,
) []domain.CandidateSlot {
	slots := make([]domain.CandidateSlot, 0)

	horizon := p.BookingHorizon(now).Intersect(window)
	if horizon.IsEmpty() {
		return slots
	}

	duration := time.Duration(durationMinutes) * time.Minute
	loc := p.Location

	// Дни считаются от местного полудня: переходы на летнее время его не затрагивают
	first := horizon.Start.In(loc)
	last := horizon.End.In(loc)
	day := time.Date(first.Year(), first.Month(), first.Day(), 12, 0, 0, 0, loc)
	lastDay := time.Date(last.Year(), last.Month(), last.Day(), 12, 0, 0, 0, loc)

	for ; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		if !p.WorksOn(day.Weekday()) {
			continue
		}

		y, m, d := day.Date()
		open, closeAt := p.BusinessHoursOn(y, m, d)

		start := open.Add(p.BufferBefore())
		if start.Before(horizon.Start) {
			start = horizon.Start
		}
		start = ceilToGrid(start, loc)

		for end := start.Add(duration); !end.After(closeAt) && !end.After(horizon.End); end = start.Add(duration) {
			slots = append(slots, domain.CandidateSlot{
				ResourceID:      resourceID,
				Start:           start.UTC(),
				End:             end.UTC(),
				DurationMinutes: durationMinutes,
			})
			start = start.Add(domain.SlotGranularity)
		}
	}

	return slots
}

// ceilToGrid округляет момент вверх до ближайшей границы сетки в местном времени (8:07 -> 8:15)
func ceilToGrid(t time.Time, loc *time.Location) time.Time {
	_, offset := t.In(loc).Zone()
	shift := time.Duration(offset) * time.Second

	// Truncate работает от нулевого момента UTC: сдвигаем на смещение пояса, чтобы сетка была местной
	local := t.Add(shift)
	rounded := local.Truncate(domain.SlotGranularity)
	if rounded.Before(local) {
		rounded = rounded.Add(domain.SlotGranularity)
	}

	return rounded.Add(-shift)
}
