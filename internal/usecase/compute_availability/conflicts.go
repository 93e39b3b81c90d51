package compute_availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// interval полуоткрытый интервал [start, end)
type interval struct {
	start time.Time
	end   time.Time
}

// dayLedger учёт занятого времени одного сотрудника по календарным дням в поясе компании
//
// Занятость дня считается как объединение интервалов: существующие обязательства, обрезанные
// границами дня, плюс уже принятые кандидаты. Создаётся на один проход одного сотрудника.
type dayLedger struct {
	loc         *time.Location
	capacity    time.Duration
	commitments []domain.Commitment
	days        map[string][]interval
}

func newDayLedger(commitments []domain.Commitment, loc *time.Location, capacity time.Duration) *dayLedger {
	return &dayLedger{
		loc:         loc,
		capacity:    capacity,
		commitments: commitments,
		days:        make(map[string][]interval),
	}
}

// fits возвращает true, если после добавления слота занятость дня не превысит capacity
func (l *dayLedger) fits(slot domain.CandidateSlot) bool {
	booked := l.day(slot.Start)

	withSlot := make([]interval, 0, len(booked)+1)
	withSlot = append(withSlot, booked...)
	withSlot = append(withSlot, interval{start: slot.Start, end: slot.End})

	return unionLength(withSlot) <= l.capacity
}

// book фиксирует принятый слот в учёте его дня
func (l *dayLedger) book(slot domain.CandidateSlot) {
	key := l.key(slot.Start)
	l.days[key] = append(l.day(slot.Start), interval{start: slot.Start, end: slot.End})
}

func (l *dayLedger) key(t time.Time) string {
	return t.In(l.loc).Format(domain.DateFormat)
}

// day возвращает занятость календарного дня, при первом обращении заполняя её обязательствами
func (l *dayLedger) day(t time.Time) []interval {
	key := l.key(t)
	if booked, ok := l.days[key]; ok {
		return booked
	}

	local := t.In(l.loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, l.loc)
	dayEnd := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, l.loc)

	booked := make([]interval, 0)
	for _, c := range l.commitments {
		if !c.Start.Before(dayEnd) || !c.End.After(dayStart) {
			continue
		}
		start, end := c.Start, c.End
		if start.Before(dayStart) {
			start = dayStart
		}
		if end.After(dayEnd) {
			end = dayEnd
		}
		booked = append(booked, interval{start: start, end: end})
	}

	l.days[key] = booked
	return booked
}

// unionLength суммарная длина объединения интервалов (пересечения не считаются дважды)
func unionLength(intervals []interval) time.Duration {
	if len(intervals) == 0 {
		return 0
	}

	sorted := make([]interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].start.Before(sorted[j].start)
	})

	var total time.Duration
	current := sorted[0]
	for _, iv := range sorted[1:] {
		if !iv.start.After(current.end) {
			if iv.end.After(current.end) {
				current.end = iv.end
			}
			continue
		}
		total += current.end.Sub(current.start)
		current = iv
	}
	total += current.end.Sub(current.start)

	return total
}

// hasConflict проверяет пересечение слота с обязательствами, расширенными буферами
// Буферы расширяют существующее обязательство, а не кандидата; касание границ не конфликт
// commitments должны быть отсортированы по началу
func hasConflict(slot domain.CandidateSlot, commitments []domain.Commitment, before, after time.Duration) bool {
	for _, c := range commitments {
		paddedStart := c.Start.Add(-before)
		if !paddedStart.Before(slot.End) {
			// дальше обязательства начинаются только позже
			return false
		}
		if slot.Start.Before(c.End.Add(after)) {
			return true
		}
	}
	return false
}

// filterSlots отбирает кандидатов в хронологическом порядке: сначала пересечения, затем лимит дня
// Отклонённый кандидат на учёт дня не влияет
func filterSlots(candidates []domain.CandidateSlot, commitments []domain.Commitment, p *domain.SchedulingPolicy) []domain.CandidateSlot {
	ledger := newDayLedger(commitments, p.Location, p.Capacity())
	accepted := make([]domain.CandidateSlot, 0)

	for _, slot := range candidates {
		if hasConflict(slot, commitments, p.BufferBefore(), p.BufferAfter()) {
			continue
		}
		if !ledger.fits(slot) {
			continue
		}
		ledger.book(slot)
		accepted = append(accepted, slot)
	}

	return accepted
}
