package compute_availability

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/commitments"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

const (
	companyID = "5b1f7c3e-8f6d-4c1e-9a3b-2d4e6f8a0b1c"
	employee1 = "0c9a4f5e-1d2b-4a6c-8e7f-9a0b1c2d3e4f"
	employee2 = "7d3b2a1c-6e5f-4a8b-9c0d-1e2f3a4b5c6d"
)

// monday 2 марта 2026, UTC
var monday = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func mondayAt(h, m int) time.Time {
	return monday.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

type stubResolver struct {
	policy *domain.SchedulingPolicy
	err    error
}

func (s *stubResolver) Resolve(_ context.Context, _ string) (*domain.SchedulingPolicy, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.policy, nil
}

type stubLoader struct {
	mu      sync.Mutex
	results map[string]*commitments.LoadResult
	err     error
	queries []domain.CommitmentQuery
}

func (s *stubLoader) Load(_ context.Context, q domain.CommitmentQuery) (*commitments.LoadResult, error) {
	s.mu.Lock()
	s.queries = append(s.queries, q)
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	if res, ok := s.results[q.ResourceID]; ok {
		return res, nil
	}
	return &commitments.LoadResult{Commitments: []domain.Commitment{}}, nil
}

type stubMetrics struct {
	mu             sync.Mutex
	outcomes       []string
	slotCounts     []int
	sourceFailures map[string]int
}

func (m *stubMetrics) ObserveAvailability(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

func (m *stubMetrics) ObserveResourceSlots(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slotCounts = append(m.slotCounts, count)
}

func (m *stubMetrics) IncSourceFailure(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sourceFailures == nil {
		m.sourceFailures = make(map[string]int)
	}
	m.sourceFailures[source]++
}

// basePolicy 09:00-17:00, пн-пт, без буферов, 480 минут в день, UTC
func basePolicy() *domain.SchedulingPolicy {
	return &domain.SchedulingPolicy{
		CompanyID:              companyID,
		JobBufferMinutes:       30,
		BusinessHoursStart:     types.MustParseTimeOfDay("09:00"),
		BusinessHoursEnd:       types.MustParseTimeOfDay("17:00"),
		WorkingDays:            []int{1, 2, 3, 4, 5},
		MinAdvanceBookingHours: 1,
		MaxAdvanceBookingDays:  90,
		CapacityMinutesPerDay:  480,
		Timezone:               "UTC",
		Location:               time.UTC,
	}
}

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func commitment(id string, start, end time.Time) domain.Commitment {
	return domain.Commitment{ID: id, Start: start, End: end, Source: domain.SourceScheduleEvent}
}

func starts(slots []domain.CandidateSlot) []string {
	result := make([]string, 0, len(slots))
	for _, s := range slots {
		result = append(result, s.Start.Format("15:04"))
	}
	return result
}

func mustTime(t *testing.T, s string) types.TimeOfDay {
	t.Helper()
	tod, err := types.ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}
