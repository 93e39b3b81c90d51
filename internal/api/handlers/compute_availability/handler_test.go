package compute_availability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	computeAvailability "github.com/m04kA/SMC-SchedulingService/internal/usecase/compute_availability"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

const (
	companyID = "5b1f7c3e-8f6d-4c1e-9a3b-2d4e6f8a0b1c"
	employee1 = "0c9a4f5e-1d2b-4a6c-8e7f-9a0b1c2d3e4f"
	employee2 = "7d3b2a1c-6e5f-4a8b-9c0d-1e2f3a4b5c6d"
)

type stubUseCase struct {
	resp *computeAvailability.Response
	err  error
	got  *computeAvailability.Request
	wait bool
}

func (s *stubUseCase) Execute(ctx context.Context, req *computeAvailability.Request) (*computeAvailability.Response, error) {
	s.got = req
	if s.wait {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.resp, s.err
}

func testPolicy() *domain.SchedulingPolicy {
	return &domain.SchedulingPolicy{
		CompanyID:              companyID,
		JobBufferMinutes:       30,
		BufferBeforeMinutes:    15,
		BufferAfterMinutes:     10,
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

func doRequest(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/availability", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func validBody() string {
	return `{
		"employeeIds": ["` + employee1 + `", "` + employee2 + `"],
		"durationMinutes": 60,
		"companyId": "` + companyID + `",
		"startDate": "2026-03-02T00:00:00Z",
		"endDate": "2026-03-03"
	}`
}

func TestHandleSuccess(t *testing.T) {
	start := time.Date(2026, time.March, 2, 9, 15, 0, 0, time.UTC)
	uc := &stubUseCase{resp: &computeAvailability.Response{
		Policy: testPolicy(),
		Window: domain.TimeWindow{
			Start: time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC),
		},
		Resources: []computeAvailability.ResourceAvailability{
			{
				ResourceID: employee1,
				Slots: []domain.CandidateSlot{
					{ResourceID: employee1, Start: start, End: start.Add(time.Hour), DurationMinutes: 60},
				},
			},
			{
				ResourceID: employee2,
				Slots:      []domain.CandidateSlot{},
				Failed:     true,
				Err:        &domain.SourceUnavailableError{ResourceID: employee2, Causes: map[domain.CommitmentSourceKind]error{domain.SourceWorkOrder: errors.New("timeout")}},
			},
		},
	}}
	h := NewHandler(uc, nil, time.Second, logger.NewNop())

	rec := doRequest(t, h, validBody())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	require.NotNil(t, uc.got)
	assert.Equal(t, []string{employee1, employee2}, uc.got.EmployeeIDs)
	assert.Equal(t, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC), uc.got.EndDate, "plain dates are midnight UTC")

	var resp AvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	ok := resp.Suggestions[employee1]
	require.NotNil(t, ok)
	assert.Equal(t, 1, ok.TotalAvailable)
	assert.Equal(t, AvailableSlot{
		StartTime:       "2026-03-02T09:15:00Z",
		EndTime:         "2026-03-02T10:15:00Z",
		DurationMinutes: 60,
		EmployeeID:      employee1,
		BufferBefore:    15,
		BufferAfter:     10,
		IsCleanInterval: true,
	}, ok.AvailableSlots[0])
	assert.False(t, ok.Failed)

	failed := resp.Suggestions[employee2]
	require.NotNil(t, failed)
	assert.True(t, failed.Failed)
	assert.Contains(t, failed.Error, "work_order")
	assert.Empty(t, failed.AvailableSlots)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, employee2, resp.Failures[0].EmployeeID)

	assert.Equal(t, "09:00", resp.Settings.BusinessHoursStart)
	assert.Equal(t, "UTC", resp.Settings.Timezone)
	assert.Equal(t, 480, resp.Settings.CapacityMinutesPerDay)
	assert.Equal(t, "2026-03-02T00:00:00Z", resp.SearchPeriod.Start)
	assert.Equal(t, "2026-03-03T00:00:00Z", resp.SearchPeriod.End)
}

func TestHandleBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{`},
		{name: "two objects", body: `{"employeeIds":["` + employee1 + `"],"durationMinutes":60,"companyId":"` + companyID + `","startDate":"2026-03-02","endDate":"2026-03-03"} {}`},
		{name: "no employees", body: `{"employeeIds":[],"durationMinutes":60,"companyId":"` + companyID + `","startDate":"2026-03-02","endDate":"2026-03-03"}`},
		{name: "employee not uuid", body: `{"employeeIds":["emp-1"],"durationMinutes":60,"companyId":"` + companyID + `","startDate":"2026-03-02","endDate":"2026-03-03"}`},
		{name: "zero duration", body: `{"employeeIds":["` + employee1 + `"],"durationMinutes":0,"companyId":"` + companyID + `","startDate":"2026-03-02","endDate":"2026-03-03"}`},
		{name: "bad date", body: `{"employeeIds":["` + employee1 + `"],"durationMinutes":60,"companyId":"` + companyID + `","startDate":"02/03/2026","endDate":"2026-03-03"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{}
			h := NewHandler(uc, nil, time.Second, logger.NewNop())

			rec := doRequest(t, h, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.got, "use case is not called")

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandleIgnoresUnknownFields(t *testing.T) {
	uc := &stubUseCase{resp: &computeAvailability.Response{
		Policy: testPolicy(),
		Window: domain.TimeWindow{
			Start: time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC),
		},
		Resources: []computeAvailability.ResourceAvailability{
			{ResourceID: employee1, Slots: []domain.CandidateSlot{}},
		},
	}}
	h := NewHandler(uc, nil, time.Second, logger.NewNop())

	body := `{"employeeIds":["` + employee1 + `"],"durationMinutes":60,"companyId":"` + companyID + `",` +
		`"startDate":"2026-03-02","endDate":"2026-03-03","source":"widget","locale":"en-US"}`
	rec := doRequest(t, h, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, []string{employee1}, uc.got.EmployeeIDs)
	assert.Equal(t, 60, uc.got.DurationMinutes)
}

func TestHandleUseCaseErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing timezone",
			err:        &domain.ConfigurationError{MissingField: "timezone"},
			wantStatus: http.StatusBadRequest,
			wantError:  "scheduling policy is not configured: timezone is missing, set it in company settings",
		},
		{
			name:       "invalid input",
			err:        errors.Join(computeAvailability.ErrInvalidInput, errors.New("duplicate employeeId")),
			wantStatus: http.StatusBadRequest,
		},
		{name: "unknown company", err: computeAvailability.ErrCompanyNotFound, wantStatus: http.StatusBadRequest, wantError: msgCompanyNotFound},
		{name: "internal", err: computeAvailability.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&stubUseCase{err: tt.err}, nil, time.Second, logger.NewNop())

			rec := doRequest(t, h, validBody())
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
			}
		})
	}
}

func TestHandleDeadline(t *testing.T) {
	h := NewHandler(&stubUseCase{wait: true}, nil, 20*time.Millisecond, logger.NewNop())

	rec := doRequest(t, h, validBody())
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestParseTimestamp(t *testing.T) {
	got, err := parseTimestamp("2026-03-02T09:00:00-05:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 2, 14, 0, 0, 0, time.UTC), got)

	got, err = parseTimestamp("2026-03-02T09:00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC), got)

	_, err = parseTimestamp("tomorrow")
	assert.Error(t, err)
}
