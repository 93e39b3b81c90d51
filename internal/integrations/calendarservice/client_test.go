package calendarservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

const employeeID = "0c9a4f5e-1d2b-4a6c-8e7f-9a0b1c2d3e4f"

func testQuery() domain.CommitmentQuery {
	return domain.CommitmentQuery{
		ResourceID: employeeID,
		Window: domain.TimeWindow{
			Start: time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestClientFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/employees/"+employeeID+"/busy", r.URL.Path)
		assert.Equal(t, "2026-03-02T00:00:00Z", r.URL.Query().Get("from"))
		assert.Equal(t, "2026-03-03T00:00:00Z", r.URL.Query().Get("to"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"employee_id":"` + employeeID + `","busy":[{"id":"gcal-1","start":"2026-03-02T09:00:00-05:00","end":"2026-03-02T10:00:00-05:00"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, logger.NewNop())

	got, err := client.Fetch(context.Background(), testQuery())
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "gcal-1", got[0].ID)
	assert.Equal(t, time.Date(2026, time.March, 2, 14, 0, 0, 0, time.UTC), got[0].Start)
	assert.Equal(t, time.UTC, got[0].End.Location())
	assert.Equal(t, domain.SourceExternalCalendar, got[0].Source)
}

func TestClientFetchNotConnected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, logger.NewNop())

	got, err := client.Fetch(context.Background(), testQuery())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClientFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"code":502,"message":"upstream calendar timeout"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, logger.NewNop())

	_, err := client.Fetch(context.Background(), testQuery())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "upstream calendar timeout")
}

func TestClientFetchInvalidBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, logger.NewNop())

	_, err := client.Fetch(context.Background(), testQuery())
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClientFetchCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Fetch(ctx, testQuery())
	assert.ErrorIs(t, err, context.Canceled)
}
