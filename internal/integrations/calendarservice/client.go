package calendarservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Client клиент для работы с CalendarService (внешние календари сотрудников)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента CalendarService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Kind тип источника занятости
func (c *Client) Kind() domain.CommitmentSourceKind {
	return domain.SourceExternalCalendar
}

// GetBusy получает интервалы занятости сотрудника в окне [from, to)
// 404 означает, что календарь сотрудника не подключен: занятости нет
func (c *Client) GetBusy(ctx context.Context, employeeID string, from, to time.Time) ([]BusyBlock, error) {
	params := url.Values{}
	params.Set("from", from.UTC().Format(time.RFC3339))
	params.Set("to", to.UTC().Format(time.RFC3339))

	endpoint := fmt.Sprintf("%s/internal/employees/%s/busy?%s", c.baseURL, url.PathEscape(employeeID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Отмену запроса вызывающей стороной не маскируем
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return []BusyBlock{}, nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: status code %d: %s", ErrUnavailable, resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var payload BusyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if payload.Busy == nil {
		return []BusyBlock{}, nil
	}
	return payload.Busy, nil
}

// Fetch адаптирует GetBusy к источнику занятости
func (c *Client) Fetch(ctx context.Context, q domain.CommitmentQuery) ([]domain.Commitment, error) {
	blocks, err := c.GetBusy(ctx, q.ResourceID, q.Window.Start, q.Window.End)
	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			c.log.Error("CalendarService request failed for employee_id=%s: %v", q.ResourceID, err)
		}
		return nil, err
	}

	commitments := make([]domain.Commitment, 0, len(blocks))
	for _, b := range blocks {
		commitments = append(commitments, domain.Commitment{
			ID:     b.ID,
			Start:  b.Start.UTC(),
			End:    b.End.UTC(),
			Source: domain.SourceExternalCalendar,
		})
	}

	c.log.Info("Fetched %d external busy blocks for employee_id=%s", len(commitments), q.ResourceID)
	return commitments, nil
}
