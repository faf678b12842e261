package infrastructure

import (
	"context"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/pkg/errors"
	"github.com/sony/gobreaker/v2"
)

// ResilientClient wraps an HTTP client with bounded exponential-backoff
// retries and a circuit breaker. Server errors and transport failures count
// against the breaker; 4xx responses are returned to the caller untouched.
type ResilientClient struct {
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker[*http.Response]
	maxTries uint
}

// NewResilientClient creates a ResilientClient. The breaker opens after three
// consecutive failures and probes again after 30 seconds.
func NewResilientClient(name string, timeout time.Duration, maxTries uint) *ResilientClient {
	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &ResilientClient{
		client:   &http.Client{Timeout: timeout},
		breaker:  breaker,
		maxTries: maxTries,
	}
}

// Get performs a GET request against the given URL, retrying transient
// failures. An open breaker fails fast without burning retry attempts.
func (c *ResilientClient) Get(ctx context.Context, url string) (*http.Response, error) {
	operation := func() (*http.Response, error) {
		res, err := c.breaker.Execute(func() (*http.Response, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return nil, err
			}

			res, err := c.client.Do(req)
			if err != nil {
				return nil, err
			}

			if res.StatusCode >= http.StatusInternalServerError {
				res.Body.Close()
				return nil, errors.Errorf("upstream returned %s", res.Status)
			}

			return res, nil
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return nil, backoff.Permanent(err)
			}
			if ctx.Err() != nil {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}

		return res, nil
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.maxTries),
	)
}
