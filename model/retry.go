package model

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"time"
)

const defaultMaxAttempts = 5

// Response is the terminal outcome of a resilient call: a 2xx status and
// the raw body.
type Response struct {
	StatusCode int
	Body       []byte
}

// RequestError is a terminal non-2xx upstream reply. Rate-limit replies
// only become a RequestError once the attempt budget is exhausted.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Body)
}

func (e *RequestError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// Caller wraps a single JSON POST with a bounded retry budget. Rate-limit
// replies back off exponentially with jitter, transport failures re-attempt
// the whole call, and every other non-2xx status is terminal on the spot.
// Each call carries its own budget; nothing is shared between calls.
type Caller struct {
	hc          *http.Client
	maxAttempts int
	logger      *slog.Logger

	// sleep is swapped out in tests so retries do not take real time.
	sleep func(context.Context, time.Duration) error
}

func NewCaller(maxAttempts int) *Caller {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &Caller{
		hc:          &http.Client{Timeout: 60 * time.Second},
		maxAttempts: maxAttempts,
		logger:      slog.Default(),
		sleep:       waitCtx,
	}
}

// PostJSON issues the call, retrying per the policy above. After the final
// attempt a transport failure is returned verbatim so the caller sees the
// root cause instead of a generic retry error.
func (c *Caller) PostJSON(ctx context.Context, url string, body []byte, headers map[string]string) (*Response, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		resp, err := c.post(ctx, url, body, headers)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			c.logger.Warn("llm.request.transport_error", "attempt", attempt, "error", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < c.maxAttempts {
			delay := backoffDelay(attempt)
			c.logger.Warn("llm.request.rate_limited",
				"attempt", attempt,
				"delay_ms", delay.Milliseconds(),
			)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode/100 != 2 {
			return nil, &RequestError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
		}
		return resp, nil
	}
	return nil, lastErr
}

func (c *Caller) post(ctx context.Context, url string, body []byte, headers map[string]string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: resp.StatusCode, Body: raw}, nil
}

// backoffDelay is an exponential base of 2^attempt seconds plus up to one
// second of random jitter, so callers sharing a rate limit do not retry
// in lockstep.
func backoffDelay(attempt int) time.Duration {
	base := time.Duration(1<<attempt) * time.Second
	return base + time.Duration(rand.Int63n(int64(time.Second)))
}

func waitCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
