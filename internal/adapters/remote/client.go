// Package remote provides a resilient client for the remote usage store
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	perr "chattally/internal/platform/errors"
	"chattally/internal/platform/logger"
	usagedom "chattally/internal/services/usage/domain"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUA        = "chattally-trackerd"
	defaultMaxRetry  = 3
	defaultRetryBase = 500 * time.Millisecond
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// Shared token sent as X-Auth-Token on every request
	Token string

	// Retry config for transient responses
	MaxRetries int
	RetryBase  time.Duration
}

// Client talks to the remote usage store over its small REST surface
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(time.Duration)
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("remote"),
		now:   time.Now,
		sleep: time.Sleep,
	}
}

func (c *Client) monthURL(subjectID, period string) string {
	return c.opts.BaseURL + "/data/" + url.PathEscape(subjectID) +
		"?period=" + url.QueryEscape(period)
}

// Fetch pulls one subject's month from the remote store. Absent data (404)
// and exhausted transport errors both come back as found=false with a nil
// error: the caller treats the remote as best-effort
func (c *Client) Fetch(ctx context.Context, subjectID, period string) (usagedom.MonthData, bool, error) {
	resp, err := c.do(ctx, http.MethodGet, c.monthURL(subjectID, period), nil)
	if err != nil {
		c.log.Warn().Err(err).Str("subject_id", subjectID).Str("period", period).
			Msg("remote fetch failed, treating as no data")
		return usagedom.MonthData{}, false, nil
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		// responses arrive in the standard envelope
		var env struct {
			Data usagedom.MonthData `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			c.log.Warn().Err(err).Str("subject_id", subjectID).
				Msg("remote payload undecodable, treating as no data")
			return usagedom.MonthData{}, false, nil
		}
		return env.Data, true, nil
	case http.StatusNotFound:
		return usagedom.MonthData{}, false, nil
	default:
		c.log.Warn().Int("status", resp.StatusCode).Str("subject_id", subjectID).
			Msg("remote fetch unexpected status, treating as no data")
		return usagedom.MonthData{}, false, nil
	}
}

// Push replaces one subject's month on the remote store
func (c *Client) Push(ctx context.Context, subjectID, period string, data usagedom.MonthData) error {
	body, err := json.Marshal(data)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "encode month dump")
	}
	resp, err := c.do(ctx, http.MethodPost, c.monthURL(subjectID, period), body)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "remote push failed")
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return perr.Newf(perr.ErrorCodeUnavailable, "remote push status %d", resp.StatusCode)
	}
	return nil
}

// do issues one request with auth headers and bounded retries on transport
// errors and 5xx responses
func (c *Client) do(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		var rd io.Reader
		if body != nil {
			rd = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, rd)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "remote new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.opts.Token != "" {
			req.Header.Set("X-Auth-Token", c.opts.Token)
		}

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err == nil && resp.StatusCode < 500 {
			c.log.Debug().
				Str("method", method).
				Int("status", resp.StatusCode).
				Dur("latency", lat).
				Msg("remote response")
			return resp, nil
		}
		if resp != nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}
		if attempts >= c.opts.MaxRetries {
			if err != nil {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "remote do failed")
			}
			return nil, perr.Newf(perr.ErrorCodeUnavailable, "remote status %d after %d attempts",
				resp.StatusCode, attempts+1)
		}
		back := c.opts.RetryBase * time.Duration(1<<attempts)
		c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("remote error retrying")
		c.sleep(back)
		attempts++
	}
}
