package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultTimeout = 2500 * time.Millisecond
	DefaultRetries = 1

	maxErrorBodyBytes = 512
)

// Options bound a single logical fetch. Retries is the number of additional
// attempts after the first; each attempt gets its own Timeout. Zero means
// the default budget; pass a negative value for a single attempt.
type Options struct {
	Method  string
	Headers map[string]string
	Body    any
	Timeout time.Duration
	Retries int
}

// Client is the single outbound-request primitive. It knows nothing about
// the business meaning of the calls it makes; callers supply whatever
// header or field-mask conventions their upstream needs.
type Client struct {
	http   *http.Client
	logger *slog.Logger
}

func New(logger *slog.Logger) *Client {
	return &Client{
		// per-attempt deadlines come from Options.Timeout via context
		http:   &http.Client{},
		logger: logger,
	}
}

// FetchJSON performs the request and decodes a JSON response into out (out
// may be nil to discard the body). A non-2xx status fails the attempt. On
// failure it retries up to Options.Retries more times with no backoff and
// propagates the last error.
func (c *Client) FetchJSON(ctx context.Context, url string, opts Options, out any) error {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	retries := opts.Retries
	if retries == 0 {
		retries = DefaultRetries
	}
	if retries < 0 {
		retries = 0
	}

	var payload []byte
	if opts.Body != nil {
		b, err := json.Marshal(opts.Body)
		if err != nil {
			return errors.Wrap(err, "encode request body")
		}
		payload = b
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.attempt(ctx, method, url, opts.Headers, payload, timeout, out); err != nil {
			lastErr = err
			c.logger.Debug("fetch attempt failed",
				"url", url,
				"attempt", attempt,
				"error", err,
			)
			continue
		}
		return nil
	}
	return lastErr
}

func (c *Client) attempt(ctx context.Context, method, url string, headers map[string]string, payload []byte, timeout time.Duration, out any) error {
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(actx, method, url, body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBodyBytes))
		return errors.Errorf("HTTP %d: %s", res.StatusCode, bytes.TrimSpace(snippet))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response body")
	}
	return nil
}
