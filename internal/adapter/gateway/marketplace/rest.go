package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tradeforge/listsync/internal/pkg/backoff"
	"github.com/tradeforge/listsync/internal/pkg/dispatch"
)

type Options struct {
	Timeout    time.Duration // per-request
	Retries    int           // extra attempts (0 => no retry)
	BackoffMin time.Duration
	BackoffMax time.Duration
	UserAgent  string
}

func DefaultOptionsFromEnv() Options {
	parseDur := func(k string, d time.Duration) time.Duration {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			if x, err := time.ParseDuration(v); err == nil {
				return x
			}
		}
		return d
	}
	parseInt := func(k string, d int) int {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			if x, err := strconv.Atoi(v); err == nil {
				return x
			}
		}
		return d
	}
	ua := os.Getenv("HTTP_USER_AGENT")
	if ua == "" {
		ua = "listsync (+https://github.com/tradeforge/listsync)"
	}
	return Options{
		Timeout:    parseDur("HTTP_TIMEOUT", 8*time.Second),
		Retries:    parseInt("HTTP_RETRIES", 2),
		BackoffMin: parseDur("HTTP_BACKOFF_MIN", 200*time.Millisecond),
		BackoffMax: parseDur("HTTP_BACKOFF_MAX", 3*time.Second),
		UserAgent:  ua,
	}
}

type restClient struct {
	base  string
	token string
	opts  Options
	hc    *http.Client
}

func newREST(base, token string, opts Options) *restClient {
	return &restClient{
		base:  strings.TrimRight(base, "/"),
		token: token,
		opts:  opts,
		hc: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				DialContext:     (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
				MaxIdleConns:    100,
				IdleConnTimeout: 90 * time.Second,
			},
		},
	}
}

func (c *restClient) getJSON(ctx context.Context, path string, q url.Values, v any) error {
	return c.do(ctx, http.MethodGet, path, q, nil, v)
}

func (c *restClient) postJSON(ctx context.Context, path string, body, v any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, v)
}

func (c *restClient) do(ctx context.Context, method, path string, q url.Values, body, v any) error {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	bo := &backoff.Backoff{Min: c.opts.BackoffMin, Max: c.opts.BackoffMax}
	var lastErr error
	for attempt := 0; attempt <= c.opts.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(bo.Next()):
			}
		}

		var rd io.Reader
		if payload != nil {
			rd = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, rd)
		if err != nil {
			return err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Token "+c.token)
		}
		if c.opts.UserAgent != "" {
			req.Header.Set("User-Agent", c.opts.UserAgent)
		}

		res, err := c.hc.Do(req)
		if err != nil {
			lastErr = err
			continue // transport errors are worth another try
		}

		if res.StatusCode == http.StatusTooManyRequests {
			if d := backoff.FromRetryAfter(res.Header.Get("Retry-After")); d > 0 {
				res.Body.Close()
				lastErr = fmt.Errorf("%s %s: %w", method, path, dispatch.ErrThrottled)
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(d):
				}
				continue
			}
			res.Body.Close()
			lastErr = fmt.Errorf("%s %s: %w", method, path, dispatch.ErrThrottled)
			continue
		}
		if res.StatusCode >= 500 {
			b, _ := io.ReadAll(res.Body)
			res.Body.Close()
			lastErr = fmt.Errorf("%s %s: http %d: %s", method, path, res.StatusCode, string(b))
			continue
		}
		if res.StatusCode >= 300 {
			b, _ := io.ReadAll(res.Body)
			res.Body.Close()
			return fmt.Errorf("%s %s: http %d: %s", method, path, res.StatusCode, string(b))
		}

		if v == nil {
			io.Copy(io.Discard, res.Body)
			res.Body.Close()
			return nil
		}
		err = json.NewDecoder(res.Body).Decode(v)
		res.Body.Close()
		return err
	}
	return lastErr
}
