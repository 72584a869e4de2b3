package client

import (
	"net/http"
	"time"
)

// maxRetries bounds WithRetryMax so the doubling backoff in calculateBackoff
// cannot overflow.
const maxRetries = 10

// Option configures a Client created by NewClient.
type Option func(*Client)

// WithHTTPClient sends requests through httpClient. A nil client is ignored.
// Match runs over large models can take minutes, so keep the timeout generous.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger reports requests, retries and failures to logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRetryMax sets how often a request is retried after a network error, a
// 5xx answer or a 429 carrying Retry-After. Values outside 0..10 are ignored.
func WithRetryMax(retryMax int) Option {
	return func(c *Client) {
		if retryMax >= 0 && retryMax <= maxRetries {
			c.retryMax = retryMax
		}
	}
}

// WithRetryWait sets the first and the largest backoff between retries. The
// pair is applied only when 0 < min <= max.
func WithRetryWait(min, max time.Duration) Option {
	return func(c *Client) {
		if min > 0 && max >= min {
			c.retryWaitMin = min
			c.retryWaitMax = max
		}
	}
}

// WithUserAgent replaces the netmodel-go-sdk User-Agent. Empty is ignored.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithBooleanOnly sets boolean_only on every Match request that leaves
// BooleanOnly nil, overriding the server default. Compare takes the flag
// explicitly and is not affected.
func WithBooleanOnly(booleanOnly bool) Option {
	return func(c *Client) {
		c.booleanOnly = &booleanOnly
	}
}
