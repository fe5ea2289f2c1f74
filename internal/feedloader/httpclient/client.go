// Package httpclient provides the process-wide HTTP client the feed
// loader uses for every outbound request. It is a lazily initialized
// singleton: no per-request client construction, no dynamic
// reconfiguration once the first call builds it.
package httpclient

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"
)

const (
	userAgent             = "rss reader"
	defaultRequestTimeout = 10 * time.Second
	maxRedirects          = 10
)

var (
	once    sync.Once
	client  *http.Client
	timeout = defaultRequestTimeout
)

// Init overrides the client's request timeout. It must be called before
// the first Get, typically from main during startup; once the client is
// built the timeout is fixed for the process's lifetime.
func Init(requestTimeout time.Duration) {
	timeout = requestTimeout
}

// Get returns the shared client, building it on first use.
func Get() *http.Client {
	once.Do(func() {
		client = &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return errors.New("stopped after too many redirects")
				}
				return nil
			},
		}
	})
	return client
}

// UserAgent returns the fixed user-agent string every loader request sends.
func UserAgent() string {
	return userAgent
}

// NewRequest builds a context-bound request with the shared user-agent set.
func NewRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	return req, nil
}
