package whttp

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Header is a single request header.
type Header struct {
	Name  string
	Value string
}

// Request describes an outgoing provider call. Params are appended to the
// URL as an encoded query string.
type Request struct {
	Method  string
	URL     string
	Params  url.Values
	Headers []Header
}

// Response carries what adapters need from a provider reply.
type Response struct {
	StatusCode int
	Body       string
}

var (
	defaultClient     *retryablehttp.Client
	defaultClientOnce sync.Once
)

// DefaultClient returns the shared retrying client used by all adapters.
// Retries are capped so a flapping provider still resolves well inside the
// per-provider timeout.
func DefaultClient() *retryablehttp.Client {
	defaultClientOnce.Do(func() {
		defaultClient = retryablehttp.NewClient()
		defaultClient.RetryMax = 2
		defaultClient.RetryWaitMin = 200 * time.Millisecond
		defaultClient.RetryWaitMax = 2 * time.Second
		defaultClient.HTTPClient.Timeout = 15 * time.Second
		defaultClient.Logger = nil
	})
	return defaultClient
}

// Send performs the request under ctx and reads the full body. A nil client
// uses DefaultClient. Cancellation and deadline expiry surface as the
// context's error.
func Send(ctx context.Context, req *Request, client *retryablehttp.Client) (*Response, error) {
	if client == nil {
		client = DefaultClient()
	}

	target := req.URL
	if len(req.Params) > 0 {
		target += "?" + req.Params.Encode()
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	hreq, err := retryablehttp.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, err
	}

	hreq.Header.Set("Accept", "application/json")
	hreq.Header.Set("Accept-Language", "en")
	for _, h := range req.Headers {
		hreq.Header.Add(h.Name, h.Value)
	}

	resp, err := client.Do(hreq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{StatusCode: resp.StatusCode, Body: string(body)}, nil
}
