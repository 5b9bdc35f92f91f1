package scraper

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

type Client struct {
	http *resty.Client // Underlying resty client, retries disabled.
}

// NewClient constructs a Client with sane Transport defaults suitable for
// scraping workloads.
//
// Parameters:
//   - timeout: per-request deadline; zero means the request may block
//     until the server answers or ctx is canceled.
//   - userAgent: value for the "User-Agent" header (empty string disables it).
//
// The returned Client uses an http.Transport with connection pooling, TLS >= 1.2,
// and reasonable dial/handshake timeouts. Requests are never retried.
func NewClient(timeout time.Duration, userAgent string) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		Proxy:               http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
	}
	rc := resty.New().
		SetTransport(transport).
		SetTimeout(timeout).
		SetRetryCount(0)
	if userAgent != "" {
		rc.SetHeader("User-Agent", userAgent)
	}
	return &Client{http: rc}
}

// Get performs a single HTTP GET and returns the response body and its
// Content-Type header if the status code is 2xx. Non-2xx responses return
// an error whose message is the HTTP status line (e.g., "404 Not Found").
func (c *Client) Get(ctx context.Context, url string) ([]byte, string, error) {
	response, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, "", err
	}
	if !response.IsSuccess() {
		return nil, "", errors.New(response.Status())
	}
	return response.Body(), response.Header().Get("Content-Type"), nil
}
