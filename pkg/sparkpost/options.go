package sparkpost

import (
	"net/http"
	"time"
)

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
// Useful for custom transports, proxies, or testing.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithTimeout sets the per-request timeout.
// Default is 30 seconds if not specified.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.client.Timeout = timeout
		}
	}
}

// WithHeader adds an extra header to every outbound API request.
// Standard headers like Content-Type and Authorization are set automatically.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		if key == "" || value == "" {
			return
		}
		if c.cfg.Headers == nil {
			c.cfg.Headers = make(map[string]string)
		}
		c.cfg.Headers[key] = value
	}
}

// WithHeaders adds multiple extra headers to every outbound API request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			WithHeader(k, v)(c)
		}
	}
}
