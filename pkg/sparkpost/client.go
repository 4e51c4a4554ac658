package sparkpost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrymomot/mailkit/pkg/mail"
)

// redactedPlaceholder replaces the API key wherever it appears in error
// output so credentials never leak into logs or exception trackers.
const redactedPlaceholder = "[FILTERED]"

// Client sends email through the SparkPost transmissions API.
// Zero value is not usable; use New to create instances.
type Client struct {
	cfg Config
	// client is reused across requests for connection pooling
	client *http.Client
}

var _ mail.Sender = (*Client)(nil)

// SendResult is the per-transmission summary SparkPost returns on success.
type SendResult struct {
	ID                      string `json:"id"`
	TotalAcceptedRecipients int    `json:"total_accepted_recipients"`
	TotalRejectedRecipients int    `json:"total_rejected_recipients"`
}

// New creates a SparkPost-backed sender. The API key is required and
// validated up front so misconfiguration surfaces at startup instead of
// on the first send.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: APIKey is required", ErrInvalidConfig)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: BaseURL must use http or https", ErrInvalidConfig)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: BaseURL host is required", ErrInvalidConfig)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	c := &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// MustNew creates a SparkPost client that panics on invalid config.
// Follows the fail-fast pattern for service initialization.
func MustNew(cfg Config, opts ...Option) *Client {
	client, err := New(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

// Send implements mail.Sender, discarding the transmission summary.
func (c *Client) Send(ctx context.Context, msg *mail.Message) error {
	_, err := c.SendTransmission(ctx, msg)
	return err
}

// SendTransmission validates the message, maps it onto the transmissions
// payload, and performs a single POST. There are no retries; reliability
// concerns belong to the caller.
func (c *Client) SendTransmission(ctx context.Context, msg *mail.Message) (*SendResult, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(buildTransmission(msg))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal payload: %v", ErrSendFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/transmissions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrSendFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.cfg.APIKey)
	req.Header.Set("User-Agent", "mailkit-sparkpost/1.0")
	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSendFailed, c.redact(err.Error()))
	}
	defer func() { _ = resp.Body.Close() }()

	// 64KB limit prevents memory exhaustion from hostile responses
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyStr := strings.ReplaceAll(string(body), "\n", " ")
		return nil, fmt.Errorf("%w: unexpected status %d: %s", ErrSendFailed, resp.StatusCode, c.redact(bodyStr))
	}

	// Some gateways answer 2xx with an empty or non-standard body;
	// treat the summary as best-effort on success.
	res := &SendResult{}
	if len(body) > 0 {
		var envelope struct {
			Results *SendResult `json:"results"`
		}
		if jsonErr := json.Unmarshal(body, &envelope); jsonErr == nil && envelope.Results != nil {
			res = envelope.Results
		}
	}
	return res, nil
}

// redact replaces the configured API key in s with a fixed placeholder.
func (c *Client) redact(s string) string {
	if c.cfg.APIKey == "" {
		return s
	}
	return strings.ReplaceAll(s, c.cfg.APIKey, redactedPlaceholder)
}
