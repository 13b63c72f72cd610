// Package rest issues well-formed calls against the LIMS HTTP API and
// maps responses onto typed results and the package's error taxonomy.
// It owns no protocol semantics beyond that: resources are collection
// paths, records are JSON, and the server is authoritative.
package rest

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog"
)

const (
	apiPrefix       = "/api/v1"
	requestIDHeader = "X-Request-ID"

	defaultTimeout   = 30 * time.Second
	defaultRetryWait = 250 * time.Millisecond
)

// Config carries the transport policy for a client.
type Config struct {
	// BaseURL is the API address, e.g. http://lims.lab:8080.
	BaseURL string
	// Timeout bounds each request. Zero means 30 seconds.
	Timeout time.Duration
	// RetryCount is how many times a failed read is retried. Reads
	// only: mutations never retry automatically, whatever the count.
	RetryCount int
	// RetryWait is the pause before a retry. Zero means 250ms.
	RetryWait time.Duration
}

// Client is a LIMS API client. Construct it once and share it; it is
// safe for concurrent use.
type Client struct {
	http *resty.Client
	log  zerolog.Logger
}

// NewClient builds a client from the config. Every request gets a
// generated X-Request-ID header and a debug log line with its outcome
// and elapsed time.
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = defaultRetryWait
	}

	log := logger.With().Str("component", "rest").Logger()

	hc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		AddRetryCondition(retryReadsOnly)

	hc.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if id, err := uuid.NewV4(); err == nil {
			req.SetHeader(requestIDHeader, id.String())
		}
		return nil
	})

	hc.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		log.Debug().
			Str("method", resp.Request.Method).
			Str("url", resp.Request.URL).
			Int("status", resp.StatusCode()).
			Dur("elapsed", resp.Time()).
			Str("request_id", resp.Request.Header.Get(requestIDHeader)).
			Msg("api request")
		return nil
	})

	return &Client{http: hc, log: log}, nil
}

// BaseURL returns the configured API address.
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

// retryReadsOnly confines automatic retries to idempotent reads that
// hit a transport failure or a server-side error. A mutation that
// failed may still have been applied, so firing it again risks
// duplicate writes.
func retryReadsOnly(resp *resty.Response, err error) bool {
	if resp == nil || resp.Request == nil {
		return err != nil
	}
	if resp.Request.Method != http.MethodGet {
		return false
	}
	return err != nil || resp.StatusCode() >= http.StatusInternalServerError
}

// request starts a request with the context and collected options
// applied.
func (c *Client) request(opts []Option) *resty.Request {
	ro := collectOptions(opts)
	req := c.http.R()
	if len(ro.include) > 0 {
		req.SetQueryParam("include", strings.Join(ro.include, ","))
	}
	for k, v := range ro.params {
		req.SetQueryParam(k, v)
	}
	return req
}

// interpret maps a completed exchange onto the error taxonomy. A nil
// return means the response was successful and any SetResult target is
// populated.
func (c *Client) interpret(resp *resty.Response, err error) error {
	if err != nil {
		// resty returns a nil response when the request never left
		// the client, e.g. an unparsable URL.
		re := &RequestError{Err: err}
		if resp != nil && resp.Request != nil {
			re.Method = resp.Request.Method
			re.URL = resp.Request.URL
		}
		return re
	}
	if resp.IsSuccess() {
		return nil
	}
	if resp.StatusCode() == http.StatusNotFound {
		return ErrNotFound
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode(),
		RequestID:  resp.Request.Header.Get(requestIDHeader),
	}
	var body struct {
		Error string `json:"error"`
	}
	if jsonErr := json.Unmarshal(resp.Body(), &body); jsonErr == nil && body.Error != "" {
		apiErr.Message = body.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(resp.Body()))
	}
	return apiErr
}

// Option tunes a single request.
type Option func(*requestOptions)

type requestOptions struct {
	include []string
	params  map[string]string
}

// WithInclude requests denormalized related records inline, by their
// relationship wire names. Names join into one comma-separated include
// query parameter.
func WithInclude(relations ...string) Option {
	return func(ro *requestOptions) {
		ro.include = append(ro.include, relations...)
	}
}

// WithParam sets an arbitrary query parameter on the request.
func WithParam(key, value string) Option {
	return func(ro *requestOptions) {
		if ro.params == nil {
			ro.params = make(map[string]string)
		}
		ro.params[key] = value
	}
}

func collectOptions(opts []Option) requestOptions {
	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}
	return ro
}
