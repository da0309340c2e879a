// internal/common/gateway/client.go
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"business-console/internal/common/config"
	"business-console/internal/common/errors"
	"business-console/internal/common/logger"
	"business-console/internal/common/metrics"
)

// Service names one of the two backend base URLs.
type Service string

const (
	Primary   Service = "primary"
	Applicant Service = "applicant"
)

// Tracker is notified around every backend call.
type Tracker interface {
	Begin() func()
}

// Caller is the part of the gateway used by list loading and mutations.
type Caller interface {
	Call(ctx context.Context, svc Service, path, method string, body interface{}) (*Response, error)
}

// Uploader sends multipart documents.
type Uploader interface {
	Upload(ctx context.Context, svc Service, path, field, filename string, content io.Reader) (*Response, error)
}

type Options struct {
	BaseURLs   map[Service]string
	Headers    map[string]string
	Timeout    time.Duration
	Tracker    Tracker
	Logger     logger.Logger
	HTTPClient *http.Client
}

type Client struct {
	httpClient *http.Client
	baseURLs   map[Service]string
	headers    map[string]string
	tracker    Tracker
	logger     logger.Logger
}

func New(opts Options) (*Client, error) {
	bases := make(map[Service]string, len(opts.BaseURLs))
	for svc, raw := range opts.BaseURLs {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid base url for %s: %q", svc, raw)
		}
		bases[svc] = strings.TrimRight(raw, "/")
	}
	if _, ok := bases[Primary]; !ok {
		return nil, fmt.Errorf("base url for %s is required", Primary)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	headers := make(map[string]string, len(opts.Headers))
	for k, v := range opts.Headers {
		headers[k] = v
	}

	return &Client{
		httpClient: httpClient,
		baseURLs:   bases,
		headers:    headers,
		tracker:    opts.Tracker,
		logger:     log,
	}, nil
}

// NewFromConfig builds a client for the configured backend.
func NewFromConfig(cfg config.BackendConfig, tracker Tracker, log logger.Logger) (*Client, error) {
	return New(Options{
		BaseURLs: map[Service]string{
			Primary:   cfg.PrimaryURL,
			Applicant: cfg.ApplicantURL,
		},
		Headers: cfg.Headers,
		Timeout: config.GetDuration(cfg.Timeout),
		Tracker: tracker,
		Logger:  log,
	})
}

// BaseURL returns the base URL of svc, or "" when it is not configured.
func (c *Client) BaseURL(svc Service) string {
	return c.baseURLs[svc]
}

// Headers returns a copy of the header bundle attached to every request.
func (c *Client) Headers() map[string]string {
	out := make(map[string]string, len(c.headers))
	for k, v := range c.headers {
		out[k] = v
	}
	return out
}

// Call issues one request and returns the status with the raw JSON body.
// There is no retry: a transport failure returns a FETCH_ERROR immediately.
func (c *Client) Call(ctx context.Context, svc Service, path, method string, body interface{}) (*Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errors.NewInternalError(fmt.Errorf("marshal request body: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	contentType := ""
	if method != http.MethodGet {
		contentType = "application/json"
	}
	return c.do(ctx, svc, path, method, contentType, reader)
}

// Upload sends content as a single multipart file field using PATCH.
func (c *Client) Upload(ctx context.Context, svc Service, path, field, filename string, content io.Reader) (*Response, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("create form file: %w", err))
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("copy upload: %w", err))
	}
	if err := w.Close(); err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("close multipart writer: %w", err))
	}
	return c.do(ctx, svc, path, http.MethodPatch, w.FormDataContentType(), &buf)
}

func (c *Client) do(ctx context.Context, svc Service, path, method, contentType string, body io.Reader) (*Response, error) {
	base, ok := c.baseURLs[svc]
	if !ok {
		return nil, errors.NewInternalError(fmt.Errorf("unknown backend service %q", svc))
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	target := base + path

	if c.tracker != nil {
		done := c.tracker.Begin()
		defer done()
	}
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("build request: %w", err))
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	// The multipart boundary must survive a configured Content-Type.
	if strings.HasPrefix(contentType, "multipart/") {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(svc, method, 0, start)
		c.logger.Error("backend call failed", map[string]interface{}{
			"service": string(svc),
			"method":  method,
			"path":    path,
			"error":   err.Error(),
		})
		return nil, errors.NewFetchError(string(svc), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(svc, method, 0, start)
		return nil, errors.NewFetchError(string(svc), fmt.Errorf("read response: %w", err))
	}
	c.observe(svc, method, resp.StatusCode, start)

	out := &Response{Status: resp.StatusCode}
	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0:
	case json.Valid(trimmed):
		out.Body = json.RawMessage(trimmed)
	case out.OK():
		return nil, errors.NewFetchError(string(svc), fmt.Errorf("response from %s is not JSON", path))
	default:
		// Error pages from proxies in front of the backend are not JSON;
		// keep the status so the caller still sees the rejection.
	}

	c.logger.Debug("backend call completed", map[string]interface{}{
		"service": string(svc),
		"method":  method,
		"path":    path,
		"status":  resp.StatusCode,
	})
	return out, nil
}

func (c *Client) observe(svc Service, method string, status int, start time.Time) {
	metrics.BackendCallsTotal.WithLabelValues(string(svc), method, metrics.StatusClass(status)).Inc()
	metrics.BackendCallDuration.WithLabelValues(string(svc), method).Observe(time.Since(start).Seconds())
}
