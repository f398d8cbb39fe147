// Package api implements a typed client for the Paperless REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rodstewart/paperless-cli/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// DefaultMaxPages caps how many pages one collection walk may request.
const DefaultMaxPages = 1000

// maxErrorBody bounds how much of an error response body is kept.
const maxErrorBody = 4096

// ErrDryRun is returned by the mutating primitives of a dry-run client after
// the request has been fully built. Nothing was sent.
var ErrDryRun = errors.New("dry-run: request built but not sent")

// Client is the Paperless API client. It is immutable once built and safe for
// concurrent use.
type Client struct {
	baseURL    string
	base       *url.URL
	token      string
	dryRun     bool
	rejectNoOp bool
	maxPages   int
	rewrite    RewriteFunc
	httpClient *http.Client
	fs         afero.Fs
	logger     zerolog.Logger
}

// Builder collects client settings. URL and token are required.
type Builder struct {
	url        string
	token      string
	dryRun     bool
	rejectNoOp bool
	maxPages   int
	rewrite    RewriteFunc
	httpClient *http.Client
	fs         afero.Fs
	logger     *zerolog.Logger
}

// NewBuilder returns a Builder with default settings.
func NewBuilder() *Builder {
	return &Builder{maxPages: DefaultMaxPages}
}

// SetURL sets the server base URL, e.g. https://paperless.example.com
func (b *Builder) SetURL(u string) *Builder {
	b.url = u
	return b
}

// SetToken sets the API token sent as "Authorization: Token <token>".
func (b *Builder) SetToken(token string) *Builder {
	b.token = token
	return b
}

// SetDryRun makes mutating calls build their request without sending it.
func (b *Builder) SetDryRun(dryRun bool) *Builder {
	b.dryRun = dryRun
	return b
}

// SetRejectNoOp makes resource operations fail with ErrNoOpRejected in
// dry-run mode instead of reporting a no-op success.
func (b *Builder) SetRejectNoOp(reject bool) *Builder {
	b.rejectNoOp = reject
	return b
}

// SetMaxPages sets the pagination safety cap. Zero or less disables it.
func (b *Builder) SetMaxPages(n int) *Builder {
	b.maxPages = n
	return b
}

// SetNextRewrite sets the rule applied to every next-page URL before it is
// requested. The default leaves URLs untouched.
func (b *Builder) SetNextRewrite(fn RewriteFunc) *Builder {
	b.rewrite = fn
	return b
}

// SetHTTPClient replaces the default HTTP client (30 second timeout).
func (b *Builder) SetHTTPClient(hc *http.Client) *Builder {
	b.httpClient = hc
	return b
}

// SetFS sets the filesystem uploads are read from. Defaults to the OS filesystem.
func (b *Builder) SetFS(fs afero.Fs) *Builder {
	b.fs = fs
	return b
}

// SetLogger sets the logger used by the client.
func (b *Builder) SetLogger(logger zerolog.Logger) *Builder {
	b.logger = &logger
	return b
}

// Build validates the settings and returns a client. Nothing is sent.
func (b *Builder) Build() (*Client, error) {
	var result *multierror.Error

	baseURL := strings.TrimSuffix(strings.TrimSpace(b.url), "/")
	var base *url.URL
	if baseURL == "" {
		result = multierror.Append(result, errors.New("base URL is required"))
	} else {
		u, err := url.Parse(baseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			result = multierror.Append(result, fmt.Errorf("base URL %q must be an absolute http(s) URL", b.url))
		} else {
			base = u
		}
	}
	if strings.TrimSpace(b.token) == "" {
		result = multierror.Append(result, errors.New("API token is required"))
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, &Error{Kind: KindIncompleteConfig, Err: err}
	}

	c := &Client{
		baseURL:    baseURL,
		base:       base,
		token:      b.token,
		dryRun:     b.dryRun,
		rejectNoOp: b.rejectNoOp,
		maxPages:   b.maxPages,
		rewrite:    b.rewrite,
		httpClient: b.httpClient,
		fs:         b.fs,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}
	if b.logger != nil {
		c.logger = *b.logger
	} else {
		c.logger = logging.NewLogger("paperless")
	}

	return c, nil
}

// BaseURL returns the server base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// DryRun reports whether mutating calls are suppressed.
func (c *Client) DryRun() bool {
	return c.dryRun
}

// newRequest builds an authenticated request for an absolute URL.
func (c *Client) newRequest(ctx context.Context, method, reqURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Method: method, URL: reqURL, Message: "failed to create request", Err: err}
	}

	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// send transmits req and converts connection failures and non-2xx responses
// into transport errors. The caller owns the returned body.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	requestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(req.Method, statusLabel(0)).Inc()
		return nil, &Error{
			Kind:    KindTransport,
			Method:  req.Method,
			URL:     req.URL.String(),
			Message: fmt.Sprintf("cannot connect to %s", c.baseURL),
			Err:     err,
		}
	}
	requestsTotal.WithLabelValues(req.Method, statusLabel(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.handleErrorResponse(req, resp)
	}
	return resp, nil
}

// handleErrorResponse converts an HTTP error response into a transport error
func (c *Client) handleErrorResponse(req *http.Request, resp *http.Response) error {
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var msg string
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		msg = "authentication failed, check your API token"
	case http.StatusForbidden:
		msg = "insufficient permissions for this operation"
	case http.StatusNotFound:
		msg = "not found"
	case http.StatusBadRequest:
		msg = "bad request"
	default:
		msg = "API error"
	}

	return &Error{
		Kind:       KindTransport,
		Method:     req.Method,
		URL:        req.URL.String(),
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
		Message:    msg,
	}
}

// gate stops a fully built mutating request when the client is in dry-run mode.
func (c *Client) gate(req *http.Request) error {
	if !c.dryRun {
		return nil
	}

	dryRunSuppressedTotal.WithLabelValues(req.Method).Inc()
	c.logger.Info().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Msg("Dry-run: request not sent")
	return ErrDryRun
}

// noOp is the outcome a resource operation reports for a suppressed request.
func (c *Client) noOp(method, path string) error {
	if c.rejectNoOp {
		return &Error{Kind: KindNoOpRejected, Method: method, URL: c.baseURL + path}
	}
	return nil
}

// Get sends an authenticated GET for a path relative to the base URL.
// Dry-run mode does not affect it.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.getURL(ctx, c.baseURL+path)
}

func (c *Client) getURL(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := c.newRequest(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	return c.send(req)
}

// getJSON fetches an absolute URL and decodes the JSON body into v.
func (c *Client) getJSON(ctx context.Context, reqURL string, v any) error {
	resp, err := c.getURL(ctx, reqURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &Error{
			Kind:       KindTransport,
			Method:     http.MethodGet,
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Message:    "failed to decode response",
			Err:        err,
		}
	}
	return nil
}

// Delete sends an authenticated DELETE. In dry-run mode it returns ErrDryRun.
func (c *Client) Delete(ctx context.Context, path string) (*http.Response, error) {
	req, err := c.newRequest(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if err := c.gate(req); err != nil {
		return nil, err
	}
	return c.send(req)
}

// PostJSON sends body encoded as JSON. In dry-run mode it returns ErrDryRun
// after encoding.
func (c *Client) PostJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Method: http.MethodPost, URL: c.baseURL + path, Message: "failed to marshal request body", Err: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.gate(req); err != nil {
		return nil, err
	}
	return c.send(req)
}

// PostMultipart uploads the file at filePath as form field `field`. The file
// is opened and read even in dry-run mode, so a missing file is reported
// before ErrDryRun would be.
func (c *Client) PostMultipart(ctx context.Context, path, field, filePath string) (*http.Response, error) {
	f, err := c.fs.Open(filePath)
	if err != nil {
		return nil, &Error{Kind: KindIO, Message: "failed to open upload", Err: err}
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filepath.Base(filePath))
	if err != nil {
		return nil, &Error{Kind: KindIO, Message: "failed to create form file", Err: err}
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, &Error{Kind: KindIO, Message: fmt.Sprintf("failed to read %s", filePath), Err: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &Error{Kind: KindIO, Message: "failed to finish multipart body", Err: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	if err := c.gate(req); err != nil {
		return nil, err
	}
	return c.send(req)
}

// Ping checks that the server is reachable and accepts the token.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.Get(ctx, "/api/")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
