// Package remote is the transport wrapper used by forms and list views. A
// Client performs exactly one HTTP call per Send and folds every outcome,
// including transport failures, into a Result value.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formadmin/internal/logging"
)

const defaultMaxBodyBytes int64 = 4 << 20

// Request describes one call.
type Request struct {
	Method string
	URL    string
	// Payload is JSON-encoded as the request body when non-nil.
	Payload any
	// ExpectBody marks reads whose 2xx response must carry JSON; a malformed
	// body then yields a KindParse failure instead of a degraded success.
	ExpectBody bool
}

// Sender is the capability the submission controller and list views depend
// on.
type Sender interface {
	Send(ctx context.Context, req Request) Result
}

// Client implements Sender over net/http.
type Client struct {
	http      *http.Client
	timeout   time.Duration
	headers   http.Header
	userAgent string
	maxBody   int64
}

var _ Sender = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout bounds each call. Zero keeps the transport's behaviour, which
// may block indefinitely on a hung server.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout >= 0 {
			c.timeout = timeout
		}
	}
}

// WithHeader adds a static header to every request.
func WithHeader(name, value string) Option {
	return func(c *Client) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		c.headers.Add(name, value)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		c.userAgent = strings.TrimSpace(agent)
	}
}

// WithMaxBodyBytes caps how much of a response body is read.
func WithMaxBodyBytes(limit int64) Option {
	return func(c *Client) {
		if limit > 0 {
			c.maxBody = limit
		}
	}
}

// New constructs a Client.
func New(options ...Option) *Client {
	c := &Client{
		http:    http.DefaultClient,
		headers: make(http.Header),
		maxBody: defaultMaxBodyBytes,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Send issues exactly one request and never panics or returns an error: the
// outcome is always a Result.
func (c *Client) Send(ctx context.Context, req Request) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}

	requestID, ok := logging.GetRequestID(ctx)
	if !ok {
		requestID = logging.GenerateRequestID()
		ctx = logging.NewRequestIDContext(ctx, requestID)
	}
	log := logging.Log(ctx).With(zap.String("method", method), zap.String("url", req.URL))

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	httpReq, err := c.buildRequest(ctx, method, req, requestID)
	if err != nil {
		// a request that cannot be built never reached the network
		log.Error(ctx, "build request", zap.Error(err))
		return Err(Failure{Kind: KindNetwork, Message: NetworkErrorMessage, Cause: err})
	}

	log.Debug(ctx, "sending request")
	started := time.Now()

	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Error(ctx, "request failed", zap.Error(err), zap.Duration("elapsed", time.Since(started)))
		return Err(Failure{Kind: KindNetwork, Message: NetworkErrorMessage, Cause: err})
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if readErr != nil {
		log.Error(ctx, "read response body", zap.Error(readErr), zap.Int("status", resp.StatusCode))
		return Err(Failure{Kind: KindNetwork, Status: resp.StatusCode, Message: NetworkErrorMessage, Cause: readErr})
	}

	body, parseErr := decodeBody(raw)
	success := resp.StatusCode >= 200 && resp.StatusCode < 300

	log.Debug(ctx, "response received",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(raw)),
		zap.Duration("elapsed", time.Since(started)))

	if success {
		if parseErr != nil && req.ExpectBody {
			log.Warn(ctx, "malformed response body", zap.Error(parseErr))
			return Err(Failure{Kind: KindParse, Status: resp.StatusCode, Message: ParseErrorMessage, Cause: parseErr})
		}
		// a malformed or empty body on a mutation is a degraded success
		return Ok(resp.StatusCode, body)
	}

	fields := fieldErrors(body)
	failure := Failure{
		Kind:    KindHTTPStatus,
		Status:  resp.StatusCode,
		Message: failureMessage(resp.StatusCode, body, fields),
		Fields:  fields,
		Cause:   parseErr,
	}
	log.Warn(ctx, "request rejected", zap.Int("status", resp.StatusCode), zap.String("message", failure.Message))
	return Err(failure)
}

func (c *Client) buildRequest(ctx context.Context, method string, req Request, requestID string) (*http.Request, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, errors.New("remote: url is required")
	}

	var reader io.Reader
	if req.Payload != nil {
		payload, err := json.Marshal(req.Payload)
		if err != nil {
			return nil, fmt.Errorf("remote: encode payload: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, reader)
	if err != nil {
		return nil, fmt.Errorf("remote: request: %w", err)
	}
	for name, values := range c.headers {
		for _, value := range values {
			httpReq.Header.Add(name, value)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if reader != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	httpReq.Header.Set(logging.RequestIDHeader, requestID)
	return httpReq, nil
}

// errEmptyBody marks a response without any body bytes.
var errEmptyBody = errors.New("remote: empty body")

func decodeBody(raw []byte) (any, error) {
	trimmed := trimBody(raw)
	if len(trimmed) == 0 {
		return nil, errEmptyBody
	}
	var body any
	if err := json.Unmarshal(trimmed, &body); err != nil {
		return nil, fmt.Errorf("remote: decode body: %w", err)
	}
	return body, nil
}
