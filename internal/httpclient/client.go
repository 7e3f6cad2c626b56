package httpclient

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
	"unicode/utf8"

	"github.com/alma/alma-go-client/internal/jsonutil"
	"github.com/alma/alma-go-client/log"
	"github.com/google/uuid"
	"github.com/stremovskyy/recorder"
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a small HTTP helper with JSON bodies, logging and traffic recording.
// It is internal on purpose: the public API lives in the root package.
type Client struct {
	doer      Doer
	logger    log.Logger
	logBodies bool
	recorder  recorder.Recorder
}

// Call describes one outgoing request.
type Call struct {
	Method string
	URL    string
	Header http.Header
	Query  url.Values
	// Body is JSON encoded unless it is already []byte or string.
	Body any
}

// New creates an internal HTTP client.
func New(doer Doer, logger log.Logger, rec recorder.Recorder, logBodies bool) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = log.NopLogger{}
	}
	return &Client{
		doer:      doer,
		logger:    logger,
		logBodies: logBodies,
		recorder:  rec,
	}
}

// Do sends call once and returns the http response and the raw response body.
//
// A non-2xx status yields *HTTPStatusError along with the response and body.
// Transport errors are returned unchanged.
func (c *Client) Do(ctx context.Context, call *Call) (*http.Response, []byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if call == nil {
		return nil, nil, fmt.Errorf("http call is nil")
	}
	requestID := nextRequestID()

	bodyBytes, err := prepareBody(call.Body)
	if err != nil {
		c.recordError(ctx, requestID, err)
		return nil, nil, err
	}

	target, err := withQuery(call.URL, call.Query)
	if err != nil {
		c.recordError(ctx, requestID, err)
		return nil, nil, err
	}

	var reader io.Reader
	if bodyBytes != nil {
		reader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, target, reader)
	if err != nil {
		c.recordError(ctx, requestID, err)
		return nil, nil, err
	}

	for k, vs := range call.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if bodyBytes != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debugf("[Alma HTTP] request prepared: request_id=%s method=%s url=%s payload=%s", requestID, call.Method, target, logBody(bodyBytes, c.logBodies))
	c.recordRequest(ctx, requestID, bodyBytes)

	resp, err := c.doer.Do(req)
	if err != nil {
		c.logger.Errorf("[Alma HTTP] request failed: request_id=%s method=%s url=%s err=%v", requestID, call.Method, target, err)
		c.recordError(ctx, requestID, err)
		return nil, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recordError(ctx, requestID, err)
		return resp, nil, err
	}
	c.recordResponse(ctx, requestID, raw)

	c.logger.Debugf("[Alma HTTP] response received: request_id=%s method=%s url=%s status=%d response=%s", requestID, call.Method, target, resp.StatusCode, logBody(raw, c.logBodies))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &HTTPStatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: raw}
		c.logger.Warnf("[Alma HTTP] unexpected status: request_id=%s method=%s url=%s status=%d", requestID, call.Method, target, resp.StatusCode)
		c.recordError(ctx, requestID, statusErr)
		return resp, raw, statusErr
	}

	return resp, raw, nil
}

// HTTPStatusError indicates a non-2xx response.
type HTTPStatusError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "http status error"
	}
	return e.Description()
}

// Description is the transport-level status line, e.g. "404 Not Found".
func (e *HTTPStatusError) Description() string {
	if e == nil {
		return ""
	}
	if e.Status != "" {
		return e.Status
	}
	if text := http.StatusText(e.StatusCode); text != "" {
		return fmt.Sprintf("%d %s", e.StatusCode, text)
	}
	return fmt.Sprintf("unexpected status: %d", e.StatusCode)
}

func withQuery(rawURL string, query url.Values) (string, error) {
	if len(query) == 0 {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	q := u.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func prepareBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	switch v := body.(type) {
	case []byte:
		if len(v) == 0 {
			return []byte{}, nil
		}
		out := make([]byte, len(v))
		copy(out, v)
		return out, nil
	case string:
		return []byte(v), nil
	default:
		b, err := jsonutil.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal json body: %w", err)
		}
		return b, nil
	}
}

func nextRequestID() string {
	return uuid.NewString()
}

func (c *Client) recordRequest(ctx context.Context, requestID string, body []byte) {
	if c == nil || c.recorder == nil {
		return
	}
	if err := c.recorder.RecordRequest(ctx, nil, requestID, body, nil); err != nil {
		c.logger.Warnf("[Alma HTTP] cannot record request: %v", err)
	}
}

func (c *Client) recordResponse(ctx context.Context, requestID string, body []byte) {
	if c == nil || c.recorder == nil {
		return
	}
	if err := c.recorder.RecordResponse(ctx, nil, requestID, body, nil); err != nil {
		c.logger.Warnf("[Alma HTTP] cannot record response: %v", err)
	}
}

func (c *Client) recordError(ctx context.Context, requestID string, err error) {
	if c == nil || c.recorder == nil || err == nil {
		return
	}
	if recErr := c.recorder.RecordError(ctx, nil, requestID, err, nil); recErr != nil {
		c.logger.Warnf("[Alma HTTP] cannot record error: %v", recErr)
	}
}

func summarizeBytes(b []byte) string {
	return fmt.Sprintf("size=%d bytes", len(b))
}

func logBody(b []byte, verbose bool) string {
	if !verbose {
		return summarizeBytes(b)
	}

	if pretty, ok := prettyJSONPreview(b); ok {
		return pretty
	}
	return previewBytes(b)
}

func prettyJSONPreview(b []byte) (string, bool) {
	if len(b) == 0 || !jsonutil.Valid(b) {
		return "", false
	}

	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "  "); err != nil {
		return "", false
	}
	return truncate(out.String(), 4096), true
}

func previewBytes(b []byte) string {
	if len(b) == 0 {
		return "<empty>"
	}
	s := strings.TrimSpace(string(b))
	if s == "" {
		return "<empty>"
	}
	if !utf8.ValidString(s) {
		return fmt.Sprintf("<binary size=%d bytes>", len(b))
	}
	return truncate(s, 4096)
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
