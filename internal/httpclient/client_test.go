package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stremovskyy/recorder"
)

func TestNextRequestIDIsUUIDv4(t *testing.T) {
	id := nextRequestID()

	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("request_id must be a valid UUID, got %q: %v", id, err)
	}
	if parsed.Version() != 4 {
		t.Fatalf("request_id must be UUID v4, got version %d (%q)", parsed.Version(), id)
	}
	if parsed.Variant() != uuid.RFC4122 {
		t.Fatalf("request_id must use RFC4122 variant, got %v (%q)", parsed.Variant(), id)
	}
}

func TestDoSendsHeadersQueryAndJSONBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payments" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("expected limit=5, got %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Alma-Auth sk_test_1" {
			t.Errorf("unexpected Authorization %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("unexpected Content-Type %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"purchase_amount":15000}` {
			t.Errorf("unexpected body %s", body)
		}
		_, _ = w.Write([]byte(`{"id":"payment_1"}`))
	}))
	defer ts.Close()

	c := New(ts.Client(), nil, nil, false)
	h := http.Header{}
	h.Set("Authorization", "Alma-Auth sk_test_1")

	resp, raw, err := c.Do(context.Background(), &Call{
		Method: http.MethodPost,
		URL:    ts.URL + "/v1/payments",
		Header: h,
		Query:  url.Values{"limit": {"5"}},
		Body:   map[string]int{"purchase_amount": 15000},
	})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if string(raw) != `{"id":"payment_1"}` {
		t.Fatalf("unexpected body %s", raw)
	}
}

func TestDoReturnsHTTPStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found"}`))
	}))
	defer ts.Close()

	rec := &countingRecorder{}
	c := New(ts.Client(), nil, rec, true)
	resp, raw, err := c.Do(context.Background(), &Call{Method: http.MethodGet, URL: ts.URL + "/v1/me"})

	var hs *HTTPStatusError
	if !errors.As(err, &hs) {
		t.Fatalf("expected HTTPStatusError, got %T (%v)", err, err)
	}
	if hs.StatusCode != http.StatusNotFound || hs.Description() != "404 Not Found" {
		t.Fatalf("unexpected status error: %+v", hs)
	}
	if resp == nil || string(raw) != `{"message":"not found"}` {
		t.Fatalf("response and body must be returned with status errors")
	}
	if rec.requests != 1 || rec.responses != 1 || rec.errors != 1 {
		t.Fatalf("unexpected recorder counts: %+v", rec)
	}
}

func TestDoReturnsTransportErrorsUnchanged(t *testing.T) {
	boom := errors.New("dial tcp: connection refused")
	c := New(doerFunc(func(*http.Request) (*http.Response, error) { return nil, boom }), nil, nil, false)

	_, _, err := c.Do(context.Background(), &Call{Method: http.MethodGet, URL: "https://api.sandbox.getalma.eu/v1/me"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected transport error to pass through, got %v", err)
	}
	var hs *HTTPStatusError
	if errors.As(err, &hs) {
		t.Fatalf("transport errors must not become status errors")
	}
}

func TestHTTPStatusErrorDescriptionFallback(t *testing.T) {
	e := &HTTPStatusError{StatusCode: http.StatusInternalServerError}
	if got := e.Description(); got != "500 Internal Server Error" {
		t.Fatalf("unexpected description %q", got)
	}
	e = &HTTPStatusError{StatusCode: 599}
	if got := e.Error(); got != "unexpected status: 599" {
		t.Fatalf("unexpected error %q", got)
	}
}

func TestLogBody(t *testing.T) {
	if got := logBody([]byte(`{"a":1}`), false); got != "size=7 bytes" {
		t.Fatalf("unexpected summary %q", got)
	}
	if got := logBody([]byte(`{"a":1}`), true); !strings.Contains(got, "\n  \"a\": 1") {
		t.Fatalf("expected indented json, got %q", got)
	}
	if got := logBody([]byte("  "), true); got != "<empty>" {
		t.Fatalf("unexpected preview %q", got)
	}
	if got := truncate("abcdef", 3); got != "abc...(truncated)" {
		t.Fatalf("unexpected truncate %q", got)
	}
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }

type countingRecorder struct {
	requests  int
	responses int
	errors    int
}

func (r *countingRecorder) RecordRequest(context.Context, *string, string, []byte, map[string]string) error {
	r.requests++
	return nil
}

func (r *countingRecorder) RecordResponse(context.Context, *string, string, []byte, map[string]string) error {
	r.responses++
	return nil
}

func (r *countingRecorder) RecordError(context.Context, *string, string, error, map[string]string) error {
	r.errors++
	return nil
}

func (r *countingRecorder) RecordMetrics(context.Context, *string, string, map[string]string, map[string]string) error {
	return nil
}

func (r *countingRecorder) GetRequest(context.Context, string) ([]byte, error) {
	return nil, nil
}

func (r *countingRecorder) GetResponse(context.Context, string) ([]byte, error) {
	return nil, nil
}

func (r *countingRecorder) FindByTag(context.Context, string) ([]string, error) {
	return nil, nil
}

func (r *countingRecorder) Async() recorder.AsyncRecorder {
	return nil
}
