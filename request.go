package alma

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/alma/alma-go-client/consts"
	"github.com/alma/alma-go-client/internal/httpclient"
)

// Request is a single call to the Alma API.
//
// Headers are seeded from the APIContext when the request is built:
// User-Agent, Accept and whatever the active credentials configure.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Params url.Values
	Body   any

	apiCtx *APIContext
}

// NewRequest builds a request against target.
func NewRequest(apiCtx *APIContext, target string) *Request {
	h := http.Header{}
	h.Set(consts.HeaderUserAgent, apiCtx.UserAgentString())
	h.Set(consts.HeaderAccept, consts.ContentTypeJSON)
	if apiCtx.credentials != nil {
		apiCtx.credentials.Configure(h)
	}
	return &Request{
		URL:    target,
		Header: h,
		Params: url.Values{},
		apiCtx: apiCtx,
	}
}

func (r *Request) SetBody(v any) *Request {
	r.Body = v
	return r
}

func (r *Request) SetParam(key, value string) *Request {
	r.Params.Set(key, value)
	return r
}

// Get sends the request with its query parameters.
func (r *Request) Get(ctx context.Context) (*Response, error) {
	return r.do(ctx, http.MethodGet, nil)
}

// Post sends the request with its body encoded as JSON.
func (r *Request) Post(ctx context.Context) (*Response, error) {
	return r.do(ctx, http.MethodPost, r.Body)
}

// Put sends the request with its body encoded as JSON.
func (r *Request) Put(ctx context.Context) (*Response, error) {
	return r.do(ctx, http.MethodPut, r.Body)
}

func (r *Request) do(ctx context.Context, method string, body any) (*Response, error) {
	if r == nil || r.apiCtx == nil {
		return nil, errors.New("request is not initialized")
	}
	r.Method = method

	query := r.Params
	if method != http.MethodGet {
		query = nil
	}
	resp, raw, err := r.apiCtx.transport.Do(ctx, &httpclient.Call{
		Method: method,
		URL:    r.URL,
		Header: r.Header,
		Query:  query,
		Body:   body,
	})
	return r.processResponse(resp, raw, err)
}

func (r *Request) processResponse(resp *http.Response, raw []byte, err error) (*Response, error) {
	if err == nil {
		return newResponse(resp, raw), nil
	}

	var hs *httpclient.HTTPStatusError
	if !errors.As(err, &hs) {
		return nil, err
	}

	response := newResponse(resp, raw)
	if response.StatusCode == 0 {
		response.StatusCode = hs.StatusCode
		response.Status = hs.Status
	}
	return nil, &RequestError{
		Message:  errorMessage(response, hs),
		Request:  r,
		Response: response,
	}
}

// errorMessage prefers the JSON `message` field and falls back to the status line.
func errorMessage(resp *Response, hs *httpclient.HTTPStatusError) string {
	if data, err := resp.JSON(); err == nil {
		if v, ok := data["message"]; ok && v != nil {
			if s, ok := v.(string); ok {
				if s != "" {
					return s
				}
			} else {
				return fmt.Sprint(v)
			}
		}
	}
	return hs.Description()
}
