package alma

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/alma/alma-go-client/internal/jsonutil"
)

// Response wraps one HTTP result from the Alma API.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte

	json    map[string]any
	jsonErr error
	decoded bool
}

func newResponse(resp *http.Response, raw []byte) *Response {
	r := &Response{Body: raw}
	if resp != nil {
		r.StatusCode = resp.StatusCode
		r.Status = resp.Status
		r.Header = resp.Header
	}
	return r
}

// JSON decodes the body as a JSON object on first use and caches the result.
func (r *Response) JSON() (map[string]any, error) {
	if r == nil {
		return nil, errors.New("response is nil")
	}
	if !r.decoded {
		r.decoded = true
		if len(r.Body) == 0 {
			r.jsonErr = errors.New("empty response body")
		} else if err := jsonutil.Unmarshal(r.Body, &r.json); err != nil {
			r.jsonErr = fmt.Errorf("decode json response: %w", err)
		} else if r.json == nil {
			r.jsonErr = errors.New("response body is not a JSON object")
		}
	}
	return r.json, r.jsonErr
}

// Decode unmarshals the body into out.
func (r *Response) Decode(out any) error {
	if r == nil {
		return errors.New("response is nil")
	}
	if err := jsonutil.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("decode json response: %w", err)
	}
	return nil
}
