package alma

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// endpoint is embedded by every resource group. The APIContext is shared with
// the owning Client.
type endpoint struct {
	apiCtx *APIContext
}

func (e endpoint) request(endpointPath string) (*Request, error) {
	full, err := e.apiCtx.URL(endpointPath)
	if err != nil {
		return nil, err
	}
	return NewRequest(e.apiCtx, full), nil
}

// skip reports whether runOpts ask for a dry run of req.
func (e endpoint) skip(runOpts []RunOption, method string, req *Request) bool {
	var payload any = req.Body
	if method == http.MethodGet && len(req.Params) > 0 {
		payload = req.Params.Encode()
	}
	return shouldDryRun(e.apiCtx.logger, runOpts, method, req.URL, payload)
}

// ListParams paginates list endpoints.
type ListParams struct {
	// Limit caps the page size. Zero keeps the API default.
	Limit int
	// StartingAfter is the id of the last item of the previous page.
	StartingAfter string
	// Filters are sent verbatim as query parameters, e.g. "state": "paid".
	Filters map[string]string
}

func (p ListParams) apply(r *Request) {
	if p.Limit > 0 {
		r.SetParam("limit", strconv.Itoa(p.Limit))
	}
	if p.StartingAfter != "" {
		r.SetParam("starting_after", p.StartingAfter)
	}
	for k, v := range p.Filters {
		r.SetParam(k, v)
	}
}

func (p ListParams) validate() error {
	ve := &ValidationError{}
	if p.Limit < 0 {
		ve.Add("limit", "must be >= 0")
	}
	for k := range p.Filters {
		if strings.TrimSpace(k) == "" {
			ve.Add("filters", "keys must not be empty")
			break
		}
	}
	if ve.HasErrors() {
		return ve
	}
	return nil
}

// Page is one page of a list endpoint.
type Page[T any] struct {
	Items   []T
	HasMore bool
}

// LastID returns the id of the last item, for use as ListParams.StartingAfter.
func (p *Page[T]) LastID(id func(T) string) string {
	if p == nil || len(p.Items) == 0 {
		return ""
	}
	return id(p.Items[len(p.Items)-1])
}

func decodePage[T any](resp *Response, wrap func(map[string]any) T) (*Page[T], error) {
	var body struct {
		Data    []map[string]any `json:"data"`
		HasMore bool             `json:"has_more"`
	}
	if err := resp.Decode(&body); err != nil {
		return nil, err
	}
	page := &Page[T]{Items: make([]T, 0, len(body.Data)), HasMore: body.HasMore}
	for _, item := range body.Data {
		page.Items = append(page.Items, wrap(item))
	}
	return page, nil
}

// decodeObject wraps a JSON object body.
func decodeObject[T any](resp *Response, wrap func(map[string]any) T) (T, error) {
	data, err := resp.JSON()
	if err != nil {
		var zero T
		return zero, err
	}
	return wrap(data), nil
}

// decodeObjects accepts either a JSON array of objects or a single object.
func decodeObjects[T any](resp *Response, wrap func(map[string]any) T) ([]T, error) {
	var items []map[string]any
	if err := resp.Decode(&items); err != nil {
		data, objErr := resp.JSON()
		if objErr != nil {
			return nil, fmt.Errorf("expected a JSON array or object: %w", err)
		}
		items = []map[string]any{data}
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, wrap(item))
	}
	return out, nil
}

func requireID(field, id string) error {
	ve := &ValidationError{}
	checkID(ve, field, id)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

// checkID rejects empty ids and the dot segments a server would resolve.
func checkID(ve *ValidationError, field, id string) {
	switch strings.TrimSpace(id) {
	case "":
		ve.Add(field, "is required")
	case ".", "..":
		ve.Add(field, "is not a valid id")
	}
}

// resourcePath builds collection/{id}/suffix... with id escaped as a single
// path segment.
func resourcePath(collection string, id string, suffix ...string) string {
	parts := append([]string{collection, url.PathEscape(id)}, suffix...)
	return strings.Join(parts, "/")
}
