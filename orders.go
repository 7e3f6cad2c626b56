package alma

import (
	"context"
	"net/http"

	"github.com/alma/alma-go-client/consts"
	"github.com/alma/alma-go-client/entities"
)

// OrdersEndpoint groups the merchant order calls.
type OrdersEndpoint struct{ endpoint }

// FetchAll lists orders, newest first.
func (e *OrdersEndpoint) FetchAll(ctx context.Context, params ListParams, runOpts ...RunOption) (*Page[entities.Order], error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	req, err := e.request(consts.OrdersPath)
	if err != nil {
		return nil, err
	}
	params.apply(req)
	if e.skip(runOpts, http.MethodGet, req) {
		return nil, nil
	}
	resp, err := req.Get(ctx)
	if err != nil {
		return nil, err
	}
	return decodePage(resp, entities.NewOrder)
}

func (e *OrdersEndpoint) Fetch(ctx context.Context, orderID string, runOpts ...RunOption) (entities.Order, error) {
	if err := requireID("order_id", orderID); err != nil {
		return entities.Order{}, err
	}
	req, err := e.request(resourcePath(consts.OrdersPath, orderID))
	if err != nil {
		return entities.Order{}, err
	}
	if e.skip(runOpts, http.MethodGet, req) {
		return entities.Order{}, nil
	}
	resp, err := req.Get(ctx)
	if err != nil {
		return entities.Order{}, err
	}
	return decodeObject(resp, entities.NewOrder)
}

// Update changes merchant-side order data such as merchant_reference or comment.
func (e *OrdersEndpoint) Update(ctx context.Context, orderID string, data any, runOpts ...RunOption) (entities.Order, error) {
	if err := requireID("order_id", orderID); err != nil {
		return entities.Order{}, err
	}
	if data == nil {
		return entities.Order{}, &ValidationError{Fields: []FieldError{{Field: "data", Message: "is nil"}}}
	}
	req, err := e.request(resourcePath(consts.OrdersPath, orderID))
	if err != nil {
		return entities.Order{}, err
	}
	req.SetBody(data)
	if e.skip(runOpts, http.MethodPost, req) {
		return entities.Order{}, nil
	}
	resp, err := req.Post(ctx)
	if err != nil {
		return entities.Order{}, err
	}
	return decodeObject(resp, entities.NewOrder)
}
