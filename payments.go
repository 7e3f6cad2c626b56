package alma

import (
	"context"
	"net/http"
	"strings"

	"github.com/alma/alma-go-client/consts"
	"github.com/alma/alma-go-client/entities"
)

// PaymentsEndpoint groups the installment payment calls.
type PaymentsEndpoint struct{ endpoint }

// RefundParams describes a refund. A nil Amount refunds the whole payment.
type RefundParams struct {
	// Amount in cents for a partial refund.
	Amount            *int64 `json:"amount,omitempty"`
	MerchantReference string `json:"merchant_reference,omitempty"`
	Comment           string `json:"comment,omitempty"`
}

// Eligibility checks which installment plans are available for a purchase.
// data is the eligibility payload, e.g. {"purchase_amount": 15000, "queries": [...]}.
func (e *PaymentsEndpoint) Eligibility(ctx context.Context, data any, runOpts ...RunOption) ([]entities.Eligibility, error) {
	if data == nil {
		return nil, &ValidationError{Fields: []FieldError{{Field: "data", Message: "is nil"}}}
	}
	req, err := e.request(consts.PaymentsEligibilityPath)
	if err != nil {
		return nil, err
	}
	req.SetBody(data)
	if e.skip(runOpts, http.MethodPost, req) {
		return nil, nil
	}
	resp, err := req.Post(ctx)
	if err != nil {
		return nil, err
	}
	return decodeObjects(resp, entities.NewEligibility)
}

// Create creates a payment from a {"payment": ..., "customer": ..., "order": ...} payload.
func (e *PaymentsEndpoint) Create(ctx context.Context, data any, runOpts ...RunOption) (entities.Payment, error) {
	if data == nil {
		return entities.Payment{}, &ValidationError{Fields: []FieldError{{Field: "data", Message: "is nil"}}}
	}
	req, err := e.request(consts.PaymentsPath)
	if err != nil {
		return entities.Payment{}, err
	}
	req.SetBody(data)
	return e.post(ctx, req, runOpts)
}

// FetchAll lists payments. Filters such as "state" or "customer_email" go in params.Filters.
func (e *PaymentsEndpoint) FetchAll(ctx context.Context, params ListParams, runOpts ...RunOption) (*Page[entities.Payment], error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	req, err := e.request(consts.PaymentsPath)
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
	return decodePage(resp, entities.NewPayment)
}

func (e *PaymentsEndpoint) Fetch(ctx context.Context, paymentID string, runOpts ...RunOption) (entities.Payment, error) {
	if err := requireID("payment_id", paymentID); err != nil {
		return entities.Payment{}, err
	}
	req, err := e.request(resourcePath(consts.PaymentsPath, paymentID))
	if err != nil {
		return entities.Payment{}, err
	}
	if e.skip(runOpts, http.MethodGet, req) {
		return entities.Payment{}, nil
	}
	resp, err := req.Get(ctx)
	if err != nil {
		return entities.Payment{}, err
	}
	return decodeObject(resp, entities.NewPayment)
}

// Trigger starts a deferred payment, e.g. on shipment.
func (e *PaymentsEndpoint) Trigger(ctx context.Context, paymentID string, runOpts ...RunOption) (entities.Payment, error) {
	if err := requireID("payment_id", paymentID); err != nil {
		return entities.Payment{}, err
	}
	req, err := e.request(resourcePath(consts.PaymentsPath, paymentID, consts.PaymentTriggerSuffix))
	if err != nil {
		return entities.Payment{}, err
	}
	return e.post(ctx, req, runOpts)
}

// FlagAsPotentialFraud reports a payment as suspicious. reason is optional.
func (e *PaymentsEndpoint) FlagAsPotentialFraud(ctx context.Context, paymentID string, reason string, runOpts ...RunOption) error {
	if err := requireID("payment_id", paymentID); err != nil {
		return err
	}
	req, err := e.request(resourcePath(consts.PaymentsPath, paymentID, consts.PaymentPotentialFraudSuffix))
	if err != nil {
		return err
	}
	if reason = strings.TrimSpace(reason); reason != "" {
		req.SetBody(map[string]string{"reason": reason})
	}
	if e.skip(runOpts, http.MethodPost, req) {
		return nil
	}
	_, err = req.Post(ctx)
	return err
}

// Refund refunds a payment fully, or partially when params.Amount is set.
func (e *PaymentsEndpoint) Refund(ctx context.Context, paymentID string, params RefundParams, runOpts ...RunOption) (entities.Payment, error) {
	ve := &ValidationError{}
	checkID(ve, "payment_id", paymentID)
	if params.Amount != nil && *params.Amount <= 0 {
		ve.Add("amount", "must be > 0")
	}
	if ve.HasErrors() {
		return entities.Payment{}, ve
	}

	req, err := e.request(resourcePath(consts.PaymentsPath, paymentID, consts.PaymentRefundSuffix))
	if err != nil {
		return entities.Payment{}, err
	}
	req.SetBody(params)
	return e.post(ctx, req, runOpts)
}

// AddOrder attaches a new order to a payment and returns all of its orders.
func (e *PaymentsEndpoint) AddOrder(ctx context.Context, paymentID string, order any, runOpts ...RunOption) ([]entities.Order, error) {
	return e.orders(ctx, http.MethodPost, paymentID, map[string]any{"order": order}, order == nil, runOpts)
}

// SetOrders replaces every order of a payment.
func (e *PaymentsEndpoint) SetOrders(ctx context.Context, paymentID string, orders []any, runOpts ...RunOption) ([]entities.Order, error) {
	return e.orders(ctx, http.MethodPut, paymentID, map[string]any{"orders": orders}, orders == nil, runOpts)
}

func (e *PaymentsEndpoint) orders(ctx context.Context, method string, paymentID string, body map[string]any, missing bool, runOpts []RunOption) ([]entities.Order, error) {
	ve := &ValidationError{}
	checkID(ve, "payment_id", paymentID)
	if missing {
		ve.Add("order", "is nil")
	}
	if ve.HasErrors() {
		return nil, ve
	}

	req, err := e.request(resourcePath(consts.PaymentsPath, paymentID, consts.PaymentOrdersSuffix))
	if err != nil {
		return nil, err
	}
	req.SetBody(body)
	if e.skip(runOpts, method, req) {
		return nil, nil
	}
	var resp *Response
	if method == http.MethodPut {
		resp, err = req.Put(ctx)
	} else {
		resp, err = req.Post(ctx)
	}
	if err != nil {
		return nil, err
	}
	return decodeObjects(resp, entities.NewOrder)
}

func (e *PaymentsEndpoint) post(ctx context.Context, req *Request, runOpts []RunOption) (entities.Payment, error) {
	if e.skip(runOpts, http.MethodPost, req) {
		return entities.Payment{}, nil
	}
	resp, err := req.Post(ctx)
	if err != nil {
		return entities.Payment{}, err
	}
	return decodeObject(resp, entities.NewPayment)
}
