package alma

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alma/alma-go-client/consts"
	"github.com/alma/alma-go-client/entities"
	"github.com/alma/alma-go-client/internal/mocks"
	"github.com/alma/alma-go-client/internal/utils"
)

func newMockedClient(t *testing.T, opts ...Option) (Alma, *mocks.MockHTTPDoer) {
	t.Helper()
	ctrl := gomock.NewController(t)
	doer := mocks.NewMockHTTPDoer(ctrl)

	opts = append([]Option{WithHTTPDoer(doer), WithLogger(nil)}, opts...)
	client, err := NewClientWithAPIKey("sk_test_abc", opts...)
	require.NoError(t, err)
	return client, doer
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func signIPN(t *testing.T, key, paymentID string) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestFetchMerchantWrapsJSON(t *testing.T) {
	client, doer := newMockedClient(t)

	doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, "https://api.sandbox.getalma.eu/v1/merchants/merch_123", req.URL.String())
		assert.Equal(t, "Alma-Auth sk_test_abc", req.Header.Get("Authorization"))
		assert.Equal(t, "application/json", req.Header.Get("Accept"))
		assert.NotEmpty(t, req.Header.Get("User-Agent"))
		return jsonResponse(http.StatusOK, `{"id": "merch_123", "name": "Acme"}`), nil
	})

	merchant, err := client.Merchants().Fetch(context.Background(), "merch_123")
	require.NoError(t, err)

	id, err := merchant.Attr("id")
	require.NoError(t, err)
	assert.Equal(t, "merch_123", id)
	name, err := merchant.String("name")
	require.NoError(t, err)
	assert.Equal(t, "Acme", name)
	assert.Equal(t, map[string]any{"id": "merch_123", "name": "Acme"}, merchant.RawData())

	_, err = merchant.Attr("website")
	assert.ErrorIs(t, err, entities.ErrAttributeNotFound)
}

func TestRequestErrorUsesJSONMessage(t *testing.T) {
	client, doer := newMockedClient(t)
	doer.EXPECT().Do(gomock.Any()).Return(jsonResponse(http.StatusNotFound, `{"message": "not found"}`), nil)

	_, err := client.Merchants().Fetch(context.Background(), "merch_404")
	require.Error(t, err)

	re, ok := AsRequestError(err)
	require.True(t, ok, "expected RequestError, got %T", err)
	assert.Equal(t, "not found", re.Message)
	assert.Equal(t, http.StatusNotFound, re.StatusCode())
	require.NotNil(t, re.Request)
	assert.Equal(t, http.MethodGet, re.Request.Method)
	assert.True(t, strings.HasSuffix(re.Request.URL, "/v1/merchants/merch_404"))
	assert.JSONEq(t, `{"message": "not found"}`, string(re.Response.Body))
}

func TestRequestErrorFallsBackToStatusDescription(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "html body", body: "<html>Internal error</html>"},
		{name: "no message", body: `{"error_code": "internal"}`},
		{name: "empty body", body: ""},
		{name: "array body", body: `["boom"]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, doer := newMockedClient(t)
			doer.EXPECT().Do(gomock.Any()).Return(jsonResponse(http.StatusInternalServerError, tc.body), nil)

			_, err := client.Payments().Fetch(context.Background(), "payment_1")
			re, ok := AsRequestError(err)
			require.True(t, ok, "expected RequestError, got %T (%v)", err, err)
			assert.Equal(t, "500 Internal Server Error", re.Message)
			assert.Equal(t, http.StatusInternalServerError, re.Response.StatusCode)
		})
	}
}

func TestRequestErrorNonStringMessage(t *testing.T) {
	client, doer := newMockedClient(t)
	doer.EXPECT().Do(gomock.Any()).Return(jsonResponse(http.StatusBadRequest, `{"message": {"purchase_amount": "too low"}}`), nil)

	_, err := client.Payments().Create(context.Background(), map[string]any{"payment": map[string]any{"purchase_amount": 1}})
	re, ok := AsRequestError(err)
	require.True(t, ok)
	assert.Contains(t, re.Message, "too low")
}

func TestTransportErrorsAreNotWrapped(t *testing.T) {
	client, doer := newMockedClient(t)
	boom := errors.New("dial tcp: lookup api.sandbox.getalma.eu: no such host")
	doer.EXPECT().Do(gomock.Any()).Return(nil, boom)

	_, err := client.Merchants().Me(context.Background(), false)
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsRequestError(err))
}

func TestMerchantsMePaths(t *testing.T) {
	client, doer := newMockedClient(t)
	gomock.InOrder(
		doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "/v1/me", req.URL.Path)
			return jsonResponse(http.StatusOK, `{"id":"merchant_1"}`), nil
		}),
		doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "/v1/me/extended-data", req.URL.Path)
			return jsonResponse(http.StatusOK, `{"id":"merchant_1","fee_plans":[]}`), nil
		}),
	)

	m, err := client.Merchants().Me(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, m.Has("fee_plans"))

	m, err = client.Merchants().Me(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, m.Has("fee_plans"))
}

func TestSessionAndMerchantCredentialsHeaders(t *testing.T) {
	var cookie, auth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie = r.Header.Get("Cookie")
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"id":"merchant_1"}`))
	}))
	defer ts.Close()

	session, err := NewClientWithAlmaSession("sess_42", "", WithAPIRoot(ts.URL), WithLogger(nil))
	require.NoError(t, err)
	_, err = session.Merchants().Me(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "alma_sess=sess_42", cookie)
	assert.Empty(t, auth)

	merchant, err := NewClientWithMerchantID("merchant_1", WithAPIRoot(ts.URL), WithLogger(nil))
	require.NoError(t, err)
	_, err = merchant.Merchants().Me(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "Alma-Merchant-Auth merchant_1", auth)
	assert.Empty(t, cookie)
}

func TestPaymentsEndpoints(t *testing.T) {
	type seen struct {
		method string
		path   string
		query  string
		body   map[string]any
	}
	var calls []seen

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := seen{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.Unmarshal(raw, &s.body))
		}
		calls = append(calls, s)

		switch {
		case r.URL.Path == "/v1/payments/eligibility":
			_, _ = w.Write([]byte(`[{"installments_count":3,"eligible":true},{"installments_count":4,"eligible":false}]`))
		case r.URL.Path == "/v1/payments" && r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`{"data":[{"id":"payment_1"},{"id":"payment_2"}],"has_more":true}`))
		case strings.HasSuffix(r.URL.Path, "/orders"):
			_, _ = w.Write([]byte(`[{"merchant_reference":"ORDER-1"},{"merchant_reference":"ORDER-2"}]`))
		case strings.HasSuffix(r.URL.Path, "/potential-fraud"):
			w.WriteHeader(http.StatusNoContent)
		default:
			_, _ = w.Write([]byte(`{"id":"payment_1","state":"in_progress","purchase_amount":15000}`))
		}
	}))
	defer ts.Close()

	client, err := NewClientWithAPIKey("sk_test_abc", WithAPIRoot(ts.URL), WithLogger(nil))
	require.NoError(t, err)
	ctx := context.Background()
	payments := client.Payments()

	eligibility, err := payments.Eligibility(ctx, map[string]any{"purchase_amount": 15000})
	require.NoError(t, err)
	require.Len(t, eligibility, 2)
	eligible, err := eligibility[0].Bool("eligible")
	require.NoError(t, err)
	assert.True(t, eligible)

	created, err := payments.Create(ctx, map[string]any{"payment": map[string]any{"purchase_amount": 15000}})
	require.NoError(t, err)
	amount, err := created.Amount("purchase_amount")
	require.NoError(t, err)
	assert.Equal(t, "150", amount.String())

	page, err := payments.FetchAll(ctx, ListParams{Limit: 2, StartingAfter: "payment_0", Filters: map[string]string{"state": "paid"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.True(t, page.HasMore)
	assert.Equal(t, "payment_2", page.LastID(func(p entities.Payment) string {
		id, _ := p.String("id")
		return id
	}))

	_, err = payments.Fetch(ctx, "payment_1")
	require.NoError(t, err)
	_, err = payments.Trigger(ctx, "payment_1")
	require.NoError(t, err)
	require.NoError(t, payments.FlagAsPotentialFraud(ctx, "payment_1", "stolen card"))
	_, err = payments.Refund(ctx, "payment_1", RefundParams{Amount: utils.Ref(int64(5000)), MerchantReference: "REFUND-1"})
	require.NoError(t, err)

	orders, err := payments.AddOrder(ctx, "payment_1", map[string]any{"merchant_reference": "ORDER-2"})
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	orders, err = payments.SetOrders(ctx, "payment_1", []any{map[string]any{"merchant_reference": "ORDER-1"}})
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	require.Len(t, calls, 9)
	assert.Equal(t, seen{method: "POST", path: "/v1/payments/eligibility", body: map[string]any{"purchase_amount": float64(15000)}}, calls[0])
	assert.Equal(t, "POST", calls[1].method)
	assert.Equal(t, "/v1/payments", calls[1].path)
	assert.Equal(t, "GET", calls[2].method)
	assert.Equal(t, "limit=2&starting_after=payment_0&state=paid", calls[2].query)
	assert.Equal(t, "/v1/payments/payment_1", calls[3].path)
	assert.Equal(t, "/v1/payments/payment_1/trigger", calls[4].path)
	assert.Equal(t, map[string]any{"reason": "stolen card"}, calls[5].body)
	assert.Equal(t, "/v1/payments/payment_1/refund", calls[6].path)
	assert.Equal(t, map[string]any{"amount": float64(5000), "merchant_reference": "REFUND-1"}, calls[6].body)
	assert.Equal(t, "POST", calls[7].method)
	assert.Equal(t, map[string]any{"order": map[string]any{"merchant_reference": "ORDER-2"}}, calls[7].body)
	assert.Equal(t, "PUT", calls[8].method)
	assert.Equal(t, "/v1/payments/payment_1/orders", calls[8].path)
}

func TestOrdersAndExportsEndpoints(t *testing.T) {
	var paths []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.RequestURI())
		switch {
		case r.URL.Path == "/v1/orders":
			_, _ = w.Write([]byte(`{"data":[{"id":"order_1"}],"has_more":false}`))
		case strings.HasPrefix(r.URL.Path, "/v1/orders/"):
			_, _ = w.Write([]byte(`{"id":"order_1","merchant_reference":"ORDER-1"}`))
		case r.URL.Query().Get("format") == "csv":
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte("id,amount\npayment_1,15000\n"))
		default:
			_, _ = w.Write([]byte(`{"id":"export_1","type":"payments"}`))
		}
	}))
	defer ts.Close()

	client, err := NewClientWithAPIKey("sk_test_abc", WithAPIRoot(ts.URL), WithLogger(nil))
	require.NoError(t, err)
	ctx := context.Background()

	page, err := client.Orders().FetchAll(ctx, ListParams{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.False(t, page.HasMore)

	order, err := client.Orders().Fetch(ctx, "order_1")
	require.NoError(t, err)
	ref, err := order.String("merchant_reference")
	require.NoError(t, err)
	assert.Equal(t, "ORDER-1", ref)

	_, err = client.Orders().Update(ctx, "order_1", map[string]any{"comment": "shipped"})
	require.NoError(t, err)

	export, err := client.Exports().Create(ctx, "payments", map[string]any{"start": 1700000000})
	require.NoError(t, err)
	typ, err := export.String("type")
	require.NoError(t, err)
	assert.Equal(t, "payments", typ)

	_, err = client.Exports().Fetch(ctx, "export_1")
	require.NoError(t, err)

	file, err := client.Exports().FetchFile(ctx, "export_1", consts.ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "id,amount\npayment_1,15000\n", string(file))

	assert.Equal(t, []string{
		"GET /v1/orders",
		"GET /v1/orders/order_1",
		"POST /v1/orders/order_1",
		"POST /v1/data-exports",
		"GET /v1/data-exports/export_1",
		"GET /v1/data-exports/export_1?format=csv",
	}, paths)
}

func TestEndpointValidation(t *testing.T) {
	client, _ := newMockedClient(t)
	ctx := context.Background()

	_, err := client.Merchants().Fetch(ctx, "")
	assert.True(t, IsValidationError(err))
	_, err = client.Payments().Fetch(ctx, " ")
	assert.True(t, IsValidationError(err))
	_, err = client.Payments().Create(ctx, nil)
	assert.True(t, IsValidationError(err))
	_, err = client.Payments().Refund(ctx, "payment_1", RefundParams{Amount: utils.Ref(int64(0))})
	assert.True(t, IsValidationError(err))
	_, err = client.Payments().AddOrder(ctx, "payment_1", nil)
	assert.True(t, IsValidationError(err))
	_, err = client.Payments().FetchAll(ctx, ListParams{Limit: -1})
	assert.True(t, IsValidationError(err))
	_, err = client.Orders().Update(ctx, "order_1", nil)
	assert.True(t, IsValidationError(err))
	_, err = client.Exports().FetchFile(ctx, "export_1", consts.ExportFormat("pdf"))
	assert.True(t, IsValidationError(err))
	_, err = client.Exports().Create(ctx, "", nil)
	assert.True(t, IsValidationError(err))
	_, err = client.Orders().Fetch(ctx, "..")
	assert.True(t, IsValidationError(err))
	_, err = client.Payments().Refund(ctx, ".", RefundParams{})
	assert.True(t, IsValidationError(err))
}

func TestResourceIDsAreEscapedAsOneSegment(t *testing.T) {
	type hit struct {
		method string
		path   string
		query  string
	}
	var hits []hit
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, hit{method: r.Method, path: r.URL.EscapedPath(), query: r.URL.RawQuery})
		_, _ = w.Write([]byte(`{"id":"x"}`))
	}))
	defer ts.Close()

	client, err := NewClientWithAPIKey("sk_test_abc", WithAPIRoot(ts.URL), WithLogger(nil))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = client.Orders().Update(ctx, "../payments/pay_1/refund", map[string]any{"comment": "x"})
	require.NoError(t, err)
	_, err = client.Merchants().Fetch(ctx, "../payments/pay_1/refund")
	require.NoError(t, err)
	_, err = client.Payments().Fetch(ctx, "a/b")
	require.NoError(t, err)
	_, err = client.Payments().Trigger(ctx, "pay?x=1")
	require.NoError(t, err)

	assert.Equal(t, []hit{
		{method: http.MethodPost, path: "/v1/orders/..%2Fpayments%2Fpay_1%2Frefund"},
		{method: http.MethodGet, path: "/v1/merchants/..%2Fpayments%2Fpay_1%2Frefund"},
		{method: http.MethodGet, path: "/v1/payments/a%2Fb"},
		{method: http.MethodPost, path: "/v1/payments/pay%3Fx=1/trigger"},
	}, hits)
}
