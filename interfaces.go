package alma

import (
	"net/http"

	"github.com/alma/alma-go-client/consts"
	"github.com/alma/alma-go-client/log"
)

// Version is reported in the User-Agent header as alma-go-client/<Version>.
const Version = "1.2.0"

// Mode selects the live or test (sandbox) API.
type Mode = consts.Mode

const (
	ModeLive = consts.ModeLive
	ModeTest = consts.ModeTest
)

// HTTPDoer sends HTTP requests. *http.Client satisfies it.
//
//go:generate mockgen -destination=internal/mocks/mock_doer.go -package=mocks . HTTPDoer
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Alma is the main client interface.
type Alma interface {
	Payments() *PaymentsEndpoint
	Merchants() *MerchantsEndpoint
	Orders() *OrdersEndpoint
	Exports() *ExportsEndpoint

	Mode() Mode
	Context() *APIContext
	AddUserAgentComponent(name, version string)

	VerifyIPN(paymentID string, signature string) error
	VerifyIPNRequest(r *http.Request) (string, error)

	SetLogLevel(level log.Level)
}

var _ Alma = (*Client)(nil)
