package alma

import (
	"runtime"
	"strings"
	"sync"

	"github.com/alma/alma-go-client/consts"
	"github.com/alma/alma-go-client/credentials"
	"github.com/alma/alma-go-client/log"
	"github.com/stremovskyy/recorder"
)

const (
	resourcePayments  = "payments"
	resourceMerchants = "merchants"
	resourceOrders    = "orders"
	resourceExports   = "exports"
)

// Client is the Alma API client.
//
// Endpoint groups are created on first access and cached for the lifetime
// of the client. A Client is safe for concurrent use.
type Client struct {
	apiCtx *APIContext

	mu        sync.Mutex
	endpoints map[string]any
}

// NewClient builds a client from options. Credentials are required, either
// through WithCredentials or the deprecated WithAPIKey.
//
// Prefer NewClientWithAPIKey, NewClientWithMerchantID or NewClientWithAlmaSession.
func NewClient(opts ...Option) (Alma, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	creds, mode, err := resolveCredentials(&cfg)
	if err != nil {
		return nil, err
	}

	apiCtx, err := newAPIContext(&cfg, mode, creds)
	if err != nil {
		return nil, err
	}

	c := &Client{apiCtx: apiCtx, endpoints: map[string]any{}}
	if cfg.logLevel != nil {
		c.SetLogLevel(*cfg.logLevel)
	}
	c.initUserAgent(cfg.userAgent)
	return c, nil
}

// NewClientWithAPIKey builds a client authenticated with a secret API key.
// The mode follows the key prefix unless WithMode is given.
func NewClientWithAPIKey(apiKey string, opts ...Option) (Alma, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, configErrorf("credentials", "api key is empty")
	}
	return newClientWithCredentials(credentials.NewAPIKey(apiKey), opts)
}

// NewClientWithMerchantID builds a client authenticated with a public merchant id.
func NewClientWithMerchantID(merchantID string, opts ...Option) (Alma, error) {
	if strings.TrimSpace(merchantID) == "" {
		return nil, configErrorf("credentials", "merchant id is empty")
	}
	return newClientWithCredentials(credentials.NewMerchantID(merchantID), opts)
}

// NewClientWithAlmaSession builds a client authenticated with an Alma session
// cookie. An empty cookieName falls back to alma_sess.
func NewClientWithAlmaSession(sessionID string, cookieName string, opts ...Option) (Alma, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, configErrorf("credentials", "session id is empty")
	}
	return newClientWithCredentials(credentials.NewSession(sessionID, cookieName), opts)
}

// NewClientWithRecorder builds a client and attaches rec.
func NewClientWithRecorder(rec recorder.Recorder, opts ...Option) (Alma, error) {
	opts = append([]Option{WithRecorder(rec)}, opts...)
	return NewClient(opts...)
}

func newClientWithCredentials(creds credentials.Credentials, opts []Option) (Alma, error) {
	all := make([]Option, 0, len(opts)+1)
	all = append(all, opts...)
	all = append(all, WithCredentials(creds))
	return NewClient(all...)
}

// resolveCredentials picks the credentials and mode. The mode defaults to the
// one implied by the credentials, a legacy API key prefix takes precedence
// over non key credentials, and an explicit WithMode always wins.
func resolveCredentials(cfg *config) (credentials.Credentials, consts.Mode, error) {
	creds := cfg.credentials
	if creds == nil && cfg.legacyAPIKey != "" {
		creds = credentials.NewAPIKey(cfg.legacyAPIKey)
	}
	if creds == nil {
		return nil, "", configErrorf("credentials", "are required to instantiate a new Client")
	}

	mode := creds.Mode()
	if _, isKey := credentials.APIKeyOf(creds); !isKey && cfg.legacyAPIKey != "" {
		mode = consts.ModeForAPIKey(cfg.legacyAPIKey)
	}
	if cfg.mode != "" {
		mode = cfg.mode
	}
	if !mode.Valid() {
		return nil, "", configErrorf("mode", "must be one of (%s, %s), got %q", consts.ModeLive, consts.ModeTest, mode)
	}
	return creds, mode, nil
}

func (c *Client) initUserAgent(extra []UserAgentComponent) {
	c.AddUserAgentComponent("Go", strings.TrimPrefix(runtime.Version(), "go"))
	c.AddUserAgentComponent("alma-go-client", Version)
	for _, comp := range extra {
		c.AddUserAgentComponent(comp.Name, comp.Version)
	}
}

// AddUserAgentComponent appends name/version to the User-Agent of every later request.
func (c *Client) AddUserAgentComponent(name, version string) {
	c.apiCtx.AddUserAgentComponent(name, version)
}

func (c *Client) Mode() Mode { return c.apiCtx.Mode() }

// Context returns the configuration shared by all endpoints.
func (c *Client) Context() *APIContext { return c.apiCtx }

func (c *Client) Payments() *PaymentsEndpoint {
	return cachedEndpoint(c, resourcePayments, func(base endpoint) *PaymentsEndpoint {
		return &PaymentsEndpoint{base}
	})
}

func (c *Client) Merchants() *MerchantsEndpoint {
	return cachedEndpoint(c, resourceMerchants, func(base endpoint) *MerchantsEndpoint {
		return &MerchantsEndpoint{base}
	})
}

func (c *Client) Orders() *OrdersEndpoint {
	return cachedEndpoint(c, resourceOrders, func(base endpoint) *OrdersEndpoint {
		return &OrdersEndpoint{base}
	})
}

func (c *Client) Exports() *ExportsEndpoint {
	return cachedEndpoint(c, resourceExports, func(base endpoint) *ExportsEndpoint {
		return &ExportsEndpoint{base}
	})
}

// cachedEndpoint returns the endpoint stored under name, building it on first use.
func cachedEndpoint[T any](c *Client, name string, build func(endpoint) *T) *T {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.endpoints[name].(*T); ok {
		return e
	}
	e := build(endpoint{apiCtx: c.apiCtx})
	c.endpoints[name] = e
	return e
}

// SetLogLevel updates the log level when the current logger supports it.
func (c *Client) SetLogLevel(level log.Level) {
	if c == nil || c.apiCtx == nil || c.apiCtx.logger == nil {
		return
	}
	if l, ok := c.apiCtx.logger.(interface{ SetLevel(log.Level) }); ok {
		l.SetLevel(level)
	}
}
