package alma

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/alma/alma-go-client/consts"
	"github.com/alma/alma-go-client/credentials"
	"github.com/alma/alma-go-client/internal/httpclient"
	"github.com/alma/alma-go-client/log"
)

// UserAgentComponent is one name/version pair of the User-Agent header.
type UserAgentComponent struct {
	Name    string
	Version string
}

func (c UserAgentComponent) String() string {
	if c.Version == "" {
		return c.Name
	}
	return c.Name + "/" + c.Version
}

// APIContext is the configuration shared by every endpoint of a Client.
//
// Only the User-Agent components change after construction.
type APIContext struct {
	mode        consts.Mode
	apiRoots    map[consts.Mode]string
	credentials credentials.Credentials
	logger      log.Logger
	transport   *httpclient.Client

	mu        sync.RWMutex
	userAgent []UserAgentComponent
}

func newAPIContext(cfg *config, mode consts.Mode, creds credentials.Credentials) (*APIContext, error) {
	if len(cfg.apiRoots) != 2 || cfg.apiRoots[consts.ModeLive] == "" || cfg.apiRoots[consts.ModeTest] == "" {
		return nil, configErrorf("api_root", "must define both %s and %s URLs", consts.ModeLive, consts.ModeTest)
	}
	roots := make(map[consts.Mode]string, 2)
	for m, u := range cfg.apiRoots {
		roots[m] = u
	}

	var doer httpclient.Doer = cfg.httpClient
	if cfg.doer != nil {
		doer = cfg.doer
	}

	return &APIContext{
		mode:        mode,
		apiRoots:    roots,
		credentials: creds,
		logger:      cfg.logger,
		transport:   httpclient.New(doer, cfg.logger, cfg.recorder, cfg.logBodies),
	}, nil
}

func (c *APIContext) Mode() consts.Mode { return c.mode }

func (c *APIContext) Credentials() credentials.Credentials { return c.credentials }

func (c *APIContext) Logger() log.Logger { return c.logger }

// APIRoot returns the root URL for the active mode.
func (c *APIContext) APIRoot() string { return c.apiRoots[c.mode] }

// APIRoots returns a copy of the root URL of each mode.
func (c *APIContext) APIRoots() map[consts.Mode]string {
	out := make(map[consts.Mode]string, len(c.apiRoots))
	for m, u := range c.apiRoots {
		out[m] = u
	}
	return out
}

// APIKey returns the secret key when the client authenticates with an API key, or "".
func (c *APIContext) APIKey() string {
	key, _ := credentials.APIKeyOf(c.credentials)
	return key
}

// URL joins endpointPath onto the active API root.
func (c *APIContext) URL(endpointPath string) (string, error) {
	return joinURL(c.APIRoot(), endpointPath)
}

// AddUserAgentComponent appends name/version to the User-Agent of subsequent requests.
func (c *APIContext) AddUserAgentComponent(name, version string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userAgent = append(c.userAgent, UserAgentComponent{Name: name, Version: version})
}

// UserAgentComponents returns a copy of the components in insertion order.
func (c *APIContext) UserAgentComponents() []UserAgentComponent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]UserAgentComponent, len(c.userAgent))
	copy(out, c.userAgent)
	return out
}

// UserAgentString joins the components as space separated name/version pairs.
func (c *APIContext) UserAgentString() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	parts := make([]string, 0, len(c.userAgent))
	for _, comp := range c.userAgent {
		parts = append(parts, comp.String())
	}
	return strings.Join(parts, " ")
}

// joinURL appends the already escaped path p to base. Segments are kept
// verbatim, so escaped ids are never cleaned into another endpoint.
func joinURL(base string, p string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", base, err)
	}
	u.RawQuery, u.Fragment = "", ""
	return strings.TrimRight(u.String(), "/") + "/" + strings.TrimLeft(p, "/"), nil
}
