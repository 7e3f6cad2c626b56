package alma

import (
	"net/http"
	"strings"
	"time"

	"github.com/alma/alma-go-client/consts"
	"github.com/alma/alma-go-client/credentials"
	"github.com/alma/alma-go-client/log"
	"github.com/stremovskyy/recorder"
)

// Option configures a Client. Invalid options make NewClient fail with *ConfigError.
type Option func(*config) error

type config struct {
	credentials  credentials.Credentials
	legacyAPIKey string

	mode     consts.Mode
	apiRoots map[consts.Mode]string

	httpClient *http.Client
	doer       HTTPDoer
	logger     log.Logger
	logLevel   *log.Level
	logBodies  bool
	recorder   recorder.Recorder

	userAgent []UserAgentComponent
}

func defaultConfig() config {
	return config{
		apiRoots: map[consts.Mode]string{
			consts.ModeLive: consts.LiveAPIURL,
			consts.ModeTest: consts.SandboxAPIURL,
		},
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     log.NewDefault(),
	}
}

// WithCredentials sets the credentials used to authenticate every request.
// Credentials with a Validate method are checked here.
func WithCredentials(c credentials.Credentials) Option {
	return func(cfg *config) error {
		if c == nil {
			return configErrorf("credentials", "must not be nil")
		}
		if v, ok := c.(interface{ Validate() error }); ok {
			if err := v.Validate(); err != nil {
				return configErrorf("credentials", "%v", err)
			}
		}
		cfg.credentials = c
		return nil
	}
}

// WithAPIKey sets a bare API key.
//
// Deprecated: use NewClientWithAPIKey or WithCredentials(credentials.NewAPIKey(key)).
// The key only becomes the client credentials when no other credentials are set.
func WithAPIKey(key string) Option {
	return func(cfg *config) error {
		cfg.legacyAPIKey = strings.TrimSpace(key)
		return nil
	}
}

// WithMode forces the API mode instead of inferring it from the credentials.
func WithMode(mode consts.Mode) Option {
	return func(cfg *config) error {
		if !mode.Valid() {
			return configErrorf("mode", "must be one of (%s, %s), got %q", consts.ModeLive, consts.ModeTest, mode)
		}
		cfg.mode = mode
		return nil
	}
}

// WithAPIRoot uses the same root URL for both live and test modes.
func WithAPIRoot(rootURL string) Option {
	return func(cfg *config) error {
		rootURL = strings.TrimSpace(rootURL)
		if rootURL == "" {
			return configErrorf("api_root", "must not be empty")
		}
		cfg.apiRoots = map[consts.Mode]string{
			consts.ModeLive: rootURL,
			consts.ModeTest: rootURL,
		}
		return nil
	}
}

// WithAPIRoots sets one root URL per mode. roots must hold exactly the live and test keys.
func WithAPIRoots(roots map[consts.Mode]string) Option {
	return func(cfg *config) error {
		if len(roots) != 2 {
			return configErrorf("api_root", "must have exactly two keys, %s and %s", consts.ModeLive, consts.ModeTest)
		}
		out := make(map[consts.Mode]string, 2)
		for _, m := range []consts.Mode{consts.ModeLive, consts.ModeTest} {
			u, ok := roots[m]
			if !ok {
				return configErrorf("api_root", "is missing the %s key", m)
			}
			u = strings.TrimSpace(u)
			if u == "" {
				return configErrorf("api_root", "has an empty URL for %s", m)
			}
			out[m] = u
		}
		cfg.apiRoots = out
		return nil
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *config) error {
		if client == nil {
			return configErrorf("http_client", "must not be nil")
		}
		cfg.httpClient = client
		return nil
	}
}

// WithHTTPDoer routes requests through d instead of the http client,
// e.g. an instrumented transport or a test double.
func WithHTTPDoer(d HTTPDoer) Option {
	return func(cfg *config) error {
		if d == nil {
			return configErrorf("http_doer", "must not be nil")
		}
		cfg.doer = d
		return nil
	}
}

// WithTimeout sets http client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *config) error {
		if timeout <= 0 {
			return configErrorf("timeout", "must be > 0")
		}
		cp := *cfg.httpClient
		cp.Timeout = timeout
		cfg.httpClient = &cp
		return nil
	}
}

func WithLogger(logger log.Logger) Option {
	return func(cfg *config) error {
		if logger == nil {
			cfg.logger = log.NopLogger{}
			return nil
		}
		cfg.logger = logger
		return nil
	}
}

// WithLogLevel sets the level of the client logger, whichever logger is in use,
// provided it has a SetLevel(log.Level) method.
func WithLogLevel(level log.Level) Option {
	return func(cfg *config) error {
		if level < log.LevelDebug || level > log.LevelOff {
			return configErrorf("log_level", "unknown level %d", int32(level))
		}
		cfg.logLevel = &level
		return nil
	}
}

// WithLogHTTPBodies enables verbose request/response body logging for debugging.
//
// Disabled by default because bodies may contain customer data.
func WithLogHTTPBodies(enabled bool) Option {
	return func(cfg *config) error {
		cfg.logBodies = enabled
		return nil
	}
}

// WithRecorder attaches a recorder that receives every request and response body.
func WithRecorder(r recorder.Recorder) Option {
	return func(cfg *config) error {
		cfg.recorder = r
		return nil
	}
}

// WithUserAgentComponent appends name/version to the User-Agent header, after
// the client's own components. Integrators use it to identify their plugin.
func WithUserAgentComponent(name, version string) Option {
	return func(cfg *config) error {
		name = strings.TrimSpace(name)
		if name == "" {
			return configErrorf("user_agent", "component name is empty")
		}
		cfg.userAgent = append(cfg.userAgent, UserAgentComponent{Name: name, Version: strings.TrimSpace(version)})
		return nil
	}
}
