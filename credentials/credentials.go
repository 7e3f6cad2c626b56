// Package credentials holds the authentication variants accepted by the Alma API.
//
// A Credentials value attaches its secret material to outgoing request
// headers and reports which environment it belongs to.
package credentials

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/alma/alma-go-client/consts"
	"github.com/alma/alma-go-client/internal/utils"
)

// Credentials configures authentication on outgoing requests.
type Credentials interface {
	// Configure adds authentication headers to h.
	Configure(h http.Header)
	// Mode reports the environment implied by the credentials.
	Mode() consts.Mode
}

var (
	_ Credentials = APIKey{}
	_ Credentials = MerchantID{}
	_ Credentials = Session{}
)

// APIKey authenticates with a merchant secret API key.
type APIKey struct {
	Key string
}

func NewAPIKey(key string) APIKey {
	return APIKey{Key: key}
}

func (c APIKey) Configure(h http.Header) {
	h.Set(consts.HeaderAuthorization, consts.AuthSchemeAPIKey+" "+c.Key)
}

// Mode is live for keys prefixed with sk_live and test otherwise.
func (c APIKey) Mode() consts.Mode {
	return consts.ModeForAPIKey(c.Key)
}

// MerchantID authenticates with a public merchant id. Only a subset of the
// API accepts it.
type MerchantID struct {
	ID string
	// APIMode defaults to live when empty.
	APIMode consts.Mode
}

func NewMerchantID(id string) MerchantID {
	return MerchantID{ID: id}
}

func (c MerchantID) Configure(h http.Header) {
	h.Set(consts.HeaderAuthorization, consts.AuthSchemeMerchantID+" "+c.ID)
}

func (c MerchantID) Mode() consts.Mode {
	return modeOrLive(c.APIMode)
}

// Session authenticates with an Alma dashboard session cookie.
type Session struct {
	ID         string
	CookieName string
	// APIMode defaults to live when empty.
	APIMode consts.Mode
}

// NewSession builds session credentials. An empty cookieName falls back to alma_sess.
func NewSession(sessionID, cookieName string) Session {
	return Session{ID: sessionID, CookieName: cookieName}
}

// Validate checks that the cookie name is a token and that the session id only
// holds cookie-octets, so Configure can send both verbatim.
func (c Session) Validate() error {
	name := c.cookieName()
	if i := strings.IndexFunc(name, func(r rune) bool { return !isTokenChar(r) }); i >= 0 {
		return fmt.Errorf("invalid session cookie name %q: byte %q is not allowed", name, name[i])
	}
	if c.ID == "" {
		return fmt.Errorf("session id is empty")
	}
	if i := strings.IndexFunc(c.ID, func(r rune) bool { return !isCookieOctet(r) }); i >= 0 {
		return fmt.Errorf("invalid session id: byte %q is not allowed in a cookie value", c.ID[i])
	}
	return nil
}

// Configure appends name=id to any cookie already present on h. Call Validate
// first: the values are sent unmodified.
func (c Session) Configure(h http.Header) {
	cookie := c.cookieName() + "=" + c.ID
	if existing := h.Get(consts.HeaderCookie); existing != "" {
		cookie = existing + "; " + cookie
	}
	h.Set(consts.HeaderCookie, cookie)
}

func (c Session) Mode() consts.Mode {
	return modeOrLive(c.APIMode)
}

func (c Session) cookieName() string {
	return utils.FirstNonBlank(c.CookieName, consts.DefaultSessionCookieName)
}

// isTokenChar reports whether r may appear in an RFC 7230 token.
func isTokenChar(r rune) bool {
	if r <= ' ' || r >= 0x7f {
		return false
	}
	return !strings.ContainsRune(`"(),/:;<=>?@[\]{}`, r)
}

// isCookieOctet follows the cookie-octet rule of RFC 6265.
func isCookieOctet(r rune) bool {
	return r == 0x21 || (r >= 0x23 && r <= 0x2b) || (r >= 0x2d && r <= 0x3a) ||
		(r >= 0x3c && r <= 0x5b) || (r >= 0x5d && r <= 0x7e)
}

// APIKeyOf returns the secret key when c is API key credentials.
func APIKeyOf(c Credentials) (string, bool) {
	switch v := c.(type) {
	case APIKey:
		return v.Key, true
	case *APIKey:
		if v == nil {
			return "", false
		}
		return v.Key, true
	default:
		return "", false
	}
}

func modeOrLive(m consts.Mode) consts.Mode {
	if m == "" {
		return consts.ModeLive
	}
	return m
}
