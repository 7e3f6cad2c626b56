package alma

import (
	"errors"
	"net/http"
	"strings"

	"github.com/alma/alma-go-client/consts"
	"github.com/alma/alma-go-client/internal/signature"
)

// VerifyIPN checks the X-Alma-Signature sent with an IPN callback for paymentID.
// It requires API key credentials.
func (c *Client) VerifyIPN(paymentID string, sig string) error {
	if c == nil || c.apiCtx == nil {
		return errors.New("client is not initialized")
	}
	if err := requireID("payment_id", paymentID); err != nil {
		return err
	}
	key := c.apiCtx.APIKey()
	if key == "" {
		return errors.New("ipn verification requires api key credentials")
	}
	return (&signature.HMACSigner{Key: key}).Verify(paymentID, sig)
}

// VerifyIPNRequest verifies an incoming IPN callback and returns its payment id,
// read from the pid query parameter.
func (c *Client) VerifyIPNRequest(r *http.Request) (string, error) {
	if r == nil {
		return "", errors.New("ipn request is nil")
	}
	paymentID := strings.TrimSpace(r.URL.Query().Get("pid"))
	if err := c.VerifyIPN(paymentID, r.Header.Get(consts.HeaderAlmaSignature)); err != nil {
		return "", err
	}
	return paymentID, nil
}
