package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// HMACSigner signs and verifies Alma IPN callbacks.
//
// Alma sends X-Alma-Signature with every IPN: the hex encoded HMAC-SHA256 of
// the payment id, keyed with the merchant API key.
type HMACSigner struct {
	Key string
}

func (s *HMACSigner) Sign(data string) (string, error) {
	if s == nil || s.Key == "" {
		return "", errors.New("signature: api key is not configured")
	}
	mac := hmac.New(sha256.New, []byte(s.Key))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

func (s *HMACSigner) Verify(data string, signatureHex string) error {
	if s == nil || s.Key == "" {
		return errors.New("signature: api key is not configured")
	}
	sig, err := decodeSignatureHex(signatureHex)
	if err != nil {
		return err
	}
	mac := hmac.New(sha256.New, []byte(s.Key))
	mac.Write([]byte(data))
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return errors.New("signature: verify failed")
	}
	return nil
}

func decodeSignatureHex(signatureHex string) ([]byte, error) {
	signatureHex = strings.TrimSpace(signatureHex)
	if signatureHex == "" {
		return nil, errors.New("signature: empty signature")
	}
	sig, err := hex.DecodeString(strings.ToLower(signatureHex))
	if err != nil {
		return nil, fmt.Errorf("signature: invalid hex signature: %w", err)
	}
	return sig, nil
}
