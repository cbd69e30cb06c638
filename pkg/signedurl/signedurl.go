package signedurl

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	ErrExpired      = errors.New("signed url has expired")
	ErrBadSignature = errors.New("signed url signature mismatch")
)

// Signer mints and verifies time-boxed HMAC signatures for private resources.
// The signed payload binds the resource path to its expiry, so neither can be
// tampered with independently.
type Signer struct {
	secret []byte
}

// NewSigner creates a signer from a shared secret
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

var timeNow = time.Now

// Sign returns the query string parameters granting access to path until the
// TTL elapses: "expires=<unix>&signature=<hex>".
func (s *Signer) Sign(path string, ttl time.Duration) string {
	expires := timeNow().Add(ttl).Unix()
	return fmt.Sprintf("expires=%d&signature=%s", expires, s.signature(path, expires))
}

// Verify checks the signature and expiry for path
func (s *Signer) Verify(path string, expires int64, signature string) error {
	expected := s.signature(path, expires)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrBadSignature
	}
	if timeNow().Unix() > expires {
		return ErrExpired
	}
	return nil
}

func (s *Signer) signature(path string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(path))
	mac.Write([]byte("|"))
	mac.Write([]byte(strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}
