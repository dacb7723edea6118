package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Signer appends and checks an HMAC-SHA256 tag so cookie values cannot be forged.
type Signer struct{ key []byte }

func NewSigner(secret string) *Signer { return &Signer{key: []byte(secret)} }

func (s *Signer) Sign(raw string) string {
	return raw + "." + base64.RawURLEncoding.EncodeToString(s.mac(raw))
}

// Verify returns the raw value when the tag matches.
func (s *Signer) Verify(signed string) (string, bool) {
	i := strings.LastIndexByte(signed, '.')
	if i <= 0 {
		return "", false
	}
	raw := signed[:i]
	sig, err := base64.RawURLEncoding.DecodeString(signed[i+1:])
	if err != nil {
		return "", false
	}
	if !hmac.Equal(s.mac(raw), sig) {
		return "", false
	}
	return raw, true
}

func (s *Signer) mac(raw string) []byte {
	m := hmac.New(sha256.New, s.key)
	m.Write([]byte(raw))
	return m.Sum(nil)
}
