package services

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // G505: GitHub's X-Hub-Signature header is HMAC-SHA1.
	"encoding/hex"

	"github.com/custodia-labs/postsync/internal/core/ports/driving"
)

// Ensure SignatureVerifier implements the interface.
var _ driving.PushVerifier = (*SignatureVerifier)(nil)

// signaturePrefix precedes the hex digest in X-Hub-Signature.
const signaturePrefix = "sha1="

// SignatureVerifier checks X-Hub-Signature headers.
// The algorithm matches GitHub's webhook signing: "sha1=" + hex(HMAC-SHA1(secret, body)).
type SignatureVerifier struct {
	secret []byte
}

// NewSignatureVerifier creates a verifier for a webhook's shared secret.
// An empty secret rejects every request.
func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(secret)}
}

// Sign returns the signature header value for body.
func (v *SignatureVerifier) Sign(body []byte) string {
	mac := hmac.New(sha1.New, v.secret)
	_, _ = mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature was produced for body with the shared secret.
// body must be the raw request bytes, before any decoding.
func (v *SignatureVerifier) Verify(body []byte, signature string) bool {
	if len(v.secret) == 0 || signature == "" {
		return false
	}
	return hmac.Equal([]byte(signature), []byte(v.Sign(body)))
}
