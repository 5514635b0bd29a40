package webhook

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// SignatureHeader carries the HMAC of the request body.
const SignatureHeader = "X-Vtag-Signature"

// ErrBadSignature is returned by VerifyRequest when the body does not match
// the signature header.
var ErrBadSignature = errors.New("webhook signature mismatch")

// ComputeHMAC generates an HMAC signature for the given payload using the secret
func ComputeHMAC(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature verifies that the provided signature matches the computed HMAC
func VerifySignature(payload []byte, signature string, secret string) bool {
	expected := ComputeHMAC(payload, secret)
	return hmac.Equal([]byte(signature), []byte(expected))
}

// VerifyRequest reads the body of a delivery and checks its signature. It
// returns the body so receivers can decode the Event.
func VerifyRequest(r *http.Request, secret string) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read webhook body: %w", err)
	}
	if !VerifySignature(body, r.Header.Get(SignatureHeader), secret) {
		return nil, ErrBadSignature
	}
	return body, nil
}

// GenerateSecret generates a random signing secret with a "whsec_" prefix.
func GenerateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random secret: %w", err)
	}
	return "whsec_" + base64.URLEncoding.EncodeToString(buf), nil
}
