// Package wire defines the request/response message types exchanged over
// the transport, and the octet-string codec shared by both the server and
// client drivers.
//
// Every scalar and group element crosses the wire as a hex-encoded octet
// string inside a JSON body: a fixed, predictable encoding that keeps
// request payloads greppable in logs and curl-able by hand, the same
// property the teacher's hand-rolled hex codec gave its commitment points.
package wire

import (
	"encoding/hex"
	"fmt"

	"github.com/10d9e/zk-pass/pkg/backend"
)

// RegisterRequest registers a user's public commitment pair.
type RegisterRequest struct {
	User string `json:"user"`
	Y1   string `json:"y1"`
	Y2   string `json:"y2"`
}

// RegisterResponse is empty: success is signaled by the HTTP status alone.
type RegisterResponse struct{}

// CreateChallengeRequest asks the server to start a new authentication
// attempt for User, supplying the prover's commitment pair.
type CreateChallengeRequest struct {
	User string `json:"user"`
	R1   string `json:"r1"`
	R2   string `json:"r2"`
}

// CreateChallengeResponse carries the server-issued auth_id and challenge.
type CreateChallengeResponse struct {
	AuthID string `json:"auth_id"`
	C      string `json:"c"`
}

// VerifyAuthRequest answers a previously issued challenge.
type VerifyAuthRequest struct {
	AuthID string `json:"auth_id"`
	S      string `json:"s"`
}

// VerifyAuthResponse carries the session identifier minted on success.
type VerifyAuthResponse struct {
	SessionID string `json:"session_id"`
}

// EncodeElement returns the hex encoding of e's canonical byte form.
func EncodeElement(b backend.Backend, e backend.Element) string {
	return hex.EncodeToString(b.ElementToBytes(e))
}

// DecodeElement parses a hex-encoded group element, failing with
// backend.ErrDeserialization if s is malformed or not a member of the
// group.
func DecodeElement(b backend.Backend, s string) (backend.Element, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", backend.ErrDeserialization, err)
	}
	return b.ElementFromBytes(raw)
}

// EncodeScalar returns the hex encoding of s's canonical byte form.
func EncodeScalar(s backend.Scalar) string {
	return hex.EncodeToString(s.Bytes())
}

// DecodeScalar parses a hex-encoded scalar, failing with
// backend.ErrDeserialization if s is not valid hex. The decoded value is
// always reduced modulo the backend's group order.
func DecodeScalar(b backend.Backend, s string) (backend.Scalar, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", backend.ErrDeserialization, err)
	}
	return b.ScalarFromBytes(raw), nil
}
