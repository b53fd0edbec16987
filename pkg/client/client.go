// Package client implements the prover's side of the protocol: deriving a
// secret, running the three-message exchange against a transport, and
// returning the session identifier minted on success.
package client

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/10d9e/zk-pass/pkg/backend"
	"github.com/10d9e/zk-pass/pkg/chaumpedersen"
	"github.com/10d9e/zk-pass/pkg/wire"
)

// Driver runs the prover's side of the protocol against a server reachable
// at BaseURL, using Backend for all group arithmetic.
type Driver struct {
	BaseURL string
	Backend backend.Backend
	Client  *http.Client
}

// NewDriver constructs a Driver talking to baseURL over b's group
// arithmetic. A zero-value http.Client is used if httpClient is nil.
func NewDriver(baseURL string, b backend.Backend, httpClient *http.Client) *Driver {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Driver{BaseURL: baseURL, Backend: b, Client: httpClient}
}

// DeriveSecret returns the discrete-log secret x a login should use: if
// secret is non-empty, x is SHA-256(secret) reduced mod q, so the same
// passphrase always reproduces the same identity; otherwise x is drawn
// uniformly at random.
func DeriveSecret(b backend.Backend, secret string) (backend.Scalar, error) {
	if secret == "" {
		return b.RandomScalar()
	}
	digest := sha256.Sum256([]byte(secret))
	return b.ScalarFromHash(digest[:]), nil
}

// Register publishes the public commitment pair for user derived from x.
func (d *Driver) Register(user string, x backend.Scalar) error {
	g, h := d.Backend.Generators()
	y1, y2 := d.Backend.Exp(g, x), d.Backend.Exp(h, x)

	req := wire.RegisterRequest{
		User: user,
		Y1:   wire.EncodeElement(d.Backend, y1),
		Y2:   wire.EncodeElement(d.Backend, y2),
	}

	var resp wire.RegisterResponse
	if err := d.post("/register", req, &resp, http.StatusCreated); err != nil {
		return fmt.Errorf("client: register failed: %w", err)
	}
	return nil
}

// Login runs the full three-message exchange for user, proving knowledge
// of x, and returns the session identifier minted by the server.
func (d *Driver) Login(user string, x backend.Scalar) (sessionID string, err error) {
	commitment, err := chaumpedersen.Commit(d.Backend, x)
	if err != nil {
		return "", fmt.Errorf("client: commit failed: %w", err)
	}

	challengeReq := wire.CreateChallengeRequest{
		User: user,
		R1:   wire.EncodeElement(d.Backend, commitment.R1),
		R2:   wire.EncodeElement(d.Backend, commitment.R2),
	}
	var challengeResp wire.CreateChallengeResponse
	if err := d.post("/challenge", challengeReq, &challengeResp, http.StatusOK); err != nil {
		return "", fmt.Errorf("client: challenge failed: %w", err)
	}

	c, err := wire.DecodeScalar(d.Backend, challengeResp.C)
	if err != nil {
		return "", fmt.Errorf("client: could not decode server challenge: %w", err)
	}

	s := chaumpedersen.Respond(d.Backend, x, commitment.K, c)

	verifyReq := wire.VerifyAuthRequest{
		AuthID: challengeResp.AuthID,
		S:      wire.EncodeScalar(s),
	}
	var verifyResp wire.VerifyAuthResponse
	if err := d.post("/verify", verifyReq, &verifyResp, http.StatusOK); err != nil {
		return "", fmt.Errorf("client: verify failed: %w", err)
	}

	return verifyResp.SessionID, nil
}

// post marshals req as JSON, posts it to BaseURL+path, and decodes the
// response body into out if the status matches wantStatus. A non-matching
// status is reported with whatever error body the server sent.
func (d *Driver) post(path string, req, out interface{}, wantStatus int) error {
	raw, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	resp, err := d.Client.Post(d.BaseURL+path, "application/json", bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var errBody struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errBody)
		if errBody.Error != "" {
			return fmt.Errorf("%s: %s (status %d)", path, errBody.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s: unexpected status %d", path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
