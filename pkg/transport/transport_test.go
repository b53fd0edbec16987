package transport

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/10d9e/zk-pass/pkg/auth"
	"github.com/10d9e/zk-pass/pkg/backend"
	"github.com/10d9e/zk-pass/pkg/chaumpedersen"
	"github.com/10d9e/zk-pass/pkg/registry"
	"github.com/10d9e/zk-pass/pkg/wire"
)

func newTestServer(t *testing.T, b backend.Backend) *httptest.Server {
	t.Helper()
	svc := auth.NewService(b, registry.NewRegistry())
	h := NewHandlers(svc, b)
	return httptest.NewServer(NewRouter(h))
}

func postJSON(t *testing.T, url string, body, out interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	if out != nil {
		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response from %s: %v", url, err)
		}
	}
	return resp
}

// runFullLogin drives registration and an honest three-message exchange
// over HTTP for user against secret x, returning the minted session id.
func runFullLogin(t *testing.T, srv *httptest.Server, b backend.Backend, user string, x backend.Scalar) string {
	t.Helper()

	g, h := b.Generators()
	y1, y2 := b.Exp(g, x), b.Exp(h, x)

	var regResp wire.RegisterResponse
	resp := postJSON(t, srv.URL+"/register", wire.RegisterRequest{
		User: user,
		Y1:   wire.EncodeElement(b, y1),
		Y2:   wire.EncodeElement(b, y2),
	}, &regResp)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}

	commitment, err := chaumpedersen.Commit(b, x)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	var challengeResp wire.CreateChallengeResponse
	resp = postJSON(t, srv.URL+"/challenge", wire.CreateChallengeRequest{
		User: user,
		R1:   wire.EncodeElement(b, commitment.R1),
		R2:   wire.EncodeElement(b, commitment.R2),
	}, &challengeResp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("challenge: expected 200, got %d", resp.StatusCode)
	}

	c, err := wire.DecodeScalar(b, challengeResp.C)
	if err != nil {
		t.Fatalf("decode challenge: %v", err)
	}
	s := chaumpedersen.Respond(b, x, commitment.K, c)

	var verifyResp wire.VerifyAuthResponse
	resp = postJSON(t, srv.URL+"/verify", wire.VerifyAuthRequest{
		AuthID: challengeResp.AuthID,
		S:      wire.EncodeScalar(s),
	}, &verifyResp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d", resp.StatusCode)
	}
	if verifyResp.SessionID == "" {
		t.Fatal("expected a non-empty session id")
	}
	return verifyResp.SessionID
}

// S1: honest login against an RFC 5114 MODP-1024 backend with a random
// secret.
func TestScenarioS1HonestLoginMODP1024(t *testing.T) {
	b := backend.NewRFC5114MODP1024160()
	srv := newTestServer(t, b)
	defer srv.Close()

	x, err := b.RandomScalar()
	if err != nil {
		t.Fatalf("random scalar: %v", err)
	}
	runFullLogin(t, srv, b, "foo", x)
}

// S2: honest login against MODP-2048-256 with a secret derived from a
// passphrase, as the client driver would do with --secret.
func TestScenarioS2HonestLoginMODP2048WithPassphrase(t *testing.T) {
	b := backend.NewRFC5114MODP2048256()
	srv := newTestServer(t, b)
	defer srv.Close()

	digest := sha256.Sum256([]byte("i_love_bob"))
	x := b.ScalarFromHash(digest[:])
	runFullLogin(t, srv, b, "bob", x)
}

// S3: honest login against the Ristretto255 backend.
func TestScenarioS3HonestLoginRistretto(t *testing.T) {
	b := backend.NewRistretto()
	srv := newTestServer(t, b)
	defer srv.Close()

	x, err := b.RandomScalar()
	if err != nil {
		t.Fatalf("random scalar: %v", err)
	}
	runFullLogin(t, srv, b, "carol", x)
}

// S4: honest login against the Pallas backend.
func TestScenarioS4HonestLoginPallas(t *testing.T) {
	b := backend.NewPallas()
	srv := newTestServer(t, b)
	defer srv.Close()

	x, err := b.RandomScalar()
	if err != nil {
		t.Fatalf("random scalar: %v", err)
	}
	runFullLogin(t, srv, b, "dave", x)
}

// S5: a tampered response must be rejected with 401, never 200.
func TestScenarioS5TamperedResponseRejected(t *testing.T) {
	b := backend.NewRistretto()
	srv := newTestServer(t, b)
	defer srv.Close()

	x, _ := b.RandomScalar()
	g, h := b.Generators()
	y1, y2 := b.Exp(g, x), b.Exp(h, x)

	postJSON(t, srv.URL+"/register", wire.RegisterRequest{
		User: "eve",
		Y1:   wire.EncodeElement(b, y1),
		Y2:   wire.EncodeElement(b, y2),
	}, &wire.RegisterResponse{})

	commitment, _ := chaumpedersen.Commit(b, x)
	var challengeResp wire.CreateChallengeResponse
	postJSON(t, srv.URL+"/challenge", wire.CreateChallengeRequest{
		User: "eve",
		R1:   wire.EncodeElement(b, commitment.R1),
		R2:   wire.EncodeElement(b, commitment.R2),
	}, &challengeResp)

	c, _ := wire.DecodeScalar(b, challengeResp.C)
	s := chaumpedersen.Respond(b, x, commitment.K, c)
	tamperedBytes := append([]byte{0xff}, s.Bytes()...)
	tampered := b.ScalarFromBytes(tamperedBytes)

	resp := postJSON(t, srv.URL+"/verify", wire.VerifyAuthRequest{
		AuthID: challengeResp.AuthID,
		S:      wire.EncodeScalar(tampered),
	}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for tampered response, got %d", resp.StatusCode)
	}
}

// S6: replaying a consumed auth_id must fail with 404, not a second 200.
func TestScenarioS6ReplayedAuthIDRejected(t *testing.T) {
	b := backend.NewRistretto()
	srv := newTestServer(t, b)
	defer srv.Close()

	x, _ := b.RandomScalar()
	g, h := b.Generators()
	y1, y2 := b.Exp(g, x), b.Exp(h, x)

	postJSON(t, srv.URL+"/register", wire.RegisterRequest{
		User: "frank",
		Y1:   wire.EncodeElement(b, y1),
		Y2:   wire.EncodeElement(b, y2),
	}, &wire.RegisterResponse{})

	commitment, _ := chaumpedersen.Commit(b, x)
	var challengeResp wire.CreateChallengeResponse
	postJSON(t, srv.URL+"/challenge", wire.CreateChallengeRequest{
		User: "frank",
		R1:   wire.EncodeElement(b, commitment.R1),
		R2:   wire.EncodeElement(b, commitment.R2),
	}, &challengeResp)

	c, _ := wire.DecodeScalar(b, challengeResp.C)
	s := chaumpedersen.Respond(b, x, commitment.K, c)

	first := postJSON(t, srv.URL+"/verify", wire.VerifyAuthRequest{
		AuthID: challengeResp.AuthID,
		S:      wire.EncodeScalar(s),
	}, &wire.VerifyAuthResponse{})
	if first.StatusCode != http.StatusOK {
		t.Fatalf("first verify: expected 200, got %d", first.StatusCode)
	}

	second := postJSON(t, srv.URL+"/verify", wire.VerifyAuthRequest{
		AuthID: challengeResp.AuthID,
		S:      wire.EncodeScalar(s),
	}, nil)
	if second.StatusCode != http.StatusNotFound {
		t.Fatalf("replayed verify: expected 404, got %d", second.StatusCode)
	}
}

func TestChallengeForUnregisteredUserReturns401(t *testing.T) {
	b := backend.NewRistretto()
	srv := newTestServer(t, b)
	defer srv.Close()

	g, _ := b.Generators()
	resp := postJSON(t, srv.URL+"/challenge", wire.CreateChallengeRequest{
		User: "nobody",
		R1:   wire.EncodeElement(b, g),
		R2:   wire.EncodeElement(b, g),
	}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unregistered user, got %d", resp.StatusCode)
	}
}

func TestMalformedElementReturns400(t *testing.T) {
	b := backend.NewRistretto()
	srv := newTestServer(t, b)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/register", wire.RegisterRequest{
		User: "garbage",
		Y1:   "not-hex!!",
		Y2:   "also-not-hex",
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed element, got %d", resp.StatusCode)
	}
}

func TestHealthEndpointReportsBackendName(t *testing.T) {
	b := backend.NewRistretto()
	srv := newTestServer(t, b)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["status"] != "ok" {
		t.Fatalf("expected status ok, got %v", out)
	}
	if got, want := out["backend"], b.Name(); got != want {
		t.Fatalf("expected backend %q, got %q", want, got)
	}
}

func TestRepeatedChallengesGetDistinctAuthIDs(t *testing.T) {
	// Two /challenge requests for the same registered user, each with its
	// own fresh commitment pair, must be issued distinct auth_ids.
	b := backend.NewRistretto()
	srv := newTestServer(t, b)
	defer srv.Close()

	x, _ := b.RandomScalar()
	g, h := b.Generators()
	postJSON(t, srv.URL+"/register", wire.RegisterRequest{
		User: "gina",
		Y1:   wire.EncodeElement(b, b.Exp(g, x)),
		Y2:   wire.EncodeElement(b, b.Exp(h, x)),
	}, &wire.RegisterResponse{})

	commitment, _ := chaumpedersen.Commit(b, x)
	var first, second wire.CreateChallengeResponse
	postJSON(t, srv.URL+"/challenge", wire.CreateChallengeRequest{
		User: "gina",
		R1:   wire.EncodeElement(b, commitment.R1),
		R2:   wire.EncodeElement(b, commitment.R2),
	}, &first)

	commitment2, _ := chaumpedersen.Commit(b, x)
	postJSON(t, srv.URL+"/challenge", wire.CreateChallengeRequest{
		User: "gina",
		R1:   wire.EncodeElement(b, commitment2.R1),
		R2:   wire.EncodeElement(b, commitment2.R2),
	}, &second)

	if first.AuthID == second.AuthID {
		t.Fatal("expected distinct auth_id per challenge request")
	}
}
