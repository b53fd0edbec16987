package client

import (
	"net/http/httptest"
	"testing"

	"github.com/10d9e/zk-pass/pkg/auth"
	"github.com/10d9e/zk-pass/pkg/backend"
	"github.com/10d9e/zk-pass/pkg/registry"
	"github.com/10d9e/zk-pass/pkg/transport"
)

func newTestServer(t *testing.T, b backend.Backend) *httptest.Server {
	t.Helper()
	svc := auth.NewService(b, registry.NewRegistry())
	h := transport.NewHandlers(svc, b)
	return httptest.NewServer(transport.NewRouter(h))
}

func TestDeriveSecretIsDeterministicForSamePassphrase(t *testing.T) {
	b := backend.NewRistretto()
	x1, err := DeriveSecret(b, "i_love_bob")
	if err != nil {
		t.Fatalf("derive secret: %v", err)
	}
	x2, err := DeriveSecret(b, "i_love_bob")
	if err != nil {
		t.Fatalf("derive secret: %v", err)
	}
	if x1.BigInt().Cmp(x2.BigInt()) != 0 {
		t.Fatal("expected the same passphrase to derive the same secret")
	}
}

func TestDeriveSecretIsRandomWhenEmpty(t *testing.T) {
	b := backend.NewRistretto()
	x1, err := DeriveSecret(b, "")
	if err != nil {
		t.Fatalf("derive secret: %v", err)
	}
	x2, err := DeriveSecret(b, "")
	if err != nil {
		t.Fatalf("derive secret: %v", err)
	}
	if x1.BigInt().Cmp(x2.BigInt()) == 0 {
		t.Fatal("expected two random secrets to differ (collision astronomically unlikely)")
	}
}

func TestDriverEndToEndLoginSucceeds(t *testing.T) {
	b := backend.NewRistretto()
	srv := newTestServer(t, b)
	defer srv.Close()

	d := NewDriver(srv.URL, b, nil)

	x, err := DeriveSecret(b, "")
	if err != nil {
		t.Fatalf("derive secret: %v", err)
	}
	if err := d.Register("alice", x); err != nil {
		t.Fatalf("register: %v", err)
	}

	sessionID, err := d.Login("alice", x)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sessionID == "" {
		t.Fatal("expected a non-empty session id")
	}
}

func TestDriverLoginWithPassphraseMatchesRegisteredIdentity(t *testing.T) {
	b := backend.NewRFC5114MODP2048256()
	srv := newTestServer(t, b)
	defer srv.Close()

	d := NewDriver(srv.URL, b, nil)

	x, err := DeriveSecret(b, "i_love_bob")
	if err != nil {
		t.Fatalf("derive secret: %v", err)
	}
	if err := d.Register("bob", x); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := d.Login("bob", x); err != nil {
		t.Fatalf("login with correct passphrase-derived secret should succeed: %v", err)
	}
}

func TestDriverLoginFailsForUnregisteredUser(t *testing.T) {
	b := backend.NewRistretto()
	srv := newTestServer(t, b)
	defer srv.Close()

	d := NewDriver(srv.URL, b, nil)
	x, _ := DeriveSecret(b, "")
	if _, err := d.Login("nobody", x); err == nil {
		t.Fatal("expected login against an unregistered user to fail")
	}
}

func TestDriverLoginFailsWithWrongSecret(t *testing.T) {
	b := backend.NewRistretto()
	srv := newTestServer(t, b)
	defer srv.Close()

	d := NewDriver(srv.URL, b, nil)

	x, _ := DeriveSecret(b, "correct-secret")
	if err := d.Register("carol", x); err != nil {
		t.Fatalf("register: %v", err)
	}

	wrong, _ := DeriveSecret(b, "wrong-secret")
	if _, err := d.Login("carol", wrong); err == nil {
		t.Fatal("expected login with the wrong secret to fail")
	}
}

func TestDriverSecondLoginMintsDistinctSession(t *testing.T) {
	b := backend.NewRistretto()
	srv := newTestServer(t, b)
	defer srv.Close()

	d := NewDriver(srv.URL, b, nil)
	x, _ := DeriveSecret(b, "repeat-login")
	if err := d.Register("dave", x); err != nil {
		t.Fatalf("register: %v", err)
	}

	first, err := d.Login("dave", x)
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, err := d.Login("dave", x)
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if first == second {
		t.Fatal("expected two separate logins to mint distinct session ids")
	}
}
