package backend

import "testing"

func TestFromFlagsMODP(t *testing.T) {
	names := []string{MODP1024160, MODP2048224, MODP2048256, ""}
	for _, name := range names {
		b, err := FromFlags(TypeDiscreteLog, name, "")
		if err != nil {
			t.Fatalf("unexpected error for modp %q: %v", name, err)
		}
		if b.Order().Sign() <= 0 {
			t.Fatalf("expected positive order for modp %q", name)
		}
	}
}

func TestFromFlagsEllipticCurve(t *testing.T) {
	for _, name := range []string{CurveEC25519, CurvePallas, CurveVesta, ""} {
		b, err := FromFlags(TypeEllipticCurve, "", name)
		if err != nil {
			t.Fatalf("unexpected error for curve %q: %v", name, err)
		}
		if b.Name() == "" {
			t.Fatalf("expected non-empty backend name")
		}
	}
}

func TestFromFlagsUnsupported(t *testing.T) {
	if _, err := FromFlags("unknown", "", ""); err == nil {
		t.Fatal("expected error for unsupported protocol type")
	}
	if _, err := FromFlags(TypeDiscreteLog, "unknown", ""); err == nil {
		t.Fatal("expected error for unsupported MODP parameter set")
	}
	if _, err := FromFlags(TypeEllipticCurve, "", "unknown"); err == nil {
		t.Fatal("expected error for unsupported curve")
	}
}
