package backend

import "testing"

func TestModpBackends(t *testing.T) {
	backends := []*ModpBackend{
		NewRFC5114MODP1024160(),
		NewRFC5114MODP2048224(),
		NewRFC5114MODP2048256(),
	}

	for _, b := range backends {
		g, h := b.Generators()
		if g.Equal(h) {
			t.Fatalf("%s: expected g and h to be distinct", b.Name())
		}
		if g.IsIdentity() || h.IsIdentity() {
			t.Fatalf("%s: generators must not be the identity", b.Name())
		}

		scalar, err := b.RandomScalar()
		if err != nil {
			t.Fatalf("%s: failed to generate scalar: %v", b.Name(), err)
		}
		if scalar.BigInt().Sign() <= 0 || scalar.BigInt().Cmp(b.Order()) >= 0 {
			t.Fatalf("%s: scalar out of range [1, q)", b.Name())
		}

		y := b.Exp(g, scalar)
		encoded := b.ElementToBytes(y)
		parsed, err := b.ElementFromBytes(encoded)
		if err != nil {
			t.Fatalf("%s: failed to parse element: %v", b.Name(), err)
		}
		if !parsed.Equal(y) {
			t.Fatalf("%s: parsed element mismatch", b.Name())
		}
	}
}

func TestModpInverse(t *testing.T) {
	b := NewRFC5114MODP2048256()
	g, _ := b.Generators()

	inv := b.Inverse(g)
	identity := b.Op(g, inv)
	if !identity.IsIdentity() {
		t.Fatal("expected g composed with its inverse to be the identity")
	}
}

func TestModpExpMatchesRepeatedOp(t *testing.T) {
	b := NewRFC5114MODP1024160()
	g, _ := b.Generators()

	three := b.ScalarFromBytes([]byte{3})
	byExp := b.Exp(g, three)

	byOp := b.Op(b.Op(g, g), g)
	if !byExp.Equal(byOp) {
		t.Fatal("g^3 should equal g composed with itself three times")
	}
}
