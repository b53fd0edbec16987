package backend

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/gtank/ristretto255"
)

// ristrettoElement represents a point in the Ristretto255 prime-order group.
type ristrettoElement struct {
	point *ristretto255.Element
}

func (e *ristrettoElement) Bytes() []byte {
	if e == nil || e.point == nil {
		return nil
	}
	return e.point.Encode(nil)
}

func (e *ristrettoElement) Equal(other Element) bool {
	o, ok := other.(*ristrettoElement)
	if !ok || o == nil || o.point == nil || e.point == nil {
		return false
	}
	return e.point.Equal(o.point) == 1
}

func (e *ristrettoElement) IsIdentity() bool {
	if e == nil || e.point == nil {
		return true
	}
	return e.point.Equal(ristretto255.NewElement()) == 1
}

// ristrettoScalar represents a scalar modulo the Ristretto255 group order.
type ristrettoScalar struct {
	scalar *ristretto255.Scalar
}

// Bytes returns the canonical 32-byte big-endian encoding of the scalar.
// The underlying library stores scalars little-endian; this backend
// re-orders on the way in and out so every backend's wire encoding is
// big-endian, matching the MODP backend.
func (s *ristrettoScalar) Bytes() []byte {
	le := s.scalar.Encode(nil)
	be := make([]byte, len(le))
	for i := range le {
		be[len(le)-1-i] = le[i]
	}
	return be
}

func (s *ristrettoScalar) BigInt() *big.Int {
	return new(big.Int).SetBytes(s.Bytes())
}

// String redacts the value; never prints the scalar it guards.
func (s *ristrettoScalar) String() string { return "backend.Secret{REDACTED}" }

// GoString redacts %#v the same way String redacts %v/%s.
func (s *ristrettoScalar) GoString() string { return "backend.Secret{REDACTED}" }

// Zero overwrites the scalar with the group's zero element. The
// underlying ristretto255.Scalar keeps its own internal representation
// private, so this is the most this package can do to clear it; callers
// must not read the scalar again afterward.
func (s *ristrettoScalar) Zero() {
	if s == nil || s.scalar == nil {
		return
	}
	s.scalar = ristretto255.NewScalar()
}

func beToLE32(bi *big.Int) []byte {
	be := bi.FillBytes(make([]byte, 32))
	le := make([]byte, 32)
	for i := range be {
		le[i] = be[len(be)-1-i]
	}
	return le
}

// RistrettoBackend implements Backend over the ristretto255 prime-order
// group built on Curve25519.
type RistrettoBackend struct {
	g, h *ristretto255.Element
}

// domain tag hashed directly to a curve point to derive the second
// generator h, so that no party — not even one who knows the tag —
// can claim to know log_g(h).
const ristrettoHDomainTag = "zk-pass/ristretto255/h/v1"

// NewRistretto constructs the ristretto255 backend. h is derived once,
// deterministically, from the domain tag above via the group's
// hash-to-group primitive (Elligator2, exposed as Element.FromUniformBytes),
// not by hashing to a scalar and multiplying the base point — that would
// hand every party log_g(h) for free.
func NewRistretto() *RistrettoBackend {
	g := ristretto255.NewElement().Base()

	digest := sha256.Sum256([]byte(ristrettoHDomainTag))
	h := ristretto255.NewElement().FromUniformBytes(extendDigest(digest[:]))

	return &RistrettoBackend{g: g, h: h}
}

// extendDigest stretches a 32-byte digest to the 64 bytes FromUniformBytes
// requires, by concatenating it with its own hash.
func extendDigest(digest []byte) []byte {
	second := sha256.Sum256(digest)
	return append(append([]byte{}, digest...), second[:]...)
}

func (b *RistrettoBackend) Name() string { return "ristretto255" }

func (b *RistrettoBackend) Generators() (Element, Element) {
	return &ristrettoElement{point: b.g}, &ristrettoElement{point: b.h}
}

func (b *RistrettoBackend) Order() *big.Int {
	order := new(big.Int).Lsh(big.NewInt(1), 252)
	addend, _ := new(big.Int).SetString("27742317777372353535851937790883648493", 10)
	return order.Add(order, addend)
}

func (b *RistrettoBackend) Identity() Element {
	return &ristrettoElement{point: ristretto255.NewElement()}
}

func (b *RistrettoBackend) Op(a, c Element) Element {
	ae, aok := a.(*ristrettoElement)
	ce, cok := c.(*ristrettoElement)
	if !aok || !cok {
		return nil
	}
	return &ristrettoElement{point: ristretto255.NewElement().Add(ae.point, ce.point)}
}

func (b *RistrettoBackend) Exp(base Element, e Scalar) Element {
	be, ok := base.(*ristrettoElement)
	if !ok {
		return nil
	}
	es, ok := e.(*ristrettoScalar)
	if !ok {
		return nil
	}
	return &ristrettoElement{point: ristretto255.NewElement().ScalarMult(es.scalar, be.point)}
}

func (b *RistrettoBackend) Inverse(a Element) Element {
	ae, ok := a.(*ristrettoElement)
	if !ok {
		return nil
	}
	return &ristrettoElement{point: ristretto255.NewElement().Negate(ae.point)}
}

func (b *RistrettoBackend) RandomScalar() (Scalar, error) {
	seed := make([]byte, 64)
	for {
		if _, err := rand.Read(seed); err != nil {
			return nil, fmt.Errorf("ristretto255: failed to generate random scalar: %w", err)
		}
		sc := ristretto255.NewScalar().FromUniformBytes(seed)
		// FromUniformBytes yields [0, q); redraw on zero to stay in [1, q).
		if new(big.Int).SetBytes(sc.Encode(nil)).Sign() != 0 {
			return &ristrettoScalar{scalar: sc}, nil
		}
	}
}

func (b *RistrettoBackend) ScalarFromBytes(bs []byte) Scalar {
	v := new(big.Int).SetBytes(bs)
	v.Mod(v, b.Order())
	sc := ristretto255.NewScalar()
	if err := sc.Decode(beToLE32(v)); err != nil {
		// v is already reduced mod the group order, so this cannot fail.
		panic(fmt.Sprintf("backend: unreachable scalar decode failure: %v", err))
	}
	return &ristrettoScalar{scalar: sc}
}

func (b *RistrettoBackend) ScalarFromHash(digest []byte) Scalar {
	return b.ScalarFromBytes(digest)
}

func (b *RistrettoBackend) ElementToBytes(a Element) []byte {
	ae, ok := a.(*ristrettoElement)
	if !ok {
		return nil
	}
	return ae.Bytes()
}

func (b *RistrettoBackend) ElementFromBytes(bs []byte) (Element, error) {
	if len(bs) != 32 {
		return nil, fmt.Errorf("%w: expected 32 bytes, got %d", ErrDeserialization, len(bs))
	}
	elem := ristretto255.NewElement()
	if err := elem.Decode(bs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}
	return &ristrettoElement{point: elem}, nil
}
