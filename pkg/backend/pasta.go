package backend

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"math/big"
)

// Pallas and Vesta are the two curves of the Pasta cycle: each curve's
// base field is the other's scalar field. Both are short Weierstrass
// curves y^2 = x^3 + 5 over their respective base field. No third-party
// Go package in this module's dependency set implements them, so this
// file carries out the affine-coordinate arithmetic directly over
// math/big, the same way the reference material implements other
// from-scratch elliptic-curve arithmetic with big.Int affine points.
var (
	pallasFieldP, _ = new(big.Int).SetString("28948022309329048855892746252171976963363056481941560715954676764349967630337", 10)
	pallasOrderN, _ = new(big.Int).SetString("28948022309329048855892746252171976963363056481941647379679742748393362948097", 10)
)

var curveB = big.NewInt(5)

// pastaPoint is an affine point on a short Weierstrass curve y^2 = x^3+5.
// The zero value with infinity=true is the identity element.
type pastaPoint struct {
	x, y     *big.Int
	infinity bool
}

func (p *pastaPoint) IsIdentity() bool { return p == nil || p.infinity }

func (p *pastaPoint) Equal(other Element) bool {
	o, ok := other.(*pastaPoint)
	if !ok || o == nil {
		return false
	}
	if p.infinity || o.infinity {
		return p.infinity == o.infinity
	}
	return p.x.Cmp(o.x) == 0 && p.y.Cmp(o.y) == 0
}

// Bytes returns the 32-byte compressed encoding: the x-coordinate in
// big-endian, with the top bit of the first byte carrying y's parity.
// The field moduli here are just under 2^255, so that bit is always free.
func (p *pastaPoint) Bytes() []byte {
	if p == nil || p.infinity {
		return make([]byte, 32)
	}
	out := p.x.FillBytes(make([]byte, 32))
	if p.y.Bit(0) == 1 {
		out[0] |= 0x80
	}
	return out
}

// pastaScalar is an integer modulo the curve's group order. Its backing
// value lives in an embedded Secret, so the scalar inherits redacted
// printing and an explicit Zero.
type pastaScalar struct {
	*Secret
}

// PastaCurve implements Backend for one curve of the Pasta cycle.
type PastaCurve struct {
	name string
	p    *big.Int // base field modulus
	n    *big.Int // prime group order
	g, h *pastaPoint
}

// NewPallas constructs the Pallas backend: base field modulus p, group
// order n = Vesta's base field modulus.
func NewPallas() *PastaCurve {
	return newPastaCurve("pallas", pallasFieldP, pallasOrderN)
}

// NewVesta constructs the Vesta backend: base field modulus n, group
// order p = Pallas's base field modulus (the cycle property of Pasta).
func NewVesta() *PastaCurve {
	return newPastaCurve("vesta", pallasOrderN, pallasFieldP)
}

func newPastaCurve(name string, p, n *big.Int) *PastaCurve {
	c := &PastaCurve{name: name, p: p, n: n}
	// g is the curve's standard base point (-1, 2), which lies on
	// y^2 = x^3 + 5 for both Pallas and Vesta; h is derived from a tag.
	c.g = &pastaPoint{x: new(big.Int).Sub(p, big.NewInt(1)), y: big.NewInt(2)}
	c.h = c.derivePoint(name + "/h/v1")
	return c
}

// derivePoint deterministically finds the lexicographically-first curve
// point whose x-coordinate is reachable from hashing tag with an
// incrementing counter. Since the point is found by search rather than
// by a chosen discrete log, no party can claim to know log_g(h) for the
// derived point h.
func (c *PastaCurve) derivePoint(tag string) *pastaPoint {
	for counter := uint32(0); ; counter++ {
		seed := sha256.Sum256(append([]byte(tag), byte(counter), byte(counter>>8), byte(counter>>16), byte(counter>>24)))
		x := new(big.Int).SetBytes(seed[:])
		x.Mod(x, c.p)

		rhs := new(big.Int).Exp(x, big.NewInt(3), c.p)
		rhs.Add(rhs, curveB)
		rhs.Mod(rhs, c.p)

		y, ok := modSqrt(rhs, c.p)
		if !ok {
			continue
		}
		return &pastaPoint{x: x, y: y}
	}
}

// modSqrt computes a square root of a modulo the prime p using the
// Tonelli-Shanks algorithm, reporting ok=false if a is not a quadratic
// residue mod p.
func modSqrt(a, p *big.Int) (*big.Int, bool) {
	zero := big.NewInt(0)
	if a.Sign() == 0 {
		return big.NewInt(0), true
	}

	one := big.NewInt(1)
	two := big.NewInt(2)

	// Euler's criterion.
	pMinus1 := new(big.Int).Sub(p, one)
	legendreExp := new(big.Int).Rsh(pMinus1, 1)
	if new(big.Int).Exp(a, legendreExp, p).Cmp(one) != 0 {
		return nil, false
	}

	// Factor p-1 = q * 2^s with q odd.
	q := new(big.Int).Set(pMinus1)
	s := 0
	for new(big.Int).Mod(q, two).Cmp(zero) == 0 {
		q.Rsh(q, 1)
		s++
	}

	if s == 1 {
		// p ≡ 3 (mod 4): direct formula.
		exp := new(big.Int).Add(p, one)
		exp.Rsh(exp, 2)
		return new(big.Int).Exp(a, exp, p), true
	}

	// Find a quadratic non-residue z.
	z := big.NewInt(2)
	for new(big.Int).Exp(z, legendreExp, p).Cmp(pMinus1) != 0 {
		z.Add(z, one)
	}

	m := s
	c := new(big.Int).Exp(z, q, p)
	t := new(big.Int).Exp(a, q, p)
	qPlus1Half := new(big.Int).Add(q, one)
	qPlus1Half.Rsh(qPlus1Half, 1)
	r := new(big.Int).Exp(a, qPlus1Half, p)

	for t.Cmp(one) != 0 {
		i := 0
		tt := new(big.Int).Set(t)
		for tt.Cmp(one) != 0 {
			tt.Mul(tt, tt)
			tt.Mod(tt, p)
			i++
			if i >= m {
				return nil, false
			}
		}

		b := new(big.Int).Exp(c, new(big.Int).Lsh(one, uint(m-i-1)), p)
		m = i
		c = new(big.Int).Mul(b, b)
		c.Mod(c, p)
		t.Mul(t, c)
		t.Mod(t, p)
		r.Mul(r, b)
		r.Mod(r, p)
	}

	return r, true
}

// add computes p1 + p2 on y^2 = x^3 + 5 (mod c.p).
func (c *PastaCurve) add(p1, p2 *pastaPoint) *pastaPoint {
	if p1.infinity {
		return p2
	}
	if p2.infinity {
		return p1
	}
	if p1.x.Cmp(p2.x) == 0 {
		if new(big.Int).Mod(new(big.Int).Add(p1.y, p2.y), c.p).Sign() == 0 {
			return &pastaPoint{infinity: true}
		}
		return c.double(p1)
	}

	// slope = (y2 - y1) / (x2 - x1)
	num := new(big.Int).Sub(p2.y, p1.y)
	den := new(big.Int).Sub(p2.x, p1.x)
	den.Mod(den, c.p)
	den.ModInverse(den, c.p)
	lambda := new(big.Int).Mul(num, den)
	lambda.Mod(lambda, c.p)

	return c.pointFromSlope(lambda, p1, p2)
}

func (c *PastaCurve) double(p *pastaPoint) *pastaPoint {
	if p.infinity || p.y.Sign() == 0 {
		return &pastaPoint{infinity: true}
	}

	// slope = 3x^2 / 2y  (a = 0)
	num := new(big.Int).Mul(p.x, p.x)
	num.Mul(num, big.NewInt(3))
	den := new(big.Int).Mul(p.y, big.NewInt(2))
	den.Mod(den, c.p)
	den.ModInverse(den, c.p)
	lambda := new(big.Int).Mul(num, den)
	lambda.Mod(lambda, c.p)

	return c.pointFromSlope(lambda, p, p)
}

func (c *PastaCurve) pointFromSlope(lambda *big.Int, p1, p2 *pastaPoint) *pastaPoint {
	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, p1.x)
	x3.Sub(x3, p2.x)
	x3.Mod(x3, c.p)

	y3 := new(big.Int).Sub(p1.x, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, p1.y)
	y3.Mod(y3, c.p)

	return &pastaPoint{x: x3, y: y3}
}

func (c *PastaCurve) scalarMult(base *pastaPoint, e *big.Int) *pastaPoint {
	result := &pastaPoint{infinity: true}
	acc := base
	ee := new(big.Int).Set(e)
	zero := big.NewInt(0)
	for ee.Cmp(zero) > 0 {
		if ee.Bit(0) == 1 {
			result = c.add(result, acc)
		}
		acc = c.double(acc)
		ee.Rsh(ee, 1)
	}
	return result
}

func (c *PastaCurve) Name() string { return c.name }

func (c *PastaCurve) Generators() (Element, Element) { return c.g, c.h }

func (c *PastaCurve) Order() *big.Int { return new(big.Int).Set(c.n) }

func (c *PastaCurve) Identity() Element { return &pastaPoint{infinity: true} }

func (c *PastaCurve) Op(a, b Element) Element {
	ae, aok := a.(*pastaPoint)
	be, bok := b.(*pastaPoint)
	if !aok || !bok {
		return nil
	}
	return c.add(ae, be)
}

func (c *PastaCurve) Exp(base Element, e Scalar) Element {
	be, ok := base.(*pastaPoint)
	if !ok {
		return nil
	}
	es, ok := e.(*pastaScalar)
	if !ok {
		return nil
	}
	return c.scalarMult(be, es.raw())
}

func (c *PastaCurve) Inverse(a Element) Element {
	ae, ok := a.(*pastaPoint)
	if !ok {
		return nil
	}
	if ae.infinity {
		return &pastaPoint{infinity: true}
	}
	return &pastaPoint{x: new(big.Int).Set(ae.x), y: new(big.Int).Sub(c.p, ae.y)}
}

func (c *PastaCurve) RandomScalar() (Scalar, error) {
	v, err := rand.Int(rand.Reader, new(big.Int).Sub(c.n, big.NewInt(1)))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to generate random scalar: %w", c.name, err)
	}
	v.Add(v, big.NewInt(1))
	return &pastaScalar{Secret: newSecret(v)}, nil
}

func (c *PastaCurve) ScalarFromBytes(b []byte) Scalar {
	v := new(big.Int).SetBytes(b)
	v.Mod(v, c.n)
	return &pastaScalar{Secret: newSecret(v)}
}

func (c *PastaCurve) ScalarFromHash(digest []byte) Scalar {
	return c.ScalarFromBytes(digest)
}

func (c *PastaCurve) ElementToBytes(a Element) []byte {
	ae, ok := a.(*pastaPoint)
	if !ok {
		return nil
	}
	return ae.Bytes()
}

func (c *PastaCurve) ElementFromBytes(b []byte) (Element, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("%w: expected 32 bytes, got %d", ErrDeserialization, len(b))
	}

	isAllZero := true
	for _, bb := range b {
		if bb != 0 {
			isAllZero = false
			break
		}
	}
	if isAllZero {
		return &pastaPoint{infinity: true}, nil
	}

	parity := b[0] & 0x80
	xBytes := make([]byte, 32)
	copy(xBytes, b)
	xBytes[0] &^= 0x80

	x := new(big.Int).SetBytes(xBytes)
	if x.Cmp(c.p) >= 0 {
		return nil, fmt.Errorf("%w: x out of range", ErrDeserialization)
	}

	rhs := new(big.Int).Exp(x, big.NewInt(3), c.p)
	rhs.Add(rhs, curveB)
	rhs.Mod(rhs, c.p)

	y, ok := modSqrt(rhs, c.p)
	if !ok {
		return nil, fmt.Errorf("%w: x is not on the curve", ErrDeserialization)
	}

	wantOdd := parity != 0
	if (y.Bit(0) == 1) != wantOdd {
		y = new(big.Int).Sub(c.p, y)
	}

	return &pastaPoint{x: x, y: y}, nil
}
