// Package chaumpedersen implements the Chaum-Pedersen Sigma protocol for
// proving equality of discrete logarithms in zero knowledge.
//
// # Protocol Overview
//
// A prover holds a secret x and registers two public values
//
//	y1 = g^x
//	y2 = h^x
//
// with a verifier, where g and h are independent generators of a group of
// prime order q. The prover wants to convince the verifier it still knows x
// without revealing it.
//
//  1. COMMITMENT (Prover -> Verifier):
//     - Prover generates a random witness k
//     - Prover computes r1 = g^k, r2 = h^k
//     - Prover sends (r1, r2) to the verifier
//
//  2. CHALLENGE (Verifier -> Prover):
//     - Verifier generates a random challenge c
//     - Verifier sends c to the prover
//
//  3. RESPONSE (Prover -> Verifier):
//     - Prover computes s = k - c*x (mod q)
//     - Prover sends s to the verifier
//
//  4. VERIFICATION:
//     - Verifier checks: r1 == g^s * y1^c  AND  r2 == h^s * y2^c
//     - If both hold, the proof is valid
//
// # Why This Works
//
//	g^s * y1^c = g^(k - c*x) * (g^x)^c = g^k * g^(-c*x) * g^(c*x) = g^k = r1
//
// and symmetrically for h, y2, r2. Because the same (c, s) pair must
// satisfy both equations, a prover who used different exponents for y1 and
// y2 cannot satisfy both checks except with probability 1/q, which gives
// the protocol its soundness.
package chaumpedersen

import (
	"fmt"
	"math/big"

	"github.com/10d9e/zk-pass/pkg/backend"
)

// Commitment is the output of Commit: the prover's public values (y1, y2),
// the commitment pair (r1, r2), and the witness k that must stay with the
// prover until Respond consumes it.
type Commitment struct {
	Y1, Y2 backend.Element
	R1, R2 backend.Element
	K      backend.Scalar
}

// Commit computes y1 = g^x, y2 = h^x and, using a freshly drawn witness k,
// r1 = g^k, r2 = h^k. If the drawn k is 0, Commit resamples: k = 0 produces
// a degenerate, visibly-identity commitment pair that a real prover would
// never emit.
func Commit(b backend.Backend, x backend.Scalar) (*Commitment, error) {
	g, h := b.Generators()

	var k backend.Scalar
	for {
		candidate, err := b.RandomScalar()
		if err != nil {
			return nil, fmt.Errorf("chaumpedersen: failed to generate witness: %w", err)
		}
		if candidate.BigInt().Sign() != 0 {
			k = candidate
			break
		}
	}

	return &Commitment{
		Y1: b.Exp(g, x),
		Y2: b.Exp(h, x),
		R1: b.Exp(g, k),
		R2: b.Exp(h, k),
		K:  k,
	}, nil
}

// Challenge draws a challenge scalar c uniformly from [1, q).
func Challenge(b backend.Backend) (backend.Scalar, error) {
	c, err := b.RandomScalar()
	if err != nil {
		return nil, fmt.Errorf("chaumpedersen: failed to generate challenge: %w", err)
	}
	return c, nil
}

// Respond computes the prover's response to a challenge c:
//
//	s = k - c*x (mod q)
//
// where k is the witness from Commit and x is the secret. The response
// reveals nothing about x on its own: k acts as a one-time mask, and a
// fresh k is required for every proof. k is single-use by construction:
// once its value has been folded into s, Respond zeroes it, since the
// caller has no further legitimate use for it.
func Respond(b backend.Backend, x, k, c backend.Scalar) backend.Scalar {
	q := b.Order()

	cx := new(big.Int).Mul(c.BigInt(), x.BigInt())
	cx.Mod(cx, q)

	s := new(big.Int).Sub(k.BigInt(), cx)
	s.Mod(s, q)

	k.Zero()

	return b.ScalarFromBytes(padToOrder(s, q))
}

// Verify checks a Chaum-Pedersen proof:
//
//	r1 == g^s * y1^c  AND  r2 == h^s * y2^c
//
// Both equations are checked unconditionally; the second is not
// short-circuited away if the first fails, so the two checks always
// exercise the same computation regardless of the first's outcome.
func Verify(b backend.Backend, y1, y2, r1, r2 backend.Element, c, s backend.Scalar) bool {
	g, h := b.Generators()

	left1 := b.Op(b.Exp(g, s), b.Exp(y1, c))
	left2 := b.Op(b.Exp(h, s), b.Exp(y2, c))

	ok1 := r1.Equal(left1)
	ok2 := r2.Equal(left2)

	return ok1 && ok2
}

// padToOrder converts num to a fixed-width big-endian byte slice sized to
// the byte length of q, so every backend receives a consistently-shaped
// input to ScalarFromBytes regardless of num's magnitude.
func padToOrder(num, q *big.Int) []byte {
	width := (q.BitLen() + 7) / 8
	raw := num.Bytes()
	if len(raw) >= width {
		return raw
	}
	padded := make([]byte, width)
	copy(padded[width-len(raw):], raw)
	return padded
}
