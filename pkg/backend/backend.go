// Package backend provides abstract interfaces for the group arithmetic that
// the Chaum-Pedersen protocol engine is built on.
//
// # Supported Groups
//
// The package supports six concrete prime-order groups, in three families:
//
//   - RFC 5114 MODP groups: multiplicative subgroups of (Z/pZ)* of prime
//     order q, carried as big.Int. Three parameter sizes are shipped
//     (1024/160, 2048/224, 2048/256).
//   - ristretto255: a prime-order group built on Curve25519. Points and
//     scalars are both 32 bytes, with no cofactor leakage.
//   - Pallas / Vesta: the two curves of the Pasta cycle, each the scalar
//     field of the other. Carried as big.Int affine coordinates since no
//     third-party Go implementation of these curves is available.
//
// # Group Basics
//
// Every backend exposes the same small vocabulary:
//   - two independent generators, g and h, of a subgroup of prime order q
//   - a group operation Op (multiplication mod p, or point addition)
//   - scalar multiplication Exp, written g^x throughout this module even
//     for the additive elliptic-curve backends
//   - canonical serialization of elements and scalars: minimal-length
//     big-endian integers for MODP, 32-byte encodings for curve points
//
// The hardness of the discrete logarithm problem in each of these groups
// is what makes the Chaum-Pedersen protocol sound: an element y = g^x does
// not reveal x.
package backend

import (
	"fmt"
	"math/big"
)

// Element represents a member of the backend's group: a residue mod p for
// the MODP backends, or a curve point for the elliptic backends.
type Element interface {
	// Bytes returns the canonical encoding of the element: the minimal-length
	// big-endian residue for MODP backends, 32 bytes for curve backends.
	Bytes() []byte

	// Equal reports whether two elements are identical. Implementations
	// compare the canonical representation, not pointer identity.
	Equal(other Element) bool

	// IsIdentity reports whether this is the group's identity element.
	// A commitment or public value equal to the identity is degenerate.
	IsIdentity() bool
}

// Scalar represents an integer modulo the group order q.
//
// Scalars are used as:
//   - secrets (x, the discrete log a prover claims to know)
//   - commitment witnesses (k, the randomness behind r1 = g^k, r2 = h^k)
//   - challenges (c, chosen by the verifier)
//   - responses (s = k - c*x mod q)
type Scalar interface {
	// Bytes returns the scalar as a big-endian byte slice: 32 bytes for
	// ristretto255, minimal length (no zero padding) for the MODP and
	// Pasta backends.
	Bytes() []byte

	// BigInt returns the scalar's value for arithmetic outside the
	// backend. The chaumpedersen engine combines scalars generically
	// via big.Int so it never needs to know a backend's internal
	// representation.
	BigInt() *big.Int

	// Zero destroys the scalar's backing material in place. After Zero,
	// the scalar's value is unspecified and it must not be read or used
	// in further arithmetic. The engine calls this on a witness once a
	// response has consumed it.
	Zero()
}

// Backend abstracts the group arithmetic needed by the protocol engine.
//
// Exactly one concrete implementation is active in a given process,
// selected once at startup from the CLI flags (see FromFlags). Nothing in
// this package or its callers performs virtual dispatch inside a single
// backend's own arithmetic; the interface boundary sits between the
// engine and the backend, not within a backend's hot path.
type Backend interface {
	// Name returns the backend identifier, used in log lines and in the
	// transport's health-check response.
	Name() string

	// Generators returns the two independent generators g, h fixed by
	// this backend's parameter set.
	Generators() (g, h Element)

	// Order returns q, the prime order of the subgroup generated by g
	// and h. All scalar arithmetic (commitment witnesses, challenges,
	// responses) is performed modulo this value.
	Order() *big.Int

	// Identity returns the group's identity element.
	Identity() Element

	// Op computes a (op) b using the backend's group operation:
	// multiplication mod p for MODP backends, point addition for
	// elliptic backends.
	Op(a, b Element) Element

	// Exp computes base^e — scalar multiplication, written g^x
	// throughout this module regardless of backend.
	Exp(base Element, e Scalar) Element

	// Inverse returns the group inverse of a.
	Inverse(a Element) Element

	// RandomScalar draws a scalar uniformly from [1, q) using a
	// cryptographically secure random source.
	RandomScalar() (Scalar, error)

	// ScalarFromBytes reduces b modulo q and returns the resulting
	// scalar. Total function: any input byte string produces some
	// scalar in [0, q).
	ScalarFromBytes(b []byte) Scalar

	// ScalarFromHash reduces a hash digest modulo q. Used by the client
	// driver to derive a deterministic secret from a passphrase.
	ScalarFromHash(digest []byte) Scalar

	// ElementToBytes returns the canonical encoding of a.
	ElementToBytes(a Element) []byte

	// ElementFromBytes parses the canonical encoding of an element,
	// failing with ErrDeserialization if b is malformed or not a valid
	// member of the group.
	ElementFromBytes(b []byte) (Element, error)
}

var (
	// ErrInvalidElement indicates a byte string did not decode to a
	// valid group element.
	ErrInvalidElement = fmt.Errorf("backend: invalid element")

	// ErrInvalidScalar indicates a byte string did not decode to a
	// valid scalar, or a scalar was out of the expected range.
	ErrInvalidScalar = fmt.Errorf("backend: invalid scalar")

	// ErrDeserialization is the error other components check against at
	// the package boundary; ElementFromBytes and the wire codec wrap it
	// together with the specific cause.
	ErrDeserialization = fmt.Errorf("backend: deserialization error")
)
