package backend

import "math/big"

// Secret wraps a scalar's backing big.Int so the value can never leak
// through an accidental fmt.Println/log.Printf of a Scalar, and so a
// caller that is done with a witness or response can explicitly clear its
// backing bytes. It backs modpScalar and pastaScalar; ristrettoScalar
// redacts and zeroes through its own type instead, since its backing
// store is a ristretto255.Scalar, not a big.Int.
type Secret struct {
	v *big.Int
}

func newSecret(v *big.Int) *Secret {
	return &Secret{v: v}
}

// BigInt returns a copy of the scalar's value, for arithmetic outside the
// backend.
func (s *Secret) BigInt() *big.Int {
	return new(big.Int).Set(s.v)
}

// Bytes returns the scalar's big-endian encoding.
func (s *Secret) Bytes() []byte {
	return s.v.Bytes()
}

// String redacts the value. A Secret printed with %v or %s, deliberately
// or by accident in a log statement, never reveals the scalar it guards.
func (s *Secret) String() string { return "backend.Secret{REDACTED}" }

// GoString redacts the value for %#v the same way String redacts %v/%s.
func (s *Secret) GoString() string { return "backend.Secret{REDACTED}" }

// Zero overwrites the backing big.Int's words in place and resets it to
// zero. The Secret must not be read again afterward; witnesses call this
// once Respond has consumed them.
func (s *Secret) Zero() {
	if s == nil || s.v == nil {
		return
	}
	words := s.v.Bits()
	for i := range words {
		words[i] = 0
	}
	s.v.SetInt64(0)
}

// raw returns the underlying big.Int for this package's own arithmetic.
// Never exposed outside package backend; external callers get only
// BigInt's defensive copy.
func (s *Secret) raw() *big.Int {
	return s.v
}
