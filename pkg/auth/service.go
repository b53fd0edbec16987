package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/10d9e/zk-pass/pkg/backend"
	"github.com/10d9e/zk-pass/pkg/chaumpedersen"
	"github.com/10d9e/zk-pass/pkg/registry"
)

// Service implements the three RPCs driving the Chaum-Pedersen state
// machine over a single backend's group arithmetic: Register,
// CreateAuthenticationChallenge, VerifyAuthentication.
type Service struct {
	backend  backend.Backend
	registry *registry.Registry
}

// NewService constructs a Service over b's group arithmetic, storing state
// in r.
func NewService(b backend.Backend, r *registry.Registry) *Service {
	return &Service{backend: b, registry: r}
}

// Register stores user's public commitment pair, replacing any existing
// registration for the same user.
func (s *Service) Register(user string, y1, y2 backend.Element) error {
	s.registry.PutUser(user, y1, y2)
	return nil
}

// CreateAuthenticationChallenge looks up user, fails with
// registry.ErrUnknownUser if it has never registered, and otherwise mints
// a fresh auth_id and challenge bound to the prover's commitment pair
// (r1, r2).
func (s *Service) CreateAuthenticationChallenge(user string, r1, r2 backend.Element) (authID string, c backend.Scalar, err error) {
	if _, err := s.registry.GetUser(user); err != nil {
		return "", nil, err
	}

	c, err = chaumpedersen.Challenge(s.backend)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	authID = s.registry.CreatePendingAuth(user, c, r1, r2, time.Now())
	return authID, c, nil
}

// VerifyAuthentication consumes the PendingAuth entry for authID —
// single-use regardless of outcome — and checks the prover's response s
// against the registered commitment. It returns a fresh session
// identifier on success, or ErrAuthenticationFailed if the verification
// equations do not hold.
func (s *Service) VerifyAuthentication(authID string, response backend.Scalar) (sessionID string, err error) {
	pending, err := s.registry.TakePendingAuth(authID)
	if err != nil {
		return "", err
	}

	user, err := s.registry.GetUser(pending.User)
	if err != nil {
		return "", fmt.Errorf("%w: registered user %q vanished between challenge and verify", ErrInternal, pending.User)
	}

	ok := chaumpedersen.Verify(s.backend, user.Y1, user.Y2, pending.R1, pending.R2, pending.C, response)
	if !ok {
		return "", ErrAuthenticationFailed
	}

	return uuid.New().String(), nil
}
