// Package registry holds the process-wide state the authentication
// service needs between the three RPCs: registered users' public
// commitments, and pending challenges awaiting an answer.
package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/10d9e/zk-pass/pkg/backend"
)

// UserRecord holds a registered user's public commitment pair
// y1 = g^x, y2 = h^x. Immutable once stored; a re-registration replaces
// the whole record.
type UserRecord struct {
	User string
	Y1   backend.Element
	Y2   backend.Element
}

// PendingAuth is the state created by a challenge request and consumed,
// successfully or not, by the matching verify call.
type PendingAuth struct {
	AuthID    string
	User      string
	C         backend.Scalar
	R1        backend.Element
	R2        backend.Element
	CreatedAt time.Time
}

var (
	// ErrUnknownUser indicates a challenge was requested for a user that
	// has never registered.
	ErrUnknownUser = fmt.Errorf("registry: unknown user")

	// ErrUserExists indicates a user record already exists. Not returned
	// by Register itself (re-registration overwrites), but kept for
	// components that want strict create semantics.
	ErrUserExists = fmt.Errorf("registry: user already exists")

	// ErrUnknownAuthID indicates a verify call referenced a pending
	// challenge that either never existed or has already been consumed.
	ErrUnknownAuthID = fmt.Errorf("registry: unknown or already-consumed auth id")
)

// Registry is the in-memory store backing the authentication service. The
// users map and the pending map are guarded by independent locks, mirroring
// a storage layer that keeps one lock per logical table rather than a
// single coarse lock over the whole store.
type Registry struct {
	usersMu sync.RWMutex
	users   map[string]*UserRecord

	pendingMu sync.RWMutex
	pending   map[string]*PendingAuth
}

// NewRegistry constructs an empty registry. It never starts any background
// goroutine on its own; see PendingJanitor for an opt-in sweeper.
func NewRegistry() *Registry {
	return &Registry{
		users:   make(map[string]*UserRecord),
		pending: make(map[string]*PendingAuth),
	}
}

// PutUser stores or overwrites the commitment pair for user. Re-registration
// is idempotent: an existing record is simply replaced.
func (r *Registry) PutUser(user string, y1, y2 backend.Element) {
	r.usersMu.Lock()
	defer r.usersMu.Unlock()

	r.users[user] = &UserRecord{User: user, Y1: y1, Y2: y2}
}

// GetUser retrieves the commitment pair registered for user.
func (r *Registry) GetUser(user string) (*UserRecord, error) {
	r.usersMu.RLock()
	defer r.usersMu.RUnlock()

	rec, ok := r.users[user]
	if !ok {
		return nil, ErrUnknownUser
	}
	return rec, nil
}

// CreatePendingAuth mints a fresh auth_id and records a PendingAuth entry
// for it. The id is generated while the pending map's lock is held, so two
// concurrent challenge requests can never be assigned the same auth_id.
func (r *Registry) CreatePendingAuth(user string, c backend.Scalar, r1, r2 backend.Element, now time.Time) string {
	r.pendingMu.Lock()
	defer r.pendingMu.Unlock()

	authID := uuid.New().String()
	r.pending[authID] = &PendingAuth{
		AuthID:    authID,
		User:      user,
		C:         c,
		R1:        r1,
		R2:        r2,
		CreatedAt: now,
	}
	return authID
}

// TakePendingAuth removes and returns the PendingAuth entry for authID.
// Single-use by construction: a second call with the same authID fails
// with ErrUnknownAuthID, whether the entry was ever consumed or never
// existed at all.
func (r *Registry) TakePendingAuth(authID string) (*PendingAuth, error) {
	r.pendingMu.Lock()
	defer r.pendingMu.Unlock()

	p, ok := r.pending[authID]
	if !ok {
		return nil, ErrUnknownAuthID
	}
	delete(r.pending, authID)
	return p, nil
}

// SweepPendingOlderThan removes every PendingAuth entry whose CreatedAt
// predates the cutoff, returning the count removed. Used by PendingJanitor;
// the registry itself never calls this on its own.
func (r *Registry) SweepPendingOlderThan(cutoff time.Time) int {
	r.pendingMu.Lock()
	defer r.pendingMu.Unlock()

	removed := 0
	for id, p := range r.pending {
		if p.CreatedAt.Before(cutoff) {
			delete(r.pending, id)
			removed++
		}
	}
	return removed
}

// Stats returns counts of the registry's two maps, for logging and
// diagnostics.
func (r *Registry) Stats() map[string]int {
	r.usersMu.RLock()
	users := len(r.users)
	r.usersMu.RUnlock()

	r.pendingMu.RLock()
	pending := len(r.pending)
	r.pendingMu.RUnlock()

	return map[string]int{
		"users":   users,
		"pending": pending,
	}
}
