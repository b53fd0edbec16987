// Package transport provides a JSON-over-HTTP binding of the three
// authentication RPCs, built with the same chi router and middleware
// idiom the teacher's server binary uses elsewhere. It is not hardened
// for production exposure; swapping it out for a different transport does
// not change the service's semantics.
package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/10d9e/zk-pass/pkg/auth"
	"github.com/10d9e/zk-pass/pkg/backend"
	"github.com/10d9e/zk-pass/pkg/registry"
	"github.com/10d9e/zk-pass/pkg/wire"
)

// Handlers binds auth.Service operations to HTTP handlers over a single
// backend's wire codec.
type Handlers struct {
	service *auth.Service
	backend backend.Backend
}

// NewHandlers constructs the HTTP handlers for svc, decoding and encoding
// wire values against b.
func NewHandlers(svc *auth.Service, b backend.Backend) *Handlers {
	return &Handlers{service: svc, backend: b}
}

// NewRouter builds the chi router exposing POST /register, POST
// /challenge and POST /verify, with a request-ID/real-IP/logger/recoverer/
// timeout middleware chain matching the teacher's server binary.
func NewRouter(h *Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", h.Health)
	r.Post("/register", h.Register)
	r.Post("/challenge", h.CreateChallenge)
	r.Post("/verify", h.VerifyAuth)

	return r
}

// Health reports that the process is up, in the teacher's minimal
// health-check style.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","backend":%q}`, h.backend.Name())
}

// Register handles POST /register.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req wire.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	y1, err := wire.DecodeElement(h.backend, req.Y1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid y1")
		return
	}

	y2, err := wire.DecodeElement(h.backend, req.Y2)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid y2")
		return
	}

	if err := h.service.Register(req.User, y1, y2); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(wire.RegisterResponse{})
}

// CreateChallenge handles POST /challenge.
func (h *Handlers) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	var req wire.CreateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	r1, err := wire.DecodeElement(h.backend, req.R1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid r1")
		return
	}

	r2, err := wire.DecodeElement(h.backend, req.R2)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid r2")
		return
	}

	authID, c, err := h.service.CreateAuthenticationChallenge(req.User, r1, r2)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wire.CreateChallengeResponse{
		AuthID: authID,
		C:      wire.EncodeScalar(c),
	})
}

// VerifyAuth handles POST /verify.
func (h *Handlers) VerifyAuth(w http.ResponseWriter, r *http.Request) {
	var req wire.VerifyAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	s, err := wire.DecodeScalar(h.backend, req.S)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid s")
		return
	}

	sessionID, err := h.service.VerifyAuthentication(req.AuthID, s)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wire.VerifyAuthResponse{SessionID: sessionID})
}

// statusFor maps a typed service error to an HTTP status code. The
// mapping is deliberately centralized here so it is visible in one place;
// ErrAuthenticationFailed and registry.ErrUnknownUser share a status
// because a deployment may not want to let a prover distinguish "no such
// user" from "wrong secret".
func statusFor(err error) int {
	switch {
	case errors.Is(err, registry.ErrUnknownUser):
		return http.StatusUnauthorized
	case errors.Is(err, registry.ErrUnknownAuthID):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrAuthenticationFailed):
		return http.StatusUnauthorized
	case errors.Is(err, backend.ErrDeserialization):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInternal):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
