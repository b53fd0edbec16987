// Package auth implements the authentication service: the three RPC
// operations that orchestrate the Chaum-Pedersen protocol engine and the
// registry.
package auth

import "fmt"

var (
	// ErrAuthenticationFailed indicates the verification equations did
	// not hold for an otherwise well-formed answer.
	ErrAuthenticationFailed = fmt.Errorf("auth: authentication failed")

	// ErrInternal indicates an unexpected inconsistency, such as a random
	// number generator failure or a registry left in an impossible state.
	ErrInternal = fmt.Errorf("auth: internal error")
)
