// Package auth handles account registration, password checks and the bearer
// tokens that identify the current user on every RPC.
package auth

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// Authenticator verifies who a caller is.
// Services depend on this interface so the credential scheme can change
// without touching them.
type Authenticator interface {
	// Register creates a new account. The returned user already has a Person
	// record with the same ID, so it can pay and take part in bills at once.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user owning email if credential matches.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks the credential before it is stored.
	ValidateCredential(credential string) error
}
