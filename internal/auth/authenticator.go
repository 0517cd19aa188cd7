// Package auth provides credential checks and session tokens.
package auth

import (
	"context"
	"strings"

	"github.com/mmynk/splitsmart/internal/models"
)

// Authenticator creates accounts and checks sign-in credentials. The
// credential is opaque to callers; PasswordAuthenticator treats it as a
// password.
type Authenticator interface {
	// Register creates an account. Emails are unique ignoring case.
	Register(ctx context.Context, email, name, credential string) (*models.User, error)

	// Authenticate returns the account matching email and credential, or
	// ErrInvalidCredentials without saying which one was wrong.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential rejects credentials too weak to register with.
	ValidateCredential(credential string) error
}

var _ Authenticator = (*PasswordAuthenticator)(nil)

// normalizeEmail is the form emails are stored and looked up in.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
