package auth

import (
	"context"

	"github.com/yourname/symptomtracker/internal"
)

// Provider resolves a bearer token to the user it belongs to.
type Provider interface {
	ValidateTokenLocal(token string) (*internal.User, error)
	ValidateTokenRemote(ctx context.Context, token string) (*internal.User, error)
}
