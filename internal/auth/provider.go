package auth

import (
	"context"
	"errors"

	"github.com/yourname/renescens/internal"
)

var ErrInvalidToken = errors.New("invalid token")

// Provider resolves a bearer token to a user. The middleware calls the
// local variant in development and the remote one everywhere else.
type Provider interface {
	ValidateTokenLocal(token string) (*internal.User, error)
	ValidateTokenRemote(ctx context.Context, token string) (*internal.User, error)
}

var (
	_ Provider = (*LocalAuthProvider)(nil)
	_ Provider = (*RemoteAuthProvider)(nil)
)
