package auth

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"

	"github.com/yourname/renescens/internal"
)

// DefaultUser is seeded when the users file does not exist yet.
var DefaultUser = internal.User{ID: "u1", Token: "MOCK-TOKEN", Name: "Demo User"}

// LocalAuthProvider resolves tokens against a JSON users file.
type LocalAuthProvider struct {
	mu      sync.RWMutex
	byToken map[string]internal.User
	logger  internal.Logger
}

func (a *LocalAuthProvider) ValidateTokenLocal(token string) (*internal.User, error) {
	a.mu.RLock()
	u, ok := a.byToken[token]
	a.mu.RUnlock()
	if ok && token != "" {
		return &u, nil
	}
	a.logger.Warnf("invalid token")
	return nil, ErrInvalidToken
}

func (a *LocalAuthProvider) ValidateTokenRemote(ctx context.Context, token string) (*internal.User, error) {
	a.logger.Warnf("ValidateTokenRemote not implemented in LocalAuthProvider")
	return nil, errors.New("not implemented in LocalAuthProvider")
}

func NewLocalAuthProvider(users []internal.User, logger internal.Logger) *LocalAuthProvider {
	m := make(map[string]internal.User, len(users))
	for _, u := range users {
		m[u.Token] = u
	}
	return &LocalAuthProvider{byToken: m, logger: logger}
}

// LoadLocalAuthProvider reads the users file, seeding it with DefaultUser
// when it is missing.
func LoadLocalAuthProvider(path string, logger internal.Logger) (*LocalAuthProvider, error) {
	users, err := readUsers(path)
	if errors.Is(err, os.ErrNotExist) {
		users = []internal.User{DefaultUser}
		if werr := writeUsers(path, users); werr != nil {
			logger.Warnf("auth: could not seed users file %s: %v", path, werr)
		}
		err = nil
	}
	if err != nil {
		return nil, err
	}
	logger.Infof("auth: loaded %d local users", len(users))
	return NewLocalAuthProvider(users, logger), nil
}

func readUsers(path string) ([]internal.User, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var users []internal.User
	if len(b) == 0 {
		return users, nil
	}
	if err := json.Unmarshal(b, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func writeUsers(path string, users []internal.User) error {
	b, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
