// Package auth registers and authenticates users against the profile store.
//
// Passwords are stored as unsalted SHA-256 hex digests so existing users
// files keep working.
package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/careercoach/internal/profile"
)

var (
	// ErrInvalidCredentials covers both an unknown user and a wrong
	// password, so callers cannot tell which.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrMissingCredentials is returned when a username or password is blank.
	ErrMissingCredentials = errors.New("provide username and password")

	// ErrUsernameTaken is returned by Register for an existing user.
	ErrUsernameTaken = errors.New("username already exists")
)

// HashPassword returns the lowercase hex SHA-256 digest of password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Service checks credentials against a profile store.
type Service struct {
	store profile.Store
}

// NewService creates a Service backed by store.
func NewService(store profile.Store) *Service {
	return &Service{store: store}
}

// Register creates a user with an empty profile.
func (s *Service) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrMissingCredentials
	}
	err := s.store.Create(ctx, username, profile.Record{PasswordHash: HashPassword(password)})
	if errors.Is(err, profile.ErrExists) {
		return ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("register %s: %w", username, err)
	}
	return nil
}

// Authenticate returns the user's stored profile when the password matches.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*profile.Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	rec, err := s.store.Record(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	// Hash even for unknown users so both failures cost the same.
	got := HashPassword(password)
	want := ""
	if rec != nil {
		want = rec.PasswordHash
	}
	if rec == nil || subtle.ConstantTimeCompare([]byte(got), []byte(strings.ToLower(want))) != 1 {
		return nil, ErrInvalidCredentials
	}
	p := rec.Profile
	return &p, nil
}
