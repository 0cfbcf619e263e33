// Package session manages the client's single authentication
// credential: login/signup/logout transitions and durability across
// runs. The session owns the API client's token slot; nothing else
// writes it.
package session

import (
	"context"

	"github.com/oguzhankoral/fcrm/pkg/client"
	"github.com/oguzhankoral/fcrm/pkg/domain"
)

// Session tracks whether a user is authenticated and who they are.
type Session struct {
	client        *client.Client
	store         Store
	username      string
	authenticated bool
}

// New creates an unauthenticated session wrapping c. Call Restore to
// pick up persisted credentials.
func New(c *client.Client, store Store) *Session {
	return &Session{client: c, store: store}
}

// Restore loads persisted credentials and, when both token and
// username are present, installs the token and marks the session
// authenticated. Restoration is optimistic: no verify call is made, so
// a stale token surfaces as a 401 on the first real request.
func (s *Session) Restore() error {
	creds, err := s.store.Load()
	if err != nil {
		return err
	}
	if !creds.Valid() {
		return nil
	}
	s.client.SetToken(creds.Token)
	s.username = creds.Username
	s.authenticated = true
	return nil
}

// Login authenticates against the backend. On success the credentials
// are persisted and the token installed; on failure the session is
// left exactly as it was.
func (s *Session) Login(ctx context.Context, username, password string) error {
	tok, err := s.client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	return s.install(tok.AccessToken, username)
}

// Signup creates an account and authenticates with the returned token,
// following the same success path as Login.
func (s *Session) Signup(ctx context.Context, username, password, email, fullName string) error {
	tok, err := s.client.Signup(ctx, client.SignupRequest{
		Username: username,
		Password: password,
		Email:    email,
		FullName: fullName,
	})
	if err != nil {
		return err
	}
	return s.install(tok.AccessToken, username)
}

// Logout clears the persisted credentials and the installed token.
// It always leaves the session unauthenticated, even if removing the
// session file fails.
func (s *Session) Logout() {
	_ = s.store.Clear()
	s.client.SetToken("")
	s.username = ""
	s.authenticated = false
}

// Authenticated reports whether a session is active.
func (s *Session) Authenticated() bool {
	return s.authenticated
}

// Username returns the display identity, or "" when unauthenticated.
func (s *Session) Username() string {
	return s.username
}

// Client returns the API client carrying this session's credential.
func (s *Session) Client() *client.Client {
	return s.client
}

func (s *Session) install(token, username string) error {
	if err := s.store.Save(domain.Credentials{Token: token, Username: username}); err != nil {
		return err
	}
	s.client.SetToken(token)
	s.username = username
	s.authenticated = true
	return nil
}
