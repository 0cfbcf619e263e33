package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/oguzhankoral/fcrm/pkg/client"
	"github.com/oguzhankoral/fcrm/pkg/domain"
)

// newAuthServer serves /auth/login accepting admin/secret and echoes
// the bearer header on /auth/verify.
func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			if r.URL.Query().Get("username") == "admin" && r.URL.Query().Get("password") == "secret" {
				json.NewEncoder(w).Encode(domain.Token{AccessToken: "tok-admin"}) //nolint:errcheck
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"}) //nolint:errcheck
		case "/auth/signup":
			json.NewEncoder(w).Encode(domain.Token{AccessToken: "tok-signup"}) //nolint:errcheck
		case "/auth/verify":
			if r.Header.Get("Authorization") == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"valid": true}) //nolint:errcheck
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestLoginThenRestore(t *testing.T) {
	srv := newAuthServer(t)
	defer srv.Close()
	dir := t.TempDir()

	s := New(client.New(srv.URL, ""), NewFileStore(dir))
	if err := s.Login(context.Background(), "admin", "secret"); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if !s.Authenticated() || s.Username() != "admin" {
		t.Fatalf("after login: authenticated=%v username=%q", s.Authenticated(), s.Username())
	}

	// Simulate a fresh process: new session over the same store.
	s2 := New(client.New(srv.URL, ""), NewFileStore(dir))
	if err := s2.Restore(); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if !s2.Authenticated() || s2.Username() != "admin" {
		t.Errorf("after restore: authenticated=%v username=%q", s2.Authenticated(), s2.Username())
	}
	// The restored token must be installed on the client.
	if err := s2.Client().Verify(context.Background()); err != nil {
		t.Errorf("Verify() with restored token: %v", err)
	}
}

func TestLoginFailureLeavesSessionUntouched(t *testing.T) {
	srv := newAuthServer(t)
	defer srv.Close()
	dir := t.TempDir()

	s := New(client.New(srv.URL, ""), NewFileStore(dir))
	err := s.Login(context.Background(), "admin", "wrong")
	if err == nil {
		t.Fatal("expected login error")
	}
	if s.Authenticated() || s.Username() != "" {
		t.Errorf("failed login mutated session: authenticated=%v username=%q", s.Authenticated(), s.Username())
	}
	if _, statErr := os.Stat(filepath.Join(dir, "session.json")); !os.IsNotExist(statErr) {
		t.Error("failed login persisted credentials")
	}
}

func TestSignupAuthenticates(t *testing.T) {
	srv := newAuthServer(t)
	defer srv.Close()

	s := New(client.New(srv.URL, ""), NewFileStore(t.TempDir()))
	if err := s.Signup(context.Background(), "fresh", "hunter22", "fresh@example.com", ""); err != nil {
		t.Fatalf("Signup() error: %v", err)
	}
	if !s.Authenticated() || s.Username() != "fresh" {
		t.Errorf("after signup: authenticated=%v username=%q", s.Authenticated(), s.Username())
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	srv := newAuthServer(t)
	defer srv.Close()
	dir := t.TempDir()

	s := New(client.New(srv.URL, ""), NewFileStore(dir))
	if err := s.Login(context.Background(), "admin", "secret"); err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	s.Logout()
	if s.Authenticated() || s.Username() != "" {
		t.Errorf("after logout: authenticated=%v username=%q", s.Authenticated(), s.Username())
	}
	if _, err := os.Stat(filepath.Join(dir, "session.json")); !os.IsNotExist(err) {
		t.Error("logout left session file behind")
	}
	// The outbound credential is cleared too.
	if err := s.Client().Verify(context.Background()); err == nil {
		t.Error("Verify() succeeded after logout; token should be gone")
	}
}

func TestLogoutWithoutSessionIsFine(t *testing.T) {
	s := New(client.New("http://localhost:0", ""), NewFileStore(t.TempDir()))
	s.Logout() // nothing persisted, nothing installed
	if s.Authenticated() {
		t.Error("logout on fresh session should stay unauthenticated")
	}
}

func TestRestorePartialCredentialsStaysUnauthenticated(t *testing.T) {
	dir := t.TempDir()
	// Token without username violates the both-or-neither invariant;
	// restore must treat it as no session.
	path := filepath.Join(dir, "session.json")
	if err := os.WriteFile(path, []byte(`{"access_token":"tok","username":""}`), 0600); err != nil {
		t.Fatal(err)
	}

	s := New(client.New("http://localhost:0", ""), NewFileStore(dir))
	if err := s.Restore(); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if s.Authenticated() {
		t.Error("restore with partial credentials should stay unauthenticated")
	}
}

func TestRestoreMissingFile(t *testing.T) {
	s := New(client.New("http://localhost:0", ""), NewFileStore(t.TempDir()))
	if err := s.Restore(); err != nil {
		t.Fatalf("Restore() with no file: %v", err)
	}
	if s.Authenticated() {
		t.Error("restore with no file should stay unauthenticated")
	}
}

func TestFileStorePermissions(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	if err := store.Save(domain.Credentials{Token: "t", Username: "u"}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, "session.json"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("session file mode = %o, want 0600", perm)
	}
}
