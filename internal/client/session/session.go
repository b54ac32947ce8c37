// Package session owns the client's auth state: the bearer token and display
// name, persisted in the local store so a restart resumes the session. It is
// an explicitly constructed object, not ambient state.
package session

import (
	"context"
	"net/http"

	"cavea/internal/client/api"
	"cavea/internal/client/cachestore"
)

const (
	keyAuthToken   = "authToken"
	keyDisplayName = "displayName"
)

type User struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Firstname string `json:"firstname"`
	Email     string `json:"email"`
}

type Session struct {
	exec  *api.Executor
	store *cachestore.Store

	token       string
	displayName string
}

// New restores any persisted session from the store. The returned session's
// TokenFunc must be handed to the executor so requests pick up re-logins.
func New(ctx context.Context, baseURL string, store *cachestore.Store) *Session {
	s := &Session{store: store}
	s.exec = api.NewExecutor(baseURL, s.Token)

	store.Get(ctx, keyAuthToken, &s.token)
	store.Get(ctx, keyDisplayName, &s.displayName)
	return s
}

// Executor returns the session-bound request executor.
func (s *Session) Executor() *api.Executor {
	return s.exec
}

func (s *Session) Token() string {
	return s.token
}

func (s *Session) DisplayName() string {
	return s.displayName
}

func (s *Session) LoggedIn() bool {
	return s.token != ""
}

type loginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (s *Session) Login(ctx context.Context, email, password string) (*User, error) {
	var resp loginResponse
	err := s.exec.Do(ctx, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	s.token = resp.Token
	s.displayName = resp.User.Firstname
	s.store.Set(ctx, keyAuthToken, s.token)
	s.store.Set(ctx, keyDisplayName, s.displayName)
	return &resp.User, nil
}

type RegisterInput struct {
	Name                 string `json:"name"`
	Firstname            string `json:"firstname"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (s *Session) Register(ctx context.Context, input RegisterInput) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := s.exec.Do(ctx, http.MethodPost, "/register", input, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Logout revokes the server-side token and wipes all local state. The wipe
// happens even when the revocation call fails: the user asked to leave.
func (s *Session) Logout(ctx context.Context) error {
	err := s.exec.Do(ctx, http.MethodPost, "/logout", nil, nil)

	s.token = ""
	s.displayName = ""
	s.store.ClearAll(ctx)
	return err
}
