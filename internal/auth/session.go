package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fekuna/omnipos-pos-client/internal/backend"
	"github.com/fekuna/omnipos-pos-client/internal/logger"
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var ErrMissingCredentials = errors.New("username and password are required")

// LoginAPI is the part of the backend client a session logs in through.
type LoginAPI interface {
	Login(ctx context.Context, username, password string) (*backend.LoginResult, error)
	Profile(ctx context.Context) (*model.User, error)
}

// Session is the signed-in cashier of this terminal. It is created once at
// bootstrap, handed to the backend client as its token source and ended on
// logout or when a token refresh is rejected.
type Session struct {
	mu        sync.RWMutex
	user      *model.User
	access    string
	refresh   string
	expiresAt time.Time
	onExpire  []func()
	logger    logger.ZapLogger
}

func NewSession(log logger.ZapLogger) *Session {
	return &Session{logger: log}
}

// Login authenticates against the backend and starts the session.
func (s *Session) Login(ctx context.Context, api LoginAPI, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	res, err := api.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	s.Begin(res.User, res.Tokens)
	s.logger.Info("Session started", zap.String("username", res.User.Username), zap.String("role", string(res.User.Role)))
	return &res.User, nil
}

// Begin installs a user and token pair.
func (s *Session) Begin(user model.User, tokens model.Tokens) {
	exp, _ := TokenExpiry(tokens.Access)
	s.mu.Lock()
	s.user = &user
	s.access = tokens.Access
	s.refresh = tokens.Refresh
	s.expiresAt = exp
	s.mu.Unlock()
}

// ReloadProfile refreshes the cached user from /core/profile/.
func (s *Session) ReloadProfile(ctx context.Context, api LoginAPI) error {
	u, err := api.Profile(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
	return nil
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

func (s *Session) SetAccessToken(access string) {
	exp, _ := TokenExpiry(access)
	s.mu.Lock()
	s.access = access
	s.expiresAt = exp
	s.mu.Unlock()
}

// Expire ends the session and runs the OnExpire hooks once.
func (s *Session) Expire() {
	s.mu.Lock()
	wasActive := s.access != "" || s.user != nil
	s.user = nil
	s.access, s.refresh = "", ""
	s.expiresAt = time.Time{}
	hooks := append([]func(){}, s.onExpire...)
	s.mu.Unlock()

	if !wasActive {
		return
	}
	s.logger.Info("Session ended")
	for _, fn := range hooks {
		fn()
	}
}

// Logout is Expire under the name the UI uses.
func (s *Session) Logout() { s.Expire() }

func (s *Session) OnExpire(fn func()) {
	s.mu.Lock()
	s.onExpire = append(s.onExpire, fn)
	s.mu.Unlock()
}

func (s *Session) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

func (s *Session) Authenticated() bool {
	return s.AccessToken() != ""
}

// ExpiresAt is the access token's exp claim; zero when the token carries
// none.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// Cashier is the display name printed on receipts.
func (s *Session) Cashier() string {
	if u, ok := s.User(); ok {
		return u.DisplayName()
	}
	return ""
}

// TokenExpiry reads the exp claim without verifying the signature. The
// backend owns the signing key; the client only needs the date.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
