package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/qorohq/qoro/internal/config"
	"github.com/qorohq/qoro/internal/domain"
	"github.com/qorohq/qoro/internal/domain/user"
	"github.com/qorohq/qoro/internal/middleware"
	"github.com/qorohq/qoro/internal/service"
)

// fakeUserStore covers the slice of database.UserStore that the auth
// service touches in these tests.
type fakeUserStore struct {
	users  map[string]*user.User
	tokens map[string]user.RefreshToken
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:  make(map[string]*user.User),
		tokens: make(map[string]user.RefreshToken),
	}
}

func (s *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeUserStore) GetUser(_ context.Context, id string) (*user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) CreateUser(_ context.Context, u *user.User) error {
	s.users[u.ID] = u
	return nil
}

func (s *fakeUserStore) ListUsers(_ context.Context, orgID string) ([]user.User, error) {
	var out []user.User
	for _, u := range s.users {
		if u.OrganizationID == orgID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *fakeUserStore) UpdateUserPassword(_ context.Context, userID, passwordHash string) error {
	u, ok := s.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (s *fakeUserStore) SaveRefreshToken(_ context.Context, t user.RefreshToken) error {
	s.tokens[t.Token] = t
	return nil
}

func (s *fakeUserStore) GetRefreshToken(_ context.Context, hash string) (*user.RefreshToken, error) {
	t, ok := s.tokens[hash]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (s *fakeUserStore) DeleteRefreshToken(_ context.Context, hash string) error {
	delete(s.tokens, hash)
	return nil
}

func (s *fakeUserStore) DeleteUserRefreshTokens(_ context.Context, userID string) error {
	for k, t := range s.tokens {
		if t.UserID == userID {
			delete(s.tokens, k)
		}
	}
	return nil
}

func newAuthHandler(t *testing.T) (http.Handler, string) {
	t.Helper()

	store := newFakeUserStore()
	svc := service.NewAuthService(store, config.Auth{
		Secret:          "test-secret-0123456789abcdef0123",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 30 * 24 * time.Hour,
	})

	if _, err := svc.Register(context.Background(), "org-1", "ana@qoro.app", "Ana", "s3nha-forte", "admin"); err != nil {
		t.Fatalf("register: %v", err)
	}
	login, err := svc.Login(context.Background(), "ana@qoro.app", "s3nha-forte")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	handler := middleware.Auth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := user.ActorFromContext(r.Context())
		if !ok {
			t.Error("expected actor in context")
		}
		if actor.OrganizationID != "org-1" {
			t.Errorf("expected org-1, got %q", actor.OrganizationID)
		}
		w.WriteHeader(http.StatusOK)
	}))
	return handler, login.AccessToken
}

func TestAuthValidToken(t *testing.T) {
	handler, token := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pulse/conversations", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthMissingToken(t *testing.T) {
	handler, _ := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pulse/conversations", http.NoBody)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMalformedToken(t *testing.T) {
	handler, _ := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pulse/conversations", http.NoBody)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthPublicPathBypasses(t *testing.T) {
	store := newFakeUserStore()
	svc := service.NewAuthService(store, config.Auth{
		Secret:          "test-secret-0123456789abcdef0123",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 30 * 24 * time.Hour,
	})

	handler := middleware.Auth(svc)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/health", "/api/v1/auth/login", "/api/v1/auth/refresh"} {
		req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200 without token, got %d", path, rec.Code)
		}
	}
}
