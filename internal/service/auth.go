package service

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/qorohq/qoro/internal/config"
	"github.com/qorohq/qoro/internal/domain"
	"github.com/qorohq/qoro/internal/domain/user"
	"github.com/qorohq/qoro/internal/port/database"
)

const (
	tokenIssuer   = "qoro-core"
	tokenAudience = "qoro"
)

// ErrInvalidCredentials is returned for any login or refresh failure where
// revealing the cause would leak account existence.
var ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)

// AuthService handles login, token issuance, and verification.
type AuthService struct {
	store  database.UserStore
	cfg    config.Auth
	secret []byte
}

// NewAuthService creates a new authentication service.
func NewAuthService(store database.UserStore, cfg config.Auth) *AuthService {
	return &AuthService{
		store:  store,
		cfg:    cfg,
		secret: []byte(cfg.Secret),
	}
}

// LoginResult carries the issued tokens and the authenticated user.
type LoginResult struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int       `json:"expires_in"`
	User         user.User `json:"user"`
}

// Register creates a new user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, orgID, email, name, password, role string) (*user.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", domain.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		Email:          email,
		Name:           name,
		PasswordHash:   string(hash),
		Role:           role,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Login authenticates by email and password and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, u)
}

// Refresh validates a refresh token, rotates it, and issues a new pair.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*LoginResult, error) {
	rt, err := s.store.GetRefreshToken(ctx, hashSHA256(rawToken))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if time.Now().After(rt.ExpiresAt) {
		_ = s.store.DeleteRefreshToken(ctx, rt.Token)
		return nil, ErrInvalidCredentials
	}

	u, err := s.store.GetUser(ctx, rt.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.store.DeleteRefreshToken(ctx, rt.Token); err != nil {
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	return s.issueTokens(ctx, u)
}

// Logout deletes all refresh tokens for a user.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.store.DeleteUserRefreshTokens(ctx, userID)
}

// AdminResetPassword sets a new password for the user with the given email
// and revokes every outstanding refresh token. Intended for the admin CLI,
// not the HTTP surface.
func (s *AuthService) AdminResetPassword(ctx context.Context, email, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("password is required: %w", domain.ErrValidation)
	}
	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdateUserPassword(ctx, u.ID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return s.store.DeleteUserRefreshTokens(ctx, u.ID)
}

// ListUsers returns the accounts of one organization.
func (s *AuthService) ListUsers(ctx context.Context, orgID string) ([]user.User, error) {
	return s.store.ListUsers(ctx, orgID)
}

// ValidateAccessToken verifies a JWT and returns the claims.
func (s *AuthService) ValidateAccessToken(tokenStr string) (*user.TokenClaims, error) {
	return s.verifyJWT(tokenStr)
}

func (s *AuthService) issueTokens(ctx context.Context, u *user.User) (*LoginResult, error) {
	accessToken, err := s.signJWT(u)
	if err != nil {
		return nil, fmt.Errorf("sign jwt: %w", err)
	}

	rawRefresh, err := generateRandomToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	err = s.store.SaveRefreshToken(ctx, user.RefreshToken{
		Token:     hashSHA256(rawRefresh),
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(s.cfg.RefreshTokenTTL),
	})
	if err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: rawRefresh,
		ExpiresIn:    int(s.cfg.AccessTokenTTL.Seconds()),
		User:         *u,
	}, nil
}

// --- JWT implementation (HS256 with stdlib) ---

// jwtHeader is the fixed base64url-encoded header for HS256.
var jwtHeader = base64URLEncode([]byte(`{"alg":"HS256","typ":"JWT"}`))

func (s *AuthService) signJWT(u *user.User) (string, error) {
	now := time.Now()
	claims := user.TokenClaims{
		Subject:        u.ID,
		OrganizationID: u.OrganizationID,
		Role:           u.Role,
		Issuer:         tokenIssuer,
		Audience:       tokenAudience,
		IssuedAt:       now.Unix(),
		ExpiresAt:      now.Add(s.cfg.AccessTokenTTL).Unix(),
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}

	payloadB64 := base64URLEncode(payload)
	signingInput := jwtHeader + "." + payloadB64

	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(signingInput))
	sig := base64URLEncode(mac.Sum(nil))

	return signingInput + "." + sig, nil
}

func (s *AuthService) verifyJWT(tokenStr string) (*user.TokenClaims, error) {
	parts := strings.SplitN(tokenStr, ".", 3)
	if len(parts) != 3 {
		return nil, errors.New("malformed token")
	}

	signingInput := parts[0] + "." + parts[1]
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(signingInput))
	expectedSig := base64URLEncode(mac.Sum(nil))

	if !hmac.Equal([]byte(parts[2]), []byte(expectedSig)) {
		return nil, errors.New("invalid signature")
	}

	payload, err := base64URLDecode(parts[1])
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	var claims user.TokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("unmarshal claims: %w", err)
	}

	if time.Now().Unix() > claims.ExpiresAt {
		return nil, errors.New("token expired")
	}
	if claims.Audience != tokenAudience {
		return nil, errors.New("invalid token audience")
	}
	if claims.Issuer != tokenIssuer {
		return nil, errors.New("invalid token issuer")
	}

	return &claims, nil
}

// --- Helpers ---

func base64URLEncode(data []byte) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString(data), "=")
}

func base64URLDecode(s string) ([]byte, error) {
	// Add padding back
	switch len(s) % 4 {
	case 2:
		s += "=="
	case 3:
		s += "="
	}
	return base64.URLEncoding.DecodeString(s)
}

func hashSHA256(data string) string {
	h := sha256.Sum256([]byte(data))
	return hex.EncodeToString(h[:])
}

func generateRandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
