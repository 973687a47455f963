// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/middleware"
)

type Accounts interface {
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	// Create stores a new user on the default plan.
	Create(ctx context.Context, email, passwordHash, name string) (*Account, error)
	IncrementTokenVersion(ctx context.Context, id string) (int, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type PremiumChecker interface {
	HasPremium(ctx context.Context, userID string) (bool, error)
}

type ServiceConfig struct {
	Sessions    SessionStore
	Accounts    Accounts
	Signer      *Signer
	Revocations *Revocations
	Premium     PremiumChecker
	RefreshTTL  time.Duration
	Logger      *slog.Logger
}

type Service struct {
	sessions    SessionStore
	accounts    Accounts
	signer      *Signer
	revocations *Revocations
	premium     PremiumChecker
	refreshTTL  time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		sessions:    cfg.Sessions,
		accounts:    cfg.Accounts,
		signer:      cfg.Signer,
		revocations: cfg.Revocations,
		premium:     cfg.Premium,
		refreshTTL:  cfg.RefreshTTL,
		logger:      logger,
		now:         time.Now,
	}
}

func invalidCredentials() *core.AppError {
	return core.NewAppError(
		core.ErrUnauthorized,
		"invalid email or password",
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
	)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
	client Client,
) (*AuthResponse, error) {
	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acct, err := s.accounts.Create(
		ctx,
		normalizeEmail(req.Email),
		hash,
		strings.TrimSpace(req.Name),
	)
	if errors.Is(err, core.ErrDuplicateKey) {
		return nil, core.DuplicateError("email")
	}
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	resp, _, err := s.startSession(ctx, acct, client, "")
	return resp, err
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	client Client,
) (*AuthResponse, error) {
	acct, err := s.accounts.GetByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, core.ErrNotFound) {
		core.BurnPasswordCheck(req.Password)
		return nil, invalidCredentials()
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}

	match, rehash, err := core.CheckPassword(req.Password, acct.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("check password: %w", err)
	}
	if !match {
		return nil, invalidCredentials()
	}

	if rehash {
		s.upgradeHash(ctx, acct.ID, req.Password)
	}

	resp, _, err := s.startSession(ctx, acct, client, "")
	return resp, err
}

func (s *Service) upgradeHash(ctx context.Context, userID, password string) {
	hash, err := core.HashPassword(password)
	if err == nil {
		err = s.accounts.UpdatePassword(ctx, userID, hash)
	}
	if err != nil {
		s.logger.Warn("password rehash failed", "user_id", userID, "error", err)
	}
}

// Refresh rotates a refresh token. Presenting a token that was already
// rotated revokes its whole family.
func (s *Service) Refresh(
	ctx context.Context,
	raw string,
	client Client,
) (*AuthResponse, error) {
	sess, err := s.sessions.FindByHash(ctx, core.HashToken(raw))
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.TokenInvalidError()
	}
	if err != nil {
		return nil, err
	}

	if sess.IsUsed {
		return nil, s.reuseDetected(ctx, sess)
	}

	switch err := sess.usable(s.now()); {
	case errors.Is(err, core.ErrTokenRevoked):
		return nil, core.TokenRevokedError()
	case errors.Is(err, core.ErrTokenExpired):
		return nil, core.TokenExpiredError()
	}

	acct, err := s.accounts.GetByID(ctx, sess.UserID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.TokenInvalidError()
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}

	resp, newID, err := s.startSession(ctx, acct, client, sess.FamilyID)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.MarkUsed(ctx, sess.ID, newID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, s.reuseDetected(ctx, sess)
		}
		return nil, err
	}

	return resp, nil
}

func (s *Service) reuseDetected(ctx context.Context, sess *Session) error {
	if err := s.sessions.RevokeFamily(ctx, sess.FamilyID); err != nil {
		s.logger.Error("revoke session family", "family_id", sess.FamilyID, "error", err)
	}

	s.logger.Warn("refresh token reuse detected",
		"user_id", sess.UserID,
		"family_id", sess.FamilyID,
	)

	return core.NewAppError(
		core.ErrTokenRevoked,
		"refresh token reuse detected, sessions from this login were revoked",
		http.StatusUnauthorized,
		"TOKEN_REUSE_DETECTED",
	)
}

// Logout revokes the calling access token and, when given, the refresh
// token of the same session.
func (s *Service) Logout(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
	refreshToken string,
) error {
	if claims == nil {
		return core.UnauthorizedError("")
	}

	if err := s.revocations.Deny(ctx, claims.ID, claims.ExpiresAt); err != nil {
		return err
	}

	if refreshToken == "" {
		return nil
	}

	sess, err := s.sessions.FindByHash(ctx, core.HashToken(refreshToken))
	if errors.Is(err, core.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if sess.UserID != claims.UserID {
		return core.ForbiddenError("")
	}

	return s.sessions.Revoke(ctx, sess.ID)
}

// LogoutAll ends every session of the user, including access tokens that
// are still within their lifetime.
func (s *Service) LogoutAll(ctx context.Context, userID string) error {
	if err := s.sessions.RevokeAllForUser(ctx, userID); err != nil {
		return err
	}

	version, err := s.accounts.IncrementTokenVersion(ctx, userID)
	if err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}

	return s.revocations.RaiseVersion(ctx, userID, version)
}

func (s *Service) Me(ctx context.Context, userID string) (*AccountResponse, error) {
	acct, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := ToAccountResponse(acct)
	if s.premium != nil {
		premium, err := s.premium.HasPremium(ctx, userID)
		if err != nil {
			return nil, err
		}
		resp.HasPremium = &premium
	}

	return &resp, nil
}

// VerifyAccessToken satisfies middleware.TokenVerifier. Revocation lookups
// that fail because redis is unreachable let the token through.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	raw string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.signer.Parse(raw)
	if err != nil {
		return nil, err
	}

	err = s.revocations.Check(ctx, claims)
	switch {
	case errors.Is(err, core.ErrTokenRevoked):
		return nil, err
	case err != nil:
		s.logger.Warn("revocation check unavailable", "error", err)
	}

	return claims, nil
}

func (s *Service) startSession(
	ctx context.Context,
	acct *Account,
	client Client,
	familyID string,
) (*AuthResponse, string, error) {
	access, err := s.signer.Issue(acct)
	if err != nil {
		return nil, "", err
	}

	raw, err := core.GenerateRefreshToken()
	if err != nil {
		return nil, "", err
	}

	if familyID == "" {
		familyID = uuid.NewString()
	}

	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    acct.ID,
		TokenHash: core.HashToken(raw),
		FamilyID:  familyID,
		ExpiresAt: s.now().Add(s.refreshTTL),
		UserAgent: client.UserAgent,
		IPAddress: client.IP,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, "", err
	}

	return &AuthResponse{
		User: ToAccountResponse(acct),
		Tokens: TokenPair{
			AccessToken:  access.Token,
			RefreshToken: raw,
			TokenType:    "Bearer",
			ExpiresIn:    int(s.signer.TTL() / time.Second),
			ExpiresAt:    access.ExpiresAt,
		},
	}, sess.ID, nil
}
