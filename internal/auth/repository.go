// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/slideview/internal/core"
)

type SessionStore interface {
	Create(ctx context.Context, s *Session) error
	FindByHash(ctx context.Context, tokenHash string) (*Session, error)
	// MarkUsed fails with core.ErrNotFound when the session was already
	// rotated or revoked.
	MarkUsed(ctx context.Context, id, replacedByID string) error
	Revoke(ctx context.Context, id string) error
	RevokeFamily(ctx context.Context, familyID string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) SessionStore {
	return &repository{db: db}
}

const sessionColumns = `
	id, user_id, token_hash, family_id, expires_at, created_at,
	is_used, used_at, revoked_at, replaced_by_id, user_agent, ip_address`

func (r *repository) Create(ctx context.Context, s *Session) error {
	query := `
		INSERT INTO refresh_tokens (
			id, user_id, token_hash, family_id, expires_at, user_agent, ip_address
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &s.CreatedAt, query,
		s.ID, s.UserID, s.TokenHash, s.FamilyID, s.ExpiresAt, s.UserAgent, s.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *repository) FindByHash(ctx context.Context, tokenHash string) (*Session, error) {
	query := `SELECT` + sessionColumns + ` FROM refresh_tokens WHERE token_hash = $1`

	var s Session
	err := r.db.GetContext(ctx, &s, query, tokenHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find session: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &s, nil
}

func (r *repository) MarkUsed(ctx context.Context, id, replacedByID string) error {
	query := `
		UPDATE refresh_tokens
		SET is_used = TRUE, used_at = NOW(), replaced_by_id = $2
		WHERE id = $1 AND NOT is_used AND revoked_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id, replacedByID)
	if err != nil {
		return fmt.Errorf("mark session used: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark session used: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("mark session used: %w", core.ErrNotFound)
	}
	return nil
}

func (r *repository) Revoke(ctx context.Context, id string) error {
	return r.revoke(ctx, "revoke session", `id = $1`, id)
}

func (r *repository) RevokeFamily(ctx context.Context, familyID string) error {
	return r.revoke(ctx, "revoke session family", `family_id = $1`, familyID)
}

func (r *repository) RevokeAllForUser(ctx context.Context, userID string) error {
	return r.revoke(ctx, "revoke user sessions", `user_id = $1`, userID)
}

func (r *repository) revoke(ctx context.Context, op, where string, arg string) error {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE revoked_at IS NULL AND ` + where

	if _, err := r.db.ExecContext(ctx, query, arg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
