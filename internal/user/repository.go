// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carterperez-dev/slideview/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Search(ctx context.Context, f Filter) ([]User, int, error)

	Rename(ctx context.Context, id, name string) error
	SetRole(ctx context.Context, id, role string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	IncrementTokenVersion(ctx context.Context, id string) (int, error)
	SetPlan(ctx context.Context, id string, planID int64, expiresAt *time.Time) error
	SetSubscriptionStatus(ctx context.Context, id, status string, expiresAt *time.Time) error
	Deactivate(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `
	u.id, u.email, u.password_hash, u.name, u.role, u.plan_id,
	COALESCE(p.slug, '') AS plan_slug, u.plan_expires_at,
	u.subscription_id, u.subscription_status, u.token_version,
	u.created_at, u.updated_at, u.deleted_at`

const usersJoinPlans = `
	FROM users u
	LEFT JOIN plans p ON p.id = u.plan_id`

func (r *repository) Create(ctx context.Context, user *User) error {
	err := r.db.GetContext(ctx, user, `
		INSERT INTO users (id, email, password_hash, name, role, plan_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at, token_version`,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Role, user.PlanID,
	)
	switch {
	case err == nil:
		return nil
	case core.IsDuplicateKeyError(err):
		return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	default:
		return fmt.Errorf("create user: %w", err)
	}
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getOne(ctx, "u.id = $1", id)
}

// GetByEmail expects email already lowercased.
func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, "u.email = $1", email)
}

func (r *repository) getOne(ctx context.Context, cond string, arg any) (*User, error) {
	query := "SELECT " + userColumns + usersJoinPlans +
		" WHERE " + cond + " AND u.deleted_at IS NULL"

	var u User
	err := r.db.GetContext(ctx, &u, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Search pages through live users, newest first, and reports the total
// matching the filter.
func (r *repository) Search(ctx context.Context, f Filter) ([]User, int, error) {
	var w conditions
	w.add("u.deleted_at IS NULL")
	if f.Query != "" {
		w.add("(u.email ILIKE $%[1]d OR u.name ILIKE $%[1]d)", "%"+escapeLike(f.Query)+"%")
	}
	if f.Role != "" {
		w.add("u.role = $%d", f.Role)
	}
	if f.Plan != "" {
		w.add("COALESCE(p.slug, '"+DefaultPlanSlug+"') = $%d", f.Plan)
	}

	var total int
	countQuery := "SELECT COUNT(*)" + usersJoinPlans + w.sql()
	if err := r.db.GetContext(ctx, &total, countQuery, w.args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	if total == 0 {
		return []User{}, 0, nil
	}

	n := len(w.args)
	listQuery := fmt.Sprintf("SELECT %s%s%s ORDER BY u.created_at DESC LIMIT $%d OFFSET $%d",
		userColumns, usersJoinPlans, w.sql(), n+1, n+2)
	args := append(w.args, f.Page.Size, f.Page.Offset())

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("search users: %w", err)
	}
	return users, total, nil
}

func (r *repository) Rename(ctx context.Context, id, name string) error {
	return r.update(ctx, "rename user", id, "name = $2", name)
}

func (r *repository) SetRole(ctx context.Context, id, role string) error {
	return r.update(ctx, "set role", id, "role = $2", role)
}

func (r *repository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.update(ctx, "update password", id, "password_hash = $2", passwordHash)
}

func (r *repository) SetPlan(
	ctx context.Context,
	id string,
	planID int64,
	expiresAt *time.Time,
) error {
	return r.update(ctx, "set plan", id,
		"plan_id = $2, plan_expires_at = $3", planID, expiresAt)
}

// SetSubscriptionStatus records a billing status. A nil expiresAt keeps the
// current plan expiry.
func (r *repository) SetSubscriptionStatus(
	ctx context.Context,
	id, status string,
	expiresAt *time.Time,
) error {
	return r.update(ctx, "set subscription status", id,
		"subscription_status = $2, plan_expires_at = COALESCE($3, plan_expires_at)",
		status, expiresAt)
}

// Deactivate soft-deletes the user and bumps token_version so outstanding
// access tokens stop verifying.
func (r *repository) Deactivate(ctx context.Context, id string) error {
	return r.update(ctx, "deactivate user", id,
		"deleted_at = NOW(), token_version = token_version + 1")
}

func (r *repository) IncrementTokenVersion(ctx context.Context, id string) (int, error) {
	var version int
	err := r.db.GetContext(ctx, &version, `
		UPDATE users
		SET token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING token_version`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("increment token version: %w", core.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("increment token version: %w", err)
	}
	return version, nil
}

// update applies set to one live user row. set refers to its arguments
// from $2; $1 is the id.
func (r *repository) update(
	ctx context.Context,
	op, id, set string,
	args ...any,
) error {
	query := "UPDATE users SET " + set + ", updated_at = NOW()" +
		" WHERE id = $1 AND deleted_at IS NULL"

	result, err := r.db.ExecContext(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return nil
}

// conditions accumulates AND-ed predicates. Each predicate's %d verbs are
// replaced with the placeholder number of its argument.
type conditions struct {
	preds []string
	args  []any
}

func (c *conditions) add(pred string, arg ...any) {
	if len(arg) == 0 {
		c.preds = append(c.preds, pred)
		return
	}
	c.args = append(c.args, arg[0])
	c.preds = append(c.preds, fmt.Sprintf(pred, len(c.args)))
}

func (c *conditions) sql() string {
	if len(c.preds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.preds, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
