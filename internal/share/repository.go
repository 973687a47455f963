// AngelaMos | 2026
// repository.go

package share

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/slideview/internal/core"
)

type Repository interface {
	Get(ctx context.Context, presentationID int64, userID string) (*Settings, error)
	// Enable keeps an existing token and only stores token when the
	// presentation has none yet.
	Enable(ctx context.Context, presentationID int64, userID, token string, allowEmbed bool) (*Settings, error)
	Disable(ctx context.Context, presentationID int64, userID string) (*Settings, error)
	SetAllowEmbed(ctx context.Context, presentationID int64, userID string, allow bool) (*Settings, error)
	ReplaceToken(ctx context.Context, presentationID int64, userID, token string) (*Settings, error)

	// View and Embed count the visit and return the presentation in the same
	// statement. Anything not currently shared is not found.
	View(ctx context.Context, token string) (*Published, error)
	Embed(ctx context.Context, token string) (*Published, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const settingsColumns = `
	id, title, is_public, allow_embed, share_token, shared_at, view_count`

func (r *repository) settings(
	ctx context.Context,
	op, query string,
	args ...any,
) (*Settings, error) {
	var s Settings
	err := r.db.GetContext(ctx, &s, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, core.ErrDuplicateKey)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &s, nil
}

func (r *repository) Get(
	ctx context.Context,
	presentationID int64,
	userID string,
) (*Settings, error) {
	query := `SELECT ` + settingsColumns + `
		FROM presentations
		WHERE id = $1 AND user_id = $2`

	return r.settings(ctx, "get share settings", query, presentationID, userID)
}

func (r *repository) Enable(
	ctx context.Context,
	presentationID int64,
	userID, token string,
	allowEmbed bool,
) (*Settings, error) {
	query := `
		UPDATE presentations
		SET share_token = COALESCE(share_token, $3),
		    is_public = TRUE,
		    allow_embed = $4,
		    shared_at = NOW(),
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + settingsColumns

	return r.settings(ctx, "enable sharing", query,
		presentationID, userID, token, allowEmbed)
}

func (r *repository) Disable(
	ctx context.Context,
	presentationID int64,
	userID string,
) (*Settings, error) {
	query := `
		UPDATE presentations
		SET is_public = FALSE, allow_embed = FALSE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + settingsColumns

	return r.settings(ctx, "disable sharing", query, presentationID, userID)
}

func (r *repository) SetAllowEmbed(
	ctx context.Context,
	presentationID int64,
	userID string,
	allow bool,
) (*Settings, error) {
	query := `
		UPDATE presentations
		SET allow_embed = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + settingsColumns

	return r.settings(ctx, "update share settings", query,
		presentationID, userID, allow)
}

func (r *repository) ReplaceToken(
	ctx context.Context,
	presentationID int64,
	userID, token string,
) (*Settings, error) {
	query := `
		UPDATE presentations
		SET share_token = $3, shared_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + settingsColumns

	return r.settings(ctx, "regenerate share token", query,
		presentationID, userID, token)
}

func (r *repository) View(ctx context.Context, token string) (*Published, error) {
	query := `
		UPDATE presentations p
		SET view_count = p.view_count + 1
		FROM users u
		WHERE p.share_token = $1 AND p.is_public AND u.id = p.user_id
		RETURNING p.id, p.title, p.description, p.settings, p.slide_count,
		          p.view_count, u.name AS author`

	return r.published(ctx, "view shared presentation", query, token)
}

func (r *repository) Embed(ctx context.Context, token string) (*Published, error) {
	query := `
		UPDATE presentations
		SET view_count = view_count + 1
		WHERE share_token = $1 AND is_public AND allow_embed
		RETURNING id, title, description, settings, slide_count, view_count,
		          '' AS author`

	return r.published(ctx, "embed shared presentation", query, token)
}

func (r *repository) published(
	ctx context.Context,
	op, query, token string,
) (*Published, error) {
	var p Published
	err := r.db.GetContext(ctx, &p, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &p, nil
}
