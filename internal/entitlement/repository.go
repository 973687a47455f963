// AngelaMos | 2026
// repository.go

package entitlement

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/slideview/internal/core"
)

// Counter reads live resource counts. Nothing here is cached.
type Counter interface {
	CountPresentations(ctx context.Context, userID string) (int, error)
	CountSlides(ctx context.Context, presentationID int64) (int, error)
	CountUserSlides(ctx context.Context, userID string) (int, error)
}

type counter struct {
	db core.DBTX
}

func NewCounter(db core.DBTX) Counter {
	return &counter{db: db}
}

func (c *counter) CountPresentations(
	ctx context.Context,
	userID string,
) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM presentations WHERE user_id = $1`
	if err := c.db.GetContext(ctx, &n, query, userID); err != nil {
		return 0, fmt.Errorf("count presentations: %w", err)
	}
	return n, nil
}

func (c *counter) CountSlides(
	ctx context.Context,
	presentationID int64,
) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM slides WHERE presentation_id = $1`
	if err := c.db.GetContext(ctx, &n, query, presentationID); err != nil {
		return 0, fmt.Errorf("count slides: %w", err)
	}
	return n, nil
}

func (c *counter) CountUserSlides(
	ctx context.Context,
	userID string,
) (int, error) {
	var n int
	query := `
		SELECT COUNT(*)
		FROM slides s
		JOIN presentations p ON p.id = s.presentation_id
		WHERE p.user_id = $1`
	if err := c.db.GetContext(ctx, &n, query, userID); err != nil {
		return 0, fmt.Errorf("count user slides: %w", err)
	}
	return n, nil
}
