// AngelaMos | 2026
// catalog.go

package health

import (
	"context"
	"errors"

	"github.com/carterperez-dev/slideview/internal/plan"
)

// ErrEmptyCatalog means no active plan exists, so entitlement checks and
// plan changes cannot work even though the database answers.
var ErrEmptyCatalog = errors.New("no active plans seeded")

type PlanLister interface {
	ListActive(ctx context.Context) ([]plan.Plan, error)
}

// PlanCatalog is ready once at least one active plan is readable.
func PlanCatalog(plans PlanLister) Checker {
	return CheckerFunc(func(ctx context.Context) error {
		items, err := plans.ListActive(ctx)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCatalog
		}
		return nil
	})
}
