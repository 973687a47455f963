// AngelaMos | 2026
// limits.go

package entitlement

import (
	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/plan"
)

const (
	ResourcePresentations = "presentations"
	ResourceSlides        = "slides"
)

// Limits are plan ceilings. A nil field means unlimited.
type Limits struct {
	MaxPresentations *int
	MaxSlides        *int
}

const (
	defaultMaxPresentations = 3
	defaultMaxSlides        = 10
)

// DefaultLimits applies to users without a usable plan.
func DefaultLimits() Limits {
	presentations, slides := defaultMaxPresentations, defaultMaxSlides
	return Limits{MaxPresentations: &presentations, MaxSlides: &slides}
}

func LimitsFor(p *plan.Plan) Limits {
	if p == nil {
		return DefaultLimits()
	}
	return Limits{MaxPresentations: p.MaxPresentations, MaxSlides: p.MaxSlides}
}

// CanCreatePresentation reports whether one more presentation fits when the
// user currently owns count of them.
func CanCreatePresentation(l Limits, count int) bool {
	return below(l.MaxPresentations, count)
}

// CanAddSlide reports whether one more slide fits in a presentation that
// currently holds count slides.
func CanAddSlide(l Limits, count int) bool {
	return below(l.MaxSlides, count)
}

// CanHoldSlides reports whether a presentation may end up with exactly n
// slides, as bulk replacement and copies do.
func CanHoldSlides(l Limits, n int) bool {
	return l.MaxSlides == nil || n <= *l.MaxSlides
}

func below(limit *int, count int) bool {
	return limit == nil || count < *limit
}

// Decision is the outcome of a gate check. Current is the count the decision
// was made against.
type Decision struct {
	Allowed  bool
	Current  int
	Limit    *int
	Resource string
}

// Err converts a denial into the structured entitlement error, nil when
// allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}

	limit := 0
	if d.Limit != nil {
		limit = *d.Limit
	}

	return core.EntitlementError(d.Resource, d.Current, limit)
}
