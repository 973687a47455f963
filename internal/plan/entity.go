// AngelaMos | 2026
// entity.go

package plan

import (
	"strconv"
	"time"

	"github.com/carterperez-dev/slideview/internal/core"
)

type Plan struct {
	ID               int64        `db:"id"                json:"id"`
	Name             string       `db:"name"              json:"name"`
	Slug             string       `db:"slug"              json:"slug"`
	Description      *string      `db:"description"       json:"description"`
	Price            string       `db:"price"             json:"price"`
	BillingCycle     string       `db:"billing_cycle"     json:"billing_cycle"`
	Features         core.JSONMap `db:"features"          json:"features"`
	MaxSlides        *int         `db:"max_slides"        json:"max_slides"`
	MaxPresentations *int         `db:"max_presentations" json:"max_presentations"`
	IsActive         bool         `db:"is_active"         json:"is_active"`
	CreatedAt        time.Time    `db:"created_at"        json:"created_at"`
	UpdatedAt        time.Time    `db:"updated_at"        json:"updated_at"`
}

// PriceValue parses the decimal price. Unparseable prices count as zero.
func (p *Plan) PriceValue() float64 {
	v, err := strconv.ParseFloat(p.Price, 64)
	if err != nil {
		return 0
	}
	return v
}

func (p *Plan) IsFree() bool {
	return p.PriceValue() == 0
}

const (
	CycleMonthly  = "monthly"
	CycleYearly   = "yearly"
	CycleLifetime = "lifetime"
)

const FreeSlug = "free"
