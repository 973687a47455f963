// AngelaMos | 2026
// entity.go

package template

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/presentation"
)

type Template struct {
	ID          int64        `db:"id"`
	Name        string       `db:"name"`
	Slug        string       `db:"slug"`
	Description string       `db:"description"`
	Category    string       `db:"category"`
	Thumbnail   *string      `db:"thumbnail"`
	Icon        *string      `db:"icon"`
	Slides      Slides       `db:"slides"`
	Settings    core.JSONMap `db:"settings"`
	IsPremium   bool         `db:"is_premium"`
	IsActive    bool         `db:"is_active"`
	UsageCount  int          `db:"usage_count"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}

// Slides is the jsonb array of slide seeds a template copies into a new
// presentation.
type Slides []presentation.SlideSpec

func (s Slides) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}

	b, err := json.Marshal([]presentation.SlideSpec(s))
	if err != nil {
		return nil, fmt.Errorf("marshal template slides: %w", err)
	}

	return string(b), nil
}

func (s *Slides) Scan(src any) error {
	var raw []byte

	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan template slides: unsupported type %T", src)
	}

	var out []presentation.SlideSpec
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan template slides: %w", err)
	}

	*s = out
	return nil
}

type Category struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

var categories = []Category{
	{
		Slug:        "pitch",
		Name:        "Pitch Deck",
		Description: "Apresentações para investidores e startups",
		Icon:        "rocket",
	},
	{
		Slug:        "education",
		Name:        "Aula / Workshop",
		Description: "Templates para ensino e treinamentos",
		Icon:        "graduation-cap",
	},
	{
		Slug:        "report",
		Name:        "Relatório Executivo",
		Description: "Relatórios de negócios e análises",
		Icon:        "bar-chart",
	},
	{
		Slug:        "portfolio",
		Name:        "Portfolio",
		Description: "Mostre seus trabalhos e projetos",
		Icon:        "briefcase",
	},
	{
		Slug:        "proposal",
		Name:        "Proposta Comercial",
		Description: "Propostas para clientes e parceiros",
		Icon:        "file-text",
	},
}
