// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/slideview/internal/core"
)

// Sweeper deletes stale drafts across all users.
type Sweeper interface {
	Run(ctx context.Context) (int, error)
}

type HandlerConfig struct {
	Database Database
	Cache    Cache
	Usage    UsageReader
	Sweeper  Sweeper
}

type Handler struct {
	db      Database
	cache   Cache
	usage   UsageReader
	sweeper Sweeper
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		db:      cfg.Database,
		cache:   cfg.Cache,
		usage:   cfg.Usage,
		sweeper: cfg.Sweeper,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator, adminOnly)

		r.Get("/stats", h.SystemStats)
		r.Get("/stats/platform", h.PlatformStats)
		r.Post("/drafts/cleanup", h.SweepDrafts)
	})
}

func (h *Handler) SystemStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, snapshot(r.Context(), h.db, h.cache))
}

func (h *Handler) PlatformStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.usage.Platform(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, stats)
}

// SweepDrafts runs the stale draft cleanup now instead of waiting for the
// next tick.
func (h *Handler) SweepDrafts(w http.ResponseWriter, r *http.Request) {
	if h.sweeper == nil {
		core.NotFound(w, "draft cleanup")
		return
	}

	deleted, err := h.sweeper.Run(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, SweepResponse{DeletedCount: deleted})
}
