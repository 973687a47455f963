// AngelaMos | 2026
// handler.go

package plan

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/middleware"
)

type UsageReader interface {
	Usage(ctx context.Context, userID string) (*UsageSnapshot, error)
}

type Handler struct {
	service   *Service
	usage     UsageReader
	validator *validator.Validate
}

func NewHandler(service *Service, usage UsageReader) *Handler {
	return &Handler{
		service:   service,
		usage:     usage,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/plans", func(r chi.Router) {
		r.Get("/", h.List)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/usage", h.Usage)
			r.Post("/change", h.Change)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToPlanResponseList(plans))
}

func (h *Handler) Usage(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.usage.Usage(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.HandleServiceError(w, err, "user")
		return
	}

	core.OK(w, snapshot)
}

func (h *Handler) Change(w http.ResponseWriter, r *http.Request) {
	var req ChangePlanRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	resp, err := h.service.ChangePlan(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req.PlanSlug,
	)
	if err != nil {
		core.HandleServiceError(w, err, "plan")
		return
	}

	core.OK(w, resp)
}
