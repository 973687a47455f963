// AngelaMos | 2026
// handler.go

package template

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/middleware"
	"github.com/carterperez-dev/slideview/internal/presentation"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts the catalog. Browsing works without a session;
// optionalAuth only decides whether premium templates show as locked.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	optionalAuth func(http.Handler) http.Handler,
) {
	r.Route("/templates", func(r chi.Router) {
		r.With(optionalAuth).Get("/", h.List)
		r.Get("/categories", h.Categories)
		r.Get("/{templateID}", h.Get)
		r.With(authenticator).Post("/{templateID}/use", h.Use)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, hasPremium, err := h.service.List(
		r.Context(),
		middleware.GetUserID(r.Context()),
		r.URL.Query().Get("category"),
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToListResponse(items, hasPremium))
}

func (h *Handler) Categories(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, h.service.Categories())
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "templateID", "template")
	if !ok {
		return
	}

	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.HandleServiceError(w, err, "template")
		return
	}

	core.OK(w, ToTemplateResponse(t))
}

func (h *Handler) Use(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "templateID", "template")
	if !ok {
		return
	}

	var req UseTemplateRequest
	if r.ContentLength != 0 {
		if !core.DecodeAndValidate(w, r, h.validator, &req) {
			return
		}
	}

	p, slides, err := h.service.Use(
		r.Context(),
		middleware.GetUserID(r.Context()),
		id,
		req,
	)
	if err != nil {
		core.HandleServiceError(w, err, "template")
		return
	}

	core.Created(w, presentation.ToPresentationResponse(p, slides))
}
