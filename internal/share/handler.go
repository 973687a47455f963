// AngelaMos | 2026
// handler.go

package share

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/middleware"
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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/sharing/{presentationID}", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.GetSettings)
		r.Post("/enable", h.Enable)
		r.Delete("/disable", h.Disable)
		r.Put("/settings", h.UpdateSettings)
		r.Post("/regenerate", h.Regenerate)
	})
}

// RegisterPublicRoutes mounts the unauthenticated viewer endpoints behind
// limiter.
func (h *Handler) RegisterPublicRoutes(
	r chi.Router,
	limiter func(http.Handler) http.Handler,
) {
	r.Route("/public/{token}", func(r chi.Router) {
		r.Use(limiter)

		r.Get("/", h.View)
		r.Get("/embed", h.Embed)
	})
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "presentationID", "presentation")
	if !ok {
		return
	}

	st, err := h.service.Settings(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		core.HandleServiceError(w, err, "presentation")
		return
	}

	core.OK(w, h.service.Describe(st))
}

func (h *Handler) Enable(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "presentationID", "presentation")
	if !ok {
		return
	}

	var req EnableRequest
	if r.ContentLength != 0 {
		if !core.DecodeAndValidate(w, r, h.validator, &req) {
			return
		}
	}

	st, err := h.service.Enable(
		r.Context(),
		middleware.GetUserID(r.Context()),
		id,
		req.AllowEmbed,
	)
	if err != nil {
		core.HandleServiceError(w, err, "presentation")
		return
	}

	core.OK(w, h.service.Describe(st))
}

func (h *Handler) Disable(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "presentationID", "presentation")
	if !ok {
		return
	}

	st, err := h.service.Disable(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		core.HandleServiceError(w, err, "presentation")
		return
	}

	core.OK(w, h.service.Describe(st))
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "presentationID", "presentation")
	if !ok {
		return
	}

	var req UpdateSettingsRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	st, err := h.service.UpdateSettings(
		r.Context(),
		middleware.GetUserID(r.Context()),
		id,
		req,
	)
	if err != nil {
		core.HandleServiceError(w, err, "presentation")
		return
	}

	core.OK(w, h.service.Describe(st))
}

func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "presentationID", "presentation")
	if !ok {
		return
	}

	st, err := h.service.Regenerate(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		core.HandleServiceError(w, err, "presentation")
		return
	}

	core.OK(w, h.service.Describe(st))
}

func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.View(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		core.HandleServiceError(w, err, "presentation")
		return
	}

	core.OK(w, ToPublicResponse(p))
}

func (h *Handler) Embed(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Embed(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		core.HandleServiceError(w, err, "presentation")
		return
	}

	core.OK(w, ToEmbedResponse(p))
}
