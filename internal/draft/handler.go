// AngelaMos | 2026
// handler.go

package draft

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
	r.Route("/drafts", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Save)
		r.Post("/cleanup", h.Cleanup)
		r.Get("/{draftID}", h.Get)
		r.Delete("/{draftID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.service.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToDraftResponseList(drafts))
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var req SaveDraftRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	d, err := h.service.Save(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		core.HandleServiceError(w, err, "presentation")
		return
	}

	core.OK(w, SaveDraftResponse{
		Draft:   ToDraftResponse(d),
		SavedAt: d.LastSavedAt,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "draftID", "draft")
	if !ok {
		return
	}

	d, err := h.service.Get(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		core.HandleServiceError(w, err, "draft")
		return
	}

	core.OK(w, ToDraftResponse(d))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "draftID", "draft")
	if !ok {
		return
	}

	err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		core.HandleServiceError(w, err, "draft")
		return
	}

	core.NoContent(w)
}

func (h *Handler) Cleanup(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.Cleanup(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, CleanupResponse{DeletedCount: n})
}
