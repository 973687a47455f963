// AngelaMos | 2026
// handler.go

package presentation

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/middleware"
	"github.com/carterperez-dev/slideview/internal/version"
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
	r.Route("/presentations", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)

		r.Route("/{presentationID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Post("/duplicate", h.Duplicate)

			r.Put("/slides", h.ReplaceSlides)
			r.Post("/slides", h.AddSlide)
			r.Put("/slides/{slideID}", h.UpdateSlide)
			r.Delete("/slides/{slideID}", h.DeleteSlide)

			r.Get("/slides/{slideID}/versions", h.ListVersions)
			r.Post("/slides/{slideID}/versions", h.SaveVersion)
			r.Post(
				"/slides/{slideID}/versions/{versionID}/restore",
				h.RestoreVersion,
			)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToPresentationResponseList(items))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePresentationRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	p, slides, err := h.service.Create(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		core.HandleServiceError(w, err, "presentation")
		return
	}

	core.Created(w, ToPresentationResponse(p, slides))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "presentationID", "presentation")
	if !ok {
		return
	}

	p, slides, err := h.service.Get(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		core.HandleServiceError(w, err, "presentation")
		return
	}

	core.OK(w, ToPresentationResponse(p, slides))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "presentationID", "presentation")
	if !ok {
		return
	}

	var req UpdatePresentationRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	p, err := h.service.Update(
		r.Context(),
		middleware.GetUserID(r.Context()),
		id,
		req,
	)
	if err != nil {
		core.HandleServiceError(w, err, "presentation")
		return
	}

	core.OK(w, ToPresentationResponse(p, nil))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "presentationID", "presentation")
	if !ok {
		return
	}

	err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		core.HandleServiceError(w, err, "presentation")
		return
	}

	core.NoContent(w)
}

func (h *Handler) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "presentationID", "presentation")
	if !ok {
		return
	}

	p, slides, err := h.service.Duplicate(
		r.Context(),
		middleware.GetUserID(r.Context()),
		id,
	)
	if err != nil {
		core.HandleServiceError(w, err, "presentation")
		return
	}

	core.Created(w, ToPresentationResponse(p, slides))
}

func (h *Handler) ReplaceSlides(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "presentationID", "presentation")
	if !ok {
		return
	}

	var req ReplaceSlidesRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	p, slides, err := h.service.ReplaceSlides(
		r.Context(),
		middleware.GetUserID(r.Context()),
		id,
		req.Slides,
	)
	if err != nil {
		core.HandleServiceError(w, err, "presentation")
		return
	}

	core.OK(w, ToPresentationResponse(p, slides))
}

func (h *Handler) AddSlide(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "presentationID", "presentation")
	if !ok {
		return
	}

	var req SlideSpec
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	slide, err := h.service.AddSlide(
		r.Context(),
		middleware.GetUserID(r.Context()),
		id,
		req,
	)
	if err != nil {
		core.HandleServiceError(w, err, "presentation")
		return
	}

	core.Created(w, ToSlideResponse(slide))
}

func (h *Handler) UpdateSlide(w http.ResponseWriter, r *http.Request) {
	id, slideID, ok := slidePath(w, r)
	if !ok {
		return
	}

	var req UpdateSlideRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	slide, err := h.service.UpdateSlide(
		r.Context(),
		middleware.GetUserID(r.Context()),
		id,
		slideID,
		req,
	)
	if err != nil {
		core.HandleServiceError(w, err, "slide")
		return
	}

	core.OK(w, ToSlideResponse(slide))
}

func (h *Handler) DeleteSlide(w http.ResponseWriter, r *http.Request) {
	id, slideID, ok := slidePath(w, r)
	if !ok {
		return
	}

	err := h.service.DeleteSlide(
		r.Context(),
		middleware.GetUserID(r.Context()),
		id,
		slideID,
	)
	if err != nil {
		core.HandleServiceError(w, err, "slide")
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListVersions(w http.ResponseWriter, r *http.Request) {
	id, slideID, ok := slidePath(w, r)
	if !ok {
		return
	}

	versions, err := h.service.ListSlideVersions(
		r.Context(),
		middleware.GetUserID(r.Context()),
		id,
		slideID,
	)
	if err != nil {
		core.HandleServiceError(w, err, "slide")
		return
	}

	core.OK(w, version.ToVersionResponseList(versions))
}

func (h *Handler) SaveVersion(w http.ResponseWriter, r *http.Request) {
	id, slideID, ok := slidePath(w, r)
	if !ok {
		return
	}

	var req version.SaveVersionRequest
	if r.ContentLength != 0 {
		if !core.DecodeAndValidate(w, r, h.validator, &req) {
			return
		}
	}

	v, err := h.service.SaveSlideVersion(
		r.Context(),
		middleware.GetUserID(r.Context()),
		id,
		slideID,
		req.ChangeDescription,
	)
	if err != nil {
		core.HandleServiceError(w, err, "slide")
		return
	}

	core.Created(w, version.ToVersionResponse(v))
}

func (h *Handler) RestoreVersion(w http.ResponseWriter, r *http.Request) {
	id, slideID, ok := slidePath(w, r)
	if !ok {
		return
	}

	versionID, ok := core.PathID(w, r, "versionID", "version")
	if !ok {
		return
	}

	slide, backup, err := h.service.RestoreSlideVersion(
		r.Context(),
		middleware.GetUserID(r.Context()),
		id,
		slideID,
		versionID,
	)
	if err != nil {
		core.HandleServiceError(w, err, "version")
		return
	}

	core.OK(w, RestoreVersionResponse{
		Slide:  ToSlideResponse(slide),
		Backup: version.ToVersionResponse(backup),
	})
}

func slidePath(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	id, ok := core.PathID(w, r, "presentationID", "presentation")
	if !ok {
		return 0, 0, false
	}

	slideID, ok := core.PathID(w, r, "slideID", "slide")
	if !ok {
		return 0, 0, false
	}

	return id, slideID, true
}
