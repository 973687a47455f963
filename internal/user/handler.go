// AngelaMos | 2026
// handler.go

package user

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/middleware"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Handler struct {
	service   *Service
	validator *validator.Validate
	now       func() time.Time
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
		now:       time.Now,
	}
}

// RegisterRoutes mounts the caller's own profile under /users/me and user
// management under /admin/users.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/users/me", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.Profile)
		r.Patch("/", h.UpdateProfile)
		r.Delete("/", h.CloseAccount)
	})

	r.Route("/admin/users", func(r chi.Router) {
		r.Use(authenticator, adminOnly)

		r.Get("/", h.Search)
		r.Get("/{userID}", h.Find)
		r.Put("/{userID}/role", h.SetRole)
		r.Put("/{userID}/plan", h.AssignPlan)
		r.Delete("/{userID}", h.Remove)
	})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Profile(r.Context(), middleware.GetUserID(r.Context()))
	h.respond(w, u, err)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	u, err := h.service.UpdateProfile(r.Context(), middleware.GetUserID(r.Context()), req)
	h.respond(w, u, err)
}

func (h *Handler) CloseAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CloseAccount(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		core.HandleServiceError(w, err, "user")
		return
	}
	core.NoContent(w)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filter{
		Query: q.Get("search"),
		Role:  q.Get("role"),
		Plan:  q.Get("plan"),
		Page:  core.PageFrom(r, defaultPageSize, maxPageSize),
	}

	users, total, err := h.service.Search(r.Context(), f)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToUserResponseList(users, h.now()), f.Page.Number, f.Page.Size, total)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Find(r.Context(), chi.URLParam(r, "userID"))
	h.respond(w, u, err)
}

func (h *Handler) SetRole(w http.ResponseWriter, r *http.Request) {
	var req SetRoleRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	u, err := h.service.SetRole(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "userID"),
		req.Role,
	)
	h.respond(w, u, err)
}

// AssignPlan takes effect in access tokens on the next refresh.
func (h *Handler) AssignPlan(w http.ResponseWriter, r *http.Request) {
	var req AssignPlanRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	u, err := h.service.AssignPlan(r.Context(), chi.URLParam(r, "userID"), req)
	h.respond(w, u, err)
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	err := h.service.Remove(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "userID"),
	)
	if err != nil {
		core.HandleServiceError(w, err, "user")
		return
	}
	core.NoContent(w)
}

func (h *Handler) respond(w http.ResponseWriter, u *User, err error) {
	if err != nil {
		core.HandleServiceError(w, err, "user")
		return
	}
	core.OK(w, ToUserResponse(u, h.now()))
}
