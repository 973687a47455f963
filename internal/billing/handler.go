// AngelaMos | 2026
// handler.go

package billing

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/middleware"
)

const webhookTokenHeader = "asaas-access-token"

type Handler struct {
	service      *Service
	validator    *validator.Validate
	webhookToken string
}

func NewHandler(service *Service, webhookToken string) *Handler {
	return &Handler{
		service:      service,
		validator:    core.NewValidator(),
		webhookToken: webhookToken,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Post("/billing/webhook", h.Webhook)

	r.Route("/subscription", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/status", h.Status)
		r.Get("/payments", h.Payments)
		r.Post("/cancel", h.Cancel)
	})
}

// authorized compares the shared webhook secret in constant time. With no
// secret configured every delivery is refused.
func (h *Handler) authorized(r *http.Request) bool {
	if h.webhookToken == "" {
		return false
	}
	got := r.Header.Get(webhookTokenHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.webhookToken)) == 1
}

func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		core.Unauthorized(w, "invalid webhook token")
		return
	}

	var ev Event
	if !core.DecodeAndValidate(w, r, h.validator, &ev) {
		return
	}

	if err := h.service.HandleWebhook(r.Context(), ev); err != nil {
		core.HandleServiceError(w, err, "payment")
		return
	}

	core.OK(w, WebhookResponse{Received: true})
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Status(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.HandleServiceError(w, err, "user")
		return
	}

	core.OK(w, status)
}

func (h *Handler) Payments(w http.ResponseWriter, r *http.Request) {
	page := core.PageFrom(r, paymentsPageSize, paymentsPageSize).Number

	items, total, err := h.service.Payments(
		r.Context(),
		middleware.GetUserID(r.Context()),
		page,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToPaymentResponseList(items), page, paymentsPageSize, total)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Cancel(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.HandleServiceError(w, err, "user")
		return
	}

	core.OK(w, resp)
}
