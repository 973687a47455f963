// AngelaMos | 2026
// dto.go

package billing

import (
	"time"

	"github.com/carterperez-dev/slideview/internal/plan"
)

type WebhookResponse struct {
	Received bool `json:"received"`
}

type StatusResponse struct {
	HasSubscription    bool          `json:"has_subscription"`
	SubscriptionStatus *string       `json:"subscription_status"`
	Plan               *plan.Summary `json:"plan"`
	IsActive           bool          `json:"is_active"`
	ExpiresAt          *time.Time    `json:"expires_at"`
}

type PaymentResponse struct {
	ID             int64      `json:"id"`
	PlanID         *int64     `json:"plan_id"`
	PlanName       *string    `json:"plan_name"`
	ExternalID     string     `json:"external_id"`
	SubscriptionID *string    `json:"subscription_id"`
	Value          string     `json:"value"`
	NetValue       *string    `json:"net_value"`
	BillingType    string     `json:"billing_type"`
	Status         string     `json:"status"`
	DueDate        string     `json:"due_date"`
	PaymentDate    *time.Time `json:"payment_date"`
	ConfirmedDate  *time.Time `json:"confirmed_date"`
	InvoiceURL     *string    `json:"invoice_url"`
	BankSlipURL    *string    `json:"bank_slip_url"`
	Description    *string    `json:"description"`
	CreatedAt      time.Time  `json:"created_at"`
}

type CancelResponse struct {
	SubscriptionStatus string     `json:"subscription_status"`
	ExpiresAt          *time.Time `json:"expires_at"`
}

func ToPaymentResponse(p *Payment) PaymentResponse {
	return PaymentResponse{
		ID:             p.ID,
		PlanID:         p.PlanID,
		PlanName:       p.PlanName,
		ExternalID:     p.ExternalID,
		SubscriptionID: p.SubscriptionID,
		Value:          p.Value,
		NetValue:       p.NetValue,
		BillingType:    p.BillingType,
		Status:         p.Status,
		DueDate:        p.DueDate.Format(gatewayDate),
		PaymentDate:    p.PaymentDate,
		ConfirmedDate:  p.ConfirmedDate,
		InvoiceURL:     p.InvoiceURL,
		BankSlipURL:    p.BankSlipURL,
		Description:    p.Description,
		CreatedAt:      p.CreatedAt,
	}
}

func ToPaymentResponseList(payments []Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, ToPaymentResponse(&payments[i]))
	}
	return out
}
