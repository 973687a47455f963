// AngelaMos | 2026
// entity.go

package billing

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Payment struct {
	ID             int64      `db:"id"`
	UserID         string     `db:"user_id"`
	PlanID         *int64     `db:"plan_id"`
	PlanName       *string    `db:"plan_name"`
	ExternalID     string     `db:"external_id"`
	SubscriptionID *string    `db:"subscription_id"`
	Value          string     `db:"value"`
	NetValue       *string    `db:"net_value"`
	BillingType    string     `db:"billing_type"`
	Status         string     `db:"status"`
	DueDate        time.Time  `db:"due_date"`
	PaymentDate    *time.Time `db:"payment_date"`
	ConfirmedDate  *time.Time `db:"confirmed_date"`
	InvoiceURL     *string    `db:"invoice_url"`
	BankSlipURL    *string    `db:"bank_slip_url"`
	Description    *string    `db:"description"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

const (
	EventPaymentConfirmed = "PAYMENT_CONFIRMED"
	EventPaymentReceived  = "PAYMENT_RECEIVED"
	EventPaymentOverdue   = "PAYMENT_OVERDUE"
	EventPaymentDeleted   = "PAYMENT_DELETED"
	EventPaymentRefunded  = "PAYMENT_REFUNDED"
	EventPaymentCreated   = "PAYMENT_CREATED"
	EventPaymentUpdated   = "PAYMENT_UPDATED"
)

const StatusOverdue = "OVERDUE"

// Event is one notification from the payment gateway.
type Event struct {
	Event   string        `json:"event"   validate:"required"`
	Payment *PaymentEvent `json:"payment"`
}

type PaymentEvent struct {
	ID                string   `json:"id"`
	Subscription      *string  `json:"subscription"`
	Value             float64  `json:"value"`
	NetValue          *float64 `json:"netValue"`
	BillingType       string   `json:"billingType"`
	Status            string   `json:"status"`
	DueDate           string   `json:"dueDate"`
	PaymentDate       *string  `json:"paymentDate"`
	InvoiceURL        *string  `json:"invoiceUrl"`
	BankSlipURL       *string  `json:"bankSlipUrl"`
	Description       *string  `json:"description"`
	ExternalReference *string  `json:"externalReference"`
}

// Reference is the JSON the checkout stores in the gateway's external
// reference so recurring payments can be traced back to a user and plan.
type Reference struct {
	UserID string `json:"user_id"`
	PlanID *int64 `json:"plan_id"`
}

func (e *PaymentEvent) Reference() (Reference, error) {
	var ref Reference
	if e.ExternalReference == nil || strings.TrimSpace(*e.ExternalReference) == "" {
		return ref, nil
	}

	if err := json.Unmarshal([]byte(*e.ExternalReference), &ref); err != nil {
		return ref, fmt.Errorf("parse external reference: %w", err)
	}

	return ref, nil
}

const gatewayDate = "2006-01-02"

func parseGatewayDate(s string) (time.Time, error) {
	t, err := time.Parse(gatewayDate, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse gateway date %q: %w", s, err)
	}
	return t, nil
}

// paidAt is the payment date reported by the gateway, or now when it sent
// none or an unreadable one.
func (e *PaymentEvent) paidAt(now time.Time) time.Time {
	if e.PaymentDate == nil {
		return now
	}
	t, err := parseGatewayDate(*e.PaymentDate)
	if err != nil {
		return now
	}
	return t
}
