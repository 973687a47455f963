// AngelaMos | 2026
// repository.go

package billing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/slideview/internal/core"
)

type Repository interface {
	// LockByExternalID loads the payment for update so concurrent
	// deliveries of the same event apply one after another.
	LockByExternalID(ctx context.Context, externalID string) (*Payment, error)
	Create(ctx context.Context, p *Payment) error
	Confirm(ctx context.Context, id int64, status string, netValue *float64, paidAt time.Time) error
	SetStatus(ctx context.Context, id int64, status string) error
	// UpdateDetails keeps the stored links when the event omits them.
	UpdateDetails(ctx context.Context, id int64, status string, invoiceURL, bankSlipURL *string) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Payment, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const paymentColumns = `
	pay.id, pay.user_id, pay.plan_id, pl.name AS plan_name, pay.external_id,
	pay.subscription_id, pay.value, pay.net_value, pay.billing_type,
	pay.status, pay.due_date, pay.payment_date, pay.confirmed_date,
	pay.invoice_url, pay.bank_slip_url, pay.description, pay.created_at,
	pay.updated_at`

func (r *repository) LockByExternalID(
	ctx context.Context,
	externalID string,
) (*Payment, error) {
	query := `SELECT ` + paymentColumns + `
		FROM payments pay
		LEFT JOIN plans pl ON pl.id = pay.plan_id
		WHERE pay.external_id = $1
		FOR UPDATE OF pay`

	var p Payment
	err := r.db.GetContext(ctx, &p, query, externalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get payment: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}

	return &p, nil
}

func (r *repository) Create(ctx context.Context, p *Payment) error {
	query := `
		INSERT INTO payments (
			user_id, plan_id, external_id, subscription_id, value,
			billing_type, status, due_date, invoice_url, bank_slip_url,
			description
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (external_id) DO NOTHING
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		p.UserID,
		p.PlanID,
		p.ExternalID,
		p.SubscriptionID,
		p.Value,
		p.BillingType,
		p.Status,
		p.DueDate,
		p.InvoiceURL,
		p.BankSlipURL,
		p.Description,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("create payment: %w", core.ErrDuplicateKey)
	}
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}

	return nil
}

func (r *repository) Confirm(
	ctx context.Context,
	id int64,
	status string,
	netValue *float64,
	paidAt time.Time,
) error {
	query := `
		UPDATE payments
		SET status = $2, net_value = $3, payment_date = $4,
		    confirmed_date = NOW(), updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "confirm payment", query, id, status, netValue, paidAt)
}

func (r *repository) SetStatus(ctx context.Context, id int64, status string) error {
	query := `
		UPDATE payments
		SET status = $2, updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "set payment status", query, id, status)
}

func (r *repository) UpdateDetails(
	ctx context.Context,
	id int64,
	status string,
	invoiceURL, bankSlipURL *string,
) error {
	query := `
		UPDATE payments
		SET status = $2,
		    invoice_url = COALESCE($3, invoice_url),
		    bank_slip_url = COALESCE($4, bank_slip_url),
		    updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "update payment", query, id, status, invoiceURL, bankSlipURL)
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
	limit, offset int,
) ([]Payment, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM payments WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	query := `SELECT ` + paymentColumns + `
		FROM payments pay
		LEFT JOIN plans pl ON pl.id = pay.plan_id
		WHERE pay.user_id = $1
		ORDER BY pay.created_at DESC, pay.id DESC
		LIMIT $2 OFFSET $3`

	var items []Payment
	if err := r.db.SelectContext(ctx, &items, query, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}

	return items, total, nil
}

func (r *repository) execOne(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}
