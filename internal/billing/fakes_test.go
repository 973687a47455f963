// AngelaMos | 2026
// fakes_test.go

package billing

import (
	"context"
	"errors"
	"maps"
	"time"

	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/core/coretest"
	"github.com/carterperez-dev/slideview/internal/plan"
	"github.com/carterperez-dev/slideview/internal/user"
)

// ledger holds payments and users together so one rollback restores both.
type ledger struct {
	payments map[string]Payment
	users    map[string]user.User
	nextID   int64
	failOn   string
}

func newLedger() *ledger {
	return &ledger{
		payments: map[string]Payment{},
		users:    map[string]user.User{},
		nextID:   1,
	}
}

func (l *ledger) track(db core.DBTX) {
	tx := coretest.AsTx(db)
	if tx == nil {
		return
	}
	payments := maps.Clone(l.payments)
	users := maps.Clone(l.users)
	next := l.nextID
	tx.OnRollback(func() {
		l.payments = payments
		l.users = users
		l.nextID = next
	})
}

func (l *ledger) fail(op string) error {
	if l.failOn == op {
		return errors.New(op + " failed")
	}
	return nil
}

type paymentRepo struct {
	l  *ledger
	db core.DBTX
}

func (r *paymentRepo) byID(id int64) (string, Payment, bool) {
	for ext, p := range r.l.payments {
		if p.ID == id {
			return ext, p, true
		}
	}
	return "", Payment{}, false
}

func (r *paymentRepo) LockByExternalID(_ context.Context, externalID string) (*Payment, error) {
	p, ok := r.l.payments[externalID]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &p, nil
}

func (r *paymentRepo) Create(_ context.Context, p *Payment) error {
	if _, ok := r.l.payments[p.ExternalID]; ok {
		return core.ErrDuplicateKey
	}
	r.l.track(r.db)
	p.ID = r.l.nextID
	r.l.nextID++
	r.l.payments[p.ExternalID] = *p
	return nil
}

func (r *paymentRepo) Confirm(
	_ context.Context,
	id int64,
	status string,
	netValue *float64,
	paidAt time.Time,
) error {
	ext, p, ok := r.byID(id)
	if !ok {
		return core.ErrNotFound
	}
	r.l.track(r.db)
	now := time.Now()
	p.Status = status
	p.PaymentDate = &paidAt
	p.ConfirmedDate = &now
	if netValue != nil {
		v := "net"
		p.NetValue = &v
	}
	r.l.payments[ext] = p
	return nil
}

func (r *paymentRepo) SetStatus(_ context.Context, id int64, status string) error {
	ext, p, ok := r.byID(id)
	if !ok {
		return core.ErrNotFound
	}
	r.l.track(r.db)
	p.Status = status
	r.l.payments[ext] = p
	return nil
}

func (r *paymentRepo) UpdateDetails(
	_ context.Context,
	id int64,
	status string,
	invoiceURL, bankSlipURL *string,
) error {
	ext, p, ok := r.byID(id)
	if !ok {
		return core.ErrNotFound
	}
	r.l.track(r.db)
	p.Status = status
	if invoiceURL != nil {
		p.InvoiceURL = invoiceURL
	}
	if bankSlipURL != nil {
		p.BankSlipURL = bankSlipURL
	}
	r.l.payments[ext] = p
	return nil
}

func (r *paymentRepo) ListByUser(
	_ context.Context,
	userID string,
	limit, offset int,
) ([]Payment, int, error) {
	var all []Payment
	for _, p := range r.l.payments {
		if p.UserID == userID {
			all = append(all, p)
		}
	}
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := min(offset+limit, total)
	return all[offset:end], total, nil
}

type userRepo struct {
	l  *ledger
	db core.DBTX
}

func (r *userRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := r.l.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) SetPlan(_ context.Context, id string, planID int64, expiresAt *time.Time) error {
	if err := r.l.fail("set plan"); err != nil {
		return err
	}
	u, ok := r.l.users[id]
	if !ok {
		return core.ErrNotFound
	}
	r.l.track(r.db)
	u.PlanID = &planID
	u.PlanExpiresAt = expiresAt
	r.l.users[id] = u
	return nil
}

func (r *userRepo) SetSubscriptionStatus(
	_ context.Context,
	id, status string,
	expiresAt *time.Time,
) error {
	u, ok := r.l.users[id]
	if !ok {
		return core.ErrNotFound
	}
	r.l.track(r.db)
	u.SubscriptionStatus = &status
	if expiresAt != nil {
		u.PlanExpiresAt = expiresAt
	}
	r.l.users[id] = u
	return nil
}

type catalog map[int64]*plan.Plan

func (c catalog) GetByID(_ context.Context, id int64) (*plan.Plan, error) {
	p, ok := c[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return p, nil
}

func (c catalog) GetBySlug(_ context.Context, slug string) (*plan.Plan, error) {
	for _, p := range c {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, core.ErrNotFound
}

type eventCounter map[string]int

func (e eventCounter) WebhookProcessed(event string) { e[event]++ }
