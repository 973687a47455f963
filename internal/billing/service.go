// AngelaMos | 2026
// service.go

package billing

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/plan"
	"github.com/carterperez-dev/slideview/internal/user"
)

// UserStore is the slice of the user repository billing writes through.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
	SetPlan(ctx context.Context, id string, planID int64, expiresAt *time.Time) error
	SetSubscriptionStatus(ctx context.Context, id, status string, expiresAt *time.Time) error
}

type PlanReader interface {
	GetByID(ctx context.Context, id int64) (*plan.Plan, error)
	GetBySlug(ctx context.Context, slug string) (*plan.Plan, error)
}

type Recorder interface {
	WebhookProcessed(event string)
}

type ServiceConfig struct {
	DB         core.DBTX
	Transactor core.Transactor
	Payments   func(core.DBTX) Repository
	Users      func(core.DBTX) UserStore
	Plans      PlanReader
	Recorder   Recorder
	Logger     *slog.Logger
}

type Service struct {
	db       core.DBTX
	tx       core.Transactor
	payments func(core.DBTX) Repository
	users    func(core.DBTX) UserStore
	plans    PlanReader
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(cfg ServiceConfig) *Service {
	payments := cfg.Payments
	if payments == nil {
		payments = NewRepository
	}

	users := cfg.Users
	if users == nil {
		users = func(db core.DBTX) UserStore { return user.NewRepository(db) }
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		db:       cfg.DB,
		tx:       cfg.Transactor,
		payments: payments,
		users:    users,
		plans:    cfg.Plans,
		recorder: cfg.Recorder,
		logger:   logger,
		now:      time.Now,
	}
}

const (
	subscriptionPeriodMonths = 1
	paymentsPageSize         = 10
)

// HandleWebhook applies one gateway event in a single transaction. Events
// this service does not act on, and payments it has never heard of, are
// acknowledged without changes.
func (s *Service) HandleWebhook(ctx context.Context, ev Event) error {
	var apply func(ctx context.Context, tx core.DBTX, p *PaymentEvent) error

	switch ev.Event {
	case EventPaymentConfirmed, EventPaymentReceived:
		apply = s.confirmed
	case EventPaymentOverdue:
		apply = s.overdue
	case EventPaymentDeleted, EventPaymentRefunded:
		apply = s.statusOnly
	case EventPaymentCreated, EventPaymentUpdated:
		apply = s.upsert
	default:
		s.logger.Info("billing event ignored", "event", ev.Event)
		s.record(ev.Event)
		return nil
	}

	if ev.Payment == nil || ev.Payment.ID == "" {
		return core.ValidationError("payment is required")
	}

	err := s.tx.WithTx(ctx, func(tx core.DBTX) error {
		return apply(ctx, tx, ev.Payment)
	})
	if err != nil {
		if core.IsAppError(err) {
			return err
		}
		s.logger.Error("billing event failed",
			"event", ev.Event,
			"payment", ev.Payment.ID,
			"error", err,
		)
		return core.TransactionError(err)
	}

	s.logger.Info("billing event applied",
		"event", ev.Event,
		"payment", ev.Payment.ID,
		"status", ev.Payment.Status,
	)
	s.record(ev.Event)

	return nil
}

func (s *Service) record(event string) {
	if s.recorder != nil {
		s.recorder.WebhookProcessed(event)
	}
}

// known loads the payment the event refers to. ok is false when it is not
// on file.
func (s *Service) known(
	ctx context.Context,
	tx core.DBTX,
	externalID string,
) (*Payment, bool, error) {
	p, err := s.payments(tx).LockByExternalID(ctx, externalID)
	if errors.Is(err, core.ErrNotFound) {
		s.logger.Warn("billing event for unknown payment", "payment", externalID)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

func (s *Service) confirmed(ctx context.Context, tx core.DBTX, ev *PaymentEvent) error {
	p, ok, err := s.known(ctx, tx, ev.ID)
	if err != nil || !ok {
		return err
	}

	now := s.now()
	if err := s.payments(tx).Confirm(ctx, p.ID, ev.Status, ev.NetValue, ev.paidAt(now)); err != nil {
		return err
	}

	if p.PlanID == nil {
		return nil
	}

	users := s.users(tx)
	expiresAt := now.AddDate(0, subscriptionPeriodMonths, 0)
	if err := users.SetPlan(ctx, p.UserID, *p.PlanID, &expiresAt); err != nil {
		return err
	}

	return users.SetSubscriptionStatus(ctx, p.UserID, user.SubscriptionActive, nil)
}

func (s *Service) overdue(ctx context.Context, tx core.DBTX, ev *PaymentEvent) error {
	p, ok, err := s.known(ctx, tx, ev.ID)
	if err != nil || !ok {
		return err
	}

	if err := s.payments(tx).SetStatus(ctx, p.ID, StatusOverdue); err != nil {
		return err
	}

	return s.users(tx).SetSubscriptionStatus(ctx, p.UserID, user.SubscriptionOverdue, nil)
}

func (s *Service) statusOnly(ctx context.Context, tx core.DBTX, ev *PaymentEvent) error {
	p, ok, err := s.known(ctx, tx, ev.ID)
	if err != nil || !ok {
		return err
	}

	return s.payments(tx).SetStatus(ctx, p.ID, ev.Status)
}

// upsert refreshes a known payment, or records a new one when the external
// reference names its user. Recurring charges arrive this way.
func (s *Service) upsert(ctx context.Context, tx core.DBTX, ev *PaymentEvent) error {
	repo := s.payments(tx)

	p, err := repo.LockByExternalID(ctx, ev.ID)
	if err == nil {
		return repo.UpdateDetails(ctx, p.ID, ev.Status, ev.InvoiceURL, ev.BankSlipURL)
	}
	if !errors.Is(err, core.ErrNotFound) {
		return err
	}

	ref, err := ev.Reference()
	if err != nil {
		return core.ValidationError(err.Error())
	}
	if ref.UserID == "" {
		s.logger.Warn("billing event without user reference", "payment", ev.ID)
		return nil
	}

	due, err := parseGatewayDate(ev.DueDate)
	if err != nil {
		return core.ValidationError(err.Error())
	}

	payment := &Payment{
		UserID:         ref.UserID,
		PlanID:         ref.PlanID,
		ExternalID:     ev.ID,
		SubscriptionID: ev.Subscription,
		Value:          strconv.FormatFloat(ev.Value, 'f', 2, 64),
		BillingType:    ev.BillingType,
		Status:         ev.Status,
		DueDate:        due,
		InvoiceURL:     ev.InvoiceURL,
		BankSlipURL:    ev.BankSlipURL,
		Description:    ev.Description,
	}

	err = repo.Create(ctx, payment)
	if errors.Is(err, core.ErrDuplicateKey) {
		return nil
	}
	return err
}

func (s *Service) Status(ctx context.Context, userID string) (*StatusResponse, error) {
	u, err := s.users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &StatusResponse{
		HasSubscription:    u.SubscriptionID != nil,
		SubscriptionStatus: u.SubscriptionStatus,
		IsActive:           u.HasActivePlan(s.now()),
		ExpiresAt:          u.PlanExpiresAt,
	}

	if u.PlanID != nil {
		p, err := s.plans.GetByID(ctx, *u.PlanID)
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			return nil, err
		}
		if p != nil {
			summary := plan.ToSummary(p)
			resp.Plan = &summary
		}
	}

	return resp, nil
}

// Payments returns one page of the user's payment history, newest first.
func (s *Service) Payments(
	ctx context.Context,
	userID string,
	page int,
) ([]Payment, int, error) {
	if page < 1 {
		page = 1
	}

	return s.payments(s.db).ListByUser(ctx, userID, paymentsPageSize, (page-1)*paymentsPageSize)
}

// Cancel drops the user back to the free plan at once.
func (s *Service) Cancel(ctx context.Context, userID string) (*CancelResponse, error) {
	u, err := s.users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !cancellable(u) {
		return nil, core.ValidationError("no active subscription to cancel")
	}

	free, err := s.plans.GetBySlug(ctx, plan.FreeSlug)
	if err != nil {
		return nil, err
	}

	now := s.now()
	err = s.tx.WithTx(ctx, func(tx core.DBTX) error {
		users := s.users(tx)
		if err := users.SetPlan(ctx, userID, free.ID, &now); err != nil {
			return err
		}
		return users.SetSubscriptionStatus(ctx, userID, user.SubscriptionCanceled, nil)
	})
	if err != nil {
		s.logger.Error("cancel subscription failed", "user_id", userID, "error", err)
		return nil, core.TransactionError(err)
	}

	s.logger.Info("subscription canceled", "user_id", userID)

	return &CancelResponse{
		SubscriptionStatus: user.SubscriptionCanceled,
		ExpiresAt:          &now,
	}, nil
}

func cancellable(u *user.User) bool {
	if u.SubscriptionID != nil {
		return true
	}
	if u.SubscriptionStatus == nil {
		return false
	}
	switch *u.SubscriptionStatus {
	case user.SubscriptionActive, user.SubscriptionOverdue:
		return true
	}
	return false
}
