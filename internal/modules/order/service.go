// README: Order service; re-prices the cart server-side, persists the order and drives its lifecycle.
package order

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"grocery/internal/modules/pricing"
	"grocery/internal/types"
)

var (
	ErrNotFound     = errors.New("order not found")
	ErrBadRequest   = errors.New("bad request")
	ErrInvalidState = errors.New("invalid state transition")
	ErrConflict     = errors.New("order state conflict")
	ErrPriceChanged = errors.New("price changed since last quote")
)

// Quoter is the part of the pricing service orders depend on.
type Quoter interface {
	Quote(ctx context.Context, req pricing.QuoteRequest) (pricing.Quote, error)
	ClearCode(ctx context.Context, sessionID string) error
}

type OrderStore interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id types.ID) (*Order, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error)
}

type Service struct {
	store  OrderStore
	quoter Quoter
	logger *slog.Logger
	now    func() time.Time
}

func NewService(store OrderStore, quoter Quoter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, quoter: quoter, logger: logger, now: time.Now}
}

type SubmitCommand struct {
	Request pricing.QuoteRequest
	// ExpectedTotal is the total the shopper saw. When set, the order is
	// refused if the server-side total differs.
	ExpectedTotal *decimal.Decimal
}

type SubmitResult struct {
	OrderID types.ID
	Payload Payload
}

type CancelCommand struct {
	OrderID types.ID
	UserID  types.ID
}

// Submit prices the cart again, stores the order and releases the session's
// discount code.
func (s *Service) Submit(ctx context.Context, cmd SubmitCommand) (SubmitResult, error) {
	req := cmd.Request
	if req.UserID == "" || req.ShopID == "" {
		return SubmitResult{}, errors.Wrap(ErrBadRequest, "user and shop are required")
	}
	seen := make(map[string]bool, len(req.Items))
	for _, it := range req.Items {
		if it.ProductID == "" || seen[it.ProductID] {
			return SubmitResult{}, errors.Wrapf(ErrBadRequest, "item %q missing or repeated", it.ProductID)
		}
		seen[it.ProductID] = true
	}

	q, err := s.quoter.Quote(ctx, req)
	if err != nil {
		return SubmitResult{}, err
	}
	if cmd.ExpectedTotal != nil && !cmd.ExpectedTotal.Equal(q.Result.GrandTotal) {
		return SubmitResult{}, errors.Wrapf(ErrPriceChanged, "expected %s, now %s", cmd.ExpectedTotal, q.Result.GrandTotal)
	}

	kind := req.Kind
	if kind == "" {
		kind = pricing.OrderGrocery
	}
	o := &Order{
		ID:         types.ID(uuid.NewString()),
		UserID:     req.UserID,
		SessionID:  q.SessionID,
		Kind:       kind,
		Status:     StatusPending,
		Subtotal:   q.Subtotal,
		Currency:   q.Currency,
		DeliveryAt: q.Result.EstimatedDeliveryAt,
		Payload:    NewPayload(q, req),
		CreatedAt:  s.now(),
	}
	if err := s.store.Create(ctx, o); err != nil {
		return SubmitResult{}, errors.Wrap(err, "create order")
	}

	if req.SessionID != "" {
		if err := s.quoter.ClearCode(ctx, req.SessionID); err != nil {
			s.logger.Warn("session discount not cleared", "session_id", req.SessionID, "order_id", o.ID, "error", err)
		}
	}
	s.logger.Info("order submitted",
		"order_id", o.ID,
		"user_id", o.UserID,
		"total", o.Payload.Total.String(),
		"discount_kind", q.Discount.Kind(),
	)
	return SubmitResult{OrderID: o.ID, Payload: o.Payload}, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Order, error) {
	return s.store.Get(ctx, id)
}

// Cancel withdraws an order that has not been delivered yet.
func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) error {
	o, err := s.store.Get(ctx, cmd.OrderID)
	if err != nil {
		return err
	}
	if cmd.UserID != "" && o.UserID != cmd.UserID {
		return ErrNotFound
	}
	if !CanTransition(o.Status, StatusCancelled) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, o.ID, o.Status, StatusCancelled, o.StatusVersion)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	s.logger.Info("order cancelled", "order_id", o.ID)
	return nil
}
