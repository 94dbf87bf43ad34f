// README: Pricing service; loads configuration, address and session state, then runs Compute.
package pricing

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"grocery/internal/modules/location"
	"grocery/internal/types"
)

var (
	ErrBadRequest = errors.New("bad request")
	// ErrNoSessions means a code cannot be kept because no session store is configured.
	ErrNoSessions = errors.New("checkout sessions not configured")
)

// MaxItemQuantity bounds a single cart line.
const MaxItemQuantity = 10000

// FlagSource yields flags that must be read on every pricing run.
type FlagSource interface {
	LiveFlags(ctx context.Context) (LiveFlags, error)
}

type AddressResolver interface {
	Resolve(ctx context.Context, userID, id types.ID) (*location.Address, error)
}

type Sessions interface {
	Get(ctx context.Context, sessionID string) (AppliedDiscount, error)
	Put(ctx context.Context, sessionID string, a AppliedDiscount) error
	Clear(ctx context.Context, sessionID string) error
}

type ServiceDeps struct {
	Schedule  ScheduleSource
	Flags     FlagSource
	Addresses AddressResolver
	Sessions  Sessions
	Referrals ReferralValidator
	Logger    *slog.Logger
	Now       func() time.Time
}

type Service struct {
	schedule  ScheduleSource
	flags     FlagSource
	addresses AddressResolver
	sessions  Sessions
	referrals ReferralValidator
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(deps ServiceDeps) *Service {
	s := &Service{
		schedule:  deps.Schedule,
		flags:     deps.Flags,
		addresses: deps.Addresses,
		sessions:  deps.Sessions,
		referrals: deps.Referrals,
		logger:    deps.Logger,
		now:       deps.Now,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

type CartItem struct {
	ProductID       string
	Price           decimal.Decimal
	Quantity        int
	PreparationTime string
}

type QuoteRequest struct {
	SessionID string
	UserID    types.ID
	AddressID types.ID
	ShopID    string
	Shop      types.Point
	Kind      OrderKind
	Items     []CartItem
}

// OrderContext derives subtotal and unit count from the cart.
func (r QuoteRequest) OrderContext() (OrderContext, error) {
	if len(r.Items) == 0 {
		return OrderContext{}, errors.Wrap(ErrBadRequest, "cart is empty")
	}
	kind := r.Kind
	if kind == "" {
		kind = OrderGrocery
	}
	if kind != OrderGrocery && kind != OrderFood {
		return OrderContext{}, errors.Wrapf(ErrBadRequest, "unknown order kind %q", kind)
	}

	oc := OrderContext{Subtotal: decimal.Zero, Shop: r.Shop, IsFoodOrder: kind == OrderFood}
	for _, it := range r.Items {
		if it.Quantity <= 0 || it.Quantity > MaxItemQuantity {
			return OrderContext{}, errors.Wrapf(ErrBadRequest, "item %s: quantity must be between 1 and %d", it.ProductID, MaxItemQuantity)
		}
		if it.Price.IsNegative() {
			return OrderContext{}, errors.Wrapf(ErrBadRequest, "item %s: negative price", it.ProductID)
		}
		oc.Subtotal = oc.Subtotal.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		oc.TotalUnits += it.Quantity
		if oc.IsFoodOrder {
			oc.Dishes = append(oc.Dishes, RestaurantItem{PreparationTime: it.PreparationTime, Quantity: it.Quantity})
		}
	}
	return oc, nil
}

// Quote prices the cart with whatever discount the session holds.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (Quote, error) {
	in, addr, err := s.inputs(ctx, req)
	if err != nil {
		return Quote{}, err
	}

	applied := s.sessionDiscount(ctx, req.SessionID)
	if applied.Kind != KindNone && !in.Flags.DiscountsEnabled {
		s.logger.Info("dropping session discount, discounts disabled", "session_id", req.SessionID, "code", applied.Code)
		s.clearSession(ctx, req.SessionID)
	}
	in.Discount = applied.Discount()

	q := Compute(in)
	q.AddressID = addr.ID
	q.SessionID = req.SessionID
	s.logQuote(q)
	return q, nil
}

// ApplyCode resolves raw against the live discount flag and the current fees
// and stores it on the session, replacing any other code. On an advisory
// error the returned quote carries no discount.
func (s *Service) ApplyCode(ctx context.Context, raw string, req QuoteRequest) (Quote, error) {
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	in, addr, err := s.inputs(ctx, req)
	if err != nil {
		return Quote{}, err
	}

	base := Compute(in)
	base.AddressID = addr.ID
	base.SessionID = req.SessionID

	d, derr := ResolveDiscountCode(ctx, raw, in.Flags, base.BaseServiceFee, base.Delivery.Fee, s.referrals)
	if derr != nil {
		if errors.Is(derr, ErrReferralUnavailable) {
			s.logger.Warn("referral validation failed", "session_id", req.SessionID, "error", derr)
		}
		if !errors.Is(derr, ErrDiscountsDisabled) {
			s.clearSession(ctx, req.SessionID)
		}
		return base, derr
	}

	if s.sessions == nil {
		return Quote{}, ErrNoSessions
	}
	if err := s.sessions.Put(ctx, req.SessionID, Applied(d)); err != nil {
		return Quote{}, errors.Wrap(err, "store session discount")
	}

	in.Discount = d
	q := Compute(in)
	q.AddressID = addr.ID
	q.SessionID = req.SessionID
	s.logger.Info("discount applied", "session_id", req.SessionID, "kind", d.Kind(), "code", CodeOf(d))
	return q, nil
}

func (s *Service) ClearCode(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.Wrap(ErrBadRequest, "missing session id")
	}
	if s.sessions == nil {
		return nil
	}
	return s.sessions.Clear(ctx, sessionID)
}

// IsAdvisory reports whether err is a discount problem the shopper can
// ignore and still check out.
func IsAdvisory(err error) bool {
	return errors.Is(err, ErrDiscountsDisabled) ||
		errors.Is(err, ErrInvalidCode) ||
		errors.Is(err, ErrReferralUnavailable)
}

func (s *Service) inputs(ctx context.Context, req QuoteRequest) (Inputs, *location.Address, error) {
	order, err := req.OrderContext()
	if err != nil {
		return Inputs{}, nil, err
	}
	fs, err := s.schedule.FeeSchedule(ctx)
	if err != nil {
		return Inputs{}, nil, errors.Wrap(err, "load fee schedule")
	}
	flags, err := s.flags.LiveFlags(ctx)
	if err != nil {
		return Inputs{}, nil, errors.Wrap(err, "load live flags")
	}
	addr, err := s.addresses.Resolve(ctx, req.UserID, req.AddressID)
	if err != nil {
		return Inputs{}, nil, err
	}
	return Inputs{
		Order:       order,
		Destination: addr.Position,
		Schedule:    fs,
		Flags:       flags,
		Discount:    NoDiscount{},
		Now:         s.now(),
	}, addr, nil
}

func (s *Service) clearSession(ctx context.Context, sessionID string) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.Clear(ctx, sessionID); err != nil {
		s.logger.Warn("session clear failed", "session_id", sessionID, "error", err)
	}
}

func (s *Service) sessionDiscount(ctx context.Context, sessionID string) AppliedDiscount {
	if sessionID == "" || s.sessions == nil {
		return AppliedDiscount{Kind: KindNone}
	}
	a, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		s.logger.Warn("session read failed, quoting without discount", "session_id", sessionID, "error", err)
		return AppliedDiscount{Kind: KindNone}
	}
	return a
}

func (s *Service) logQuote(q Quote) {
	if q.UnreadablePrepTimes > 0 {
		s.logger.Debug("unreadable preparation times defaulted", "count", q.UnreadablePrepTimes)
	}
	s.logger.Debug("quote computed",
		"session_id", q.SessionID,
		"distance_km", q.DistanceKm,
		"delivery_fee", q.Result.DeliveryFee.String(),
		"grand_total", q.Result.GrandTotal.String(),
		"eta", q.Result.EstimatedDeliveryAt,
	)
}
