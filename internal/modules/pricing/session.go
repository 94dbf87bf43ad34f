// README: Checkout sessions in Redis; remembers which discount code is applied.
package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const sessionKeyPrefix = "checkout:session:%s:discount"

// AppliedDiscount is the identity of an applied code. Referral amounts are not
// part of it; they are derived from the fees of each quote.
type AppliedDiscount struct {
	Kind        DiscountKind
	Code        string
	FractionOff decimal.Decimal
}

// Applied captures the identity of d.
func Applied(d Discount) AppliedDiscount {
	switch v := d.(type) {
	case Promo:
		return AppliedDiscount{Kind: KindPromo, Code: v.Code, FractionOff: v.FractionOff}
	case Referral:
		return AppliedDiscount{Kind: KindReferral, Code: v.Code}
	}
	return AppliedDiscount{Kind: KindNone}
}

// Discount rebuilds the Discount. Referral amounts are zero until repriced.
func (a AppliedDiscount) Discount() Discount {
	switch a.Kind {
	case KindPromo:
		return Promo{Code: a.Code, FractionOff: a.FractionOff}
	case KindReferral:
		return Referral{Code: a.Code}
	}
	return NoDiscount{}
}

type SessionStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{redis: rdb, ttl: ttl}
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (AppliedDiscount, error) {
	vals, err := s.redis.HGetAll(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return AppliedDiscount{}, errors.Wrap(err, "read session")
	}
	if len(vals) == 0 {
		return AppliedDiscount{Kind: KindNone}, nil
	}

	a := AppliedDiscount{Kind: DiscountKind(vals["kind"]), Code: vals["code"]}
	if f := vals["fraction_off"]; f != "" {
		a.FractionOff, err = decimal.NewFromString(f)
		if err != nil {
			return AppliedDiscount{}, errors.Wrap(err, "parse session fraction")
		}
	}
	return a, nil
}

// Put replaces whatever discount the session held.
func (s *SessionStore) Put(ctx context.Context, sessionID string, a AppliedDiscount) error {
	if a.Kind == KindNone || a.Kind == "" {
		return s.Clear(ctx, sessionID)
	}
	key := sessionKey(sessionID)
	pipe := s.redis.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, map[string]any{
		"kind":         string(a.Kind),
		"code":         a.Code,
		"fraction_off": a.FractionOff.String(),
	})
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *SessionStore) Clear(ctx context.Context, sessionID string) error {
	return s.redis.Del(ctx, sessionKey(sessionID)).Err()
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf(sessionKeyPrefix, sessionID)
}
