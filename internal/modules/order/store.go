// README: Order store backed by PostgreSQL; an order and its items are written in one transaction.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"grocery/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, o *Order) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p := o.Payload
	_, err = tx.Exec(ctx, `
        INSERT INTO orders (
            id, user_id, session_id, shop_id, delivery_address_id, order_kind,
            subtotal, service_fee, delivery_fee, discount, referral_discount,
            voucher_code, total, currency, delivery_time, status, status_version, created_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6,
            $7, $8, $9, $10, $11,
            $12, $13, $14, $15, $16, $17, $18
        )`,
		string(o.ID), string(o.UserID), o.SessionID, p.ShopID, string(p.DeliveryAddressID), string(o.Kind),
		o.Subtotal, p.ServiceFee, p.DeliveryFee, p.Discount, p.ReferralDiscount,
		p.VoucherCode, p.Total, o.Currency, o.DeliveryAt, string(o.Status), o.StatusVersion, o.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "insert order")
	}

	batch := &pgx.Batch{}
	for _, it := range p.Items {
		batch.Queue(`
            INSERT INTO order_items (order_id, product_id, quantity, price)
            VALUES ($1, $2, $3, $4)`,
			string(o.ID), it.ProductID, it.Quantity, it.Price,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Wrap(err, "insert order items")
	}

	return tx.Commit(ctx)
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Order, error) {
	if _, err := uuid.Parse(string(id)); err != nil {
		return nil, ErrNotFound
	}
	row := s.db.QueryRow(ctx, `
        SELECT id::text, user_id::text, session_id, shop_id, delivery_address_id::text, order_kind,
               subtotal::text, service_fee::text, delivery_fee::text, discount::text, referral_discount::text,
               voucher_code, total::text, currency, delivery_time, status, status_version, created_at
        FROM orders
        WHERE id = $1`, string(id),
	)

	var o Order
	var subtotal, service, delivery, discount, referral, total string
	err := row.Scan(
		&o.ID, &o.UserID, &o.SessionID, &o.Payload.ShopID, &o.Payload.DeliveryAddressID, &o.Kind,
		&subtotal, &service, &delivery, &discount, &referral,
		&o.Payload.VoucherCode, &total, &o.Currency, &o.DeliveryAt, &o.Status, &o.StatusVersion, &o.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "query order")
	}

	if err := parseDecimals(
		decimalField{&o.Subtotal, subtotal},
		decimalField{&o.Payload.ServiceFee, service},
		decimalField{&o.Payload.DeliveryFee, delivery},
		decimalField{&o.Payload.Discount, discount},
		decimalField{&o.Payload.ReferralDiscount, referral},
		decimalField{&o.Payload.Total, total},
	); err != nil {
		return nil, err
	}
	o.DeliveryAt = o.DeliveryAt.UTC()
	o.Payload.DeliveryTime = o.DeliveryAt.Format(time.RFC3339)

	items, err := s.items(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Payload.Items = items
	return &o, nil
}

func (s *Store) items(ctx context.Context, orderID types.ID) ([]Item, error) {
	rows, err := s.db.Query(ctx, `
        SELECT product_id, quantity, price::text
        FROM order_items
        WHERE order_id = $1
        ORDER BY product_id`, string(orderID),
	)
	if err != nil {
		return nil, errors.Wrap(err, "query order items")
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		var price string
		if err := rows.Scan(&it.ProductID, &it.Quantity, &price); err != nil {
			return nil, err
		}
		if err := parseDecimals(decimalField{&it.Price, price}); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateStatus moves the order from one status to another only if nobody else
// changed it since version was read.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error) {
	tag, err := s.db.Exec(ctx, `
        UPDATE orders
        SET status = $1,
            status_version = status_version + 1
        WHERE id = $2 AND status = $3 AND status_version = $4`,
		string(to), string(id), string(from), version,
	)
	if err != nil {
		return false, errors.Wrap(err, "update order status")
	}
	return tag.RowsAffected() == 1, nil
}

type decimalField struct {
	dst *decimal.Decimal
	src string
}

func parseDecimals(fields ...decimalField) error {
	for _, f := range fields {
		v, err := decimal.NewFromString(f.src)
		if err != nil {
			return errors.Wrapf(err, "parse amount %q", f.src)
		}
		*f.dst = v
	}
	return nil
}
