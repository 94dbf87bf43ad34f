// README: System configuration store backed by PostgreSQL.
package pricing

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrConfigMissing = errors.New("system configuration missing")

// configRowID is the single system_configuration row.
const configRowID = 1

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) FeeSchedule(ctx context.Context) (FeeSchedule, error) {
	row := s.db.QueryRow(ctx, `
        SELECT base_delivery_fee::text, service_fee::text, shopping_time,
               units_surcharge::text, extra_units, capped_distance_fee::text,
               distance_surcharge::text, currency
        FROM system_configuration
        WHERE id = $1`, configRowID,
	)

	var fs FeeSchedule
	var base, service, units, capped, perKm string
	err := row.Scan(&base, &service, &fs.ShoppingTimeMinutes, &units, &fs.ExtraUnitsThreshold, &capped, &perKm, &fs.CurrencyCode)
	if errors.Is(err, pgx.ErrNoRows) {
		return FeeSchedule{}, ErrConfigMissing
	}
	if err != nil {
		return FeeSchedule{}, errors.Wrap(err, "query fee schedule")
	}

	for _, f := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&fs.BaseDeliveryFee, base},
		{&fs.ServiceFee, service},
		{&fs.UnitsSurchargePerExtraUnit, units},
		{&fs.CappedDistanceFee, capped},
		{&fs.DistanceSurchargePerKm, perKm},
	} {
		v, err := decimal.NewFromString(f.src)
		if err != nil {
			return FeeSchedule{}, errors.Wrapf(err, "parse fee %q", f.src)
		}
		*f.dst = v
	}
	return fs, nil
}

// LiveFlags always hits the database.
func (s *Store) LiveFlags(ctx context.Context) (LiveFlags, error) {
	var flags LiveFlags
	err := s.db.QueryRow(ctx, `
        SELECT discounts FROM system_configuration WHERE id = $1`, configRowID,
	).Scan(&flags.DiscountsEnabled)
	if errors.Is(err, pgx.ErrNoRows) {
		return LiveFlags{}, ErrConfigMissing
	}
	if err != nil {
		return LiveFlags{}, errors.Wrap(err, "query live flags")
	}
	return flags, nil
}
