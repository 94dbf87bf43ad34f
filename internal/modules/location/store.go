// README: Address book store backed by PostgreSQL.
package location

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"grocery/internal/types"
)

var ErrNotFound = errors.New("address not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const addressColumns = `id::text, user_id::text, label, street, city,
       latitude, longitude, altitude, is_default, created_at`

func (s *Store) ListByUser(ctx context.Context, userID types.ID) ([]Address, error) {
	if !isUUID(userID) {
		return nil, nil
	}
	rows, err := s.db.Query(ctx, `
        SELECT `+addressColumns+`
        FROM addresses
        WHERE user_id = $1
        ORDER BY is_default DESC, created_at ASC`, string(userID),
	)
	if err != nil {
		return nil, errors.Wrap(err, "query addresses")
	}
	defer rows.Close()

	var out []Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Address, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	row := s.db.QueryRow(ctx, `
        SELECT `+addressColumns+`
        FROM addresses
        WHERE id = $1`, string(id),
	)
	a, err := scanAddress(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Selected returns the user's default address.
func (s *Store) Selected(ctx context.Context, userID types.ID) (*Address, error) {
	if !isUUID(userID) {
		return nil, ErrNotFound
	}
	row := s.db.QueryRow(ctx, `
        SELECT `+addressColumns+`
        FROM addresses
        WHERE user_id = $1 AND is_default
        LIMIT 1`, string(userID),
	)
	a, err := scanAddress(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Select makes id the only default address of userID.
func (s *Store) Select(ctx context.Context, userID, id types.ID) error {
	if !isUUID(userID) || !isUUID(id) {
		return ErrNotFound
	}
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM addresses WHERE id = $1 AND user_id = $2
        )`, string(id), string(userID),
	).Scan(&exists); err != nil {
		return errors.Wrap(err, "check address")
	}
	if !exists {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `
        UPDATE addresses
        SET is_default = (id = $2)
        WHERE user_id = $1`, string(userID), string(id),
	); err != nil {
		return errors.Wrap(err, "update default address")
	}
	return tx.Commit(ctx)
}

func scanAddress(row pgx.Row) (Address, error) {
	var a Address
	var id, userID string
	err := row.Scan(
		&id, &userID, &a.Label, &a.Street, &a.City,
		&a.Position.Lat, &a.Position.Lng, &a.Position.Alt, &a.IsDefault, &a.CreatedAt,
	)
	if err != nil {
		return Address{}, err
	}
	a.ID = types.ID(id)
	a.UserID = types.ID(userID)
	return a, nil
}

// isUUID filters ids the uuid columns would reject with a type error.
func isUUID(id types.ID) bool {
	_, err := uuid.Parse(string(id))
	return err == nil
}
