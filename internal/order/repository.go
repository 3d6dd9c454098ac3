package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrInvalidIdentity = errors.New("identity cannot be empty")
)

// Repository persists Records keyed by (identity, day).
// Upsert must be atomic for one key: concurrent calls never leave two rows for it.
type Repository interface {
	Upsert(ctx context.Context, rec *Record) error
	FindByDay(ctx context.Context, day time.Time) ([]Record, error)
	FindByKey(ctx context.Context, identity string, day time.Time) (*Record, error)
	FindEarliestByDay(ctx context.Context, day time.Time) (*Record, error)
	DeleteByKey(ctx context.Context, identity string, day time.Time) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const recordColumns = `id, identity, day, content, seq, created_at, updated_at`

// Upsert inserts the record or replaces the content of the existing one.
// On return rec carries the stored id, seq and timestamps; created_at of an
// existing row is preserved.
func (r *postgresRepository) Upsert(ctx context.Context, rec *Record) error {
	newID, err := uuid.NewV4()
	if err != nil {
		log.Error().Err(err).Msg("repository: failed to generate order ID")
		return fmt.Errorf("repository: failed to generate order ID: %w", err)
	}

	query := `
		INSERT INTO lunch_order.orders (id, identity, day, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (identity, day) DO UPDATE
		SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at
		RETURNING id, seq, created_at, updated_at
	`

	err = r.db.QueryRowxContext(ctx, query,
		newID,
		rec.Identity,
		rec.Day,
		rec.Content,
		rec.CreatedAt,
		rec.UpdatedAt,
	).Scan(&rec.ID, &rec.Seq, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("repository: failed to upsert order for %q on %s: %w", rec.Identity, rec.Day.Format(time.DateOnly), err)
	}

	return nil
}

func (r *postgresRepository) FindByDay(ctx context.Context, day time.Time) ([]Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM lunch_order.orders
		WHERE day = $1
		ORDER BY created_at, seq
	`

	records := make([]Record, 0)
	if err := r.db.SelectContext(ctx, &records, query, day); err != nil {
		return nil, fmt.Errorf("repository: failed to select orders for day %s: %w", day.Format(time.DateOnly), err)
	}

	return records, nil
}

func (r *postgresRepository) FindByKey(ctx context.Context, identity string, day time.Time) (*Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM lunch_order.orders
		WHERE identity = $1 AND day = $2
	`

	var rec Record
	if err := r.db.GetContext(ctx, &rec, query, identity, day); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order for %q on %s: %w", identity, day.Format(time.DateOnly), err)
	}

	return &rec, nil
}

func (r *postgresRepository) FindEarliestByDay(ctx context.Context, day time.Time) (*Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM lunch_order.orders
		WHERE day = $1
		ORDER BY created_at, seq
		LIMIT 1
	`

	var rec Record
	if err := r.db.GetContext(ctx, &rec, query, day); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select earliest order on %s: %w", day.Format(time.DateOnly), err)
	}

	return &rec, nil
}

func (r *postgresRepository) DeleteByKey(ctx context.Context, identity string, day time.Time) error {
	query := `
		DELETE FROM lunch_order.orders
		WHERE identity = $1 AND day = $2
	`

	res, err := r.db.ExecContext(ctx, query, identity, day)
	if err != nil {
		log.Error().Err(err).Str("identity", identity).Msg("repository: failed to delete order")
		return fmt.Errorf("repository: failed to delete order for %q on %s: %w", identity, day.Format(time.DateOnly), err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		log.Debug().Str("identity", identity).Msg("repository: no order to delete")
	}

	return nil
}
