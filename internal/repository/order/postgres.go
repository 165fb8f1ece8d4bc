package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"stickershop/internal/domain"
	"stickershop/internal/logging"
)

const (
	pgUndefinedTable  = "42P01"
	pgUniqueViolation = "23505"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger)}
}

func (r *postgresRepo) Insert(ctx context.Context, o domain.Order) (string, error) {
	const q = `
INSERT INTO orders (
    order_id, shape, width_mm, height_mm, diameter_mm, lamination, lamination_type, quantity,
    file_name, file_size, file_content_type, file_path,
    customer_name, customer_email, customer_phone,
    country, region, street, street_number, postal_code, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
RETURNING id::text
`
	var width, height, diameter *float64
	switch {
	case o.Size.IsRectangle():
		w, h := o.Size.Width(), o.Size.Height()
		width, height = &w, &h
	case o.Size.IsCircle():
		d := o.Size.Diameter()
		diameter = &d
	}
	var laminationType *string
	if o.LaminationType != nil {
		v := string(*o.LaminationType)
		laminationType = &v
	}
	var email *string
	if o.Customer.Email != "" {
		email = &o.Customer.Email
	}

	var id string
	err := r.pool.QueryRow(ctx, q,
		o.OrderID,
		string(o.Shape),
		width,
		height,
		diameter,
		o.Lamination,
		laminationType,
		o.Quantity,
		o.Artwork.FileName,
		o.Artwork.FileSize,
		o.Artwork.ContentType,
		o.Artwork.Path,
		o.Customer.Name,
		email,
		o.Customer.Phone,
		o.Customer.Address.Country,
		o.Customer.Address.Region,
		o.Customer.Address.Street,
		o.Customer.Address.Number,
		o.Customer.Address.PostalCode,
		o.CreatedAt,
	).Scan(&id)
	if err != nil {
		if isUndefinedTable(err) {
			return "", ErrTableMissing
		}
		if hasCode(err, pgUniqueViolation) {
			return "", fmt.Errorf("%w: %s", ErrDuplicate, o.OrderID)
		}
		r.logger.Warn("order repo: insert failed", zap.String("order_id", o.OrderID), zap.Error(err))
		return "", fmt.Errorf("insert order %s: %w", o.OrderID, err)
	}
	return id, nil
}

func (r *postgresRepo) Probe(ctx context.Context) Probe {
	p := Probe{Configured: true, CheckedAt: time.Now().UTC()}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.pool.Ping(pingCtx); err != nil {
		p.Err = err
		return p
	}
	p.Connected = true

	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&p.OrderCount)
	switch {
	case err == nil:
		p.TableExists = true
	case isUndefinedTable(err):
		p.Err = ErrTableMissing
	default:
		p.TableExists = true
		p.Err = err
	}
	return p
}

func isUndefinedTable(err error) bool {
	return hasCode(err, pgUndefinedTable)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
