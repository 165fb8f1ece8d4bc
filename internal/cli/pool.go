package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"

	"stickershop/internal/db"
	"stickershop/internal/migrate"
)

var errNoDSN = errors.New("ORDERS_DB_DSN is not set (pass --dsn or configure the environment)")

func withPool(ctx context.Context, opts *options, fn func(context.Context, *pgxpool.Pool) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	dsn, err := opts.resolveDSN()
	if err != nil {
		return err
	}
	if dsn == "" {
		return errNoDSN
	}
	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer pool.Close()
	return fn(ctx, pool)
}

func printVersion(ctx context.Context, out io.Writer, pool *pgxpool.Pool) error {
	v, dirty, err := migrate.Version(ctx, pool)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "schema version %d (dirty=%t)\n", v, dirty)
	return nil
}
