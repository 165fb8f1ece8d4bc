package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stickershop/internal/config"
	"stickershop/internal/db"
	"stickershop/internal/migrate"
	orderrepo "stickershop/internal/repository/order"
)

type options struct {
	envFile string
	dsn     string
}

func newMigrateRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the orders database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Optional dotenv file to load before reading the environment")
	cmd.PersistentFlags().StringVar(&opts.dsn, "dsn", "", "Orders database DSN (overrides ORDERS_DB_DSN)")

	cmd.AddCommand(newUpCmd(opts))
	cmd.AddCommand(newDownCmd(opts))
	cmd.AddCommand(newCheckCmd(opts))
	return cmd
}

// NewMigrateCmdForTest returns the migrate root command for testing.
func NewMigrateCmdForTest() *cobra.Command {
	return newMigrateRootCmd()
}

// ExecuteMigrate runs the migrate command line.
func ExecuteMigrate() error {
	return newMigrateRootCmd().Execute()
}

func (o *options) resolveDSN() (string, error) {
	if o.dsn != "" {
		return o.dsn, nil
	}
	cfg, err := config.Load(o.envFile)
	if err != nil {
		return "", err
	}
	return cfg.DBConnString, nil
}

func newUpCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd.Context(), opts, func(ctx context.Context, pool *pgxpool.Pool) error {
				if err := migrate.Apply(ctx, pool); err != nil {
					return err
				}
				return printVersion(ctx, cmd.OutOrStdout(), pool)
			})
		},
	}
}

func newDownCmd(opts *options) *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Revert applied migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd.Context(), opts, func(ctx context.Context, pool *pgxpool.Pool) error {
				if err := migrate.Rollback(ctx, pool, steps); err != nil {
					return err
				}
				return printVersion(ctx, cmd.OutOrStdout(), pool)
			})
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to revert")
	return cmd
}

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Probe the orders database the same way the API diagnostic does",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			dsn, err := opts.resolveDSN()
			if err != nil {
				return err
			}
			if dsn == "" {
				fmt.Fprintln(out, "orders database: not configured (ORDERS_DB_DSN is empty)")
				return nil
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			pool, err := db.Open(ctx, dsn)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer pool.Close()

			p := orderrepo.NewPostgres(pool, zap.NewNop()).Probe(ctx)
			return reportProbe(out, p)
		},
	}
}

func reportProbe(out io.Writer, p orderrepo.Probe) error {
	switch {
	case !p.Configured:
		fmt.Fprintln(out, "orders database: not configured")
		return nil
	case !p.Connected:
		fmt.Fprintf(out, "orders database: unreachable: %v\n", p.Err)
		return errors.New("orders database unreachable")
	case !p.TableExists:
		fmt.Fprintln(out, "orders database: connected, orders table missing (run `migrate up`)")
		return orderrepo.ErrTableMissing
	case p.Err != nil:
		fmt.Fprintf(out, "orders database: query failed: %v\n", p.Err)
		return p.Err
	default:
		fmt.Fprintf(out, "orders database: ok, %d orders (checked %s)\n", p.OrderCount, p.CheckedAt.Format(time.RFC3339))
		return nil
	}
}

// ReportProbeForTest exposes the probe report for testing.
func ReportProbeForTest(out io.Writer, p orderrepo.Probe) error {
	return reportProbe(out, p)
}
