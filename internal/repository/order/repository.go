package order

import (
	"context"
	"errors"
	"time"

	"stickershop/internal/domain"
)

// ErrTableMissing is returned when the orders table has not been migrated.
var ErrTableMissing = errors.New("orders table does not exist")

// ErrDuplicate is returned when an order ID was already recorded.
var ErrDuplicate = errors.New("order already recorded")

// Repository persists order snapshots. Only inserts are part of the order path;
// Probe backs the diagnostic endpoint.
type Repository interface {
	Insert(ctx context.Context, o domain.Order) (string, error)
	Probe(ctx context.Context) Probe
}

// Probe describes repository health as seen from this process.
type Probe struct {
	Configured  bool
	Connected   bool
	TableExists bool
	OrderCount  int64
	Err         error
	CheckedAt   time.Time
}
