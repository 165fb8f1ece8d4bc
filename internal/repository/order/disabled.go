package order

import (
	"context"
	"time"

	"stickershop/internal/domain"
)

type disabledRepo struct{}

// NewDisabled returns a Repository used when no database is configured.
// Every insert reports domain.ErrNotConfigured.
func NewDisabled() Repository {
	return disabledRepo{}
}

func (disabledRepo) Insert(context.Context, domain.Order) (string, error) {
	return "", domain.ErrNotConfigured
}

func (disabledRepo) Probe(context.Context) Probe {
	return Probe{Configured: false, Err: domain.ErrNotConfigured, CheckedAt: time.Now().UTC()}
}
