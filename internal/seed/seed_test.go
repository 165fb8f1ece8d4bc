package seed

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stickershop/internal/domain"
	orderrepo "stickershop/internal/repository/order"
)

type memRepo struct {
	ids map[string]bool
	err error
}

func (m *memRepo) Insert(_ context.Context, o domain.Order) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.ids[o.OrderID] {
		return "", fmt.Errorf("%w: %s", orderrepo.ErrDuplicate, o.OrderID)
	}
	m.ids[o.OrderID] = true
	return o.OrderID, nil
}

func TestApply_IsIdempotent(t *testing.T) {
	repo := &memRepo{ids: map[string]bool{}}
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	n, err := Apply(context.Background(), repo, now)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = Apply(context.Background(), repo, now)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestApply_PropagatesErrors(t *testing.T) {
	_, err := Apply(context.Background(), &memRepo{err: orderrepo.ErrTableMissing}, time.Now())
	require.ErrorIs(t, err, orderrepo.ErrTableMissing)

	_, err = Apply(context.Background(), &memRepo{err: errors.New("boom")}, time.Now())
	require.EqualError(t, err, "insert ORD-DEMO-0001: boom")
}

func TestDemoOrders_AreConsistent(t *testing.T) {
	for _, o := range DemoOrders(time.Now()) {
		assert.Equal(t, o.Size.Shape(), o.Shape, o.OrderID)
		assert.Equal(t, o.Lamination, o.LaminationType != nil, o.OrderID)
		assert.Positive(t, o.Quantity, o.OrderID)
	}
}
