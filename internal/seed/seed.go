package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stickershop/internal/domain"
	orderrepo "stickershop/internal/repository/order"
)

// Inserter is the slice of the order repository the seeder needs.
type Inserter interface {
	Insert(ctx context.Context, o domain.Order) (string, error)
}

type orderSeed struct {
	ID         string
	Size       domain.Size
	Lamination *domain.LaminationType
	Quantity   int
	File       string
	Customer   domain.Customer
}

// DemoOrders returns the fixed demo orders. IDs are stable so reseeding is a no-op.
func DemoOrders(now time.Time) []domain.Order {
	gloss := domain.LaminationGloss
	seeds := []orderSeed{
		{
			ID:         "ORD-DEMO-0001",
			Size:       domain.RectangleSize(50, 30),
			Lamination: &gloss,
			Quantity:   250,
			File:       "demo-rectangle.png",
			Customer: domain.Customer{
				Name:  "Demo Customer",
				Email: "demo@example.com",
				Phone: "+30 210 0000000",
				Address: domain.Address{
					Country: "Greece", Region: "Attica", Street: "Ermou", Number: "1", PostalCode: "10563",
				},
			},
		},
		{
			ID:       "ORD-DEMO-0002",
			Size:     domain.CircleSize(40),
			Quantity: 100,
			File:     "demo-circle.tiff",
			Customer: domain.Customer{
				Name:  "Second Demo",
				Phone: "+30 231 0000000",
				Address: domain.Address{
					Country: "Greece", Region: "Central Macedonia", Street: "Tsimiski", Number: "22", PostalCode: "54624",
				},
			},
		},
	}

	orders := make([]domain.Order, 0, len(seeds))
	for _, s := range seeds {
		contentType := "image/png"
		if s.Size.IsCircle() {
			contentType = "image/tiff"
		}
		orders = append(orders, domain.NewOrder(domain.OrderSpec{
			Shape:          s.Size.Shape(),
			Size:           s.Size,
			Lamination:     s.Lamination != nil,
			LaminationType: s.Lamination,
			Quantity:       s.Quantity,
			Customer:       s.Customer,
		}, domain.Artwork{
			FileName:    s.File,
			FileSize:    2048,
			ContentType: contentType,
			Path:        "seed/" + s.File,
		}, s.ID, now))
	}
	return orders
}

// Apply inserts the demo orders for manual testing. Orders that already exist
// are skipped. It returns how many rows were written.
func Apply(ctx context.Context, repo Inserter, now time.Time) (int, error) {
	inserted := 0
	for _, o := range DemoOrders(now) {
		_, err := repo.Insert(ctx, o)
		switch {
		case errors.Is(err, orderrepo.ErrDuplicate):
			continue
		case err != nil:
			return inserted, fmt.Errorf("insert %s: %w", o.OrderID, err)
		}
		inserted++
	}
	return inserted, nil
}
