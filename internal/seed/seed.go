// Package seed loads sample inventory data on startup so the services are
// usable out of the box.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/batchstock/internal/core/domain"
	"github.com/example/batchstock/internal/core/service"
)

type product struct {
	id      string
	name    string
	batches []batch
}

type batch struct {
	id       string
	quantity int64
	expiryIn time.Duration
}

const month = 30 * 24 * time.Hour

var sampleProducts = []product{
	{
		id: "WHEAT-001", name: "Wheat",
		batches: []batch{
			{id: "WHEAT-B001", quantity: 1000, expiryIn: 6 * month},
			{id: "WHEAT-B002", quantity: 500, expiryIn: 9 * month},
		},
	},
	{
		id: "RICE-001", name: "Rice",
		batches: []batch{
			{id: "RICE-B001", quantity: 2000, expiryIn: 12 * month},
			{id: "RICE-B002", quantity: 1500, expiryIn: 8 * month},
		},
	},
	{
		id: "SUGAR-001", name: "Sugar",
		batches: []batch{
			{id: "SUGAR-B001", quantity: 3000, expiryIn: 18 * month},
		},
	},
}

// Inventory seeds the sample products and batches. Products that already
// exist are skipped, so seeding is safe to run on every startup.
func Inventory(ctx context.Context, svc *service.InventoryService, logger *zap.Logger) error {
	for _, p := range sampleProducts {
		_, err := svc.CreateProduct(ctx, p.id, p.name)
		if errors.Is(err, domain.ErrAlreadyExists) {
			logger.Info("seed: product already present", zap.String("product_id", p.id))
			continue
		}
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.id, err)
		}

		for _, b := range p.batches {
			expiry := time.Now().Add(b.expiryIn)
			_, err := svc.UpdateInventory(ctx, service.UpdateInventoryInput{
				ProductID:  p.id,
				BatchRef:   b.id,
				Quantity:   b.quantity,
				ExpiryDate: &expiry,
			})
			if err != nil {
				return fmt.Errorf("seed batch %s: %w", b.id, err)
			}
		}
		logger.Info("seed: product created",
			zap.String("product_id", p.id), zap.Int("batches", len(p.batches)))
	}
	return nil
}
