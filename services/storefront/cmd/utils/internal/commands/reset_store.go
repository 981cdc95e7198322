package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/storefront/services/storefront/internal/storefront"
	"github.com/aquamarinepk/aqm"
	"golang.org/x/sync/errgroup"
)

// ResetStore deletes every storefront collection - USE WITH CAUTION
func ResetStore(ctx context.Context, config *aqm.Config, logger aqm.Logger) error {
	logger.Infof("⚠️  DANGER: This will delete the menu, orders and reservations!")
	logger.Infof("⚠️  This action cannot be undone!")

	store, closeStore, err := openStore(ctx, config, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	g, gctx := errgroup.WithContext(ctx)
	for _, key := range storefront.Keys {
		g.Go(func() error {
			logger.Info("Deleting collection", "key", key)
			if err := store.Delete(gctx, key); err != nil {
				return fmt.Errorf("delete %s: %w", key, err)
			}
			return nil
		})
	}

	return g.Wait()
}
