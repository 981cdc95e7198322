package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/storefront/services/storefront/internal/storefront"
	"github.com/aquamarinepk/aqm"
)

// Export writes the admin workbook to export.path.
func Export(ctx context.Context, config *aqm.Config, logger aqm.Logger) error {
	path := config.GetStringOrDef("export.path", "storefront-orders.xlsx")

	store, closeStore, err := openStore(ctx, config, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	repo, err := newRepo(store, config, logger)
	if err != nil {
		return err
	}

	orders, err := repo.ListOrders(ctx)
	if err != nil {
		return err
	}
	reservations, err := repo.ListReservations(ctx)
	if err != nil {
		return err
	}
	stats, err := repo.GetStats(ctx)
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(config.GetStringOrDef("export.timezone", "UTC"))
	if err != nil {
		return fmt.Errorf("export timezone: %w", err)
	}

	book, err := storefront.ExportWorkbook(orders, reservations, stats, loc)
	if err != nil {
		return err
	}
	defer book.Close()

	if err := book.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	logger.Info("Export written", "path", path, "orders", len(orders), "reservations", len(reservations))
	return nil
}
