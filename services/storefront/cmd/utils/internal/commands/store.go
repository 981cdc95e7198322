package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/storefront/services/storefront/internal/app"
	"github.com/appetiteclub/storefront/services/storefront/internal/kvstore"
	"github.com/aquamarinepk/aqm"
)

// openStore builds and starts the configured store. The returned close
// function stops it.
func openStore(ctx context.Context, config *aqm.Config, logger aqm.Logger) (kvstore.Store, func(), error) {
	store, err := app.NewStore(config, logger)
	if err != nil {
		return nil, nil, err
	}

	lc, ok := store.(app.Lifecycle)
	if !ok {
		return store, func() {}, nil
	}

	if err := lc.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("start store: %w", err)
	}

	return store, func() {
		if err := lc.Stop(context.Background()); err != nil {
			logger.Error("cannot stop store", "error", err)
		}
	}, nil
}
