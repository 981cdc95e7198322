package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/storefront/pkg/enums/orderstatus"
	"github.com/appetiteclub/storefront/pkg/enums/paymentmethod"
	"github.com/appetiteclub/storefront/pkg/enums/reservationstatus"
	"github.com/appetiteclub/storefront/services/storefront/internal/app"
	"github.com/appetiteclub/storefront/services/storefront/internal/kvstore"
	"github.com/appetiteclub/storefront/services/storefront/internal/mongo"
	"github.com/appetiteclub/storefront/services/storefront/internal/storefront"
	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/seed"
)

const demoSeedApplication = "storefront_demo"

// SeedMenu writes the seed catalog if the menu is empty.
func SeedMenu(ctx context.Context, config *aqm.Config, logger aqm.Logger) error {
	store, closeStore, err := openStore(ctx, config, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	repo, err := newRepo(store, config, logger)
	if err != nil {
		return err
	}

	menu, err := repo.GetMenu(ctx)
	if err != nil {
		return fmt.Errorf("seed menu: %w", err)
	}
	logger.Info("Menu ready", "items", len(menu))
	return nil
}

// SeedDemo places sample orders through a cart and books sample tables.
// On the Mongo backend the seeds are tracked and only run once.
func SeedDemo(ctx context.Context, config *aqm.Config, logger aqm.Logger) error {
	logger.Info("Starting demo seeding process...")

	store, closeStore, err := openStore(ctx, config, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	repo, err := newRepo(store, config, logger)
	if err != nil {
		return err
	}

	seeds := demoSeeds(repo, logger)

	if mongoStore, ok := store.(*mongo.KVStore); ok {
		tracker := seed.NewMongoTracker(mongoStore.GetDatabase())
		if err := seed.Apply(ctx, tracker, seeds, demoSeedApplication); err != nil {
			return fmt.Errorf("demo seed failed: %w", err)
		}
		return nil
	}

	for _, s := range seeds {
		logger.Info("Applying seed", "id", s.ID)
		if err := s.Run(ctx); err != nil {
			return fmt.Errorf("seed %s: %w", s.ID, err)
		}
	}
	return nil
}

func newRepo(store kvstore.Store, config *aqm.Config, logger aqm.Logger) (*storefront.Repo, error) {
	opts, err := app.RepoOptionsFromConfig(config, logger)
	if err != nil {
		return nil, err
	}
	// Seeding never waits on simulated latency.
	opts.Latency = nil
	return storefront.NewRepo(store, opts, logger), nil
}

type demoOrder struct {
	customer string
	phone    string
	payment  paymentmethod.Method
	lines    map[string]int // menu item id to quantity
	path     []orderstatus.Status
}

var demoOrders = []demoOrder{
	{
		customer: "Ayesha Khan",
		phone:    "+91 98200 11111",
		payment:  paymentmethod.Online,
		lines:    map[string]int{"m1": 2, "m6": 2},
		path:     []orderstatus.Status{orderstatus.Preparing, orderstatus.Ready, orderstatus.Completed},
	},
	{
		customer: "Rohan Mehta",
		phone:    "+91 98200 22222",
		payment:  paymentmethod.COD,
		lines:    map[string]int{"m3": 1, "m4": 1},
		path:     []orderstatus.Status{orderstatus.Preparing, orderstatus.Ready, orderstatus.Completed},
	},
	{
		customer: "Farah Siddiqui",
		phone:    "+91 98200 33333",
		payment:  paymentmethod.COD,
		lines:    map[string]int{"m2": 1, "m8": 2},
		path:     []orderstatus.Status{orderstatus.Preparing},
	},
	{
		customer: "Guest",
		phone:    "+91 98200 44444",
		payment:  paymentmethod.COD,
		lines:    map[string]int{"m7": 1},
		path:     []orderstatus.Status{orderstatus.Cancelled},
	},
}

func demoSeeds(repo *storefront.Repo, logger aqm.Logger) []seed.Seed {
	return []seed.Seed{
		{
			ID:          "2025-12-01_storefront_menu",
			Description: "Bootstrap the menu from the seed catalog",
			Run: func(ctx context.Context) error {
				_, err := repo.GetMenu(ctx)
				return err
			},
		},
		{
			ID:          "2025-12-01_storefront_demo_orders",
			Description: "Place demo orders through a cart and walk them through the kitchen states",
			Run: func(ctx context.Context) error {
				return seedDemoOrders(ctx, repo, logger)
			},
		},
		{
			ID:          "2025-12-01_storefront_demo_reservations",
			Description: "Book demo tables in every reservation state",
			Run: func(ctx context.Context) error {
				return seedDemoReservations(ctx, repo, logger)
			},
		},
	}
}

func seedDemoOrders(ctx context.Context, repo *storefront.Repo, logger aqm.Logger) error {
	carts := storefront.NewCarts(repo, logger)

	for i, demo := range demoOrders {
		session := fmt.Sprintf("demo-%d", i)
		for itemID, qty := range demo.lines {
			for n := 0; n < qty; n++ {
				if _, err := carts.Add(ctx, session, itemID); err != nil {
					return fmt.Errorf("add %s for %s: %w", itemID, demo.customer, err)
				}
			}
		}

		order, err := carts.Checkout(ctx, session, storefront.CheckoutRequest{
			CustomerName:  demo.customer,
			CustomerPhone: demo.phone,
			PaymentMethod: demo.payment.Code(),
		})
		if err != nil {
			return err
		}

		for _, status := range demo.path {
			if err := repo.UpdateOrderStatus(ctx, order.ID, status); err != nil {
				return err
			}
		}
		logger.Info("Demo order created", "order_id", order.ID, "customer", demo.customer, "total", order.Total)
	}
	return nil
}

func seedDemoReservations(ctx context.Context, repo *storefront.Repo, logger aqm.Logger) error {
	demos := []struct {
		draft  storefront.ReservationDraft
		status reservationstatus.Status
	}{
		{
			draft:  storefront.ReservationDraft{Name: "Imran Qureshi", Email: "imran@example.com", Phone: "+91 98200 55555", Date: "2025-12-20", Time: "20:00", Guests: 4},
			status: reservationstatus.Confirmed,
		},
		{
			draft:  storefront.ReservationDraft{Name: "Neha Kapoor", Email: "neha@example.com", Phone: "+91 98200 66666", Date: "2025-12-21", Time: "19:30", Guests: 2, Notes: "Window table please"},
			status: reservationstatus.Pending,
		},
		{
			draft:  storefront.ReservationDraft{Name: "Vikram Rao", Email: "vikram@example.com", Phone: "+91 98200 77777", Date: "2025-12-24", Time: "21:00", Guests: 12},
			status: reservationstatus.Declined,
		},
	}

	for _, demo := range demos {
		res, err := repo.CreateReservation(ctx, demo.draft)
		if err != nil {
			return err
		}
		if demo.status != reservationstatus.Pending {
			if err := repo.UpdateReservationStatus(ctx, res.ID, demo.status); err != nil {
				return err
			}
		}
		logger.Info("Demo reservation created", "reservation_id", res.ID, "name", res.Name, "status", demo.status.Code())
	}
	return nil
}
