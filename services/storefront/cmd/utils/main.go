package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/appetiteclub/storefront/services/storefront/cmd/utils/internal/commands"
	"github.com/aquamarinepk/aqm"
	"github.com/joho/godotenv"
)

const (
	appName    = "storefront-utils"
	appVersion = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	_ = godotenv.Load()

	config, err := aqm.LoadConfig("UTILS", os.Args[2:])
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	logLevel := config.GetStringOrDef("log.level", "info")
	logger := aqm.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := os.Args[1]

	switch command {
	case "seed-menu":
		if err := commands.SeedMenu(ctx, config, logger); err != nil {
			log.Fatalf("❌ Menu seeding failed: %v", err)
		}
		logger.Info("✅ Menu seeded successfully")

	case "seed-demo":
		if err := commands.SeedDemo(ctx, config, logger); err != nil {
			log.Fatalf("❌ Demo seeding failed: %v", err)
		}
		logger.Info("✅ Demo seeding completed successfully")

	case "reset-store":
		if err := commands.ResetStore(ctx, config, logger); err != nil {
			log.Fatalf("❌ Store reset failed: %v", err)
		}
		logger.Info("✅ Store reset completed successfully")

	case "export":
		if err := commands.Export(ctx, config, logger); err != nil {
			log.Fatalf("❌ Export failed: %v", err)
		}

	case "watch-events":
		if err := commands.WatchEvents(ctx, config, logger); err != nil {
			log.Fatalf("❌ Watching events failed: %v", err)
		}

	case "version":
		fmt.Printf("%s version %s\n", appName, appVersion)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - Storefront utility commands

Usage:
  %s <command> [options]

Commands:
  seed-menu     Write the seed catalog when the menu is empty
  seed-demo     Create sample orders and reservations
  reset-store   Delete the menu, orders and reservations (USE WITH CAUTION)
  export        Write the orders workbook to UTILS_EXPORT_PATH
  watch-events  Print storefront events published on NATS
  version       Print version information
  help          Show this help message

Environment Variables:
  UTILS_STORE_DRIVER      memory, file, mongo, postgres or nats (default: file)
  UTILS_STORE_FILE_PATH   Snapshot path for the file driver (default: storefront.json)
  UTILS_DB_MONGO_URL      MongoDB connection URL (default: mongodb://localhost:27017)
  UTILS_DB_POSTGRES_URL   PostgreSQL connection URL
  UTILS_NATS_URL          NATS server URL (default: nats://localhost:4222)
  UTILS_EXPORT_PATH       Workbook path for export (default: storefront-orders.xlsx)
  UTILS_LOG_LEVEL         Log level: debug, info, warn, error (default: info)

Examples:
  %s seed-demo
  UTILS_STORE_DRIVER=mongo %s reset-store
  UTILS_EXPORT_PATH=/tmp/orders.xlsx %s export

`, appName, appName, appName, appName, appName)
}
