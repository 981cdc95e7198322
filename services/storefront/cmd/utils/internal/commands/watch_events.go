package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/storefront/pkg"
	"github.com/appetiteclub/storefront/pkg/event"
	"github.com/aquamarinepk/aqm"
)

// WatchEvents prints storefront events from NATS until ctx is cancelled.
func WatchEvents(ctx context.Context, config *aqm.Config, logger aqm.Logger) error {
	url := config.GetStringOrDef("nats.url", "nats://localhost:4222")

	subscriber, err := pkg.NewNATSSubscriber(url)
	if err != nil {
		return err
	}
	defer subscriber.Close()

	handler := func(ctx context.Context, msg []byte) error {
		fmt.Println(string(msg))
		return nil
	}
	onError := func(subject string, err error) {
		logger.Error("cannot handle event", "subject", subject, "error", err)
	}

	if err := subscriber.Subscribe(ctx, event.AllTopics, handler, onError); err != nil {
		return fmt.Errorf("subscribe %s: %w", event.AllTopics, err)
	}

	logger.Info("Watching storefront events", "url", url, "subject", event.AllTopics)
	<-ctx.Done()
	return nil
}
