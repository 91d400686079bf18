package cmd

import (
	"context"
	"log"

	"github.com/go-redis/redis/v8"
	"reschool-widgets/config"
	"reschool-widgets/db"
	"reschool-widgets/retrieval"
	"reschool-widgets/writer"
)

// app bundles what every command needs. Without Redis it still works: the
// shared store becomes in-process and readers fall back to the files.
type app struct {
	cfg      *config.Config
	client   *redis.Client
	store    db.Store
	notifier writer.Notifier
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	client, err := db.InitializeRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Printf("WARNING: shared store unavailable, using in-process store: %v", err)
		a.store = db.NewMemoryStore()
		a.notifier = writer.LogNotifier{}
		return a, nil
	}

	a.client = client
	a.store = db.NewRedisStore(client, cfg.Group)
	a.notifier = writer.NewRedisNotifier(client, cfg.Group)

	if err := db.Probe(ctx, a.store); err != nil {
		log.Printf("WARNING: shared store write/read failed: %v", err)
	} else {
		log.Printf("Shared store for %s is working", cfg.Group)
	}
	return a, nil
}

func (a *app) chain() *retrieval.Chain {
	return retrieval.ChainFor(a.cfg, a.store)
}

func (a *app) newWriter() *writer.Writer {
	return writer.New(a.cfg, a.store, a.notifier)
}

func (a *app) Close() {
	if a.client != nil {
		if err := a.client.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
		}
	}
}
