package db

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// ErrNotFound is returned by a Store when nothing is stored under a key.
var ErrNotFound = errors.New("key not found")

// Store is the shared key-value storage both the application and the
// widgets can see. Values are opaque strings written and read verbatim.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

const probeKey = "widget_test_key"

// Probe checks that a store accepts a write and returns it on read, then
// removes the test key. It only reports; callers decide whether to carry on.
func Probe(ctx context.Context, s Store) error {
	if err := s.Set(ctx, probeKey, "test"); err != nil {
		return fmt.Errorf("probe write failed: %w", err)
	}
	defer func() {
		if err := s.Delete(ctx, probeKey); err != nil {
			log.Printf("Warning: could not remove probe key: %v", err)
		}
	}()

	got, err := s.Get(ctx, probeKey)
	if err != nil {
		return fmt.Errorf("probe read failed: %w", err)
	}
	if got != "test" {
		return fmt.Errorf("probe read returned %q, expected %q", got, "test")
	}
	return nil
}
