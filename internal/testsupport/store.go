package testsupport

import (
	"testing"

	"seqdeliver/internal/config"
	"seqdeliver/internal/deliverylog"
)

// MustOpenStore opens a deliverylog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *deliverylog.Store {
	t.Helper()

	store, err := deliverylog.Open(cfg)
	if err != nil {
		t.Fatalf("open delivery log: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close delivery log: %v", err)
		}
	})
	return store
}
