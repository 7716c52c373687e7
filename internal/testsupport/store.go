package testsupport

import (
	"testing"

	"recut/internal/config"
	"recut/internal/passcache"
)

// MustOpenCache opens a passcache.Store for tests and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *passcache.Store {
	t.Helper()

	store, err := passcache.Open(cfg)
	if err != nil {
		t.Fatalf("passcache.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
