package testsupport

import (
	"testing"

	"inspira/internal/config"
	"inspira/internal/project"
)

// MustOpenStore opens a project store against a per-test database and closes
// it on cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *project.Store {
	t.Helper()
	store, err := project.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
