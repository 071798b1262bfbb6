package testfixtures

import (
	"path/filepath"
	"testing"

	"github.com/example/event-directory/internal/tokenvault/sqlite"
)

// SQLiteVault opens a token vault backed by a temporary SQLite file for
// integration-style persistence tests. Cleanup is registered with the
// provided testing.TB.
func SQLiteVault(tb testing.TB) *sqlite.Vault {
	tb.Helper()

	dir := tb.TempDir()
	dsn := "file:" + filepath.Join(dir, "eventdir.db")

	vault, err := sqlite.Open(dsn)
	if err != nil {
		tb.Fatalf("failed to open token vault: %v", err)
	}

	tb.Cleanup(func() {
		_ = vault.Close()
	})
	return vault
}
