// Package testutil provides shared test helpers for setting up case stores.
package testutil

import (
	"os"
	"testing"

	"github.com/jannatulferdou/cybersheild/internal/casestore"
	"github.com/jannatulferdou/cybersheild/internal/index"
	"github.com/jannatulferdou/cybersheild/internal/storage"
)

// TestDB creates a temporary SQLite case store that is automatically
// cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "cybershield-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestLedger creates a ledger store over a temporary directory and returns
// both, so tests can inspect or corrupt the backing file.
func TestLedger(t *testing.T) (*casestore.Ledger, string) {
	t.Helper()
	dir := t.TempDir()
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return casestore.NewLedger(fs, ""), dir
}
