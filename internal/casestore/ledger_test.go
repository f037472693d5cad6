package casestore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jannatulferdou/cybersheild/internal/apperr"
	"github.com/jannatulferdou/cybersheild/internal/models"
	"github.com/jannatulferdou/cybersheild/internal/storage"
)

func newTestLedger(t *testing.T) (*Ledger, string) {
	t.Helper()
	dir := t.TempDir()
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return NewLedger(fs, ""), dir
}

func sampleRecord(id string) models.CaseRecord {
	return models.CaseRecord{
		ID:            id,
		ReporterName:  "Rina",
		Description:   "Someone is threatening me on Facebook with fake photos.",
		EvidenceLinks: []string{"https://example.com/post/1"},
		CreatedAt:     time.Date(2025, 9, 7, 12, 0, 0, 0, time.UTC),
		Status:        models.StatusSubmitted,
	}
}

func TestAppendThenFindByID(t *testing.T) {
	ledger, _ := newTestLedger(t)

	rec := sampleRecord("CS-123456")
	if err := ledger.Append(rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := ledger.FindByID("CS-123456")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.ID != rec.ID || got.Description != rec.Description || got.Status != models.StatusSubmitted {
		t.Errorf("record = %+v, want appended record back", got)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("createdAt = %v, want %v", got.CreatedAt, rec.CreatedAt)
	}
	if got.UpdatedAt != nil {
		t.Errorf("updatedAt = %v, want absent before any transition", got.UpdatedAt)
	}
}

func TestFindByIDMiss(t *testing.T) {
	ledger, _ := newTestLedger(t)

	if err := ledger.Append(sampleRecord("CS-123456")); err != nil {
		t.Fatal(err)
	}
	_, err := ledger.FindByID("CS-000000")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRoundTripPreservesFields(t *testing.T) {
	ledger, _ := newTestLedger(t)

	rec := sampleRecord("CS-777777")
	rec.IsAnonymous = true
	rec.ReporterName = models.AnonymousReporter
	rec.EvidenceLinks = []string{}
	rec.EvidenceFiles = []models.EvidenceFile{{Name: "shot.png", Reference: "/evidence/abc-shot.png"}}
	if err := ledger.Append(rec); err != nil {
		t.Fatal(err)
	}

	got, err := ledger.FindByID("CS-777777")
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsAnonymous || got.ReporterName != models.AnonymousReporter {
		t.Errorf("anonymity lost: %+v", got)
	}
	if got.EvidenceLinks == nil || len(got.EvidenceLinks) != 0 {
		t.Errorf("evidenceLinks = %#v, want empty non-nil slice", got.EvidenceLinks)
	}
	if len(got.EvidenceFiles) != 1 || got.EvidenceFiles[0] != rec.EvidenceFiles[0] {
		t.Errorf("evidenceFiles = %#v", got.EvidenceFiles)
	}
}

func TestAppendPrepends(t *testing.T) {
	ledger, _ := newTestLedger(t)

	for _, id := range []string{"CS-111111", "CS-222222", "CS-333333"} {
		if err := ledger.Append(sampleRecord(id)); err != nil {
			t.Fatal(err)
		}
	}
	recs, err := ledger.ListRecent(0)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"CS-333333", "CS-222222", "CS-111111"}
	if len(recs) != len(want) {
		t.Fatalf("len = %d, want %d", len(recs), len(want))
	}
	for i, id := range want {
		if recs[i].ID != id {
			t.Errorf("recs[%d].ID = %s, want %s", i, recs[i].ID, id)
		}
	}
}

func TestListRecentLimit(t *testing.T) {
	ledger, _ := newTestLedger(t)

	for _, id := range []string{"CS-111111", "CS-222222", "CS-333333"} {
		if err := ledger.Append(sampleRecord(id)); err != nil {
			t.Fatal(err)
		}
	}
	recs, err := ledger.ListRecent(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 || recs[0].ID != "CS-333333" {
		t.Errorf("recs = %v", recs)
	}
}

func TestAppendDuplicateIDRefused(t *testing.T) {
	ledger, _ := newTestLedger(t)

	if err := ledger.Append(sampleRecord("CS-123456")); err != nil {
		t.Fatal(err)
	}
	err := ledger.Append(sampleRecord("CS-123456"))
	if !errors.Is(err, apperr.ErrDuplicateID) {
		t.Errorf("err = %v, want ErrDuplicateID", err)
	}
	n, err := ledger.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("count = %d after refused append, want 1", n)
	}
}

func TestUpdateStatus(t *testing.T) {
	ledger, _ := newTestLedger(t)

	rec := sampleRecord("CS-123456")
	if err := ledger.Append(rec); err != nil {
		t.Fatal(err)
	}

	now := rec.CreatedAt.Add(time.Hour)
	got, err := ledger.UpdateStatus("CS-123456", models.StatusEscalated, now)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got.Status != models.StatusEscalated {
		t.Errorf("status = %s, want Escalated", got.Status)
	}
	if got.UpdatedAt == nil || got.UpdatedAt.Before(got.CreatedAt) {
		t.Errorf("updatedAt = %v, want >= createdAt %v", got.UpdatedAt, got.CreatedAt)
	}

	// Persisted, not just in-memory.
	reloaded, err := ledger.FindByID("CS-123456")
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Status != models.StatusEscalated || reloaded.UpdatedAt == nil {
		t.Errorf("reloaded = %+v", reloaded)
	}
}

func TestUpdateStatusMissWritesNothing(t *testing.T) {
	ledger, _ := newTestLedger(t)

	if err := ledger.Append(sampleRecord("CS-123456")); err != nil {
		t.Fatal(err)
	}
	_, err := ledger.UpdateStatus("CS-999999", models.StatusEscalated, time.Now())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	got, err := ledger.FindByID("CS-123456")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusSubmitted || got.UpdatedAt != nil {
		t.Errorf("existing record mutated on miss: %+v", got)
	}
}

func TestCorruptedLedgerSurfacesStorageError(t *testing.T) {
	ledger, dir := newTestLedger(t)

	if err := os.WriteFile(filepath.Join(dir, DefaultKey), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ledger.FindByID("CS-123456"); err == nil {
		t.Fatal("expected error for corrupted ledger")
	}
}

func TestWatcherFlagsExternalWrite(t *testing.T) {
	ledger, dir := newTestLedger(t)

	if err := ledger.Append(sampleRecord("CS-123456")); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, DefaultKey)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = Watch(ctx, ledger, path, logger, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher a moment to register, then overwrite the ledger as
	// a second writer would.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("external write not detected")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
