package casestore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jannatulferdou/cybersheild/internal/apperr"
	"github.com/jannatulferdou/cybersheild/internal/models"
	"github.com/jannatulferdou/cybersheild/internal/storage"
)

// Ledger stores the whole collection as one JSON document on a storage
// Provider. Every mutation reads the collection in full, changes it in
// memory, and writes it back in full. That is acceptable at demo data
// volume only; the SQLite backend exists for anything beyond that.
//
// The mutex serializes read-modify-write cycles within this process.
// Across processes the ledger stays last-writer-wins on the entire
// collection; the watcher surfaces such overwrites but does not prevent
// them.
type Ledger struct {
	mu      sync.Mutex
	medium  storage.Provider
	key     string
	lastSum string // checksum of the document we wrote last
}

// NewLedger creates a ledger over the given medium under key. An empty key
// falls back to DefaultKey.
func NewLedger(medium storage.Provider, key string) *Ledger {
	if key == "" {
		key = DefaultKey
	}
	return &Ledger{medium: medium, key: key}
}

var _ Store = (*Ledger)(nil)

// load reads and decodes the full collection. An absent document is an
// empty collection; anything undecodable is a storage error.
func (l *Ledger) load() ([]models.CaseRecord, error) {
	data, err := l.medium.Read(l.key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var recs []models.CaseRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("casestore: corrupted ledger %s: %w", l.key, err)
	}
	return recs, nil
}

func (l *Ledger) save(recs []models.CaseRecord) error {
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("casestore: encode ledger: %w", err)
	}
	if err := l.medium.Write(l.key, data); err != nil {
		return err
	}
	sum := sha256.Sum256(data)
	l.lastSum = hex.EncodeToString(sum[:])
	return nil
}

// LastChecksum returns the checksum of the most recent document this ledger
// wrote, so the watcher can tell our writes from someone else's.
func (l *Ledger) LastChecksum() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastSum
}

// Append prepends rec, keeping the collection in reverse-chronological
// order. An existing id refuses the write.
func (l *Ledger) Append(rec models.CaseRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	recs, err := l.load()
	if err != nil {
		return err
	}
	for i := range recs {
		if recs[i].ID == rec.ID {
			return fmt.Errorf("casestore: append %s: %w", rec.ID, apperr.ErrDuplicateID)
		}
	}
	normalize(&rec)
	recs = append([]models.CaseRecord{rec}, recs...)
	return l.save(recs)
}

// FindByID scans the collection for the first record with the exact id.
func (l *Ledger) FindByID(id string) (*models.CaseRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	recs, err := l.load()
	if err != nil {
		return nil, err
	}
	for i := range recs {
		if recs[i].ID == id {
			rec := recs[i]
			return &rec, nil
		}
	}
	return nil, fmt.Errorf("casestore: case %s: %w", id, apperr.ErrNotFound)
}

// UpdateStatus sets status and updatedAt on the matching record and rewrites
// the whole collection. On a miss nothing is written.
func (l *Ledger) UpdateStatus(id string, status models.CaseStatus, now time.Time) (*models.CaseRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	recs, err := l.load()
	if err != nil {
		return nil, err
	}
	for i := range recs {
		if recs[i].ID != id {
			continue
		}
		ts := now
		recs[i].Status = status
		recs[i].UpdatedAt = &ts
		if err := l.save(recs); err != nil {
			return nil, err
		}
		rec := recs[i]
		return &rec, nil
	}
	return nil, fmt.Errorf("casestore: case %s: %w", id, apperr.ErrNotFound)
}

// ListRecent returns up to limit records. The collection is already ordered
// newest-first.
func (l *Ledger) ListRecent(limit int) ([]models.CaseRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	recs, err := l.load()
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(recs) {
		recs = recs[:limit]
	}
	out := make([]models.CaseRecord, len(recs))
	copy(out, recs)
	return out, nil
}

// Count returns the collection size.
func (l *Ledger) Count() (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	recs, err := l.load()
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}

// Close is a no-op; the ledger holds no resources between operations.
func (l *Ledger) Close() error { return nil }

// normalize keeps evidence slices non-nil so field presence survives a
// round trip exactly: an empty list stays [] rather than null.
func normalize(rec *models.CaseRecord) {
	if rec.EvidenceLinks == nil {
		rec.EvidenceLinks = []string{}
	}
	if rec.EvidenceFiles == nil {
		rec.EvidenceFiles = []models.EvidenceFile{}
	}
}
