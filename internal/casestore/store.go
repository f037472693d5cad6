// Package casestore persists case records. Two backends implement Store:
// the JSON ledger (whole collection under one key, full read-modify-write
// per mutation) and the SQLite index (one row per case, see internal/index).
package casestore

import (
	"time"

	"github.com/jannatulferdou/cybersheild/internal/models"
)

// DefaultKey is the well-known ledger key the case collection lives under,
// distinct from any other application state.
const DefaultKey = "cybershield_cases.json"

// Store is the record-store contract. Lookups that miss return
// apperr.ErrNotFound; appends with an existing id return apperr.ErrDuplicateID
// and write nothing. Lifecycle legality is the service layer's concern, not
// the store's: UpdateStatus sets whatever status it is handed.
type Store interface {
	// Append inserts a new record at the front of the collection.
	Append(rec models.CaseRecord) error
	// FindByID returns the record with the exact id. Callers normalize
	// input (trim, upper-case) before calling.
	FindByID(id string) (*models.CaseRecord, error)
	// UpdateStatus sets status and updatedAt on the matching record and
	// persists. On a miss nothing is written.
	UpdateStatus(id string, status models.CaseStatus, now time.Time) (*models.CaseRecord, error)
	// ListRecent returns up to limit records, most recent first.
	// limit <= 0 means no limit.
	ListRecent(limit int) ([]models.CaseRecord, error)
	// Count returns the number of records in the collection.
	Count() (int, error)
	// Close releases backend resources.
	Close() error
}
