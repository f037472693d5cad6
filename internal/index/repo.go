package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/jannatulferdou/cybersheild/internal/apperr"
	"github.com/jannatulferdou/cybersheild/internal/models"
)

// Append inserts a new case row. The primary key enforces one record per id.
func (db *DB) Append(rec models.CaseRecord) error {
	linksJSON, _ := json.Marshal(nonNil(rec.EvidenceLinks))
	filesJSON, _ := json.Marshal(nonNilFiles(rec.EvidenceFiles))

	_, err := db.conn.Exec(`
		INSERT INTO cases (id, is_anonymous, reporter_name, description,
			evidence_links, evidence_files, created_at, updated_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.IsAnonymous, rec.ReporterName, rec.Description,
		string(linksJSON), string(filesJSON), rec.CreatedAt, nullableTime(rec.UpdatedAt), string(rec.Status))
	if err != nil {
		var sqlErr sqlite3.Error
		if errors.As(err, &sqlErr) && sqlErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("index: append %s: %w", rec.ID, apperr.ErrDuplicateID)
		}
		return fmt.Errorf("index: append: %w", err)
	}
	return nil
}

// FindByID returns the case row with the exact id.
func (db *DB) FindByID(id string) (*models.CaseRecord, error) {
	row := db.conn.QueryRow(`
		SELECT id, is_anonymous, reporter_name, description,
			evidence_links, evidence_files, created_at, updated_at, status
		FROM cases WHERE id = ?
	`, id)
	rec, err := scanCase(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("index: case %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("index: find %s: %w", id, err)
	}
	return rec, nil
}

// UpdateStatus sets status and updated_at on the matching row. A miss
// changes nothing and reports ErrNotFound.
func (db *DB) UpdateStatus(id string, status models.CaseStatus, now time.Time) (*models.CaseRecord, error) {
	res, err := db.conn.Exec(`UPDATE cases SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), now, id)
	if err != nil {
		return nil, fmt.Errorf("index: update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("index: rows affected: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("index: case %s: %w", id, apperr.ErrNotFound)
	}
	return db.FindByID(id)
}

// ListRecent returns up to limit cases, newest insertion first. limit <= 0
// returns everything.
func (db *DB) ListRecent(limit int) ([]models.CaseRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.conn.Query(`
		SELECT id, is_anonymous, reporter_name, description,
			evidence_links, evidence_files, created_at, updated_at, status
		FROM cases ORDER BY rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("index: list: %w", err)
	}
	defer rows.Close()

	out := []models.CaseRecord{}
	for rows.Next() {
		rec, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("index: scan: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Count returns the number of case rows.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM cases`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (*models.CaseRecord, error) {
	var (
		rec       models.CaseRecord
		links     string
		files     string
		updatedAt sql.NullTime
		status    string
	)
	err := row.Scan(&rec.ID, &rec.IsAnonymous, &rec.ReporterName, &rec.Description,
		&links, &files, &rec.CreatedAt, &updatedAt, &status)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(links), &rec.EvidenceLinks); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(files), &rec.EvidenceFiles); err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		ts := updatedAt.Time
		rec.UpdatedAt = &ts
	}
	rec.Status = models.CaseStatus(status)
	return &rec, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilFiles(s []models.EvidenceFile) []models.EvidenceFile {
	if s == nil {
		return []models.EvidenceFile{}
	}
	return s
}
