// Package caseservice implements the case operations exposed to transports:
// submit, track, escalate, admin status changes, and recent listings.
package caseservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jannatulferdou/cybersheild/internal/apperr"
	"github.com/jannatulferdou/cybersheild/internal/caseid"
	"github.com/jannatulferdou/cybersheild/internal/casestore"
	"github.com/jannatulferdou/cybersheild/internal/models"
)

// Attempts made to mint an id when the store refuses a duplicate. At demo
// volume a single retry is already vanishingly rare.
const maxMintAttempts = 5

// Notifier is called after a successful mutation so transports can fan out
// lifecycle events. kind is one of "case_created", "case_escalated",
// "status_changed".
type Notifier func(kind string, rec models.CaseRecord)

// Service coordinates the validation gate, identifier generator, and record
// store.
type Service struct {
	store  casestore.Store
	ids    *caseid.Generator
	now    func() time.Time
	notify Notifier
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithClock injects a time source. Tests use a fixed clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithNotifier sets the lifecycle event callback.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notify = n }
}

// NewService creates a case service over the given store and generator.
func NewService(store casestore.Store, ids *caseid.Generator, opts ...Option) *Service {
	s := &Service{store: store, ids: ids, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeID prepares caller-supplied identifiers for the store's exact
// match: surrounding whitespace is dropped and the prefix upper-cased.
func NormalizeID(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// SubmitReport runs the validation gate, mints an identifier, and persists a
// new record with initial status Submitted. The generator never checks the
// store, so a duplicate refusal from Append is answered by drawing again.
func (s *Service) SubmitReport(_ context.Context, sub models.ReportSubmission) (*models.CaseRecord, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(sub.ReporterName)
	if sub.IsAnonymous || name == "" {
		name = models.AnonymousReporter
	}

	rec := models.CaseRecord{
		IsAnonymous:   sub.IsAnonymous,
		ReporterName:  name,
		Description:   strings.TrimSpace(sub.Description),
		EvidenceLinks: sub.EvidenceLinks,
		EvidenceFiles: sub.EvidenceFiles,
		CreatedAt:     s.now(),
		Status:        models.StatusSubmitted,
	}
	if rec.EvidenceLinks == nil {
		rec.EvidenceLinks = []string{}
	}
	if rec.EvidenceFiles == nil {
		rec.EvidenceFiles = []models.EvidenceFile{}
	}

	for attempt := 0; attempt < maxMintAttempts; attempt++ {
		rec.ID = s.ids.Next()
		err := s.store.Append(rec)
		if err == nil {
			s.emit("case_created", rec)
			return &rec, nil
		}
		if errors.Is(err, apperr.ErrDuplicateID) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("caseservice: exhausted %d id attempts: %w", maxMintAttempts, apperr.ErrDuplicateID)
}

// TrackCase looks up a case by its (normalized) identifier.
func (s *Service) TrackCase(_ context.Context, rawID string) (*models.CaseRecord, error) {
	return s.store.FindByID(NormalizeID(rawID))
}

// EscalateCase moves a Submitted case to Escalated, the one transition the
// public interface exposes.
func (s *Service) EscalateCase(ctx context.Context, rawID string) (*models.CaseRecord, error) {
	return s.transition(ctx, rawID, models.StatusEscalated, "case_escalated")
}

// SetStatus applies an administrative transition (In Progress, Resolved).
// The caller has already checked the status is a declared lifecycle state.
func (s *Service) SetStatus(ctx context.Context, rawID string, status models.CaseStatus) (*models.CaseRecord, error) {
	return s.transition(ctx, rawID, status, "status_changed")
}

// ListRecent returns up to limit records, newest first.
func (s *Service) ListRecent(_ context.Context, limit int) ([]models.CaseRecord, error) {
	return s.store.ListRecent(limit)
}

func (s *Service) transition(_ context.Context, rawID string, status models.CaseStatus, kind string) (*models.CaseRecord, error) {
	id := NormalizeID(rawID)
	rec, err := s.store.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !rec.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("caseservice: %s -> %s: %w", rec.Status, status, apperr.ErrInvalidTransition)
	}
	updated, err := s.store.UpdateStatus(id, status, s.now())
	if err != nil {
		return nil, err
	}
	s.emit(kind, *updated)
	return updated, nil
}

func (s *Service) emit(kind string, rec models.CaseRecord) {
	if s.notify != nil {
		s.notify(kind, rec)
	}
}
