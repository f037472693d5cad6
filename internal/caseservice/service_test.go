package caseservice

import (
	"context"
	"errors"
	"math/rand"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/jannatulferdou/cybersheild/internal/apperr"
	"github.com/jannatulferdou/cybersheild/internal/caseid"
	"github.com/jannatulferdou/cybersheild/internal/casestore"
	"github.com/jannatulferdou/cybersheild/internal/models"
	"github.com/jannatulferdou/cybersheild/internal/testutil"
)

func newTestService(t *testing.T, opts ...Option) (*Service, casestore.Store) {
	t.Helper()
	ledger, _ := testutil.TestLedger(t)
	opts = append([]Option{WithClock(func() time.Time {
		return time.Date(2025, 9, 7, 10, 0, 0, 0, time.UTC)
	})}, opts...)
	svc := NewService(ledger, caseid.New(rand.NewSource(7)), opts...)
	return svc, ledger
}

func validSubmission() models.ReportSubmission {
	return models.ReportSubmission{
		IsAnonymous:  false,
		ReporterName: "Rina",
		Description:  "Someone is threatening me on Facebook with fake photos.",
	}
}

func TestSubmitThenEscalate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.SubmitReport(ctx, validSubmission())
	if err != nil {
		t.Fatalf("SubmitReport: %v", err)
	}
	if ok, _ := regexp.MatchString(`^CS-\d{6}$`, rec.ID); !ok {
		t.Errorf("id = %q, want CS-\\d{6}", rec.ID)
	}
	if rec.Status != models.StatusSubmitted {
		t.Errorf("status = %s, want Submitted", rec.Status)
	}

	tracked, err := svc.TrackCase(ctx, rec.ID)
	if err != nil {
		t.Fatalf("TrackCase: %v", err)
	}
	if tracked.ID != rec.ID {
		t.Errorf("tracked id = %s", tracked.ID)
	}

	escalated, err := svc.EscalateCase(ctx, rec.ID)
	if err != nil {
		t.Fatalf("EscalateCase: %v", err)
	}
	if escalated.Status != models.StatusEscalated {
		t.Errorf("status = %s, want Escalated", escalated.Status)
	}
	if escalated.UpdatedAt == nil || escalated.UpdatedAt.Before(escalated.CreatedAt) {
		t.Errorf("updatedAt = %v, createdAt = %v", escalated.UpdatedAt, escalated.CreatedAt)
	}
}

func TestSubmitRejectionLeavesStoreUnchanged(t *testing.T) {
	svc, store := newTestService(t)

	sub := validSubmission()
	sub.Description = "short"
	_, err := svc.SubmitReport(context.Background(), sub)
	if err == nil {
		t.Fatal("expected rejection")
	}
	if err.Error() != "description too short" {
		t.Errorf("reason = %q, want \"description too short\"", err.Error())
	}
	n, _ := store.Count()
	if n != 0 {
		t.Errorf("count = %d after rejection, want 0", n)
	}
}

func TestDescriptionBoundary(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	sub := validSubmission()
	sub.Description = "  " + strings.Repeat("x", 9) + "  "
	if _, err := svc.SubmitReport(ctx, sub); err == nil {
		t.Error("9 chars after trimming accepted, want rejection")
	}

	sub.Description = "  " + strings.Repeat("x", 10) + "  "
	if _, err := svc.SubmitReport(ctx, sub); err != nil {
		t.Errorf("10 chars after trimming rejected: %v", err)
	}
}

func TestHoneypotAlwaysRejected(t *testing.T) {
	svc, _ := newTestService(t)

	sub := validSubmission()
	sub.Honeypot = "http://spam.example"
	_, err := svc.SubmitReport(context.Background(), sub)
	if err == nil || err.Error() != "automated submission suspected" {
		t.Errorf("err = %v, want automated submission suspected", err)
	}
}

func TestNameTooLong(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	sub := validSubmission()
	sub.ReporterName = strings.Repeat("a", 81)
	if _, err := svc.SubmitReport(ctx, sub); err == nil || err.Error() != "name too long" {
		t.Errorf("err = %v, want name too long", err)
	}

	// Anonymous submissions skip the name rule entirely.
	sub.IsAnonymous = true
	if _, err := svc.SubmitReport(ctx, sub); err != nil {
		t.Errorf("anonymous long name rejected: %v", err)
	}
}

func TestAnonymousSentinel(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	sub := validSubmission()
	sub.IsAnonymous = true
	rec, err := svc.SubmitReport(ctx, sub)
	if err != nil {
		t.Fatal(err)
	}
	if rec.ReporterName != models.AnonymousReporter {
		t.Errorf("reporterName = %q, want %q", rec.ReporterName, models.AnonymousReporter)
	}

	sub = validSubmission()
	sub.ReporterName = "   "
	rec, err = svc.SubmitReport(ctx, sub)
	if err != nil {
		t.Fatal(err)
	}
	if rec.ReporterName != models.AnonymousReporter {
		t.Errorf("blank name: reporterName = %q, want sentinel", rec.ReporterName)
	}
}

func TestTrackNormalizesID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.SubmitReport(ctx, validSubmission())
	if err != nil {
		t.Fatal(err)
	}
	got, err := svc.TrackCase(ctx, "  "+strings.ToLower(rec.ID)+" ")
	if err != nil {
		t.Fatalf("TrackCase with sloppy input: %v", err)
	}
	if got.ID != rec.ID {
		t.Errorf("id = %s", got.ID)
	}
}

func TestTrackMiss(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.TrackCase(context.Background(), "CS-000000")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestEscalateTwiceRefused(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.SubmitReport(ctx, validSubmission())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.EscalateCase(ctx, rec.ID); err != nil {
		t.Fatal(err)
	}
	_, err = svc.EscalateCase(ctx, rec.ID)
	if !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Errorf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestAdminLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.SubmitReport(ctx, validSubmission())
	if err != nil {
		t.Fatal(err)
	}

	// Submitted -> In Progress -> Resolved, then terminal.
	if _, err := svc.SetStatus(ctx, rec.ID, models.StatusInProgress); err != nil {
		t.Fatalf("to In Progress: %v", err)
	}
	if _, err := svc.SetStatus(ctx, rec.ID, models.StatusResolved); err != nil {
		t.Fatalf("to Resolved: %v", err)
	}
	_, err = svc.SetStatus(ctx, rec.ID, models.StatusInProgress)
	if !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Errorf("transition out of Resolved: err = %v, want ErrInvalidTransition", err)
	}
}

func TestNotifierFires(t *testing.T) {
	var kinds []string
	svc, _ := newTestService(t, WithNotifier(func(kind string, _ models.CaseRecord) {
		kinds = append(kinds, kind)
	}))
	ctx := context.Background()

	rec, err := svc.SubmitReport(ctx, validSubmission())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.EscalateCase(ctx, rec.ID); err != nil {
		t.Fatal(err)
	}
	want := []string{"case_created", "case_escalated"}
	if len(kinds) != len(want) || kinds[0] != want[0] || kinds[1] != want[1] {
		t.Errorf("kinds = %v, want %v", kinds, want)
	}
}

func TestSQLiteBackendSameSemantics(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewService(db, caseid.New(rand.NewSource(7)))
	ctx := context.Background()

	rec, err := svc.SubmitReport(ctx, validSubmission())
	if err != nil {
		t.Fatal(err)
	}
	got, err := svc.EscalateCase(ctx, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusEscalated || got.UpdatedAt == nil {
		t.Errorf("got = %+v", got)
	}
}
