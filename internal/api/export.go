package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phpdave11/gofpdf"

	"github.com/jannatulferdou/cybersheild/internal/apperr"
	"github.com/jannatulferdou/cybersheild/internal/models"
)

// ExportCase handles GET /api/cases/{id}/export: a one-page PDF case
// summary suitable for attaching to a hotline email or a police GD/FIR
// filing.
func (h *Handler) ExportCase(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.svc.TrackCase(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("no matching case"))
		} else {
			slog.Error("export case failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}

	pdf := buildCasePDF(rec)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.ID+".pdf"))
	if err := pdf.Output(w); err != nil {
		slog.Error("pdf output failed", slog.String("id", id), slog.String("error", err.Error()))
	}
}

func buildCasePDF(rec *models.CaseRecord) *gofpdf.Fpdf {
	const fontFamily = "Helvetica"

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(true, 14)
	pdf.SetTitle("CyberShield - Case Summary", false)
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 9, "CyberShield - Incident Case Summary", "", 1, "L", false, 0, "")

	pdf.SetFont(fontFamily, "", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 6, fmt.Sprintf("Case ID: %s", rec.ID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Status: %s", rec.Status), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Submitted: %s", rec.CreatedAt.Format(time.RFC1123)), "", 1, "L", false, 0, "")
	if rec.UpdatedAt != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("Last update: %s", rec.UpdatedAt.Format(time.RFC1123)), "", 1, "L", false, 0, "")
	}
	reporter := rec.ReporterName
	if rec.IsAnonymous {
		reporter = models.AnonymousReporter
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Reporter: %s", reporter), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(fontFamily, "B", 11)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(0, 6, "Incident description", "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.SetTextColor(30, 30, 30)
	pdf.MultiCell(0, 5, rec.Description, "", "L", false)
	pdf.Ln(2)

	pdf.SetFont(fontFamily, "B", 11)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(0, 6, "Evidence links", "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.SetTextColor(30, 30, 30)
	if len(rec.EvidenceLinks) == 0 {
		pdf.MultiCell(0, 5, "(none)", "", "L", false)
	}
	for _, link := range rec.EvidenceLinks {
		pdf.MultiCell(0, 5, "- "+link, "", "L", false)
	}
	pdf.Ln(1)

	pdf.SetFont(fontFamily, "B", 11)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(0, 6, "Evidence files", "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.SetTextColor(30, 30, 30)
	if len(rec.EvidenceFiles) == 0 {
		pdf.MultiCell(0, 5, "(none)", "", "L", false)
	}
	for _, f := range rec.EvidenceFiles {
		pdf.MultiCell(0, 5, fmt.Sprintf("- %s (%s)", f.Name, f.Reference), "", "L", false)
	}

	return pdf
}
