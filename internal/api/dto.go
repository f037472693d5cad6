package api

import (
	"github.com/jannatulferdou/cybersheild/internal/contact"
	"github.com/jannatulferdou/cybersheild/internal/models"
)

// SubmitReportRequest is the request body for submitting an incident report
// (aliased from the domain layer; the honeypot rides in as "website").
type SubmitReportRequest = models.ReportSubmission

// CaseRecord is the full case response type.
type CaseRecord = models.CaseRecord

// CaseListResponse wraps recent-case listings.
type CaseListResponse struct {
	Cases []models.CaseRecord `json:"cases"`
	Total int                 `json:"total"`
}

// StatusUpdateRequest is the body of the administrative status transition.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// EvidenceUploadResponse is returned after a successful evidence upload.
// The reference is only as durable as the files on disk; it is the handle
// callers put into a subsequent submission, not a managed blob.
type EvidenceUploadResponse struct {
	Name      string `json:"name"`
	Reference string `json:"reference"`
	Size      int64  `json:"size"`
}

// ContactRequest is the contact-form body (aliased from the domain layer).
type ContactRequest = models.ContactMessage

// ContactResponse mirrors the upstream receipt.
type ContactResponse = contact.Receipt
