// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes CyberShield case tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jannatulferdou/cybersheild/internal/models"
)

// CaseService is the slice of the case service the MCP tools need.
type CaseService interface {
	SubmitReport(ctx context.Context, sub models.ReportSubmission) (*models.CaseRecord, error)
	TrackCase(ctx context.Context, id string) (*models.CaseRecord, error)
	EscalateCase(ctx context.Context, id string) (*models.CaseRecord, error)
	ListRecent(ctx context.Context, limit int) ([]models.CaseRecord, error)
}

// Server wraps the MCP server with CyberShield tools.
type Server struct {
	mcp *server.MCPServer
	svc CaseService
}

// New creates a new MCP server with all case tools registered.
func New(svc CaseService) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"CyberShield",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("submit_report",
		mcp.WithDescription("File a cyberbullying incident report and receive a trackable case identifier. "+
			"The description MUST follow the intake format; read it first via the "+
			"get_intake_contract tool or the cybershield://intake-format resource."),
		mcp.WithString("description", mcp.Required(), mcp.Description("What happened, in the reporter's own words (at least 10 characters)")),
		mcp.WithString("reporter_name", mcp.Description("Reporter's name (omit for anonymous, at most 80 characters)")),
		mcp.WithBoolean("is_anonymous", mcp.Description("File the report anonymously")),
		mcp.WithString("evidence_links", mcp.Description("Evidence URLs, one per line")),
	), s.submitReport)

	s.mcp.AddTool(mcp.NewTool("track_case",
		mcp.WithDescription("Look up a case by its CS-nnnnnn identifier."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Case identifier (e.g. CS-123456)")),
	), s.trackCase)

	s.mcp.AddTool(mcp.NewTool("escalate_case",
		mcp.WithDescription("Escalate a submitted case for priority review. Only cases still in the Submitted state can be escalated."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Case identifier to escalate")),
	), s.escalateCase)

	s.mcp.AddTool(mcp.NewTool("list_recent",
		mcp.WithDescription("List the most recently filed cases, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of cases to return (default 10)")),
	), s.listRecent)

	s.mcp.AddTool(mcp.NewTool("get_intake_contract",
		mcp.WithDescription("Returns the canonical incident report format. "+
			"Call this before submitting reports to collect the right facts."),
	), s.getIntakeContract)

	// Resource: intake format contract.
	s.mcp.AddResource(
		mcp.NewResource("cybershield://intake-format", "Incident Report Format",
			mcp.WithResourceDescription("Canonical incident report format that submissions must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readIntakeFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) submitReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description, err := req.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sub := models.ReportSubmission{
		Description: description,
		IsAnonymous: req.GetBool("is_anonymous", false),
	}
	if name, nameErr := req.RequireString("reporter_name"); nameErr == nil {
		sub.ReporterName = name
	}
	if links, linksErr := req.RequireString("evidence_links"); linksErr == nil {
		for _, line := range strings.Split(links, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				sub.EvidenceLinks = append(sub.EvidenceLinks, line)
			}
		}
	}

	rec, err := s.svc.SubmitReport(ctx, sub)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("case filed: %s", rec.ID)), nil
}

func (s *Server) trackCase(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.svc.TrackCase(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("no matching case: %s", id)), nil
	}
	out, _ := json.MarshalIndent(rec, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) escalateCase(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.svc.EscalateCase(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("case %s is now %s", rec.ID, rec.Status)), nil
}

func (s *Server) listRecent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 10)
	recs, err := s.svc.ListRecent(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(recs) == 0 {
		return mcp.NewToolResultText("no cases on record"), nil
	}
	var lines []string
	for _, rec := range recs {
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s", rec.ID, rec.Status, rec.CreatedAt.Format("2006-01-02")))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getIntakeContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(IntakeContract), nil
}

func (s *Server) readIntakeFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "cybershield://intake-format",
			MIMEType: "text/markdown",
			Text:     IntakeContract,
		},
	}, nil
}
