package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dlane/voicenotes/internal/config"
	"github.com/dlane/voicenotes/internal/constants"
	"github.com/dlane/voicenotes/internal/logger"
	"github.com/dlane/voicenotes/internal/notes"
)

// NotesServer exposes the note workflow over the Model Context Protocol so
// LLM clients can capture and retrieve notes.
type NotesServer struct {
	cfg       *config.Config
	workflow  *notes.Workflow
	mcpServer *server.MCPServer
}

func NewNotesServer(cfg *config.Config, workflow *notes.Workflow) *NotesServer {
	ns := &NotesServer{
		cfg:      cfg,
		workflow: workflow,
	}

	ns.mcpServer = server.NewMCPServer(
		"voicenotes",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	ns.registerTools()
	ns.registerResources()

	return ns
}

func (s *NotesServer) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *NotesServer) registerTools() {
	addNoteTool := mcp.NewTool("add_note",
		mcp.WithDescription("Save a note; the text is embedded and becomes semantically searchable"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The note text to save"),
		),
	)
	s.mcpServer.AddTool(addNoteTool, s.handleAddNote)

	searchTool := mcp.NewTool("search_notes",
		mcp.WithDescription("Search notes by semantic similarity. Omit the query to list recent notes instead."),
		mcp.WithString("query",
			mcp.Description("Free-text query (optional; empty lists recent notes)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default: 5)"),
		),
	)
	s.mcpServer.AddTool(searchTool, s.handleSearchNotes)

	listNotesTool := mcp.NewTool("list_notes",
		mcp.WithDescription("List stored notes without ranking"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of notes to return"),
		),
	)
	s.mcpServer.AddTool(listNotesTool, s.handleListNotes)
}

func (s *NotesServer) registerResources() {
	recentResource := mcp.NewResource("notes://recent",
		"Recent Notes",
		mcp.WithResourceDescription("The most recently stored notes"),
		mcp.WithMIMEType("text/plain"),
	)
	s.mcpServer.AddResource(recentResource, s.handleRecentNotes)
}

// Tool handlers
func (s *NotesServer) handleAddNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("MCP tool call: add_note")

	text, err := request.RequireString("text")
	if err != nil {
		return nil, fmt.Errorf("missing required parameter 'text': %w", err)
	}

	id, err := s.workflow.SaveNote(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf("Note saved with ID: %s", id)), nil
}

func (s *NotesServer) handleSearchNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("MCP tool call: search_notes")

	query := request.GetString("query", "")
	limit := request.GetInt("limit", constants.DefaultSearchLimit)

	results, err := s.workflow.SearchNotes(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	return mcp.NewToolResultText(formatResults(results, query != "")), nil
}

func (s *NotesServer) handleListNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("MCP tool call: list_notes")

	limit := request.GetInt("limit", constants.DefaultListLimit)

	results, err := s.workflow.SearchNotes(ctx, "", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	return mcp.NewToolResultText(formatResults(results, false)), nil
}

// Resource handlers
func (s *NotesServer) handleRecentNotes(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	logger.Debug("MCP resource read: notes://recent")

	results, err := s.workflow.SearchNotes(ctx, "", 10)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent notes: %w", err)
	}

	content := "Recent Notes:\n\n"
	for i, r := range results {
		content += fmt.Sprintf("%d. %s\n\n", i+1, truncateString(r.Text, 150))
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/plain",
			Text:     content,
		},
	}, nil
}

func formatResults(results []notes.Result, ranked bool) string {
	if len(results) == 0 {
		return "No notes found."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d notes:\n\n", len(results))
	for i, r := range results {
		if ranked && r.Score != nil {
			fmt.Fprintf(&sb, "%d. (score %.4f) %s\n\n", i+1, *r.Score, truncateString(r.Text, constants.PreviewLength))
		} else {
			fmt.Fprintf(&sb, "%d. %s\n\n", i+1, truncateString(r.Text, constants.PreviewLength))
		}
	}
	return sb.String()
}

// truncateString shortens s to maxLen runes so multi-byte characters are
// never split mid-sequence.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
