package cmd

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/dlane/voicenotes/internal/logger"
	"github.com/dlane/voicenotes/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for LLM integration",
	Long: `Start a Model Context Protocol (MCP) server so LLM clients can
capture and retrieve notes.

Tools:
- add_note: save a note (embedded and searchable)
- search_notes: semantic search, or recent notes with no query
- list_notes: list stored notes

Resources:
- notes://recent: the most recently stored notes

To use with Claude Desktop, add this to your claude_desktop_config.json:
{
  "mcpServers": {
    "voicenotes": {
      "command": "voicenotes",
      "args": ["mcp"]
    }
  }
}`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	logger.Info("Starting MCP server...")

	if err := workflow.EnsureReady(cmd.Context()); err != nil {
		return err
	}

	notesServer := mcp.NewNotesServer(appConfig, workflow)
	mcpServer := notesServer.GetMCPServer()

	logger.Info("MCP server ready. Listening on stdio...")
	if err := server.ServeStdio(mcpServer); err != nil {
		if err.Error() != "EOF" {
			logger.Error("MCP server error: %v", err)
			return err
		}
	}

	logger.Info("MCP server shutting down")
	return nil
}
