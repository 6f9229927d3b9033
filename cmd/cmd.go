// Package cmd provides the CLI commands for AtlasDesk.
//
// Commands:
//   - serve: HTTP API server with the browser UI
//   - backfill: embed knowledge rows missing vectors
//   - import: bulk-import community replies from the configured JSON file
//
// Signal handling and graceful shutdown are implemented for serve via
// context cancellation; the maintenance jobs run to completion and exit.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/atlasdesk/atlasdesk/internal/log"
)

// Version is injected at build time via ldflags.
var Version = "0.0.1"

// Execute is the main entry point for the AtlasDesk CLI.
func Execute() error {
	// Initialize logger once at entry point
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(log.New(log.Config{Level: level, JSON: os.Getenv("LOG_JSON") != ""}))

	if len(os.Args) < 2 {
		runHelp()
		return nil
	}

	switch os.Args[1] {
	case "serve":
		return runServe()
	case "backfill":
		return runBackfill()
	case "import":
		return runImport()
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("AtlasDesk - Knowledge base question answering")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  atlasdesk serve [addr]   Start HTTP server (default: 127.0.0.1:3400)")
	fmt.Println("  atlasdesk backfill       Embed knowledge rows missing vectors")
	fmt.Println("  atlasdesk import         Bulk-import community replies")
	fmt.Println("  atlasdesk --version      Show version information")
	fmt.Println("  atlasdesk --help         Show this help")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  GEMINI_API_KEY     Required: Gemini API key")
	fmt.Println("  DATABASE_URL       Optional: overrides postgres_* config values")
	fmt.Println("  DEBUG              Optional: Enable debug logging")
	fmt.Println("  LOG_JSON           Optional: Emit JSON log lines")
}
