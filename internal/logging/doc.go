// Package logging configures the process-wide slog logger.
//
// Logs always go to stderr. Stdout carries the report, or the MCP protocol
// when the server runs on stdio, so nothing here may write to it.
package logging
