// Package mcp implements the Model Context Protocol (MCP) server for uloc.
//
// The server exposes five tools:
//   - count_unique_lines: scan files and directories and report total and unique lines
//   - list_runs: list scans saved in the history database
//   - get_run: show one saved scan with its per-file rows
//   - delete_run: remove a saved scan
//   - get_status: history counts, database size and scan activity
//
// # Protocol Overview
//
// MCP is JSON-RPC 2.0 over stdio. The server is started with:
//
//	uloc serve
//
// It reads requests from stdin and writes responses to stdout, so all
// logging goes to stderr. It stops when its context is cancelled or stdin
// is closed.
//
// # Tool: count_unique_lines
//
//	Request:
//	{
//	  "name": "count_unique_lines",
//	  "arguments": {
//	    "paths": ["/path/to/project"],
//	    "include_hidden": false,
//	    "exclude": ["vendor"],
//	    "save": true
//	  }
//	}
//
//	Response:
//	{
//	  "report": {
//	    "files": [{"path": "...", "name": "a.go", "ext": ".go", "lines": 40, "unique_lines": 31, "ratio": 0.775}],
//	    "total": {"lines": 40, "unique_lines": 31, "ratio": 0.775},
//	    "errors": []
//	  },
//	  "files_scanned": 1,
//	  "run_id": "5f0c..."
//	}
//
// # Error Handling
//
// Errors are JSON-RPC errors carrying an MCPError:
//   - -32602: Invalid params (missing paths, bad limit, bad exclude pattern)
//   - -32603: Internal error (database, encoding)
//   - -32001: No input files (every path was empty, missing or unreadable)
//   - -32002: Run not found
//   - -32003: Scan in progress (the server runs one scan at a time)
package mcp
