package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// countUniqueLinesTool returns the tool definition for count_unique_lines
func countUniqueLinesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "count_unique_lines",
		Description: "Count total and unique lines for files and directory trees",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"paths": map[string]interface{}{
					"type":        "array",
					"description": "Files or directories to scan; directories are expanded breadth-first",
					"items": map[string]interface{}{
						"type": "string",
					},
					"minItems": 1,
				},
				"include_hidden": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, include dot-prefixed entries found inside directories",
					"default":     false,
				},
				"exclude": map[string]interface{}{
					"type":        "array",
					"description": "Glob patterns (e.g. 'vendor', '**/*.min.js') for entries found inside directories",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"save": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, store the report in the run history",
					"default":     false,
				},
			},
			Required: []string{"paths"},
		},
	}
}

// listRunsTool returns the tool definition for list_runs
func listRunsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_runs",
		Description: "List saved scans, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of runs to return (1-100)",
					"default":     20,
					"minimum":     1,
					"maximum":     100,
				},
			},
		},
	}
}

// getRunTool returns the tool definition for get_run
func getRunTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_run",
		Description: "Show a saved scan with its per-file counts",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"run_id": map[string]interface{}{
					"type":        "string",
					"description": "Run identifier returned by count_unique_lines or list_runs",
				},
			},
			Required: []string{"run_id"},
		},
	}
}

// deleteRunTool returns the tool definition for delete_run
func deleteRunTool() mcp.Tool {
	return mcp.Tool{
		Name:        "delete_run",
		Description: "Delete a saved scan and its per-file rows",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"run_id": map[string]interface{}{
					"type":        "string",
					"description": "Run identifier to delete",
				},
			},
			Required: []string{"run_id"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report run history statistics: saved runs, stored files, last run and database size",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
