package mcp

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/uloc/internal/output"
	"github.com/dshills/uloc/internal/resolver"
	"github.com/dshills/uloc/internal/scanner"
	"github.com/dshills/uloc/internal/storage"
	"github.com/dshills/uloc/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams  = -32602 // Invalid method parameters
	ErrorCodeInternalError  = -32603 // Internal JSON-RPC error
	ErrorCodeNoInputFiles   = -32001 // No readable, non-empty file under the given paths
	ErrorCodeRunNotFound    = -32002 // Unknown run id
	ErrorCodeScanInProgress = -32003 // Another scan is already running
)

// handleCountUniqueLines handles the count_unique_lines tool invocation
func (s *Server) handleCountUniqueLines(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	paths, ok := getStringSlice(args, "paths")
	if !ok || len(paths) == 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "paths parameter is required", map[string]interface{}{
			"param":  "paths",
			"reason": "missing, empty or not a list of strings",
		})
	}
	for _, p := range paths {
		if p == "" {
			return nil, newMCPError(ErrorCodeInvalidParams, types.ErrEmptyPath.Error(), map[string]interface{}{
				"param": "paths",
			})
		}
	}

	exclude, _ := getStringSlice(args, "exclude")
	cfg := &scanner.Config{
		IncludeHidden: getBoolDefault(args, "include_hidden", false),
		Exclude:       exclude,
	}
	if err := (&resolver.Options{Exclude: exclude}).Validate(); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid exclude pattern", map[string]interface{}{
			"param":  "exclude",
			"reason": err.Error(),
		})
	}

	if !s.lock.TryAcquire() {
		return nil, newMCPError(ErrorCodeScanInProgress, "another scan is in progress", nil)
	}
	defer s.lock.Release()

	result, err := s.scanner.Scan(paths, cfg)
	if errors.Is(err, types.ErrNoInputFiles) {
		return nil, newMCPError(ErrorCodeNoInputFiles, err.Error(), map[string]interface{}{
			"errors": errorList(result.Errors),
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "scan failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	report, err := output.JSON(result.Report, result.Errors)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to encode report", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"report":        json.RawMessage(report),
		"files_scanned": result.Stats.FilesScanned,
		"files_empty":   result.Stats.FilesEmpty,
		"files_failed":  result.Stats.FilesFailed,
		"duration_ms":   result.Stats.Duration.Milliseconds(),
	}

	if getBoolDefault(args, "save", false) {
		run, files := storage.NewRun(paths, cfg.Describe(), result.Records, result.Report, len(result.Errors))
		if err := storage.SaveRun(ctx, s.storage, run, files); err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to save run", map[string]interface{}{
				"error": err.Error(),
			})
		}
		response["run_id"] = run.ID
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListRuns handles the list_runs tool invocation
func (s *Server) handleListRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		// list_runs has no required arguments
		args = map[string]interface{}{}
	}

	limit := getIntDefault(args, "limit", 20)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	runs, err := s.storage.ListRuns(ctx, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list runs", map[string]interface{}{
			"error": err.Error(),
		})
	}

	items := make([]map[string]interface{}, 0, len(runs))
	for _, run := range runs {
		items = append(items, runSummary(run))
	}

	response := map[string]interface{}{
		"runs":  items,
		"count": len(items),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetRun handles the get_run tool invocation
func (s *Server) handleGetRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	runID := getStringDefault(args, "run_id", "")
	if runID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "run_id parameter is required", map[string]interface{}{
			"param":  "run_id",
			"reason": "missing or empty",
		})
	}

	run, err := s.storage.GetRun(ctx, runID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeRunNotFound, "run not found", map[string]interface{}{
			"run_id": runID,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get run", map[string]interface{}{
			"error": err.Error(),
		})
	}

	files, err := s.storage.ListRunFiles(ctx, runID)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list run files", map[string]interface{}{
			"error": err.Error(),
		})
	}

	items := make([]map[string]interface{}, 0, len(files))
	for _, f := range files {
		item := map[string]interface{}{
			"path":         f.Path,
			"name":         f.Name,
			"lines":        f.LineCount,
			"unique_lines": f.UniqueLineCount,
			"size_bytes":   f.SizeBytes,
			"content_hash": hex.EncodeToString(f.ContentHash[:]),
		}
		if f.Ext != nil {
			item["ext"] = *f.Ext
		}
		items = append(items, item)
	}

	response := runSummary(run)
	response["options"] = json.RawMessage(optionsOrEmpty(run.Options))
	response["files"] = items
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleDeleteRun handles the delete_run tool invocation
func (s *Server) handleDeleteRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	runID := getStringDefault(args, "run_id", "")
	if runID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "run_id parameter is required", map[string]interface{}{
			"param":  "run_id",
			"reason": "missing or empty",
		})
	}

	err := s.storage.DeleteRun(ctx, runID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeRunNotFound, "run not found", map[string]interface{}{
			"run_id": runID,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to delete run", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"deleted": true,
		"run_id":  runID,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.storage.GetStatus(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	history := map[string]interface{}{
		"runs_count":  status.RunsCount,
		"files_count": status.FilesCount,
		"db_size_mb":  fmt.Sprintf("%.2f", status.DBSizeMB),
	}
	if !status.LastRunAt.IsZero() {
		history["last_run_at"] = status.LastRunAt.Format(time.RFC3339)
	}

	response := map[string]interface{}{
		"history": history,
		"health": map[string]interface{}{
			"database_accessible": status.Accessible,
			"scan_in_progress":    s.lock.held.Load(),
		},
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

func runSummary(run *storage.Run) map[string]interface{} {
	return map[string]interface{}{
		"run_id":       run.ID,
		"created_at":   run.CreatedAt.Format(time.RFC3339),
		"paths":        run.Paths,
		"files":        run.FileCount,
		"lines":        run.LineCount,
		"unique_lines": run.UniqueLineCount,
		"errors":       run.ErrorCount,
	}
}

func optionsOrEmpty(options string) string {
	if options == "" || !json.Valid([]byte(options)) {
		return "{}"
	}
	return options
}

func errorList(errs []*types.FileError) []map[string]string {
	out := make([]map[string]string, 0, len(errs))
	for _, fe := range errs {
		out = append(out, map[string]string{"path": fe.Path, "reason": fe.Reason()})
	}
	return out
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getStringSlice extracts a list of strings. JSON decoding yields
// []interface{}; Go callers may pass []string directly.
func getStringSlice(args map[string]interface{}, key string) ([]string, bool) {
	switch val := args[key].(type) {
	case []string:
		return val, true
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	}
	return nil, false
}
