package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/uloc/internal/scanner"
	"github.com/dshills/uloc/internal/storage"
)

func setupServer(t *testing.T) *Server {
	t.Helper()
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	s := newServer(store, scanner.New(nil), "test")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func writeTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"a.txt":       "foo\nfoo\nbar\n",
		"sub/b.txt":   "bar\nbaz\n",
		".hidden/c":   "secret\n",
		"empty.txt":   "",
		"vendor/v.go": "package v\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func callTool(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	var text string
	switch c := result.Content[0].(type) {
	case mcp.TextContent:
		text = c.Text
	case *mcp.TextContent:
		text = c.Text
	default:
		t.Fatalf("unexpected content type %T", c)
	}

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text), &doc))
	return doc
}

func requireMCPError(t *testing.T, err error, code int) *MCPError {
	t.Helper()
	var mcpErr *MCPError
	require.True(t, errors.As(err, &mcpErr), "expected MCPError, got %v", err)
	assert.Equal(t, code, mcpErr.Code)
	return mcpErr
}

func TestNewServer(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "history.db")

	s, err := NewServer(dbPath, "test")
	require.NoError(t, err)
	defer s.Close()

	assert.NotNil(t, s.storage)
	assert.NotNil(t, s.scanner)
	assert.FileExists(t, dbPath)
}

func TestCountUniqueLines(t *testing.T) {
	s := setupServer(t)
	dir := writeTree(t)

	result, err := s.handleCountUniqueLines(context.Background(), callTool("count_unique_lines", map[string]interface{}{
		"paths":   []interface{}{dir},
		"exclude": []interface{}{"vendor"},
	}))
	require.NoError(t, err)

	doc := resultJSON(t, result)
	assert.EqualValues(t, 2, doc["files_scanned"])
	assert.EqualValues(t, 1, doc["files_empty"])
	assert.NotContains(t, doc, "run_id")

	report := doc["report"].(map[string]interface{})
	total := report["total"].(map[string]interface{})
	assert.EqualValues(t, 5, total["lines"])
	assert.EqualValues(t, 3, total["unique_lines"])
	assert.Len(t, report["files"], 2)
}

func TestCountUniqueLines_IncludeHiddenAndSave(t *testing.T) {
	s := setupServer(t)
	dir := writeTree(t)
	ctx := context.Background()

	result, err := s.handleCountUniqueLines(ctx, callTool("count_unique_lines", map[string]interface{}{
		"paths":          []string{dir},
		"include_hidden": true,
		"save":           true,
	}))
	require.NoError(t, err)

	doc := resultJSON(t, result)
	assert.EqualValues(t, 4, doc["files_scanned"])
	runID, ok := doc["run_id"].(string)
	require.True(t, ok)

	run, err := s.storage.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, 4, run.FileCount)
	assert.JSONEq(t, `{"include_hidden":true}`, run.Options)
}

func TestCountUniqueLines_Validation(t *testing.T) {
	s := setupServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		args map[string]interface{}
		code int
	}{
		{"missing paths", map[string]interface{}{}, ErrorCodeInvalidParams},
		{"empty list", map[string]interface{}{"paths": []interface{}{}}, ErrorCodeInvalidParams},
		{"non-string item", map[string]interface{}{"paths": []interface{}{1.0}}, ErrorCodeInvalidParams},
		{"empty path", map[string]interface{}{"paths": []interface{}{""}}, ErrorCodeInvalidParams},
		{"bad exclude", map[string]interface{}{"paths": []interface{}{"."}, "exclude": []interface{}{"[a-"}}, ErrorCodeInvalidParams},
		{"nothing to scan", map[string]interface{}{"paths": []interface{}{filepath.Join(t.TempDir(), "missing")}}, ErrorCodeNoInputFiles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.handleCountUniqueLines(ctx, callTool("count_unique_lines", tt.args))
			requireMCPError(t, err, tt.code)
		})
	}
}

func TestListAndGetRun(t *testing.T) {
	s := setupServer(t)
	dir := writeTree(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := s.handleCountUniqueLines(ctx, callTool("count_unique_lines", map[string]interface{}{
			"paths": []interface{}{filepath.Join(dir, "a.txt")},
			"save":  true,
		}))
		require.NoError(t, err)
	}

	result, err := s.handleListRuns(ctx, callTool("list_runs", map[string]interface{}{"limit": 1.0}))
	require.NoError(t, err)
	doc := resultJSON(t, result)
	assert.EqualValues(t, 1, doc["count"])

	result, err = s.handleListRuns(ctx, callTool("list_runs", nil))
	require.NoError(t, err)
	doc = resultJSON(t, result)
	require.EqualValues(t, 2, doc["count"])

	first := doc["runs"].([]interface{})[0].(map[string]interface{})
	runID := first["run_id"].(string)

	result, err = s.handleGetRun(ctx, callTool("get_run", map[string]interface{}{"run_id": runID}))
	require.NoError(t, err)
	doc = resultJSON(t, result)

	files := doc["files"].([]interface{})
	require.Len(t, files, 1)
	f := files[0].(map[string]interface{})
	assert.Equal(t, "a.txt", f["name"])
	assert.Equal(t, ".txt", f["ext"])
	assert.EqualValues(t, 3, f["lines"])
	assert.EqualValues(t, 2, f["unique_lines"])
	assert.Len(t, f["content_hash"], 64)
}

func TestListRuns_InvalidLimit(t *testing.T) {
	s := setupServer(t)
	_, err := s.handleListRuns(context.Background(), callTool("list_runs", map[string]interface{}{"limit": 500.0}))
	requireMCPError(t, err, ErrorCodeInvalidParams)
}

func TestGetRun_Errors(t *testing.T) {
	s := setupServer(t)
	ctx := context.Background()

	_, err := s.handleGetRun(ctx, callTool("get_run", map[string]interface{}{}))
	requireMCPError(t, err, ErrorCodeInvalidParams)

	_, err = s.handleGetRun(ctx, callTool("get_run", map[string]interface{}{"run_id": "nope"}))
	requireMCPError(t, err, ErrorCodeRunNotFound)
}

func TestToolSchemas(t *testing.T) {
	for _, tool := range []mcp.Tool{countUniqueLinesTool(), listRunsTool(), getRunTool(), deleteRunTool(), getStatusTool()} {
		assert.NotEmpty(t, tool.Name)
		assert.NotEmpty(t, tool.Description)
		assert.Equal(t, "object", tool.InputSchema.Type)
	}
	assert.Equal(t, []string{"paths"}, countUniqueLinesTool().InputSchema.Required)
	assert.Equal(t, []string{"run_id"}, getRunTool().InputSchema.Required)
	assert.Equal(t, []string{"run_id"}, deleteRunTool().InputSchema.Required)
}

func TestScanLock(t *testing.T) {
	var lock ScanLock
	assert.True(t, lock.TryAcquire())
	assert.False(t, lock.TryAcquire())
	lock.Release()
	assert.True(t, lock.TryAcquire())
}

func TestCountUniqueLines_ScanInProgress(t *testing.T) {
	s := setupServer(t)
	dir := writeTree(t)

	require.True(t, s.lock.TryAcquire())
	_, err := s.handleCountUniqueLines(context.Background(), callTool("count_unique_lines", map[string]interface{}{
		"paths": []interface{}{dir},
	}))
	requireMCPError(t, err, ErrorCodeScanInProgress)

	s.lock.Release()
	_, err = s.handleCountUniqueLines(context.Background(), callTool("count_unique_lines", map[string]interface{}{
		"paths": []interface{}{dir},
	}))
	assert.NoError(t, err)
}

func saveRun(t *testing.T, s *Server, path string) string {
	t.Helper()
	result, err := s.handleCountUniqueLines(context.Background(), callTool("count_unique_lines", map[string]interface{}{
		"paths": []interface{}{path},
		"save":  true,
	}))
	require.NoError(t, err)
	return resultJSON(t, result)["run_id"].(string)
}

func TestDeleteRun(t *testing.T) {
	s := setupServer(t)
	dir := writeTree(t)
	ctx := context.Background()

	keep := saveRun(t, s, filepath.Join(dir, "a.txt"))
	drop := saveRun(t, s, dir)

	result, err := s.handleDeleteRun(ctx, callTool("delete_run", map[string]interface{}{"run_id": drop}))
	require.NoError(t, err)
	doc := resultJSON(t, result)
	assert.Equal(t, true, doc["deleted"])
	assert.Equal(t, drop, doc["run_id"])

	_, err = s.handleGetRun(ctx, callTool("get_run", map[string]interface{}{"run_id": drop}))
	requireMCPError(t, err, ErrorCodeRunNotFound)

	_, err = s.handleGetRun(ctx, callTool("get_run", map[string]interface{}{"run_id": keep}))
	assert.NoError(t, err)

	_, err = s.handleDeleteRun(ctx, callTool("delete_run", map[string]interface{}{"run_id": drop}))
	requireMCPError(t, err, ErrorCodeRunNotFound)

	_, err = s.handleDeleteRun(ctx, callTool("delete_run", map[string]interface{}{}))
	requireMCPError(t, err, ErrorCodeInvalidParams)
}

func TestGetStatus(t *testing.T) {
	s := setupServer(t)
	dir := writeTree(t)
	ctx := context.Background()

	result, err := s.handleGetStatus(ctx, callTool("get_status", nil))
	require.NoError(t, err)
	doc := resultJSON(t, result)
	history := doc["history"].(map[string]interface{})
	assert.EqualValues(t, 0, history["runs_count"])
	assert.NotContains(t, history, "last_run_at")

	saveRun(t, s, dir)

	require.True(t, s.lock.TryAcquire())
	result, err = s.handleGetStatus(ctx, callTool("get_status", nil))
	s.lock.Release()
	require.NoError(t, err)

	doc = resultJSON(t, result)
	history = doc["history"].(map[string]interface{})
	assert.EqualValues(t, 1, history["runs_count"])
	assert.EqualValues(t, 3, history["files_count"])
	assert.Contains(t, history, "last_run_at")
	assert.Contains(t, history, "db_size_mb")

	health := doc["health"].(map[string]interface{})
	assert.Equal(t, true, health["database_accessible"])
	assert.Equal(t, true, health["scan_in_progress"])
}

func TestServe_EndOfInput(t *testing.T) {
	s := setupServer(t)

	in := strings.NewReader(
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}` + "\n" +
			`{"jsonrpc":"2.0","id":2,"method":"tools/list"}` + "\n")
	var out bytes.Buffer

	require.NoError(t, s.Serve(context.Background(), in, &out))

	for _, name := range []string{"count_unique_lines", "list_runs", "get_run", "delete_run", "get_status"} {
		assert.Contains(t, out.String(), `"`+name+`"`)
	}
}

func TestServe_Cancel(t *testing.T) {
	s := setupServer(t)

	in, w := io.Pipe()
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, in, io.Discard) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}
