package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/a3tai/casecite/internal/config"
	"github.com/a3tai/casecite/internal/pdf"
	"github.com/a3tai/casecite/internal/pipeline"
	"github.com/a3tai/casecite/internal/reporters"
	"github.com/a3tai/casecite/internal/store"
)

const neutral = "ABC v DEF [2020] JRC 001"

var judgmentPages = []string{
	"Copyright vLex. Otherwise, distribution or reproduction is not permitted\n" +
		"ABC v DEF\n" +
		"Jurisdiction: Jersey\n" +
		"Neutral Citation: ABC v DEF [2020] JRC 001\n" +
		"Court: Royal Court\n",
	"1 The point was settled as held in Smith v Jones [1999] 2 JLR 345 at paragraph 12.\n",
}

// countingPages serves fixed page text for every path and counts extractions.
type countingPages struct {
	pages []string
	calls int
}

func (c *countingPages) ExtractPages(path string) ([]string, error) {
	c.calls++
	if strings.Contains(path, "broken") {
		return nil, fmt.Errorf("failed to open PDF: %s", path)
	}
	return c.pages, nil
}

type testEnv struct {
	root   string
	pages  *countingPages
	store  *store.Store
	server *Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "abc-v-def.pdf"), "%PDF-1.4 judgment")

	cfg := config.DefaultConfig()
	cfg.InputDir = root
	cfg.ServerName = "test-server"
	cfg.Version = "1.0.0"

	pdfService, err := pdf.NewService(1024*1024, root)
	if err != nil {
		t.Fatalf("Failed to create PDF service: %v", err)
	}

	st, err := store.Open(filepath.Join(t.TempDir(), "casecite.db"), store.Options{})
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	pages := &countingPages{pages: judgmentPages}
	p, err := pipeline.New(pipeline.Options{
		Pages: pages,
		Lookup: reporters.NewLookup([]reporters.Record{
			{Reporter: "JLR", Cleaned: "jlr", Jurisdiction: "Jersey"},
		}),
		Store:  st,
		Logger: zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("Failed to create pipeline: %v", err)
	}

	server, err := NewServer(cfg, pdfService, p, st, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return &testEnv{root: root, pages: pages, store: st, server: server}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to create test file %s: %v", path, err)
	}
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// getTextContent returns the text of the first content item.
func getTextContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("expected tool result content")
	}
	switch content := result.Content[0].(type) {
	case mcp.TextContent:
		return content.Text
	case *mcp.TextContent:
		return content.Text
	}
	t.Fatalf("unexpected content type %T", result.Content[0])
	return ""
}

func TestNewServer(t *testing.T) {
	env := newTestEnv(t)
	s := env.server

	if s.mcpServer == nil {
		t.Error("mcpServer should be initialized")
	}
	if s.previews == nil {
		t.Error("preview cache should be initialized")
	}

	if _, err := NewServer(s.config, nil, s.pipeline, s.store, zerolog.Nop()); err == nil {
		t.Error("expected error for nil pdfService")
	}
	if _, err := NewServer(s.config, s.pdfService, nil, s.store, zerolog.Nop()); err == nil {
		t.Error("expected error for nil pipeline")
	}
	if _, err := NewServer(s.config, s.pdfService, s.pipeline, nil, zerolog.Nop()); err == nil {
		t.Error("expected error for nil store")
	}
}

func TestServer_ProcessAndGetJudgment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.server.handleProcessFile(ctx, callRequest(map[string]interface{}{"path": "abc-v-def.pdf"}))
	if err != nil {
		t.Fatalf("handleProcessFile() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("handleProcessFile() tool error: %s", getTextContent(t, result))
	}
	text := getTextContent(t, result)
	for _, want := range []string{"Smith v Jones [1999] 2 JLR 345", "Saved: 1 inserted, 0 updated, 0 skipped", "Name: ABC v DEF"} {
		if !strings.Contains(text, want) {
			t.Errorf("process result missing %q:\n%s", want, text)
		}
	}

	result, err = env.server.handleGetJudgment(ctx, callRequest(map[string]interface{}{"neutral_citation": neutral}))
	if err != nil {
		t.Fatalf("handleGetJudgment() error = %v", err)
	}
	text = getTextContent(t, result)
	if result.IsError {
		t.Fatalf("handleGetJudgment() tool error: %s", text)
	}
	for _, want := range []string{"Neutral citation: " + neutral, "Reporter: JLR, Jurisdiction: Jersey, Year: 1999"} {
		if !strings.Contains(text, want) {
			t.Errorf("judgment result missing %q:\n%s", want, text)
		}
	}

	result, _ = env.server.handleGetJudgment(ctx, callRequest(map[string]interface{}{"neutral_citation": "[1900] JRC 999"}))
	if !result.IsError {
		t.Error("expected tool error for unknown judgment")
	}
}

func TestServer_ProcessFileErrors(t *testing.T) {
	env := newTestEnv(t)
	writeFile(t, filepath.Join(env.root, "broken.pdf"), "%PDF-1.4")

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing path", map[string]interface{}{}},
		{"outside judgments directory", map[string]interface{}{"path": filepath.Join(t.TempDir(), "x.pdf")}},
		{"extraction failure", map[string]interface{}{"path": "broken.pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := env.server.handleProcessFile(context.Background(), callRequest(tt.args))
			if err != nil {
				t.Fatalf("handleProcessFile() error = %v", err)
			}
			if !result.IsError {
				t.Errorf("expected tool error, got %s", getTextContent(t, result))
			}
		})
	}
}

func TestServer_PreviewIsCachedUntilFileChanges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req := callRequest(map[string]interface{}{"path": "abc-v-def.pdf"})

	result, err := env.server.handlePreviewFile(ctx, req)
	if err != nil || result.IsError {
		t.Fatalf("handlePreviewFile() = %v, %v", result, err)
	}
	text := getTextContent(t, result)
	for _, want := range []string{"[accepted] named | Smith v Jones | [1999] 2 JLR 345", "[self_reference]"} {
		if !strings.Contains(text, want) {
			t.Errorf("preview missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Saved:") {
		t.Error("preview should not report a save")
	}

	result, _ = env.server.handlePreviewFile(ctx, req)
	if !strings.Contains(getTextContent(t, result), "(cached preview)") {
		t.Error("second preview should be served from cache")
	}
	if env.pages.calls != 1 {
		t.Errorf("extractions = %d, want 1", env.pages.calls)
	}

	writeFile(t, filepath.Join(env.root, "abc-v-def.pdf"), "%PDF-1.4 judgment, corrected")
	_, _ = env.server.handlePreviewFile(ctx, req)
	if env.pages.calls != 2 {
		t.Errorf("extractions after change = %d, want 2", env.pages.calls)
	}

	counts, err := env.store.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts() error = %v", err)
	}
	if counts.Judgments != 0 || counts.Citations != 0 {
		t.Errorf("preview wrote to the store: %+v", counts)
	}
}

func TestServer_ResolveReporter(t *testing.T) {
	env := newTestEnv(t)

	result, _ := env.server.handleResolveReporter(context.Background(),
		callRequest(map[string]interface{}{"citation": "[1999] 2 J.L.R. 345"}))
	text := getTextContent(t, result)
	if result.IsError {
		t.Fatalf("handleResolveReporter() tool error: %s", text)
	}
	for _, want := range []string{"Reporter: JLR", "Jurisdiction: Jersey", "Year: 1999", "Normalized: 19992jlr345"} {
		if !strings.Contains(text, want) {
			t.Errorf("resolve result missing %q:\n%s", want, text)
		}
	}

	result, _ = env.server.handleResolveReporter(context.Background(),
		callRequest(map[string]interface{}{"citation": "[2001] GLR 12"}))
	if text := getTextContent(t, result); result.IsError || !strings.Contains(text, "Reporter: unknown") {
		t.Errorf("expected unknown reporter with a year, got:\n%s", text)
	}

	result, _ = env.server.handleResolveReporter(context.Background(),
		callRequest(map[string]interface{}{"citation": "no citation here"}))
	if !result.IsError {
		t.Error("expected tool error for unparseable citation")
	}
}

func TestServer_SearchDirectory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, _ := env.server.handleSearchDirectory(ctx, callRequest(map[string]interface{}{}))
	text := getTextContent(t, result)
	if !strings.Contains(text, "Found 1 judgment PDF(s)") || !strings.Contains(text, "abc-v-def.pdf") {
		t.Errorf("unexpected search result:\n%s", text)
	}

	result, _ = env.server.handleSearchDirectory(ctx, callRequest(map[string]interface{}{"query": "guernsey"}))
	if text := getTextContent(t, result); !strings.Contains(text, "No PDF files found") {
		t.Errorf("expected empty search result, got:\n%s", text)
	}

	result, _ = env.server.handleSearchDirectory(ctx, callRequest(map[string]interface{}{"directory": t.TempDir()}))
	if !result.IsError {
		t.Error("expected tool error for directory outside the judgments directory")
	}
}

func TestServer_ValidateFile(t *testing.T) {
	env := newTestEnv(t)

	result, _ := env.server.handleValidateFile(context.Background(),
		callRequest(map[string]interface{}{"path": "abc-v-def.pdf"}))
	if text := getTextContent(t, result); !strings.Contains(text, "PDF validation failed") {
		t.Errorf("expected structural validation failure for a fake PDF, got:\n%s", text)
	}
}

func TestServer_ServerInfo(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.server.handleServerInfo(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handleServerInfo() error = %v", err)
	}
	text := getTextContent(t, result)
	for _, want := range []string{
		"test-server v1.0.0",
		"Reporter table: jersey_reporters",
		"Judgments: 0",
		ToolProcessFile, ToolPreviewFile, ToolGetJudgment, ToolResolveReporter,
		ToolSearchDirectory, ToolValidateFile, ToolServerInfo,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("server info missing %q:\n%s", want, text)
		}
	}
}
