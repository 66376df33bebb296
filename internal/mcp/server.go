package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/a3tai/casecite/internal/citation"
	"github.com/a3tai/casecite/internal/config"
	"github.com/a3tai/casecite/internal/descriptions"
	"github.com/a3tai/casecite/internal/pdf"
	"github.com/a3tai/casecite/internal/pipeline"
	"github.com/a3tai/casecite/internal/store"
)

// Tool names
const (
	ToolProcessFile     = "citations_process_file"
	ToolPreviewFile     = "citations_preview_file"
	ToolGetJudgment     = "citations_get_judgment"
	ToolResolveReporter = "reporters_resolve"
	ToolSearchDirectory = "citations_search_directory"
	ToolValidateFile    = "citations_validate_file"
	ToolServerInfo      = "citations_server_info"
)

// Preview results live until the file changes or this long, whichever comes first.
const (
	previewTTL     = 30 * time.Minute
	previewCleanup = 10 * time.Minute
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	pipeline   *pipeline.Pipeline
	store      *store.Store
	previews   *cache.Cache
	mcpServer  *server.MCPServer
	logger     zerolog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(
	cfg *config.Config,
	pdfService *pdf.Service,
	p *pipeline.Pipeline,
	st *store.Store,
	logger zerolog.Logger,
) (*Server, error) {
	switch {
	case cfg == nil:
		return nil, fmt.Errorf("config cannot be nil")
	case pdfService == nil:
		return nil, fmt.Errorf("pdfService cannot be nil")
	case p == nil:
		return nil, fmt.Errorf("pipeline cannot be nil")
	case st == nil:
		return nil, fmt.Errorf("store cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		pipeline:   p,
		store:      st,
		previews:   cache.New(previewTTL, previewCleanup),
		mcpServer:  mcpServer,
		logger:     logger,
	}

	s.registerTools()

	return s, nil
}

type toolSpec struct {
	tool    mcp.Tool
	handler server.ToolHandlerFunc
	usage   string
}

func (s *Server) tools() []toolSpec {
	pathArg := mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Path to the judgment PDF, absolute or relative to the judgments directory"),
	)

	return []toolSpec{
		{
			tool:    mcp.NewTool(ToolProcessFile, mcp.WithDescription(descriptions.ProcessFileDescription), pathArg),
			handler: s.handleProcessFile,
			usage:   "path",
		},
		{
			tool:    mcp.NewTool(ToolPreviewFile, mcp.WithDescription(descriptions.PreviewFileDescription), pathArg),
			handler: s.handlePreviewFile,
			usage:   "path",
		},
		{
			tool: mcp.NewTool(ToolGetJudgment,
				mcp.WithDescription(descriptions.GetJudgmentDescription),
				mcp.WithString("neutral_citation",
					mcp.Required(),
					mcp.Description("Neutral citation of the judgment, as stored"),
				),
			),
			handler: s.handleGetJudgment,
			usage:   "neutral_citation",
		},
		{
			tool: mcp.NewTool(ToolResolveReporter,
				mcp.WithDescription(descriptions.ResolveReporterDescription),
				mcp.WithString("citation",
					mcp.Required(),
					mcp.Description("Citation code such as [1999] 2 JLR 345"),
				),
			),
			handler: s.handleResolveReporter,
			usage:   "citation",
		},
		{
			tool: mcp.NewTool(ToolSearchDirectory,
				mcp.WithDescription(descriptions.SearchDirectoryDescription),
				mcp.WithString("directory",
					mcp.Description("Directory to search (uses the judgments directory if empty)"),
				),
				mcp.WithString("query",
					mcp.Description("Optional file name filter"),
				),
			),
			handler: s.handleSearchDirectory,
			usage:   "directory?, query?",
		},
		{
			tool:    mcp.NewTool(ToolValidateFile, mcp.WithDescription(descriptions.ValidateFileDescription), pathArg),
			handler: s.handleValidateFile,
			usage:   "path",
		},
		{
			tool:    mcp.NewTool(ToolServerInfo, mcp.WithDescription(descriptions.ServerInfoDescription)),
			handler: s.handleServerInfo,
		},
	}
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	for _, spec := range s.tools() {
		s.mcpServer.AddTool(spec.tool, spec.handler)
	}
}

func (s *Server) handleProcessFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resolved, err := s.pdfService.ResolvePath(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pipeline.ProcessFile(ctx, resolved)
	if err != nil {
		s.logger.Error().Err(err).Str("path", resolved).Msg("document failed")
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.logger.Info().
		Str("path", resolved).
		Bool("skipped", result.Skipped).
		Int("citations", len(result.Citations)).
		Msg("document processed")

	return mcp.NewToolResultText(formatDocumentResult(result)), nil
}

func (s *Server) handlePreviewFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, cached, err := s.preview(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := formatDocumentResult(result)
	if cached {
		responseText += "\n(cached preview)\n"
	}
	return mcp.NewToolResultText(responseText), nil
}

// preview returns the dry-run result for path, reusing a cached one while the
// file's modification time and size are unchanged.
func (s *Server) preview(ctx context.Context, path string) (*pipeline.DocumentResult, bool, error) {
	resolved, err := s.pdfService.ResolvePath(path)
	if err != nil {
		return nil, false, err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false, fmt.Errorf("cannot access file: %w", err)
	}

	key := fmt.Sprintf("%s|%d|%d", resolved, info.ModTime().UnixNano(), info.Size())
	if v, ok := s.previews.Get(key); ok {
		return v.(*pipeline.DocumentResult), true, nil
	}

	result, err := s.pipeline.Preview(ctx, resolved)
	if err != nil {
		return nil, false, err
	}
	s.previews.Set(key, result, cache.DefaultExpiration)
	return result, false, nil
}

func (s *Server) handleGetJudgment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	neutral, err := request.RequireString("neutral_citation")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	j, err := s.store.Judgment(ctx, neutral)
	if errors.Is(err, store.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("no judgment stored for %q", neutral)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	citations, err := s.store.Citations(ctx, neutral)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	writeJudgment(&b, &pipeline.DocumentResult{Judgment: j})
	writeCitations(&b, citations)
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleResolveReporter(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("citation")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	abbrev, _, ok := citation.ParseYearReporter(code)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("could not read a year and reporter from %q", code)), nil
	}

	reporter, jurisdiction, year := s.pipeline.Extractor().Resolver().Resolve(code)
	if reporter == "" {
		reporter = fmt.Sprintf("unknown (%q is not in the reporter table)", abbrev)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Citation: %s\n", code)
	fmt.Fprintf(&b, "Normalized: %s\n", citation.NormalizeCode(code))
	fmt.Fprintf(&b, "Reporter: %s\n", reporter)
	fmt.Fprintf(&b, "Jurisdiction: %s\n", jurisdiction)
	fmt.Fprintf(&b, "Year: %s\n", formatYear(year))
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleSearchDirectory(_ context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	directory := ""
	if dir, ok := args["directory"].(string); ok {
		directory = dir
	}

	query := ""
	if q, ok := args["query"].(string); ok {
		query = q
	}

	result, err := s.pdfService.SearchDirectory(directory, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.TotalCount == 0 {
		responseText := fmt.Sprintf("No PDF files found in directory: %s", result.Directory)
		if result.Query != "" {
			responseText += fmt.Sprintf(" (searched for: %s)", result.Query)
		}
		return mcp.NewToolResultText(responseText), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d judgment PDF(s) in %s", result.TotalCount, result.Directory)
	if result.Query != "" {
		fmt.Fprintf(&b, " matching '%s'", result.Query)
	}
	b.WriteString(":\n\n")
	for i, file := range result.Files {
		fmt.Fprintf(&b, "%d. %s\n   Path: %s\n   Size: %d bytes\n   Modified: %s\n\n",
			i+1, file.Name, file.Path, file.Size, file.ModifiedTime)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleValidateFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ValidateFile(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !result.Valid {
		return mcp.NewToolResultText(fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("PDF file %s is valid and readable (%d pages)", result.Path, result.Pages)), nil
}

func (s *Server) handleServerInfo(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	counts, err := s.store.Counts(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s v%s - Server Information\n\n", s.config.ServerName, s.config.Version)
	fmt.Fprintf(&b, "Judgments directory: %s\n", s.pdfService.Directory())
	fmt.Fprintf(&b, "Max file size: %d bytes\n", s.pdfService.MaxFileSize())
	fmt.Fprintf(&b, "Reporter table: %s\n\n", s.store.ReporterTable())

	b.WriteString("Database:\n")
	fmt.Fprintf(&b, "  Judgments: %d\n", counts.Judgments)
	fmt.Fprintf(&b, "  Citations: %d\n", counts.Citations)
	fmt.Fprintf(&b, "  Reporters: %d\n", counts.Reporters)
	fmt.Fprintf(&b, "  Cached previews: %d\n\n", s.previews.ItemCount())

	b.WriteString("Available Tools:\n")
	for _, spec := range s.tools() {
		fmt.Fprintf(&b, "  • %s", spec.tool.Name)
		if spec.usage != "" {
			fmt.Fprintf(&b, " (%s)", spec.usage)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

// Run serves MCP over stdio until ctx is cancelled or stdin closes.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Debug().Str("directory", s.pdfService.Directory()).Msg("starting MCP server in stdio mode")

	stdio := server.NewStdioServer(s.mcpServer)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
