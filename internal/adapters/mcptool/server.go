package mcptool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tamu-aesl/adams/internal/core/domain"
	"github.com/tamu-aesl/adams/internal/core/ports"
	"github.com/tamu-aesl/adams/internal/core/usecase"
	"github.com/tamu-aesl/adams/internal/infrastructure/export"
)

const (
	ServerName    = "adams-mcp"
	ServerVersion = "1.0.0"
)

// Server exposes the federated search tools over the MCP protocol.
type Server struct {
	search    *usecase.SearchService
	downloads *usecase.DownloadService
	summaries *usecase.SummarizeService
	lookup    ports.DocumentLookup
	logger    *slog.Logger
}

func New(
	search *usecase.SearchService,
	downloads *usecase.DownloadService,
	summaries *usecase.SummarizeService,
	lookup ports.DocumentLookup,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		search:    search,
		downloads: downloads,
		summaries: summaries,
		lookup:    lookup,
		logger:    logger,
	}
}

// MCPServer builds the protocol server with every tool registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer(ServerName, ServerVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	srv.AddTool(searchTool(), s.handleSearch)
	srv.AddTool(getDocumentTool(), s.handleGetDocument)
	srv.AddTool(downloadTool(), s.handleDownload)
	srv.AddTool(downloadBatchTool(), s.handleDownloadBatch)
	srv.AddTool(summarizeTool(), s.handleSummarize)

	return srv
}

// ServeStdio blocks, serving the MCP protocol on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.MCPServer())
}

func searchTool() mcp.Tool {
	return mcp.NewTool("search_adams",
		mcp.WithDescription("Search NRC ADAMS for regulatory documents. Federates the modern API, the legacy library, and optionally a web search, then returns deduplicated, relevance-ranked results."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Free-text search query, 2 to 500 characters.")),
		mcp.WithNumber("max_results", mcp.Description("Number of ranked results to return (default 5, max 50).")),
		mcp.WithNumber("max_pages", mcp.Description("Result pages to pull per backend (default 1, max 10).")),
		mcp.WithBoolean("include_legacy", mcp.Description("Also search the pre-1999 legacy library. Enabled automatically when the query mentions pre-1999 years.")),
		mcp.WithBoolean("use_web", mcp.Description("Also run a site-restricted web search.")),
		mcp.WithString("docket_number", mcp.Description("Restrict to docket numbers starting with this value.")),
		mcp.WithString("document_type", mcp.Description("Restrict to documents whose type contains this value.")),
		mcp.WithNumber("days_back", mcp.Description("Only documents added within the last N days.")),
		mcp.WithString("date_from", mcp.Description("Earliest document date, YYYY-MM-DD.")),
		mcp.WithString("date_to", mcp.Description("Latest document date, YYYY-MM-DD.")),
		mcp.WithNumber("min_score", mcp.Description("Drop results scoring below this threshold.")),
		mcp.WithString("source_only", mcp.Description("Keep only results from this source label.")),
		mcp.WithString("sort_by", mcp.Description("Sort key: score, title, document_date, or added_date (default score).")),
		mcp.WithBoolean("sort_desc", mcp.Description("Sort direction for sort_by (default true, descending).")),
		mcp.WithString("export_path", mcp.Description("Optionally write the full result set to this .json or .xlsx file.")),
	)
}

func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	_, hasMinScore := args["min_score"]

	req := domain.SearchRequest{
		Query:         query,
		TopN:          request.GetInt("max_results", 0),
		MaxPages:      request.GetInt("max_pages", 0),
		UseWeb:        request.GetBool("use_web", false),
		IncludeLegacy: request.GetBool("include_legacy", false),
		DocketNumber:  request.GetString("docket_number", ""),
		DocumentType:  request.GetString("document_type", ""),
		DaysBack:      request.GetInt("days_back", 0),
		DateFrom:      request.GetString("date_from", ""),
		DateTo:        request.GetString("date_to", ""),
		MinScore:      request.GetFloat("min_score", 0),
		HasMinScore:   hasMinScore,
		SourceOnly:    request.GetString("source_only", ""),
		SortBy:        request.GetString("sort_by", ""),
		SortDesc:      request.GetBool("sort_desc", true),
	}

	outcome, err := s.search.Search(ctx, req)
	if err != nil {
		return s.toolError("search_adams", err), nil
	}

	if path := request.GetString("export_path", ""); path != "" {
		if err := export.ForPath(path).Export(outcome.Results, path); err != nil {
			return s.toolError("search_adams", err), nil
		}
	}

	return jsonResult(outcome)
}

func getDocumentTool() mcp.Tool {
	return mcp.NewTool("get_document",
		mcp.WithDescription("Fetch the full metadata record for one document by accession number."),
		mcp.WithString("accession_number", mcp.Required(), mcp.Description("ML-prefixed accession number, e.g. ML12345A678.")),
	)
}

func (s *Server) handleGetDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	accession, err := request.RequireString("accession_number")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.lookup.GetDocument(ctx, accession)
	if err != nil {
		return s.toolError("get_document", err), nil
	}
	return jsonResult(doc)
}

func downloadTool() mcp.Tool {
	return mcp.NewTool("download_adams",
		mcp.WithDescription("Download one document PDF by accession number into local storage."),
		mcp.WithString("accession_number", mcp.Required(), mcp.Description("ML-prefixed accession number.")),
	)
}

func (s *Server) handleDownload(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	accession, err := request.RequireString("accession_number")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.downloads.DownloadOne(ctx, accession))
}

func downloadBatchTool() mcp.Tool {
	return mcp.NewTool("download_adams_batch",
		mcp.WithDescription(fmt.Sprintf("Download up to %d document PDFs concurrently. Per-document failures are reported, not fatal.", usecase.MaxBatchSize)),
		mcp.WithArray("accession_numbers", mcp.Required(), mcp.Description("ML-prefixed accession numbers.")),
	)
}

func (s *Server) handleDownloadBatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	accessions := request.GetStringSlice("accession_numbers", nil)
	results, err := s.downloads.DownloadBatch(ctx, accessions)
	if err != nil {
		return s.toolError("download_adams_batch", err), nil
	}
	return jsonResult(results)
}

func summarizeTool() mcp.Tool {
	return mcp.NewTool("summarize_pdf",
		mcp.WithDescription("Extract text from a downloaded PDF. Give either an accession number of an already downloaded document or a path inside the download directory."),
		mcp.WithString("accession_number", mcp.Description("ML-prefixed accession number of a downloaded document.")),
		mcp.WithString("path", mcp.Description("Path to a PDF inside the download directory.")),
		mcp.WithNumber("max_chars", mcp.Description("Maximum characters of extracted text (default 2000).")),
	)
}

func (s *Server) handleSummarize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	maxChars := request.GetInt("max_chars", 0)

	var (
		summary usecase.Summary
		err     error
	)
	if accession := request.GetString("accession_number", ""); accession != "" {
		summary, err = s.summaries.SummarizeAccession(ctx, accession, maxChars)
	} else if path := request.GetString("path", ""); path != "" {
		summary, err = s.summaries.Summarize(ctx, path, maxChars)
	} else {
		return mcp.NewToolResultError("either accession_number or path is required"), nil
	}
	if err != nil {
		return s.toolError("summarize_pdf", err), nil
	}
	return jsonResult(summary)
}

// toolError logs the failure and maps domain error kinds to a stable
// client-facing message.
func (s *Server) toolError(tool string, err error) *mcp.CallToolResult {
	s.logger.Error("tool_failed", "tool", tool, "error", err)
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}
