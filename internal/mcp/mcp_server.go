// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/sloc/core"
	"github.com/huangsam/sloc/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the sloc MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) (*server.MCPServer, error) {
	s := server.NewMCPServer(
		"SLOC Server",
		"1.0.0",
		server.WithLogging(),
	)

	cache, err := core.NewMetricsCache(mgr, baseCfg.Tokenizer, baseCfg.CacheTTL)
	if err != nil {
		return nil, err
	}
	h := &toolHandler{
		baseCfg: baseCfg,
		cache:   cache,
	}

	// --- 1. Tool: get_sloc_report ---
	s.AddTool(mcp.NewTool("get_sloc_report",
		mcp.WithDescription("Count source, comment and total lines per language for a project directory."),
		mcp.WithString("path", mcp.Description("Path to the project directory (defaults to the configured project path).")),
		mcp.WithString("languages", mcp.Description("Comma-separated language names, e.g. 'Go,Shell'. Defaults to every registered language.")),
	), h.handleGetSlocReport)

	// --- 2. Tool: get_code_metrics ---
	s.AddTool(mcp.NewTool("get_code_metrics",
		mcp.WithDescription("Summarize a project: line totals per language, file counts and the biggest files."),
		mcp.WithString("path", mcp.Description("Path to the project directory.")),
		mcp.WithString("languages", mcp.Description("Comma-separated language names.")),
		mcp.WithNumber("top", mcp.Description("Number of biggest files to return (1-100).")),
	), h.handleGetCodeMetrics)

	// --- 3. Tool: list_languages ---
	s.AddTool(mcp.NewTool("list_languages",
		mcp.WithDescription("List the registered languages with their extensions, excludes and classifier."),
	), h.handleListLanguages)

	// --- 4. Tool: classify_content ---
	s.AddTool(mcp.NewTool("classify_content",
		mcp.WithDescription("Classify the lines of a snippet as source or comment for one language."),
		mcp.WithString("language", mcp.Description("Registered language name, e.g. 'Go'."), mcp.Required()),
		mcp.WithString("content", mcp.Description("The text to classify."), mcp.Required()),
	), h.handleClassifyContent)

	return s, nil
}

// StartMCPServer starts the sloc MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s, err := NewMCPServer(baseCfg, mgr)
	if err != nil {
		return err
	}
	return server.ServeStdio(s)
}
