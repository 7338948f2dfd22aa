package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/huangsam/sloc/core"
	"github.com/huangsam/sloc/internal/contract"
	"github.com/huangsam/sloc/internal/outwriter"
	"github.com/huangsam/sloc/internal/project"
	"github.com/huangsam/sloc/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	cache   *core.MetricsCache
}

// scanConfig clones the base config and applies the path and languages arguments.
func (h *toolHandler) scanConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("path", ""); p != "" {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		cfg.ProjectPath = abs
		cfg.Identity = schema.ProjectIdentity{Repo: filepath.Base(abs)}
	}
	if cfg.ProjectPath == "" {
		cfg.ProjectPath = "."
	}
	if l := request.GetString("languages", ""); l != "" {
		reqs, err := core.RegistryOf(cfg).ParseRequests(l, cfg.Excludes)
		if err != nil {
			return nil, err
		}
		cfg.Requests = reqs
	}
	return cfg, nil
}

func (h *toolHandler) handleGetSlocReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.scanConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	set, err := core.NewClassifierSet(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid configuration: %v", err)), nil
	}

	p := project.NewLocal(cfg.ProjectPath, cfg.Identity)
	report, err := core.ReportForLanguages(core.WithQuiet(ctx), p, set, core.RequestsOf(cfg), core.OptionsFromConfig(cfg))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetCodeMetrics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.scanConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if top := request.GetInt("top", 0); top != 0 {
		if top < 0 || top > schema.MaxTopFiles {
			return mcp.NewToolResultError(fmt.Sprintf("top must be between 1 and %d", schema.MaxTopFiles)), nil
		}
		cfg.TopN = top
	}
	set, err := core.NewClassifierSet(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid configuration: %v", err)), nil
	}

	p := project.NewLocal(cfg.ProjectPath, cfg.Identity)
	metrics, _, err := h.cache.CodeMetrics(core.WithQuiet(ctx), p, set, core.RequestsOf(cfg), core.OptionsFromConfig(cfg))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("metrics failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(outwriter.NewMetricsEnvelope(metrics), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListLanguages(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonData, _ := json.MarshalIndent(core.RegistryOf(h.baseCfg).Infos(), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleClassifyContent(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("language", "")
	content := request.GetString("content", "")

	lang, ok := core.RegistryOf(h.baseCfg).Lookup(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("%v: %q", schema.ErrUnknownLanguage, name)), nil
	}
	set, err := core.NewClassifierSet(h.baseCfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid configuration: %v", err)), nil
	}
	stats, err := set.Classify(lang, content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("classification failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(stats, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
