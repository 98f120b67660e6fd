package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/trafficprofile/core"
	"github.com/huangsam/trafficprofile/internal/contract"
	"github.com/huangsam/trafficprofile/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	store contract.SeriesStore
	mgr   contract.StoreManager
}

func (h *toolHandler) handleGetRouteHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	routeKey := request.GetString("route_key", "")
	if routeKey == "" {
		return mcp.NewToolResultError("route_key is required"), nil
	}
	limit := request.GetInt("limit", 0)
	if limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}

	result, err := core.LoadHistory(ctx, h.store, routeKey)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history failed: %v", err)), nil
	}
	if limit > 0 && len(result.Rows) > limit {
		result.Rows = result.Rows[len(result.Rows)-limit:]
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListRuns(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var runStore contract.RunStore
	if h.mgr != nil {
		runStore = h.mgr.GetRunStore()
	}
	if runStore == nil {
		return mcp.NewToolResultError("run tracking is disabled"), nil
	}
	routeKey := request.GetString("route_key", "")
	limit := request.GetInt("limit", 0)
	if limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}

	runs, err := runStore.GetAllRuns()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing runs failed: %v", err)), nil
	}

	filtered := make([]schema.RunRecord, 0, len(runs))
	for _, r := range runs {
		if routeKey == "" || r.RouteKey == routeKey {
			filtered = append(filtered, r)
		}
	}
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[len(filtered)-limit:]
	}

	jsonData, _ := json.MarshalIndent(filtered, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
