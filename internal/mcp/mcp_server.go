// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/trafficprofile/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the trafficprofile MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(store contract.SeriesStore, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Traffic Profile Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		store: store,
		mgr:   mgr,
	}

	s.AddTool(mcp.NewTool("get_route_history",
		mcp.WithDescription("Return the persisted driving-duration samples for a route, with min, mean and max."),
		mcp.WithString("route_key", mcp.Description("Route key, the route file name without extension (e.g. home_work)."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Only return the most recent N samples.")),
	), h.handleGetRouteHistory)

	s.AddTool(mcp.NewTool("list_runs",
		mcp.WithDescription("List recorded sample runs from the run-tracking database."),
		mcp.WithString("route_key", mcp.Description("Only list runs for this route key.")),
		mcp.WithNumber("limit", mcp.Description("Only return the most recent N runs.")),
	), h.handleListRuns)

	return s
}

// StartMCPServer starts the trafficprofile MCP server on stdio.
func StartMCPServer(_ context.Context, store contract.SeriesStore, mgr contract.StoreManager) error {
	s := NewMCPServer(store, mgr)
	return server.ServeStdio(s)
}
