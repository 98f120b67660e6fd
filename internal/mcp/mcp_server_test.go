package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mcp_internal "github.com/huangsam/trafficprofile/internal/mcp"
	"github.com/huangsam/trafficprofile/internal/runstore"
	"github.com/huangsam/trafficprofile/internal/seriesstore"
	"github.com/huangsam/trafficprofile/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func seededStore(t *testing.T) *seriesstore.CSVStore {
	t.Helper()
	store := seriesstore.New(t.TempDir())
	start := time.Date(2024, 3, 4, 8, 0, 0, 0, time.Local)
	samples := []schema.Sample{
		schema.NewSample(start, 20),
		schema.NewSample(start.Add(2*time.Minute), 24),
		schema.NewSample(start.Add(4*time.Minute), 28),
	}
	_, err := store.Persist("home_work", samples)
	require.NoError(t, err)
	return store
}

func TestGetRouteHistory(t *testing.T) {
	s := mcp_internal.NewMCPServer(seededStore(t), nil)

	t.Run("full history", func(t *testing.T) {
		res := callTool(t, s, "get_route_history", map[string]any{"route_key": "home_work"})
		require.False(t, res.IsError, resultText(t, res))

		var result schema.HistoryResult
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &result))
		assert.Equal(t, "home_work", result.RouteKey)
		assert.Len(t, result.Rows, 3)
		assert.Equal(t, 3, result.Summary.Count)
		assert.InDelta(t, 20.0, result.Summary.MinMinutes, 1e-9)
		assert.InDelta(t, 28.0, result.Summary.MaxMinutes, 1e-9)
	})

	t.Run("limit keeps most recent", func(t *testing.T) {
		res := callTool(t, s, "get_route_history", map[string]any{"route_key": "home_work", "limit": 1.0})
		require.False(t, res.IsError)

		var result schema.HistoryResult
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &result))
		require.Len(t, result.Rows, 1)
		assert.InDelta(t, 28.0, result.Rows[0].DurationMinutes, 1e-9)
	})

	t.Run("missing route_key", func(t *testing.T) {
		res := callTool(t, s, "get_route_history", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "route_key is required")
	})

	t.Run("unknown route", func(t *testing.T) {
		res := callTool(t, s, "get_route_history", map[string]any{"route_key": "nowhere"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "history failed")
	})

	t.Run("negative limit", func(t *testing.T) {
		res := callTool(t, s, "get_route_history", map[string]any{"route_key": "home_work", "limit": -2.0})
		assert.True(t, res.IsError)
	})
}

func TestListRuns(t *testing.T) {
	runs := []schema.RunRecord{
		{RunID: 1, RouteKey: "home_work", Status: schema.CompletedStatus},
		{RunID: 2, RouteKey: "gym", Status: schema.FailedStatus},
		{RunID: 3, RouteKey: "home_work", Status: schema.CompletedStatus},
	}

	t.Run("filters by route", func(t *testing.T) {
		rs := &runstore.MockRunStore{}
		rs.On("GetAllRuns").Return(runs, nil)
		mgr := &runstore.MockStoreManager{}
		mgr.On("GetRunStore").Return(rs)

		s := mcp_internal.NewMCPServer(seriesstore.New(t.TempDir()), mgr)
		res := callTool(t, s, "list_runs", map[string]any{"route_key": "home_work", "limit": 1.0})
		require.False(t, res.IsError, resultText(t, res))

		var got []schema.RunRecord
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
		require.Len(t, got, 1)
		assert.Equal(t, int64(3), got[0].RunID)
		rs.AssertExpectations(t)
	})

	t.Run("store error", func(t *testing.T) {
		rs := &runstore.MockRunStore{}
		rs.On("GetAllRuns").Return([]schema.RunRecord(nil), errors.New("boom"))
		mgr := &runstore.MockStoreManager{}
		mgr.On("GetRunStore").Return(rs)

		s := mcp_internal.NewMCPServer(seriesstore.New(t.TempDir()), mgr)
		res := callTool(t, s, "list_runs", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "boom")
	})

	t.Run("tracking disabled", func(t *testing.T) {
		s := mcp_internal.NewMCPServer(seriesstore.New(t.TempDir()), nil)
		res := callTool(t, s, "list_runs", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "disabled")
	})
}
