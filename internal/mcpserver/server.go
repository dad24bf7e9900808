// Package mcpserver exposes the tool dispatcher over the Model Context
// Protocol. The registry is the single source of truth for names and
// schemas; this layer only translates between MCP and the dispatcher.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	mcp "github.com/fredcamaral/gomcp-sdk"
	"github.com/fredcamaral/gomcp-sdk/protocol"
	"github.com/fredcamaral/gomcp-sdk/server"
	"github.com/fredcamaral/gomcp-sdk/transport"

	"futebol-mcp/internal/config"
	"futebol-mcp/internal/dispatch"
	"futebol-mcp/internal/logging"
)

// Server wraps the MCP protocol server around the dispatcher.
type Server struct {
	dispatcher *dispatch.Dispatcher
	mcpServer  *server.Server
	logger     *logging.Logger
}

// New builds the protocol server and registers every dispatcher tool and
// the browse resources.
func New(cfg *config.ServerConfig, dispatcher *dispatch.Dispatcher, logger *logging.Logger) *Server {
	s := &Server{
		dispatcher: dispatcher,
		mcpServer:  mcp.NewServer(cfg.Name, cfg.Version),
		logger:     logger.WithComponent("mcp"),
	}
	s.registerTools()
	s.registerResources()
	return s
}

func (s *Server) registerTools() {
	for _, tool := range s.dispatcher.Tools() {
		name := tool.Name
		s.mcpServer.AddTool(
			mcp.NewTool(tool.Name, tool.Description, tool.Schema),
			mcp.ToolHandlerFunc(func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				return s.dispatcher.Invoke(ctx, name, params)
			}),
		)
	}
	s.logger.Info("tools registered", "count", len(s.dispatcher.Tools()))
}

func (s *Server) registerResources() {
	resources := []struct {
		uri         string
		name        string
		description string
	}{
		{
			uri:         "futebol://catalog/tools",
			name:        "Tool Catalog",
			description: "Names, descriptions, and input schemas of every tool",
		},
		{
			uri:         "futebol://catalog/graph",
			name:        "Graph Model",
			description: "Node labels and relationship types of the knowledge graph",
		},
	}
	for _, res := range resources {
		s.mcpServer.AddResource(
			mcp.NewResource(res.uri, res.name, res.description, "application/json"),
			mcp.ResourceHandlerFunc(s.handleResourceRead),
		)
	}
}

func (s *Server) handleResourceRead(_ context.Context, uri string) ([]protocol.Content, error) {
	var payload interface{}
	switch uri {
	case "futebol://catalog/tools":
		payload = s.toolCatalog()
	case "futebol://catalog/graph":
		payload = graphModel()
	default:
		return nil, fmt.Errorf("unknown resource URI: %s", uri)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}
	return []protocol.Content{protocol.NewContent(string(data))}, nil
}

func (s *Server) toolCatalog() interface{} {
	tools := s.dispatcher.Tools()
	catalog := make([]map[string]interface{}, 0, len(tools))
	for _, t := range tools {
		catalog = append(catalog, map[string]interface{}{
			"name":         t.Name,
			"description":  t.Description,
			"input_schema": t.Schema,
		})
	}
	return map[string]interface{}{"tools": catalog}
}

func graphModel() interface{} {
	return map[string]interface{}{
		"nodes": []string{"Player", "Team", "Match", "Competition", "Event"},
		"relationships": map[string]string{
			"PLAYED_FOR":      "Player -> Team, with start_date, end_date, jersey_number",
			"PARTICIPATED_IN": "Player -> Match, with goals, assists, yellow_cards, red_cards",
			"PART_OF":         "Match -> Competition",
			"OCCURRED_IN":     "Event -> Match",
		},
	}
}

// Serve attaches the stdio transport and blocks until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	s.mcpServer.SetTransport(transport.NewStdioTransport())
	s.logger.Info("serving MCP over stdio")
	return s.mcpServer.Start(ctx)
}

// Underlying exposes the protocol server. Used by tests.
func (s *Server) Underlying() *server.Server {
	return s.mcpServer
}
