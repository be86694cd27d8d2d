package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

// Server exposes registered tools over an HTTP JSON-RPC boundary
type Server struct {
	address    string
	tools      map[string]*ToolHandler
	mu         sync.RWMutex
	serverInfo *ServerInfo
	httpServer *http.Server
	logger     *zap.Logger
}

// ToolHandler handles tool requests
type ToolHandler struct {
	Tool     *Tool
	CallFunc func(ctx context.Context, name string, args map[string]any) (*ToolResult, error)
}

// NewServer creates a new tool server
func NewServer(address string, logger *zap.Logger) *Server {
	return &Server{
		address: address,
		tools:   make(map[string]*ToolHandler),
		serverInfo: &ServerInfo{
			Name:    "deadwood",
			Version: "0.1.0",
		},
		logger: logger,
	}
}

// SetServerInfo sets the server information
func (s *Server) SetServerInfo(name, version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serverInfo.Name = name
	s.serverInfo.Version = version
}

// RegisterTool registers a tool handler
func (s *Server) RegisterTool(handler *ToolHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tools[handler.Tool.Name] = handler
	s.logger.Info("Registered tool", zap.String("tool", handler.Tool.Name))
}

// Handler returns the HTTP handler serving the tool API. Useful for
// embedding the server in another mux or test harness.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1", s.handleInfo)
	mux.HandleFunc("/v1/tools/list", s.handleToolList)
	mux.HandleFunc("/v1/tools/call", s.handleToolCall)
	return mux
}

// Start serves until ctx is cancelled or the listener fails
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	s.logger.Info("Tool server listening", zap.String("address", s.address))

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		s.logger.Info("Tool server shutting down")
		return s.httpServer.Shutdown(context.Background())
	}
}

// Stop stops the tool server
func (s *Server) Stop() error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(context.Background())
	}
	return nil
}

// handleInfo handles server info requests
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.writeResponse(w, map[string]any{
		"name":    s.serverInfo.Name,
		"version": s.serverInfo.Version,
		"capabilities": map[string]any{
			"tools": true,
		},
	})
}

// handleToolList handles tool list requests
func (s *Server) handleToolList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	tools := make([]*Tool, 0, len(s.tools))
	for _, handler := range s.tools {
		tools = append(tools, handler.Tool)
	}

	s.writeResponse(w, map[string]any{
		"tools": tools,
	})
}

// handleToolCall handles tool call requests
func (s *Server) handleToolCall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, -32700, "parse error")
		return
	}

	s.mu.RLock()
	handler, ok := s.tools[req.Name]
	s.mu.RUnlock()

	if !ok {
		s.writeError(w, -32601, "tool not found")
		return
	}

	s.logger.Debug("Tool call", zap.String("tool", req.Name))

	result, err := handler.CallFunc(r.Context(), req.Name, req.Arguments)
	if err != nil {
		s.writeError(w, -32603, fmt.Sprintf("call failed: %v", err))
		return
	}
	s.writeResponse(w, result)
}

// writeResponse writes a JSON-RPC response
func (s *Server) writeResponse(w http.ResponseWriter, result any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"jsonrpc": "2.0",
		"result":  result,
	})
}

// writeError writes a JSON-RPC error response
func (s *Server) writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]any{
		"jsonrpc": "2.0",
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}

// ToolBuilder helps build tool handlers
type ToolBuilder struct {
	name        string
	description string
	schema      map[string]any
	callFn      func(ctx context.Context, name string, args map[string]any) (*ToolResult, error)
}

// NewToolBuilder creates a new tool builder
func NewToolBuilder(name, description string) *ToolBuilder {
	return &ToolBuilder{
		name:        name,
		description: description,
	}
}

// WithSchema sets the input schema
func (b *ToolBuilder) WithSchema(schema map[string]any) *ToolBuilder {
	b.schema = schema
	return b
}

// WithCall sets the call function
func (b *ToolBuilder) WithCall(fn func(ctx context.Context, name string, args map[string]any) (*ToolResult, error)) *ToolBuilder {
	b.callFn = fn
	return b
}

// Build creates the tool handler
func (b *ToolBuilder) Build() *ToolHandler {
	return &ToolHandler{
		Tool: &Tool{
			Name:        b.name,
			Description: b.description,
			InputSchema: b.schema,
		},
		CallFunc: b.callFn,
	}
}

// ServerInfo holds server metadata
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Tool describes one callable tool
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema,omitempty"`
}

// ToolResult represents a tool execution result
type ToolResult struct {
	Content []any `json:"content"`
	IsError bool  `json:"isError"`
}

// TextContent is one text block in a tool result
type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// NewTextContent wraps text in a content block
func NewTextContent(text string) TextContent {
	return TextContent{
		Type: "text",
		Text: text,
	}
}
