package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/stclair/pdf-figures-mcp/internal/export"
	"github.com/stclair/pdf-figures-mcp/internal/geometry"
	"github.com/stclair/pdf-figures-mcp/internal/pdfdoc"
	"github.com/stclair/pdf-figures-mcp/internal/session"
)

// Server handles MCP protocol communication and owns the active document.
type Server struct {
	mu         sync.Mutex
	doc        *pdfdoc.Document
	sess       *session.Session
	exporter   *export.Exporter
	transforms map[int]geometry.DisplayTransform
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a new MCP server instance with no document loaded.
func New() *Server {
	return &Server{
		transforms: make(map[int]geometry.DisplayTransform),
	}
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run() error {
	scanner := bufio.NewScanner(os.Stdin)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(os.Stdout)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Printf("Failed to parse request: %v", err)
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				log.Printf("Failed to encode response: %v", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "pdf-figures-mcp",
				"version": "0.1.0",
			},
		},
	}
}

// state returns the active document, session and exporter, or an error when
// no document has been opened yet.
func (s *Server) state() (*pdfdoc.Document, *session.Session, *export.Exporter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, nil, nil, fmt.Errorf("no document loaded; call document_open first")
	}
	return s.doc, s.sess, s.exporter, nil
}

// transform returns the display transform last reported for a page. Pages
// never rendered yet get the identity transform.
func (s *Server) transform(page int) geometry.DisplayTransform {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tf, ok := s.transforms[page]; ok {
		return tf
	}
	return geometry.DisplayTransform{Scale: 1.0}
}

func (s *Server) setTransform(page int, tf geometry.DisplayTransform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transforms[page] = tf
}
