package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"mc-forecast/internal/config"
)

// JSONRPCRequest represents a standard MCP/JSON-RPC request.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse represents a standard MCP/JSON-RPC response.
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// Server exposes the forecasting engine as MCP tools over stdio. It is pure
// plumbing: decode arguments, call an engine package, return plain records.
type Server struct {
	cfg *config.AppConfig

	in  io.Reader
	out io.Writer
}

// NewServer creates a server bound to stdin/stdout.
func NewServer(cfg *config.AppConfig) *Server {
	return &Server{cfg: cfg, in: os.Stdin, out: os.Stdout}
}

// newTestServer binds arbitrary streams; used by tests.
func newTestServer(cfg *config.AppConfig, in io.Reader, out io.Writer) *Server {
	return &Server{cfg: cfg, in: in, out: out}
}

// Serve runs the JSON-RPC loop until the input stream closes.
func (s *Server) Serve() error {
	reader := bufio.NewReader(s.in)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var req JSONRPCRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Error().Err(err).Msg("Failed to unmarshal request")
			continue
		}

		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req JSONRPCRequest) {
	var result interface{}
	var errRes interface{}

	switch req.Method {
	case "initialize":
		result = map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities":    map[string]interface{}{},
			"serverInfo": map[string]interface{}{
				"name":    "mc-forecast",
				"version": "0.1.0",
			},
		}
	case "tools/list":
		result = s.listTools()
	case "tools/call":
		result, errRes = s.callTool(req.Params)
	default:
		errRes = map[string]interface{}{
			"code":    -32601,
			"message": fmt.Sprintf("Method %s not found", req.Method),
		}
	}

	resp := JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
		Error:   errRes,
	}

	out, _ := json.Marshal(resp)
	fmt.Fprintf(s.out, "%s\n", out)
}

func (s *Server) callTool(params json.RawMessage) (interface{}, interface{}) {
	var call struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(params, &call); err != nil {
		return nil, map[string]interface{}{"code": -32602, "message": "Invalid params"}
	}

	// Correlation ID ties the request's log lines together across tools.
	reqID := uuid.NewString()
	logger := log.With().Str("request_id", reqID).Str("tool", call.Name).Logger()
	logger.Debug().Msg("Tool call received")

	var data interface{}
	var err error

	switch call.Name {
	case "run_simulation":
		data, err = s.handleRunSimulation(call.Arguments)
	case "estimate_effort":
		data, err = s.handleEstimateEffort(call.Arguments)
	case "adjust_dependencies":
		data, err = s.handleAdjustDependencies(call.Arguments)
	case "rank_wsjf":
		data, err = s.handleRankWSJF(call.Arguments)
	case "optimize_portfolio":
		data, err = s.handleOptimizePortfolio(call.Arguments)
	case "score_risks":
		data, err = s.handleScoreRisks(call.Arguments)
	default:
		err = fmt.Errorf("unknown tool: %s", call.Name)
	}

	if err != nil {
		logger.Warn().Err(err).Msg("Tool call failed")
		return nil, map[string]interface{}{"code": -32000, "message": err.Error()}
	}

	logger.Debug().Msg("Tool call completed")
	payload, merr := json.Marshal(data)
	if merr != nil {
		return nil, map[string]interface{}{"code": -32603, "message": "Failed to serialize result"}
	}

	return map[string]interface{}{
		"content": []interface{}{
			map[string]interface{}{"type": "text", "text": string(payload)},
		},
	}, nil
}
