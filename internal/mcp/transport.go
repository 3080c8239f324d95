package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// jsonrpcRequest is a JSON-RPC 2.0 request or notification.
type jsonrpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// jsonrpcResponse is a JSON-RPC 2.0 response.
type jsonrpcResponse struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      interface{}   `json:"id,omitempty"`
	Result  interface{}   `json:"result,omitempty"`
	Error   *jsonrpcError `json:"error,omitempty"`
}

// jsonrpcError is a JSON-RPC 2.0 error object.
type jsonrpcError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Standard JSON-RPC error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

const protocolVersion = "2024-11-05"

// Transport serves newline-framed JSON-RPC 2.0 over a pipe-like channel,
// normally stdio. Requests are handled one at a time, each run to
// completion before the next line is read.
type Transport struct {
	reader  *bufio.Reader
	writer  io.Writer
	server  *Server
	logger  *zap.Logger
	version string
}

// NewTransport creates a transport bound to stdin/stdout. All logging goes
// to stderr; stdout carries only protocol frames.
func NewTransport(server *Server, logger *zap.Logger, version string) *Transport {
	return newTransport(os.Stdin, os.Stdout, server, logger, version)
}

func newTransport(r io.Reader, w io.Writer, server *Server, logger *zap.Logger, version string) *Transport {
	return &Transport{
		reader:  bufio.NewReader(r),
		writer:  w,
		server:  server,
		logger:  logger,
		version: version,
	}
}

// Start runs the request loop until the client disconnects. A panic while
// handling one request is recovered and answered with an internal error;
// the loop keeps serving.
func (t *Transport) Start() error {
	for {
		line, err := t.reader.ReadBytes('\n')
		if len(line) == 0 && err != nil {
			if err == io.EOF {
				t.logger.Info("client disconnected")
				return nil
			}
			return fmt.Errorf("read request: %w", err)
		}

		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		response := t.handleLine(line)
		if response == nil {
			continue // notification, no reply
		}
		if sendErr := t.send(response); sendErr != nil {
			if strings.Contains(sendErr.Error(), "broken pipe") ||
				strings.Contains(sendErr.Error(), "connection reset") {
				t.logger.Info("client closed the response channel", zap.Error(sendErr))
				return nil
			}
			return sendErr
		}

		if err == io.EOF {
			t.logger.Info("client disconnected")
			return nil
		}
	}
}

// handleLine decodes and processes one framed request. It never panics
// outward: recovery converts a handler panic into an internal error reply.
func (t *Transport) handleLine(line []byte) (response *jsonrpcResponse) {
	var req jsonrpcRequest

	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("panic while handling request", zap.Any("panic", r))
			response = errorResponse(req.ID, codeInternalError, "internal server error", nil)
		}
	}()

	if err := json.Unmarshal(line, &req); err != nil {
		return errorResponse(nil, codeParseError, "parse error", err.Error())
	}
	if req.JSONRPC != "2.0" {
		return errorResponse(req.ID, codeInvalidRequest, "invalid request: JSON-RPC 2.0 required", nil)
	}

	switch req.Method {
	case "initialize":
		return t.handleInitialize(req)
	case "initialized", "notifications/initialized":
		return nil
	case "ping":
		return &jsonrpcResponse{JSONRPC: "2.0", ID: req.ID, Result: map[string]interface{}{}}
	case "tools/list":
		return t.handleToolsList(req)
	case "tools/call":
		return t.handleToolCall(req)
	case "shutdown":
		return &jsonrpcResponse{JSONRPC: "2.0", ID: req.ID}
	case "exit":
		t.logger.Info("exit requested")
		os.Exit(0)
		return nil
	default:
		return errorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method), nil)
	}
}

func (t *Transport) handleInitialize(req jsonrpcRequest) *jsonrpcResponse {
	return &jsonrpcResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{
					"listChanged": false,
				},
			},
			"serverInfo": map[string]interface{}{
				"name":    "todoist-mcp",
				"version": t.version,
			},
		},
	}
}

// handleToolsList renders every registered command descriptor as an MCP
// tool definition.
func (t *Transport) handleToolsList(req jsonrpcRequest) *jsonrpcResponse {
	descriptors := t.server.Commands()
	tools := make([]map[string]interface{}, 0, len(descriptors))
	for _, d := range descriptors {
		tools = append(tools, map[string]interface{}{
			"name":        d.Name,
			"description": d.Description,
			"inputSchema": d.InputSchema(),
		})
	}
	return &jsonrpcResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  map[string]interface{}{"tools": tools},
	}
}

// handleToolCall delegates to the dispatcher. Command-level failures travel
// inside the tool result as isError, not as protocol errors, so one bad
// invocation never poisons the channel.
func (t *Transport) handleToolCall(req jsonrpcRequest) *jsonrpcResponse {
	var params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments,omitempty"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "invalid params", err.Error())
	}

	result := t.server.Dispatch(context.Background(), params.Name, params.Arguments)

	body := map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": result.Text},
		},
	}
	if result.IsError {
		body["isError"] = true
	}
	return &jsonrpcResponse{JSONRPC: "2.0", ID: req.ID, Result: body}
}

func (t *Transport) send(response *jsonrpcResponse) error {
	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	if _, err := t.writer.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

func errorResponse(id interface{}, code int, message string, data interface{}) *jsonrpcResponse {
	return &jsonrpcResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &jsonrpcError{Code: code, Message: message, Data: data},
	}
}
