package mcp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"todoistmcp/internal/domain"
)

// runSession feeds newline-framed requests through a transport backed by
// fakes and returns the decoded responses in order.
func runSession(t *testing.T, tasks *fakeTaskService, projects *fakeProjectService, lines ...string) []jsonrpcResponse {
	t.Helper()

	server := newTestServer(tasks, projects)
	input := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var output bytes.Buffer

	transport := newTransport(input, &output, server, zap.NewNop(), "test")
	require.NoError(t, transport.Start())

	var responses []jsonrpcResponse
	scanner := bufio.NewScanner(&output)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		var resp jsonrpcResponse
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
		responses = append(responses, resp)
	}
	require.NoError(t, scanner.Err())
	return responses
}

func toolCallLine(t *testing.T, id int, name string, args map[string]interface{}) string {
	t.Helper()
	params := map[string]interface{}{"name": name}
	if args != nil {
		params["arguments"] = args
	}
	req := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  "tools/call",
		"params":  params,
	}
	data, err := json.Marshal(req)
	require.NoError(t, err)
	return string(data)
}

// resultMap re-decodes a response result into a generic map.
func resultMap(t *testing.T, resp jsonrpcResponse) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func toolText(t *testing.T, resp jsonrpcResponse) (string, bool) {
	t.Helper()
	m := resultMap(t, resp)
	content, ok := m["content"].([]interface{})
	require.True(t, ok)
	require.Len(t, content, 1)
	entry, ok := content[0].(map[string]interface{})
	require.True(t, ok)
	isError, _ := m["isError"].(bool)
	return entry["text"].(string), isError
}

func TestTransport_Initialize(t *testing.T) {
	responses := runSession(t, &fakeTaskService{}, &fakeProjectService{},
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05"}}`,
	)
	require.Len(t, responses, 1)
	require.Nil(t, responses[0].Error)

	m := resultMap(t, responses[0])
	assert.Equal(t, "2024-11-05", m["protocolVersion"])

	info, ok := m["serverInfo"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "todoist-mcp", info["name"])
	assert.Equal(t, "test", info["version"])
}

func TestTransport_ToolsListExposesAllCommands(t *testing.T) {
	responses := runSession(t, &fakeTaskService{}, &fakeProjectService{},
		`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`,
	)
	require.Len(t, responses, 1)
	require.Nil(t, responses[0].Error)

	m := resultMap(t, responses[0])
	tools, ok := m["tools"].([]interface{})
	require.True(t, ok)
	assert.Len(t, tools, 10)

	first, ok := tools[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "todoist_create_task", first["name"])
	schema, ok := first["inputSchema"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "object", schema["type"])
}

func TestTransport_ToolCallCreateTask(t *testing.T) {
	tasks := &fakeTaskService{}
	responses := runSession(t, tasks, &fakeProjectService{},
		toolCallLine(t, 1, "todoist_create_task", map[string]interface{}{"content": "Buy milk"}),
	)
	require.Len(t, responses, 1)
	require.Nil(t, responses[0].Error)

	text, isError := toolText(t, responses[0])
	assert.False(t, isError)
	assert.Equal(t, "Task created:\nTitle: Buy milk", text)
	require.Len(t, tasks.created, 1)
}

func TestTransport_ToolCallUnknownCommandThenValid(t *testing.T) {
	tasks := &fakeTaskService{tasks: []domain.Task{{ID: "1", Content: "Buy milk"}}}
	responses := runSession(t, tasks, &fakeProjectService{},
		toolCallLine(t, 1, "todoist_frobnicate", map[string]interface{}{}),
		toolCallLine(t, 2, "todoist_list_tasks", nil),
	)
	require.Len(t, responses, 2)

	// Unknown command is an error-flagged tool result, not a protocol error,
	// and the channel keeps serving.
	require.Nil(t, responses[0].Error)
	text, isError := toolText(t, responses[0])
	assert.True(t, isError)
	assert.Contains(t, text, "todoist_frobnicate")

	require.Nil(t, responses[1].Error)
	text, isError = toolText(t, responses[1])
	assert.False(t, isError)
	assert.Contains(t, text, "Buy milk")
}

func TestTransport_ParseError(t *testing.T) {
	responses := runSession(t, &fakeTaskService{}, &fakeProjectService{},
		`this is not json`,
	)
	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, codeParseError, responses[0].Error.Code)
}

func TestTransport_RejectsWrongJSONRPCVersion(t *testing.T) {
	responses := runSession(t, &fakeTaskService{}, &fakeProjectService{},
		`{"jsonrpc":"1.0","id":1,"method":"tools/list"}`,
	)
	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, codeInvalidRequest, responses[0].Error.Code)
}

func TestTransport_UnknownMethod(t *testing.T) {
	responses := runSession(t, &fakeTaskService{}, &fakeProjectService{},
		`{"jsonrpc":"2.0","id":1,"method":"resources/list"}`,
	)
	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, codeMethodNotFound, responses[0].Error.Code)
}

func TestTransport_InitializedNotificationHasNoReply(t *testing.T) {
	responses := runSession(t, &fakeTaskService{}, &fakeProjectService{},
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":7,"method":"ping"}`,
	)
	require.Len(t, responses, 1)
	require.Nil(t, responses[0].Error)
}

func TestTransport_SkipsBlankLines(t *testing.T) {
	responses := runSession(t, &fakeTaskService{}, &fakeProjectService{},
		``,
		`{"jsonrpc":"2.0","id":1,"method":"ping"}`,
	)
	require.Len(t, responses, 1)
	require.Nil(t, responses[0].Error)
}
