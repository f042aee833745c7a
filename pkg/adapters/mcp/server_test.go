package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvsoft/service-kit/pkg/contract"
	"github.com/lvsoft/service-kit/pkg/registry"
)

func TestToolForOperationSchema(t *testing.T) {
	op := contract.Operation{
		ID: "users_get", Method: "GET", Path: "/v1/users/{id}",
		Summary: "Get one user",
		Parameters: []contract.ParameterSpec{
			{Name: "id", In: contract.InPath, Type: "string", Required: true, Description: "user identifier"},
			{Name: "limit", In: contract.InQuery, Type: "integer"},
			{Name: "verbose", In: contract.InQuery, Type: "boolean"},
		},
	}

	tool := toolForOperation(op)
	assert.Equal(t, "users_get", tool.Name)
	assert.Contains(t, tool.Description, "Get one user")
	assert.Contains(t, tool.Description, "GET /v1/users/{id}")

	require.Len(t, tool.InputSchema.Properties, 3)
	id, ok := tool.InputSchema.Properties["id"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", id["type"])
	assert.Equal(t, "user identifier", id["description"])

	limit, ok := tool.InputSchema.Properties["limit"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "number", limit["type"])

	verbose, ok := tool.InputSchema.Properties["verbose"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "boolean", verbose["type"])

	assert.Equal(t, []string{"id"}, tool.InputSchema.Required)
}

func callTool(t *testing.T, s *Server, op contract.Operation, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	handler := s.handlerFor(op)
	req := mcp.CallToolRequest{}
	req.Params.Name = op.ID
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	return res
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok)
	return text.Text
}

func TestToolCallRoutesThroughRegistry(t *testing.T) {
	reg := registry.New()
	def := registry.Definition{ID: "hello_get", Method: "GET", Path: "/v1/hello"}
	require.NoError(t, reg.Register(def, func(ctx context.Context, params map[string]any) (any, error) {
		return map[string]string{"message": "hello"}, nil
	}))
	reg.Freeze()

	c, err := reg.Contract("demo", "1.0.0")
	require.NoError(t, err)
	s := NewServer(c, reg, "1.0.0")

	res := callTool(t, s, c.Operations()[0], nil)
	assert.False(t, res.IsError)
	assert.JSONEq(t, `{"message":"hello"}`, textOf(t, res))
}

func TestToolCallRegistryMissIsInternalError(t *testing.T) {
	reg := registry.New()
	reg.Freeze()

	ghost := contract.Operation{ID: "ghost_get", Method: "GET", Path: "/v1/ghost"}
	c, err := contract.New("demo", "1.0.0", []contract.Operation{ghost})
	require.NoError(t, err)

	s := NewServer(c, reg, "1.0.0")
	res := callTool(t, s, ghost, nil)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "internal")
	assert.Contains(t, textOf(t, res), "ghost_get")
}

func TestProjectionsShareOneSnapshot(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register(registry.Definition{
		ID: "users_get", Method: "GET", Path: "/v1/users/{id}",
		Parameters: []contract.ParameterSpec{
			{Name: "id", In: contract.InPath, Type: "string", Required: true},
		},
	}, func(ctx context.Context, params map[string]any) (any, error) { return params, nil }))
	reg.Freeze()

	c, err := reg.Contract("demo", "1.0.0")
	require.NoError(t, err)

	// One tool per contract operation, keyed by the same identifier the
	// REST router dispatches on.
	for _, op := range c.Operations() {
		tool := toolForOperation(op)
		assert.Equal(t, op.ID, tool.Name)
	}
}
