// Package demo ships a small built-in service: a handful of operations
// registered against the dispatch engine so `forge serve`, `forge mcp` and
// the test suite have a real contract and real entry points to exercise.
package demo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lvsoft/service-kit/pkg/contract"
	"github.com/lvsoft/service-kit/pkg/registry"
)

// Title and Version identify the demo contract.
const (
	Title   = "forge demo service"
	Version = "0.1.0"
)

var users = []map[string]any{
	{"id": 1, "name": "ada", "email": "ada@example.com"},
	{"id": 2, "name": "grace", "email": "grace@example.com"},
	{"id": 3, "name": "edsger", "email": "edsger@example.com"},
}

// NewRegistry builds and freezes a registry with the demo operations.
func NewRegistry(logger *slog.Logger) *Registry {
	r := registry.New(registry.WithLogger(logger))

	r.MustRegister(registry.Definition{
		ID:      "v1_hello_get",
		Method:  "GET",
		Path:    "/v1/hello",
		Summary: "Greet the caller",
		Parameters: []contract.ParameterSpec{
			{Name: "name", In: contract.InQuery, Type: "string", Default: "world", Description: "who to greet"},
		},
		Response: "Greeting",
	}, hello)

	r.MustRegister(registry.Definition{
		ID:      "v1_echo_post",
		Method:  "POST",
		Path:    "/v1/echo",
		Summary: "Echo the request body back",
		Parameters: []contract.ParameterSpec{
			{Name: "body", In: contract.InBody, Type: "object", Description: "payload to echo"},
		},
		Response: "Echo",
	}, echo)

	r.MustRegister(registry.Definition{
		ID:      "v1_users_get",
		Method:  "GET",
		Path:    "/v1/users",
		Summary: "List users",
		Parameters: []contract.ParameterSpec{
			{Name: "limit", In: contract.InQuery, Type: "integer", Description: "maximum number of users returned"},
		},
		Response: "UserList",
	}, listUsers)

	r.MustRegister(registry.Definition{
		ID:      "v1_users_id_get",
		Method:  "GET",
		Path:    "/v1/users/{id}",
		Summary: "Fetch one user",
		Parameters: []contract.ParameterSpec{
			{Name: "id", In: contract.InPath, Type: "integer", Required: true, Description: "user identifier"},
		},
		Response: "User",
	}, getUser)

	r.Freeze()
	return &Registry{Registry: r}
}

// Registry wraps the frozen demo registry with its contract identity.
type Registry struct {
	*registry.Registry
}

// Contract assembles the demo contract.
func (r *Registry) Contract() (*contract.Contract, error) {
	return r.Registry.Contract(Title, Version)
}

func hello(_ context.Context, params map[string]any) (any, error) {
	name := "world"
	if v, ok := params["name"].(string); ok && v != "" {
		name = v
	}
	return map[string]any{"message": fmt.Sprintf("hello, %s", name)}, nil
}

func echo(_ context.Context, params map[string]any) (any, error) {
	return params, nil
}

func listUsers(_ context.Context, params map[string]any) (any, error) {
	limit := len(users)
	if v, ok := params["limit"]; ok {
		n, err := asInt(v)
		if err != nil {
			return nil, fmt.Errorf("limit: %w", err)
		}
		if n < 0 {
			return nil, fmt.Errorf("limit must not be negative, got %d", n)
		}
		if n < limit {
			limit = n
		}
	}
	return map[string]any{"users": users[:limit], "total": len(users)}, nil
}

func getUser(_ context.Context, params map[string]any) (any, error) {
	id, err := asInt(params["id"])
	if err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}
	for _, u := range users {
		if u["id"] == id {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %d not found", id)
}

// asInt accepts the numeric shapes the transports produce: int64 from typed
// parameter merging, float64 from decoded JSON.
func asInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", v)
	}
}
