package contract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSpec = `{
  "openapi": "3.0.3",
  "info": {"title": "demo", "version": "1.2.3"},
  "paths": {
    "/v1/hello": {
      "get": {
        "operationId": "hello_get",
        "summary": "Say hello",
        "responses": {"200": {"description": "greeting"}}
      }
    },
    "/v1/users/{id}": {
      "parameters": [
        {"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}
      ],
      "get": {
        "operationId": "users_get",
        "parameters": [
          {"name": "verbose", "in": "query", "schema": {"type": "boolean", "default": false}}
        ],
        "responses": {"200": {"description": "one user"}}
      },
      "put": {
        "operationId": "users_update",
        "requestBody": {
          "required": true,
          "content": {"application/json": {"schema": {"type": "object"}}}
        },
        "responses": {"200": {"description": "updated"}}
      }
    }
  }
}`

func TestLoad(t *testing.T) {
	c, err := Load([]byte(sampleSpec))
	require.NoError(t, err)

	assert.Equal(t, "demo", c.Title)
	assert.Equal(t, "1.2.3", c.Version)
	require.Equal(t, 3, c.Len())

	ops := c.Operations()
	byID := make(map[string]Operation, len(ops))
	for _, op := range ops {
		byID[op.ID] = op
	}

	hello := byID["hello_get"]
	assert.Equal(t, "GET", hello.Method)
	assert.Equal(t, "/v1/hello", hello.Path)
	assert.Equal(t, "Say hello", hello.Summary)
	assert.Equal(t, "greeting", hello.Response)

	get := byID["users_get"]
	require.Len(t, get.Parameters, 2)
	assert.Equal(t, InPath, get.Parameters[0].In)
	assert.True(t, get.Parameters[0].Required)
	assert.Equal(t, InQuery, get.Parameters[1].In)
	assert.Equal(t, "boolean", get.Parameters[1].Type)
	assert.Equal(t, "false", get.Parameters[1].Default)

	update := byID["users_update"]
	body, ok := update.BodyParam()
	require.True(t, ok)
	assert.True(t, body.Required)
	assert.Equal(t, InBody, body.In)
}

func TestLoadMalformedDocument(t *testing.T) {
	_, err := Load([]byte(`{"not": "openapi"`))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestNewRejectsDuplicatePathMethod(t *testing.T) {
	_, err := New("t", "1", []Operation{
		{ID: "a", Method: "GET", Path: "/v1/x"},
		{ID: "b", Method: "get", Path: "/v1/x"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate operation")
}

func TestNewDerivesMissingIDs(t *testing.T) {
	c, err := New("t", "1", []Operation{
		{Method: "GET", Path: "/v1/users/{id}"},
	})
	require.NoError(t, err)
	assert.Equal(t, "v1_users_id_get", c.Operations()[0].ID)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, SpecPath, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleSpec))
	}))
	defer srv.Close()

	c, err := Fetch(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
}

func TestFetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := Fetch(context.Background(), srv.URL, nil)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestDocumentRoundTrip(t *testing.T) {
	original, err := New("demo", "1.0.0", []Operation{
		{
			ID: "users_get", Method: "GET", Path: "/v1/users/{id}",
			Summary: "Get one user",
			Parameters: []ParameterSpec{
				{Name: "id", In: InPath, Type: "string", Required: true},
				{Name: "limit", In: InQuery, Type: "integer"},
			},
			Response: "one user",
		},
		{
			ID: "echo_post", Method: "POST", Path: "/v1/echo",
			Parameters: []ParameterSpec{
				{Name: "body", In: InBody, Type: "string", Required: true},
			},
		},
	})
	require.NoError(t, err)

	data, err := original.MarshalJSON()
	require.NoError(t, err)

	reloaded, err := Load(data)
	require.NoError(t, err)
	require.Equal(t, original.Len(), reloaded.Len())

	ops := reloaded.Operations()
	assert.Equal(t, "echo_post", ops[0].ID)
	_, hasBody := ops[0].BodyParam()
	assert.True(t, hasBody)

	assert.Equal(t, "users_get", ops[1].ID)
	require.Len(t, ops[1].Parameters, 2)
	assert.Equal(t, "integer", ops[1].Parameters[1].Type)
}
