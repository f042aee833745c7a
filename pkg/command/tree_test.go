package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvsoft/service-kit/pkg/contract"
)

func testContract(t *testing.T, ops []contract.Operation) *contract.Contract {
	t.Helper()
	c, err := contract.New("test", "1.0.0", ops)
	require.NoError(t, err)
	return c
}

func TestBuildProducesOneLeafPerOperation(t *testing.T) {
	c := testContract(t, []contract.Operation{
		{ID: "hello_get", Method: "GET", Path: "/v1/hello"},
		{ID: "users_list", Method: "GET", Path: "/v1/users"},
		{ID: "users_create", Method: "POST", Path: "/v1/users"},
		{ID: "users_get", Method: "GET", Path: "/v1/users/{id}"},
		{ID: "users_update", Method: "PUT", Path: "/v1/users/{id}"},
	})

	tree, err := Build(c)
	require.NoError(t, err)

	names := tree.Names()
	assert.Len(t, names, c.Len())
	assert.Equal(t, []string{
		"v1.hello.get",
		"v1.users.get",
		"v1.users.id.get",
		"v1.users.id.put",
		"v1.users.post",
	}, names)
}

func TestResolveRoundTrip(t *testing.T) {
	c := testContract(t, []contract.Operation{
		{ID: "hello_get", Method: "GET", Path: "/v1/hello"},
		{ID: "users_get", Method: "GET", Path: "/v1/users/{id}"},
	})
	tree, err := Build(c)
	require.NoError(t, err)

	for _, want := range c.Operations() {
		got, err := tree.Resolve(LeafName(want))
		require.NoError(t, err)
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Path, got.Path)
		assert.Equal(t, want.Method, got.Method)
	}
}

func TestResolveUnknownCommand(t *testing.T) {
	c := testContract(t, []contract.Operation{
		{ID: "hello_get", Method: "GET", Path: "/v1/hello"},
	})
	tree, err := Build(c)
	require.NoError(t, err)

	_, err = tree.Resolve("v1.nonexistent.get")
	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "v1.nonexistent.get", resErr.Name)
}

func TestBuildCollisionNamesBothOperations(t *testing.T) {
	// Placeholders are rendered literally, so /v1/users/{id} and
	// /v1/users/id collapse to the same leaf name.
	c := testContract(t, []contract.Operation{
		{ID: "first", Method: "GET", Path: "/v1/users/{id}"},
		{ID: "second", Method: "GET", Path: "/v1/users/id"},
	})

	_, err := Build(c)
	var colErr *CollisionError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, "v1.users.id.get", colErr.Name)
	assert.Contains(t, colErr.Error(), "first")
	assert.Contains(t, colErr.Error(), "second")
}

func TestComplete(t *testing.T) {
	c := testContract(t, []contract.Operation{
		{ID: "hello_get", Method: "GET", Path: "/v1/hello", Summary: "Say hello"},
		{ID: "users_list", Method: "GET", Path: "/v1/users", Summary: "List users"},
		{ID: "users_get", Method: "GET", Path: "/v1/users/{id}", Summary: "Get one user"},
	})
	tree, err := Build(c)
	require.NoError(t, err)

	got := tree.Complete("v1.users")
	require.Len(t, got, 2)
	assert.Equal(t, "v1.users.get", got[0].Name)
	assert.Equal(t, "List users", got[0].Description)
	assert.Equal(t, "v1.users.id.get", got[1].Name)

	assert.Len(t, tree.Complete("v1."), 3)
	assert.Empty(t, tree.Complete("v2."))
}

func TestCompleteFlags(t *testing.T) {
	c := testContract(t, []contract.Operation{
		{
			ID: "users_get", Method: "GET", Path: "/v1/users/{id}",
			Parameters: []contract.ParameterSpec{
				{Name: "id", In: contract.InPath, Type: "string", Required: true},
				{Name: "verbose", In: contract.InQuery, Type: "boolean", Description: "expand relations"},
			},
		},
	})
	tree, err := Build(c)
	require.NoError(t, err)

	got := tree.CompleteFlags("v1.users.id.get", "--")
	require.Len(t, got, 2)
	assert.Equal(t, "--id", got[0].Name)
	assert.Equal(t, "--verbose", got[1].Name)
	assert.Equal(t, "expand relations", got[1].Description)

	assert.Empty(t, tree.CompleteFlags("v1.unknown.get", "--"))
	assert.Len(t, tree.CompleteFlags("v1.users.id.get", "--v"), 1)
}
