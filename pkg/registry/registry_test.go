package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvsoft/service-kit/pkg/contract"
)

func helloDef() Definition {
	return Definition{
		ID:      "hello_get",
		Method:  "GET",
		Path:    "/v1/hello",
		Summary: "Say hello",
	}
}

func noopHandler(ctx context.Context, params map[string]any) (any, error) {
	return map[string]string{"message": "hello"}, nil
}

func TestRegisterAndInvoke(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(helloDef(), noopHandler))
	reg.Freeze()

	got, err := reg.Invoke(context.Background(), "hello_get", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"message": "hello"}, got)
}

func TestDuplicateRegistrationFails(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(helloDef(), noopHandler))

	err := reg.Register(helloDef(), noopHandler)
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "hello_get", dup.ID)
}

func TestRegisterAfterFreezeFails(t *testing.T) {
	reg := New()
	reg.Freeze()
	assert.Error(t, reg.Register(helloDef(), noopHandler))
}

func TestInvokeMissIsConsistencyFault(t *testing.T) {
	reg := New()
	reg.Freeze()

	_, err := reg.Invoke(context.Background(), "ghost_get", nil)
	var fault *ConsistencyFault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, "ghost_get", fault.ID)
}

func TestContractFromDefinitions(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(helloDef(), noopHandler))
	require.NoError(t, reg.Register(Definition{
		ID:     "users_get",
		Method: "GET",
		Path:   "/v1/users/{id}",
		Parameters: []contract.ParameterSpec{
			{Name: "id", In: contract.InPath, Type: "string", Required: true},
		},
	}, noopHandler))
	reg.Freeze()

	c, err := reg.Contract("demo", "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	// An unregistered operation in the contract succeeds at startup; the
	// fault only surfaces at first dispatch (covered above).
	ops := c.Operations()
	assert.Equal(t, "hello_get", ops[0].ID)
	assert.Equal(t, "users_get", ops[1].ID)
}

func TestDefinitionWithoutIDRejected(t *testing.T) {
	reg := New()
	assert.Error(t, reg.Register(Definition{Method: "GET", Path: "/x"}, noopHandler))
	assert.Error(t, reg.Register(helloDef(), nil))
}
