package demo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoRegistryContract(t *testing.T) {
	r := NewRegistry(nil)
	c, err := r.Contract()
	require.NoError(t, err)

	assert.Equal(t, 4, c.Len())
	ids := make([]string, 0, c.Len())
	for _, op := range c.Operations() {
		ids = append(ids, op.ID)
	}
	assert.Contains(t, ids, "v1_hello_get")
	assert.Contains(t, ids, "v1_users_id_get")
}

func TestDemoHello(t *testing.T) {
	r := NewRegistry(nil)

	out, err := r.Invoke(context.Background(), "v1_hello_get", map[string]any{"name": "ada"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"message": "hello, ada"}, out)

	out, err = r.Invoke(context.Background(), "v1_hello_get", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"message": "hello, world"}, out)
}

func TestDemoUsers(t *testing.T) {
	r := NewRegistry(nil)

	out, err := r.Invoke(context.Background(), "v1_users_get", map[string]any{"limit": int64(2)})
	require.NoError(t, err)
	listing, ok := out.(map[string]any)
	require.True(t, ok)
	assert.Len(t, listing["users"], 2)
	assert.Equal(t, 3, listing["total"])

	out, err = r.Invoke(context.Background(), "v1_users_id_get", map[string]any{"id": int64(2)})
	require.NoError(t, err)
	user, ok := out.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "grace", user["name"])

	_, err = r.Invoke(context.Background(), "v1_users_id_get", map[string]any{"id": int64(99)})
	assert.ErrorContains(t, err, "not found")
}
