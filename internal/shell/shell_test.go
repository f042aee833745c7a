package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvsoft/service-kit/pkg/command"
	"github.com/lvsoft/service-kit/pkg/contract"
)

func testTree(t *testing.T) *command.Tree {
	t.Helper()
	c, err := contract.New("test", "1.0", []contract.Operation{
		{ID: "hello", Method: "GET", Path: "/v1/hello", Summary: "Say hello"},
		{ID: "users", Method: "GET", Path: "/v1/users", Summary: "List users"},
	})
	require.NoError(t, err)
	tree, err := command.Build(c)
	require.NoError(t, err)
	return tree
}

// runScript feeds raw input bytes through a full session and returns
// everything written to the terminal.
func runScript(t *testing.T, cfg Config, input string) string {
	t.Helper()
	var out bytes.Buffer
	cfg.In = strings.NewReader(input)
	cfg.Out = &out

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, New(cfg).Run(ctx))
	return out.String()
}

func TestShellExitCommand(t *testing.T) {
	out := runScript(t, Config{Tree: testTree(t)}, "exit\r")
	assert.Contains(t, out, Prompt)
}

func TestShellQuitsOnEOF(t *testing.T) {
	// No explicit exit: the closing stream reads as ctrl-d on an empty line.
	out := runScript(t, Config{Tree: testTree(t)}, "")
	assert.Contains(t, out, Prompt)
}

func TestShellHelpListsCommands(t *testing.T) {
	out := runScript(t, Config{Tree: testTree(t)}, "help\rexit\r")
	assert.Contains(t, out, "v1.hello.get")
	assert.Contains(t, out, "v1.users.get")
}

func TestShellUnknownCommandKeepsSessionAlive(t *testing.T) {
	out := runScript(t, Config{Tree: testTree(t)}, "v1.nonexistent.get\rhelp\rexit\r")
	assert.Contains(t, out, `unknown command "v1.nonexistent.get"`)
	// The session survived the error; the next command still ran.
	assert.Contains(t, out, "v1.hello.get")
}

func TestShellNoServiceConnected(t *testing.T) {
	out := runScript(t, Config{}, "anything\rexit\r")
	assert.Contains(t, out, "no service connected")
}

func TestShellHistoryPersistedOnExit(t *testing.T) {
	store := &memStore{}
	runScript(t, Config{Tree: testTree(t), Store: store}, "v1.hello.get\rexit\r")

	require.Len(t, store.saved, 2, "every submitted line is recorded, built-ins included")
	assert.Equal(t, []string{"v1.hello.get", "exit"}, store.saved)
}

type memStore struct {
	saved []string
}

func (s *memStore) Load(ctx context.Context) ([]string, error) { return s.saved, nil }
func (s *memStore) Save(ctx context.Context, lines []string) error {
	s.saved = append([]string(nil), lines...)
	return nil
}
func (s *memStore) Close() error { return nil }
