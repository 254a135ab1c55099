package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalBoard/internal/state"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "localboard", cmd.Name())
	assert.Contains(t, cmd.Long, "localboard://")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"host", "join", "render", "pdf"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)

	levelFlag := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, levelFlag)
	assert.Equal(t, "", levelFlag.DefValue)
}

func TestHostPortFlag(t *testing.T) {
	cmd := NewRootCommand()
	host, _, err := cmd.Find([]string{"host"})
	require.NoError(t, err)

	port := host.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "8888", port.DefValue)
	assert.Equal(t, "p", port.Shorthand)
}

func writeBoard(t *testing.T) string {
	t.Helper()
	r := state.NewObject(state.KindRect)
	r.ID, r.Order = "abc1", 1
	r.Left, r.Top, r.Width, r.Height = 10, 10, 40, 30
	r.Stroke, r.StrokeWidth, r.Fill = "#5d9cec", 2.5, "transparent"

	path := filepath.Join(t.TempDir(), "board.json")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, state.WriteRecords(f, []state.Record{r.ToRecord()}))
	require.NoError(t, f.Close())
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetErr(&stderr)
	cmd.SetOut(&stderr)
	err := cmd.Execute()
	return stderr.String(), err
}

func TestRenderWritesPNG(t *testing.T) {
	board := writeBoard(t)
	out := filepath.Join(t.TempDir(), "board.png")

	logs, err := run(t, "render", board, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, logs, "board exported")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), data[:4])
}

func TestPDFWritesPDF(t *testing.T) {
	board := writeBoard(t)
	out := filepath.Join(t.TempDir(), "board.pdf")

	_, err := run(t, "pdf", board, "-o", out, "--log-level", "error")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(data[:5]))
}

func TestRenderMissingBoard(t *testing.T) {
	_, err := run(t, "render", filepath.Join(t.TempDir(), "none.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRenderRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := run(t, "render", path, "-o", filepath.Join(t.TempDir(), "x.png"))
	assert.ErrorContains(t, err, "decoding records")
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run(t, "render", "x.json", "--log-level", "loud")
	assert.ErrorContains(t, err, `invalid log level "loud"`)
}

func TestResolve(t *testing.T) {
	addr, err := resolve("localboard://10.0.0.2:8888", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2:8888", addr)

	_, err = resolve("", 0, nil)
	assert.ErrorContains(t, err, "no link given")
}
