package serve

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calque-dev/calque"
)

// newTestServer wires a server over string input and a capture buffer.
func newTestServer(t *testing.T, cfg Config, input string) (*Server, *bytes.Buffer) {
	t.Helper()
	o, err := calque.New()
	require.NoError(t, err)
	out := &bytes.Buffer{}
	return NewServer(o, cfg, strings.NewReader(input), out), out
}

// writeSource drops src into a temp file and returns its path.
func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestServer_ServesRequest(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, "lib.src", "module Lib\nlet x = 1\n")
	output := filepath.Join(dir, "lib.report")

	srv, out := newTestServer(t, DefaultConfig(), input+"\n"+output+"\nend\n")
	require.NoError(t, srv.Run(context.Background()))

	assert.Equal(t, "OK\n", out.String())

	o, err := calque.New()
	require.NoError(t, err)
	res, err := o.OutlineFile(input)
	require.NoError(t, err)

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, res.ReportString(), string(got))
}

func TestServer_UnreadableInputFails(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.report")
	missing := filepath.Join(dir, "missing.src")

	srv, out := newTestServer(t, DefaultConfig(), missing+"\n"+output+"\nend\n")
	require.NoError(t, srv.Run(context.Background()))

	assert.Equal(t, "KO\n", out.String())
	assert.NoFileExists(t, output)
}

func TestServer_NoStructureFails(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, "loose.src", "let x = 1\n")
	output := filepath.Join(dir, "loose.report")

	srv, out := newTestServer(t, DefaultConfig(), input+"\n"+output+"\nend\n")
	require.NoError(t, srv.Run(context.Background()))

	assert.Equal(t, "KO\n", out.String())
	assert.NoFileExists(t, output, "failed requests write no report")
}

func TestServer_LoopContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "good.src", "module Good\n")
	goodOut := filepath.Join(dir, "good.report")
	badOut := filepath.Join(dir, "bad.report")
	missing := filepath.Join(dir, "missing.src")

	stream := missing + "\n" + badOut + "\n" + good + "\n" + goodOut + "\nend\n"
	srv, out := newTestServer(t, DefaultConfig(), stream)
	require.NoError(t, srv.Run(context.Background()))

	assert.Equal(t, "KO\nOK\n", out.String())
	assert.NoFileExists(t, badOut)
	assert.FileExists(t, goodOut)
}

func TestServer_TerminatorEndsWithoutResponse(t *testing.T) {
	srv, out := newTestServer(t, DefaultConfig(), "end\n")
	require.NoError(t, srv.Run(context.Background()))
	assert.Zero(t, out.Len())
}

func TestServer_EOFOnFirstLineIsSilent(t *testing.T) {
	srv, out := newTestServer(t, DefaultConfig(), "")
	require.NoError(t, srv.Run(context.Background()))
	assert.Zero(t, out.Len())
}

func TestServer_EOFOnSecondLineFails(t *testing.T) {
	srv, out := newTestServer(t, DefaultConfig(), "/some/input.src\n")
	require.NoError(t, srv.Run(context.Background()))
	assert.Equal(t, "KO\n", out.String())
}

func TestServer_CustomTokens(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, "m.src", "module M\n")
	output := filepath.Join(dir, "m.report")

	cfg := Config{SuccessToken: "yes", FailureToken: "no", Terminator: "quit"}
	stream := input + "\n" + output + "\n" + filepath.Join(dir, "nope") + "\n" + output + "\nquit\n"
	srv, out := newTestServer(t, cfg, stream)
	require.NoError(t, srv.Run(context.Background()))

	assert.Equal(t, "yes\nno\n", out.String())
}

func TestServer_ReadyFile(t *testing.T) {
	dir := t.TempDir()
	ready := filepath.Join(dir, "ready.flag")

	cfg := DefaultConfig()
	cfg.ReadyFile = ready
	srv, _ := newTestServer(t, cfg, "end\n")
	require.NoError(t, srv.Run(context.Background()))

	got, err := os.ReadFile(ready)
	require.NoError(t, err)
	assert.Equal(t, "READY\n", string(got))
}

func TestServer_ContextCancelled(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, "m.src", "module M\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	srv, out := newTestServer(t, DefaultConfig(), input+"\n"+filepath.Join(dir, "m.report")+"\nend\n")
	err := srv.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, out.Len(), "no request is started after cancellation")
}
