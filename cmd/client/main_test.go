package main

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/simple-nfs/internal/infrastructure/config"
	"github.com/GriffinCanCode/simple-nfs/internal/protocol"
	"github.com/GriffinCanCode/simple-nfs/internal/providers/filesystem"
	"github.com/GriffinCanCode/simple-nfs/internal/server"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		cmd    protocol.Command
		local  string
		remote string
		ok     bool
	}{
		{name: "list", args: []string{"list", "/"}, cmd: protocol.List, remote: "/", ok: true},
		{name: "create", args: []string{"create", "/d/"}, cmd: protocol.Create, remote: "/d/", ok: true},
		{name: "delete", args: []string{"delete", "/x"}, cmd: protocol.Delete, remote: "/x", ok: true},
		{name: "upload", args: []string{"upload", "a.txt", "/a.txt"}, cmd: protocol.Upload, local: "a.txt", remote: "/a.txt", ok: true},
		{name: "no args", args: nil, cmd: protocol.Invalid},
		{name: "unknown command", args: []string{"move", "/a"}, cmd: protocol.Invalid},
		{name: "upload missing path", args: []string{"upload", "a.txt"}, cmd: protocol.Upload},
		{name: "list extra arg", args: []string{"list", "/", "/b"}, cmd: protocol.List},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, local, remote, ok := parseArgs(tt.args)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.cmd, cmd)
			assert.Equal(t, tt.local, local)
			assert.Equal(t, tt.remote, remote)
		})
	}
}

func TestPrintResponse(t *testing.T) {
	var out bytes.Buffer

	assert.Equal(t, exitOK, printResponse(&out, protocol.List, protocol.OK([]byte("a\nb\n"))))
	assert.Equal(t, "a\nb\n", out.String())

	out.Reset()
	assert.Equal(t, exitOK, printResponse(&out, protocol.Create, protocol.OK(nil)))
	assert.Equal(t, "Response: SUCCESS\n", out.String())

	out.Reset()
	assert.Equal(t, exitFailure, printResponse(&out, protocol.Delete, protocol.Failed(nil)))
	assert.Equal(t, "Response: FAILURE\n", out.String())
}

func TestUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, exitError, run([]string{"upload", "only-one"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "nfsclient upload <cpath> <spath>")
	assert.Empty(t, stdout.String())
}

func TestRunAgainstServer(t *testing.T) {
	root := t.TempDir()
	resolver, err := filesystem.NewResolver(root, true)
	require.NoError(t, err)
	srv := server.New(config.Default(), resolver, nil, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()
	defer func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	}()

	addr := "-addr=" + ln.Addr().String()
	local := filepath.Join(t.TempDir(), "hello.txt")
	require.NoError(t, os.WriteFile(local, []byte("hello"), 0o600))

	steps := []struct {
		args []string
		code int
		out  string
	}{
		{args: []string{addr, "create", "/docs/"}, code: exitOK, out: "Response: SUCCESS\n"},
		{args: []string{addr, "upload", local, "/docs/hello.txt"}, code: exitOK, out: "Response: SUCCESS\n"},
		{args: []string{addr, "list", "/docs"}, code: exitOK, out: "hello.txt\n"},
		{args: []string{addr, "upload", root, "/dir"}, code: exitError, out: ""},
		{args: []string{addr, "delete", "/docs"}, code: exitOK, out: "Response: SUCCESS\n"},
		{args: []string{addr, "delete", "/docs"}, code: exitFailure, out: "Response: FAILURE\n"},
	}

	for _, step := range steps {
		var stdout, stderr bytes.Buffer
		code := run(step.args, &stdout, &stderr)
		assert.Equal(t, step.code, code, "%v: %s", step.args, stderr.String())
		assert.Equal(t, step.out, stdout.String(), "%v", step.args)
	}

	got, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, got)
}
