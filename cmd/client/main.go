package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/GriffinCanCode/simple-nfs/internal/client"
	"github.com/GriffinCanCode/simple-nfs/internal/infrastructure/logging"
	"github.com/GriffinCanCode/simple-nfs/internal/protocol"
)

// Exit codes
const (
	exitOK      = 0
	exitError   = 1
	exitFailure = 2
)

const usage = `Request operations on remote file system.
Usage:
  nfsclient [flags] (list|create|delete) <spath>
  nfsclient [flags] upload <cpath> <spath>
Where
  spath  is the pathname to be used by the server (max. %d chars).
         To create a directory, *create* is specified and the path
         must end in a forward slash.
  cpath  refers to the file to be sent to the server when *upload*
         is specified.
Flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("nfsclient", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", net.JoinHostPort("127.0.0.1", strconv.Itoa(protocol.DefaultPort)), "Server address")
	timeout := fs.Duration("timeout", 0, "Request timeout (0 = none)")
	verbose := fs.Bool("v", false, "Log transport details to stderr")
	fs.Usage = func() {
		fmt.Fprintf(stderr, usage, protocol.MaxPathLen)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitError
	}

	cmd, local, remote, ok := parseArgs(fs.Args())
	if !ok {
		fs.Usage()
		return exitError
	}

	c := client.New(*addr).WithTimeout(*timeout)
	if *verbose {
		logger := logging.NewDevelopment()
		defer logger.Sync()
		c.WithLogger(logger.Logger)
	}

	ctx := context.Background()
	var (
		resp protocol.Response
		err  error
	)
	switch cmd {
	case protocol.List:
		resp, err = c.List(ctx, remote)
	case protocol.Create:
		resp, err = c.Create(ctx, remote)
	case protocol.Delete:
		resp, err = c.Delete(ctx, remote)
	case protocol.Upload:
		resp, err = c.Upload(ctx, local, remote)
	}
	if err != nil {
		fmt.Fprintf(stderr, "nfsclient: %s: %v\n", cmd, err)
		return exitError
	}

	return printResponse(stdout, cmd, resp)
}

func parseArgs(args []string) (cmd protocol.Command, local, remote string, ok bool) {
	if len(args) == 0 {
		return protocol.Invalid, "", "", false
	}
	cmd = protocol.ParseCommand(args[0])
	switch {
	case len(args) == 2 && (cmd == protocol.List || cmd == protocol.Create || cmd == protocol.Delete):
		return cmd, "", args[1], true
	case len(args) == 3 && cmd == protocol.Upload:
		return cmd, args[1], args[2], true
	}
	return cmd, "", "", false
}

func printResponse(w io.Writer, cmd protocol.Command, resp protocol.Response) int {
	if resp.Status != protocol.Success {
		fmt.Fprintln(w, "Response: FAILURE")
		if len(resp.Payload) > 0 {
			fmt.Fprintf(w, "%s\n", resp.Payload)
		}
		return exitFailure
	}
	if cmd == protocol.List {
		w.Write(resp.Payload)
		return exitOK
	}
	fmt.Fprintln(w, "Response: SUCCESS")
	return exitOK
}
