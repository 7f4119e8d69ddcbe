package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/simple-nfs/internal/protocol"
)

var (
	ErrNotRegular = errors.New("not a regular file")
	ErrNoResponse = errors.New("server closed the connection without a response")
)

// Client issues single requests against a file server. Every call opens its
// own connection, as the protocol carries exactly one request per connection.
type Client struct {
	addr    string
	timeout time.Duration
	logger  *zap.Logger
	dialer  net.Dialer
}

// New creates a client for the server at addr (host:port).
func New(addr string) *Client {
	return &Client{
		addr:   addr,
		logger: zap.NewNop(),
	}
}

// WithTimeout bounds each request, connect to response, by d. Zero means no
// limit beyond the caller's context.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.timeout = d
	return c
}

// WithLogger sets the logger used for transport diagnostics.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Addr returns the server address.
func (c *Client) Addr() string {
	return c.addr
}

// List asks for the entries of a remote directory. On success the payload
// holds one "name\n" line per entry.
func (c *Client) List(ctx context.Context, path string) (protocol.Response, error) {
	return c.Do(ctx, protocol.Request{Command: protocol.List, Path: path}, nil)
}

// Create creates a remote file, or a directory when path ends in "/".
func (c *Client) Create(ctx context.Context, path string) (protocol.Response, error) {
	return c.Do(ctx, protocol.Request{Command: protocol.Create, Path: path}, nil)
}

// Delete removes a remote file or directory tree.
func (c *Client) Delete(ctx context.Context, path string) (protocol.Response, error) {
	return c.Do(ctx, protocol.Request{Command: protocol.Delete, Path: path}, nil)
}

// Upload sends the local regular file at local to the remote path.
func (c *Client) Upload(ctx context.Context, local, remote string) (protocol.Response, error) {
	fi, err := os.Stat(local)
	if err != nil {
		return protocol.Response{}, err
	}
	if !fi.Mode().IsRegular() {
		return protocol.Response{}, fmt.Errorf("%s: %w", local, ErrNotRegular)
	}

	f, err := os.Open(local)
	if err != nil {
		return protocol.Response{}, err
	}
	defer f.Close()

	return c.UploadFrom(ctx, f, remote)
}

// UploadFrom streams r to the remote path.
func (c *Client) UploadFrom(ctx context.Context, r io.Reader, remote string) (protocol.Response, error) {
	return c.Do(ctx, protocol.Request{Command: protocol.Upload, Path: remote}, r)
}

// Do sends req, followed by body if it is not nil, and waits for the
// response. The write side is half-closed after the body so the server sees
// the end of an upload. A FAILURE status is not an error; errors are
// reserved for local and transport problems.
func (c *Client) Do(ctx context.Context, req protocol.Request, body io.Reader) (protocol.Response, error) {
	frame, err := protocol.EncodeRequest(req)
	if err != nil {
		return protocol.Response{}, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	conn, err := c.dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return protocol.Response{}, fmt.Errorf("connect %s: %w", c.addr, err)
	}
	defer conn.Close()

	log := c.logger.With(
		zap.String("command", req.Command.String()),
		zap.String("path", req.Path),
	)

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			log.Debug("Set deadline failed", zap.Error(err))
		}
	}
	stop := context.AfterFunc(ctx, func() {
		if err := conn.SetDeadline(time.Unix(1, 0)); err != nil {
			log.Debug("Interrupt failed", zap.Error(err))
		}
	})
	defer stop()

	if _, err := conn.Write(frame); err != nil {
		return protocol.Response{}, fmt.Errorf("send request: %w", err)
	}

	var sendErr error
	if body != nil {
		n, err := copyChunks(conn, body)
		log.Debug("Upload data sent", zap.Int64("bytes", n), zap.Error(err))
		if err != nil {
			sendErr = fmt.Errorf("send data: %w", err)
		}
	}
	if cw, ok := conn.(interface{ CloseWrite() error }); ok {
		if err := cw.CloseWrite(); err != nil && sendErr == nil {
			log.Debug("Half-close failed", zap.Error(err))
		}
	}

	resp, err := readResponse(conn)
	if err != nil {
		if sendErr != nil {
			return protocol.Response{}, sendErr
		}
		return protocol.Response{}, err
	}
	log.Debug("Response received", zap.Stringer("status", resp.Status))
	return resp, nil
}

// copyChunks writes body to w in frame sized chunks.
func copyChunks(w io.Writer, body io.Reader) (int64, error) {
	buf := make([]byte, protocol.FrameSize)
	var total int64
	for {
		n, rerr := body.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return total, err
			}
			total += int64(n)
		}
		if errors.Is(rerr, io.EOF) {
			return total, nil
		}
		if rerr != nil {
			return total, rerr
		}
	}
}

func readResponse(r io.Reader) (protocol.Response, error) {
	raw, err := io.ReadAll(io.LimitReader(r, protocol.FrameSize))
	if err != nil && len(raw) == 0 {
		return protocol.Response{}, fmt.Errorf("read response: %w", err)
	}
	if len(raw) == 0 {
		return protocol.Response{}, ErrNoResponse
	}
	return protocol.DecodeResponse(raw)
}
