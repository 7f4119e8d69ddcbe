package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

const (
	// FrameSize is the capacity of one request or response frame.
	FrameSize = 512

	// MaxPathLen is the longest path that fits in a request frame next to
	// the command tag and the NUL terminator.
	MaxPathLen = FrameSize - 2

	// MaxPayload bounds the bytes following the status byte of a response.
	MaxPayload = FrameSize - 1

	// DefaultPort is the TCP port the server listens on unless configured.
	DefaultPort = 7890
)

var (
	ErrShortFrame       = errors.New("empty request frame")
	ErrInvalidCommand   = errors.New("invalid command")
	ErrUnterminatedPath = errors.New("path is not NUL terminated within the frame")
	ErrEmptyPath        = errors.New("empty path")
	ErrPathTooLong      = errors.New("path exceeds frame capacity")
	ErrPathHasNUL       = errors.New("path contains NUL")
	ErrPayloadTooLarge  = errors.New("response payload exceeds frame capacity")
)

// Request is a decoded request frame.
type Request struct {
	Command Command
	Path    string
}

// DecodeRequest parses a request frame. It returns the request and the number
// of frame bytes it consumed, so that any bytes following the terminator
// (the start of an upload) can be handed on.
func DecodeRequest(frame []byte) (Request, int, error) {
	var req Request
	if len(frame) == 0 {
		return req, 0, ErrShortFrame
	}
	req.Command = Command(frame[0])
	if !req.Command.Valid() {
		req.Command = Invalid
		return req, 0, fmt.Errorf("%w: tag %d", ErrInvalidCommand, frame[0])
	}

	end := bytes.IndexByte(frame[1:], 0)
	if end < 0 {
		return req, 0, ErrUnterminatedPath
	}
	if end == 0 {
		return req, 0, ErrEmptyPath
	}
	req.Path = string(frame[1 : 1+end])
	return req, 1 + end + 1, nil
}

// EncodeRequest builds the frame for req.
func EncodeRequest(req Request) ([]byte, error) {
	if !req.Command.Valid() {
		return nil, ErrInvalidCommand
	}
	if req.Path == "" {
		return nil, ErrEmptyPath
	}
	if len(req.Path) > MaxPathLen {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrPathTooLong, len(req.Path), MaxPathLen)
	}
	if bytes.IndexByte([]byte(req.Path), 0) >= 0 {
		return nil, ErrPathHasNUL
	}

	frame := make([]byte, 0, len(req.Path)+2)
	frame = append(frame, byte(req.Command))
	frame = append(frame, req.Path...)
	frame = append(frame, 0)
	return frame, nil
}

// ReadFrame reads one request frame from r into buf. It stops as soon as the
// path terminator has arrived, buf is full, or r reports EOF, and returns the
// number of bytes read. Bytes past the terminator may be present when the
// client pipelines upload data behind the request.
func ReadFrame(r io.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if n > 1 && bytes.IndexByte(buf[1:n], 0) >= 0 {
			return n, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) && n > 0 {
				return n, nil
			}
			return n, err
		}
	}
	return n, nil
}

// Response is the server's answer to a single request.
type Response struct {
	Status  Status
	Payload []byte
}

// OK returns a successful response carrying payload.
func OK(payload []byte) Response {
	return Response{Status: Success, Payload: payload}
}

// Failed returns a failure response carrying an optional diagnostic payload.
func Failed(payload []byte) Response {
	return Response{Status: Failure, Payload: payload}
}

// Encode returns the wire form of the response.
func (r Response) Encode() ([]byte, error) {
	if len(r.Payload) > MaxPayload {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(r.Payload))
	}
	out := make([]byte, 1+len(r.Payload))
	out[0] = byte(r.Status)
	copy(out[1:], r.Payload)
	return out, nil
}

// DecodeResponse splits a raw response into status and payload. Trailing NUL
// bytes in the payload are dropped.
func DecodeResponse(raw []byte) (Response, error) {
	if len(raw) == 0 {
		return Response{}, io.ErrUnexpectedEOF
	}
	status := Success
	if raw[0] != 0 {
		status = Failure
	}
	return Response{Status: status, Payload: bytes.TrimRight(raw[1:], "\x00")}, nil
}
