// Package protocol implements the request/response framing spoken between
// the simple-nfs client and server.
//
// A request is a single frame of at most FrameSize bytes:
//
//	+-----+---------------------+-----+
//	| tag | path (UTF-8 / ASCII) | NUL |
//	+-----+---------------------+-----+
//
// The tag is one of List, Create, Upload or Delete. An Upload frame is
// followed by the raw file content, terminated by the client closing its
// send side of the connection.
//
// A response is one status byte (0 = success, anything else = failure).
// A successful List response carries the newline separated listing after
// the status byte, bounded so the whole response fits in one frame.
package protocol
