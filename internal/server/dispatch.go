package server

import (
	"bytes"
	"io"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/simple-nfs/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/simple-nfs/internal/protocol"
	"github.com/GriffinCanCode/simple-nfs/internal/providers/filesystem"
)

// dispatch decodes frame and runs the requested operation. Every error ends
// up as a Failure status; the cause is only logged. conn is read further
// only for Upload frames, malformed ones included, whose body is drained.
func (s *Server) dispatch(conn io.Reader, log *zap.Logger, frame []byte) protocol.Response {
	req, consumed, err := protocol.DecodeRequest(frame)
	timer := monitoring.NewTimer(s.metrics, req.Command.String())

	if err != nil {
		log.Warn("Malformed request", zap.Stringer("command", req.Command), zap.Error(err))
		if req.Command == protocol.Upload {
			s.drain(log, conn)
		}
		timer.Stop(protocol.Failure.String())
		return protocol.Failed(nil)
	}

	log = log.With(zap.Stringer("command", req.Command), zap.String("path", req.Path))
	log.Info("Request received")

	var resp protocol.Response
	switch req.Command {
	case protocol.List:
		resp = s.list(log, req.Path)
	case protocol.Create:
		resp = s.result(log, s.create(req.Path))
	case protocol.Upload:
		body := io.MultiReader(bytes.NewReader(frame[consumed:]), conn)
		resp = s.result(log, s.upload(log, req.Path, body))
	case protocol.Delete:
		resp = s.result(log, s.delete(req.Path))
	}

	elapsed := timer.Stop(resp.Status.String())
	log.Info("Request handled",
		zap.Stringer("status", resp.Status),
		zap.Duration("elapsed", elapsed),
	)
	return resp
}

func (s *Server) result(log *zap.Logger, err error) protocol.Response {
	if err != nil {
		log.Warn("Request failed", zap.Error(err))
		return protocol.Failed(nil)
	}
	return protocol.OK(nil)
}

func (s *Server) list(log *zap.Logger, path string) protocol.Response {
	dir, err := s.resolver.Resolve(path)
	if err == nil {
		var l filesystem.Listing
		l, err = filesystem.List(dir, protocol.MaxPayload)
		if err == nil {
			if l.Truncated {
				s.metrics.IncListingsTruncated()
				log.Warn("Listing truncated", zap.Int("entries", l.Entries))
			}
			return protocol.OK(l.Data)
		}
	}

	log.Warn("Request failed", zap.Error(err))
	if !s.cfg.Protocol.EmbedErrors {
		return protocol.Failed(nil)
	}
	msg := []byte(filesystem.Describe(err))
	if len(msg) > protocol.MaxPayload {
		msg = msg[:protocol.MaxPayload]
	}
	return protocol.Failed(msg)
}

func (s *Server) create(path string) error {
	target, err := s.resolver.ResolveTarget(path)
	if err != nil {
		return err
	}
	return filesystem.Create(target, filesystem.IsDirPath(path))
}

// upload streams body into path. When the upload fails, the rest of body is
// drained so the client gets to read the status instead of a reset.
func (s *Server) upload(log *zap.Logger, path string, body io.Reader) error {
	target, err := s.resolver.ResolveTarget(path)
	if err != nil {
		s.drain(log, body)
		return err
	}

	up, err := filesystem.Stream(target, body, make([]byte, protocol.FrameSize))
	s.metrics.RecordUpload(up.Written, up.MIME)
	log.Info("Upload stored",
		zap.Int64("bytes", up.Written),
		zap.String("mime", up.MIME),
		zap.Bool("complete", err == nil),
	)
	if err != nil {
		s.drain(log, body)
	}
	return err
}

func (s *Server) drain(log *zap.Logger, body io.Reader) {
	n, err := io.Copy(io.Discard, body)
	if n > 0 || err != nil {
		log.Debug("Discarded upload data", zap.Int64("bytes", n), zap.Error(err))
	}
}

func (s *Server) delete(path string) error {
	target, err := s.resolver.ResolveEntry(path)
	if err != nil {
		return err
	}
	return filesystem.Delete(target)
}
