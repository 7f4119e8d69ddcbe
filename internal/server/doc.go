// Package server implements the file service connection loop and command
// dispatch.
//
// The loop is strictly sequential: accept one connection, read one request
// frame, run the command, write one response, close, accept the next. The
// listener is capped at a single open connection so the guarantee holds even
// if a caller wraps Serve differently.
//
// Request handling:
//   - List: directory entries as "name\n" lines, truncated at the frame size
//   - Create: empty file, or directory when the path ends in "/"
//   - Upload: file body streamed until the client half-closes
//   - Delete: file, or directory tree removed best-effort
//
// Every failure collapses into the single FAILURE status byte on the wire.
// Causes are logged with the connection ID.
//
// Accept errors are counted and fed to a circuit breaker; when it opens the
// loop sleeps for the cool-down instead of spinning on a broken listener.
// Optional connection rate limiting and per-connection deadlines come from
// config. Without a deadline a stalled client blocks every other client.
//
// Example Usage:
//
//	resolver, err := filesystem.NewResolver(cfg.Storage.Root, cfg.Storage.Contain)
//	srv := server.New(cfg, resolver, logger, metrics)
//	if err := srv.ListenAndServe(ctx); err != nil {
//	    logger.Fatal("server failed", zap.Error(err))
//	}
package server
