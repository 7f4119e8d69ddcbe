// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Every served connection gets a child logger carrying its connection ID and
// remote address, so all lines of one request/response cycle can be grepped
// together.
//
// Example Usage:
//
//	logger, err := logging.New(logging.DefaultConfig())
//	logger.Info("Server listening", zap.String("addr", ":7890"))
//	connLog := logger.ForConnection("conn_01H...", conn.RemoteAddr())
//	connLog.Error("Read failed", zap.Error(err))
package logging
