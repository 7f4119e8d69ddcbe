// Package main is the entry point of the file server.
//
// The server exports one directory tree over a minimal TCP protocol and
// handles one connection at a time.
//
// Configuration:
//   - Environment variables (NFS_ROOT, NFS_PORT, LOG_LEVEL, ...)
//   - CLI flags (override env vars)
//
// Usage:
//
//	# Export /srv/share on the default port 7890
//	./nfsserver -root /srv/share
//
//	# Development logging plus the admin endpoint
//	./nfsserver -root . -dev -admin 127.0.0.1:9790
//
// Signals:
//   - SIGINT, SIGTERM: stop accepting and exit
package main
