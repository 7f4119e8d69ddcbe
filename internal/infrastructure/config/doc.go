// Package config provides 12-factor configuration management for the
// simple-nfs server.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables. There is no config file.
//
// Configuration Sections:
//   - Server: listener address and optional connection timeout
//   - Storage: exported root and path containment policy
//   - Protocol: diagnostics policy for failed listings
//   - Logging: Log level and output format
//   - RateLimit: accept loop rate limiting
//   - Admin: optional health/metrics HTTP endpoint
//
// Environment Variables:
//   - NFS_HOST, NFS_PORT, NFS_CONN_TIMEOUT
//   - NFS_ROOT, NFS_CONTAIN, NFS_EMBED_ERRORS
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_CPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - ADMIN_ADDR, ADMIN_ENABLED, ADMIN_CORS_ORIGINS, ADMIN_RATE_RPS, ADMIN_RATE_BURST
package config
