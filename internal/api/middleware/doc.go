// Package middleware provides the gin middleware of the admin endpoint:
// CORS for browser dashboards, per-IP rate limiting and access logging.
package middleware
