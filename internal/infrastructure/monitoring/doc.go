/*
Package monitoring provides Prometheus metrics for the file service.

# Overview

Metrics are registered on a caller supplied registry rather than the global
one, so several servers (or tests) can coexist in one process.

# Metrics

- nfs_requests_total{command,status}
- nfs_request_duration_seconds{command}
- nfs_upload_bytes_total
- nfs_uploads_total{mime}
- nfs_listings_truncated_total
- nfs_connections_total
- nfs_connection_errors_total{stage}
- nfs_accept_breaker_open
- nfs_uptime_seconds

# Usage

	metrics := monitoring.NewMetrics(prometheus.NewRegistry())

	timer := monitoring.NewTimer(metrics, "list")
	// ... handle request ...
	timer.Stop("success")

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
