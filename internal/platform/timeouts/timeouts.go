// Package timeouts defines shared timeout constants used across services.
package timeouts

import "time"

// HealthProbe caps the wait of a command-line health probe.
const HealthProbe = 2 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Generate caps the time allowed to build one document batch for a web
// request.
const Generate = 30 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second
