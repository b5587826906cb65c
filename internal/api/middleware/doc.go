// Package middleware provides the HTTP middleware stack for the dashboard API.
//
//   - CORS: cross-origin access for the dashboard frontend, exposing the
//     trace headers and Content-Disposition for config downloads
//   - RateLimit: per-IP token bucket with lazy cleanup of idle clients
//   - GlobalRateLimit: one bucket for the whole server
//   - RequestLogger: structured zap request logging tagged with the trace
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.Server.AllowedOrigins...)))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
