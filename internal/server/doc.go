// Package server serves dealership listings as JSON over HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [BasicRouter] registers Go method patterns ("GET /api/{kind}") on an [http.ServeMux].
//
// [Middleware] is applied in registration order: the first added wraps all others.
// [RequestLogger] and [Recoverer] are the two the CLI installs.
//
// # Handlers
//
// [ListingHandler] exposes each [Collection] read-only:
//
//	GET /api             → {"collections": [...]}
//	GET /api/{kind}      → every entity of kind
//	GET /api/{kind}/{id} → one entity, 404 when missing
//
// [HealthHandler] reports liveness and the storage backend on GET /health.
package server
