// Package server provides HTTP routing, middleware, and the media endpoint for the podcast player.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally; routes are registered with method-qualified
// patterns, so GET routes also answer HEAD.
//
// # Media Endpoint
//
// [MediaHandler] serves GET /audio/{name...}. It resolves the name through a [Library], parses the Range header
// with the media package and picks one of three responses:
//
//   - no Range header: 200 with the whole file, with ETag and Last-Modified conditional support
//   - a satisfiable range: 206 with Content-Range, Content-Length and Accept-Ranges, body streamed in chunks
//   - anything else: 416 with an empty body
//
// Names that do not resolve to a regular file inside the library are answered with 404.
//
// Once a 206 response has been committed, a failed or short read cannot change the status any more; the
// stream simply ends early and the condition is logged.
//
// # Middleware
//
//   - [RequestID] tags every request with an X-Request-Id
//   - [Logging] writes one structured log line per request
//   - [Recover] turns panics into 500 responses
//   - [RateLimit] throttles selected methods with a token bucket
//
// # Lifecycle
//
// [Server] wraps [http.Server] and shuts it down gracefully when its context is cancelled.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
