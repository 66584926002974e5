// Package requestid attaches a correlation ID to every request.
//
// The middleware reuses a client-supplied X-Request-ID when it is at most 128
// characters of [A-Za-z0-9_-], and otherwise generates a UUIDv4. The ID is
// stored in the request context, echoed in the response header, added to log
// records by LoggerExtractor, and logged with every error the handler engine
// routes.
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
//
//	// or with a custom header
//	r.Use(requestid.New(requestid.WithHeader("X-Correlation-ID")))
package requestid
