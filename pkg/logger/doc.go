// Package logger builds the *slog.Logger shared by the engine, the example
// service and the storage adapters.
//
// New picks a text or JSON handler and wraps it in a ContextHandler. For
// every record logged with a context, the ContextHandler runs the registered
// ContextExtractor callbacks (request ID, environment) and appends what they
// return. Keys the record already carries are not added twice.
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "catalogd"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
// Environment profiles: development logs text at debug level, staging and
// production log JSON at info level. Each profile tags records with service
// and env.
//
// # Attributes
//
// attr.go holds constructors for the keys used across the module, so a
// field is spelled the same way everywhere:
//
//	log.DebugContext(ctx, "request error",
//		logger.Route(r.Method, r.URL.Path),
//		logger.Status(http.StatusUnprocessableEntity),
//		logger.Location("body.price"),
//		logger.Handler("create_item"),
//	)
//
// Error and Errors return an empty attribute for nil errors, which slog
// drops:
//
//	log.Info("notification written", logger.Error(err))
package logger
