// Package environment carries the deployment environment (development,
// staging, production) through configuration, request contexts and logs.
//
// Environment implements encoding.TextUnmarshaler, so a config struct can
// declare it directly:
//
//	type Config struct {
//		Env environment.Environment `env:"APP_ENV" envDefault:"development"`
//	}
//
// The catalog server picks its log format from it and stores it in every
// request with Middleware; LoggerExtractor then adds it to log records.
package environment
