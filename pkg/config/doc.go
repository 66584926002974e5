// Package config loads typed configuration from environment variables.
//
// Load parses a struct with github.com/caarlos0/env/v11 tags and caches the
// result per type, so packages can ask for their own config without passing
// it around. The default .env file is read once through
// github.com/joho/godotenv when it exists; LoadEnv reads explicit files with
// later files taking precedence.
//
// A config type may implement Validator to reject combinations that tags
// cannot express. The catalog server uses it to require PostgreSQL or Redis
// settings when that notification sink is selected.
//
// # Usage
//
//	import "github.com/dmitrymomot/apikit/pkg/config"
//
//	type Config struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//		Sink string `env:"NOTIFICATION_SINK" envDefault:"file"`
//	}
//
//	func main() {
//		if err := config.LoadEnv(".env", ".env.local"); err != nil {
//			log.Fatal(err)
//		}
//		var cfg Config
//		config.MustLoad(&cfg)
//	}
//
// # Errors
//
// Parsing failures wrap ErrParsingConfig, Validate failures wrap
// ErrInvalidConfig and unreadable env files wrap ErrLoadingEnvFile. Failed
// loads are not cached; ForceReloadConfig replaces a cached value.
package config
