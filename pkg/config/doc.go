// Package config loads application configuration from environment
// variables and optional .env files.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`
// behind a small generic API: annotate a struct with `env` tags and call
// Load. The default .env file in the working directory is picked up
// automatically once per process; explicit files can be loaded with
// LoadEnv before parsing.
//
// # Usage
//
//	type MailerConfig struct {
//	    APIKey  string `env:"SPARKPOST_API_KEY,required"`
//	    BaseURL string `env:"SPARKPOST_BASE_URL" envDefault:"https://api.sparkpost.com/api/v1"`
//	}
//
//	var cfg MailerConfig
//	config.MustLoad(&cfg)
//
// # Error Handling
//
// Sentinel errors can be compared with errors.Is:
//
//   - ErrParsingConfig: env vars could not be parsed into the struct
//   - ErrLoadingEnvFile: an explicitly requested .env file was unreadable
//   - ErrNilPointer: nil pointer passed to Load
package config
