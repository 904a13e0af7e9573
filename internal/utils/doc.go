// Package utils exposes the process-wide plumbing shared by draftsweep commands.
//
// ConfigurationLoader layers embedded defaults, configuration files, .env files and
// environment variables through Viper. LoggerFactory builds zap loggers in structured
// or console encodings.
package utils
