// Package cli builds the draftsweep command-line interface: the Cobra root command,
// layered configuration, zap logging, and the purge subcommand.
package cli
