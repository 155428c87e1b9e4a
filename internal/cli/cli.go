// Package cli parses command-line arguments into an app.Config. It deals in
// exit codes rather than process termination so main stays testable.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/armatek/armature/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("armatured", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
armatured - an extensible backend host that boots feature modules.

Usage:
  armatured [options]

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "config.yaml", "Path to the live configuration document (yaml, toml or json).")
	modulesFlag := flagSet.String("modules-path", "modules", "Root directory of the module manifest tree.")
	listenFlag := flagSet.String("listen", ":8420", "HTTP listen address. The config key server.listen overrides it.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	storageFlag := flagSet.String("storage", app.StorageMemory, "Storage backend for the module key/value handle. Options: 'memory' or 'sqlite'.")
	storagePathFlag := flagSet.String("storage-path", "", "SQLite database path (required with -storage=sqlite).")
	initTimeoutFlag := flagSet.Duration("init-timeout", 0, "Per-module initialization timeout. 0 disables the bound.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *initTimeoutFlag < 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid init-timeout: must not be negative"}
	}

	config, err := app.NewConfig(app.Config{
		ConfigPath:     *configFlag,
		ModulesPath:    *modulesFlag,
		ListenAddr:     *listenFlag,
		LogFormat:      logFormat,
		LogLevel:       logLevel,
		StorageBackend: strings.ToLower(*storageFlag),
		StoragePath:    *storagePathFlag,
		InitTimeout:    *initTimeoutFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
