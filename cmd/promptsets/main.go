// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"promptsets/internal/config"
)

var (
	debugMode  = flag.Bool("d", false, "Enable debug mode")
	logFile    = flag.String("log-file", "", "Log file path (logs disabled by default)")
	configFile = flag.String("config", "config.json", "Config file path")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, closer, err := initLogger(logLevel(cfg.LogLevel, *debugMode), *logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if closer != nil {
		defer closer.Close()
	}
	logger.Info().Msg("Promptsets starting")

	for _, w := range cfg.Validate() {
		logger.Warn().Str("field", w.Field).Msg(w.Message)
	}

	if err := run(cfg, logger, flag.Args()); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if closer != nil {
			closer.Close()
		}
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger zerolog.Logger, args []string) error {
	if len(args) == 0 {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("no command given and stdin is not a terminal (try: build <set> -)")
		}
		app, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		return runREPL(app)
	}

	switch args[0] {
	case "schema":
		fmt.Println(config.SchemaJSON())
		return nil
	case "example-config":
		fmt.Println(config.ExampleConfigJSON())
		return nil
	}

	app, err := newApp(cfg, logger)
	if err != nil {
		return err
	}

	switch args[0] {
	case "list":
		return runList(app, os.Stdout)
	case "inputs":
		if len(args) < 2 {
			return errors.New("usage: inputs <set>")
		}
		return runInputs(app, args[1], os.Stdout)
	case "build":
		if len(args) < 2 {
			return errors.New("usage: build <set> [request-file|-]")
		}
		source := "-"
		if len(args) > 2 {
			source = args[2]
		}
		return runBuild(app, args[1], source, os.Stdin, os.Stdout)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [flags] [command]\n\n", os.Args[0])
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  (none)                          interactive console")
	fmt.Fprintln(out, "  list                            list prompt sets")
	fmt.Fprintln(out, "  inputs <set>                    print a set's inputs as JSON")
	fmt.Fprintln(out, "  build <set> [request-file|-]    build prompts from a YAML or JSON request")
	fmt.Fprintln(out, "  schema                          print the config.json schema")
	fmt.Fprintln(out, "  example-config                  print an example config.json")
	fmt.Fprintln(out, "\nFlags:")
	flag.PrintDefaults()
}

// logLevel maps the configured log_level onto a zerolog level. The -d flag
// always wins; unknown names fall back to info.
func logLevel(name string, debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	switch strings.ToLower(name) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func initLogger(level zerolog.Level, logFilePath string) (zerolog.Logger, io.Closer, error) {
	// Set log level
	zerolog.SetGlobalLevel(level)

	// Configure output
	var output io.Writer = io.Discard
	var closer io.Closer
	if logFilePath != "" {
		// Log to file only
		file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
		closer = file
	}

	// Create logger with timestamp
	return zerolog.New(output).With().Timestamp().Logger(), closer, nil
}
