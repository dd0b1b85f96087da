package main

import (
	"fmt"
	"os"

	"invest-appointment/internal/cli"
	"invest-appointment/internal/config"
	"invest-appointment/internal/logging"
)

func main() {
	configDir := configDirFlag()

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLoggerWithConfig(logging.LogConfig{
		Level:      cfg.Logging.Level,
		Console:    cfg.Logging.Console,
		File:       cfg.Logging.FilePath != "",
		FilePath:   cfg.Logging.FilePath,
		MaxSize:    cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAgeDays,
	})

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// configDirFlag pre-scans os.Args for --config so the directory is known
// before cobra parses flags; config has to load before the command tree is
// built.
func configDirFlag() string {
	for i, arg := range os.Args[1:] {
		if arg == "--config" && i+2 < len(os.Args) {
			return os.Args[i+2]
		}
		if len(arg) > len("--config=") && arg[:len("--config=")] == "--config=" {
			return arg[len("--config="):]
		}
	}
	return ""
}
