package main

import (
	"log/slog"
	"os"

	"github.com/dovewatch/dovewatch-go/cmd"
	"github.com/dovewatch/dovewatch-go/internal/conf"
	"github.com/dovewatch/dovewatch-go/internal/logging"
)

func main() {
	logging.Init()

	settings, err := conf.Load()
	if err != nil {
		logging.Error("error loading configuration", "error", err)
		os.Exit(1)
	}

	if settings.Main.Log.Enabled {
		fileLogger, closeLogger, err := logging.NewFileLogger(settings.Main.Log.Path, settings.Main.Name, slog.LevelDebug)
		if err != nil {
			logging.Error("error setting up log file", "path", settings.Main.Log.Path, "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := closeLogger(); err != nil {
				logging.Error("error closing log file", "error", err)
			}
		}()
		slog.SetDefault(fileLogger)
	}

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		logging.Error("command failed", "error", err)
		os.Exit(1)
	}
}
