package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tkivisto/fewshot-go/cmd"
	"github.com/tkivisto/fewshot-go/internal/conf"
	"github.com/tkivisto/fewshot-go/internal/logging"
)

func main() {
	logging.Init()

	// The config file has to be known before cobra parses the command
	// line, so the --config flag is read from the raw arguments.
	configFile := conf.ConfigFileFromArgs(os.Args[1:])

	settings, err := conf.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if configFile == "" {
		configFile = conf.FindConfigFile()
	}
	logging.HumanReadable().Info("configuration loaded", "config", configFile)

	// Route pipeline logs to the rotating file log when enabled.
	if settings.Main.Log.Enabled {
		fileLogger, closer := logging.FileLogger(
			settings.Main.Log.Path,
			settings.Main.Log.MaxSize,
			settings.Main.Log.MaxBackups,
			settings.Main.Log.MaxAge,
		)
		defer closer.Close()
		slog.SetDefault(fileLogger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
