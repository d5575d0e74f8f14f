// Package cmd assembles the command line interface.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tkivisto/fewshot-go/cmd/evaluate"
	"github.com/tkivisto/fewshot-go/cmd/fidstats"
	pipelinecmd "github.com/tkivisto/fewshot-go/cmd/pipeline"
	"github.com/tkivisto/fewshot-go/cmd/runs"
	"github.com/tkivisto/fewshot-go/cmd/selection"
	"github.com/tkivisto/fewshot-go/cmd/train"
	"github.com/tkivisto/fewshot-go/internal/conf"
	"github.com/tkivisto/fewshot-go/internal/logging"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fewshot-go",
		Short: "Few-shot diffusion fine-tuning pipeline CLI",
		Long: `fewshot-go curates a children-under-three subset of a face dataset and
drives the few-shot diffusion fine-tuning pipeline: reference FID
statistics, training and evaluation.`,
	}

	if err := setupFlags(rootCmd, settings); err != nil {
		rootCmd.PrintErrln(err)
	}

	subcommands := []*cobra.Command{
		selection.Command(settings),
		fidstats.Command(settings),
		train.Command(settings),
		evaluate.Command(settings),
		pipelinecmd.Command(settings),
		runs.Command(settings),
	}
	rootCmd.AddCommand(subcommands...)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if settings.Debug {
			logging.SetLevel(slog.LevelDebug)
		}
		return nil
	}

	return rootCmd
}

// setupFlags defines the flags global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	// The config flag value is consumed before the command line is parsed,
	// see conf.ConfigFileFromArgs; it is declared here so it shows up in
	// the help output and passes flag validation.
	rootCmd.PersistentFlags().String("config", "", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&settings.Pipeline.Device, "device", viper.GetString("pipeline.device"), "CUDA device passed to the pipeline tools")
	rootCmd.PersistentFlags().StringVar(&settings.Pipeline.WorkDir, "workdir", viper.GetString("pipeline.workdir"), "Working directory for stage execution")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	return nil
}
