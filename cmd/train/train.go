package train

import (
	"github.com/spf13/cobra"

	"github.com/tkivisto/fewshot-go/internal/conf"
	"github.com/tkivisto/fewshot-go/internal/logging"
	"github.com/tkivisto/fewshot-go/internal/pipeline"
)

// Command creates the train command for the few-shot fine-tuning stage.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Few-shot fine-tune the pretrained diffusion model",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := pipeline.New(settings, logging.ForService("pipeline"))
			return p.RunStage(cmd.Context(), pipeline.StageTrain)
		},
	}

	setupFlags(cmd, settings)

	return cmd
}

// setupFlags configures flags specific to the train command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().StringVar(&settings.Pipeline.DataDir, "data-dir", settings.Pipeline.DataDir, "Directory with the target training images")
	cmd.Flags().IntVar(&settings.Pipeline.Train.Epochs, "epochs", settings.Pipeline.Train.Epochs, "Number of fine-tuning epochs")
	cmd.Flags().Float64Var(&settings.Pipeline.Train.LearningRate, "lr", settings.Pipeline.Train.LearningRate, "Optimizer learning rate")
	cmd.Flags().IntVar(&settings.Pipeline.Train.TStart, "t-start", settings.Pipeline.Train.TStart, "First diffusion timestep of the adaptation range")
	cmd.Flags().IntVar(&settings.Pipeline.Train.TEnd, "t-end", settings.Pipeline.Train.TEnd, "Last diffusion timestep of the adaptation range")
	cmd.Flags().IntVar(&settings.Pipeline.Train.NGradients, "n-gradients", settings.Pipeline.Train.NGradients, "Number of stored gradient directions")
	cmd.Flags().IntVar(&settings.Pipeline.Train.BatchSize, "batch-size", settings.Pipeline.Train.BatchSize, "Training batch size")
	cmd.Flags().StringVar(&settings.Pipeline.Train.CheckpointOut, "checkpoint-out", settings.Pipeline.Train.CheckpointOut, "Output path for the fine-tuned checkpoint")
}
