package evaluate

import (
	"github.com/spf13/cobra"

	"github.com/tkivisto/fewshot-go/internal/conf"
	"github.com/tkivisto/fewshot-go/internal/logging"
	"github.com/tkivisto/fewshot-go/internal/pipeline"
)

// Command creates the evaluate command for the generation and scoring stage.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Generate synthetic images and score them with FID and Intra-LPIPS",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := pipeline.New(settings, logging.ForService("pipeline"))
			return p.RunStage(cmd.Context(), pipeline.StageEvaluate)
		},
	}

	setupFlags(cmd, settings)

	return cmd
}

// setupFlags configures flags specific to the evaluate command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().StringVar(&settings.Pipeline.Train.CheckpointOut, "checkpoint", settings.Pipeline.Train.CheckpointOut, "Fine-tuned checkpoint to sample from")
	cmd.Flags().IntVar(&settings.Pipeline.Evaluate.NumSamples, "num-samples", settings.Pipeline.Evaluate.NumSamples, "Number of images to generate")
	cmd.Flags().IntVar(&settings.Pipeline.Evaluate.BatchSize, "batch-size", settings.Pipeline.Evaluate.BatchSize, "Sampling batch size")
	cmd.Flags().StringVarP(&settings.Pipeline.Evaluate.SamplesOut, "output", "o", settings.Pipeline.Evaluate.SamplesOut, "Output .npy path for the generated image array")
	cmd.Flags().StringVar(&settings.Pipeline.Evaluate.MetricsOut, "metrics-out", settings.Pipeline.Evaluate.MetricsOut, "Output JSON path for the evaluation scores")
}
