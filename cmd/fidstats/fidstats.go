package fidstats

import (
	"github.com/spf13/cobra"

	"github.com/tkivisto/fewshot-go/internal/conf"
	"github.com/tkivisto/fewshot-go/internal/logging"
	"github.com/tkivisto/fewshot-go/internal/pipeline"
)

// Command creates the fidstats command for the reference statistics stage.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fidstats",
		Short: "Compute reference FID statistics over the selected images",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := pipeline.New(settings, logging.ForService("pipeline"))
			return p.RunStage(cmd.Context(), pipeline.StageFIDStats)
		},
	}

	setupFlags(cmd, settings)

	return cmd
}

// setupFlags configures flags specific to the fidstats command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().StringVar(&settings.Pipeline.DataDir, "image-dir", settings.Pipeline.DataDir, "Directory with the images to measure")
	cmd.Flags().StringVarP(&settings.Pipeline.Stats.Output, "output", "o", settings.Pipeline.Stats.Output, "Output .npz path for the mu/sigma statistics")
	cmd.Flags().IntVar(&settings.Pipeline.Stats.BatchSize, "batch-size", settings.Pipeline.Stats.BatchSize, "Batch size for activation extraction")
	cmd.Flags().IntVar(&settings.Pipeline.Stats.ImageSize, "image-size", settings.Pipeline.Stats.ImageSize, "Image resize edge in pixels")
	cmd.Flags().IntVar(&settings.Pipeline.Stats.Dims, "dims", settings.Pipeline.Stats.Dims, "Dimensionality of Inception features")
}
