package selection

import (
	"github.com/spf13/cobra"

	"github.com/tkivisto/fewshot-go/internal/conf"
	"github.com/tkivisto/fewshot-go/internal/dataset"
	"github.com/tkivisto/fewshot-go/internal/logging"
)

// Command creates the select command for dataset curation.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Select children-under-three images from the face dataset",
		Long: `Filter the face dataset for children in the configured age group using
age-label metadata, write the selection manifest and copy the matching
images into the output directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dataset.Select(cmd.Context(), settings, logging.ForService("dataset"))
		},
	}

	setupFlags(cmd, settings)

	return cmd
}

// setupFlags configures flags specific to the select command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().StringVar(&settings.Dataset.LabelsPath, "labels", settings.Dataset.LabelsPath, "Path to the aging-labels CSV")
	cmd.Flags().StringVar(&settings.Dataset.MetadataPath, "metadata", settings.Dataset.MetadataPath, "Path to the JSON dataset metadata (overrides the CSV)")
	cmd.Flags().StringVar(&settings.Dataset.SourceDir, "source", settings.Dataset.SourceDir, "Directory holding the source images")
	cmd.Flags().StringVarP(&settings.Dataset.OutputDir, "output", "o", settings.Dataset.OutputDir, "Directory the selected images are copied into")
	cmd.Flags().StringVar(&settings.Dataset.AgeGroup, "age-group", settings.Dataset.AgeGroup, "Age group label to select, e.g. 0-2")
	cmd.Flags().Float64Var(&settings.Dataset.MaxAge, "max-age", settings.Dataset.MaxAge, "Age threshold in years, used with --metadata")
}
