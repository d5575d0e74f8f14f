package pipeline

import (
	"github.com/spf13/cobra"

	"github.com/tkivisto/fewshot-go/internal/conf"
	"github.com/tkivisto/fewshot-go/internal/logging"
	"github.com/tkivisto/fewshot-go/internal/pipeline"
)

// Command creates the pipeline command running all stages in order.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Run the full pipeline: fidstats, train, evaluate",
		Long: `Run the three pipeline stages as one linear batch. Execution is strictly
serial and the first failing stage aborts the rest.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := pipeline.New(settings, logging.ForService("pipeline"))
			return p.Run(cmd.Context())
		},
	}

	return cmd
}
