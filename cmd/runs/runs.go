package runs

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tkivisto/fewshot-go/internal/conf"
	"github.com/tkivisto/fewshot-go/internal/datastore"
	"github.com/tkivisto/fewshot-go/internal/errors"
)

// Command creates the runs command for listing recorded pipeline runs.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded pipeline runs and their scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRuns(cmd, settings)
		},
	}

	return cmd
}

func listRuns(cmd *cobra.Command, settings *conf.Settings) error {
	store := datastore.New(settings)
	if store == nil {
		return errors.Newf("no run store is enabled, set output.sqlite.enabled in the configuration").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if err := store.Open(); err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.GetAllRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		cmd.Println("no runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTATUS\tSTARTED\tSTAGES\tSCORES")
	for i := range runs {
		run := &runs[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			shortID(run.RunID),
			run.Status,
			run.StartedAt.Format(time.DateTime),
			stageSummary(run),
			metricSummary(run),
		)
	}
	return w.Flush()
}

func shortID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}

func stageSummary(run *datastore.Run) string {
	if len(run.Stages) == 0 {
		return "-"
	}
	names := make([]string, len(run.Stages))
	for i, st := range run.Stages {
		names[i] = st.Name
	}
	return strings.Join(names, ",")
}

func metricSummary(run *datastore.Run) string {
	if len(run.Metrics) == 0 {
		return "-"
	}
	parts := make([]string, len(run.Metrics))
	for i, m := range run.Metrics {
		parts[i] = fmt.Sprintf("%s=%.4g", m.Name, m.Value)
	}
	return strings.Join(parts, " ")
}
