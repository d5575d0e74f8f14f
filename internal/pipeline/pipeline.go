// Package pipeline sequences the few-shot fine-tuning stages: reference
// statistics, training and evaluation. Stages run strictly serially and the
// first failure aborts the rest, matching the batch semantics of the
// original orchestration.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tkivisto/fewshot-go/internal/artifacts"
	"github.com/tkivisto/fewshot-go/internal/conf"
	"github.com/tkivisto/fewshot-go/internal/datastore"
	"github.com/tkivisto/fewshot-go/internal/diagnostics"
	"github.com/tkivisto/fewshot-go/internal/errors"
	"github.com/tkivisto/fewshot-go/internal/runner"
)

// stage couples a script invocation with its input checks and the
// validation of the artifact it must produce.
type stage struct {
	name      string
	script    runner.Script
	preflight func() error
	verify    func() error
}

// Pipeline drives the external tools for one run.
type Pipeline struct {
	settings *conf.Settings
	runner   *runner.Runner
	store    datastore.Interface
	log      *slog.Logger
}

// New creates a Pipeline. The run store is opened lazily on first use when
// SQLite output is enabled.
func New(settings *conf.Settings, log *slog.Logger) *Pipeline {
	return &Pipeline{
		settings: settings,
		runner:   runner.New(log),
		store:    datastore.New(settings),
		log:      log,
	}
}

// Run executes the full pipeline: fidstats, train, evaluate.
func (p *Pipeline) Run(ctx context.Context) error {
	return p.execute(ctx, p.stages())
}

// RunStage executes a single named stage with the same checks and
// bookkeeping as a full run.
func (p *Pipeline) RunStage(ctx context.Context, name string) error {
	for _, st := range p.stages() {
		if st.name == name {
			return p.execute(ctx, []stage{st})
		}
	}
	return errors.Newf("unknown stage %q", name).
		Category(errors.CategoryValidation).
		Build()
}

// stages returns the stage list in execution order.
func (p *Pipeline) stages() []stage {
	s := p.settings
	statsPath := workPath(s, s.Pipeline.Stats.Output)
	checkpointPath := workPath(s, s.Pipeline.Train.CheckpointOut)
	samplesPath := workPath(s, s.Pipeline.Evaluate.SamplesOut)

	return []stage{
		{
			name:      StageFIDStats,
			script:    fidStatsScript(s),
			preflight: func() error { return p.requireImages(s.Pipeline.DataDir) },
			verify:    func() error { return artifacts.CheckNPZ(statsPath) },
		},
		{
			name:   StageTrain,
			script: trainScript(s),
			preflight: func() error {
				if err := p.requireImages(s.Pipeline.DataDir); err != nil {
					return err
				}
				if err := artifacts.CheckNPZ(statsPath); err != nil {
					return err
				}
				p.reportResources()
				return nil
			},
			verify: func() error { return artifacts.CheckCheckpoint(checkpointPath) },
		},
		{
			name:   StageEvaluate,
			script: evaluateScript(s),
			preflight: func() error {
				if err := artifacts.CheckCheckpoint(checkpointPath); err != nil {
					return err
				}
				return artifacts.CheckNPZ(statsPath)
			},
			verify: func() error { return artifacts.CheckNPY(samplesPath) },
		},
	}
}

// execute runs the given stages serially with run bookkeeping.
func (p *Pipeline) execute(ctx context.Context, stages []stage) error {
	run := &datastore.Run{
		RunID:      uuid.New().String(),
		Node:       p.settings.Main.Name,
		Status:     datastore.StatusRunning,
		Device:     p.settings.Pipeline.Device,
		DataDir:    p.settings.Pipeline.DataDir,
		Checkpoint: p.settings.Pipeline.Train.CheckpointOut,
		StartedAt:  time.Now(),
	}

	if p.store != nil {
		if err := p.store.Open(); err != nil {
			return err
		}
		defer func() { _ = p.store.Close() }()
		if err := p.store.SaveRun(run); err != nil {
			return err
		}
	}

	names := make([]string, len(stages))
	for i, st := range stages {
		names[i] = st.name
	}
	p.log.Info("run started", "run_id", run.RunID, "stages", strings.Join(names, ","))

	for _, st := range stages {
		if err := p.runStage(ctx, run, st); err != nil {
			p.finishRun(run, datastore.StatusFailed)
			return err
		}
	}

	if last := stages[len(stages)-1]; last.name == StageEvaluate {
		p.recordMetrics(run)
	}

	p.finishRun(run, datastore.StatusCompleted)
	p.log.Info("run finished", "run_id", run.RunID)
	return nil
}

// runStage performs preflight, execution and artifact verification for one
// stage, and records the stage execution.
func (p *Pipeline) runStage(ctx context.Context, run *datastore.Run, st stage) error {
	p.log.Info("stage starting", "stage", st.name)

	if st.preflight != nil {
		if err := st.preflight(); err != nil {
			return errors.Newf("stage %s preflight: %w", st.name, err).
				Category(errors.CategoryValidation).
				Context("stage", st.name).
				Build()
		}
	}

	started := time.Now()
	runErr := p.runner.Run(ctx, st.script)
	duration := time.Since(started)

	exitCode := 0
	if runErr != nil {
		exitCode = -1
		var ee *errors.EnhancedError
		if errors.As(runErr, &ee) {
			if code, ok := ee.GetContext()["exit_code"].(int); ok {
				exitCode = code
			}
		}
	}

	if p.store != nil {
		execRecord := &datastore.StageExecution{
			RunRef:    run.ID,
			Name:      st.name,
			Command:   st.script.Program + " " + strings.Join(st.script.Args, " "),
			ExitCode:  exitCode,
			Duration:  duration,
			StartedAt: started,
		}
		if err := p.store.SaveStageExecution(execRecord); err != nil {
			p.log.Warn("failed to record stage execution", "stage", st.name, "error", err)
		}
	}

	if runErr != nil {
		return runErr
	}

	if st.verify != nil {
		if err := st.verify(); err != nil {
			return errors.Newf("stage %s produced no usable artifact: %w", st.name, err).
				Category(errors.CategoryArtifact).
				Context("stage", st.name).
				Build()
		}
	}

	p.log.Info("stage finished", "stage", st.name, "duration", duration)
	return nil
}

// recordMetrics parses the metrics file of the evaluate stage when present
// and stores the scores. Older tool revisions only print scores to stdout,
// so a missing file is a warning.
func (p *Pipeline) recordMetrics(run *datastore.Run) {
	path := workPath(p.settings, p.settings.Pipeline.Evaluate.MetricsOut)
	metrics, err := loadMetrics(path)
	if err != nil {
		p.log.Warn("no metrics file found after evaluation", "path", path, "error", err)
		return
	}

	p.log.Info("evaluation scores", "fid", metrics.FID, "intra_lpips", metrics.IntraLPIPS)

	if p.store == nil {
		return
	}
	for name, value := range map[string]float64{
		"fid":         metrics.FID,
		"intra_lpips": metrics.IntraLPIPS,
	} {
		if err := p.store.SaveMetric(&datastore.Metric{RunRef: run.ID, Name: name, Value: value}); err != nil {
			p.log.Warn("failed to record metric", "metric", name, "error", err)
		}
	}
}

// finishRun updates the run status in the store.
func (p *Pipeline) finishRun(run *datastore.Run, status string) {
	run.Status = status
	now := time.Now()
	run.CompletedAt = &now

	if p.store == nil {
		return
	}
	if err := p.store.UpdateRun(run); err != nil {
		p.log.Warn("failed to update run record", "run_id", run.RunID, "error", err)
	}
}

// requireImages fails when dir holds no images for the tools to consume.
func (p *Pipeline) requireImages(dir string) error {
	count, err := artifacts.CountImages(dir)
	if err != nil {
		return err
	}
	if count == 0 {
		return errors.Newf("no images found in %s", dir).
			Category(errors.CategoryDataset).
			Context("dir", dir).
			Build()
	}
	return nil
}

// reportResources logs host headroom warnings before training.
func (p *Pipeline) reportResources() {
	res, warnings, err := diagnostics.Check(p.settings.Pipeline.WorkDir)
	if err != nil {
		p.log.Warn("resource preflight failed", "error", err)
		return
	}
	p.log.Info("resource preflight",
		"available_memory", res.AvailableMemory,
		"free_disk", res.FreeDisk)
	for _, w := range warnings {
		p.log.Warn(w)
	}
}
