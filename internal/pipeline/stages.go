package pipeline

import (
	"path/filepath"
	"strconv"

	"github.com/tkivisto/fewshot-go/internal/conf"
	"github.com/tkivisto/fewshot-go/internal/runner"
)

// Stage names, in execution order.
const (
	StageFIDStats = "fidstats"
	StageTrain    = "train"
	StageEvaluate = "evaluate"
)

// Script file names under the scripts directory.
const (
	fidStatsScriptName = "compute_fid_stats.py"
	trainScriptName    = "fs_gradient_train.py"
	evaluateScriptName = "fs_gradient_evaluate.py"
)

// fidStatsScript builds the reference statistics invocation.
func fidStatsScript(s *conf.Settings) runner.Script {
	p := &s.Pipeline
	return runner.Script{
		Program: p.Python,
		Args: []string{
			filepath.Join(p.ScriptsDir, fidStatsScriptName),
			"--image_dir", p.DataDir,
			"--output", p.Stats.Output,
			"--batch_size", strconv.Itoa(p.Stats.BatchSize),
			"--image_size", strconv.Itoa(p.Stats.ImageSize),
			"--dims", strconv.Itoa(p.Stats.Dims),
		},
		Dir: p.WorkDir,
	}
}

// trainScript builds the few-shot fine-tuning invocation.
func trainScript(s *conf.Settings) runner.Script {
	p := &s.Pipeline
	return runner.Script{
		Program: p.Python,
		Args: []string{
			filepath.Join(p.ScriptsDir, trainScriptName),
			"--data_dir", p.DataDir,
			"--fid_stats", p.Stats.Output,
			"--epochs", strconv.Itoa(p.Train.Epochs),
			"--lr", formatFloat(p.Train.LearningRate),
			"--t_start", strconv.Itoa(p.Train.TStart),
			"--t_end", strconv.Itoa(p.Train.TEnd),
			"--n_gradients", strconv.Itoa(p.Train.NGradients),
			"--batch_size", strconv.Itoa(p.Train.BatchSize),
			"--checkpoint_out", p.Train.CheckpointOut,
			"--device", p.Device,
		},
		Dir: p.WorkDir,
	}
}

// evaluateScript builds the generation and scoring invocation.
func evaluateScript(s *conf.Settings) runner.Script {
	p := &s.Pipeline
	return runner.Script{
		Program: p.Python,
		Args: []string{
			filepath.Join(p.ScriptsDir, evaluateScriptName),
			"--checkpoint", p.Train.CheckpointOut,
			"--fid_stats", p.Stats.Output,
			"--num_samples", strconv.Itoa(p.Evaluate.NumSamples),
			"--batch_size", strconv.Itoa(p.Evaluate.BatchSize),
			"--output", p.Evaluate.SamplesOut,
			"--metrics_out", p.Evaluate.MetricsOut,
			"--device", p.Device,
		},
		Dir: p.WorkDir,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// workPath resolves a stage path against the pipeline working directory.
func workPath(s *conf.Settings, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.Pipeline.WorkDir, path)
}
