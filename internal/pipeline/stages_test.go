package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkivisto/fewshot-go/internal/conf"
)

func stageSettings() *conf.Settings {
	s := &conf.Settings{}
	s.Main.Name = "fewshot-go"
	s.Pipeline = conf.PipelineSettings{
		Python:     "python3",
		ScriptsDir: "scripts",
		WorkDir:    "/kaggle/working",
		Device:     "cuda:0",
		DataDir:    "/kaggle/working/children_under3",
		Stats: conf.StatsSettings{
			BatchSize: 50,
			ImageSize: 256,
			Dims:      2048,
			Output:    "fid_stats/children_under3.npz",
		},
		Train: conf.TrainSettings{
			Epochs:        500,
			LearningRate:  0.0001,
			TStart:        20,
			TEnd:          980,
			NGradients:    16,
			BatchSize:     4,
			CheckpointOut: "checkpoints/model_babies.pth",
		},
		Evaluate: conf.EvaluateSettings{
			NumSamples: 1000,
			BatchSize:  16,
			SamplesOut: "arr.npy",
			MetricsOut: "metrics.json",
		},
	}
	return s
}

func TestFIDStatsScript(t *testing.T) {
	script := fidStatsScript(stageSettings())

	assert.Equal(t, "python3", script.Program)
	assert.Equal(t, "/kaggle/working", script.Dir)
	assert.Equal(t, []string{
		filepath.Join("scripts", "compute_fid_stats.py"),
		"--image_dir", "/kaggle/working/children_under3",
		"--output", "fid_stats/children_under3.npz",
		"--batch_size", "50",
		"--image_size", "256",
		"--dims", "2048",
	}, script.Args)
}

func TestTrainScript(t *testing.T) {
	script := trainScript(stageSettings())

	require.Equal(t, filepath.Join("scripts", "fs_gradient_train.py"), script.Args[0])
	assert.Equal(t, []string{
		filepath.Join("scripts", "fs_gradient_train.py"),
		"--data_dir", "/kaggle/working/children_under3",
		"--fid_stats", "fid_stats/children_under3.npz",
		"--epochs", "500",
		"--lr", "0.0001",
		"--t_start", "20",
		"--t_end", "980",
		"--n_gradients", "16",
		"--batch_size", "4",
		"--checkpoint_out", "checkpoints/model_babies.pth",
		"--device", "cuda:0",
	}, script.Args)
}

func TestEvaluateScript(t *testing.T) {
	script := evaluateScript(stageSettings())

	assert.Equal(t, []string{
		filepath.Join("scripts", "fs_gradient_evaluate.py"),
		"--checkpoint", "checkpoints/model_babies.pth",
		"--fid_stats", "fid_stats/children_under3.npz",
		"--num_samples", "1000",
		"--batch_size", "16",
		"--output", "arr.npy",
		"--metrics_out", "metrics.json",
		"--device", "cuda:0",
	}, script.Args)
}

func TestWorkPath(t *testing.T) {
	s := stageSettings()

	assert.Equal(t, "/kaggle/working/arr.npy", workPath(s, "arr.npy"))
	assert.Equal(t, "/tmp/elsewhere/arr.npy", workPath(s, "/tmp/elsewhere/arr.npy"))
}
