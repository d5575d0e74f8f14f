package pipeline

import (
	"archive/zip"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkivisto/fewshot-go/internal/conf"
	"github.com/tkivisto/fewshot-go/internal/datastore"
)

func skipWithoutPOSIXTools(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test requires POSIX coreutils")
	}
}

// fixtureSettings builds settings whose "tools" are coreutils and whose
// artifacts are pre-staged, so the sequencing and bookkeeping can be tested
// without the real Python stack.
func fixtureSettings(t *testing.T, tool string) *conf.Settings {
	t.Helper()
	workDir := t.TempDir()
	dataDir := filepath.Join(workDir, "children_under3")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "00000.png"), []byte("png"), 0o644))

	s := &conf.Settings{}
	s.Main.Name = "fewshot-go-test"
	s.Pipeline = conf.PipelineSettings{
		Python:     tool,
		ScriptsDir: "scripts",
		WorkDir:    workDir,
		Device:     "cpu",
		DataDir:    dataDir,
		Stats:      conf.StatsSettings{BatchSize: 2, ImageSize: 64, Dims: 64, Output: "stats.npz"},
		Train: conf.TrainSettings{
			Epochs: 1, LearningRate: 0.1, TStart: 0, TEnd: 10,
			NGradients: 1, BatchSize: 1, CheckpointOut: "model.pth",
		},
		Evaluate: conf.EvaluateSettings{
			NumSamples: 2, BatchSize: 1, SamplesOut: "arr.npy", MetricsOut: "metrics.json",
		},
	}
	s.Output.SQLite.Enabled = true
	s.Output.SQLite.Path = filepath.Join(workDir, "runs.db")
	return s
}

// stageArtifacts writes the files each stage is expected to produce.
func stageArtifacts(t *testing.T, s *conf.Settings) {
	t.Helper()
	writeStatsArchive(t, workPath(s, s.Pipeline.Stats.Output))
	require.NoError(t, os.WriteFile(workPath(s, s.Pipeline.Train.CheckpointOut), []byte{0x80, 0x02}, 0o644))
	require.NoError(t, os.WriteFile(workPath(s, s.Pipeline.Evaluate.SamplesOut), []byte("\x93NUMPY\x01\x00"), 0o644))
	require.NoError(t, os.WriteFile(workPath(s, s.Pipeline.Evaluate.MetricsOut), []byte(`{"fid": 52.3, "intra_lpips": 0.41}`), 0o644))
}

func writeStatsArchive(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	for _, entry := range []string{"mu.npy", "sigma.npy"} {
		ew, err := w.Create(entry)
		require.NoError(t, err)
		_, err = ew.Write([]byte("\x93NUMPY"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

func TestPipelineRunCompletes(t *testing.T) {
	skipWithoutPOSIXTools(t)

	s := fixtureSettings(t, "true")
	stageArtifacts(t, s)

	p := New(s, slog.New(slog.DiscardHandler))
	require.NoError(t, p.Run(context.Background()))

	store := datastore.New(s)
	require.NotNil(t, store)
	require.NoError(t, store.Open())
	defer store.Close()

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, datastore.StatusCompleted, run.Status)
	require.NotNil(t, run.CompletedAt)
	assert.Len(t, run.Stages, 3)

	metrics, err := store.GetMetrics(run.RunID)
	require.NoError(t, err)
	assert.Len(t, metrics, 2)
}

func TestPipelineAbortsOnFirstFailure(t *testing.T) {
	skipWithoutPOSIXTools(t)

	// Every tool invocation fails, so only the first stage may execute.
	s := fixtureSettings(t, "false")
	stageArtifacts(t, s)

	p := New(s, slog.New(slog.DiscardHandler))
	require.Error(t, p.Run(context.Background()))

	store := datastore.New(s)
	require.NoError(t, store.Open())
	defer store.Close()

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, datastore.StatusFailed, runs[0].Status)
	assert.Len(t, runs[0].Stages, 1)
	assert.Equal(t, StageFIDStats, runs[0].Stages[0].Name)
}

func TestPipelinePreflightFailsWithoutImages(t *testing.T) {
	skipWithoutPOSIXTools(t)

	s := fixtureSettings(t, "true")
	stageArtifacts(t, s)
	// Empty the data dir so the fidstats preflight fails.
	require.NoError(t, os.Remove(filepath.Join(s.Pipeline.DataDir, "00000.png")))

	p := New(s, slog.New(slog.DiscardHandler))
	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no images found")
}

func TestRunStageUnknown(t *testing.T) {
	s := fixtureSettings(t, "true")
	p := New(s, slog.New(slog.DiscardHandler))

	assert.Error(t, p.RunStage(context.Background(), "bogus"))
}

func TestRunStageEvaluateOnly(t *testing.T) {
	skipWithoutPOSIXTools(t)

	s := fixtureSettings(t, "true")
	stageArtifacts(t, s)

	p := New(s, slog.New(slog.DiscardHandler))
	require.NoError(t, p.RunStage(context.Background(), StageEvaluate))

	store := datastore.New(s)
	require.NoError(t, store.Open())
	defer store.Close()

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Len(t, runs[0].Stages, 1)
	assert.Equal(t, StageEvaluate, runs[0].Stages[0].Name)
	// Evaluate alone still records the scores.
	assert.Len(t, runs[0].Metrics, 2)
}
