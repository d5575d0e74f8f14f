package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValues(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setDefaultConfig()

	settings := &Settings{}
	require.NoError(t, viper.Unmarshal(settings))

	assert.Equal(t, "fewshot-go", settings.Main.Name)
	assert.Equal(t, "0-2", settings.Dataset.AgeGroup)
	assert.InDelta(t, 3.0, settings.Dataset.MaxAge, 1e-9)
	assert.Equal(t, 50, settings.Pipeline.Stats.BatchSize)
	assert.Equal(t, 256, settings.Pipeline.Stats.ImageSize)
	assert.Equal(t, 2048, settings.Pipeline.Stats.Dims)
	assert.Equal(t, "checkpoints/model_babies.pth", settings.Pipeline.Train.CheckpointOut)
	assert.Equal(t, "arr.npy", settings.Pipeline.Evaluate.SamplesOut)
	assert.False(t, settings.Output.SQLite.Enabled)
}

func TestDefaultsPassValidation(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setDefaultConfig()

	settings := &Settings{}
	require.NoError(t, viper.Unmarshal(settings))
	assert.NoError(t, ValidateSettings(settings))
}

func TestEmbeddedConfigMatchesDefaults(t *testing.T) {
	data, err := configFiles.ReadFile("config.yaml")
	require.NoError(t, err)

	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	settings := &Settings{}
	require.NoError(t, viper.Unmarshal(settings))

	assert.NoError(t, ValidateSettings(settings))
	assert.Equal(t, 500, settings.Pipeline.Train.Epochs)
	assert.Equal(t, 980, settings.Pipeline.Train.TEnd)
}

func TestLoadExplicitConfigFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "alt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dataset:\n  agegroup: 4-6\n"), 0o644))

	settings, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "4-6", settings.Dataset.AgeGroup)
	// Values absent from the file keep their defaults.
	assert.Equal(t, 2048, settings.Pipeline.Stats.Dims)
}

func TestLoadExplicitConfigFileMissing(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigFileFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"separate value", []string{"pipeline", "--config", "alt.yaml"}, "alt.yaml"},
		{"equals form", []string{"--config=alt.yaml", "train"}, "alt.yaml"},
		{"absent", []string{"train", "--debug"}, ""},
		{"dangling flag", []string{"--config"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigFileFromArgs(tt.args))
		})
	}
}

func TestSaveSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved.yaml")

	settings := validSettings()
	require.NoError(t, SaveSettings(settings, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "agegroup: 0-2")
}
