// config.go: settings struct for the few-shot pipeline and functions to load
// and save them.
package conf

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tkivisto/fewshot-go/internal/errors"
)

//go:embed config.yaml
var configFiles embed.FS

// LogConfig contains settings for the rotating pipeline log file.
type LogConfig struct {
	Enabled    bool   // true to write a pipeline log file
	Path       string // log file path
	MaxSize    int    // max size in megabytes before rotation
	MaxBackups int    // number of rotated files to keep
	MaxAge     int    // max age in days of rotated files
}

// MainSettings contains general application settings.
type MainSettings struct {
	Name string    // node name reported in logs and run records
	Log  LogConfig // pipeline log file settings
}

// DatasetSettings controls the dataset curation step.
type DatasetSettings struct {
	LabelsPath   string  // path to the aging-labels CSV
	MetadataPath string  // path to the JSON dataset metadata, alternative to the CSV
	SourceDir    string  // directory holding the source images
	OutputDir    string  // directory the selected images are copied into
	AgeGroup     string  // age group literal used with CSV labels, e.g. "0-2"
	MaxAge       float64 // age threshold in years used with JSON metadata
}

// StatsSettings are the parameters of the reference statistics stage.
type StatsSettings struct {
	BatchSize int    // batch size for Inception activation extraction
	ImageSize int    // images are resized to ImageSize x ImageSize
	Dims      int    // dimensionality of Inception features
	Output    string // output .npz path for mu/sigma
}

// TrainSettings are the parameters of the few-shot fine-tuning stage.
type TrainSettings struct {
	Epochs        int     // number of fine-tuning epochs
	LearningRate  float64 // optimizer learning rate
	TStart        int     // first diffusion timestep of the adaptation range
	TEnd          int     // last diffusion timestep of the adaptation range
	NGradients    int     // number of stored gradient directions
	BatchSize     int     // training batch size
	CheckpointOut string  // output path for the fine-tuned checkpoint
}

// EvaluateSettings are the parameters of the generation and scoring stage.
type EvaluateSettings struct {
	NumSamples int    // number of images to generate
	BatchSize  int    // sampling batch size
	SamplesOut string // output .npy path for the generated image array
	MetricsOut string // output JSON path for FID / Intra-LPIPS scores
}

// PipelineSettings describes how the external tools are invoked.
type PipelineSettings struct {
	Python     string           // python interpreter to use
	ScriptsDir string           // directory holding the pipeline scripts
	WorkDir    string           // working directory for stage execution
	Device     string           // CUDA device passed to the tools
	DataDir    string           // directory with the target training images
	Stats      StatsSettings    // reference statistics stage
	Train      TrainSettings    // fine-tuning stage
	Evaluate   EvaluateSettings // generation and scoring stage
}

// SQLiteSettings contains the SQLite run store settings.
type SQLiteSettings struct {
	Enabled bool   // true to record runs in a SQLite database
	Path    string // database file path
}

// OutputSettings groups the optional output sinks.
type OutputSettings struct {
	SQLite SQLiteSettings // SQLite run store
}

// Settings is the root configuration for the application.
type Settings struct {
	Debug bool // true to enable debug logging

	Main     MainSettings
	Dataset  DatasetSettings
	Pipeline PipelineSettings
	Output   OutputSettings
}

// loadMutex serializes Load calls, viper state is global.
var loadMutex sync.Mutex

// Load reads the configuration file and environment variables into a new
// Settings instance and validates it. A non-empty configFile is used
// instead of the default search paths.
func Load(configFile string) (*Settings, error) {
	loadMutex.Lock()
	defer loadMutex.Unlock()

	settings := &Settings{}

	if err := initViper(configFile); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	return settings, nil
}

// initViper initializes viper with defaults and reads the configuration file.
func initViper(configFile string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("FEWSHOT")
	viper.AutomaticEnv()

	setDefaultConfig()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("fatal error reading config file %s: %w", configFile, err)
		}
		return nil
	}

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// No config file on disk, write the embedded default
			return createDefaultConfig(configPaths)
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}
	return nil
}

// createDefaultConfig writes the embedded default config.yaml to the first
// usable config path and points viper at it.
func createDefaultConfig(configPaths []string) error {
	if len(configPaths) == 0 {
		return errors.Newf("no configuration paths available").
			Category(errors.CategoryConfiguration).
			Build()
	}

	configPath := filepath.Join(configPaths[0], "config.yaml")
	defaultConfig, err := configFiles.ReadFile("config.yaml")
	if err != nil {
		return fmt.Errorf("error reading embedded config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, defaultConfig, 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	viper.SetConfigFile(configPath)
	return viper.ReadInConfig()
}

// SaveSettings writes the given settings to path as YAML.
func SaveSettings(settings *Settings, path string) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "marshal-settings").
			Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New(err).
			Category(errors.CategoryFileIO).
			FileContext(path, int64(len(data))).
			Build()
	}
	return nil
}
