// conf/utils.go various util functions for the configuration package
package conf

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tkivisto/fewshot-go/internal/errors"
)

// GetDefaultConfigPaths returns the default configuration paths for the
// current operating system. If a config.yaml is found in one of them, only
// that path is returned.
func GetDefaultConfigPaths() ([]string, error) {
	var configPaths []string

	exePath, err := os.Executable()
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategorySystem).
			Context("operation", "get-executable-path").
			Build()
	}
	exeDir := filepath.Dir(exePath)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategorySystem).
			Context("operation", "get-home-directory").
			Build()
	}

	switch runtime.GOOS {
	case "windows":
		configPaths = []string{
			exeDir,
			filepath.Join(homeDir, "AppData", "Roaming", "fewshot-go"),
		}
	default:
		configPaths = []string{
			".",
			filepath.Join(homeDir, ".config", "fewshot-go"),
			"/etc/fewshot-go",
		}
	}

	for _, path := range configPaths {
		configFile := filepath.Join(path, "config.yaml")
		if _, err := os.Stat(configFile); err == nil {
			return []string{path}, nil
		}
	}

	return configPaths, nil
}

// ConfigFileFromArgs extracts the --config flag value from raw command line
// arguments. The configuration has to be loaded before the command line is
// parsed, so the flag is read here instead of through cobra.
func ConfigFileFromArgs(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
			return ""
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

// FindConfigFile returns the path of the config.yaml currently in use,
// or an empty string if none exists yet.
func FindConfigFile() string {
	paths, err := GetDefaultConfigPaths()
	if err != nil {
		return ""
	}
	for _, path := range paths {
		configFile := filepath.Join(path, "config.yaml")
		if _, err := os.Stat(configFile); err == nil {
			return configFile
		}
	}
	return ""
}
