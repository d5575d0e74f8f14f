// conf/validate.go

package conf

import (
	"fmt"
	"regexp"
	"strings"
)

// inceptionDims are the valid InceptionV3 feature dimensionalities the
// statistics tool accepts.
var inceptionDims = map[int]bool{64: true, 192: true, 768: true, 2048: true}

var ageGroupRe = regexp.MustCompile(`^\d+-\d+$`)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateDatasetSettings(&settings.Dataset); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validatePipelineSettings(&settings.Pipeline); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateOutputSettings(&settings.Output); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// validateDatasetSettings validates the dataset curation settings
func validateDatasetSettings(settings *DatasetSettings) error {
	var errs []string

	if settings.LabelsPath == "" && settings.MetadataPath == "" {
		errs = append(errs, "either a labels CSV path or a metadata JSON path must be set")
	}

	if settings.LabelsPath != "" && !ageGroupRe.MatchString(settings.AgeGroup) {
		errs = append(errs, fmt.Sprintf("age group %q must have the form <min>-<max>", settings.AgeGroup))
	}

	if settings.MetadataPath != "" && settings.MaxAge <= 0 {
		errs = append(errs, "max age must be greater than 0 when filtering by metadata age")
	}

	if settings.OutputDir == "" {
		errs = append(errs, "dataset output directory must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("dataset settings errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// validatePipelineSettings validates the stage parameters
func validatePipelineSettings(settings *PipelineSettings) error {
	var errs []string

	if settings.Python == "" {
		errs = append(errs, "python interpreter must not be empty")
	}

	if settings.Device == "" {
		errs = append(errs, "device must not be empty")
	}

	if settings.Stats.BatchSize <= 0 {
		errs = append(errs, "stats batch size must be greater than 0")
	}

	if settings.Stats.ImageSize <= 0 {
		errs = append(errs, "stats image size must be greater than 0")
	}

	if !inceptionDims[settings.Stats.Dims] {
		errs = append(errs, fmt.Sprintf("stats dims %d is not a valid InceptionV3 feature size (64, 192, 768, 2048)", settings.Stats.Dims))
	}

	if settings.Train.Epochs <= 0 {
		errs = append(errs, "train epochs must be greater than 0")
	}

	if settings.Train.LearningRate <= 0 {
		errs = append(errs, "train learning rate must be greater than 0")
	}

	if settings.Train.TStart < 0 || settings.Train.TEnd > 1000 || settings.Train.TStart >= settings.Train.TEnd {
		errs = append(errs, "train timestep range must satisfy 0 <= t_start < t_end <= 1000")
	}

	if settings.Train.NGradients <= 0 {
		errs = append(errs, "train gradient count must be greater than 0")
	}

	if settings.Train.BatchSize <= 0 {
		errs = append(errs, "train batch size must be greater than 0")
	}

	if settings.Evaluate.NumSamples <= 0 {
		errs = append(errs, "evaluate sample count must be greater than 0")
	}

	if settings.Evaluate.BatchSize <= 0 {
		errs = append(errs, "evaluate batch size must be greater than 0")
	}

	if len(errs) > 0 {
		return fmt.Errorf("pipeline settings errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// validateOutputSettings validates the output sink settings
func validateOutputSettings(settings *OutputSettings) error {
	var errs []string

	if settings.SQLite.Enabled && settings.SQLite.Path == "" {
		errs = append(errs, "SQLite database path must not be empty when SQLite output is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("output settings errors: %s", strings.Join(errs, "; "))
	}
	return nil
}
