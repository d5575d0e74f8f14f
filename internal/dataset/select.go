package dataset

import (
	"context"
	"log/slog"
	"os"

	"github.com/tkivisto/fewshot-go/internal/conf"
	"github.com/tkivisto/fewshot-go/internal/errors"
)

// Select runs the dataset curation step: load the age metadata, filter for
// the configured age group, write the selection manifest and copy the
// matching images into the output directory.
func Select(ctx context.Context, settings *conf.Settings, log *slog.Logger) error {
	ds := &settings.Dataset

	var sel Selection
	switch {
	case ds.MetadataPath != "":
		records, err := LoadMetadata(ds.MetadataPath)
		if err != nil {
			return err
		}
		log.Info("metadata loaded", "path", ds.MetadataPath, "entries", len(records))
		sel = FilterMaxAge(records, ds.MaxAge)
	default:
		labels, err := LoadLabels(ds.LabelsPath)
		if err != nil {
			return err
		}
		log.Info("labels loaded", "path", ds.LabelsPath, "entries", len(labels))
		sel = FilterAgeGroup(labels, ds.AgeGroup)
	}

	if len(sel) == 0 {
		if ds.MetadataPath != "" {
			return errors.Newf("no images matched max age %g", ds.MaxAge).
				Category(errors.CategoryDataset).
				Context("metadata", ds.MetadataPath).
				Build()
		}
		return errors.Newf("no images matched age group %q", ds.AgeGroup).
			Category(errors.CategoryDataset).
			Context("labels", ds.LabelsPath).
			Build()
	}

	log.Info("selection complete",
		"images", len(sel),
		"age_group", ds.AgeGroup,
		"genders", sel.GenderDistribution())

	manifestPath, err := WriteManifest(sel, ds.OutputDir)
	if err != nil {
		return err
	}
	log.Info("manifest written", "path", manifestPath)

	// The manifest is still useful when the images are not staged yet, so a
	// missing source directory only warns.
	if _, err := os.Stat(ds.SourceDir); err != nil {
		log.Warn("source directory not found, skipping image copy", "source_dir", ds.SourceDir)
		return nil
	}

	report, err := CopyImages(ctx, sel, ds.SourceDir, ds.OutputDir, log)
	if err != nil {
		return err
	}

	log.Info("copy complete",
		"copied", report.Copied,
		"missing", report.Missing,
		"output_dir", ds.OutputDir)
	return nil
}
