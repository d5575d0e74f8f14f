package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tkivisto/fewshot-go/internal/errors"
)

// Manifest file names written next to the copied images.
const (
	MetadataFileName = "children_metadata.csv"
	IDListFileName   = "children_ids.txt"
)

var manifestHeader = []string{
	"image_id", "image_number", "filename",
	"age_group", "age_group_confidence",
	"gender", "gender_confidence",
}

// WriteManifest writes the selection metadata CSV and the plain id list
// into dir, creating it if needed. Returns the metadata CSV path.
func WriteManifest(sel Selection, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.New(err).
			Category(errors.CategoryFileIO).
			Context("dir", dir).
			Build()
	}

	csvPath := filepath.Join(dir, MetadataFileName)
	f, err := os.Create(csvPath)
	if err != nil {
		return "", errors.New(err).
			Category(errors.CategoryFileIO).
			FileContext(csvPath, -1).
			Build()
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(manifestHeader); err != nil {
		return "", errors.New(err).Category(errors.CategoryFileIO).Build()
	}
	for _, item := range sel {
		record := []string{
			item.ImageID,
			strconv.Itoa(item.ImageNumber),
			item.Filename,
			item.AgeGroup,
			formatConfidence(item.AgeGroupConfidence),
			item.Gender,
			formatConfidence(item.GenderConfidence),
		}
		if err := w.Write(record); err != nil {
			return "", errors.New(err).Category(errors.CategoryFileIO).Build()
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", errors.New(err).Category(errors.CategoryFileIO).Build()
	}

	idPath := filepath.Join(dir, IDListFileName)
	ids := make([]byte, 0, len(sel)*6)
	for _, item := range sel {
		ids = append(ids, item.ImageID...)
		ids = append(ids, '\n')
	}
	if err := os.WriteFile(idPath, ids, 0o644); err != nil {
		return "", errors.New(err).
			Category(errors.CategoryFileIO).
			FileContext(idPath, int64(len(ids))).
			Build()
	}

	return csvPath, nil
}

func formatConfidence(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
