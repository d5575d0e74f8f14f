package dataset

import (
	"encoding/json"
	"os"

	"github.com/tkivisto/fewshot-go/internal/errors"
)

// MetadataRecord is one image entry of the dataset JSON metadata.
type MetadataRecord struct {
	ImageID string
	Age     float64
	Gender  string
}

// metadataEntry mirrors the relevant slice of the dataset JSON structure:
// a map of image id to an object carrying a category block with age and
// gender annotations.
type metadataEntry struct {
	Category struct {
		Age    *float64 `json:"age"`
		Gender string   `json:"gender"`
	} `json:"category"`
}

// LoadMetadata parses the dataset JSON metadata file and returns the entries
// that carry an age annotation.
func LoadMetadata(path string) ([]MetadataRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryNotFound).
			FileContext(path, -1).
			Build()
	}

	var raw map[string]metadataEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Newf("parsing metadata JSON: %w", err).
			Category(errors.CategoryFileParsing).
			FileContext(path, int64(len(data))).
			Build()
	}

	records := make([]MetadataRecord, 0, len(raw))
	for id, entry := range raw {
		if entry.Category.Age == nil {
			continue
		}
		records = append(records, MetadataRecord{
			ImageID: id,
			Age:     *entry.Category.Age,
			Gender:  entry.Category.Gender,
		})
	}
	return records, nil
}
