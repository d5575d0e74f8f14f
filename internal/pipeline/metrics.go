package pipeline

import (
	"encoding/json"
	"os"

	"github.com/tkivisto/fewshot-go/internal/errors"
)

// Metrics are the evaluation scores written by the scoring tool.
type Metrics struct {
	FID        float64 `json:"fid"`
	IntraLPIPS float64 `json:"intra_lpips"`
}

// loadMetrics parses the metrics JSON produced by the evaluate stage.
func loadMetrics(path string) (*Metrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryNotFound).
			FileContext(path, -1).
			Build()
	}

	var m Metrics
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Newf("parsing metrics file: %w", err).
			Category(errors.CategoryFileParsing).
			FileContext(path, int64(len(data))).
			Build()
	}
	return &m, nil
}
