// Package dataset curates the few-shot target set: it filters a face dataset
// for children in a given age group using age-label metadata, writes a
// selection manifest and copies the matching images.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/tkivisto/fewshot-go/internal/errors"
)

// Label is one row of the aging-labels CSV.
type Label struct {
	ImageNumber        int
	AgeGroup           string
	AgeGroupConfidence float64
	Gender             string
	GenderConfidence   float64
}

// label CSV column names
const (
	colImageNumber        = "image_number"
	colAgeGroup           = "age_group"
	colAgeGroupConfidence = "age_group_confidence"
	colGender             = "gender"
	colGenderConfidence   = "gender_confidence"
)

// LoadLabels parses the aging-labels CSV. The file must carry a header row
// naming at least image_number and age_group; confidence and gender columns
// are optional and default to zero values.
func LoadLabels(path string) ([]Label, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryNotFound).
			FileContext(path, -1).
			Build()
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, errors.Newf("reading label header: %w", err).
			Category(errors.CategoryFileParsing).
			FileContext(path, -1).
			Build()
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{colImageNumber, colAgeGroup} {
		if _, ok := col[required]; !ok {
			return nil, errors.Newf("label file is missing the %q column", required).
				Category(errors.CategoryFileParsing).
				FileContext(path, -1).
				Build()
		}
	}

	var labels []Label
	row := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, errors.Newf("reading label row %d: %w", row, err).
				Category(errors.CategoryFileParsing).
				FileContext(path, -1).
				Build()
		}

		number, err := strconv.Atoi(record[col[colImageNumber]])
		if err != nil {
			return nil, errors.Newf("label row %d: invalid image number %q", row, record[col[colImageNumber]]).
				Category(errors.CategoryFileParsing).
				FileContext(path, -1).
				Build()
		}

		label := Label{
			ImageNumber: number,
			AgeGroup:    record[col[colAgeGroup]],
		}
		if i, ok := col[colAgeGroupConfidence]; ok {
			label.AgeGroupConfidence, _ = strconv.ParseFloat(record[i], 64)
		}
		if i, ok := col[colGender]; ok {
			label.Gender = record[i]
		}
		if i, ok := col[colGenderConfidence]; ok {
			label.GenderConfidence, _ = strconv.ParseFloat(record[i], 64)
		}
		labels = append(labels, label)
	}

	return labels, nil
}
