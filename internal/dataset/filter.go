package dataset

import (
	"fmt"
	"sort"
	"strconv"
)

// Selected is one image chosen for the few-shot target set.
type Selected struct {
	ImageID            string // 5-digit zero-padded id, e.g. "00042"
	ImageNumber        int
	Filename           string // ImageID + ".png"
	AgeGroup           string
	AgeGroupConfidence float64
	Gender             string
	GenderConfidence   float64
}

// Selection is an ordered set of selected images.
type Selection []Selected

// FilterAgeGroup keeps the labels whose age group matches group exactly,
// ordered by image number. Image ids follow the dataset convention of
// 5-digit zero padding.
func FilterAgeGroup(labels []Label, group string) Selection {
	var sel Selection
	for _, l := range labels {
		if l.AgeGroup != group {
			continue
		}
		id := fmt.Sprintf("%05d", l.ImageNumber)
		sel = append(sel, Selected{
			ImageID:            id,
			ImageNumber:        l.ImageNumber,
			Filename:           id + ".png",
			AgeGroup:           l.AgeGroup,
			AgeGroupConfidence: l.AgeGroupConfidence,
			Gender:             l.Gender,
			GenderConfidence:   l.GenderConfidence,
		})
	}
	sort.Slice(sel, func(i, j int) bool { return sel[i].ImageNumber < sel[j].ImageNumber })
	return sel
}

// FilterMaxAge keeps the metadata records with an age strictly below
// maxAge years, ordered by image id.
func FilterMaxAge(records []MetadataRecord, maxAge float64) Selection {
	var sel Selection
	for _, r := range records {
		if r.Age >= maxAge {
			continue
		}
		number, err := strconv.Atoi(r.ImageID)
		if err != nil {
			// Non-numeric ids keep their literal form.
			number = -1
		}
		id := r.ImageID
		if number >= 0 {
			id = fmt.Sprintf("%05d", number)
		}
		sel = append(sel, Selected{
			ImageID:     id,
			ImageNumber: number,
			Filename:    id + ".png",
			Gender:      r.Gender,
		})
	}
	sort.Slice(sel, func(i, j int) bool {
		if sel[i].ImageNumber != sel[j].ImageNumber {
			return sel[i].ImageNumber < sel[j].ImageNumber
		}
		return sel[i].ImageID < sel[j].ImageID
	})
	return sel
}

// GenderDistribution returns a census of the gender labels in the selection.
func (s Selection) GenderDistribution() map[string]int {
	dist := make(map[string]int)
	for _, item := range s {
		dist[item.Gender]++
	}
	return dist
}
