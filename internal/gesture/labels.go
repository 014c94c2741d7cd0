package gesture

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// Sentinel labels used in place of failing when classifier output or
// pipeline state is out of expected range.
const (
	// LabelUnknown is returned when a classifier reports a class index
	// past the end of the label list.
	LabelUnknown = "Unknown"

	// LabelNoMotion is the motion label while a hand's point history has
	// not yet filled a full window.
	LabelNoMotion = "None"
)

// Label lists shipped with the default classifiers. Deployments with
// retrained models override these through the database or CSV files.
var (
	DefaultShapeLabels  = []string{"Open", "Close", "Pointer", "OK"}
	DefaultMotionLabels = []string{"Stop", "Clockwise", "Counter Clockwise", "Move"}
)

// LabelSet is an ordered, immutable list of class labels. The position of
// each label defines its class index.
type LabelSet struct {
	labels []string
}

// NewLabelSet creates a LabelSet from an ordered list of labels.
func NewLabelSet(labels []string) LabelSet {
	owned := make([]string, len(labels))
	copy(owned, labels)
	return LabelSet{labels: owned}
}

// Lookup maps a class index to its label. Indices outside the list map to
// LabelUnknown rather than indexing out of bounds.
func (s LabelSet) Lookup(index int) string {
	if index < 0 || index >= len(s.labels) {
		return LabelUnknown
	}
	return s.labels[index]
}

// Labels returns a copy of the ordered label list.
func (s LabelSet) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Len returns the number of labels in the set.
func (s LabelSet) Len() int {
	return len(s.labels)
}

// LoadLabelsCSV reads an ordered label list from a CSV file, one label per
// row in the first column. Row order defines the index-to-label mapping.
// A UTF-8 byte order mark on the first row is stripped.
func LoadLabelsCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open label file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse label file %s: %w", path, err)
	}

	var labels []string
	for _, record := range records {
		if len(record) == 0 {
			continue
		}
		label := strings.TrimPrefix(record[0], "\ufeff")
		if label == "" {
			continue
		}
		labels = append(labels, label)
	}

	if len(labels) == 0 {
		return nil, fmt.Errorf("label file %s contains no labels", path)
	}
	return labels, nil
}
