package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Sample is one recorded feature vector, kept for offline classifier
// training. The vector is the normalized form the classifier would see,
// not raw landmark coordinates.
type Sample struct {
	ID         int64     `json:"id"`
	Kind       LabelKind `json:"kind"`
	LabelIndex int       `json:"label_index"`
	Vector     []float64 `json:"vector"`
	CreatedAt  time.Time `json:"created_at"`
}

// SampleRepository provides access to recorded training samples.
type SampleRepository struct {
	db *sql.DB
}

// Samples returns the sample repository for this store.
func (s *Store) Samples() *SampleRepository {
	return &SampleRepository{db: s.db}
}

// Create inserts a new sample and returns its assigned ID.
func (r *SampleRepository) Create(sample *Sample) error {
	vector, err := json.Marshal(sample.Vector)
	if err != nil {
		return fmt.Errorf("encode vector: %w", err)
	}

	if sample.CreatedAt.IsZero() {
		sample.CreatedAt = time.Now()
	}

	result, err := r.db.Exec(
		`INSERT INTO samples (kind, label_index, vector, created_at) VALUES (?, ?, ?, ?)`,
		string(sample.Kind), sample.LabelIndex, string(vector), sample.CreatedAt,
	)
	if err != nil {
		return err
	}

	sample.ID, err = result.LastInsertId()
	return err
}

// ListByLabel retrieves all samples for a classifier kind and class index,
// oldest first.
func (r *SampleRepository) ListByLabel(kind LabelKind, labelIndex int) ([]Sample, error) {
	rows, err := r.db.Query(
		`SELECT id, kind, label_index, vector, created_at
		 FROM samples WHERE kind = ? AND label_index = ? ORDER BY id`,
		string(kind), labelIndex,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSamples(rows)
}

// ListByKind retrieves all samples for a classifier kind, oldest first.
func (r *SampleRepository) ListByKind(kind LabelKind) ([]Sample, error) {
	rows, err := r.db.Query(
		`SELECT id, kind, label_index, vector, created_at
		 FROM samples WHERE kind = ? ORDER BY id`,
		string(kind),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSamples(rows)
}

// CountByKind returns the number of stored samples for a classifier kind.
func (r *SampleRepository) CountByKind(kind LabelKind) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM samples WHERE kind = ?`, string(kind),
	).Scan(&count)
	return count, err
}

// DeleteByLabel removes all samples for a classifier kind and class index.
func (r *SampleRepository) DeleteByLabel(kind LabelKind, labelIndex int) error {
	_, err := r.db.Exec(
		`DELETE FROM samples WHERE kind = ? AND label_index = ?`,
		string(kind), labelIndex,
	)
	return err
}

func scanSamples(rows *sql.Rows) ([]Sample, error) {
	var samples []Sample
	for rows.Next() {
		var s Sample
		var kind, vector string
		if err := rows.Scan(&s.ID, &kind, &s.LabelIndex, &vector, &s.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(vector), &s.Vector); err != nil {
			return nil, fmt.Errorf("decode vector for sample %d: %w", s.ID, err)
		}
		s.Kind = LabelKind(kind)
		samples = append(samples, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}
