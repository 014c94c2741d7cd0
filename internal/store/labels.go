package store

import "database/sql"

// LabelKind identifies which classifier a label list belongs to.
type LabelKind string

const (
	// LabelKindShape is the static hand-shape classifier's label list.
	LabelKindShape LabelKind = "shape"
	// LabelKindMotion is the fingertip-motion classifier's label list.
	LabelKindMotion LabelKind = "motion"
)

// LabelRepository provides access to the ordered class label lists.
type LabelRepository struct {
	db *sql.DB
}

// Labels returns the label repository for this store.
func (s *Store) Labels() *LabelRepository {
	return &LabelRepository{db: s.db}
}

// List retrieves the ordered label list for a classifier kind.
// Returns an empty slice when no labels are stored.
func (r *LabelRepository) List(kind LabelKind) ([]string, error) {
	rows, err := r.db.Query(
		`SELECT label FROM labels WHERE kind = ? ORDER BY position`,
		string(kind),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return labels, nil
}

// Replace overwrites the label list for a classifier kind in a single
// transaction. Position in the slice becomes the class index.
func (r *LabelRepository) Replace(kind LabelKind, labels []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM labels WHERE kind = ?`, string(kind)); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO labels (kind, position, label) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, label := range labels {
		if _, err := stmt.Exec(string(kind), i, label); err != nil {
			return err
		}
	}

	return tx.Commit()
}
