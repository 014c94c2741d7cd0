package store

import (
	"database/sql"
	"errors"
	"time"
)

// Event is one recognition result persisted from the pipeline.
type Event struct {
	ID          string
	SessionID   string
	Handedness  string
	ShapeLabel  string
	MotionLabel string
	XMin        int
	YMin        int
	XMax        int
	YMax        int
	CreatedAt   time.Time
}

// EventRepository provides access to the recognition event log.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts a new event into the database.
func (r *EventRepository) Create(e *Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO events (id, session_id, handedness, shape_label, motion_label,
		                     x_min, y_min, x_max, y_max, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.Handedness, e.ShapeLabel, e.MotionLabel,
		e.XMin, e.YMin, e.XMax, e.YMax, e.CreatedAt,
	)
	return err
}

// GetByID retrieves an event by its ID.
func (r *EventRepository) GetByID(id string) (*Event, error) {
	e := &Event{}

	err := r.db.QueryRow(
		`SELECT id, session_id, handedness, shape_label, motion_label,
		        x_min, y_min, x_max, y_max, created_at
		 FROM events WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.SessionID, &e.Handedness, &e.ShapeLabel, &e.MotionLabel,
		&e.XMin, &e.YMin, &e.XMax, &e.YMax, &e.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return e, nil
}

// ListRecent retrieves the most recent events, newest first.
func (r *EventRepository) ListRecent(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, session_id, handedness, shape_label, motion_label,
		        x_min, y_min, x_max, y_max, created_at
		 FROM events ORDER BY created_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListBySession retrieves events for one session, newest first.
func (r *EventRepository) ListBySession(sessionID string, limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, session_id, handedness, shape_label, motion_label,
		        x_min, y_min, x_max, y_max, created_at
		 FROM events WHERE session_id = ? ORDER BY created_at DESC, id LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// PruneBefore deletes events created before the cutoff time and returns
// the number of rows removed.
func (r *EventRepository) PruneBefore(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanEvents(rows *sql.Rows) ([]*Event, error) {
	var events []*Event
	for rows.Next() {
		e := &Event{}
		err := rows.Scan(&e.ID, &e.SessionID, &e.Handedness, &e.ShapeLabel, &e.MotionLabel,
			&e.XMin, &e.YMin, &e.XMax, &e.YMax, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
