package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Labels table - ordered class label lists per classifier kind.
		// Position defines the class index the classifier emits.
		`CREATE TABLE IF NOT EXISTS labels (
			kind TEXT NOT NULL CHECK(kind IN ('shape', 'motion')),
			position INTEGER NOT NULL,
			label TEXT NOT NULL,
			PRIMARY KEY (kind, position)
		)`,

		// Events table - recognition results produced by the pipeline
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			handedness TEXT NOT NULL,
			shape_label TEXT NOT NULL,
			motion_label TEXT NOT NULL,
			x_min INTEGER NOT NULL,
			y_min INTEGER NOT NULL,
			x_max INTEGER NOT NULL,
			y_max INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Samples table - recorded feature vectors for offline training
		`CREATE TABLE IF NOT EXISTS samples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL CHECK(kind IN ('shape', 'motion')),
			label_index INTEGER NOT NULL,
			vector TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Actions table - plugin actions to execute when a shape label is recognized
		`CREATE TABLE IF NOT EXISTS actions (
			id TEXT PRIMARY KEY,
			shape_label TEXT NOT NULL,
			plugin_name TEXT NOT NULL,
			action_name TEXT NOT NULL,
			config TEXT NOT NULL DEFAULT '{}',
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_events_session_id ON events(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_created_at ON events(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_samples_kind_label ON samples(kind, label_index)`,
		`CREATE INDEX IF NOT EXISTS idx_actions_shape_label ON actions(shape_label)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
