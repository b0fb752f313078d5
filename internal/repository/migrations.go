package repository

import "database/sql"

// migrate runs all schema migrations. Statements are idempotent so opening an
// already-migrated database is a no-op.
func migrate(db *sql.DB) error {
	migrations := []string{
		// Raw time-series samples, one row per (metric, instant).
		// Timestamps are RFC 3339 UTC strings. Sentinel values (stress -1/-2)
		// are stored as-is and only filtered at extraction time.
		`CREATE TABLE IF NOT EXISTS samples (
			metric_kind TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			value REAL NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (metric_kind, timestamp)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_samples_kind_ts ON samples(metric_kind, timestamp)`,

		// One sleep session per wake date, replaced wholesale on sync.
		`CREATE TABLE IF NOT EXISTS sleep_sessions (
			date TEXT PRIMARY KEY,
			sleep_start TEXT,
			sleep_end TEXT,
			total_sleep_seconds INTEGER,
			deep_sleep_seconds INTEGER,
			light_sleep_seconds INTEGER,
			rem_sleep_seconds INTEGER,
			awake_seconds INTEGER,
			sleep_score INTEGER,
			avg_overnight_hrv REAL,
			avg_overnight_spo2 REAL,
			stage_transitions TEXT,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Activities keyed by the source's external ID; attribution to a day
		// is a consumer decision based on start/end instants.
		`CREATE TABLE IF NOT EXISTS activities (
			external_id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			duration_seconds INTEGER,
			avg_hr INTEGER,
			max_hr INTEGER,
			calories INTEGER,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_start ON activities(start_time)`,

		// Open-ended habit records, one per (date, name).
		`CREATE TABLE IF NOT EXISTS daily_habits (
			date TEXT NOT NULL,
			habit_name TEXT NOT NULL,
			habit_value TEXT NOT NULL,
			value_kind TEXT,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (date, habit_name)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_daily_habits_date ON daily_habits(date)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}
