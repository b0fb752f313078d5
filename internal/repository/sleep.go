package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hoombar/biosignal/internal/models"
)

type sleepRepository struct {
	db *sql.DB
}

// NewSleepRepository creates a SQLite-backed sleep session repository.
func NewSleepRepository(db *sql.DB) SleepRepository {
	return &sleepRepository{db: db}
}

// GetSleepSession returns the session attributed to the given wake date, or
// (nil, nil) when none exists.
func (r *sleepRepository) GetSleepSession(ctx context.Context, date time.Time) (*models.SleepSession, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT date, sleep_start, sleep_end, total_sleep_seconds,
			deep_sleep_seconds, light_sleep_seconds, rem_sleep_seconds,
			awake_seconds, sleep_score, avg_overnight_hrv, avg_overnight_spo2,
			stage_transitions
		FROM sleep_sessions
		WHERE date = ?
	`, formatDate(date))

	var (
		dateStr          string
		startStr, endStr sql.NullString
		total, deep      sql.NullInt64
		light, rem       sql.NullInt64
		awake, score     sql.NullInt64
		hrv, spo2        sql.NullFloat64
		stagesJSON       sql.NullString
	)
	err := row.Scan(&dateStr, &startStr, &endStr, &total, &deep, &light, &rem,
		&awake, &score, &hrv, &spo2, &stagesJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning sleep session: %w", err)
	}

	d, err := parseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing sleep date %q: %w", dateStr, err)
	}

	session := &models.SleepSession{
		Date:              d,
		TotalSleepSeconds: nullInt(total),
		DeepSleepSeconds:  nullInt(deep),
		LightSleepSeconds: nullInt(light),
		RemSleepSeconds:   nullInt(rem),
		AwakeSeconds:      nullInt(awake),
		SleepScore:        nullInt(score),
		AvgOvernightHRV:   nullFloat(hrv),
		AvgOvernightSpO2:  nullFloat(spo2),
	}

	if session.SleepStart, err = nullInstant(startStr); err != nil {
		return nil, fmt.Errorf("parsing sleep_start: %w", err)
	}
	if session.SleepEnd, err = nullInstant(endStr); err != nil {
		return nil, fmt.Errorf("parsing sleep_end: %w", err)
	}
	if stagesJSON.Valid && stagesJSON.String != "" {
		if err := json.Unmarshal([]byte(stagesJSON.String), &session.StageTransitions); err != nil {
			return nil, fmt.Errorf("decoding stage transitions: %w", err)
		}
	}

	return session, nil
}

// UpsertSleepSession replaces the session for its wake date wholesale.
func (r *sleepRepository) UpsertSleepSession(ctx context.Context, s *models.SleepSession) error {
	var stagesJSON any
	if len(s.StageTransitions) > 0 {
		encoded, err := json.Marshal(s.StageTransitions)
		if err != nil {
			return fmt.Errorf("encoding stage transitions: %w", err)
		}
		stagesJSON = string(encoded)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sleep_sessions (
			date, sleep_start, sleep_end, total_sleep_seconds,
			deep_sleep_seconds, light_sleep_seconds, rem_sleep_seconds,
			awake_seconds, sleep_score, avg_overnight_hrv, avg_overnight_spo2,
			stage_transitions, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(date) DO UPDATE SET
			sleep_start = excluded.sleep_start,
			sleep_end = excluded.sleep_end,
			total_sleep_seconds = excluded.total_sleep_seconds,
			deep_sleep_seconds = excluded.deep_sleep_seconds,
			light_sleep_seconds = excluded.light_sleep_seconds,
			rem_sleep_seconds = excluded.rem_sleep_seconds,
			awake_seconds = excluded.awake_seconds,
			sleep_score = excluded.sleep_score,
			avg_overnight_hrv = excluded.avg_overnight_hrv,
			avg_overnight_spo2 = excluded.avg_overnight_spo2,
			stage_transitions = excluded.stage_transitions,
			updated_at = CURRENT_TIMESTAMP
	`,
		formatDate(s.Date), instantOrNil(s.SleepStart), instantOrNil(s.SleepEnd),
		s.TotalSleepSeconds, s.DeepSleepSeconds, s.LightSleepSeconds,
		s.RemSleepSeconds, s.AwakeSeconds, s.SleepScore,
		s.AvgOvernightHRV, s.AvgOvernightSpO2, stagesJSON,
	)
	if err != nil {
		return fmt.Errorf("upserting sleep session for %s: %w", formatDate(s.Date), err)
	}
	return nil
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func nullInstant(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := parseInstant(v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func instantOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatInstant(*t)
}
