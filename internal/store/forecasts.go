package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/fcast/internal/model"
)

// ForecastInfo is the listing view of a saved forecast.
type ForecastInfo struct {
	ID          string
	Name        string
	Kind        model.EventKind
	PeriodUnit  model.PeriodUnit
	PeriodCount int
	Actuals     int
	UpdatedAt   time.Time
}

// SaveModel inserts or replaces a forecast's assumptions and returns its ID.
// A forecast without an ID is given a new one.
func (s *Store) SaveModel(a model.Assumptions) (string, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	body, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("encoding forecast: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRow(s.rebind("SELECT COUNT(*) FROM forecasts WHERE id = ?"), a.ID).Scan(&exists)
	if err != nil {
		return "", fmt.Errorf("checking forecast %s: %w", a.ID, err)
	}

	m := a.Metadata
	now := s.timestamp()
	if exists > 0 {
		_, err = tx.Exec(s.rebind(`UPDATE forecasts
			SET name = ?, event_kind = ?, period_unit = ?, period_count = ?, body = ?, updated_at = ?
			WHERE id = ?`),
			m.Name, string(m.Kind), string(m.PeriodUnit), m.PeriodCount, string(body), now, a.ID)
	} else {
		_, err = tx.Exec(s.rebind(`INSERT INTO forecasts
			(id, name, event_kind, period_unit, period_count, body, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`),
			a.ID, m.Name, string(m.Kind), string(m.PeriodUnit), m.PeriodCount, string(body), now)
	}
	if err != nil {
		return "", fmt.Errorf("saving forecast %s: %w", a.ID, err)
	}

	return a.ID, tx.Commit()
}

// LoadModel returns the assumptions saved under id.
func (s *Store) LoadModel(id string) (model.Assumptions, error) {
	var a model.Assumptions
	var body string
	err := s.db.QueryRow(s.rebind("SELECT body FROM forecasts WHERE id = ?"), id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return a, fmt.Errorf("forecast %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return a, fmt.Errorf("loading forecast %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(body), &a); err != nil {
		return a, fmt.Errorf("decoding forecast %s: %w", id, err)
	}
	a.ID = id
	return a, nil
}

// ListModels returns every saved forecast, most recently updated first.
func (s *Store) ListModels() ([]ForecastInfo, error) {
	rows, err := s.db.Query(`SELECT
		f.id, f.name, f.event_kind, f.period_unit, f.period_count, f.updated_at,
		(SELECT COUNT(*) FROM actuals a WHERE a.forecast_id = f.id)
		FROM forecasts f
		ORDER BY f.updated_at DESC, f.id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []ForecastInfo
	for rows.Next() {
		var fi ForecastInfo
		var kind, unit, updated string
		if err := rows.Scan(&fi.ID, &fi.Name, &kind, &unit, &fi.PeriodCount, &updated, &fi.Actuals); err != nil {
			return nil, err
		}
		fi.Kind = model.EventKind(kind)
		fi.PeriodUnit = model.PeriodUnit(unit)
		fi.UpdatedAt = parseTimestamp(updated)
		out = append(out, fi)
	}
	return out, rows.Err()
}

// DeleteModel removes a forecast and all of its actual entries.
func (s *Store) DeleteModel(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(s.rebind("DELETE FROM actuals WHERE forecast_id = ?"), id); err != nil {
		return fmt.Errorf("deleting actuals for %s: %w", id, err)
	}
	res, err := tx.Exec(s.rebind("DELETE FROM forecasts WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("deleting forecast %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("forecast %s: %w", id, ErrNotFound)
	}
	return tx.Commit()
}
