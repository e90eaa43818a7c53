package store

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/theirongolddev/fcast/internal/model"
)

// actualBody is the JSON column for an actual entry.
type actualBody struct {
	RevenueActuals   map[string]float64 `json:"revenueActuals,omitempty"`
	CostActuals      map[string]float64 `json:"costActuals,omitempty"`
	AttendanceActual *int               `json:"attendanceActual,omitempty"`
	Notes            string             `json:"notes,omitempty"`
}

// SaveActual stores an entry for a forecast, replacing any entry already
// recorded for the same period. It returns the stored entry with its ID and
// record time filled in.
func (s *Store) SaveActual(forecastID string, e model.ActualPeriodEntry) (model.ActualPeriodEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = s.now().UTC()
	}
	body, err := json.Marshal(actualBody{
		RevenueActuals:   e.RevenueActuals,
		CostActuals:      e.CostActuals,
		AttendanceActual: e.AttendanceActual,
		Notes:            e.Notes,
	})
	if err != nil {
		return e, fmt.Errorf("encoding actual: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return e, err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRow(s.rebind("SELECT COUNT(*) FROM forecasts WHERE id = ?"), forecastID).Scan(&exists); err != nil {
		return e, fmt.Errorf("checking forecast %s: %w", forecastID, err)
	}
	if exists == 0 {
		return e, fmt.Errorf("forecast %s: %w", forecastID, ErrNotFound)
	}

	if _, err := tx.Exec(s.rebind("DELETE FROM actuals WHERE forecast_id = ? AND period = ?"), forecastID, e.Period); err != nil {
		return e, fmt.Errorf("replacing period %d: %w", e.Period, err)
	}
	_, err = tx.Exec(s.rebind(`INSERT INTO actuals
		(id, forecast_id, period, period_unit, body, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)`),
		e.ID, forecastID, e.Period, string(e.PeriodUnit), string(body), e.RecordedAt.UTC().Format(timeLayout))
	if err != nil {
		return e, fmt.Errorf("saving period %d: %w", e.Period, err)
	}

	return e, tx.Commit()
}

// LoadActuals returns a forecast's entries ordered by period, then record time.
func (s *Store) LoadActuals(forecastID string) ([]model.ActualPeriodEntry, error) {
	rows, err := s.db.Query(s.rebind(`SELECT id, period, period_unit, body, recorded_at
		FROM actuals WHERE forecast_id = ?
		ORDER BY period, recorded_at`), forecastID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.ActualPeriodEntry
	for rows.Next() {
		var e model.ActualPeriodEntry
		var unit, body, recorded string
		if err := rows.Scan(&e.ID, &e.Period, &unit, &body, &recorded); err != nil {
			return nil, err
		}
		var b actualBody
		if err := json.Unmarshal([]byte(body), &b); err != nil {
			return nil, fmt.Errorf("decoding actual %s: %w", e.ID, err)
		}
		e.PeriodUnit = model.PeriodUnit(unit)
		e.RevenueActuals = b.RevenueActuals
		e.CostActuals = b.CostActuals
		e.AttendanceActual = b.AttendanceActual
		e.Notes = b.Notes
		e.RecordedAt = parseTimestamp(recorded)
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteActual removes the entry recorded for one period of a forecast.
func (s *Store) DeleteActual(forecastID string, period int) error {
	res, err := s.db.Exec(s.rebind("DELETE FROM actuals WHERE forecast_id = ? AND period = ?"), forecastID, period)
	if err != nil {
		return fmt.Errorf("deleting period %d: %w", period, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("forecast %s period %d: %w", forecastID, period, ErrNotFound)
	}
	return nil
}

// ActualCount returns the number of entries stored for a forecast.
func (s *Store) ActualCount(forecastID string) (int, error) {
	var n int
	err := s.db.QueryRow(s.rebind("SELECT COUNT(*) FROM actuals WHERE forecast_id = ?"), forecastID).Scan(&n)
	return n, err
}
