package store

// Each dialect gets its own DDL; statements are executed one at a time because
// neither the mysql nor the pgx driver accepts multi-statement Exec by default.

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS forecasts (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    event_kind    TEXT NOT NULL,
    period_unit   TEXT NOT NULL,
    period_count  INTEGER NOT NULL,
    body          TEXT NOT NULL,
    updated_at    TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS actuals (
    id            TEXT PRIMARY KEY,
    forecast_id   TEXT NOT NULL REFERENCES forecasts(id) ON DELETE CASCADE,
    period        INTEGER NOT NULL,
    period_unit   TEXT NOT NULL,
    body          TEXT NOT NULL,
    recorded_at   TEXT NOT NULL,
    UNIQUE (forecast_id, period)
)`,
	`CREATE INDEX IF NOT EXISTS idx_actuals_forecast ON actuals(forecast_id, period)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS forecasts (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    event_kind    TEXT NOT NULL,
    period_unit   TEXT NOT NULL,
    period_count  INTEGER NOT NULL,
    body          JSONB NOT NULL,
    updated_at    TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS actuals (
    id            TEXT PRIMARY KEY,
    forecast_id   TEXT NOT NULL REFERENCES forecasts(id) ON DELETE CASCADE,
    period        INTEGER NOT NULL,
    period_unit   TEXT NOT NULL,
    body          JSONB NOT NULL,
    recorded_at   TEXT NOT NULL,
    UNIQUE (forecast_id, period)
)`,
	`CREATE INDEX IF NOT EXISTS idx_actuals_forecast ON actuals(forecast_id, period)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS forecasts (
    id            VARCHAR(64) PRIMARY KEY,
    name          VARCHAR(255) NOT NULL,
    event_kind    VARCHAR(32) NOT NULL,
    period_unit   VARCHAR(16) NOT NULL,
    period_count  INT NOT NULL,
    body          JSON NOT NULL,
    updated_at    VARCHAR(40) NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS actuals (
    id            VARCHAR(64) PRIMARY KEY,
    forecast_id   VARCHAR(64) NOT NULL,
    period        INT NOT NULL,
    period_unit   VARCHAR(16) NOT NULL,
    body          JSON NOT NULL,
    recorded_at   VARCHAR(40) NOT NULL,
    UNIQUE KEY uq_actuals_period (forecast_id, period),
    CONSTRAINT fk_actuals_forecast FOREIGN KEY (forecast_id) REFERENCES forecasts(id) ON DELETE CASCADE
)`,
}
