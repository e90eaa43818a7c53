// Package daemon provides the long-running forecast recompute service.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"
)

// Loader supplies fresh inputs for each recompute.
type Loader interface {
	Load(ctx context.Context) (model.Assumptions, []model.ActualPeriodEntry, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) (model.Assumptions, []model.ActualPeriodEntry, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context) (model.Assumptions, []model.ActualPeriodEntry, error) {
	return f(ctx)
}

// Config controls the daemon runtime behavior.
type Config struct {
	Source       string // description of where inputs come from, for status
	Loader       Loader
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	RateLimit    float64 // requests per second per client; 0 disables
	SentryDSN    string
	Logger       *slog.Logger
}

// Snapshot is a compact forecast state for status/event payloads.
type Snapshot struct {
	At                      time.Time `json:"at"`
	Forecast                string    `json:"forecast"`
	Periods                 int       `json:"periods"`
	PeriodsWithActuals      int       `json:"periods_with_actuals"`
	LatestPeriodWithActuals int       `json:"latest_period_with_actuals"`
	RevenueForecast         float64   `json:"revenue_forecast"`
	CostForecast            float64   `json:"cost_forecast"`
	ProfitForecast          float64   `json:"profit_forecast"`
	RevisedRevenue          float64   `json:"revised_revenue"`
	RevisedCost             float64   `json:"revised_cost"`
	RevisedProfit           float64   `json:"revised_profit"`
	RevisedMargin           float64   `json:"revised_margin"`
	Warnings                int       `json:"warnings"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	PeriodsWithActuals int     `json:"periods_with_actuals"`
	RevenueForecast    float64 `json:"revenue_forecast"`
	CostForecast       float64 `json:"cost_forecast"`
	RevisedRevenue     float64 `json:"revised_revenue"`
	RevisedCost        float64 `json:"revised_cost"`
	RevisedProfit      float64 `json:"revised_profit"`
	Warnings           int     `json:"warnings"`
}

func (d Delta) isZero() bool {
	return d.PeriodsWithActuals == 0 &&
		d.RevenueForecast == 0 &&
		d.CostForecast == 0 &&
		d.RevisedRevenue == 0 &&
		d.RevisedCost == 0 &&
		d.RevisedProfit == 0 &&
		d.Warnings == 0
}

// Event types.
const (
	EventSnapshot     = "snapshot"
	EventOutlookDelta = "outlook_delta"
)

// Event is emitted whenever the forecast snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	Source          string    `json:"source"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg    Config
	log    *slog.Logger
	sentry bool

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	result      *forecast.Result
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 15 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		cfg:       cfg,
		log:       logger,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}

	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: "daemon",
		})
		if err != nil {
			logger.Error("failed to initialize sentry", "error", err)
		} else {
			s.sentry = true
		}
	}
	return s
}

// Addr is the listen address after defaults are applied.
func (s *Service) Addr() string { return s.cfg.Addr }

// Interval is the recompute interval after defaults are applied.
func (s *Service) Interval() time.Duration { return s.cfg.Interval }

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	e := s.Handler()
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("daemon listening", "addr", s.cfg.Addr, "interval", s.cfg.Interval, "source", s.cfg.Source)

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if s.sentry {
				sentry.Flush(2 * time.Second)
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce(ctx)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// Recompute reloads inputs and re-runs the engine immediately.
func (s *Service) Recompute(ctx context.Context) error {
	return s.pollOnce(ctx)
}

func (s *Service) pollOnce(ctx context.Context) error {
	res, err := s.compute(ctx)
	now := time.Now()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.log.Error("poll failed", "error", err)
		if s.sentry {
			sentry.CaptureException(err)
		}
		return err
	}

	snap := snapshotFromResult(res, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.result = res
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      EventSnapshot,
			Timestamp: now,
			Snapshot:  snap,
		}
		publish = true
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      EventOutlookDelta,
			Timestamp: now,
			Snapshot:  snap,
			Delta:     delta,
		}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.log.Debug("forecast changed", "event", ev.Type, "revised_profit", snap.RevisedProfit)
		s.publishEvent(ev)
	}
	return nil
}

func (s *Service) compute(ctx context.Context) (*forecast.Result, error) {
	if s.cfg.Loader == nil {
		return nil, errors.New("no input loader configured")
	}
	a, actuals, err := s.cfg.Loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading inputs: %w", err)
	}
	res, err := forecast.Run(a, actuals)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func snapshotFromResult(res *forecast.Result, at time.Time) Snapshot {
	s := res.Summary
	name := res.Assumptions.Metadata.Name
	if name == "" {
		name = res.Assumptions.ID
	}
	return Snapshot{
		At:                      at,
		Forecast:                name,
		Periods:                 s.PeriodCount,
		PeriodsWithActuals:      s.PeriodsWithActuals,
		LatestPeriodWithActuals: s.LatestPeriodWithActuals,
		RevenueForecast:         s.TotalRevenueForecast,
		CostForecast:            s.TotalCostForecast,
		ProfitForecast:          s.TotalProfitForecast,
		RevisedRevenue:          s.RevisedTotalRevenue,
		RevisedCost:             s.RevisedTotalCost,
		RevisedProfit:           s.RevisedTotalProfit,
		RevisedMargin:           s.RevisedMargin,
		Warnings:                len(res.Warnings),
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		PeriodsWithActuals: curr.PeriodsWithActuals - prev.PeriodsWithActuals,
		RevenueForecast:    curr.RevenueForecast - prev.RevenueForecast,
		CostForecast:       curr.CostForecast - prev.CostForecast,
		RevisedRevenue:     curr.RevisedRevenue - prev.RevisedRevenue,
		RevisedCost:        curr.RevisedCost - prev.RevisedCost,
		RevisedProfit:      curr.RevisedProfit - prev.RevisedProfit,
		Warnings:           curr.Warnings - prev.Warnings,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		Source:          s.cfg.Source,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) latestResult() *forecast.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
