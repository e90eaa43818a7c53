package daemon

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"
)

// ForecastResponse is served at /v1/forecast.
type ForecastResponse struct {
	Periods  []model.PeriodProjection `json:"periods"`
	Summary  model.ForecastSummary    `json:"summary"`
	Warnings []model.Warning          `json:"warnings"`
}

// BreakdownResponse is served at /v1/breakdown.
type BreakdownResponse struct {
	Period int                   `json:"period"`
	Label  string                `json:"label"`
	Source string                `json:"source"`
	Shares []model.CategoryShare `json:"shares"`
}

// Handler builds the echo router for the daemon API.
func (s *Service) Handler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(s.log))
	if s.cfg.RateLimit > 0 {
		e.Use(rateLimiter(s.cfg.RateLimit))
	}

	e.GET("/healthz", s.handleHealth)
	v1 := e.Group("/v1")
	v1.GET("/status", s.handleStatus)
	v1.GET("/forecast", s.handleForecast)
	v1.GET("/breakdown", s.handleBreakdown)
	v1.POST("/recompute", s.handleRecompute)
	v1.GET("/events", s.handleEvents)
	v1.GET("/stream", s.handleStream)
	return e
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			level := slog.LevelDebug
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(c.Request().Context(), level, "request completed", attrs...)
			return nil
		},
	})
}

func rateLimiter(perSecond float64) echo.MiddlewareFunc {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: time.Minute,
	})
	return middleware.RateLimiter(store)
}

func (s *Service) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "ok\n")
}

func (s *Service) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleForecast(c echo.Context) error {
	res := s.latestResult()
	if res == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "no forecast computed yet")
	}
	warnings := res.Warnings
	if warnings == nil {
		warnings = []model.Warning{}
	}
	return c.JSON(http.StatusOK, ForecastResponse{
		Periods:  res.Periods,
		Summary:  res.Summary,
		Warnings: warnings,
	})
}

func (s *Service) handleBreakdown(c echo.Context) error {
	res := s.latestResult()
	if res == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "no forecast computed yet")
	}

	period := res.Summary.LatestPeriodWithActuals
	if period == 0 {
		period = 1
	}
	if q := c.QueryParam("period"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "period must be an integer")
		}
		period = n
	}
	src := forecast.CategorySource(c.QueryParam("source"))
	switch src {
	case "":
		src = forecast.SourceRevenue
	case forecast.SourceRevenue, forecast.SourceCost:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "source must be revenue or cost")
	}

	p, ok := res.Period(period)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("period %d is outside 1..%d", period, len(res.Periods)))
	}
	shares := forecast.Breakdown(p, src)
	if shares == nil {
		shares = []model.CategoryShare{}
	}
	return c.JSON(http.StatusOK, BreakdownResponse{
		Period: p.Period,
		Label:  p.Label,
		Source: string(src),
		Shares: shares,
	})
}

func (s *Service) handleRecompute(c echo.Context) error {
	if err := s.Recompute(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(c echo.Context) error {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	return c.JSON(http.StatusOK, events)
}

func (s *Service) handleStream(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	writeSSE(w, Event{
		Type:      EventSnapshot,
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	})
	w.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-ch:
			writeSSE(w, ev)
			w.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if ev.ID > 0 {
		_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
