package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/source"
)

// errNoForecast is returned when neither a file nor a saved forecast is selected.
var errNoForecast = errors.New("no forecast selected: pass --assumptions FILE or --forecast ID (see `fcast model list`)")

// forecastRef is what the user pointed at: an assumptions file or a stored ID.
type forecastRef struct {
	Path string
	ID   string
}

func (r forecastRef) String() string {
	if r.Path != "" {
		return r.Path
	}
	return "forecast " + r.ID
}

// resolveForecastRef picks the forecast from flags, falling back to the
// configured default, which may be either a file path or a stored ID.
func resolveForecastRef() (forecastRef, error) {
	switch {
	case flagAssumptions != "" && flagForecast != "":
		return forecastRef{}, errors.New("use either --assumptions or --forecast, not both")
	case flagAssumptions != "":
		return forecastRef{Path: flagAssumptions}, nil
	case flagForecast != "":
		return forecastRef{ID: flagForecast}, nil
	}

	def := appConfig.General.DefaultForecast
	if def == "" {
		return forecastRef{}, errNoForecast
	}
	if _, err := os.Stat(def); err == nil {
		return forecastRef{Path: def}, nil
	}
	return forecastRef{ID: def}, nil
}

// loadInputs resolves the selected forecast and gathers its actuals from the
// store and any --actuals files, in that order.
func loadInputs(ctx context.Context) (model.Assumptions, []model.ActualPeriodEntry, error) {
	if err := ctx.Err(); err != nil {
		return model.Assumptions{}, nil, err
	}

	ref, err := resolveForecastRef()
	if err != nil {
		return model.Assumptions{}, nil, err
	}

	var (
		a       model.Assumptions
		actuals []model.ActualPeriodEntry
	)

	if ref.Path != "" {
		a, err = source.LoadAssumptions(ref.Path)
		if err != nil {
			return a, nil, err
		}
		if a.ID != "" && !flagNoStore {
			stored, err := storedActuals(a.ID)
			if err != nil {
				slog.Debug("store actuals unavailable", "forecast", a.ID, "error", err)
			}
			actuals = append(actuals, stored...)
		}
	} else {
		st, err := openStore()
		if err != nil {
			return a, nil, err
		}
		defer func() { _ = st.Close() }()

		a, err = st.LoadModel(ref.ID)
		if err != nil {
			return a, nil, err
		}
		if !flagNoStore {
			stored, err := st.LoadActuals(ref.ID)
			if err != nil {
				return a, nil, err
			}
			actuals = append(actuals, stored...)
		}
	}

	for _, path := range flagActuals {
		res, err := source.LoadActuals(path)
		if err != nil {
			return a, nil, err
		}
		if res.ParseErrors > 0 {
			progressf("  Skipped %d malformed line(s) in %s\n", res.ParseErrors, path)
		}
		actuals = append(actuals, res.Entries...)
	}

	slog.Debug("inputs loaded", "source", ref.String(), "streams", len(a.RevenueStreams), "actuals", len(actuals))
	return a, actuals, nil
}

func storedActuals(forecastID string) ([]model.ActualPeriodEntry, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	defer func() { _ = st.Close() }()
	return st.LoadActuals(forecastID)
}

// describeSource is a one-line description of the current inputs.
func describeSource() string {
	ref, err := resolveForecastRef()
	if err != nil {
		return "(none)"
	}
	s := ref.String()
	if len(flagActuals) > 0 {
		s += fmt.Sprintf(" + %d actuals file(s)", len(flagActuals))
	}
	return s
}

// runForecast loads inputs, runs the engine and prints merge warnings to stderr.
func runForecast(ctx context.Context) (*forecast.Result, error) {
	a, actuals, err := loadInputs(ctx)
	if err != nil {
		return nil, err
	}
	res, err := forecast.Run(a, actuals)
	if err != nil {
		return nil, err
	}
	printWarnings(res.Warnings)
	return res, nil
}

func printWarnings(ws []model.Warning) {
	if flagQuiet || len(ws) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr)
	for _, w := range ws {
		fmt.Fprintln(os.Stderr, cli.RenderWarning(string(w.Code), warningText(w)))
	}
}

func warningText(w model.Warning) string {
	if w.Period > 0 {
		return fmt.Sprintf("period %d: %s", w.Period, w.Message)
	}
	return w.Message
}
