package forecast

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/theirongolddev/fcast/internal/model"
)

// ErrInvalidAssumptions is wrapped by every validation failure.
var ErrInvalidAssumptions = errors.New("invalid assumptions")

// FieldError is one rejected assumption field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists every problem found in a set of assumptions.
type ValidationError struct {
	Problems []FieldError `json:"problems"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+": "+p.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidAssumptions, strings.Join(parts, "; "))
}

// Unwrap returns ErrInvalidAssumptions so callers can use errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidAssumptions
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
			f := fl.Field().Float()
			return !math.IsNaN(f) && !math.IsInf(f, 0)
		})
		validate = v
	})
	return validate
}

// Validate rejects assumptions the engine cannot project faithfully. It runs
// the struct tag rules and then the cross-field rules tags cannot express.
func Validate(a model.Assumptions) error {
	var problems []FieldError

	if err := structValidator().Struct(a); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validating assumptions: %w", err)
		}
		for _, fe := range verrs {
			problems = append(problems, FieldError{
				Field:  trimRoot(fe.Namespace()),
				Reason: describeTag(fe),
			})
		}
	}

	problems = append(problems, checkVariant(a.Metadata)...)
	problems = append(problems, checkCOGS(a)...)
	problems = append(problems, checkMarketing(a)...)
	problems = append(problems, checkGrowth(a.Growth)...)

	// Only project inputs whose individual fields are sound.
	if len(problems) == 0 {
		problems = checkProjection(a)
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func checkVariant(m model.Metadata) []FieldError {
	switch m.Kind {
	case model.PeriodicEvent:
		if m.Attendance == nil {
			return []FieldError{{Field: "metadata.attendance", Reason: "required for periodic events"}}
		}
	case model.ContinuousBusiness:
		if m.Attendance != nil {
			return []FieldError{{Field: "metadata.attendance", Reason: "only periodic events carry attendance drivers"}}
		}
	}
	return nil
}

func checkCOGS(a model.Assumptions) []FieldError {
	var problems []FieldError
	streams := make(map[string]bool, len(a.RevenueStreams))
	for _, s := range a.RevenueStreams {
		streams[s.Name] = true
	}

	seen := make(map[model.COGSLine]string)
	for i, c := range a.CostCategories {
		field := fmt.Sprintf("costCategories[%d]", i)
		if c.Role != model.RoleCOGS {
			if c.COGSLine != "" || c.LinkedStream != "" {
				problems = append(problems, FieldError{Field: field, Reason: "cogsLine and linkedStream require role cogs"})
			}
			continue
		}
		if c.COGSLine == "" {
			problems = append(problems, FieldError{Field: field + ".cogsLine", Reason: "required for cogs categories"})
			continue
		}
		if prev, dup := seen[c.COGSLine]; dup {
			problems = append(problems, FieldError{
				Field:  field + ".cogsLine",
				Reason: fmt.Sprintf("%s is already computed by %q", c.COGSLine, prev),
			})
		}
		seen[c.COGSLine] = c.Name
		if c.LinkedStream != "" && !streams[c.LinkedStream] {
			problems = append(problems, FieldError{
				Field:  field + ".linkedStream",
				Reason: fmt.Sprintf("no revenue stream named %q", c.LinkedStream),
			})
		}
	}
	return problems
}

func checkMarketing(a model.Assumptions) []FieldError {
	plan := a.Marketing
	switch plan.Mode {
	case model.MarketingChannels:
		if len(plan.Channels) == 0 {
			return []FieldError{{Field: "marketingPlan.channels", Reason: "at least one channel is required in channels mode"}}
		}
		return nil
	case model.MarketingHighLevel:
	default:
		return nil
	}
	switch plan.Application {
	case "":
		return []FieldError{{Field: "marketingPlan.application", Reason: "required for high_level plans"}}
	case model.ApplySpreadCustom:
		if plan.SpreadDurationPeriods <= 0 {
			return []FieldError{{Field: "marketingPlan.spreadDurationPeriods", Reason: "must be greater than 0 for spread_custom"}}
		}
	}
	return nil
}

func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "finite":
		return "must be a finite number"
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "unique":
		return "names must be unique"
	default:
		return "failed " + fe.Tag()
	}
}

// ValidateActual rejects an actual entry that cannot be stored. Entries whose
// period falls outside a forecast are still accepted here; merging reports them.
func ValidateActual(e model.ActualPeriodEntry) error {
	var problems []FieldError
	if e.Period < 1 {
		problems = append(problems, FieldError{Field: "period", Reason: "must be >= 1"})
	}
	switch e.PeriodUnit {
	case model.Week, model.Month:
	default:
		problems = append(problems, FieldError{Field: "periodUnit", Reason: "must be one of: week month"})
	}
	if n := len([]rune(e.Notes)); n > model.MaxNotesLength {
		problems = append(problems, FieldError{Field: "notes", Reason: fmt.Sprintf("%d characters exceeds the %d limit", n, model.MaxNotesLength)})
	}
	if e.AttendanceActual != nil && *e.AttendanceActual < 0 {
		problems = append(problems, FieldError{Field: "attendanceActual", Reason: "must be >= 0"})
	}
	for _, m := range []struct {
		field   string
		amounts map[string]float64
	}{{"revenueActuals", e.RevenueActuals}, {"costActuals", e.CostActuals}} {
		for k, v := range m.amounts {
			switch {
			case math.IsNaN(v) || math.IsInf(v, 0):
				problems = append(problems, FieldError{Field: m.field + "." + k, Reason: "must be a finite number"})
			case v < 0:
				problems = append(problems, FieldError{Field: m.field + "." + k, Reason: "must be >= 0"})
			}
		}
	}
	if len(problems) > 0 {
		sort.Slice(problems, func(i, j int) bool { return problems[i].Field < problems[j].Field })
		return &ValidationError{Problems: problems}
	}
	return nil
}
