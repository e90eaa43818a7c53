package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v2"

	"github.com/theirongolddev/fcast/internal/model"
)

// LoadAssumptions reads a forecast assumptions file. The format is chosen by
// extension. The result is not validated; the engine does that before running.
func LoadAssumptions(path string) (model.Assumptions, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the user
	if err != nil {
		return model.Assumptions{}, fmt.Errorf("reading assumptions: %w", err)
	}
	a, err := DecodeAssumptions(data, FormatOf(path))
	if err != nil {
		return a, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// DecodeAssumptions decodes assumptions in the given format and normalizes
// enum spellings.
func DecodeAssumptions(data []byte, format Format) (model.Assumptions, error) {
	var a model.Assumptions

	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &a)
		if err != nil {
			return a, fmt.Errorf("parsing toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return a, fmt.Errorf("unknown toml key %q", undecoded[0].String())
		}
	case FormatYAML:
		if err := yaml.UnmarshalStrict(data, &a); err != nil {
			return a, fmt.Errorf("parsing yaml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&a); err != nil {
			return a, fmt.Errorf("parsing json: %w", err)
		}
	case FormatHJSON:
		// hjson decodes through its JSON mapping, so json tags apply.
		var raw interface{}
		if err := hjson.Unmarshal(data, &raw); err != nil {
			return a, fmt.Errorf("parsing hjson: %w", err)
		}
		js, err := json.Marshal(raw)
		if err != nil {
			return a, fmt.Errorf("converting hjson: %w", err)
		}
		if err := json.Unmarshal(js, &a); err != nil {
			return a, fmt.Errorf("parsing hjson: %w", err)
		}
	default:
		return a, fmt.Errorf("unsupported assumptions format %q (want toml, yaml, json or hjson)", format)
	}

	Normalize(&a)
	return a, nil
}

// EncodeAssumptions writes assumptions in the given format.
func EncodeAssumptions(a model.Assumptions, format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(a); err != nil {
			return nil, fmt.Errorf("encoding toml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatYAML:
		return yaml.Marshal(a)
	case FormatJSON:
		return json.MarshalIndent(a, "", "  ")
	case FormatHJSON:
		return hjson.Marshal(a)
	default:
		return nil, fmt.Errorf("unsupported assumptions format %q", format)
	}
}

// enumAliases maps alternative spellings seen in hand-written files to the
// canonical enum values.
var enumAliases = map[string]string{
	"periodicevent":      string(model.PeriodicEvent),
	"continuousbusiness": string(model.ContinuousBusiness),
	"fixedonetime":       string(model.StreamFixed),
	"onetime":            string(model.StreamFixed),
	"driverbased":        string(model.StreamDriver),
	"variable":           string(model.CostRecurring),
	"highlevel":          string(model.MarketingHighLevel),
	"spreadevenly":       string(model.ApplySpreadEvenly),
	"spreadcustom":       string(model.ApplySpreadCustom),
	"foodbeverage":       string(model.COGSFoodBeverage),
	"fb":                 string(model.COGSFoodBeverage),
	"cogslinked":         string(model.RoleCOGS),
	"weekly":             string(model.Week),
	"monthly":            string(model.Month),
}

func canon(s string) string {
	if s == "" {
		return s
	}
	key := strings.NewReplacer("_", "", "-", "", " ", "", "&", "").Replace(strings.ToLower(s))
	if v, ok := enumAliases[key]; ok {
		return v
	}
	return strings.ToLower(s)
}

// Normalize rewrites enum fields to their canonical spelling in place.
func Normalize(a *model.Assumptions) {
	m := &a.Metadata
	m.Kind = model.EventKind(canon(string(m.Kind)))
	m.PeriodUnit = model.PeriodUnit(canon(string(m.PeriodUnit)))
	a.Growth.Kind = model.GrowthKind(canon(string(a.Growth.Kind)))

	for i := range a.RevenueStreams {
		s := &a.RevenueStreams[i]
		s.Kind = model.StreamKind(canon(string(s.Kind)))
		s.Driver = model.SpendDriver(canon(string(s.Driver)))
	}
	for i := range a.CostCategories {
		c := &a.CostCategories[i]
		c.Kind = model.CostKind(canon(string(c.Kind)))
		c.Category = model.CostGroup(canon(string(c.Category)))
		c.Role = model.CostRole(canon(string(c.Role)))
		c.COGSLine = model.COGSLine(canon(string(c.COGSLine)))
	}

	mp := &a.Marketing
	mp.Mode = model.MarketingMode(canon(string(mp.Mode)))
	mp.Application = model.BudgetApplication(canon(string(mp.Application)))
	if mp.Mode == "" {
		mp.Mode = model.MarketingNone
	}
}
