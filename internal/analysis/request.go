package analysis

import (
	"strings"

	"robotadvisor/internal/core"
)

// RequiredFields are the keys a caller must supply to start an analysis.
var RequiredFields = []string{"video_uri", "human_cost_min", "depreciation_years", "hours_per_week", "efficiency_gain"}

// RequestFromFields builds a Request from loosely typed caller input, as
// decoded from a JSON body or tool arguments. Numbers may arrive as numeric
// strings. Errors are *InputError values.
func RequestFromFields(fields map[string]any) (Request, error) {
	var missing []string
	for _, name := range RequiredFields {
		if v, ok := fields[name]; !ok || v == nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return Request{}, invalidInput("Missing required fields: %s", strings.Join(missing, ", "))
	}

	uri, ok := fields["video_uri"].(string)
	if !ok || !strings.HasPrefix(uri, "gs://") {
		return Request{}, invalidInput("Invalid video_uri: Must be a string starting with gs://")
	}

	req := Request{VideoURI: uri}
	numbers := []struct {
		name string
		dst  *float64
	}{
		{"human_cost_min", &req.HumanCostMin},
		{"depreciation_years", &req.DepreciationYears},
		{"hours_per_week", &req.HoursPerWeek},
		{"efficiency_gain", &req.EfficiencyGainPercent},
	}
	for _, n := range numbers {
		v, ok := core.ParseNumber(fields[n.name])
		if !ok {
			return Request{}, invalidInput("Invalid numerical input: %s must be a number", n.name)
		}
		*n.dst = v
	}
	if _, err := req.FinancialParameters(); err != nil {
		return Request{}, err
	}
	return req, nil
}
