package yahoo

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"finhealth/pkg/core/table"
	"finhealth/pkg/core/utils"
)

// timeseriesKeys maps canonical line-item names onto the endpoint's request
// keys: "annual" plus the name with spaces removed.
func timeseriesKeys(fields []string) []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = "annual" + strings.ReplaceAll(f, " ", "")
	}
	return keys
}

// fieldForKey inverts timeseriesKeys for one response series.
func fieldForKey(key string, fields []string) (string, bool) {
	for _, f := range fields {
		if key == "annual"+strings.ReplaceAll(f, " ", "") {
			return f, true
		}
	}
	return "", false
}

type timeseriesEnvelope struct {
	Timeseries struct {
		Result []map[string]json.RawMessage `json:"result"`
		Error  *apiError                    `json:"error"`
	} `json:"timeseries"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type seriesMeta struct {
	Type []string `json:"type"`
}

type seriesPoint struct {
	AsOfDate      string `json:"asOfDate"`
	ReportedValue *struct {
		Raw *float64 `json:"raw"`
	} `json:"reportedValue"`
}

// decodeTimeseries turns a fundamentals-timeseries response into a raw
// statement table. Each result element carries one line-item series under a
// dynamic key named after its type; points are folded into per-date rows,
// emitted ascending by period end.
func decodeTimeseries(body []byte, fields []string) (*table.Table, error) {
	var env timeseriesEnvelope
	if err := utils.SmartParse(string(body), &env); err != nil {
		return nil, fmt.Errorf("decode timeseries response: %w", err)
	}
	if e := env.Timeseries.Error; e != nil {
		return nil, fmt.Errorf("provider error %s: %s", e.Code, e.Description)
	}

	byDate := make(map[string]map[string]*float64)
	present := make(map[string]bool)

	for _, result := range env.Timeseries.Result {
		var meta seriesMeta
		raw, ok := result["meta"]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &meta); err != nil || len(meta.Type) == 0 {
			continue
		}
		key := meta.Type[0]
		field, ok := fieldForKey(key, fields)
		if !ok {
			continue
		}

		raw, ok = result[key]
		if !ok {
			continue
		}
		var points []*seriesPoint
		if err := json.Unmarshal(raw, &points); err != nil {
			continue
		}

		for _, p := range points {
			if p == nil || p.AsOfDate == "" {
				continue
			}
			row, ok := byDate[p.AsOfDate]
			if !ok {
				row = make(map[string]*float64)
				byDate[p.AsOfDate] = row
			}
			if p.ReportedValue != nil {
				row[field] = p.ReportedValue.Raw
			}
			present[field] = true
		}
	}

	// Only columns the provider actually returned go on the raw table; the
	// normalizer owns filling out the canonical schema.
	columns := make([]string, 0, len(present))
	for _, f := range fields {
		if present[f] {
			columns = append(columns, f)
		}
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := table.New(columns...)
	for _, d := range dates {
		end, err := time.Parse("2006-01-02", d)
		if err != nil {
			continue
		}
		out.Append(end, byDate[d])
	}
	return out, nil
}
