package locust

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var templateArgsRe = regexp.MustCompile(`window\.templateArgs\s*=\s*\{`)

// ExtractTemplateArgs pulls the JSON object assigned to window.templateArgs
// out of a Locust HTML page. Brace matching bounds the object; braces inside
// string literals are not tracked, matching the upstream page format where
// the assignment is machine-generated JSON.
func ExtractTemplateArgs(html string) (map[string]any, bool) {
	loc := templateArgsRe.FindStringIndex(html)
	if loc == nil {
		return nil, false
	}

	start := loc[1] - 1 // position of the opening brace
	depth := 0
	for i := start; i < len(html); i++ {
		switch html[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				var out map[string]any
				if err := json.Unmarshal([]byte(html[start:i+1]), &out); err != nil {
					return nil, false
				}
				return out, true
			}
		}
	}
	return nil, false
}

// LoadHTMLFeatureRows parses per-feature Locust HTML dashboards in dir and
// returns summary metrics keyed by feature name (the file stem). Pages
// without template args or without a usable history sample are skipped, as
// is the Jenkins htmlpublisher wrapper page.
func LoadHTMLFeatureRows(dir string) map[string]Row {
	rows := make(map[string]Row)

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return rows
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return rows
	}

	for _, path := range paths {
		if filepath.Base(path) == "htmlpublisher-wrapper.html" {
			continue
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		tmpl, ok := ExtractTemplateArgs(string(raw))
		if !ok {
			continue
		}
		last, ok := latestHistorySample(tmpl)
		if !ok {
			continue
		}

		data := make(map[string]float64)
		setIfNumber(data, "Requests/s", last["current_rps"])
		setIfNumber(data, "Average Response Time", last["total_avg_response_time"])
		setIfNumber(data, "50%", last["response_time_percentile_0.5"])
		setIfNumber(data, "95%", last["response_time_percentile_0.95"])

		name := strings.TrimSuffix(filepath.Base(path), ".html")
		rows[name] = Row{Name: name, Type: "HTML", Data: data}
	}
	return rows
}

// latestHistorySample returns the newest history entry carrying non-null
// rps and response-time metrics.
func latestHistorySample(tmpl map[string]any) (map[string]any, bool) {
	history, ok := tmpl["history"].([]any)
	if !ok || len(history) == 0 {
		return nil, false
	}
	for i := len(history) - 1; i >= 0; i-- {
		item, ok := history[i].(map[string]any)
		if !ok {
			continue
		}
		if item["current_rps"] != nil && item["total_avg_response_time"] != nil {
			return item, true
		}
	}
	return nil, false
}

func setIfNumber(data map[string]float64, key string, v any) {
	if fv, ok := v.(float64); ok {
		data[key] = fv
	}
}
