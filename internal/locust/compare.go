package locust

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ImportantFields are always rendered first, in this order. Any extra
// percentile columns found in the data follow, sorted.
var ImportantFields = []string{
	"Requests/s",
	"Request Count",
	"Failure Count",
	"Average Response Time",
	"Median Response Time",
	"Min Response Time",
	"Max Response Time",
	"95%",
}

// Section pairs a base row with its current counterpart for one comparison
// unit (aggregated totals, one endpoint, or one HTML feature).
type Section struct {
	Key     string
	Base    *Row
	Current *Row
}

// Comparison is the full diff between two runs.
type Comparison struct {
	Aggregated Section
	Endpoints  []Section
	Features   []Section
}

// MetricDelta holds base/current values for one metric with derived change
// figures. Nil pointers mark values absent on one side (or an undefined
// percentage when the base is zero).
type MetricDelta struct {
	Base      *float64 `json:"base"`
	Current   *float64 `json:"current"`
	Diff      *float64 `json:"diff"`
	PctChange *float64 `json:"pct_change"`
}

// Compare loads both runs (resolving zip archives first) and pairs their
// rows into a Comparison. HTML feature pages are looked up next to each
// report, in the run directory itself or beside a bare CSV file.
func Compare(basePath, currPath string) (*Comparison, error) {
	basePath, err := ResolvePath(basePath)
	if err != nil {
		return nil, err
	}
	currPath, err = ResolvePath(currPath)
	if err != nil {
		return nil, err
	}

	baseRows, err := LoadReport(basePath)
	if err != nil {
		return nil, err
	}
	currRows, err := LoadReport(currPath)
	if err != nil {
		return nil, err
	}

	baseIdx := IndexRows(baseRows)
	currIdx := IndexRows(currRows)

	c := &Comparison{
		Aggregated: pairSection(AggregatedKey, baseIdx, currIdx),
	}
	for _, key := range sortedKeys(baseIdx, currIdx) {
		if key == AggregatedKey {
			continue
		}
		c.Endpoints = append(c.Endpoints, pairSection(key, baseIdx, currIdx))
	}

	baseHTML := LoadHTMLFeatureRows(htmlDir(basePath))
	currHTML := LoadHTMLFeatureRows(htmlDir(currPath))
	for _, key := range sortedKeys(baseHTML, currHTML) {
		c.Features = append(c.Features, pairSection(key, baseHTML, currHTML))
	}

	return c, nil
}

func htmlDir(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path
	}
	return filepath.Dir(path)
}

func pairSection(key string, base, curr map[string]Row) Section {
	s := Section{Key: key}
	if r, ok := base[key]; ok {
		s.Base = &r
	}
	if r, ok := curr[key]; ok {
		s.Current = &r
	}
	return s
}

func sortedKeys(a, b map[string]Row) []string {
	seen := make(map[string]bool, len(a)+len(b))
	for k := range a {
		seen[k] = true
	}
	for k := range b {
		seen[k] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fields returns the metric names to render for a section: the important
// fields followed by any extra percentile columns present in the data.
func (s Section) Fields() []string {
	fields := append([]string(nil), ImportantFields...)
	known := make(map[string]bool, len(fields))
	for _, f := range fields {
		known[f] = true
	}

	var extra []string
	for _, row := range []*Row{s.Base, s.Current} {
		if row == nil {
			continue
		}
		for f := range row.Data {
			if strings.HasSuffix(f, "%") && !known[f] {
				known[f] = true
				extra = append(extra, f)
			}
		}
	}
	sort.Strings(extra)
	return append(fields, extra...)
}

// AllFields returns the union of important fields and every metric present
// on either side, sorted. Used by the JSON renderer.
func (s Section) AllFields() []string {
	seen := make(map[string]bool, len(ImportantFields))
	for _, f := range ImportantFields {
		seen[f] = true
	}
	for _, row := range []*Row{s.Base, s.Current} {
		if row == nil {
			continue
		}
		for f := range row.Data {
			seen[f] = true
		}
	}
	fields := make([]string, 0, len(seen))
	for f := range seen {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Delta computes the MetricDelta for one metric of the section.
func (s Section) Delta(field string) MetricDelta {
	d := MetricDelta{
		Base:    metricValue(s.Base, field),
		Current: metricValue(s.Current, field),
	}
	d.Diff = diffValue(d.Base, d.Current)
	d.PctChange = pctChange(d.Base, d.Current)
	return d
}

func metricValue(r *Row, field string) *float64 {
	if r == nil {
		return nil
	}
	if v, ok := r.Data[field]; ok {
		return &v
	}
	return nil
}

func diffValue(base, curr *float64) *float64 {
	if base == nil || curr == nil {
		return nil
	}
	d := *curr - *base
	return &d
}

func pctChange(base, curr *float64) *float64 {
	if base == nil || curr == nil || *base == 0 {
		return nil
	}
	p := (*curr - *base) / *base * 100.0
	return &p
}
