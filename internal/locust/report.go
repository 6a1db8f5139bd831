// Package locust loads and compares Locust load-test runs. A run is a
// directory (or zip archive) holding a report.csv with per-endpoint request
// statistics, optionally alongside per-feature HTML dashboards.
package locust

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AggregatedKey is the synthetic index key for the "Aggregated" summary row.
const AggregatedKey = "__Aggregated__"

// numericFields is the closed set of report.csv columns parsed as metrics.
// Percentile columns appear only in newer Locust versions.
var numericFields = map[string]bool{
	"Request Count":         true,
	"Failure Count":         true,
	"Median Response Time":  true,
	"Average Response Time": true,
	"Min Response Time":     true,
	"Max Response Time":     true,
	"Average Content Size":  true,
	"Requests/s":            true,
	"Failures/s":            true,
	"50%":                   true,
	"66%":                   true,
	"75%":                   true,
	"80%":                   true,
	"90%":                   true,
	"95%":                   true,
	"98%":                   true,
	"99%":                   true,
	"99.9%":                 true,
	"99.99%":                true,
	"100%":                  true,
}

// Row is one parsed line of a report.csv (or one HTML feature dashboard).
type Row struct {
	Name string
	Type string
	Data map[string]float64
}

// LoadReport reads a Locust report.csv and returns its parsed rows.
// A directory path resolves to <dir>/report.csv; a file path is used
// directly and must look like a CSV report.
func LoadReport(path string) ([]Row, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("path not found: %s", path)
	}

	reportPath := path
	if info.IsDir() {
		reportPath = filepath.Join(path, "report.csv")
		if _, err := os.Stat(reportPath); err != nil {
			return nil, fmt.Errorf("report.csv not found in directory: %s", path)
		}
	} else if filepath.Base(path) != "report.csv" && !strings.HasSuffix(path, ".csv") {
		return nil, fmt.Errorf("provided file does not look like a CSV report: %s", path)
	}

	f, err := os.Open(reportPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parseReport(f)
}

func parseReport(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}

		row := Row{Data: make(map[string]float64)}
		for i, col := range header {
			if i >= len(record) {
				break
			}
			value := strings.TrimSpace(record[i])
			switch col {
			case "Name":
				row.Name = value
			case "Type":
				row.Type = value
			default:
				if !numericFields[col] || value == "" {
					continue
				}
				if fv, err := strconv.ParseFloat(value, 64); err == nil {
					row.Data[col] = fv
				}
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// IndexRows keys rows by name, mapping the Aggregated summary row to
// AggregatedKey. Later rows win on duplicate names.
func IndexRows(rows []Row) map[string]Row {
	idx := make(map[string]Row, len(rows))
	for _, r := range rows {
		key := r.Name
		if r.Name == "Aggregated" {
			key = AggregatedKey
		}
		idx[key] = r
	}
	return idx
}
