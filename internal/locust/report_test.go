package locust

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Type,Name,Request Count,Failure Count,Median Response Time,Average Response Time,Min Response Time,Max Response Time,Average Content Size,Requests/s,Failures/s,95%
GET,/api/users,1000,5,120,135.5,80,450,2048,50.2,0.25,300
POST,/api/orders,500,2,200,215.7,150,600,1024,25.1,0.1,480
,Aggregated,1500,7,150,162.3,80,600,1707,75.3,0.35,390
`

const sampleCSVv2 = `Type,Name,Request Count,Failure Count,Median Response Time,Average Response Time,Min Response Time,Max Response Time,Average Content Size,Requests/s,Failures/s,95%
GET,/api/users,1200,3,110,125.1,75,400,2048,60.4,0.15,280
POST,/api/orders,600,8,220,240.2,160,700,1024,30.2,0.4,520
,Aggregated,1800,11,140,155.8,75,700,1707,90.6,0.55,360
`

func writeRun(t *testing.T, csv string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.csv"), []byte(csv), 0644))
	return dir
}

func TestLoadReport_FromDirectory(t *testing.T) {
	dir := writeRun(t, sampleCSV)

	rows, err := LoadReport(dir)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "/api/users", rows[0].Name)
	assert.Equal(t, "GET", rows[0].Type)
	assert.Equal(t, 1000.0, rows[0].Data["Request Count"])
	assert.Equal(t, 135.5, rows[0].Data["Average Response Time"])
	assert.Equal(t, 300.0, rows[0].Data["95%"])
}

func TestLoadReport_FromFile(t *testing.T) {
	dir := writeRun(t, sampleCSV)

	rows, err := LoadReport(filepath.Join(dir, "report.csv"))
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestLoadReport_Errors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		_, err := LoadReport(filepath.Join(t.TempDir(), "nope"))
		assert.ErrorContains(t, err, "path not found")
	})

	t.Run("directory without report.csv", func(t *testing.T) {
		_, err := LoadReport(t.TempDir())
		assert.ErrorContains(t, err, "report.csv not found in directory")
	})

	t.Run("non-CSV file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.html")
		require.NoError(t, os.WriteFile(path, []byte("<html>"), 0644))
		_, err := LoadReport(path)
		assert.ErrorContains(t, err, "does not look like a CSV report")
	})
}

func TestLoadReport_SkipsBlankAndUnknownCells(t *testing.T) {
	dir := writeRun(t, "Type,Name,Request Count,Custom Column,95%\nGET,/a,100,oops,\n")

	rows, err := LoadReport(dir)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, 100.0, rows[0].Data["Request Count"])
	assert.NotContains(t, rows[0].Data, "Custom Column")
	assert.NotContains(t, rows[0].Data, "95%")
}

func TestIndexRows(t *testing.T) {
	dir := writeRun(t, sampleCSV)
	rows, err := LoadReport(dir)
	require.NoError(t, err)

	idx := IndexRows(rows)
	assert.Contains(t, idx, AggregatedKey)
	assert.Contains(t, idx, "/api/users")
	assert.NotContains(t, idx, "Aggregated")
	assert.Equal(t, 1500.0, idx[AggregatedKey].Data["Request Count"])
}
