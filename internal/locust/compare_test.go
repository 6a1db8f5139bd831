package locust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compareRuns(t *testing.T) *Comparison {
	t.Helper()
	base := writeRun(t, sampleCSV)
	curr := writeRun(t, sampleCSVv2)
	c, err := Compare(base, curr)
	require.NoError(t, err)
	return c
}

func TestCompare_SectionPairing(t *testing.T) {
	c := compareRuns(t)

	require.NotNil(t, c.Aggregated.Base)
	require.NotNil(t, c.Aggregated.Current)
	assert.Equal(t, AggregatedKey, c.Aggregated.Key)

	require.Len(t, c.Endpoints, 2)
	assert.Equal(t, "/api/orders", c.Endpoints[0].Key) // sorted
	assert.Equal(t, "/api/users", c.Endpoints[1].Key)
	assert.Empty(t, c.Features)
}

func TestCompare_MissingSide(t *testing.T) {
	base := writeRun(t, "Type,Name,Request Count\nGET,/only-base,10\n,Aggregated,10\n")
	curr := writeRun(t, "Type,Name,Request Count\nGET,/only-curr,20\n,Aggregated,20\n")

	c, err := Compare(base, curr)
	require.NoError(t, err)
	require.Len(t, c.Endpoints, 2)

	onlyBase := c.Endpoints[0]
	assert.Equal(t, "/only-base", onlyBase.Key)
	assert.NotNil(t, onlyBase.Base)
	assert.Nil(t, onlyBase.Current)

	d := onlyBase.Delta("Request Count")
	assert.Equal(t, 10.0, *d.Base)
	assert.Nil(t, d.Current)
	assert.Nil(t, d.Diff)
	assert.Nil(t, d.PctChange)
}

func TestSection_Delta(t *testing.T) {
	c := compareRuns(t)

	d := c.Aggregated.Delta("Request Count")
	require.NotNil(t, d.Diff)
	require.NotNil(t, d.PctChange)
	assert.Equal(t, 300.0, *d.Diff)
	assert.InDelta(t, 20.0, *d.PctChange, 0.001)
}

func TestPctChange_ZeroBaseUndefined(t *testing.T) {
	zero, ten := 0.0, 10.0
	assert.Nil(t, pctChange(&zero, &ten))
	assert.Nil(t, pctChange(nil, &ten))
	assert.Nil(t, pctChange(&ten, nil))
}

func TestSection_Fields(t *testing.T) {
	c := compareRuns(t)

	fields := c.Aggregated.Fields()
	assert.Equal(t, ImportantFields, fields[:len(ImportantFields)])
	// 95% is already an important field; no duplicate should appear.
	count := 0
	for _, f := range fields {
		if f == "95%" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestVerdictFor(t *testing.T) {
	up, down, flat := 20.0, -20.0, 1.5

	t.Run("throughput up is better", func(t *testing.T) {
		assert.Equal(t, VerdictBetter, VerdictFor("Requests/s", &up))
		assert.Equal(t, VerdictWorse, VerdictFor("Requests/s", &down))
	})

	t.Run("latency up is worse", func(t *testing.T) {
		assert.Equal(t, VerdictWorse, VerdictFor("Average Response Time", &up))
		assert.Equal(t, VerdictBetter, VerdictFor("Average Response Time", &down))
		assert.Equal(t, VerdictWorse, VerdictFor("95%", &up))
	})

	t.Run("failures up is worse", func(t *testing.T) {
		assert.Equal(t, VerdictWorse, VerdictFor("Failure Count", &up))
	})

	t.Run("small moves are same", func(t *testing.T) {
		assert.Equal(t, VerdictSame, VerdictFor("Requests/s", &flat))
	})

	t.Run("nil percentage has no verdict", func(t *testing.T) {
		assert.Equal(t, VerdictNone, VerdictFor("Requests/s", nil))
	})
}

func TestVerdictEmoji(t *testing.T) {
	assert.Equal(t, "✅", VerdictEmoji(VerdictBetter))
	assert.Equal(t, "❌", VerdictEmoji(VerdictWorse))
	assert.Equal(t, "➖", VerdictEmoji(VerdictSame))
	assert.Equal(t, "", VerdictEmoji(VerdictNone))
}
