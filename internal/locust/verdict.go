package locust

import "strings"

// Verdict classifies a metric's movement between runs.
type Verdict string

const (
	VerdictBetter Verdict = "better"
	VerdictWorse  Verdict = "worse"
	VerdictSame   Verdict = "same"
	VerdictNone   Verdict = ""
)

// sameBandPct is the relative-change band treated as noise.
const sameBandPct = 5.0

// lowerIsBetter marks metrics where a decrease is an improvement. Percentile
// columns (latency) count as well, via the "%" suffix.
var lowerIsBetter = map[string]bool{
	"Failure Count":         true,
	"Failures/s":            true,
	"Average Response Time": true,
	"Median Response Time":  true,
	"Min Response Time":     true,
	"Max Response Time":     true,
	"Average Content Size":  false,
}

// VerdictFor classifies the change of one metric. A nil percentage (missing
// side or zero base) yields no verdict.
func VerdictFor(metric string, pct *float64) Verdict {
	if pct == nil {
		return VerdictNone
	}
	p := *pct
	if p > -sameBandPct && p < sameBandPct {
		return VerdictSame
	}

	lower := lowerIsBetter[metric] || strings.HasSuffix(metric, "%")
	if (p < 0) == lower {
		return VerdictBetter
	}
	return VerdictWorse
}

// VerdictEmoji maps a verdict to its markdown indicator.
func VerdictEmoji(v Verdict) string {
	switch v {
	case VerdictBetter:
		return "✅"
	case VerdictWorse:
		return "❌"
	case VerdictSame:
		return "➖"
	default:
		return ""
	}
}
