package guard

import (
	"math"
	"strconv"

	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/traverse"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
)

type Result struct {
	Name           string         `json:"name"`
	Severity       Severity       `json:"severity"`
	Explanation    string         `json:"explanation,omitempty"`
	Summary        string         `json:"summary,omitempty"`
	Solution       string         `json:"solution,omitempty"`
	MatchedPercent string         `json:"matchedPercent,omitempty"`
	Totals         *Totals        `json:"totals,omitempty"`
	Category       Category       `json:"category"`
	Visualization  *Visualization `json:"visualization,omitempty"`
}

// Totals are the samples or weight behind MatchedPercent.
type Totals struct {
	Total    uint64 `json:"total"`
	Observed uint64 `json:"observed"`
}

func NotApplicable(name string, category Category) Result {
	return Result{
		Name:     name,
		Severity: SeverityNotApplicable,
		Category: category,
	}
}

type Visualization struct {
	ProfileID string   `json:"profileId"`
	EventKind string   `json:"eventType"`
	UseWeight bool     `json:"useWeight"`
	Matched   Matched  `json:"matched"`
	Markers   []Marker `json:"markers"`
}

type Matched struct {
	Severity Severity `json:"severity"`
	Percent  float64  `json:"percent"`
}

// Marker points at a tree path of a frame the guard observed.
type Marker struct {
	Severity Severity `json:"severity"`
	Path     []string `json:"path"`
}

////////////////////////////////////////////////////////////////////////////////

// Evaluation is the outcome of comparing the observed part of a tree with its total.
type Evaluation struct {
	Severity       Severity
	TotalValue     uint64
	ObservedValue  uint64
	Ratio          float64
	MatchedPercent float64
	Threshold      float64
	Selected       []traverse.Selection
}

// Evaluate computes the severity of observed against total. The ratio is 0
// for an empty total and the severity is a warning only when the ratio is
// strictly above the threshold.
func Evaluate(total, observed uint64, threshold float64) Evaluation {
	ratio := 0.0
	if total != 0 {
		ratio = float64(observed) / float64(total)
	}

	severity := SeverityOK
	if ratio > threshold {
		severity = SeverityWarning
	}

	return Evaluation{
		Severity:       severity,
		TotalValue:     total,
		ObservedValue:  observed,
		Ratio:          ratio,
		MatchedPercent: RoundSignificant(ratio*100, 2),
		Threshold:      threshold,
	}
}

// Markers returns one marker per selected frame.
func (e Evaluation) Markers() []Marker {
	res := make([]Marker, 0, len(e.Selected))
	for _, s := range e.Selected {
		res = append(res, Marker{Severity: e.Severity, Path: s.Path})
	}
	return res
}

// RoundSignificant rounds v half up to the given number of significant digits.
func RoundSignificant(v float64, digits int) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	exp := int(math.Floor(math.Log10(math.Abs(v))))
	scale := math.Pow10(digits - 1 - exp)
	rounded := math.Floor(math.Abs(v)*scale+0.5) / scale
	return math.Copysign(rounded, v)
}

// FormatPercent renders a percentage like "12%" or "0.57%".
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// ProfileInfo identifies the analysed profile in visualizations.
type ProfileInfo struct {
	ProfileID string
	EventKind record.Kind
}
