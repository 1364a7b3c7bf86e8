package guard

import (
	"fmt"

	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/preconditions"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/traverse"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/frametree"
)

const TotalSamplesName = "Total Samples"

const totalSamplesExplanation = "Guards evaluate ratios of the recorded samples. With too few samples a single " +
	"outlier moves a ratio above or below a threshold and the results are not reliable."

// TotalSamplesGuard checks that a recording has enough samples for any other guard to be meaningful.
// It does not need the tree, its result is known upfront.
type TotalSamplesGuard struct {
	measured uint64
	minimum  uint64
}

func NewTotalSamplesGuard(measured, minimum uint64) *TotalSamplesGuard {
	return &TotalSamplesGuard{measured: measured, minimum: minimum}
}

func (g *TotalSamplesGuard) Name() string {
	return TotalSamplesName
}

func (g *TotalSamplesGuard) Category() Category {
	return CategoryPrerequisites
}

func (g *TotalSamplesGuard) Preconditions() preconditions.Preconditions {
	return preconditions.Preconditions{}
}

func (g *TotalSamplesGuard) Initialize(preconditions.Preconditions) bool {
	return true
}

func (g *TotalSamplesGuard) Traverse(frametree.Frame, int, []string) traverse.Next {
	return traverse.Done
}

func (g *TotalSamplesGuard) Result() Result {
	res := Result{
		Name:        TotalSamplesName,
		Category:    CategoryPrerequisites,
		Explanation: totalSamplesExplanation,
	}

	if g.measured >= g.minimum {
		res.Severity = SeverityOK
		res.Summary = fmt.Sprintf("The recording contains %d samples, the minimum is %d.", g.measured, g.minimum)
		return res
	}

	res.Severity = SeverityWarning
	res.Summary = fmt.Sprintf(
		"The recording contains only %d samples, at least %d are needed to evaluate the guards.",
		g.measured, g.minimum,
	)
	res.Solution = "Record the application for a longer period of time or increase the sampling rate."
	return res
}
