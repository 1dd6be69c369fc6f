package solver

import (
	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/beadwork/pkg/model"
)

// minSamplesForCalibration is the sample-size floor below which a
// solver's (or the overall) ratio falls back to 1.0 (§4.8).
const minSamplesForCalibration = 3

const (
	ratioClampMin = 0.1
	ratioClampMax = 10
)

// Calibrator turns completion history into estimate-ratio statistics
// (§4.8), the way teacher's ETA estimator (pkg/analysis/eta.go) derives
// velocity from recent closures — but here against explicit
// actual/estimate ratios rather than a closure-rate proxy.
type Calibrator struct {
	overallMean   float64
	overallStdDev float64
	overallN      int

	perSolverMean map[string]float64
	perSolverN    map[string]int
}

// NewCalibrator builds a Calibrator from a drained completion log.
// Records with a non-positive estimate are skipped; ratios are clamped
// to [0.1, 10] before being folded into the statistics.
func NewCalibrator(records []model.CompletionRecord) *Calibrator {
	var all []float64
	bySolver := make(map[string][]float64)

	for _, rec := range records {
		if rec.EstimatedHours <= 0 {
			continue
		}
		ratio := clampRatio(rec.ActualHours / rec.EstimatedHours)
		all = append(all, ratio)
		bySolver[rec.Solver] = append(bySolver[rec.Solver], ratio)
	}

	c := &Calibrator{
		perSolverMean: make(map[string]float64, len(bySolver)),
		perSolverN:    make(map[string]int, len(bySolver)),
	}

	c.overallN = len(all)
	if len(all) >= minSamplesForCalibration {
		c.overallMean = stat.Mean(all, nil)
		c.overallStdDev = stat.StdDev(all, nil)
	} else {
		c.overallMean = 1
	}

	for solverName, ratios := range bySolver {
		c.perSolverN[solverName] = len(ratios)
		if len(ratios) >= minSamplesForCalibration {
			c.perSolverMean[solverName] = stat.Mean(ratios, nil)
		} else {
			c.perSolverMean[solverName] = 1
		}
	}

	return c
}

func clampRatio(r float64) float64 {
	if r < ratioClampMin {
		return ratioClampMin
	}
	if r > ratioClampMax {
		return ratioClampMax
	}
	return r
}

// Ratio returns the calibration ratio for a solver: its own mean ratio
// when it has at least minSamplesForCalibration samples, else the
// overall mean (itself 1 when the whole log is too sparse).
func (c *Calibrator) Ratio(solverName string) float64 {
	if n, ok := c.perSolverN[solverName]; ok && n >= minSamplesForCalibration {
		return c.perSolverMean[solverName]
	}
	return c.overallMean
}

// Calibrate scales originalHours by the solver's ratio (§4.8).
func (c *Calibrator) Calibrate(originalHours float64, solverName string) float64 {
	return originalHours * c.Ratio(solverName)
}

// OverallStdDev exposes the sample standard deviation of every ratio in
// the log, for callers that want a confidence band around Calibrate.
func (c *Calibrator) OverallStdDev() float64 { return c.overallStdDev }

// SampleSize returns how many qualifying records contributed to the
// overall statistics.
func (c *Calibrator) SampleSize() int { return c.overallN }
