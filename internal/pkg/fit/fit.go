// Package fit implements the least-squares models the statistics pipeline
// extrapolates with: an ordinary linear regression and an exponential model
// y = a*exp(b*x) fitted with Levenberg-Marquardt.
package fit

import (
	"errors"
	"math"
)

var (
	// ErrInsufficientData is returned when a window holds fewer points
	// than the model needs.
	ErrInsufficientData = errors.New("insufficient data points for fit")
	// ErrDidNotConverge is returned when the nonlinear solver ran out of
	// iterations without settling.
	ErrDidNotConverge = errors.New("fit did not converge")
)

const (
	maxIterations = 200
	lambdaInit    = 1e-3
	lambdaUp      = 10.0
	lambdaDown    = 0.1
)

// Linear fits y = intercept + slope*x by ordinary least squares.
func Linear(xs, ys []float64) (slope, intercept float64, err error) {
	if len(xs) != len(ys) {
		return 0, 0, errors.New("xs and ys must have the same length")
	}
	if len(xs) < 2 {
		return 0, 0, ErrInsufficientData
	}

	n := float64(len(xs))
	var sumX, sumY, sumXX, sumXY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXX += xs[i] * xs[i]
		sumXY += xs[i] * ys[i]
	}

	den := n*sumXX - sumX*sumX
	if den == 0 {
		return 0, 0, errors.New("degenerate x values")
	}

	slope = (n*sumXY - sumX*sumY) / den
	intercept = (sumY - slope*sumX) / n
	return slope, intercept, nil
}

// ExpFit holds the fitted exponential coefficients and their standard
// errors (square roots of the covariance diagonal).
type ExpFit struct {
	A, B             float64
	StdErrA, StdErrB float64
}

// Eval evaluates the fitted model at x.
func (f ExpFit) Eval(x float64) float64 {
	return f.A * math.Exp(f.B*x)
}

// GrowthFactor is the fitted day-over-day multiplier, exp(b).
func (f ExpFit) GrowthFactor() float64 {
	return f.Eval(1) / f.Eval(0)
}

// NearFlat reports whether the fitted growth is so close to flat that the
// exponential curve is not worth drawing over a linear one.
func (f ExpFit) NearFlat() bool {
	g := f.GrowthFactor()
	return g >= 0.999 && g <= 1.001
}

// Band evaluates the pessimistic, central and optimistic curves over xs
// using the coefficients shifted by one standard error each way.
func (f ExpFit) Band(xs []float64) (low, mid, high []float64) {
	low = make([]float64, len(xs))
	mid = make([]float64, len(xs))
	high = make([]float64, len(xs))
	for i, x := range xs {
		low[i] = (f.A - f.StdErrA) * math.Exp((f.B-f.StdErrB)*x)
		mid[i] = f.Eval(x)
		high[i] = (f.A + f.StdErrA) * math.Exp((f.B+f.StdErrB)*x)
	}
	return low, mid, high
}

// Exponential fits y = a*exp(b*x) by Levenberg-Marquardt with an analytic
// Jacobian. The initial guess comes from a log-linear regression over the
// positive points, which makes monotone positive series converge quickly.
func Exponential(xs, ys []float64) (ExpFit, error) {
	if len(xs) != len(ys) {
		return ExpFit{}, errors.New("xs and ys must have the same length")
	}
	if len(xs) < 3 {
		return ExpFit{}, ErrInsufficientData
	}

	a, b := initialGuess(xs, ys)
	ssr := residualSumSquares(xs, ys, a, b)
	lambda := lambdaInit
	converged := false

	for iter := 0; iter < maxIterations && !converged; iter++ {
		// Build the normal equations J'J and J'r for the current params.
		var jtj00, jtj01, jtj11, jtr0, jtr1 float64
		for i := range xs {
			e := math.Exp(b * xs[i])
			j0 := e             // d/da
			j1 := a * xs[i] * e // d/db
			r := ys[i] - a*e
			jtj00 += j0 * j0
			jtj01 += j0 * j1
			jtj11 += j1 * j1
			jtr0 += j0 * r
			jtr1 += j1 * r
		}

		accepted := false
		for try := 0; try < 20; try++ {
			m00 := jtj00 * (1 + lambda)
			m11 := jtj11 * (1 + lambda)
			det := m00*m11 - jtj01*jtj01
			if det == 0 || math.IsNaN(det) {
				lambda *= lambdaUp
				continue
			}

			da := (m11*jtr0 - jtj01*jtr1) / det
			db := (m00*jtr1 - jtj01*jtr0) / det

			newSSR := residualSumSquares(xs, ys, a+da, b+db)
			if math.IsNaN(newSSR) || math.IsInf(newSSR, 0) || newSSR > ssr {
				lambda *= lambdaUp
				continue
			}

			if math.Abs(da) < 1e-12*(1+math.Abs(a)) && math.Abs(db) < 1e-12*(1+math.Abs(b)) {
				converged = true
			}
			if ssr-newSSR < 1e-14*(1+ssr) {
				converged = true
			}

			a += da
			b += db
			ssr = newSSR
			lambda *= lambdaDown
			accepted = true
			break
		}

		if !accepted {
			// Damping maxed out without an acceptable step; the current
			// point is as good as it gets.
			converged = ssr < math.Inf(1) && !math.IsNaN(a) && !math.IsNaN(b)
			break
		}
	}

	if !converged {
		return ExpFit{}, ErrDidNotConverge
	}
	if math.IsNaN(a) || math.IsNaN(b) {
		return ExpFit{}, ErrDidNotConverge
	}

	stderrA, stderrB := standardErrors(xs, ys, a, b, ssr)
	return ExpFit{A: a, B: b, StdErrA: stderrA, StdErrB: stderrB}, nil
}

func initialGuess(xs, ys []float64) (a, b float64) {
	// ln y = ln a + b x over the strictly positive points.
	var lx, ly []float64
	for i := range ys {
		if ys[i] > 0 {
			lx = append(lx, xs[i])
			ly = append(ly, math.Log(ys[i]))
		}
	}

	if len(lx) >= 2 {
		if slope, intercept, err := Linear(lx, ly); err == nil {
			return math.Exp(intercept), slope
		}
	}

	var mean float64
	for _, y := range ys {
		mean += y
	}
	mean /= float64(len(ys))
	if mean == 0 {
		mean = 1
	}
	return mean, 0
}

func residualSumSquares(xs, ys []float64, a, b float64) float64 {
	var ssr float64
	for i := range xs {
		r := ys[i] - a*math.Exp(b*xs[i])
		ssr += r * r
	}
	return ssr
}

// standardErrors computes sqrt(diag(s2 * inv(J'J))) with the residual
// variance s2 = SSR/(n-2).
func standardErrors(xs, ys []float64, a, b, ssr float64) (stderrA, stderrB float64) {
	var jtj00, jtj01, jtj11 float64
	for i := range xs {
		e := math.Exp(b * xs[i])
		j0 := e
		j1 := a * xs[i] * e
		jtj00 += j0 * j0
		jtj01 += j0 * j1
		jtj11 += j1 * j1
	}

	det := jtj00*jtj11 - jtj01*jtj01
	if det <= 0 {
		return 0, 0
	}

	dof := float64(len(xs) - 2)
	if dof <= 0 {
		return 0, 0
	}
	s2 := ssr / dof

	varA := s2 * jtj11 / det
	varB := s2 * jtj00 / det
	if varA > 0 {
		stderrA = math.Sqrt(varA)
	}
	if varB > 0 {
		stderrB = math.Sqrt(varB)
	}
	return stderrA, stderrB
}
