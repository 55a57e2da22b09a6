package growth

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	initialDamping = 1e-3
	minDamping     = 1e-12
	maxDamping     = 1e16
	minDiagonal    = 1e-300

	// maxScaledCondition bounds cond(D*JᵀJ*D) with D the inverse column norms of J.
	maxScaledCondition = 1e14
)

var sqrtEpsilon = math.Sqrt(epsilon)

const epsilon = 2.220446049250313e-16

type lmStats struct {
	Iterations int
	Cost       float64
}

// lmProblem is a least-squares problem sum((f(x_i; p) - y_i)^2) over a Model.
type lmProblem struct {
	model Model
	x     []float64
	y     []float64
}

func (p *lmProblem) residuals(params, r []float64) (cost float64, ok bool) {
	for idx, x := range p.x {
		d := p.model.Evaluate(x, params) - p.y[idx]
		if !isFinite(d) {
			return
		}

		r[idx] = d
		cost += d * d
	}

	ok = isFinite(cost)

	return
}

// jacobian fills jac with forward differences around params; r holds the residuals at params.
func (p *lmProblem) jacobian(params, r []float64, jac *mat.Dense) bool {
	probe := make([]float64, len(params))
	copy(probe, params)

	for j := range params {
		step := sqrtEpsilon * math.Abs(params[j])
		if step == 0 {
			step = sqrtEpsilon
		}

		probe[j] = params[j] + step
		step = probe[j] - params[j]

		for idx, x := range p.x {
			d := (p.model.Evaluate(x, probe) - p.y[idx] - r[idx]) / step
			if !isFinite(d) {
				return false
			}

			jac.Set(idx, j, d)
		}

		probe[j] = params[j]
	}

	return true
}

func (p *lmProblem) solve(p0 []float64, cfg *Config) (params []float64, st lmStats, err error) {
	m, n := len(p.x), len(p0)

	params = make([]float64, n)
	copy(params, p0)

	r := make([]float64, m)
	trialR := make([]float64, m)
	trial := make([]float64, n)

	cost, ok := p.residuals(params, r)
	if !ok {
		err = fmt.Errorf("%w: non-finite residuals at initial guess %v", ErrConvergenceFailure, p0)

		return
	}

	zeroCost := math.Pow(epsilon*floats.Norm(p.y, 2), 2)

	jac := mat.NewDense(m, n, nil)
	jtj := mat.NewSymDense(n, nil)
	a := mat.NewSymDense(n, nil)
	grad := mat.NewVecDense(n, nil)
	delta := mat.NewVecDense(n, nil)

	var chol mat.Cholesky

	lambda := initialDamping

	for st.Iterations = 0; st.Iterations < cfg.MaxIterations; st.Iterations++ {
		st.Cost = cost

		if cost <= zeroCost {
			return
		}

		if !p.jacobian(params, r, jac) {
			err = fmt.Errorf("%w: non-finite jacobian at %v", ErrConvergenceFailure, params)

			return
		}

		jtj.SymOuterK(1, jac.T())
		grad.MulVec(jac.T(), mat.NewVecDense(m, r))

		if gradientCosine(jac, grad, cost) <= cfg.GTol {
			return
		}

		for {
			for i := 0; i < n; i++ {
				for j := i + 1; j < n; j++ {
					a.SetSym(i, j, jtj.At(i, j))
				}

				diag := jtj.At(i, i)
				a.SetSym(i, i, diag+lambda*math.Max(diag, minDiagonal))
			}

			if !chol.Factorize(a) || chol.SolveVecTo(delta, grad) != nil {
				lambda *= 10
				if lambda > maxDamping {
					err = fmt.Errorf("%w: singular normal equations at %v", ErrConvergenceFailure, params)

					return
				}

				continue
			}

			for j := range trial {
				trial[j] = params[j] - delta.AtVec(j)
			}

			small := mat.Norm(delta, 2) <= cfg.XTol*(floats.Norm(params, 2)+cfg.XTol)

			trialCost, ok := p.residuals(trial, trialR)
			if ok && trialCost < cost {
				reduction := (cost - trialCost) / cost

				copy(params, trial)
				copy(r, trialR)
				cost = trialCost
				st.Cost = cost

				lambda = math.Max(lambda/10, minDamping)

				if reduction <= cfg.FTol || small {
					st.Iterations++

					return
				}

				break
			}

			if small {
				return
			}

			lambda *= 10
			if lambda > maxDamping {
				err = fmt.Errorf("%w: damping overflow at %v", ErrConvergenceFailure, params)

				return
			}
		}
	}

	err = fmt.Errorf("%w: no convergence after %d iterations", ErrConvergenceFailure, cfg.MaxIterations)

	return
}

// gradientCosine is the largest cosine between a jacobian column and the residual vector.
func gradientCosine(jac *mat.Dense, grad *mat.VecDense, cost float64) (g float64) {
	rNorm := math.Sqrt(cost)
	if rNorm == 0 {
		return
	}

	_, n := jac.Dims()

	for j := 0; j < n; j++ {
		colNorm := mat.Norm(jac.ColView(j), 2)
		if colNorm == 0 {
			continue
		}

		g = math.Max(g, math.Abs(grad.AtVec(j))/(colNorm*rNorm))
	}

	return
}

// checkConditioning rejects solutions where some parameter direction is not identified by the data.
func (p *lmProblem) checkConditioning(params []float64) error {
	m, n := len(p.x), len(params)

	r := make([]float64, m)
	if _, ok := p.residuals(params, r); !ok {
		return fmt.Errorf("%w: non-finite residuals at %v", ErrConvergenceFailure, params)
	}

	jac := mat.NewDense(m, n, nil)
	if !p.jacobian(params, r, jac) {
		return fmt.Errorf("%w: non-finite jacobian at %v", ErrConvergenceFailure, params)
	}

	for j := 0; j < n; j++ {
		colNorm := mat.Norm(jac.ColView(j), 2)
		if colNorm == 0 {
			return fmt.Errorf("%w: singular jacobian, param %d has no effect", ErrConvergenceFailure, j)
		}

		for i := 0; i < m; i++ {
			jac.Set(i, j, jac.At(i, j)/colNorm)
		}
	}

	scaled := mat.NewSymDense(n, nil)
	scaled.SymOuterK(1, jac.T())

	var chol mat.Cholesky
	if !chol.Factorize(scaled) {
		return fmt.Errorf("%w: singular jacobian at %v", ErrConvergenceFailure, params)
	}

	if cond := chol.Cond(); !(cond <= maxScaledCondition) {
		return fmt.Errorf("%w: ill-conditioned jacobian (cond %.3g) at %v", ErrConvergenceFailure, cond, params)
	}

	return nil
}
