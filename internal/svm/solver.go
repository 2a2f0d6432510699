package svm

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/kamusis/triage/internal/features"
)

// binaryProblem is one one-vs-rest subproblem with y in {-1, +1}.
type binaryProblem struct {
	x    []features.Vector
	y    []float64
	dim  int
	bias float64 // value of the synthetic intercept feature, 0 when disabled
}

type binaryResult struct {
	w         []float64
	b         float64
	iters     int
	converged bool
}

// solveDual minimizes the L2-regularized (squared) hinge loss by dual
// coordinate descent, visiting samples in an order drawn from rng.
func solveDual(ctx context.Context, p binaryProblem, params Params, rng *rand.Rand) (binaryResult, error) {
	l := len(p.x)
	upper, diag := params.C, 0.0
	if params.Loss == LossSquaredHinge {
		upper, diag = math.Inf(1), 0.5/params.C
	}

	alpha := make([]float64, l)
	w := make([]float64, p.dim)
	var wb float64

	qd := make([]float64, l)
	for i, xi := range p.x {
		qd[i] = diag + xi.SquaredNorm() + p.bias*p.bias
	}

	order := make([]int, l)
	for i := range order {
		order[i] = i
	}

	res := binaryResult{}
	for res.iters < params.MaxIter {
		if err := ctx.Err(); err != nil {
			return binaryResult{}, err
		}
		rng.Shuffle(l, func(i, j int) { order[i], order[j] = order[j], order[i] })
		res.iters++

		maxPG, minPG := math.Inf(-1), math.Inf(1)
		for _, i := range order {
			if qd[i] <= 0 {
				continue
			}
			xi, yi := p.x[i], p.y[i]
			g := yi*(xi.Dot(w)+wb*p.bias) - 1 + diag*alpha[i]

			pg := g
			switch {
			case alpha[i] == 0:
				pg = math.Min(g, 0)
			case alpha[i] >= upper:
				pg = math.Max(g, 0)
			}
			maxPG = math.Max(maxPG, pg)
			minPG = math.Min(minPG, pg)

			if math.Abs(pg) < 1e-12 {
				continue
			}
			old := alpha[i]
			alpha[i] = math.Min(math.Max(old-g/qd[i], 0), upper)
			d := (alpha[i] - old) * yi
			xi.AddScaledTo(w, d)
			wb += d * p.bias
		}

		if maxPG-minPG <= params.Tol {
			res.converged = true
			break
		}
	}

	res.w = w
	res.b = wb * p.bias
	return res, nil
}
