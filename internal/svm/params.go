package svm

// Loss selects the margin penalty of each binary problem.
type Loss string

const (
	LossHinge        Loss = "hinge"
	LossSquaredHinge Loss = "squared_hinge"
)

// Params configures Train.
type Params struct {
	// C is the inverse regularization strength.
	C    float64 `json:"c"`
	Loss Loss    `json:"loss"`
	// MaxIter caps the passes over the training set per binary problem.
	MaxIter int     `json:"max_iter"`
	Tol     float64 `json:"tol"`
	Seed    uint64  `json:"seed"`

	NoIntercept bool `json:"no_intercept,omitempty"`
	// InterceptScaling is the value of the synthetic feature carrying the bias.
	InterceptScaling float64 `json:"intercept_scaling"`

	// Classes fixes the category order used for tie-breaking. When empty the
	// distinct training labels are sorted lexicographically.
	Classes []string `json:"classes,omitempty"`
}

// DefaultParams returns the optimizer settings the production model is trained with.
func DefaultParams() Params {
	return Params{
		C:                1.0,
		Loss:             LossSquaredHinge,
		MaxIter:          1000,
		Tol:              1e-4,
		Seed:             42,
		InterceptScaling: 1.0,
	}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.C <= 0 {
		p.C = d.C
	}
	if p.Loss == "" {
		p.Loss = d.Loss
	}
	if p.MaxIter <= 0 {
		p.MaxIter = d.MaxIter
	}
	if p.Tol <= 0 {
		p.Tol = d.Tol
	}
	if p.InterceptScaling <= 0 {
		p.InterceptScaling = d.InterceptScaling
	}
	return p
}
