package arima

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrRootsFailed is returned when the companion eigen decomposition fails.
	ErrRootsFailed = errors.New("arima: polynomial root computation failed")
	// ErrNonStationary is returned when the initial state covariance does not converge.
	ErrNonStationary = errors.New("arima: AR polynomial is not stationary")
	// ErrDegenerate is returned when the filter meets a non-positive prediction variance.
	ErrDegenerate = errors.New("arima: degenerate prediction variance")
)

const (
	doublingTol     = 1e-12
	doublingMaxIter = 60
)

// StateSpace is the Harvey state-space form of an ARMA process
//
//	phi(B) z_t = theta(B) e_t
//
// with phi(B) = 1 - sum phi_k B^k and theta(B) = 1 + sum theta_k B^k. The
// state has dimension r = max(p, q+1); the observation is its first element.
// Covariances are kept in units of the innovation variance.
type StateSpace struct {
	phi []float64 // transition column, padded to r
	rv  []float64 // (1, theta_1, ..., theta_{r-1})
	p0  []float64 // stationary state covariance, row-major r x r
	r   int
}

// NewStateSpace builds the state-space form for the given AR and MA
// coefficients and computes the stationary initial covariance.
func NewStateSpace(ar, ma []float64) (*StateSpace, error) {
	r := max(len(ar), len(ma)+1)
	ss := &StateSpace{
		phi: make([]float64, r),
		rv:  make([]float64, r),
		r:   r,
	}
	copy(ss.phi, ar)
	ss.rv[0] = 1
	copy(ss.rv[1:], ma)

	p0, err := ss.stationaryCovariance()
	if err != nil {
		return nil, err
	}
	ss.p0 = p0
	return ss, nil
}

// Dim returns the state dimension.
func (ss *StateSpace) Dim() int { return ss.r }

// stationaryCovariance solves P = T P T' + R R' with the doubling algorithm.
func (ss *StateSpace) stationaryCovariance() ([]float64, error) {
	r := ss.r
	a := mat.NewDense(r, r, nil)
	for i := 0; i < r; i++ {
		a.Set(i, 0, ss.phi[i])
		if i+1 < r {
			a.Set(i, i+1, 1)
		}
	}
	rv := mat.NewVecDense(r, ss.rv)
	s := mat.NewDense(r, r, nil)
	s.Outer(1, rv, rv)

	var as, inc, a2 mat.Dense
	for iter := 0; iter < doublingMaxIter; iter++ {
		as.Mul(a, s)
		inc.Mul(&as, a.T())
		s.Add(s, &inc)

		incNorm := mat.Norm(&inc, 1)
		if math.IsNaN(incNorm) || math.IsInf(incNorm, 0) {
			return nil, ErrNonStationary
		}
		if incNorm <= doublingTol*mat.Norm(s, 1) {
			return mat.DenseCopyOf(s).RawMatrix().Data, nil
		}
		a2.Mul(a, a)
		a.Copy(&a2)
	}
	return nil, ErrNonStationary
}

// predict advances the state: a <- T a and P <- T P T' + R R'. tmp must hold
// r*r values.
func (ss *StateSpace) predict(a, p, tmp []float64) {
	r := ss.r

	a0 := a[0]
	for i := 0; i < r-1; i++ {
		a[i] = ss.phi[i]*a0 + a[i+1]
	}
	a[r-1] = ss.phi[r-1] * a0

	// tmp = T P
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			v := ss.phi[i] * p[j]
			if i+1 < r {
				v += p[(i+1)*r+j]
			}
			tmp[i*r+j] = v
		}
	}
	// P = tmp T' + R R'
	for i := 0; i < r; i++ {
		m0 := tmp[i*r]
		for j := 0; j < r; j++ {
			v := ss.phi[j] * m0
			if j+1 < r {
				v += tmp[i*r+j+1]
			}
			p[i*r+j] = v + ss.rv[i]*ss.rv[j]
		}
	}
}

// FilterResult holds the output of a Kalman filter pass.
type FilterResult struct {
	// Innovations are the one-step prediction errors v_t.
	Innovations []float64
	// Variances are the prediction error variances F_t in units of sigma^2.
	Variances []float64
	// SSQ is sum v_t^2 / F_t.
	SSQ float64
	// SumLogF is sum log F_t.
	SumLogF float64
	// State is the predicted state for the period after the last observation.
	State []float64
}

// Sigma2 returns the concentrated maximum likelihood estimate of the
// innovation variance.
func (f *FilterResult) Sigma2() float64 {
	n := len(f.Innovations)
	if n == 0 {
		return 0
	}
	return math.Max(f.SSQ/float64(n), 1e-10)
}

// LogLikelihood returns the exact Gaussian log-likelihood with sigma^2
// concentrated out.
func (f *FilterResult) LogLikelihood() float64 {
	n := float64(len(f.Innovations))
	return -0.5 * (n*(math.Log(2*math.Pi)+math.Log(f.Sigma2())) + f.SumLogF + n)
}

// Objective is the negative concentrated log-likelihood per observation,
// up to a constant. Lower is better.
func (f *FilterResult) Objective() float64 {
	n := float64(len(f.Innovations))
	return 0.5 * (math.Log(f.Sigma2()) + f.SumLogF/n)
}

// Filter runs the Kalman filter over the zero-mean series z starting from
// the stationary state distribution.
func (ss *StateSpace) Filter(z []float64) (*FilterResult, error) {
	r := ss.r
	a := make([]float64, r)
	p := append([]float64(nil), ss.p0...)
	tmp := make([]float64, r*r)
	pc := make([]float64, r)

	res := &FilterResult{
		Innovations: make([]float64, len(z)),
		Variances:   make([]float64, len(z)),
	}
	for t, obs := range z {
		f := p[0]
		if !(f > 0) || math.IsInf(f, 0) {
			return nil, ErrDegenerate
		}
		v := obs - a[0]
		res.Innovations[t] = v
		res.Variances[t] = f
		res.SSQ += v * v / f
		res.SumLogF += math.Log(f)

		for i := 0; i < r; i++ {
			pc[i] = p[i*r]
		}
		for i := 0; i < r; i++ {
			a[i] += pc[i] * v / f
			for j := 0; j < r; j++ {
				p[i*r+j] -= pc[i] * pc[j] / f
			}
		}
		ss.predict(a, p, tmp)
	}
	res.State = a
	return res, nil
}

// Forecast propagates a predicted state h steps and returns the point
// forecasts of z for those steps.
func (ss *StateSpace) Forecast(state []float64, h int) []float64 {
	a := append([]float64(nil), state...)
	out := make([]float64, h)
	for k := 0; k < h; k++ {
		out[k] = a[0]
		a0 := a[0]
		for i := 0; i < ss.r-1; i++ {
			a[i] = ss.phi[i]*a0 + a[i+1]
		}
		a[ss.r-1] = ss.phi[ss.r-1] * a0
	}
	return out
}
