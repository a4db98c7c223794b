package sarima

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"github.com/mashuzza/DTSA-5301/arima"
	"github.com/mashuzza/DTSA-5301/stats"
	"github.com/mashuzza/DTSA-5301/timeseries"
)

const (
	// penalty is returned by the objective where the likelihood is undefined.
	penalty = 1e10
	// logLikTol is the log-likelihood improvement below which restarts stop.
	logLikTol = 1e-6
	// projectionLimit bounds partial autocorrelations of projected polynomials.
	projectionLimit = 0.99
	// hessianStep is the finite difference step of the information matrix.
	hessianStep = 1e-3
	// minInformation is the smallest eigenvalue of the information matrix per
	// observation that counts as identified.
	minInformation = 1e-4

	defaultMaxRestarts = 4
)

// FitOptions configures estimation.
type FitOptions struct {
	// IncludeConstant estimates a mean (or drift, when differenced) as the
	// mean of the differenced series. Not allowed with more than one difference.
	IncludeConstant bool
	// MaxEvaluations is the likelihood evaluation budget of one optimiser run.
	// Zero selects max(2000, 500*(k+1)) for k coefficients.
	MaxEvaluations int
	// MaxRestarts is the number of optimiser restarts from the current optimum
	// allowed before the fit is declared diverged. Zero selects 4.
	MaxRestarts int
}

// DefaultFitOptions returns the options used by the order search.
func DefaultFitOptions() *FitOptions {
	return &FitOptions{
		IncludeConstant: true,
		MaxRestarts:     defaultMaxRestarts,
	}
}

// Model is a fitted SARIMA model. It is immutable once returned by Fit.
type Model struct {
	Order     Order
	ARCoeffs  []float64 // phi, for 1 - sum phi_k B^k
	MACoeffs  []float64 // theta, for 1 + sum theta_k B^k
	SARCoeffs []float64
	SMACoeffs []float64

	HasConstant bool
	Constant    float64 // mean of the differenced series

	Variance float64 // innovation variance
	LogLik   float64
	AIC      float64
	AICc     float64
	BIC      float64
	NObs     int // observations after differencing

	// Covariance of (AR, MA, SAR, SMA) coefficients, in that order.
	Covariance *mat.SymDense

	ARStdErrors      []float64
	MAStdErrors      []float64
	SARStdErrors     []float64
	SMAStdErrors     []float64
	ConstantStdError float64

	history     []float64
	innovations []float64
	residuals   []float64
	ss          *arima.StateSpace
	state       []float64
}

// Fit estimates a SARIMA model of the given order by exact Gaussian maximum
// likelihood. The series is not modified. Nil options select
// DefaultFitOptions, without the constant when the order has more than one
// difference.
func Fit(series *timeseries.Series, order Order, opts *FitOptions) (*Model, error) {
	if opts == nil {
		opts = DefaultFitOptions()
		if order.Differences() > 1 {
			opts.IncludeConstant = false
		}
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	if opts.IncludeConstant && order.Differences() > 1 {
		return nil, &InvalidOrderError{Order: order, Reason: "a constant needs at most one difference"}
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}

	w, err := stats.Difference(series, order.D, order.SD, order.M)
	if err != nil {
		return nil, err
	}

	m := &Model{
		Order:       order,
		HasConstant: opts.IncludeConstant,
		NObs:        w.Len(),
		history:     append([]float64(nil), series.Values...),
	}
	if m.HasConstant {
		m.Constant = stat.Mean(w.Values, nil)
	}
	z := make([]float64, w.Len())
	for i, v := range w.Values {
		z[i] = v - m.Constant
	}

	lik := &likelihood{order: order, z: z}
	u, err := lik.optimize(opts)
	if err != nil {
		return nil, err
	}

	m.ARCoeffs, m.MACoeffs, m.SARCoeffs, m.SMACoeffs = lik.coefficients(u)
	if err := m.enforceRoots(); err != nil {
		return nil, &EstimationDivergedError{Order: order, Reason: "root check failed", Err: err}
	}

	ss, res, err := filter(order, m.ARCoeffs, m.MACoeffs, m.SARCoeffs, m.SMACoeffs, z)
	if err != nil {
		return nil, &EstimationDivergedError{Order: order, Reason: "final likelihood evaluation failed", Err: err}
	}
	m.ss = ss
	m.state = res.State
	m.Variance = res.Sigma2()
	m.LogLik = res.LogLikelihood()
	m.innovations = res.Innovations
	m.residuals = make([]float64, len(res.Innovations))
	for i, v := range res.Innovations {
		m.residuals[i] = v / math.Sqrt(m.Variance*res.Variances[i])
	}

	if err := m.computeCovariance(z); err != nil {
		return nil, err
	}

	ic := stats.CalculateIC(m.LogLik, m.NObs, m.NumParams())
	m.AIC, m.AICc, m.BIC = ic.AIC, ic.AICc, ic.BIC
	return m, nil
}

// NumParams returns the parameter count used by the information criteria:
// ARMA coefficients, the constant when present, and the variance.
func (m *Model) NumParams() int {
	k := m.Order.NumCoefficients() + 1
	if m.HasConstant {
		k++
	}
	return k
}

// Coefficients returns AR, MA, SAR and SMA coefficients as one vector.
func (m *Model) Coefficients() []float64 {
	out := make([]float64, 0, m.Order.NumCoefficients())
	out = append(out, m.ARCoeffs...)
	out = append(out, m.MACoeffs...)
	out = append(out, m.SARCoeffs...)
	return append(out, m.SMACoeffs...)
}

// Residuals returns the one-step prediction errors on the differenced scale,
// each divided by its prediction standard deviation.
func (m *Model) Residuals() []float64 {
	return append([]float64(nil), m.residuals...)
}

// FittedValues returns one-step-ahead predictions aligned with the input
// series. The first d + D*m values, lost to differencing, are NaN.
func (m *Model) FittedValues() []float64 {
	fitted := make([]float64, len(m.history))
	offset := len(m.history) - len(m.innovations)
	for i := range fitted {
		if i < offset {
			fitted[i] = math.NaN()
			continue
		}
		fitted[i] = m.history[i] - m.innovations[i-offset]
	}
	return fitted
}

// enforceRoots checks that AR polynomials are stationary and MA polynomials
// invertible, projecting any violating polynomial back inside.
func (m *Model) enforceRoots() error {
	check := func(coefs []float64, lag int, ma bool) ([]float64, error) {
		if len(coefs) == 0 {
			return coefs, nil
		}
		poly := arima.ARPoly(coefs, lag)
		if ma {
			poly = arima.MAPoly(coefs, lag)
		}
		mod, err := poly.MinRootModulus()
		if err != nil {
			return nil, err
		}
		switch {
		case !ma && mod > 1:
			return coefs, nil
		case ma && mod >= 1:
			return coefs, nil
		case ma:
			return arima.ProjectMA(coefs, projectionLimit), nil
		default:
			return arima.Project(coefs, projectionLimit), nil
		}
	}

	var err error
	if m.ARCoeffs, err = check(m.ARCoeffs, 1, false); err != nil {
		return err
	}
	if m.MACoeffs, err = check(m.MACoeffs, 1, true); err != nil {
		return err
	}
	if m.SARCoeffs, err = check(m.SARCoeffs, m.Order.M, false); err != nil {
		return err
	}
	m.SMACoeffs, err = check(m.SMACoeffs, m.Order.M, true)
	return err
}

// computeCovariance inverts the numerical information matrix of the
// coefficients and derives standard errors.
func (m *Model) computeCovariance(z []float64) error {
	if m.HasConstant {
		// Asymptotic variance of the sample mean of an ARMA process.
		arSum := sumPoly(fullARPoly(m.Order, m.ARCoeffs, m.SARCoeffs))
		maSum := sumPoly(fullMAPoly(m.Order, m.MACoeffs, m.SMACoeffs))
		if arSum != 0 {
			m.ConstantStdError = math.Abs(maSum/arSum) * math.Sqrt(m.Variance/float64(m.NObs))
		}
	}

	k := m.Order.NumCoefficients()
	if k == 0 {
		return nil
	}

	negLogLik := func(theta []float64) float64 {
		ar, ma, sar, sma := split(m.Order, theta)
		_, res, err := filter(m.Order, ar, ma, sar, sma, z)
		if err != nil {
			return math.NaN()
		}
		return -res.LogLikelihood()
	}

	var info mat.SymDense
	fd.Hessian(&info, negLogLik, m.Coefficients(), &fd.Settings{Step: hessianStep})

	var eig mat.EigenSym
	if ok := eig.Factorize(&info, false); !ok {
		return &SingularCovarianceError{Order: m.Order, MinEigenvalue: math.NaN()}
	}
	values := eig.Values(nil)
	minEig := math.Inf(1)
	for _, v := range values {
		if math.IsNaN(v) {
			minEig = math.NaN()
			break
		}
		minEig = math.Min(minEig, v)
	}
	if !(minEig >= minInformation*float64(m.NObs)) {
		return &SingularCovarianceError{Order: m.Order, MinEigenvalue: minEig}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(&info); !ok {
		return &SingularCovarianceError{Order: m.Order, MinEigenvalue: minEig}
	}
	cov := mat.NewSymDense(k, nil)
	if err := chol.InverseTo(cov); err != nil {
		return &SingularCovarianceError{Order: m.Order, MinEigenvalue: minEig}
	}
	m.Covariance = cov

	se := make([]float64, k)
	for i := range se {
		se[i] = math.Sqrt(cov.At(i, i))
	}
	m.ARStdErrors, m.MAStdErrors, m.SARStdErrors, m.SMAStdErrors = split(m.Order, se)
	return nil
}

// likelihood is the concentrated likelihood of one order over a zero-mean
// differenced series, parametrised by unconstrained values.
type likelihood struct {
	order Order
	z     []float64
}

func (l *likelihood) coefficients(u []float64) (ar, ma, sar, sma []float64) {
	uar, uma, usar, usma := split(l.order, u)
	return arima.Transform(uar), arima.MATransform(uma), arima.Transform(usar), arima.MATransform(usma)
}

func (l *likelihood) objective(u []float64) float64 {
	ar, ma, sar, sma := l.coefficients(u)
	_, res, err := filter(l.order, ar, ma, sar, sma, l.z)
	if err != nil {
		return penalty
	}
	f := res.Objective()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return penalty
	}
	return f
}

// initial returns starting values: AR partials from the sample PACF, a damped
// seasonal autocorrelation for the seasonal AR, and zero MA terms.
func (l *likelihood) initial() []float64 {
	o := l.order
	u := make([]float64, o.NumCoefficients())
	series := timeseries.New(l.z)

	if o.P > 0 {
		if pacf := stats.PACF(series, o.P); pacf != nil {
			for i := 1; i < len(pacf) && i <= o.P; i++ {
				u[i-1] = math.Atanh(clamp(pacf[i], 0.9))
			}
		}
	}
	if o.SP > 0 && len(l.z) > o.M {
		if acf := stats.ACF(series, o.M); acf != nil && len(acf) > o.M {
			u[o.P+o.Q] = math.Atanh(clamp(0.5*acf[o.M], 0.9))
		}
	}
	return u
}

// optimize maximises the likelihood with Nelder-Mead, restarting from the
// optimum until the log-likelihood stops improving.
func (l *likelihood) optimize(opts *FitOptions) ([]float64, error) {
	k := l.order.NumCoefficients()
	if k == 0 {
		if l.objective(nil) >= penalty {
			return nil, &EstimationDivergedError{Order: l.order, Reason: "likelihood undefined"}
		}
		return nil, nil
	}

	budget := opts.MaxEvaluations
	if budget <= 0 {
		budget = max(2000, 500*(k+1))
	}
	restarts := opts.MaxRestarts
	if restarts <= 0 {
		restarts = defaultMaxRestarts
	}
	n := float64(len(l.z))

	x := l.initial()
	best := l.objective(x)
	for run := 0; run <= restarts; run++ {
		problem := optimize.Problem{Func: l.objective}
		settings := &optimize.Settings{
			FuncEvaluations: budget,
			Converger: &optimize.FunctionConverge{
				Absolute:   1e-8,
				Iterations: max(50, 10*k),
			},
		}
		result, err := optimize.Minimize(problem, x, settings, &optimize.NelderMead{SimplexSize: 0.1})
		if err != nil {
			return nil, &EstimationDivergedError{Order: l.order, Reason: "optimizer failed", Err: err}
		}
		if result.Status.Early() {
			return nil, &EstimationDivergedError{Order: l.order, Reason: result.Status.String(), Err: result.Status.Err()}
		}
		if result.F >= penalty {
			return nil, &EstimationDivergedError{Order: l.order, Reason: "likelihood undefined at optimum"}
		}

		improvement := n * (best - result.F)
		x = result.X
		best = math.Min(best, result.F)
		if run > 0 && improvement <= logLikTol {
			return x, nil
		}
	}
	return nil, &EstimationDivergedError{
		Order:  l.order,
		Reason: fmt.Sprintf("log-likelihood still improving after %d restarts", restarts),
		Err:    errRestartBudget,
	}
}

var errRestartBudget = errors.New("restart budget exhausted")

// filter evaluates the exact likelihood of the expanded multiplicative model.
func filter(o Order, ar, ma, sar, sma, z []float64) (*arima.StateSpace, *arima.FilterResult, error) {
	phi := fullARPoly(o, ar, sar).Coefficients()
	theta := maCoefficients(fullMAPoly(o, ma, sma))
	ss, err := arima.NewStateSpace(phi, theta)
	if err != nil {
		return nil, nil, err
	}
	res, err := ss.Filter(z)
	if err != nil {
		return nil, nil, err
	}
	return ss, res, nil
}

func fullARPoly(o Order, ar, sar []float64) arima.Poly {
	return arima.ARPoly(ar, 1).Mul(arima.ARPoly(sar, o.M))
}

func fullMAPoly(o Order, ma, sma []float64) arima.Poly {
	return arima.MAPoly(ma, 1).Mul(arima.MAPoly(sma, o.M))
}

func maCoefficients(p arima.Poly) []float64 {
	return append([]float64(nil), p[1:p.Degree()+1]...)
}

func sumPoly(p arima.Poly) float64 {
	var s float64
	for _, c := range p {
		s += c
	}
	return s
}

// split cuts a parameter vector into AR, MA, SAR and SMA parts.
func split(o Order, v []float64) (ar, ma, sar, sma []float64) {
	i := 0
	take := func(n int) []float64 {
		part := append([]float64(nil), v[i:i+n]...)
		i += n
		return part
	}
	return take(o.P), take(o.Q), take(o.SP), take(o.SQ)
}

func clamp(v, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, v))
}
