package sarima

import (
	"fmt"
	"strings"

	"github.com/mashuzza/DTSA-5301/stats"
	"github.com/mashuzza/DTSA-5301/timeseries"
)

// Summary represents a model summary.
type Summary struct {
	Order        Order
	ARCoeffs     []float64
	MACoeffs     []float64
	SARCoeffs    []float64
	SMACoeffs    []float64
	ARStdErrors  []float64
	MAStdErrors  []float64
	SARStdErrors []float64
	SMAStdErrors []float64
	HasConstant  bool
	// Drift is the per-period change of a differenced model, zero otherwise.
	Drift float64
	// Intercept is the mean of an undifferenced model, zero otherwise.
	Intercept        float64
	ConstantStdError float64
	Variance         float64
	AIC              float64
	AICc             float64
	BIC              float64
	LogLik           float64
	NObs             int
	LjungBox         *stats.LjungBoxResult
}

// Summary returns a summary of the fitted model, including a Ljung-Box test on
// the residuals.
func (m *Model) Summary() *Summary {
	lags := 10
	if m.Order.M > 1 && m.Order.HasSeasonalTerms() {
		lags = 2 * m.Order.M
	}
	lb := stats.LjungBox(timeseries.New(m.Residuals()), min(lags, m.NObs/5), m.Order.NumCoefficients())

	s := &Summary{
		Order:            m.Order,
		ARCoeffs:         m.ARCoeffs,
		MACoeffs:         m.MACoeffs,
		SARCoeffs:        m.SARCoeffs,
		SMACoeffs:        m.SMACoeffs,
		ARStdErrors:      m.ARStdErrors,
		MAStdErrors:      m.MAStdErrors,
		SARStdErrors:     m.SARStdErrors,
		SMAStdErrors:     m.SMAStdErrors,
		ConstantStdError: m.ConstantStdError,
		Variance:         m.Variance,
		AIC:              m.AIC,
		AICc:             m.AICc,
		BIC:              m.BIC,
		LogLik:           m.LogLik,
		NObs:             m.NObs,
		LjungBox:         lb,
		HasConstant:      m.HasConstant,
	}
	if m.HasConstant {
		if m.Order.Differences() > 0 {
			s.Drift = m.Constant
		} else {
			s.Intercept = m.Constant
		}
	}
	return s
}

// String renders the summary as a coefficient table.
func (s *Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", s.Order)
	fmt.Fprintf(&b, "%-10s %12s %12s\n", "term", "coef", "s.e.")
	rows := func(prefix string, coefs, se []float64) {
		for i, c := range coefs {
			e := 0.0
			if i < len(se) {
				e = se[i]
			}
			fmt.Fprintf(&b, "%-10s %12.4f %12.4f\n", fmt.Sprintf("%s%d", prefix, i+1), c, e)
		}
	}
	rows("ar", s.ARCoeffs, s.ARStdErrors)
	rows("ma", s.MACoeffs, s.MAStdErrors)
	rows("sar", s.SARCoeffs, s.SARStdErrors)
	rows("sma", s.SMACoeffs, s.SMAStdErrors)
	if s.HasConstant {
		if s.Order.Differences() > 0 {
			fmt.Fprintf(&b, "%-10s %12.4f %12.4f\n", "drift", s.Drift, s.ConstantStdError)
		} else {
			fmt.Fprintf(&b, "%-10s %12.4f %12.4f\n", "intercept", s.Intercept, s.ConstantStdError)
		}
	}
	fmt.Fprintf(&b, "sigma^2=%.4g  log likelihood=%.2f\n", s.Variance, s.LogLik)
	fmt.Fprintf(&b, "AIC=%.2f  AICc=%.2f  BIC=%.2f  n=%d\n", s.AIC, s.AICc, s.BIC, s.NObs)
	if s.LjungBox != nil {
		fmt.Fprintf(&b, "Ljung-Box Q=%.3f df=%d p=%.4f\n", s.LjungBox.Statistic, s.LjungBox.DOF, s.LjungBox.PValue)
	}
	return b.String()
}
