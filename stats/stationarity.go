package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mashuzza/DTSA-5301/timeseries"
)

// ADFResult represents the result of an Augmented Dickey-Fuller test.
type ADFResult struct {
	Statistic    float64
	PValue       float64
	Lags         int
	NObs         int
	CriticalVals map[string]float64 // finite-sample values at 1%, 5%, 10%
	IsStationary bool
}

// ADF performs the Augmented Dickey-Fuller test (constant, no trend).
// The null hypothesis is a unit root; the series is reported stationary when
// the statistic falls below the 5% critical value. maxLag <= 0 selects
// floor((n-1)^(1/3)) lagged differences. It returns nil when the series is too
// short or the regression is degenerate.
func ADF(series *timeseries.Series, maxLag int) *ADFResult {
	n := series.Len()
	if n < 10 {
		return nil
	}
	if maxLag <= 0 {
		maxLag = int(math.Floor(math.Pow(float64(n-1), 1.0/3.0)))
	}
	if maxLag >= n-1 {
		maxLag = n - 2
	}

	nObs := n - maxLag - 1
	if nObs < 10 {
		return nil
	}

	diff := series.Diff().Values

	// delta_y_t = alpha + beta*y_{t-1} + sum(gamma_i * delta_y_{t-i}) + e_t
	k := 2 + maxLag
	x := mat.NewDense(nObs, k, nil)
	y := mat.NewVecDense(nObs, nil)
	for i := 0; i < nObs; i++ {
		t := i + maxLag
		y.SetVec(i, diff[t])
		x.Set(i, 0, 1)
		x.Set(i, 1, series.Values[t])
		for j := 1; j <= maxLag; j++ {
			x.Set(i, 1+j, diff[t-j])
		}
	}

	coeffs, se, err := olsRegression(x, y)
	if err != nil || se[1] == 0 {
		return nil
	}
	tStat := coeffs[1] / se[1]
	if math.IsNaN(tStat) || math.IsInf(tStat, 0) {
		return nil
	}

	criticalVals := make(map[string]float64, len(adfResponseSurface))
	for level, beta := range adfResponseSurface {
		criticalVals[level] = adfCriticalValue(beta, nObs)
	}

	return &ADFResult{
		Statistic:    tStat,
		PValue:       mackinnonPValue(tStat),
		Lags:         maxLag,
		NObs:         nObs,
		CriticalVals: criticalVals,
		IsStationary: tStat < criticalVals["5%"],
	}
}

// IsStationary reports whether the ADF test rejects a unit root at 5%.
// Series too short or degenerate for the test are reported stationary since
// they give no evidence for further differencing.
func IsStationary(series *timeseries.Series) bool {
	result := ADF(series, 0)
	return result == nil || result.IsStationary
}

// adfResponseSurface holds MacKinnon (2010) response surface coefficients
// (tau_inf, beta1, beta2) for the constant-only case.
var adfResponseSurface = map[string][3]float64{
	"1%":  {-3.43035, -6.5393, -16.786},
	"5%":  {-2.86154, -2.8903, -4.234},
	"10%": {-2.56677, -1.5384, -2.809},
}

func adfCriticalValue(beta [3]float64, nObs int) float64 {
	t := float64(nObs)
	return beta[0] + beta[1]/t + beta[2]/(t*t)
}

// MacKinnon (1994) approximate p-value coefficients for the constant-only case.
var (
	tauMax    = 2.74
	tauMin    = -18.83
	tauStar   = -1.61
	tauSmallP = []float64{2.1659, 1.4412, 0.038269}
	tauLargeP = []float64{1.7339, 0.93202, -0.12745, -0.010368}
)

func mackinnonPValue(stat float64) float64 {
	switch {
	case stat > tauMax:
		return 1
	case stat < tauMin:
		return 0
	}
	coef := tauLargeP
	if stat <= tauStar {
		coef = tauSmallP
	}
	var z, pow float64 = 0, 1
	for _, c := range coef {
		z += c * pow
		pow *= stat
	}
	return distuv.UnitNormal.CDF(z)
}

// KPSSResult represents the result of a KPSS test.
type KPSSResult struct {
	Statistic    float64
	PValue       float64
	Lags         int
	CriticalVals map[string]float64
	IsStationary bool
}

// KPSS performs the Kwiatkowski-Phillips-Schmidt-Shin test. regression is
// "c" for level stationarity or "ct" for trend stationarity. The null
// hypothesis is stationarity. It returns nil for series shorter than 10.
func KPSS(series *timeseries.Series, regression string, nlags int) *KPSSResult {
	n := series.Len()
	if n < 10 {
		return nil
	}
	if nlags <= 0 {
		nlags = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	}
	if nlags >= n {
		nlags = n - 1
	}

	residuals := make([]float64, n)
	if regression == "ct" {
		t := make([]float64, n)
		for i := range t {
			t[i] = float64(i)
		}
		a, b := stat.LinearRegression(t, series.Values, nil, false)
		for i, v := range series.Values {
			residuals[i] = v - a - b*t[i]
		}
	} else {
		regression = "c"
		mean := stat.Mean(series.Values, nil)
		for i, v := range series.Values {
			residuals[i] = v - mean
		}
	}

	// Newey-West long-run variance with Bartlett weights.
	var s2 float64
	for _, r := range residuals {
		s2 += r * r
	}
	s2 /= float64(n)
	for l := 1; l <= nlags; l++ {
		var cov float64
		for i := l; i < n; i++ {
			cov += residuals[i] * residuals[i-l]
		}
		cov /= float64(n)
		s2 += 2 * (1 - float64(l)/float64(nlags+1)) * cov
	}
	if s2 <= 0 {
		s2 = 1e-10
	}

	var partial, eta float64
	for _, r := range residuals {
		partial += r
		eta += partial * partial
	}
	kpssStat := eta / (float64(n) * float64(n) * s2)

	criticalVals := kpssCritical[regression]
	pValue := kpssPValue(kpssStat, criticalVals)

	return &KPSSResult{
		Statistic:    kpssStat,
		PValue:       pValue,
		Lags:         nlags,
		CriticalVals: criticalVals,
		IsStationary: pValue >= 0.05,
	}
}

var kpssCritical = map[string]map[string]float64{
	"c":  {"10%": 0.347, "5%": 0.463, "2.5%": 0.574, "1%": 0.739},
	"ct": {"10%": 0.119, "5%": 0.146, "2.5%": 0.176, "1%": 0.216},
}

// kpssPValue interpolates linearly in the critical value table and clamps to
// [0.01, 0.10] outside it.
func kpssPValue(stat float64, cv map[string]float64) float64 {
	levels := []struct {
		p  float64
		cv float64
	}{
		{0.10, cv["10%"]},
		{0.05, cv["5%"]},
		{0.025, cv["2.5%"]},
		{0.01, cv["1%"]},
	}
	if stat <= levels[0].cv {
		return 0.10
	}
	for i := 1; i < len(levels); i++ {
		lo, hi := levels[i-1], levels[i]
		if stat <= hi.cv {
			frac := (stat - lo.cv) / (hi.cv - lo.cv)
			return lo.p + frac*(hi.p-lo.p)
		}
	}
	return 0.01
}

var errSingularRegression = errors.New("stats: singular regression")

// olsRegression fits y = X beta by ordinary least squares and returns the
// coefficients and their standard errors.
func olsRegression(x *mat.Dense, y *mat.VecDense) (coeffs, stdErrors []float64, err error) {
	n, k := x.Dims()
	if n <= k {
		return nil, nil, errSingularRegression
	}

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return nil, nil, errSingularRegression
	}

	var xty, beta mat.VecDense
	xty.MulVec(x.T(), y)
	beta.MulVec(&inv, &xty)

	var fitted, resid mat.VecDense
	fitted.MulVec(x, &beta)
	resid.SubVec(y, &fitted)
	s2 := mat.Dot(&resid, &resid) / float64(n-k)

	coeffs = make([]float64, k)
	stdErrors = make([]float64, k)
	for i := 0; i < k; i++ {
		coeffs[i] = beta.AtVec(i)
		stdErrors[i] = math.Sqrt(s2 * inv.At(i, i))
	}
	return coeffs, stdErrors, nil
}
