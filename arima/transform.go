package arima

import "math"

// maxPartial keeps reparametrised polynomials strictly inside the stationary
// region.
const maxPartial = 0.9999

// PartialsToCoefs maps partial autocorrelations with |r| < 1 to AR
// coefficients of a stationary polynomial 1 - sum phi_k B^k, using the
// Durbin-Levinson recursion.
func PartialsToCoefs(partials []float64) []float64 {
	phi := make([]float64, 0, len(partials))
	for k, r := range partials {
		next := make([]float64, k+1)
		for j := 0; j < k; j++ {
			next[j] = phi[j] - r*phi[k-1-j]
		}
		next[k] = r
		phi = next
	}
	return phi
}

// CoefsToPartials inverts PartialsToCoefs. The second return value is false
// when the coefficients are not stationary.
func CoefsToPartials(coefs []float64) ([]float64, bool) {
	m := len(coefs)
	partials := make([]float64, m)
	c := append([]float64(nil), coefs...)
	for k := m; k >= 1; k-- {
		r := c[k-1]
		partials[k-1] = r
		if math.Abs(r) >= 1 {
			return partials, false
		}
		prev := make([]float64, k-1)
		for j := 0; j < k-1; j++ {
			prev[j] = (c[j] + r*c[k-2-j]) / (1 - r*r)
		}
		c = prev
	}
	return partials, true
}

// Transform maps unconstrained values to stationary AR coefficients through
// r = tanh(u) and the Durbin-Levinson recursion.
func Transform(u []float64) []float64 {
	partials := make([]float64, len(u))
	for i, v := range u {
		partials[i] = clampPartial(math.Tanh(v))
	}
	return PartialsToCoefs(partials)
}

// InverseTransform maps AR coefficients back to unconstrained values.
// Non-stationary inputs are clamped onto the boundary first.
func InverseTransform(coefs []float64) []float64 {
	partials, _ := CoefsToPartials(coefs)
	u := make([]float64, len(partials))
	for i, r := range partials {
		u[i] = math.Atanh(clampPartial(r))
	}
	return u
}

// MATransform maps unconstrained values to invertible MA coefficients of
// 1 + sum theta_k B^k.
func MATransform(u []float64) []float64 {
	return negate(Transform(u))
}

// MAInverseTransform inverts MATransform.
func MAInverseTransform(coefs []float64) []float64 {
	return InverseTransform(negate(coefs))
}

// Project pulls AR coefficients back inside the stationary region by
// shrinking their partial autocorrelations to at most limit in modulus.
func Project(coefs []float64, limit float64) []float64 {
	partials, _ := CoefsToPartials(coefs)
	for i, r := range partials {
		partials[i] = math.Max(-limit, math.Min(limit, r))
	}
	return PartialsToCoefs(partials)
}

// ProjectMA is Project for MA coefficients.
func ProjectMA(coefs []float64, limit float64) []float64 {
	return negate(Project(negate(coefs), limit))
}

func clampPartial(r float64) float64 {
	return math.Max(-maxPartial, math.Min(maxPartial, r))
}

func negate(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = -x
	}
	return out
}
