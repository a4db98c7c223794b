package stats

import "math"

// InformationCriteria holds the likelihood-based model selection criteria.
type InformationCriteria struct {
	AIC    float64
	AICc   float64
	BIC    float64
	LogLik float64
}

// CalculateIC calculates AIC, AICc and BIC for a model with nParams estimated
// parameters fitted to nObs observations. AICc is +Inf when nObs <= nParams+1.
func CalculateIC(logLik float64, nObs int, nParams int) *InformationCriteria {
	k := float64(nParams)
	n := float64(nObs)

	aic := -2*logLik + 2*k
	return &InformationCriteria{
		AIC:    aic,
		AICc:   AICc(aic, nObs, nParams),
		BIC:    -2*logLik + k*math.Log(n),
		LogLik: logLik,
	}
}

// AICc applies the small-sample correction 2k(k+1)/(n-k-1) to aic.
func AICc(aic float64, nObs int, nParams int) float64 {
	k := float64(nParams)
	n := float64(nObs)
	if n-k-1 <= 0 {
		return math.Inf(1)
	}
	return aic + 2*k*(k+1)/(n-k-1)
}
