package arima

// PsiWeights returns the first n coefficients of the MA(infinity)
// representation psi(B) = theta(B) / phi(B), where phi(B) = 1 - sum ar_k B^k
// and theta(B) = 1 + sum ma_k B^k. psi_0 is 1. ar may contain unit roots, as
// for an integrated model.
func PsiWeights(ar, ma []float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	psi := make([]float64, n)
	psi[0] = 1
	for j := 1; j < n; j++ {
		var v float64
		if j <= len(ma) {
			v = ma[j-1]
		}
		for k := 1; k <= min(j, len(ar)); k++ {
			v += ar[k-1] * psi[j-k]
		}
		psi[j] = v
	}
	return psi
}
