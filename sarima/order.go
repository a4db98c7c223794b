package sarima

import "fmt"

// Order represents SARIMA model order (p, d, q) x (P, D, Q)[m].
type Order struct {
	P int // Non-seasonal AR order
	D int // Non-seasonal differencing order
	Q int // Non-seasonal MA order
	// Seasonal components
	SP int // Seasonal AR order
	SD int // Seasonal differencing order
	SQ int // Seasonal MA order
	M  int // Seasonal period (e.g., 12 for monthly data with yearly seasonality)
}

// Validate checks that the order is usable: all orders non-negative, at most
// two differences in total and a period above 1 whenever seasonal terms are
// present.
func (o Order) Validate() error {
	switch {
	case o.P < 0 || o.D < 0 || o.Q < 0 || o.SP < 0 || o.SD < 0 || o.SQ < 0 || o.M < 0:
		return &InvalidOrderError{Order: o, Reason: "orders must be non-negative"}
	case o.D+o.SD > 2:
		return &InvalidOrderError{Order: o, Reason: "at most two differences are supported"}
	case o.HasSeasonalTerms() && o.M < 2:
		return &InvalidOrderError{Order: o, Reason: "seasonal terms need a period of at least 2"}
	}
	return nil
}

// HasSeasonalTerms reports whether any seasonal order is non-zero.
func (o Order) HasSeasonalTerms() bool {
	return o.SP > 0 || o.SD > 0 || o.SQ > 0
}

// NumCoefficients returns the number of ARMA coefficients p+q+P+Q.
func (o Order) NumCoefficients() int {
	return o.P + o.Q + o.SP + o.SQ
}

// Differences returns d + D.
func (o Order) Differences() int {
	return o.D + o.SD
}

// String formats the order as ARIMA(p,d,q)(P,D,Q)[m].
func (o Order) String() string {
	if !o.HasSeasonalTerms() {
		return fmt.Sprintf("ARIMA(%d,%d,%d)", o.P, o.D, o.Q)
	}
	return fmt.Sprintf("ARIMA(%d,%d,%d)(%d,%d,%d)[%d]", o.P, o.D, o.Q, o.SP, o.SD, o.SQ, o.M)
}
