package arima

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// Poly is a polynomial in the backshift operator B, lowest power first:
// Poly{1, -0.5} is 1 - 0.5B.
type Poly []float64

// ARPoly returns 1 - c1*B^lag - c2*B^(2*lag) - ...
func ARPoly(coefs []float64, lag int) Poly {
	return lagPoly(coefs, lag, -1)
}

// MAPoly returns 1 + c1*B^lag + c2*B^(2*lag) + ...
func MAPoly(coefs []float64, lag int) Poly {
	return lagPoly(coefs, lag, 1)
}

func lagPoly(coefs []float64, lag int, sign float64) Poly {
	if lag < 1 {
		lag = 1
	}
	p := make(Poly, len(coefs)*lag+1)
	p[0] = 1
	for i, c := range coefs {
		p[(i+1)*lag] = sign * c
	}
	return p
}

// DiffPoly returns (1-B)^d (1-B^period)^sd.
func DiffPoly(d, sd, period int) Poly {
	p := Poly{1}
	for i := 0; i < d; i++ {
		p = p.Mul(Poly{1, -1})
	}
	for i := 0; i < sd; i++ {
		p = p.Mul(ARPoly([]float64{1}, period))
	}
	return p
}

// Mul returns the product p*q.
func (p Poly) Mul(q Poly) Poly {
	if len(p) == 0 || len(q) == 0 {
		return Poly{}
	}
	out := make(Poly, len(p)+len(q)-1)
	for i, a := range p {
		if a == 0 {
			continue
		}
		for j, b := range q {
			out[i+j] += a * b
		}
	}
	return out
}

// Degree returns the highest power with a non-zero coefficient.
func (p Poly) Degree() int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] != 0 {
			return i
		}
	}
	return 0
}

// Coefficients returns the lag coefficients c_k such that p = 1 - sum c_k B^k.
// This is the AR form of the polynomial.
func (p Poly) Coefficients() []float64 {
	deg := p.Degree()
	coefs := make([]float64, deg)
	for k := 1; k <= deg; k++ {
		coefs[k-1] = -p[k]
	}
	return coefs
}

// Roots returns the complex roots of p as the eigenvalues of its companion
// matrix. A constant polynomial has no roots.
func (p Poly) Roots() ([]complex128, error) {
	deg := p.Degree()
	if deg == 0 {
		return nil, nil
	}
	lead := p[deg]

	companion := mat.NewDense(deg, deg, nil)
	for j := 0; j < deg; j++ {
		companion.Set(0, j, -p[deg-1-j]/lead)
	}
	for i := 1; i < deg; i++ {
		companion.Set(i, i-1, 1)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(companion, mat.EigenNone); !ok {
		return nil, ErrRootsFailed
	}
	return eig.Values(nil), nil
}

// MinRootModulus returns the smallest modulus among the roots of p, or +Inf
// for a constant polynomial. AR and MA polynomials are stationary and
// invertible when it exceeds 1.
func (p Poly) MinRootModulus() (float64, error) {
	roots, err := p.Roots()
	if err != nil {
		return 0, err
	}
	minMod := math.Inf(1)
	for _, r := range roots {
		minMod = math.Min(minMod, cmplx.Abs(r))
	}
	return minMod, nil
}
