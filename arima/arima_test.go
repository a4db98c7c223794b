package arima

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolyMul(t *testing.T) {
	got := ARPoly([]float64{0.5}, 1).Mul(ARPoly([]float64{0.3}, 2))
	assert.InDeltaSlice(t, []float64{1, -0.5, -0.3, 0.15}, []float64(got), 1e-12)

	assert.Equal(t, Poly{1, -1, 0, 0, -1, 1}, DiffPoly(1, 1, 4))
	assert.Equal(t, Poly{1, -2, 1}, DiffPoly(2, 0, 12))
	assert.Equal(t, Poly{1, 0.4, 0, 0.2}, MAPoly([]float64{0.4, 0, 0.2}, 1))
	assert.Equal(t, []float64{0.5, 0.3, -0.15}, Poly{1, -0.5, -0.3, 0.15}.Coefficients())
}

func TestRoots(t *testing.T) {
	mod, err := ARPoly([]float64{0.5}, 1).MinRootModulus()
	require.NoError(t, err)
	assert.InDelta(t, 2, mod, 1e-9)

	// 1 - 0.81 B^2 has roots +-1/0.9.
	mod, err = ARPoly([]float64{0, 0.81}, 1).MinRootModulus()
	require.NoError(t, err)
	assert.InDelta(t, 1/0.9, mod, 1e-9)

	// Seasonal factor 1 - 0.5 B^12 has all roots at modulus 2^(1/12).
	roots, err := ARPoly([]float64{0.5}, 12).Roots()
	require.NoError(t, err)
	require.Len(t, roots, 12)

	mod, err = Poly{1}.MinRootModulus()
	require.NoError(t, err)
	assert.True(t, math.IsInf(mod, 1))

	mod, err = DiffPoly(1, 0, 1).MinRootModulus()
	require.NoError(t, err)
	assert.InDelta(t, 1, mod, 1e-9)
}

func TestTransformIsStationary(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	for trial := 0; trial < 50; trial++ {
		u := make([]float64, 1+trial%4)
		for i := range u {
			u[i] = 3 * rng.NormFloat64()
		}

		ar := Transform(u)
		mod, err := ARPoly(ar, 1).MinRootModulus()
		require.NoError(t, err)
		assert.Greater(t, mod, 1.0)

		ma := MATransform(u)
		mod, err = MAPoly(ma, 1).MinRootModulus()
		require.NoError(t, err)
		assert.Greater(t, mod, 1.0)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	u := []float64{0.3, -0.8, 0.1}
	assert.InDeltaSlice(t, u, InverseTransform(Transform(u)), 1e-9)
	assert.InDeltaSlice(t, u, MAInverseTransform(MATransform(u)), 1e-9)

	phi := []float64{0.5, -0.2}
	partials, ok := CoefsToPartials(phi)
	require.True(t, ok)
	assert.InDeltaSlice(t, phi, PartialsToCoefs(partials), 1e-12)

	_, ok = CoefsToPartials([]float64{1.2})
	assert.False(t, ok)
}

func TestProject(t *testing.T) {
	projected := Project([]float64{1.5}, 0.99)
	assert.InDeltaSlice(t, []float64{0.99}, projected, 1e-12)

	ma := ProjectMA([]float64{-1.3}, 0.99)
	assert.InDeltaSlice(t, []float64{-0.99}, ma, 1e-12)

	stationary := []float64{0.4, 0.2}
	assert.InDeltaSlice(t, stationary, Project(stationary, 0.99), 1e-12)
}

func TestFilterWhiteNoise(t *testing.T) {
	z := []float64{0.5, -1, 2, 0.3, -0.7}
	ss, err := NewStateSpace(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, ss.Dim())

	res, err := ss.Filter(z)
	require.NoError(t, err)

	var ssq float64
	for _, v := range z {
		ssq += v * v
	}
	sigma2 := ssq / float64(len(z))
	want := -0.5 * float64(len(z)) * (math.Log(2*math.Pi) + math.Log(sigma2) + 1)

	assert.InDelta(t, sigma2, res.Sigma2(), 1e-12)
	assert.InDelta(t, want, res.LogLikelihood(), 1e-9)
	assert.InDeltaSlice(t, z, res.Innovations, 1e-12)
}

func TestFilterAR1(t *testing.T) {
	phi := 0.6
	z := []float64{1, 0.2, -0.5, 0.4, 1.1, 0.9}
	ss, err := NewStateSpace([]float64{phi}, nil)
	require.NoError(t, err)

	res, err := ss.Filter(z)
	require.NoError(t, err)

	assert.InDelta(t, 1/(1-phi*phi), res.Variances[0], 1e-9)
	for i := 1; i < len(z); i++ {
		assert.InDelta(t, z[i]-phi*z[i-1], res.Innovations[i], 1e-9)
		assert.InDelta(t, 1, res.Variances[i], 1e-9)
	}

	fc := ss.Forecast(res.State, 3)
	last := z[len(z)-1]
	assert.InDeltaSlice(t, []float64{phi * last, phi * phi * last, phi * phi * phi * last}, fc, 1e-9)
}

func TestFilterMA1(t *testing.T) {
	theta := 0.4
	ss, err := NewStateSpace(nil, []float64{theta})
	require.NoError(t, err)
	assert.Equal(t, 2, ss.Dim())

	res, err := ss.Filter([]float64{1, -1, 0.5})
	require.NoError(t, err)
	assert.InDelta(t, 1+theta*theta, res.Variances[0], 1e-12)
	// The second variance follows the innovations algorithm for MA(1).
	assert.InDelta(t, 1+theta*theta-theta*theta/(1+theta*theta), res.Variances[1], 1e-12)
}

func TestStationaryCovarianceNearUnitRoot(t *testing.T) {
	ss, err := NewStateSpace([]float64{0.999}, nil)
	require.NoError(t, err)
	res, err := ss.Filter([]float64{1})
	require.NoError(t, err)
	assert.InDelta(t, 1/(1-0.999*0.999), res.Variances[0], 1e-6)

	_, err = NewStateSpace([]float64{1.01}, nil)
	assert.ErrorIs(t, err, ErrNonStationary)
}

func TestPsiWeights(t *testing.T) {
	assert.InDeltaSlice(t, []float64{1, 0.5, 0.25, 0.125}, PsiWeights([]float64{0.5}, nil, 4), 1e-12)
	assert.Equal(t, []float64{1, 1, 1, 1}, PsiWeights([]float64{1}, nil, 4))
	assert.Equal(t, []float64{1, 0.3, 0, 0}, PsiWeights(nil, []float64{0.3}, 4))
	assert.Nil(t, PsiWeights(nil, nil, 0))
}
