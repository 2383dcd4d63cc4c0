package odds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		american int
		expected float64
	}{
		{"plus money", 150, 2.5},
		{"even", 100, 2.0},
		{"favorite", -200, 1.5},
		{"standard juice", -110, 1.0 + 100.0/110.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := AmericanToDecimal(tt.american)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, d, 1e-9)
		})
	}
}

func TestAmericanToDecimalZero(t *testing.T) {
	_, err := AmericanToDecimal(0)
	assert.ErrorIs(t, err, ErrInvalidOdds)
}

func TestDecimalToAmericanRoundTrip(t *testing.T) {
	for _, american := range []int{150, 100, -200, -110, 350} {
		d, err := AmericanToDecimal(american)
		require.NoError(t, err)
		back, err := DecimalToAmerican(d)
		require.NoError(t, err)
		assert.Equal(t, american, back)
	}

	_, err := DecimalToAmerican(1.0)
	assert.Error(t, err)
}

func TestAmericanToImplied(t *testing.T) {
	p, err := AmericanToImplied(-150)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, p, 1e-9)

	p, err = AmericanToImplied(150)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, p, 1e-9)
}

func TestParlayDecimal(t *testing.T) {
	assert.InDelta(t, 8.0, ParlayDecimal([]float64{2, 2, 2}), 1e-9)
	assert.Equal(t, 0.0, ParlayDecimal(nil))
}

func TestRemoveVig2(t *testing.T) {
	d, _ := AmericanToDecimal(-110)
	a, b := RemoveVig2(d, d)
	assert.InDelta(t, 0.5, a, 1e-9)
	assert.InDelta(t, 0.5, b, 1e-9)
	assert.InDelta(t, 0.0476, Overround(d, d), 1e-4)
}
