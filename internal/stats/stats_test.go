package stats

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	s := Compute([]float64{10, 20, 30})

	require.Equal(t, 3, s.Count)
	assert.Equal(t, 10.0, *s.Min)
	assert.Equal(t, 30.0, *s.Max)
	assert.Equal(t, 20.0, *s.Avg)
}

func TestCompute_Empty(t *testing.T) {
	s := Compute(nil)

	assert.Equal(t, 0, s.Count)
	assert.Nil(t, s.Min)
	assert.Nil(t, s.Max)
	assert.Nil(t, s.Avg)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"min":null,"max":null,"avg":null,"count":0}`, string(out))
}

func TestCompute_IgnoresNonFinite(t *testing.T) {
	s := Compute([]float64{math.NaN(), 4, math.Inf(1), -2, math.Inf(-1)})

	require.Equal(t, 2, s.Count)
	assert.Equal(t, -2.0, *s.Min)
	assert.Equal(t, 4.0, *s.Max)
	assert.Equal(t, 1.0, *s.Avg)

	onlyNaN := Compute([]float64{math.NaN()})
	assert.Equal(t, 0, onlyNaN.Count)
	assert.Nil(t, onlyNaN.Avg)
}

func TestCompute_SingleNegative(t *testing.T) {
	s := Compute([]float64{-7.5})

	assert.Equal(t, -7.5, *s.Min)
	assert.Equal(t, -7.5, *s.Max)
	assert.Equal(t, 1, s.Count)
}

func TestCompute_LargeValuesStayFinite(t *testing.T) {
	s := Compute([]float64{1e308, 1e308})

	require.Equal(t, 2, s.Count)
	assert.Equal(t, 1e308, *s.Avg)

	_, err := json.Marshal(s)
	assert.NoError(t, err)
}
