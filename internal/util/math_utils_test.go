package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(0.5, 1, 1.4))
	assert.Equal(t, 1.4, Clamp(2, 1, 1.4))
	assert.Equal(t, 1.2, Clamp(1.2, 1, 1.4))
}

func TestRoundInt(t *testing.T) {
	assert.Equal(t, 12, RoundInt(11.76))
	assert.Equal(t, 3, RoundInt(2.5))
	assert.Equal(t, 0, RoundInt(0.49))
}

func TestMeanAndMax(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, MaxOf(nil))
	assert.Equal(t, 2.5, Mean([]float64{1, 2, 3, 4}))
	assert.Equal(t, 4.0, MaxOf([]float64{1, 4, 3}))
}
