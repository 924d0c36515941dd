package autoplace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiplier(t *testing.T) {
	for class := RotationForbidden; class <= RotationFree; class++ {
		got, err := Multiplier(class)
		require.NoError(t, err)
		assert.InDelta(t, 2.0-0.1*float64(class), got, 1e-9, "class %d", class)
	}

	for _, class := range []int{-1, 11, 100} {
		_, err := Multiplier(class)
		assert.ErrorIs(t, err, ErrRotationClass, "class %d", class)
		assert.ErrorIs(t, err, ErrFatalInput)
	}
}

func TestRotationTrials(t *testing.T) {
	c := &Component{Cost90: 3, Cost180: 5}
	assert.Equal(t, []trial{{1800, 5}, {900, 3}, {2700, 3}}, rotationTrials(c))

	c = &Component{Cost90: 0, Cost180: 10}
	assert.Equal(t, []trial{{1800, 10}}, rotationTrials(c))

	assert.Empty(t, rotationTrials(&Component{}))
}

func TestValidateClasses(t *testing.T) {
	assert.NoError(t, validateClasses(&Component{Ref: "R1", Cost90: 10, Cost180: 0}))
	err := validateClasses(&Component{Ref: "R1", Cost180: 12})
	assert.ErrorIs(t, err, ErrRotationClass)
	assert.Contains(t, err.Error(), "R1 cost180")
}
