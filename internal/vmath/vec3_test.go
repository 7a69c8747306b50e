package vmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	n := Vec3{3, 0, 4}.Normalize()
	assert.InDelta(t, 0.6, n.X, 1e-6)
	assert.InDelta(t, 0.8, n.Z, 1e-6)
	assert.InDelta(t, 1, n.Length(), 1e-6)
	assert.Equal(t, Vec3{}, Vec3{}.Normalize())
}

func TestScaleAndDot(t *testing.T) {
	v := Vec3{1, -2, 3}.Scale(-2)
	assert.Equal(t, Vec3{-2, 4, -6}, v)
	assert.Zero(t, UnitX.Dot(Up))
	assert.Equal(t, float32(-28), v.Dot(Vec3{1, -2, 3}))
}
