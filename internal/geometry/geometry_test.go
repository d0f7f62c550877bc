package geometry

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestLengthKnownDistance(t *testing.T) {
	// Prague city center to Brno city center, roughly 185 km great-circle
	line := orb.LineString{
		{14.4378, 50.0755},
		{16.6068, 49.1951},
	}

	d := Length(line)
	assert.InDelta(t, 185000, d, 5000)
}

func TestLengthDeterministic(t *testing.T) {
	line := orb.LineString{
		{14.4378, 50.0755},
		{14.4400, 50.0760},
		{14.4425, 50.0770},
	}

	first := Length(line)
	second := Length(line)
	assert.Equal(t, first, second)
	assert.Greater(t, first, 0.0)
}

func TestLengthDegenerateInputs(t *testing.T) {
	assert.Equal(t, 0.0, Length(orb.LineString{}))
	assert.Equal(t, 0.0, Length(orb.LineString{{14.4378, 50.0755}}))
	assert.Equal(t, 0.0, Length(orb.Point{14.4378, 50.0755}))
	assert.Equal(t, 0.0, Length(nil))
}

func TestLengthAdditive(t *testing.T) {
	a := orb.Point{14.4378, 50.0755}
	b := orb.Point{14.4400, 50.0760}
	c := orb.Point{14.4425, 50.0770}

	whole := Length(orb.LineString{a, b, c})
	parts := Length(orb.LineString{a, b}) + Length(orb.LineString{b, c})
	assert.InDelta(t, parts, whole, 1e-9)
}

func TestEqualStrictOrdering(t *testing.T) {
	forward := orb.LineString{{0, 0}, {1, 1}, {2, 2}}
	backward := orb.LineString{{2, 2}, {1, 1}, {0, 0}}

	assert.True(t, Equal(forward, forward.Clone()))
	assert.False(t, Equal(forward, backward))
}

func TestEqualNonLineGeometries(t *testing.T) {
	line := orb.LineString{{0, 0}, {1, 1}}

	assert.False(t, Equal(line, orb.Point{0, 0}))
	assert.False(t, Equal(orb.Point{0, 0}, orb.Point{0, 0}))
	assert.False(t, Equal(nil, line))
}

func TestEqualDifferentSampling(t *testing.T) {
	// Visually coincident but sampled differently: not equal
	sparse := orb.LineString{{0, 0}, {2, 2}}
	dense := orb.LineString{{0, 0}, {1, 1}, {2, 2}}
	assert.False(t, Equal(sparse, dense))
}
