package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNearbyIndex_Within(t *testing.T) {
	ix := NewNearbyIndex()
	ix.Insert(0, 34.0500, -118.2400) // origin
	ix.Insert(1, 34.0590, -118.2400) // ~1 km north
	ix.Insert(2, 34.0950, -118.2400) // ~5 km north
	ix.Insert(3, 34.5000, -118.2400) // ~50 km north
	ix.Insert(4, 34.0500, -118.2509) // ~1 km west

	require.Equal(t, 5, ix.Len())

	hits := ix.Within(34.05, -118.24, 10)
	require.Len(t, hits, 4)

	assert.Equal(t, 0, hits[0].Index)
	assert.InDelta(t, 0.0, hits[0].DistanceKm, 1e-9)
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i-1].DistanceKm, hits[i].DistanceKm)
	}
	assert.Equal(t, 2, hits[3].Index)
}

func TestNearbyIndex_RadiusIsInclusiveOfExactPoint(t *testing.T) {
	ix := NewNearbyIndex()
	ix.Insert(9, 10, 10)

	hits := ix.Within(10, 10, 0)
	require.Len(t, hits, 1)
	assert.Equal(t, 9, hits[0].Index)
}

func TestNearbyIndex_Empty(t *testing.T) {
	assert.Empty(t, NewNearbyIndex().Within(0, 0, 100))
}

func TestNearbyIndex_NegativeRadius(t *testing.T) {
	ix := NewNearbyIndex()
	ix.Insert(0, 0, 0)
	assert.Nil(t, ix.Within(0, 0, -1))
}
