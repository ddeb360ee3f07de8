package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTapSnapshotOrder(t *testing.T) {
	tap := NewTap(4)
	tap.Record([][2]float64{{1, 1}, {2, 2}, {3, 3}})
	assert.Equal(t, [][2]float64{{2, 2}, {3, 3}}, tap.Snapshot(2))

	tap.Record([][2]float64{{4, 4}, {5, 5}, {6, 6}})
	assert.Equal(t, [][2]float64{{3, 3}, {4, 4}, {5, 5}, {6, 6}}, tap.Snapshot(10))
}

func TestTapEmpty(t *testing.T) {
	tap := NewTap(0)
	assert.Nil(t, tap.Snapshot(0))
	tap.Record(nil)
	assert.Len(t, tap.Snapshot(5), 1)
}
