package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffset(t *testing.T) {
	assert.Equal(t, 920.0, Offset(Geometry{ElementTop: 500, PageYOffset: 500}))
	assert.Equal(t, 900.0, Offset(Geometry{ElementTop: 500, PageYOffset: 500, HeaderHeight: 80}))
	assert.Equal(t, -80.0, Offset(Geometry{}))
}

func TestTrackerDefaults(t *testing.T) {
	home := NewTracker("store", "store")
	assert.Equal(t, "store", home.Active())

	labels := NewTracker("printers")
	assert.Equal(t, "printers", labels.Active())
}

func TestTrackerActivate(t *testing.T) {
	tr := NewTracker("store", "store")

	target := tr.Activate("scanners", Geometry{ElementTop: 300, PageYOffset: 1200, HeaderHeight: 72})
	assert.Equal(t, ScrollTarget{Section: "scanners", Top: 1408, Scroll: true}, target)
	assert.Equal(t, "scanners", tr.Active())

	target = tr.Activate("store", Geometry{ElementTop: 10, PageYOffset: 10})
	assert.False(t, target.Scroll)
	assert.Equal(t, 0.0, target.Top)
	assert.Equal(t, "store", tr.Active())
}

func TestTrackerObserveAndReset(t *testing.T) {
	tr := NewTracker("printers")

	tr.Observe("labels")
	assert.Equal(t, "labels", tr.Active())

	tr.Reset()
	assert.Equal(t, "printers", tr.Active())
}
