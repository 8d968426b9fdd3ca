package gridstate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemu/seamless-sea-sub000/pkg/gridstate"
)

func TestLoadingTracker_CombinedFlag(t *testing.T) {
	t.Parallel()

	tr := gridstate.NewLoadingTracker(0, nil)
	defer tr.Close()

	tr.Begin("fixtures")
	tr.Begin("counts")
	assert.True(t, tr.Loading())

	tr.End("fixtures")
	assert.True(t, tr.Loading(), "one read still in flight")

	tr.End("counts")
	assert.False(t, tr.Loading())
}

func TestLoadingTracker_MinimumVisibleDuration(t *testing.T) {
	t.Parallel()

	tr := gridstate.NewLoadingTracker(30*time.Millisecond, nil)
	defer tr.Close()

	tr.Begin("fixtures")
	tr.End("fixtures")
	// All reads resolved, but the minimum duration holds the flag up.
	assert.True(t, tr.Loading())

	require.Eventually(t, func() bool { return !tr.Loading() }, time.Second, 5*time.Millisecond)
}

func TestLoadingTracker_NewReadCancelsPendingHide(t *testing.T) {
	t.Parallel()

	tr := gridstate.NewLoadingTracker(20*time.Millisecond, nil)
	defer tr.Close()

	tr.Begin("fixtures")
	tr.End("fixtures")
	tr.Begin("facets")

	time.Sleep(40 * time.Millisecond)
	assert.True(t, tr.Loading(), "hide scheduled before the new read must not fire")
}

func TestLoadingTracker_CloseCancelsTimer(t *testing.T) {
	t.Parallel()

	tr := gridstate.NewLoadingTracker(time.Minute, nil)
	tr.Begin("fixtures")
	tr.End("fixtures")
	tr.Close()

	assert.False(t, tr.Loading())
}
