package step

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xDarkicex/hmsolve/core"
)

func TestAssertTransitionAllowsTheMandatedPath(t *testing.T) {
	path := []State{Setup, Ready, Running, Suspended, Running, Done}
	for i := 0; i < len(path)-1; i++ {
		assert.NoError(t, assertTransition("test", path[i], path[i+1]))
	}
}

func TestAssertTransitionRejectsSkippingReady(t *testing.T) {
	err := assertTransition("test", Setup, Running)
	assert.True(t, core.IsKind(err, core.InvariantViolation))
}

func TestAssertTransitionRejectsUseAfterDone(t *testing.T) {
	err := assertTransition("test", Done, Running)
	assert.True(t, core.IsKind(err, core.InvariantViolation))
}

func TestAssertTransitionRejectsDoubleSuspend(t *testing.T) {
	err := assertTransition("test", Suspended, Suspended)
	assert.True(t, core.IsKind(err, core.InvariantViolation))
}

func TestBaseToUpdatesStateOnlyOnSuccess(t *testing.T) {
	b := newBase("TestStep")
	assert.Equal(t, Setup, b.State())

	assert.NoError(t, b.to("test", Ready))
	assert.Equal(t, Ready, b.State())

	err := b.to("test", Suspended) // Ready -> Suspended is illegal
	assert.Error(t, err)
	assert.Equal(t, Ready, b.State(), "a rejected transition must not move the state")
}
