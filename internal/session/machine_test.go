package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMachine_StartThroughBreak(t *testing.T) {
	m := NewMachine()
	m, ok := m.Apply(ActionStart)
	assert.True(t, ok)
	assert.Equal(t, StateInMiniSet, m.State)
	assert.Equal(t, 0, m.WordIndex)

	for i := 0; i < SetSize; i++ {
		var transitioned bool
		m, transitioned = m.Apply(ActionSubmitWord)
		assert.True(t, transitioned)
	}
	assert.Equal(t, StateBreak, m.State)
	assert.Equal(t, SetSize, m.WordIndex)
}

func TestMachine_ContinueResetsIndex(t *testing.T) {
	m := Machine{State: StateBreak, WordIndex: SetSize}
	m, ok := m.Apply(ActionContinue)
	assert.True(t, ok)
	assert.Equal(t, StateInMiniSet, m.State)
	assert.Equal(t, 0, m.WordIndex)
}

func TestMachine_ReachBreakForcesBreak(t *testing.T) {
	m := Machine{State: StateInMiniSet, WordIndex: 2}
	m, ok := m.Apply(ActionReachBreak)
	assert.True(t, ok)
	assert.Equal(t, StateBreak, m.State)
}

func TestMachine_FinishFromBreak(t *testing.T) {
	m := Machine{State: StateBreak}
	m, ok := m.Apply(ActionFinish)
	assert.True(t, ok)
	assert.Equal(t, StateComplete, m.State)
}

func TestMachine_CompleteIsTerminal(t *testing.T) {
	for _, action := range []Action{ActionStart, ActionSubmitWord, ActionReachBreak, ActionContinue, ActionFinish} {
		m := Machine{State: StateComplete}
		next, ok := m.Apply(action)
		assert.False(t, ok, "action %s should not leave COMPLETE", action)
		assert.Equal(t, m, next)
	}
}

func TestMachine_InvalidActionsAreSilentNoOps(t *testing.T) {
	cases := []struct {
		state  State
		action Action
	}{
		{StateIdle, ActionSubmitWord},
		{StateIdle, ActionContinue},
		{StateIdle, ActionFinish},
		{StateInMiniSet, ActionStart},
		{StateInMiniSet, ActionContinue},
		{StateInMiniSet, ActionFinish},
		{StateBreak, ActionStart},
		{StateBreak, ActionSubmitWord},
		{StateBreak, ActionReachBreak},
	}
	for _, tc := range cases {
		m := Machine{State: tc.state, WordIndex: 1}
		next, ok := m.Apply(tc.action)
		assert.False(t, ok, "%s in %s", tc.action, tc.state)
		assert.Equal(t, m, next)
	}
}
