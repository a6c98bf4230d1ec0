package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateManagerReplacesOnSet(t *testing.T) {
	m := newStateManager()

	_, ok := m.get(1)
	assert.False(t, ok)

	m.set(1, convState{Tag: awaitingPayoutDetails, Method: "crypto"})
	s, ok := m.get(1)
	assert.True(t, ok)
	assert.Equal(t, awaitingPayoutDetails, s.Tag)
	assert.Equal(t, "crypto", s.Method)

	// Arming a second flow replaces the first, never stacks.
	m.set(1, convState{Tag: awaitingWithdrawAmount, Method: "paypal"})
	s, ok = m.get(1)
	assert.True(t, ok)
	assert.Equal(t, awaitingWithdrawAmount, s.Tag)
	assert.Equal(t, "paypal", s.Method)

	m.clear(1)
	_, ok = m.get(1)
	assert.False(t, ok)
}

func TestStateManagerPerUser(t *testing.T) {
	m := newStateManager()
	m.set(1, convState{Tag: awaitingFeedback})
	m.set(2, convState{Tag: awaitingSetPoints, TargetID: 42})

	s1, _ := m.get(1)
	s2, _ := m.get(2)
	assert.Equal(t, awaitingFeedback, s1.Tag)
	assert.Equal(t, awaitingSetPoints, s2.Tag)
	assert.Equal(t, int64(42), s2.TargetID)

	m.clear(1)
	_, ok := m.get(2)
	assert.True(t, ok)
}
