package handler

import "sync"

// stateTag names the multi-step input a user is in the middle of. One tag per
// user; setting a new one replaces the old, so two flows can never be armed
// at once.
type stateTag string

const (
	awaitingPayoutDetails  stateTag = "awaiting_payout_details"
	awaitingWithdrawAmount stateTag = "awaiting_withdraw_amount"
	awaitingFeedback       stateTag = "awaiting_feedback"
	awaitingBroadcast      stateTag = "awaiting_broadcast"
	awaitingUserFind       stateTag = "awaiting_user_find"
	awaitingSetPoints      stateTag = "awaiting_set_points"
	awaitingAdjustPoints   stateTag = "awaiting_adjust_points"
	awaitingAdAdd          stateTag = "awaiting_ad_add"
	awaitingAdRemove       stateTag = "awaiting_ad_remove"
)

type convState struct {
	Tag      stateTag
	Method   string // payout method for wallet/withdraw flows
	TargetID int64  // target user for admin flows
}

type stateManager struct {
	mu     sync.Mutex
	states map[int64]convState
}

func newStateManager() *stateManager {
	return &stateManager{states: make(map[int64]convState)}
}

func (m *stateManager) set(userID int64, s convState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[userID] = s
}

func (m *stateManager) get(userID int64) (convState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[userID]
	return s, ok
}

func (m *stateManager) clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, userID)
}
