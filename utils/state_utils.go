package utils

import (
	"crypto/rand"
	"encoding/base64"
	"log"
	"sync"
	"time"
)

// OAuth state nonces live in memory: the consent redirect round-trips in
// seconds, and a lost nonce only means the user clicks "connect" again.

const stateTTL = 10 * time.Minute

type stateEntry struct {
	userID    int
	expiresAt time.Time
}

var (
	statesMu sync.Mutex
	states   = make(map[string]stateEntry)
)

// NewOAuthState generates a random state nonce bound to the given user.
func NewOAuthState(userID int) string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Printf("ERROR: Failed to generate random bytes for OAuth state: %v", err)
		return ""
	}
	state := base64.URLEncoding.EncodeToString(b)

	statesMu.Lock()
	defer statesMu.Unlock()

	// Abandoned consent flows leave their nonce behind; sweep the
	// expired ones so the map stays bounded.
	now := time.Now()
	for s, entry := range states {
		if now.After(entry.expiresAt) {
			delete(states, s)
		}
	}

	states[state] = stateEntry{userID: userID, expiresAt: now.Add(stateTTL)}
	return state
}

// ConsumeOAuthState looks up a state nonce and removes it. A nonce is
// single-use; expired or unknown states return false.
func ConsumeOAuthState(state string) (int, bool) {
	statesMu.Lock()
	defer statesMu.Unlock()

	entry, ok := states[state]
	if !ok {
		return 0, false
	}
	delete(states, state)

	if time.Now().After(entry.expiresAt) {
		return 0, false
	}
	return entry.userID, true
}
