package cache

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ShareStore is an in-memory token store mapping opaque share tokens to
// recordings, with expiration. Tokens are not persisted; a restart revokes
// all outstanding shares.
type ShareStore struct {
	mu    sync.RWMutex
	items map[string]*shareItem
}

type shareItem struct {
	recordingID uuid.UUID
	ownerID     uuid.UUID
	expireTime  time.Time
}

// NewShareStore creates a new share token store
func NewShareStore() *ShareStore {
	store := &ShareStore{
		items: make(map[string]*shareItem),
	}

	// Start cleanup goroutine to remove expired tokens
	go store.cleanupExpired()

	return store
}

// Issue mints a new token for the recording, valid for the given duration
func (ss *ShareStore) Issue(ownerID, recordingID uuid.UUID, ttl time.Duration) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	ss.mu.Lock()
	defer ss.mu.Unlock()

	ss.items[token] = &shareItem{
		recordingID: recordingID,
		ownerID:     ownerID,
		expireTime:  time.Now().Add(ttl),
	}
	return token, nil
}

// Resolve returns the owner and recording for a token, or false if the token
// is unknown or expired
func (ss *ShareStore) Resolve(token string) (ownerID, recordingID uuid.UUID, ok bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	item, exists := ss.items[token]
	if !exists {
		return uuid.Nil, uuid.Nil, false
	}
	if time.Now().After(item.expireTime) {
		return uuid.Nil, uuid.Nil, false
	}
	return item.ownerID, item.recordingID, true
}

// Revoke removes a token
func (ss *ShareStore) Revoke(token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	delete(ss.items, token)
}

// cleanupExpired periodically removes expired tokens
func (ss *ShareStore) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ss.mu.Lock()
		now := time.Now()
		for token, item := range ss.items {
			if now.After(item.expireTime) {
				delete(ss.items, token)
			}
		}
		ss.mu.Unlock()
	}
}
