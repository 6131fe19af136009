package repository

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	revokedKeyPrefix = "auth:revoked:"
	resetKeyPrefix   = "auth:reset:"
)

// TokenStore keeps short-lived auth state: revoked access-token ids and
// one-shot password-reset tokens. Backed by Redis when a client is
// configured, otherwise by an expiring in-process map.
type TokenStore struct {
	client *redis.Client

	mu      sync.Mutex
	revoked map[string]time.Time
	resets  map[string]resetEntry
}

type resetEntry struct {
	userID    string
	expiresAt time.Time
}

// NewTokenStore constructs the store. client may be nil.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{
		client:  client,
		revoked: make(map[string]time.Time),
		resets:  make(map[string]resetEntry),
	}
}

// Revoke marks a token id as unusable until it would have expired anyway.
func (s *TokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if s.client != nil {
		return s.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = time.Now().Add(ttl)
	return nil
}

// IsRevoked reports whether the token id has been revoked.
func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.client != nil {
		n, err := s.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
		if err != nil {
			return false, err
		}
		return n > 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(s.revoked, tokenID)
		return false, nil
	}
	return true, nil
}

// StoreResetToken records a password-reset token for the user.
func (s *TokenStore) StoreResetToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	if s.client != nil {
		return s.client.Set(ctx, resetKeyPrefix+token, userID, ttl).Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets[token] = resetEntry{userID: userID, expiresAt: time.Now().Add(ttl)}
	return nil
}

// ConsumeResetToken resolves and deletes a reset token. Returns an empty
// user id when the token is unknown or expired.
func (s *TokenStore) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	if s.client != nil {
		userID, err := s.client.GetDel(ctx, resetKeyPrefix+token).Result()
		if err == redis.Nil {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		return userID, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.resets[token]
	if !ok {
		return "", nil
	}
	delete(s.resets, token)
	if time.Now().After(entry.expiresAt) {
		return "", nil
	}
	return entry.userID, nil
}
