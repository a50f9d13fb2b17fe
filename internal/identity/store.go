package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionStatus tracks whether a managed session has finished establishing.
type SessionStatus string

const (
	// SessionPending marks a session that is still being enriched.
	SessionPending SessionStatus = "pending"
	// SessionReady marks a fully established session.
	SessionReady SessionStatus = "ready"
)

// ErrNoSession indicates that the token does not map to a live session.
var ErrNoSession = errors.New("identity: no session")

type sessionPayload struct {
	Status    SessionStatus `json:"status"`
	Principal Principal     `json:"principal"`
}

// SessionStore persists managed sessions in Redis keyed by token ID and
// issues the signed bearer tokens that reference them.
type SessionStore struct {
	client *redis.Client
	secret []byte
	ttl    time.Duration
}

// NewSessionStore constructs a SessionStore.
func NewSessionStore(client *redis.Client, secret string, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, secret: []byte(secret), ttl: ttl}
}

// Issue creates a session for the principal and returns the bearer token
// together with the session ID.
func (s *SessionStore) Issue(ctx context.Context, p Principal, status SessionStatus) (string, string, error) {
	id := uuid.NewString()
	payload := sessionPayload{Status: status, Principal: p}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", "", fmt.Errorf("identity: marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.redisKey(id), data, s.ttl).Err(); err != nil {
		return "", "", fmt.Errorf("identity: store session: %w", err)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        id,
		Subject:   p.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("identity: sign token: %w", err)
	}
	return token, id, nil
}

// Lookup resolves a bearer token to its session payload.
// Invalid or expired tokens and missing session records yield ErrNoSession.
func (s *SessionStore) Lookup(ctx context.Context, token string) (SessionStatus, *Principal, error) {
	id, err := s.sessionID(token)
	if err != nil {
		return "", nil, ErrNoSession
	}
	data, err := s.client.Get(ctx, s.redisKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil, ErrNoSession
		}
		return "", nil, fmt.Errorf("identity: load session: %w", err)
	}
	var payload sessionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", nil, fmt.Errorf("identity: decode session: %w", err)
	}
	principal := payload.Principal
	return payload.Status, &principal, nil
}

// MarkReady flips a pending session to ready, keeping its remaining TTL.
func (s *SessionStore) MarkReady(ctx context.Context, id string) error {
	key := s.redisKey(id)
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNoSession
		}
		return fmt.Errorf("identity: load session: %w", err)
	}
	var payload sessionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("identity: decode session: %w", err)
	}
	payload.Status = SessionReady
	updated, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("identity: marshal session: %w", err)
	}
	return s.client.Set(ctx, key, updated, redis.KeepTTL).Err()
}

// Revoke deletes the session referenced by the bearer token and returns the
// revoked session ID.
func (s *SessionStore) Revoke(ctx context.Context, token string) (string, error) {
	id, err := s.sessionID(token)
	if err != nil {
		return "", ErrNoSession
	}
	if err := s.client.Del(ctx, s.redisKey(id)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("identity: revoke session: %w", err)
	}
	return id, nil
}

// TTL exposes the configured session lifetime.
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

func (s *SessionStore) sessionID(token string) (string, error) {
	claims := jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("identity: unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	if claims.ID == "" {
		return "", errors.New("identity: token missing session id")
	}
	return claims.ID, nil
}

func (s *SessionStore) redisKey(id string) string {
	return "session:" + id
}
