// Package idempotency guards replayable operations behind a client supplied
// key. A key moves from in_progress to completed, or is released when the
// operation fails so the client can retry it.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrAlreadyInProgress = errors.New("idempotency: operation already in progress")
	ErrAlreadyCompleted  = errors.New("idempotency: operation already completed")
	ErrInvalidState      = errors.New("idempotency: invalid state")
)

type State string

const (
	StateNone       State = "none"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

func (s State) String() string {
	return string(s)
}

// Idempotency runs fn at most once per key within the state TTL.
type Idempotency interface {
	Exec(ctx context.Context, key string, fn func(context.Context) error) error
}

const (
	defaultLockDuration = time.Minute
	defaultStateTTL     = 24 * time.Hour
)

// StateTracker keeps key state in redis.
type StateTracker struct {
	client       *redis.Client
	prefix       string
	lockDuration time.Duration
	stateTTL     time.Duration
}

type Option func(*StateTracker)

// WithLockDuration bounds how long an in-progress key blocks replays.
func WithLockDuration(d time.Duration) Option {
	return func(s *StateTracker) {
		if d > 0 {
			s.lockDuration = d
		}
	}
}

// WithStateTTL sets how long a completed key is remembered.
func WithStateTTL(d time.Duration) Option {
	return func(s *StateTracker) {
		if d > 0 {
			s.stateTTL = d
		}
	}
}

// WithPrefix namespaces keys.
func WithPrefix(prefix string) Option {
	return func(s *StateTracker) {
		s.prefix = prefix
	}
}

func New(client *redis.Client, opts ...Option) *StateTracker {
	s := &StateTracker{
		client:       client,
		prefix:       "goship:idempotency:",
		lockDuration: defaultLockDuration,
		stateTTL:     defaultStateTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Acquire marks key in progress. It returns StateNone when the caller owns
// the key, otherwise the state recorded by an earlier caller.
func (s *StateTracker) Acquire(ctx context.Context, key string) (State, error) {
	fk := s.prefix + key

	acquired, err := s.client.SetNX(ctx, fk, StateInProgress.String(), s.lockDuration).Result()
	if err != nil {
		return "", err
	}
	if acquired {
		return StateNone, nil
	}

	result, err := s.client.Get(ctx, fk).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SetNX and Get
		return s.Acquire(ctx, key)
	}
	if err != nil {
		return "", err
	}

	switch State(result) {
	case StateInProgress, StateCompleted:
		return State(result), nil
	default:
		return "", ErrInvalidState
	}
}

func (s *StateTracker) MarkCompleted(ctx context.Context, key string) error {
	return s.client.Set(ctx, s.prefix+key, StateCompleted.String(), s.stateTTL).Err()
}

// Release forgets key so the operation may be retried.
func (s *StateTracker) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

func (s *StateTracker) Exec(ctx context.Context, key string, fn func(context.Context) error) error {
	state, err := s.Acquire(ctx, key)
	if err != nil {
		return err
	}

	switch state {
	case StateInProgress:
		return ErrAlreadyInProgress
	case StateCompleted:
		return ErrAlreadyCompleted
	}

	if err := fn(ctx); err != nil {
		return errors.Join(err, s.Release(ctx, key))
	}

	return s.MarkCompleted(ctx, key)
}

// Disabled runs every operation. It is used when no redis is configured.
type Disabled struct{}

func (Disabled) Exec(ctx context.Context, _ string, fn func(context.Context) error) error {
	return fn(ctx)
}
