package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultLockTTL = 30 * time.Minute

// RunLock is an advisory lock around a whole run. A holder that never
// releases it loses it after the TTL.
type RunLock struct {
	ttl     time.Duration
	now     func() time.Time
	token   string
	expires time.Time
	mu      sync.Mutex
}

func NewRunLock(ttl time.Duration) *RunLock {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &RunLock{ttl: ttl, now: time.Now}
}

// Acquire returns a release token, or ErrRunInProgress while a live holder
// exists.
func (l *RunLock) Acquire() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.token != "" && now.Before(l.expires) {
		return "", ErrRunInProgress
	}

	l.token = uuid.NewString()
	l.expires = now.Add(l.ttl)

	return l.token, nil
}

// Release frees the lock if token still owns it.
func (l *RunLock) Release(token string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.token == token {
		l.token = ""
		l.expires = time.Time{}
	}
}

func (l *RunLock) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.token != "" && l.now().Before(l.expires)
}
