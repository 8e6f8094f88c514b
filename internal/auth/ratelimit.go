package auth

import (
	"strings"
	"sync"
	"time"
)

// LoginLimiter locks out an IP+email pair after repeated failed logins
// within a window. Successful logins clear the pair.
type LoginLimiter struct {
	mu          sync.Mutex
	attempts    map[string]*attemptRecord
	maxAttempts int
	window      time.Duration
	lockout     time.Duration
	now         func() time.Time
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

type attemptRecord struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// LimitConfig contains configuration for the login limiter.
type LimitConfig struct {
	MaxAttempts     int           // Failures before lockout (default: 5)
	Window          time.Duration // Time window for counting failures (default: 15m)
	Lockout         time.Duration // How long a lockout lasts (default: 15m)
	CleanupInterval time.Duration // How often expired records are dropped (default: 5m)
}

// NewLoginLimiter creates a limiter and starts its cleanup goroutine.
// Call Stop when done.
func NewLoginLimiter(cfg LimitConfig) *LoginLimiter {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Window <= 0 {
		cfg.Window = 15 * time.Minute
	}
	if cfg.Lockout <= 0 {
		cfg.Lockout = 15 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}

	l := &LoginLimiter{
		attempts:    make(map[string]*attemptRecord),
		maxAttempts: cfg.MaxAttempts,
		window:      cfg.Window,
		lockout:     cfg.Lockout,
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	go l.cleanupLoop(cfg.CleanupInterval)
	return l
}

// Stop stops the background cleanup goroutine.
func (l *LoginLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCleanup) })
}

// Emails are matched case-insensitively so casing cannot bypass the limit.
func limitKey(ip, email string) string {
	return ip + ":" + strings.ToLower(strings.TrimSpace(email))
}

// Allow reports whether a login attempt may proceed. When it may not,
// retryAfter is the remaining lockout.
func (l *LoginLimiter) Allow(ip, email string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	record, ok := l.attempts[limitKey(ip, email)]
	if !ok {
		return true, 0
	}

	now := l.now()
	if now.Before(record.lockedUntil) {
		return false, record.lockedUntil.Sub(now)
	}
	return true, 0
}

// RecordFailure counts a failed login and reports whether it caused a lockout.
func (l *LoginLimiter) RecordFailure(ip, email string) (bool, time.Duration) {
	key := limitKey(ip, email)
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	record, ok := l.attempts[key]
	if !ok || now.Sub(record.firstAttempt) > l.window {
		record = &attemptRecord{firstAttempt: now}
		l.attempts[key] = record
	}

	record.count++
	if record.count >= l.maxAttempts {
		record.lockedUntil = now.Add(l.lockout)
		record.count = 0
		record.firstAttempt = now
		return true, l.lockout
	}
	return false, 0
}

// RecordSuccess clears the failures of a pair.
func (l *LoginLimiter) RecordSuccess(ip, email string) {
	l.mu.Lock()
	delete(l.attempts, limitKey(ip, email))
	l.mu.Unlock()
}

func (l *LoginLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopCleanup:
			return
		}
	}
}

// cleanup drops records whose window and lockout have both passed.
func (l *LoginLimiter) cleanup() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, record := range l.attempts {
		if now.Sub(record.firstAttempt) > l.window && !now.Before(record.lockedUntil) {
			delete(l.attempts, key)
		}
	}
}
