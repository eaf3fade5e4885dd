package server

import (
	"sync"
	"time"

	"github.com/lawnchairsociety/amphipod/internal/config"
)

// SubmissionLimiter locks out addresses that keep sending boards which fail
// to parse or cannot be solved. Each lockout doubles the previous one up to
// the configured maximum.
type SubmissionLimiter struct {
	mu                sync.Mutex
	clients           map[string]*rejectionInfo
	maxRejections     int
	lockoutSeconds    int
	maxLockoutSeconds int
	cleanupInterval   time.Duration
	stopCleanup       chan struct{}
	stopOnce          sync.Once
	now               func() time.Time
}

type rejectionInfo struct {
	rejections   int
	lockedUntil  time.Time
	lockoutCount int
}

// NewSubmissionLimiter creates a limiter and starts its cleanup goroutine.
func NewSubmissionLimiter(cfg config.RateLimitConfig) *SubmissionLimiter {
	rl := &SubmissionLimiter{
		clients:           make(map[string]*rejectionInfo),
		maxRejections:     cfg.MaxRejections,
		lockoutSeconds:    cfg.LockoutSeconds,
		maxLockoutSeconds: cfg.MaxLockoutSeconds,
		cleanupInterval:   5 * time.Minute,
		stopCleanup:       make(chan struct{}),
		now:               time.Now,
	}

	if rl.maxRejections == 0 {
		rl.maxRejections = 5
	}
	if rl.lockoutSeconds == 0 {
		rl.lockoutSeconds = 30
	}
	if rl.maxLockoutSeconds == 0 {
		rl.maxLockoutSeconds = 300
	}

	go rl.cleanupLoop()

	return rl
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (rl *SubmissionLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

// IsLocked reports whether ip is locked out and for how much longer.
func (rl *SubmissionLimiter) IsLocked(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	info, ok := rl.clients[ip]
	if !ok {
		return false, 0
	}
	now := rl.now()
	if now.Before(info.lockedUntil) {
		return true, info.lockedUntil.Sub(now)
	}
	return false, 0
}

// RecordRejection counts a rejected board from ip. It reports whether ip is
// now locked out and for how long.
func (rl *SubmissionLimiter) RecordRejection(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	info, ok := rl.clients[ip]
	if !ok {
		info = &rejectionInfo{}
		rl.clients[ip] = info
	}

	now := rl.now()
	if now.Before(info.lockedUntil) {
		return true, info.lockedUntil.Sub(now)
	}

	info.rejections++
	if info.rejections < rl.maxRejections {
		return false, 0
	}

	info.lockoutCount++
	lockout := rl.lockoutFor(info.lockoutCount)
	info.lockedUntil = now.Add(lockout)
	info.rejections = 0
	return true, lockout
}

// lockoutFor returns the lockout for the n-th lockout of one address.
func (rl *SubmissionLimiter) lockoutFor(n int) time.Duration {
	lockout := time.Duration(rl.lockoutSeconds) * time.Second
	ceiling := time.Duration(rl.maxLockoutSeconds) * time.Second
	for i := 1; i < n; i++ {
		// Compare before doubling so the duration cannot overflow.
		if lockout >= ceiling/2 {
			return ceiling
		}
		lockout *= 2
	}
	if lockout > ceiling {
		return ceiling
	}
	return lockout
}

// RecordSuccess forgets ip's rejections after a board is solved.
func (rl *SubmissionLimiter) RecordSuccess(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.clients, ip)
}

// Rejections returns ip's rejection count since its last lockout.
func (rl *SubmissionLimiter) Rejections(ip string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if info, ok := rl.clients[ip]; ok {
		return info.rejections
	}
	return 0
}

func (rl *SubmissionLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCleanup:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

// cleanup drops entries unlocked for at least 10 minutes with no pending
// rejections.
func (rl *SubmissionLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-10 * time.Minute)
	for ip, info := range rl.clients {
		if info.lockedUntil.Before(cutoff) && info.rejections == 0 {
			delete(rl.clients, ip)
		}
	}
}
