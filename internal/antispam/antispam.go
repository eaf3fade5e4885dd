// Package antispam throttles how often one session may submit boards.
package antispam

import (
	"sync"
	"time"
)

// Config holds flood control settings for one session.
type Config struct {
	Enabled        bool
	MaxSubmissions int           // boards allowed per TimeWindow
	TimeWindow     time.Duration // sliding window for MaxSubmissions
	RepeatCooldown time.Duration // how long before the same board may be sent again
}

// DefaultConfig returns sensible defaults for flood control.
func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		MaxSubmissions: 10,
		TimeWindow:     time.Minute,
		RepeatCooldown: 5 * time.Second,
	}
}

// ConfigFromYAML creates a Config from YAML-loaded values. Zero values keep
// the defaults.
func ConfigFromYAML(enabled bool, maxSubmissions, timeWindowSeconds, repeatCooldownSeconds int) Config {
	cfg := DefaultConfig()
	cfg.Enabled = enabled
	if maxSubmissions > 0 {
		cfg.MaxSubmissions = maxSubmissions
	}
	if timeWindowSeconds > 0 {
		cfg.TimeWindow = time.Duration(timeWindowSeconds) * time.Second
	}
	if repeatCooldownSeconds > 0 {
		cfg.RepeatCooldown = time.Duration(repeatCooldownSeconds) * time.Second
	}
	return cfg
}

// Tracker records one session's recent submissions.
type Tracker struct {
	mu         sync.Mutex
	config     Config
	times      []time.Time          // recent submissions, oldest first
	lastBoards map[string]time.Time // board text -> last submitted
	now        func() time.Time
}

// NewTracker creates a new tracker with the given config.
func NewTracker(config Config) *Tracker {
	return &Tracker{
		config:     config,
		times:      make([]time.Time, 0, config.MaxSubmissions),
		lastBoards: make(map[string]time.Time),
		now:        time.Now,
	}
}

// CheckResult is the outcome of a flood check.
type CheckResult struct {
	Allowed     bool
	Reason      string
	WaitSeconds int // how long to wait before trying again when not allowed
}

// Check decides whether board may be solved now and records it when allowed.
func (t *Tracker) Check(board string) CheckResult {
	if !t.config.Enabled {
		return CheckResult{Allowed: true}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.cleanup(now)

	if last, ok := t.lastBoards[board]; ok {
		if elapsed := now.Sub(last); elapsed < t.config.RepeatCooldown {
			return CheckResult{
				Reason:      "That board was just submitted.",
				WaitSeconds: waitSeconds(t.config.RepeatCooldown - elapsed),
			}
		}
	}

	if len(t.times) >= t.config.MaxSubmissions {
		return CheckResult{
			Reason:      "You're submitting boards too quickly. Please slow down.",
			WaitSeconds: waitSeconds(t.times[0].Add(t.config.TimeWindow).Sub(now)),
		}
	}

	t.times = append(t.times, now)
	t.lastBoards[board] = now
	return CheckResult{Allowed: true}
}

func waitSeconds(d time.Duration) int {
	return int(d.Seconds()) + 1
}

// cleanup drops submissions outside the window and boards past their cooldown.
func (t *Tracker) cleanup(now time.Time) {
	cutoff := now.Add(-t.config.TimeWindow)
	kept := t.times[:0]
	for _, ts := range t.times {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	t.times = kept

	repeatCutoff := now.Add(-t.config.RepeatCooldown)
	for board, ts := range t.lastBoards {
		if ts.Before(repeatCutoff) {
			delete(t.lastBoards, board)
		}
	}
}
