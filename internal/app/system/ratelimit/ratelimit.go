// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net/http"
	"strings"
	"sync"
	"time"

	wafflerl "github.com/dalemusser/waffle/pantry/ratelimit"
	"github.com/dalemusser/waffle/pantry/text"
)

// Limiter counts requests per key in fixed windows.
// It is safe for concurrent use. Unlike waffle's token-bucket KeyLimiter it
// can Reset a single key, which login uses to forgive failures after success.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int           // max requests per window
	duration time.Duration // window duration
	now      func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit requests per key per duration and
// starts its cleanup goroutine. Call Stop to end it.
func New(limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go l.cleanupLoop(duration * 2)
	return l
}

// Allow records one request for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, exists := l.windows[key]
	if !exists || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Remaining returns how many requests are left for key in the current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, exists := l.windows[key]
	if !exists || l.now().After(w.expiresAt) {
		return l.limit
	}
	return max(l.limit-w.count, 0)
}

// Reset clears the window for key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// Stop ends the cleanup goroutine. The limiter keeps working afterwards.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			now := l.now()
			for key, w := range l.windows {
				if now.After(w.expiresAt) {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// ClientIP returns the client address used as the per-IP key. It is
// waffle's IPKeyFunc (X-Forwarded-For, then X-Real-IP, then RemoteAddr
// without the port) with surrounding spaces trimmed.
func ClientIP(r *http.Request) string {
	return strings.TrimSpace(wafflerl.IPKeyFunc(r))
}

// Messages returned by LoginLimiter.Check.
const (
	MsgTooManyFromIP      = "Too many login attempts. Please wait a minute before trying again."
	MsgTooManyForUsername = "Too many login attempts for this account. Please wait a few minutes."
)

// LoginLimiter throttles login attempts per client IP and per username.
type LoginLimiter struct {
	ip   *Limiter
	user *Limiter
}

// NewLoginLimiter allows 10 attempts per IP per minute and 5 attempts per
// username per 5 minutes.
func NewLoginLimiter() *LoginLimiter {
	return NewLoginLimiterWithConfig(10, time.Minute, 5, 5*time.Minute)
}

// NewLoginLimiterWithConfig creates a login limiter with custom limits.
func NewLoginLimiterWithConfig(ipLimit int, ipWindow time.Duration, userLimit int, userWindow time.Duration) *LoginLimiter {
	return &LoginLimiter{
		ip:   New(ipLimit, ipWindow),
		user: New(userLimit, userWindow),
	}
}

// Check records an attempt and reports whether it may proceed; when it may
// not, reason is the message to show.
func (ll *LoginLimiter) Check(r *http.Request, username string) (ok bool, reason string) {
	if !ll.ip.Allow(ClientIP(r)) {
		return false, MsgTooManyFromIP
	}
	if username != "" && !ll.user.Allow(text.Fold(username)) {
		return false, MsgTooManyForUsername
	}
	return true, ""
}

// ResetUsername clears the per-account window after a successful login.
func (ll *LoginLimiter) ResetUsername(username string) {
	if username != "" {
		ll.user.Reset(text.Fold(username))
	}
}

// Stop ends both cleanup goroutines.
func (ll *LoginLimiter) Stop() {
	ll.ip.Stop()
	ll.user.Stop()
}
