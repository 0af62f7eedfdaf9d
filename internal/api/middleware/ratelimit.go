package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Togather-Foundation/eventhub/internal/api/problem"
	"github.com/Togather-Foundation/eventhub/internal/config"
)

type RateLimitTier string

const (
	TierPublic RateLimitTier = "public"
	TierWrite  RateLimitTier = "write"
)

const (
	limiterTTL      = 15 * time.Minute
	cleanupInterval = 5 * time.Minute
)

// TierFor picks the bucket a request draws from. Anything that mutates
// state is a write.
func TierFor(r *http.Request) RateLimitTier {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return TierPublic
	default:
		return TierWrite
	}
}

// RateLimiter keeps one token bucket per client and tier.
type RateLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*limiterEntry
	perMinute   map[RateLimitTier]int
	trusted     []*net.IPNet
	env         string
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(cfg config.RateLimitConfig, env string) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		perMinute: map[RateLimitTier]int{
			TierPublic: cfg.PublicPerMinute,
			TierWrite:  cfg.WritePerMinute,
		},
		trusted:     parseCIDRs(cfg.TrustedProxyCIDRs),
		env:         env,
		stopCleanup: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Middleware rejects requests over the tier limit with 429. Health checks are
// never limited.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/healthz", "/readyz", "/health", "/metrics":
			next.ServeHTTP(w, r)
			return
		}

		tier := TierFor(r)
		limiter := rl.limiter(tier, rl.clientKey(r))
		if limiter != nil && !limiter.Allow() {
			retryAfter := time.Minute / time.Duration(rl.perMinute[tier])
			w.Header().Set("Retry-After", strconv.Itoa(max(1, int(retryAfter.Seconds()))))
			problem.Write(w, r, http.StatusTooManyRequests, "Too many requests",
				"Rate limit exceeded, retry later", nil, rl.env)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) limiter(tier RateLimitTier, key string) *rate.Limiter {
	limit := rl.perMinute[tier]
	if limit <= 0 {
		return nil
	}
	lookup := string(tier) + ":" + key

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if entry, ok := rl.limiters[lookup]; ok {
		entry.lastSeen = time.Now()
		return entry.limiter
	}

	interval := time.Minute / time.Duration(limit)
	limiter := rate.NewLimiter(rate.Every(interval), limit)
	rl.limiters[lookup] = &limiterEntry{limiter: limiter, lastSeen: time.Now()}
	return limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *RateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > limiterTTL {
			delete(rl.limiters, key)
		}
	}
}

// Stop ends the background cleanup. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

// clientKey identifies the caller. Forwarding headers are honoured only
// when the connection comes from a trusted proxy.
func (rl *RateLimiter) clientKey(r *http.Request) string {
	remoteIP := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		remoteIP = host
	}

	if rl.isTrustedProxy(remoteIP) {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			return strings.TrimSpace(first)
		}
		if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
			return strings.TrimSpace(realIP)
		}
	}
	return remoteIP
}

func (rl *RateLimiter) isTrustedProxy(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, cidr := range rl.trusted {
		if cidr.Contains(parsed) {
			return true
		}
	}
	return false
}

func parseCIDRs(values []string) []*net.IPNet {
	out := make([]*net.IPNet, 0, len(values))
	for _, value := range values {
		if _, cidr, err := net.ParseCIDR(strings.TrimSpace(value)); err == nil {
			out = append(out, cidr)
		}
	}
	return out
}
