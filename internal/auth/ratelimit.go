package auth

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sebuszqo/BudgetManager/internal/logger"
	"golang.org/x/time/rate"
)

const limiterIdleTimeout = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginLimiter throttles login attempts per client IP. The client IP is the
// TCP peer unless the peer is one of the trusted proxies.
type LoginLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
	trusted map[string]bool
	now     func() time.Time
}

func NewLoginLimiter(perMinute int, trustedProxies ...string) *LoginLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	trusted := make(map[string]bool, len(trustedProxies))
	for _, proxy := range trustedProxies {
		trusted[proxy] = true
	}
	return &LoginLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   perMinute,
		trusted: trusted,
		now:     time.Now,
	}
}

// Allow reports whether the client may attempt another login now.
func (l *LoginLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	client, exists := l.clients[ip]
	if !exists {
		client = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = client
	}
	client.lastSeen = l.now()
	return client.limiter.AllowN(client.lastSeen, 1)
}

func (l *LoginLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, client := range l.clients {
		if l.now().Sub(client.lastSeen) > limiterIdleTimeout {
			delete(l.clients, ip)
		}
	}
}

// StartCleanup drops idle clients every interval until ctx is done.
func (l *LoginLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.cleanup()
			}
		}
	}()
}

// Middleware answers 429 once the client IP runs out of attempts.
func (l *LoginLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := l.clientIP(r)
		if !l.Allow(ip) {
			log := logger.FromContext(r.Context())
			log.Warn().Str("client_ip", ip).Msg("Login rate limit exceeded")
			writeJSONError(w, http.StatusTooManyRequests, ErrTooManyLoginAttempts.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP walks X-Forwarded-For from the right while the hop that appended
// it is trusted, so a client cannot pick its own rate limit key.
func (l *LoginLimiter) clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if !l.trusted[ip] {
		return ip
	}
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		ip = hop
		if !l.trusted[hop] {
			break
		}
	}
	return ip
}
