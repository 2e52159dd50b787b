package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/crucial707/userapi/internal/metrics"
	"golang.org/x/time/rate"
)

// DefaultRateLimitMax and DefaultRateLimitWindow allow 100 requests per client every 15 minutes.
const (
	DefaultRateLimitMax    = 100
	DefaultRateLimitWindow = 15 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter limits requests per client IP using a token bucket per IP.
// A bucket holds max tokens and refills completely over window.
type IPRateLimiter struct {
	ips    map[string]*visitor
	mu     sync.Mutex
	limit  rate.Limit
	burst  int
	window time.Duration
	now    func() time.Time
}

// NewIPRateLimiter creates a per-IP limiter allowing max requests per window.
// Non-positive values fall back to the defaults.
func NewIPRateLimiter(max int, window time.Duration) *IPRateLimiter {
	if max <= 0 {
		max = DefaultRateLimitMax
	}
	if window <= 0 {
		window = DefaultRateLimitWindow
	}
	return &IPRateLimiter{
		ips:    make(map[string]*visitor),
		limit:  rate.Every(window / time.Duration(max)),
		burst:  max,
		window: window,
		now:    time.Now,
	}
}

func (l *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.ips[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.ips[ip] = v
	}
	v.lastSeen = l.now()
	return v.limiter
}

// Sweep forgets clients not seen for a full window; their buckets would be
// full again anyway. Returns the number of entries removed.
func (l *IPRateLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	removed := 0
	for ip, v := range l.ips {
		if v.lastSeen.Before(cutoff) {
			delete(l.ips, ip)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked clients.
func (l *IPRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ips)
}

// clientIP keys the limiter on the connection's peer address. Forwarding
// headers are honoured only when chi's RealIP has already rewritten
// RemoteAddr for a trusted proxy.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// Middleware returns a chi-compatible middleware that returns 429 when the client IP exceeds the rate.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lim := l.getLimiter(clientIP(r))
		res := lim.ReserveN(l.now(), 1)
		if delay := res.DelayFrom(l.now()); delay > 0 {
			res.CancelAt(l.now())
			metrics.IncRateLimited()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"too many requests"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
