package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiter conta requisições por IP em janelas fixas de duração window.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	window  time.Duration
	now     func() time.Time
}

type bucket struct {
	opened time.Time
	hits   int
}

// NewRateLimiter inicia também a varredura de buckets vencidos, que termina com ctx.
func NewRateLimiter(ctx context.Context, limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets: map[string]*bucket{},
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
	go rl.sweep(ctx, 10*time.Minute)
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b := rl.buckets[ip]
	if b == nil || now.Sub(b.opened) > rl.window {
		rl.buckets[ip] = &bucket{opened: now, hits: 1}
		return true
	}
	b.hits++
	return b.hits <= rl.limit
}

// Limit deve vir depois de chimw.RealIP para que RemoteAddr seja o IP do cliente.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.Allow(hostOnly(r.RemoteAddr)) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}{"RATE_LIMITED", "muitas requisições, tente novamente em instantes"})
	})
}

func hostOnly(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

func (rl *RateLimiter) sweep(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		rl.mu.Lock()
		for ip, b := range rl.buckets {
			if rl.now().Sub(b.opened) > 2*rl.window {
				delete(rl.buckets, ip)
			}
		}
		rl.mu.Unlock()
	}
}
