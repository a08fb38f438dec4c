package middlewarectx

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/middleware"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/service-marketplace/internal/http/response"
)

// MsgTooManyRequests сообщение при превышении лимита.
const MsgTooManyRequests = "Muitas requisições, tente novamente mais tarde!"

// idleClientTTL время, после которого лимитер неактивного клиента удаляется.
const idleClientTTL = 10 * time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPLimiter держит отдельный rate.Limiter на каждый адрес клиента.
type IPLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	clients   map[string]*client
	lastSweep time.Time
	now       func() time.Time
}

// NewIPLimiter создаёт IPLimiter, где каждому клиенту положено limit
// запросов в секунду с запасом burst.
func NewIPLimiter(limit rate.Limit, burst int) *IPLimiter {
	return &IPLimiter{
		limit:     limit,
		burst:     burst,
		clients:   make(map[string]*client),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow расходует одно событие из лимита клиента key.
func (l *IPLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > idleClientTTL {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) > idleClientTTL {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// RateLimitMiddleware отклоняет запросы клиента сверх его лимита с кодом 429.
// Клиент определяется по r.RemoteAddr, который middleware.RealIP уже
// заменил адресом из X-Real-IP или X-Forwarded-For.
func RateLimitMiddleware(limiter *IPLimiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !limiter.Allow(ip) {
				log.Warn("too many requests",
					slog.String("path", r.URL.Path),
					slog.String("client_ip", ip),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				response.WriteError(w, r, http.StatusTooManyRequests, MsgTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
