package middleware

import (
	"net/http"
	"sync"
	"time"

	"enci/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// rateEntry tracks request counts per IP within a sliding window.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

type rateMap struct {
	entries map[string]*rateEntry
	mu      sync.Mutex
}

func newRateMap() *rateMap {
	return &rateMap{entries: make(map[string]*rateEntry)}
}

func (m *rateMap) get(ip string) *rateEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[ip]
	if !ok {
		entry = &rateEntry{}
		m.entries[ip] = entry
	}
	return entry
}

var (
	loginRates    = newRateMap()
	registroRates = newRateMap()
	apiRates      = newRateMap()
)

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return limit(loginRates, 20, time.Minute,
		"Demasiados intentos de login. Intente en 1 minuto.")
}

// RegistroRateLimiter throttles the public registration endpoints, which are
// the only unauthenticated writes in the system.
func RegistroRateLimiter() gin.HandlerFunc {
	return limit(registroRates, 10, time.Minute,
		"Demasiados intentos de registro. Intente en 1 minuto.")
}

// RateLimiter is the general-purpose API limiter.
func RateLimiter(maxRequests int, window time.Duration) gin.HandlerFunc {
	return limit(apiRates, maxRequests, window,
		"Demasiadas solicitudes. Intente nuevamente en un momento.")
}

func limit(rates *rateMap, maxRequests int, window time.Duration, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		entry := rates.get(c.ClientIP())

		entry.mu.Lock()
		defer entry.mu.Unlock()

		now := time.Now()
		if now.After(entry.windowEnd) {
			entry.count = 0
			entry.windowEnd = now.Add(window)
		}

		entry.count++
		if entry.count > maxRequests {
			c.Header("Retry-After", entry.windowEnd.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}

// ── Purge goroutine ──────────────────────────────────────────────────────────
// Expired entries are dropped periodically so IPs that never return do not
// accumulate.

const purgeInterval = 5 * time.Minute

func init() {
	go purgeExpiredEntries()
}

func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		purged := 0
		for _, m := range []*rateMap{loginRates, registroRates, apiRates} {
			m.mu.Lock()
			for ip, entry := range m.entries {
				entry.mu.Lock()
				if now.After(entry.windowEnd) {
					delete(m.entries, ip)
					purged++
				}
				entry.mu.Unlock()
			}
			m.mu.Unlock()
		}
		if purged > 0 {
			log.Debug().Int("entries_purged", purged).Msg("rate limiter maps purged")
		}
	}
}
