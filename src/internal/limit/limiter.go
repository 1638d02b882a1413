// FILE: jsonsieve/src/internal/limit/limiter.go
package limit

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"jsonsieve/src/internal/config"

	"github.com/lixenwraith/log"
	"golang.org/x/time/rate"
)

// Limiter enforces a per-client request rate on the network listeners
type Limiter struct {
	config          config.RateLimitConfig
	logger          *log.Logger
	cleanupInterval time.Duration

	// map[string]*clientLimiter
	clients sync.Map

	// Statistics
	totalRequests   atomic.Uint64
	blockedRequests atomic.Uint64
	uniqueClients   atomic.Uint64

	// Lifecycle management
	ctx         context.Context
	cancel      context.CancelFunc
	cleanupDone chan struct{}
	stopOnce    sync.Once
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// New creates a limiter; a disabled config yields nil, which allows everything.
func New(cfg config.RateLimitConfig, logger *log.Logger) *Limiter {
	if !cfg.Enabled {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	l := &Limiter{
		config:          cfg,
		logger:          logger,
		cleanupInterval: time.Duration(cfg.CleanupIntervalS) * time.Second,
		ctx:             ctx,
		cancel:          cancel,
		cleanupDone:     make(chan struct{}),
	}
	if l.cleanupInterval <= 0 {
		l.cleanupInterval = time.Minute
	}

	go l.cleanupLoop()

	logger.Info("msg", "Rate limiter initialized",
		"component", "limit",
		"requests_per_second", cfg.RequestsPerSecond,
		"burst_size", cfg.BurstSize,
		"cleanup_interval", l.cleanupInterval)

	return l
}

// Allow reports whether a request from remoteAddr may proceed
func (l *Limiter) Allow(remoteAddr string) bool {
	if l == nil {
		return true
	}

	l.totalRequests.Add(1)

	if l.clientFor(clientKey(remoteAddr)).Allow() {
		return true
	}

	l.blockedRequests.Add(1)
	l.logger.Debug("msg", "Request rate limited",
		"component", "limit",
		"remote_addr", remoteAddr)
	return false
}

// Response returns the status code and message for limited requests
func (l *Limiter) Response() (int, string) {
	if l == nil {
		return 429, "Rate limit exceeded"
	}
	return int(l.config.ResponseCode), l.config.ResponseMessage
}

func (l *Limiter) clientFor(key string) *rate.Limiter {
	now := time.Now().UnixNano()

	if val, ok := l.clients.Load(key); ok {
		client := val.(*clientLimiter)
		client.lastSeen.Store(now)
		return client.limiter
	}

	client := &clientLimiter{
		limiter: rate.NewLimiter(rate.Limit(l.config.RequestsPerSecond), int(l.config.BurstSize)),
	}
	client.lastSeen.Store(now)

	actual, loaded := l.clients.LoadOrStore(key, client)
	if !loaded {
		l.uniqueClients.Add(1)
	}
	return actual.(*clientLimiter).limiter
}

// clientKey strips the port so every connection from a host shares a bucket
func clientKey(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

// Stop ends the cleanup goroutine
func (l *Limiter) Stop() {
	if l == nil {
		return
	}
	l.stopOnce.Do(func() {
		l.cancel()
		<-l.cleanupDone
	})
}

func (l *Limiter) cleanupLoop() {
	defer close(l.cleanupDone)

	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.ctx.Done():
			return
		case now := <-ticker.C:
			l.cleanup(now)
		}
	}
}

// Removes clients idle longer than the cleanup interval
func (l *Limiter) cleanup(now time.Time) int {
	cutoff := now.Add(-l.cleanupInterval).UnixNano()
	cleaned := 0

	l.clients.Range(func(key, val any) bool {
		if val.(*clientLimiter).lastSeen.Load() < cutoff {
			l.clients.Delete(key)
			cleaned++
		}
		return true
	})

	if cleaned > 0 {
		l.logger.Debug("msg", "Cleaned up idle client limiters",
			"component", "limit",
			"cleaned", cleaned)
	}
	return cleaned
}

// GetStats returns rate limiter statistics
func (l *Limiter) GetStats() map[string]any {
	if l == nil {
		return map[string]any{"enabled": false}
	}

	active := 0
	l.clients.Range(func(_, _ any) bool {
		active++
		return true
	})

	return map[string]any{
		"enabled":             true,
		"requests_per_second": l.config.RequestsPerSecond,
		"burst_size":          l.config.BurstSize,
		"total_requests":      l.totalRequests.Load(),
		"blocked_requests":    l.blockedRequests.Load(),
		"unique_clients":      l.uniqueClients.Load(),
		"active_clients":      active,
	}
}
