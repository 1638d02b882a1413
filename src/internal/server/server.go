// FILE: jsonsieve/src/internal/server/server.go
package server

import (
	"fmt"

	"jsonsieve/src/internal/auth"
	"jsonsieve/src/internal/config"
	"jsonsieve/src/internal/limit"
	"jsonsieve/src/internal/service"

	"github.com/lixenwraith/log"
)

// Manager owns the configured network listeners and their shared
// rate limiter and authenticator.
type Manager struct {
	HTTP    *HTTPServer
	TCP     *TCPServer
	limiter *limit.Limiter
	logger  *log.Logger
}

func NewManager(cfg config.ServerConfig, proc *service.Processor, logger *log.Logger) (*Manager, error) {
	if !cfg.AnyEnabled() {
		return nil, fmt.Errorf("no server listener is enabled")
	}

	authenticator, err := auth.New(cfg.Auth, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticator: %w", err)
	}

	m := &Manager{
		limiter: limit.New(cfg.RateLimit, logger),
		logger:  logger,
	}

	if cfg.HTTP.Enabled {
		if m.HTTP, err = NewHTTPServer(cfg.HTTP, proc, m.limiter, authenticator, logger); err != nil {
			m.limiter.Stop()
			return nil, err
		}
	}

	if cfg.TCP.Enabled {
		if m.TCP, err = NewTCPServer(cfg.TCP, proc, m.limiter, authenticator, logger); err != nil {
			m.limiter.Stop()
			return nil, err
		}
	}

	return m, nil
}

// Start brings up every listener, stopping those already started on failure
func (m *Manager) Start() error {
	if m.HTTP != nil {
		if err := m.HTTP.Start(); err != nil {
			return err
		}
	}

	if m.TCP != nil {
		if err := m.TCP.Start(); err != nil {
			if m.HTTP != nil {
				m.HTTP.Stop()
			}
			return err
		}
	}

	m.logger.Info("msg", "Servers started",
		"component", "server",
		"http", m.HTTP != nil,
		"tcp", m.TCP != nil)
	return nil
}

func (m *Manager) Stop() {
	if m.HTTP != nil {
		m.HTTP.Stop()
	}
	if m.TCP != nil {
		m.TCP.Stop()
	}
	m.limiter.Stop()
}

// GetStats returns statistics for every listener
func (m *Manager) GetStats() map[string]any {
	stats := map[string]any{
		"rate_limit": m.limiter.GetStats(),
	}
	if m.HTTP != nil {
		stats["http"] = m.HTTP.GetStats()
	}
	if m.TCP != nil {
		stats["tcp"] = m.TCP.GetStats()
	}
	return stats
}
