// FILE: jsonsieve/src/cmd/jsonsieve/status.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"jsonsieve/src/internal/config"
	"jsonsieve/src/internal/server"
	"jsonsieve/src/internal/service"
)

const statusInterval = 30 * time.Second

func enableStatusReporter() bool {
	return os.Getenv("JSONSIEVE_DISABLE_STATUS_REPORTER") != "1"
}

// Periodically logs server and processor status
func statusReporter(ctx context.Context, mgr *server.Manager, proc *service.Processor) {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reportStatus(mgr, proc)
		}
	}
}

func reportStatus(mgr *server.Manager, proc *service.Processor) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("msg", "Panic in status reporter",
				"component", "status_reporter",
				"panic", r)
		}
	}()

	procStats := proc.GetStats()
	logger.Debug("msg", "Status report",
		"component", "status_reporter",
		"uptime_seconds", procStats["uptime_seconds"],
		"documents", procStats["total_documents"],
		"fragments", procStats["total_fragments"],
		"valid", procStats["valid_fragments"],
		"repaired", procStats["repaired_fragments"],
		"invalid", procStats["invalid_fragments"],
		"filtered", procStats["filtered_fragments"])

	stats := mgr.GetStats()
	if httpStats, ok := stats["http"].(map[string]any); ok {
		logger.Debug("msg", "HTTP server status",
			"component", "status_reporter",
			"requests", httpStats["total_requests"],
			"processed", httpStats["processed_requests"],
			"failed", httpStats["failed_requests"],
			"rate_limited", httpStats["rate_limited"],
			"auth_failures", httpStats["auth_failures"])
	}
	if tcpStats, ok := stats["tcp"].(map[string]any); ok {
		logger.Debug("msg", "TCP server status",
			"component", "status_reporter",
			"connections", tcpStats["active_connections"],
			"lines", tcpStats["total_lines"],
			"fragments_sent", tcpStats["fragments_sent"],
			"rate_limited", tcpStats["rate_limited"],
			"oversized_lines", tcpStats["oversized_lines"])
	}
}

// Logs and prints the listening endpoints
func displayEndpoints(cfg config.ServerConfig) {
	if cfg.HTTP.Enabled {
		host := displayHost(cfg.HTTP.Host)
		logger.Info("msg", "HTTP endpoints configured",
			"component", "main",
			"listen", fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
			"process_url", fmt.Sprintf("http://%s:%d%s", host, cfg.HTTP.Port, cfg.HTTP.ProcessPath),
			"health_url", fmt.Sprintf("http://%s:%d%s", host, cfg.HTTP.Port, cfg.HTTP.HealthPath))
		Error("HTTP: http://%s:%d%s\n", host, cfg.HTTP.Port, cfg.HTTP.ProcessPath)
	}

	if cfg.TCP.Enabled {
		host := displayHost(cfg.TCP.Host)
		logger.Info("msg", "TCP endpoint configured",
			"component", "main",
			"listen", fmt.Sprintf("%s:%d", cfg.TCP.Host, cfg.TCP.Port),
			"max_line_bytes", cfg.TCP.MaxLineBytes)
		Error("TCP:  %s:%d\n", host, cfg.TCP.Port)
	}

	if cfg.RateLimit.Enabled {
		logger.Info("msg", "Rate limiting enabled",
			"component", "main",
			"requests_per_second", cfg.RateLimit.RequestsPerSecond,
			"burst_size", cfg.RateLimit.BurstSize)
	}

	if cfg.Auth.Type != "" && cfg.Auth.Type != config.AuthTypeNone {
		logger.Info("msg", "Authentication enabled",
			"component", "main",
			"auth_type", cfg.Auth.Type)
	}
}

func displayHost(host string) string {
	if host == "" || host == "0.0.0.0" {
		return "localhost"
	}
	return host
}
