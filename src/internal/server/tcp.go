// FILE: jsonsieve/src/internal/server/tcp.go
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"jsonsieve/src/internal/auth"
	"jsonsieve/src/internal/config"
	"jsonsieve/src/internal/format"
	"jsonsieve/src/internal/limit"
	"jsonsieve/src/internal/service"

	"github.com/lixenwraith/log"
	"github.com/lixenwraith/log/compat"
	"github.com/panjf2000/gnet/v2"
)

const (
	authTimeout = 30 * time.Second

	// How often idle connections are checked against their auth deadline
	authSweepInterval = time.Second
)

// TCPServer reads newline-framed text and answers with one NDJSON
// fragment record per line found.
type TCPServer struct {
	config        config.TCPConfig
	processor     *service.Processor
	limiter       *limit.Limiter
	authenticator *auth.Authenticator
	formatter     *format.FragmentFormatter
	handler       *tcpHandler
	engine        *gnet.Engine
	engineMu      sync.Mutex
	wg            sync.WaitGroup
	logger        *log.Logger

	// Statistics
	totalLines    atomic.Uint64
	emptyResults  atomic.Uint64
	fragmentsSent atomic.Uint64
	rateLimited   atomic.Uint64
	authFailures  atomic.Uint64
	authSuccesses atomic.Uint64
	authTimeouts  atomic.Uint64
	oversized     atomic.Uint64
	activeConns   atomic.Int64
}

// Per-connection state. The buffer belongs to the event loop; the auth
// flags are also read by the tick sweep.
type tcpClient struct {
	remoteAddr    string
	buffer        bytes.Buffer
	authenticated atomic.Bool
	timedOut      atomic.Bool
	authDeadline  time.Time
}

// authExpired reports whether a client that never authenticated ran out of time
func (c *tcpClient) authExpired(now time.Time) bool {
	return !c.authenticated.Load() && now.After(c.authDeadline)
}

// gnet event handler
type tcpHandler struct {
	gnet.BuiltinEventEngine
	server  *TCPServer
	clients map[gnet.Conn]*tcpClient
	mu      sync.RWMutex
}

func NewTCPServer(cfg config.TCPConfig, proc *service.Processor, limiter *limit.Limiter, authenticator *auth.Authenticator, logger *log.Logger) (*TCPServer, error) {
	if proc == nil {
		return nil, fmt.Errorf("tcp server requires a processor")
	}

	formatter, err := format.NewFragmentFormatter(config.OutputConfig{Format: "fragments"}, logger)
	if err != nil {
		return nil, err
	}

	return &TCPServer{
		config:        cfg,
		processor:     proc,
		limiter:       limiter,
		authenticator: authenticator,
		formatter:     formatter,
		logger:        logger,
	}, nil
}

func (t *TCPServer) Start() error {
	t.handler = &tcpHandler{
		server:  t,
		clients: make(map[gnet.Conn]*tcpClient),
	}

	addr := fmt.Sprintf("tcp://%s:%d", t.config.Host, t.config.Port)

	errChan := make(chan error, 1)
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.logger.Info("msg", "TCP server starting",
			"component", "tcp_server",
			"addr", addr,
			"auth", t.authenticator != nil)

		err := gnet.Run(t.handler, addr,
			gnet.WithLogger(compat.NewGnetAdapter(t.logger)),
			gnet.WithMulticore(true),
			gnet.WithReusePort(true),
			gnet.WithTicker(t.authenticator != nil),
		)
		if err != nil {
			t.logger.Error("msg", "TCP server failed",
				"component", "tcp_server",
				"addr", addr,
				"error", err)
		}
		errChan <- err
	}()

	select {
	case err := <-errChan:
		t.wg.Wait()
		if err == nil {
			err = errors.New("engine exited during startup")
		}
		return fmt.Errorf("tcp server failed on %s: %w", addr, err)
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

func (t *TCPServer) Stop() {
	t.engineMu.Lock()
	engine := t.engine
	t.engineMu.Unlock()

	if engine != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := engine.Stop(ctx); err != nil {
			t.logger.Error("msg", "Error stopping TCP server",
				"component", "tcp_server",
				"error", err)
		}
	}

	t.wg.Wait()
	t.logger.Info("msg", "TCP server stopped", "component", "tcp_server")
}

// newClient creates connection state and the greeting to send
func (t *TCPServer) newClient(remoteAddr string) (*tcpClient, []byte) {
	client := &tcpClient{remoteAddr: remoteAddr}
	if t.authenticator == nil {
		client.authenticated.Store(true)
		return client, nil
	}

	client.authDeadline = time.Now().Add(authTimeout)
	return client, []byte("AUTH_REQUIRED\n")
}

// consume appends data to the client buffer and handles every complete line.
// It returns bytes to write back and whether the connection must close.
func (t *TCPServer) consume(client *tcpClient, data []byte) ([]byte, bool) {
	client.buffer.Write(data)

	var out bytes.Buffer
	for {
		if client.authExpired(time.Now()) {
			t.expireAuth(client)
			return out.Bytes(), true
		}

		idx := bytes.IndexByte(client.buffer.Bytes(), '\n')
		if idx < 0 {
			break
		}

		line := string(bytes.TrimRight(client.buffer.Next(idx+1), "\r\n"))

		if !client.authenticated.Load() {
			if !t.authenticate(client, line) {
				out.WriteString("AUTH_FAIL\n")
				return out.Bytes(), true
			}
			out.WriteString("AUTH_OK\n")
			continue
		}

		if int64(len(line)) > t.config.MaxLineBytes && t.config.MaxLineBytes > 0 {
			t.oversized.Add(1)
			return out.Bytes(), true
		}

		t.handleLine(client, line, &out)
	}

	if t.config.MaxLineBytes > 0 && int64(client.buffer.Len()) > t.config.MaxLineBytes {
		t.oversized.Add(1)
		t.logger.Warn("msg", "Line too long without newline",
			"component", "tcp_server",
			"remote_addr", client.remoteAddr,
			"buffer_size", client.buffer.Len())
		return out.Bytes(), true
	}

	return out.Bytes(), false
}

// The auth line is "AUTH <Authorization header value>"
func (t *TCPServer) authenticate(client *tcpClient, line string) bool {
	header, ok := strings.CutPrefix(line, "AUTH ")
	if !ok {
		t.authFailures.Add(1)
		return false
	}

	identity, err := t.authenticator.Authenticate(header, client.remoteAddr)
	if err != nil {
		t.authFailures.Add(1)
		return false
	}

	t.authSuccesses.Add(1)
	client.authenticated.Store(true)

	t.logger.Info("msg", "TCP client authenticated",
		"component", "tcp_server",
		"remote_addr", client.remoteAddr,
		"method", identity.Method,
		"username", identity.Username)
	return true
}

// expireAuth records an auth timeout once per client
func (t *TCPServer) expireAuth(client *tcpClient) bool {
	if !client.timedOut.CompareAndSwap(false, true) {
		return false
	}
	t.authTimeouts.Add(1)
	t.logger.Warn("msg", "Authentication timeout",
		"component", "tcp_server",
		"remote_addr", client.remoteAddr)
	return true
}

func (t *TCPServer) handleLine(client *tcpClient, line string, out *bytes.Buffer) {
	if strings.TrimSpace(line) == "" {
		return
	}
	t.totalLines.Add(1)

	if !t.limiter.Allow(client.remoteAddr) {
		t.rateLimited.Add(1)
		_, message := t.limiter.Response()
		writeErrorLine(out, message)
		return
	}

	fragments, err := t.processor.Process(line)
	if err != nil {
		if errors.Is(err, service.ErrNoFragments) {
			t.emptyResults.Add(1)
		}
		writeErrorLine(out, err.Error())
		return
	}

	for _, f := range fragments {
		record, err := t.formatter.Format(f)
		if err != nil {
			t.logger.Error("msg", "Failed to format fragment",
				"component", "tcp_server",
				"fragment_id", f.ID,
				"error", err)
			continue
		}
		out.Write(record)
		t.fragmentsSent.Add(1)
	}
}

func writeErrorLine(out *bytes.Buffer, message string) {
	line, _ := json.Marshal(map[string]string{"error": message})
	out.Write(line)
	out.WriteByte('\n')
}

// GetStats returns TCP server statistics
func (t *TCPServer) GetStats() map[string]any {
	return map[string]any{
		"host":               t.config.Host,
		"port":               t.config.Port,
		"active_connections": t.activeConns.Load(),
		"total_lines":        t.totalLines.Load(),
		"lines_without_json": t.emptyResults.Load(),
		"fragments_sent":     t.fragmentsSent.Load(),
		"rate_limited":       t.rateLimited.Load(),
		"oversized_lines":    t.oversized.Load(),
		"auth_failures":      t.authFailures.Load(),
		"auth_successes":     t.authSuccesses.Load(),
		"auth_timeouts":      t.authTimeouts.Load(),
	}
}

func (h *tcpHandler) OnBoot(eng gnet.Engine) gnet.Action {
	h.server.engineMu.Lock()
	h.server.engine = &eng
	h.server.engineMu.Unlock()

	h.server.logger.Debug("msg", "TCP server booted",
		"component", "tcp_server",
		"port", h.server.config.Port)
	return gnet.None
}

func (h *tcpHandler) OnOpen(c gnet.Conn) (out []byte, action gnet.Action) {
	client, greeting := h.server.newClient(c.RemoteAddr().String())

	h.mu.Lock()
	h.clients[c] = client
	h.mu.Unlock()

	count := h.server.activeConns.Add(1)
	h.server.logger.Debug("msg", "TCP connection opened",
		"component", "tcp_server",
		"remote_addr", client.remoteAddr,
		"active_connections", count)

	return greeting, gnet.None
}

func (h *tcpHandler) OnClose(c gnet.Conn, err error) gnet.Action {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()

	count := h.server.activeConns.Add(-1)
	h.server.logger.Debug("msg", "TCP connection closed",
		"component", "tcp_server",
		"remote_addr", c.RemoteAddr().String(),
		"active_connections", count,
		"error", err)
	return gnet.None
}

func (h *tcpHandler) OnTraffic(c gnet.Conn) gnet.Action {
	h.mu.RLock()
	client, exists := h.clients[c]
	h.mu.RUnlock()

	if !exists {
		return gnet.Close
	}

	data, err := c.Next(-1)
	if err != nil {
		h.server.logger.Error("msg", "Error reading from connection",
			"component", "tcp_server",
			"remote_addr", client.remoteAddr,
			"error", err)
		return gnet.Close
	}

	out, closeConn := h.server.consume(client, data)
	if len(out) > 0 {
		var callback gnet.AsyncCallback
		if closeConn {
			// Close once the final reply is flushed
			callback = func(c gnet.Conn, _ error) error {
				return c.Close()
			}
		}
		if err := c.AsyncWrite(out, callback); err != nil {
			return gnet.Close
		}
		return gnet.None
	}

	if closeConn {
		return gnet.Close
	}
	return gnet.None
}

// OnTick closes connections that sent nothing before their auth deadline
func (h *tcpHandler) OnTick() (time.Duration, gnet.Action) {
	h.closeExpired(time.Now())
	return authSweepInterval, gnet.None
}

func (h *tcpHandler) closeExpired(now time.Time) int {
	var expired []gnet.Conn

	h.mu.RLock()
	for c, client := range h.clients {
		if client.authExpired(now) && h.server.expireAuth(client) {
			expired = append(expired, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range expired {
		c.Close()
	}
	return len(expired)
}
