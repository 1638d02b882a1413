// FILE: jsonsieve/src/internal/server/http.go
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"jsonsieve/src/internal/auth"
	"jsonsieve/src/internal/config"
	"jsonsieve/src/internal/core"
	"jsonsieve/src/internal/extract"
	"jsonsieve/src/internal/limit"
	"jsonsieve/src/internal/service"
	"jsonsieve/src/internal/tls"
	"jsonsieve/src/internal/version"

	"github.com/lixenwraith/log"
	"github.com/lixenwraith/log/compat"
	"github.com/valyala/fasthttp"
)

// HTTPServer exposes extraction over HTTP
type HTTPServer struct {
	config        config.HTTPConfig
	processor     *service.Processor
	limiter       *limit.Limiter
	authenticator *auth.Authenticator
	tlsManager    *tls.ServerManager
	server        *fasthttp.Server
	logger        *log.Logger
	startTime     time.Time

	// Statistics
	totalRequests     atomic.Uint64
	processedRequests atomic.Uint64
	failedRequests    atomic.Uint64
	rateLimited       atomic.Uint64
	authFailures      atomic.Uint64
	fragmentsReturned atomic.Uint64
}

// processRequest is the JSON body of POST /process
type processRequest struct {
	InputText *string `json:"inputText"`
	MoliMode  *bool   `json:"moliMode"`
}

type receivedData struct {
	MoliMode    bool `json:"moliMode"`
	InputLength int  `json:"inputLength"`
}

type processResponse struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	ReceivedData receivedData    `json:"receivedData"`
	Count        int             `json:"count"`
	Fragments    []core.Fragment `json:"fragments"`
}

func NewHTTPServer(cfg config.HTTPConfig, proc *service.Processor, limiter *limit.Limiter, authenticator *auth.Authenticator, logger *log.Logger) (*HTTPServer, error) {
	if proc == nil {
		return nil, fmt.Errorf("http server requires a processor")
	}

	tlsManager, err := tls.NewServerManager(cfg.TLS, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create TLS manager: %w", err)
	}

	return &HTTPServer{
		config:        cfg,
		processor:     proc,
		limiter:       limiter,
		authenticator: authenticator,
		tlsManager:    tlsManager,
		logger:        logger,
		startTime:     time.Now(),
	}, nil
}

func (h *HTTPServer) Start() error {
	h.server = &fasthttp.Server{
		Name:               version.ServerName(),
		Handler:            h.requestHandler,
		Logger:             compat.NewFastHTTPAdapter(h.logger),
		MaxRequestBodySize: int(h.config.MaxBodyBytes),
		ReadTimeout:        time.Duration(h.config.ReadTimeoutMs) * time.Millisecond,
		WriteTimeout:       time.Duration(h.config.WriteTimeoutMs) * time.Millisecond,
		CloseOnShutdown:    true,
	}
	if h.tlsManager != nil {
		h.server.TLSConfig = h.tlsManager.GetHTTPConfig()
	}

	addr := fmt.Sprintf("%s:%d", h.config.Host, h.config.Port)

	errChan := make(chan error, 1)
	go func() {
		h.logger.Info("msg", "HTTP server starting",
			"component", "http_server",
			"addr", addr,
			"process_path", h.config.ProcessPath,
			"health_path", h.config.HealthPath,
			"auth", h.authenticator != nil,
			"tls", h.tlsManager != nil)

		var err error
		if h.tlsManager != nil {
			err = h.server.ListenAndServeTLS(addr, h.tlsManager.CertFile(), h.tlsManager.KeyFile())
		} else {
			err = h.server.ListenAndServe(addr)
		}
		if err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("http server failed on %s: %w", addr, err)
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

func (h *HTTPServer) Stop() {
	if h.server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := h.server.ShutdownWithContext(ctx); err != nil {
		h.logger.Error("msg", "Error shutting down HTTP server",
			"component", "http_server",
			"error", err)
	}

	h.logger.Info("msg", "HTTP server stopped", "component", "http_server")
}

func (h *HTTPServer) requestHandler(ctx *fasthttp.RequestCtx) {
	h.totalRequests.Add(1)
	remoteAddr := ctx.RemoteAddr().String()
	path := string(ctx.Path())

	// Health endpoint is neither limited nor authenticated
	if path == h.config.HealthPath {
		h.handleHealth(ctx)
		return
	}

	if !h.limiter.Allow(remoteAddr) {
		h.rateLimited.Add(1)
		code, message := h.limiter.Response()
		h.writeJSON(ctx, code, map[string]any{
			"success": false,
			"error":   message,
		})
		return
	}

	if path != h.config.ProcessPath {
		h.writeJSON(ctx, fasthttp.StatusNotFound, map[string]any{
			"error": "Not Found",
			"hint":  fmt.Sprintf("POST text to %s", h.config.ProcessPath),
		})
		return
	}

	if h.authenticator != nil {
		authHeader := string(ctx.Request.Header.Peek(fasthttp.HeaderAuthorization))
		if _, err := h.authenticator.Authenticate(authHeader, remoteAddr); err != nil {
			h.authFailures.Add(1)
			ctx.Response.Header.Set(fasthttp.HeaderWWWAuthenticate, h.authenticator.Challenge())
			h.writeJSON(ctx, fasthttp.StatusUnauthorized, map[string]any{
				"success": false,
				"error":   "Unauthorized",
			})
			return
		}
	}

	switch {
	case ctx.IsGet():
		h.writeJSON(ctx, fasthttp.StatusOK, map[string]any{
			"message":   "API endpoint is ready",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	case ctx.IsPost():
		h.handleProcess(ctx)
	default:
		ctx.Response.Header.Set(fasthttp.HeaderAllow, "GET, POST")
		h.writeJSON(ctx, fasthttp.StatusMethodNotAllowed, map[string]any{
			"error": "Method Not Allowed",
		})
	}
}

func (h *HTTPServer) handleProcess(ctx *fasthttp.RequestCtx) {
	body := ctx.PostBody()
	if h.config.MaxBodyBytes > 0 && int64(len(body)) > h.config.MaxBodyBytes {
		h.fail(ctx, fasthttp.StatusRequestEntityTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", h.config.MaxBodyBytes))
		return
	}

	text, mode, err := h.parseRequest(ctx, body)
	if err != nil {
		h.fail(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	received := receivedData{
		MoliMode:    mode == extract.ModeMoli,
		InputLength: len(text),
	}

	fragments, err := h.processor.ProcessMode(text, mode)
	switch {
	case errors.Is(err, service.ErrEmptyInput):
		h.fail(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	case errors.Is(err, service.ErrNoFragments):
		h.processedRequests.Add(1)
		h.writeJSON(ctx, fasthttp.StatusOK, processResponse{
			Success:      true,
			Message:      err.Error(),
			ReceivedData: received,
			Fragments:    []core.Fragment{},
		})
		return
	case err != nil:
		h.logger.Error("msg", "Processing failed",
			"component", "http_server",
			"error", err)
		h.fail(ctx, fasthttp.StatusInternalServerError, "processing failed")
		return
	}

	h.processedRequests.Add(1)
	h.fragmentsReturned.Add(uint64(len(fragments)))

	if fragments == nil {
		fragments = []core.Fragment{}
	}

	h.logger.Debug("msg", "Processed request",
		"component", "http_server",
		"remote_addr", ctx.RemoteAddr().String(),
		"mode", mode,
		"input_length", len(text),
		"fragments", len(fragments))

	h.writeJSON(ctx, fasthttp.StatusOK, processResponse{
		Success:      true,
		Message:      fmt.Sprintf("Found %d JSON objects", len(fragments)),
		ReceivedData: received,
		Count:        len(fragments),
		Fragments:    fragments,
	})
}

// parseRequest accepts a JSON envelope or a raw text body.
// moliMode in the envelope wins over the mode query argument.
func (h *HTTPServer) parseRequest(ctx *fasthttp.RequestCtx, body []byte) (string, extract.Mode, error) {
	mode := h.processor.Mode()
	if q := ctx.QueryArgs().Peek("mode"); len(q) > 0 {
		parsed, err := extract.ParseMode(string(q))
		if err != nil {
			return "", "", err
		}
		mode = parsed
	}

	contentType := string(ctx.Request.Header.ContentType())
	if !strings.HasPrefix(strings.ToLower(contentType), "application/json") {
		return string(body), mode, nil
	}

	var req processRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&req); err != nil {
		return "", "", fmt.Errorf("invalid request body: %w", err)
	}
	if req.InputText == nil {
		return "", "", fmt.Errorf("invalid request body: inputText is required")
	}

	if req.MoliMode != nil {
		if *req.MoliMode {
			mode = extract.ModeMoli
		} else {
			mode = extract.ModeGeneric
		}
	}

	return *req.InputText, mode, nil
}

func (h *HTTPServer) handleHealth(ctx *fasthttp.RequestCtx) {
	h.writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": int(time.Since(h.startTime).Seconds()),
		"version":        version.Info(),
		"server":         h.GetStats(),
		"processor":      h.processor.GetStats(),
	})
}

func (h *HTTPServer) fail(ctx *fasthttp.RequestCtx, code int, message string) {
	h.failedRequests.Add(1)
	h.writeJSON(ctx, code, map[string]any{
		"success": false,
		"error":   message,
	})
}

func (h *HTTPServer) writeJSON(ctx *fasthttp.RequestCtx, code int, v any) {
	ctx.SetStatusCode(code)
	ctx.SetContentType("application/json")

	enc := json.NewEncoder(ctx)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		h.logger.Error("msg", "Failed to encode response",
			"component", "http_server",
			"error", err)
	}
}

// GetStats returns HTTP server statistics
func (h *HTTPServer) GetStats() map[string]any {
	return map[string]any{
		"host":               h.config.Host,
		"port":               h.config.Port,
		"total_requests":     h.totalRequests.Load(),
		"processed_requests": h.processedRequests.Load(),
		"failed_requests":    h.failedRequests.Load(),
		"rate_limited":       h.rateLimited.Load(),
		"auth_failures":      h.authFailures.Load(),
		"fragments_returned": h.fragmentsReturned.Load(),
		"rate_limit":         h.limiter.GetStats(),
		"auth":               h.authenticator.GetStats(),
		"tls":                h.tlsManager.GetStats(),
	}
}
