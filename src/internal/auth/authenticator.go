// FILE: jsonsieve/src/internal/auth/authenticator.go
package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"jsonsieve/src/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lixenwraith/log"
	"golang.org/x/crypto/bcrypt"
)

// ErrUnauthorized wraps every credential rejection
var ErrUnauthorized = errors.New("unauthorized")

// Compared against when the user is unknown so both paths cost one bcrypt run
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BRCZ4yG7hG0Ti4u8Ul7Bq8eZ6W1e"

// Identity describes an authenticated caller
type Identity struct {
	Username string
	Method   string // none, basic, bearer, jwt
}

// Authenticator validates Authorization header values for the listeners
type Authenticator struct {
	config       config.AuthConfig
	logger       *log.Logger
	basicUsers   map[string]string // username -> password hash
	bearerTokens map[string]bool   // token -> valid
	jwtParser    *jwt.Parser
	jwtKeyFunc   jwt.Keyfunc

	totalAttempts atomic.Uint64
	totalFailures atomic.Uint64
}

// New creates an authenticator from config; type "none" yields nil,
// which accepts every request.
func New(cfg config.AuthConfig, logger *log.Logger) (*Authenticator, error) {
	if cfg.Type == "" || cfg.Type == config.AuthTypeNone {
		return nil, nil
	}

	a := &Authenticator{
		config:       cfg,
		logger:       logger,
		basicUsers:   make(map[string]string),
		bearerTokens: make(map[string]bool),
	}

	switch cfg.Type {
	case config.AuthTypeBasic:
		if cfg.BasicAuth == nil || len(cfg.BasicAuth.Users) == 0 {
			return nil, fmt.Errorf("basic auth requires at least one user")
		}
		for _, user := range cfg.BasicAuth.Users {
			if _, err := bcrypt.Cost([]byte(user.PasswordHash)); err != nil {
				return nil, fmt.Errorf("user %s: invalid bcrypt hash: %w", user.Username, err)
			}
			a.basicUsers[user.Username] = user.PasswordHash
		}

	case config.AuthTypeBearer:
		if cfg.BearerAuth == nil {
			return nil, fmt.Errorf("bearer auth type specified but config missing")
		}
		for _, token := range cfg.BearerAuth.Tokens {
			a.bearerTokens[token] = true
		}

		if jc := cfg.BearerAuth.JWT; jc != nil && jc.SigningKey != "" {
			opts := []jwt.ParserOption{
				jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
				jwt.WithLeeway(5 * time.Second),
				jwt.WithExpirationRequired(),
			}
			if jc.Issuer != "" {
				opts = append(opts, jwt.WithIssuer(jc.Issuer))
			}
			if jc.Audience != "" {
				opts = append(opts, jwt.WithAudience(jc.Audience))
			}
			a.jwtParser = jwt.NewParser(opts...)

			key := []byte(jc.SigningKey)
			a.jwtKeyFunc = func(token *jwt.Token) (any, error) {
				return key, nil
			}
		}

		if len(a.bearerTokens) == 0 && a.jwtParser == nil {
			return nil, fmt.Errorf("bearer auth requires tokens or a jwt signing_key")
		}

	default:
		return nil, fmt.Errorf("unsupported auth type: %s", cfg.Type)
	}

	logger.Info("msg", "Authenticator initialized",
		"component", "auth",
		"type", cfg.Type)

	return a, nil
}

// Authenticate checks an Authorization header value
func (a *Authenticator) Authenticate(authHeader, remoteAddr string) (*Identity, error) {
	if a == nil {
		return &Identity{Method: config.AuthTypeNone}, nil
	}

	a.totalAttempts.Add(1)

	var identity *Identity
	var err error

	switch a.config.Type {
	case config.AuthTypeBasic:
		identity, err = a.authenticateBasic(authHeader)
	case config.AuthTypeBearer:
		identity, err = a.authenticateBearer(authHeader)
	default:
		err = fmt.Errorf("unsupported auth type: %s", a.config.Type)
	}

	if err != nil {
		a.totalFailures.Add(1)
		a.logger.Warn("msg", "Authentication failed",
			"component", "auth",
			"remote_addr", remoteAddr,
			"error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	a.logger.Debug("msg", "Authenticated",
		"component", "auth",
		"remote_addr", remoteAddr,
		"method", identity.Method,
		"username", identity.Username)

	return identity, nil
}

// Challenge returns the WWW-Authenticate value for rejected requests
func (a *Authenticator) Challenge() string {
	if a == nil {
		return ""
	}
	if a.config.Type == config.AuthTypeBasic {
		return fmt.Sprintf("Basic realm=%q", a.config.Realm)
	}
	return fmt.Sprintf("Bearer realm=%q", a.config.Realm)
}

func (a *Authenticator) authenticateBasic(authHeader string) (*Identity, error) {
	if !strings.HasPrefix(authHeader, "Basic ") {
		return nil, fmt.Errorf("invalid basic auth header")
	}

	payload, err := base64.StdEncoding.DecodeString(authHeader[6:])
	if err != nil {
		return nil, fmt.Errorf("invalid base64 encoding")
	}

	username, password, ok := strings.Cut(string(payload), ":")
	if !ok {
		return nil, fmt.Errorf("invalid credentials format")
	}

	expectedHash, exists := a.basicUsers[username]
	if !exists {
		bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(expectedHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	return &Identity{Username: username, Method: config.AuthTypeBasic}, nil
}

func (a *Authenticator) authenticateBearer(authHeader string) (*Identity, error) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, fmt.Errorf("invalid bearer auth header")
	}

	token := strings.TrimSpace(authHeader[7:])
	if a.bearerTokens[token] {
		return &Identity{Method: config.AuthTypeBearer}, nil
	}

	if a.jwtParser == nil {
		return nil, fmt.Errorf("invalid token")
	}

	claims := jwt.MapClaims{}
	parsed, err := a.jwtParser.ParseWithClaims(token, claims, a.jwtKeyFunc)
	if err != nil {
		return nil, fmt.Errorf("JWT validation failed: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid JWT token")
	}

	username, _ := claims.GetSubject()
	return &Identity{Username: username, Method: "jwt"}, nil
}

// GetStats returns authentication statistics
func (a *Authenticator) GetStats() map[string]any {
	if a == nil {
		return map[string]any{"enabled": false}
	}

	return map[string]any{
		"enabled":        true,
		"type":           a.config.Type,
		"basic_users":    len(a.basicUsers),
		"static_tokens":  len(a.bearerTokens),
		"jwt":            a.jwtParser != nil,
		"total_attempts": a.totalAttempts.Load(),
		"total_failures": a.totalFailures.Load(),
	}
}
