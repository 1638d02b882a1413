// FILE: jsonsieve/src/internal/auth/generator.go
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"io"
	"os"
	"syscall"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

const (
	minTokenBytes = 16
	maxTokenBytes = 512
)

// GeneratorCommand produces credentials for the server auth sections
type GeneratorCommand struct {
	output       io.Writer
	errOut       io.Writer
	readPassword func() ([]byte, error)
	now          func() time.Time
}

func NewGeneratorCommand() *GeneratorCommand {
	return &GeneratorCommand{
		output: os.Stdout,
		errOut: os.Stderr,
		readPassword: func() ([]byte, error) {
			return term.ReadPassword(int(syscall.Stdin))
		},
		now: time.Now,
	}
}

func (g *GeneratorCommand) Execute(args []string) error {
	cmd := flag.NewFlagSet("auth", flag.ContinueOnError)
	cmd.SetOutput(g.errOut)

	var (
		username = cmd.String("u", "", "Username for basic auth")
		password = cmd.String("p", "", "Password to hash (will prompt if not provided)")
		cost     = cmd.Int("c", bcrypt.DefaultCost, "bcrypt cost")
		genToken = cmd.Bool("t", false, "Generate random bearer token")
		tokenLen = cmd.Int("l", 32, "Token length in bytes")
		jwtKey   = cmd.String("jwt-key", "", "Sign a JWT with this HMAC key")
		subject  = cmd.String("sub", "", "JWT subject")
		issuer   = cmd.String("iss", "", "JWT issuer")
		audience = cmd.String("aud", "", "JWT audience")
		ttl      = cmd.Duration("ttl", 24*time.Hour, "JWT lifetime")
	)

	cmd.Usage = func() {
		fmt.Fprintln(g.errOut, "Generate authentication credentials for jsonsieve servers")
		fmt.Fprintln(g.errOut, "\nUsage: jsonsieve auth [options]")
		fmt.Fprintln(g.errOut, "\nExamples:")
		fmt.Fprintln(g.errOut, "  # bcrypt hash for a basic auth user")
		fmt.Fprintln(g.errOut, "  jsonsieve auth -u admin")
		fmt.Fprintln(g.errOut, "  ")
		fmt.Fprintln(g.errOut, "  # 64-byte bearer token")
		fmt.Fprintln(g.errOut, "  jsonsieve auth -t -l 64")
		fmt.Fprintln(g.errOut, "  ")
		fmt.Fprintln(g.errOut, "  # HS256 JWT valid for one hour")
		fmt.Fprintln(g.errOut, "  jsonsieve auth -jwt-key secret -sub ci -ttl 1h")
		fmt.Fprintln(g.errOut, "\nOptions:")
		cmd.PrintDefaults()
	}

	if err := cmd.Parse(args); err != nil {
		return err
	}

	switch {
	case *jwtKey != "":
		return g.generateJWT(*jwtKey, *subject, *issuer, *audience, *ttl)
	case *genToken:
		return g.generateToken(*tokenLen)
	case *username == "":
		cmd.Usage()
		return fmt.Errorf("username required for password hash generation")
	}

	return g.generatePasswordHash(*username, *password, *cost)
}

func (g *GeneratorCommand) Description() string {
	return "Generate bcrypt hashes, bearer tokens and JWTs"
}

func (g *GeneratorCommand) Help() string {
	return `Usage: jsonsieve auth [options]

Generate credentials for [server.auth] in the config file.

Options:
  -u <name>        Username for a basic auth entry
  -p <password>    Password to hash (prompted when omitted)
  -c <cost>        bcrypt cost (default 10)
  -t               Generate a random bearer token
  -l <bytes>       Token length in bytes (default 32)
  -jwt-key <key>   Sign an HS256 JWT with this key
  -sub/-iss/-aud   JWT subject, issuer and audience
  -ttl <duration>  JWT lifetime (default 24h)
`
}

// HashPassword returns a bcrypt hash usable as basic_auth password_hash
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return "", fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// GenerateToken returns length random bytes, URL-safe base64 encoded
func GenerateToken(length int) (string, error) {
	if length > maxTokenBytes {
		return "", fmt.Errorf("token length exceeds maximum (%d bytes)", maxTokenBytes)
	}
	if length <= 0 {
		return "", fmt.Errorf("token length must be positive")
	}

	token := make([]byte, length)
	if _, err := rand.Read(token); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(token), nil
}

// SignJWT issues an HS256 token the bearer authenticator accepts
func SignJWT(key, subject, issuer, audience string, expires time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	if audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (g *GeneratorCommand) generatePasswordHash(username, password string, cost int) error {
	if password == "" {
		pass1, err := g.promptPassword("Enter password: ")
		if err != nil {
			return err
		}
		pass2, err := g.promptPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if pass1 != pass2 {
			return fmt.Errorf("passwords don't match")
		}
		password = pass1
	}

	hash, err := HashPassword(password, cost)
	if err != nil {
		return err
	}

	fmt.Fprintln(g.output, "\n# TOML Configuration (add to jsonsieve.toml):")
	fmt.Fprintln(g.output, "[[server.auth.basic_auth.users]]")
	fmt.Fprintf(g.output, "username = %q\n", username)
	fmt.Fprintf(g.output, "password_hash = %q\n", hash)

	return nil
}

func (g *GeneratorCommand) generateToken(length int) error {
	if length < minTokenBytes {
		fmt.Fprintf(g.errOut, "Warning: tokens < %d bytes are cryptographically weak\n", minTokenBytes)
	}

	token, err := GenerateToken(length)
	if err != nil {
		return err
	}

	fmt.Fprintln(g.output, "\n# TOML Configuration (add to jsonsieve.toml):")
	fmt.Fprintln(g.output, "[server.auth.bearer_auth]")
	fmt.Fprintf(g.output, "tokens = [%q]\n", token)

	return nil
}

func (g *GeneratorCommand) generateJWT(key, subject, issuer, audience string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive")
	}

	token, err := SignJWT(key, subject, issuer, audience, g.now().Add(ttl))
	if err != nil {
		return err
	}

	fmt.Fprintln(g.output, token)
	return nil
}

func (g *GeneratorCommand) promptPassword(prompt string) (string, error) {
	fmt.Fprint(g.errOut, prompt)
	password, err := g.readPassword()
	fmt.Fprintln(g.errOut)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}
