// FILE: jsonsieve/src/internal/tls/cert.go
package tls

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"flag"
	"fmt"
	"io"
	"math/big"
	"net"
	"os"
	"strings"
	"time"
)

// CertCommand writes a self-signed certificate for the HTTPS listener
type CertCommand struct {
	output io.Writer
	errOut io.Writer
}

func NewCertCommand() *CertCommand {
	return &CertCommand{
		output: os.Stdout,
		errOut: os.Stderr,
	}
}

func (cc *CertCommand) Execute(args []string) error {
	cmd := flag.NewFlagSet("cert", flag.ContinueOnError)
	cmd.SetOutput(cc.errOut)

	var (
		commonName = cmd.String("cn", "localhost", "Common name")
		hosts      = cmd.String("hosts", "localhost,127.0.0.1", "Comma-separated hostnames/IPs")
		validDays  = cmd.Int("days", 365, "Validity period in days")
		certOut    = cmd.String("cert-out", "server.crt", "Output certificate file")
		keyOut     = cmd.String("key-out", "server.key", "Output key file")
	)

	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *validDays <= 0 {
		return fmt.Errorf("days must be positive")
	}

	certPEM, keyPEM, err := GenerateSelfSigned(*commonName, splitHosts(*hosts), time.Duration(*validDays)*24*time.Hour)
	if err != nil {
		return err
	}

	if err := os.WriteFile(*certOut, certPEM, 0o644); err != nil {
		return fmt.Errorf("failed to write certificate: %w", err)
	}
	if err := os.WriteFile(*keyOut, keyPEM, 0o600); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}

	fmt.Fprintf(cc.output, "Self-signed certificate generated:\n")
	fmt.Fprintf(cc.output, "  Certificate: %s\n", *certOut)
	fmt.Fprintf(cc.output, "  Private Key: %s (mode 0600)\n", *keyOut)
	fmt.Fprintf(cc.output, "  Valid for:   %d days\n", *validDays)
	fmt.Fprintf(cc.output, "\n[server.http.tls]\nenabled = true\ncert_file = %q\nkey_file = %q\n", *certOut, *keyOut)
	return nil
}

func (cc *CertCommand) Description() string {
	return "Generate a self-signed TLS certificate for HTTPS"
}

func (cc *CertCommand) Help() string {
	return `Cert Command - Generate a self-signed TLS certificate

Usage:
  jsonsieve cert [options]

Options:
  -cn <name>          Common name (default: localhost)
  -hosts <list>       Comma-separated hostnames/IPs for SANs (default: localhost,127.0.0.1)
  -days <n>           Validity period in days (default: 365)
  -cert-out <file>    Certificate output (default: server.crt)
  -key-out <file>     Private key output, mode 0600 (default: server.key)

The printed [server.http.tls] block enables HTTPS with the new pair.
`
}

// GenerateSelfSigned returns a PEM encoded ECDSA P-256 certificate and key
func GenerateSelfSigned(commonName string, hosts []string, validFor time.Duration) ([]byte, []byte, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate private key: %w", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate serial number: %w", err)
	}

	now := time.Now()
	template := x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName:   commonName,
			Organization: []string{"jsonsieve"},
		},
		NotBefore:   now.Add(-time.Minute),
		NotAfter:    now.Add(validFor),
		KeyUsage:    x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
		} else {
			template.DNSNames = append(template.DNSNames, h)
		}
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create certificate: %w", err)
	}

	keyDER, err := x509.MarshalECPrivateKey(priv)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode private key: %w", err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	return certPEM, keyPEM, nil
}

func splitHosts(list string) []string {
	var hosts []string
	for _, h := range strings.Split(list, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}
