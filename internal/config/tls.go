package config

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// TemporalTLS returns the mTLS client configuration for the Temporal
// frontend, or nil when no client certificate is configured.
func (c *Config) TemporalTLS() (*tls.Config, error) {
	if c.TemporalTLSCert == "" && c.TemporalTLSKey == "" {
		return nil, nil
	}

	cert, err := tls.LoadX509KeyPair(c.TemporalTLSCert, c.TemporalTLSKey)
	if err != nil {
		return nil, fmt.Errorf("load temporal client cert: %w", err)
	}

	out := &tls.Config{
		Certificates: []tls.Certificate{cert},
		ServerName:   c.TemporalTLSServerName,
		MinVersion:   tls.VersionTLS12,
	}

	if c.TemporalTLSCACert == "" {
		return out, nil
	}

	caPEM, err := os.ReadFile(c.TemporalTLSCACert)
	if err != nil {
		return nil, fmt.Errorf("read temporal CA cert: %w", err)
	}
	roots := x509.NewCertPool()
	if !roots.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("parse temporal CA cert %s: no certificates found", c.TemporalTLSCACert)
	}
	out.RootCAs = roots

	return out, nil
}
