// Package tlsconfig turns the api.tls block of a context into a client
// tls.Config.
package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"strings"

	"github.com/crmarques/weddash/config"
	"github.com/crmarques/weddash/faults"
)

// Build returns nil when settings is nil so callers keep the transport's
// default TLS behaviour.
func Build(settings *config.TLS) (*tls.Config, error) {
	if settings == nil {
		return nil, nil
	}

	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: settings.InsecureSkipVerify,
	}

	roots, err := loadRootCAs(settings.CACertFile)
	if err != nil {
		return nil, err
	}
	tlsConfig.RootCAs = roots

	certificate, err := loadClientCertificate(settings.ClientCertFile, settings.ClientKeyFile)
	if err != nil {
		return nil, err
	}
	if certificate != nil {
		tlsConfig.Certificates = []tls.Certificate{*certificate}
	}

	return tlsConfig, nil
}

// MutualTLS reports whether settings carry a client certificate pair.
func MutualTLS(settings *config.TLS) bool {
	if settings == nil {
		return false
	}
	return strings.TrimSpace(settings.ClientCertFile) != "" && strings.TrimSpace(settings.ClientKeyFile) != ""
}

func loadRootCAs(path string) (*x509.CertPool, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}

	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, validationError("api.tls.ca-cert-file could not be read", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemBytes) {
		return nil, validationError("api.tls.ca-cert-file is not valid PEM", nil)
	}
	return pool, nil
}

func loadClientCertificate(certFile string, keyFile string) (*tls.Certificate, error) {
	certFile = strings.TrimSpace(certFile)
	keyFile = strings.TrimSpace(keyFile)
	if (certFile == "") != (keyFile == "") {
		return nil, validationError("api.tls requires both client-cert-file and client-key-file", nil)
	}
	if certFile == "" {
		return nil, nil
	}

	certificate, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, validationError("api.tls client certificate pair is invalid", err)
	}
	return &certificate, nil
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}
