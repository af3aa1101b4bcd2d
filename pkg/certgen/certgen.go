// Package certgen provisions a fresh self-signed certificate/key pair on disk.
//
// Responsibilities:
//   - Validate the caller-supplied certificate and key paths
//   - Replace the certificate storage directory (regeneration is always
//     unconditional; prior material is discarded)
//   - Resolve the subject host, falling back to "localhost"
//   - Delegate issuance to a pluggable Issuer (openssl-backed by default)
package certgen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Certificate profile shared by every issuing backend.
const (
	KeyBits      = 4096
	ValidityDays = 3650

	// FallbackHost is the subject used when hostname resolution fails.
	FallbackHost = "localhost"

	loopbackName = "localhost"
)

// Request names the output locations for one issuance.
type Request struct {
	CertFile string
	KeyFile  string
}

// Subject describes the identity baked into the certificate.
type Subject struct {
	CommonName string
	AltNames   []string
}

// Issuer produces a self-signed certificate and matching private key at the
// requested paths. Implementations must not leave partial state behind on
// context cancellation.
type Issuer interface {
	Issue(ctx context.Context, req Request, sub Subject) error
}

// ErrMissingArgument is returned when the certificate or key path is empty.
var ErrMissingArgument = errors.New("certificate and key paths are required")

// GenerationError reports a failure from the issuing backend.
type GenerationError struct {
	Tool   string
	Output string
	Err    error
}

func (e *GenerationError) Error() string {
	if out := strings.TrimSpace(e.Output); out != "" {
		return fmt.Sprintf("%s: %v: %s", e.Tool, e.Err, out)
	}
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Provisioner regenerates certificate material at startup.
type Provisioner struct {
	Issuer Issuer

	// Hostname resolves the subject host. Defaults to os.Hostname; a failure
	// is never fatal and substitutes FallbackHost.
	Hostname func() (string, error)
}

// New returns a Provisioner issuing through the given backend.
func New(issuer Issuer) *Provisioner {
	return &Provisioner{Issuer: issuer, Hostname: os.Hostname}
}

// Provision replaces the certificate storage directory and issues a fresh
// self-signed pair at certFile/keyFile. Prior material is always discarded,
// even if still valid.
func (p *Provisioner) Provision(ctx context.Context, certFile, keyFile string) error {
	if certFile == "" || keyFile == "" {
		return ErrMissingArgument
	}

	host := p.resolveHost()
	sub := Subject{CommonName: host, AltNames: altNames(host)}

	certDir := filepath.Dir(certFile)
	if err := replaceDir(certDir); err != nil {
		return fmt.Errorf("reset certificate directory: %w", err)
	}
	if keyDir := filepath.Dir(keyFile); keyDir != certDir {
		if err := replaceDir(keyDir); err != nil {
			return fmt.Errorf("reset key directory: %w", err)
		}
	}

	log.Info().Str("cn", sub.CommonName).Strs("san", sub.AltNames).Msg("generating self-signed certificate")
	if err := p.Issuer.Issue(ctx, Request{CertFile: certFile, KeyFile: keyFile}, sub); err != nil {
		return err
	}
	log.Info().Str("cert", certFile).Str("key", keyFile).Msg("certificate ready")
	return nil
}

func (p *Provisioner) resolveHost() string {
	resolve := p.Hostname
	if resolve == nil {
		resolve = os.Hostname
	}
	host, err := resolve()
	if err != nil || host == "" {
		log.Debug().Err(err).Str("fallback", FallbackHost).Msg("hostname resolution failed")
		return FallbackHost
	}
	return host
}

func altNames(host string) []string {
	names := []string{loopbackName}
	if host != loopbackName {
		names = append(names, host)
	}
	return names
}

// replaceDir discards the directory and its contents and recreates it as a
// single step, so callers never observe a deleted-but-not-recreated state.
func replaceDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}
