// Package helpers holds shared fixtures for provisioning and renderer tests.
package helpers

import (
	"context"
	"crypto/x509"
	"encoding/pem"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jnovack/proxy-bootstrap/pkg/certgen"
)

// FakeIssuer records the requests it serves and writes placeholder material,
// standing in for the openssl-backed issuer.
type FakeIssuer struct {
	Err      error // returned as-is when non-nil, after recording the call
	Requests []certgen.Request
	Subjects []certgen.Subject
}

func (f *FakeIssuer) Issue(_ context.Context, req certgen.Request, sub certgen.Subject) error {
	f.Requests = append(f.Requests, req)
	f.Subjects = append(f.Subjects, sub)
	if f.Err != nil {
		return f.Err
	}
	if err := os.WriteFile(req.CertFile, []byte("fake certificate\n"), 0o644); err != nil {
		return err
	}
	return os.WriteFile(req.KeyFile, []byte("fake key\n"), 0o600)
}

// ParseCertPEM decodes and parses the first CERTIFICATE block in the file.
func ParseCertPEM(t *testing.T, path string) *x509.Certificate {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err, "read certificate file")
	block, _ := pem.Decode(b)
	require.NotNil(t, block, "certificate PEM block")
	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err, "parse certificate")
	return cert
}

// ListDir returns the names of all entries in dir.
func ListDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err, "read dir")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
