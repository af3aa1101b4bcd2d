package test

import (
	"context"
	"crypto/tls"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jnovack/proxy-bootstrap/internal/helpers"
	"github.com/jnovack/proxy-bootstrap/pkg/certgen"
	"github.com/jnovack/proxy-bootstrap/pkg/nginx"
)

// TestProvisionAndRenderEndToEnd provisions a real pair with the native
// issuer and renders the TLS proxy configuration referencing it, the same
// sequence the supervisor runs at container start.
func TestProvisionAndRenderEndToEnd(t *testing.T) {
	td := t.TempDir()
	certFile := filepath.Join(td, "ssl", "cert.pem")
	keyFile := filepath.Join(td, "ssl", "key.pem")

	prov := certgen.New(certgen.NativeIssuer{})
	require.NoError(t, prov.Provision(context.Background(), certFile, keyFile))

	_, err := tls.LoadX509KeyPair(certFile, keyFile)
	require.NoError(t, err, "provisioned pair must be servable")

	out, err := nginx.Render(nginx.ProxyConfig{
		SSL:      true,
		Port:     443,
		HTTPPort: 80,
		CertFile: certFile,
		KeyFile:  keyFile,
		Protocol: "http",
	})
	require.NoError(t, err)
	require.Contains(t, out, "ssl_certificate "+certFile+";")
	require.Contains(t, out, "ssl_certificate_key "+keyFile+";")
	require.Equal(t, 2, strings.Count(out, "server {"))

	// Every path the rendered config references must exist on disk.
	for _, p := range []string{certFile, keyFile} {
		_, err := os.Stat(p)
		require.NoError(t, err)
	}
}

// TestOpenSSLProvision exercises the real openssl backend when the binary is
// available; otherwise the test is skipped.
func TestOpenSSLProvision(t *testing.T) {
	if _, err := exec.LookPath("openssl"); err != nil {
		t.Skip("openssl not installed")
	}

	td := t.TempDir()
	tmpDir := filepath.Join(td, "tmp")
	require.NoError(t, os.MkdirAll(tmpDir, 0o755))
	certFile := filepath.Join(td, "ssl", "cert.pem")
	keyFile := filepath.Join(td, "ssl", "key.pem")

	prov := certgen.New(&certgen.OpenSSLIssuer{TempDir: tmpDir})
	prov.Hostname = func() (string, error) { return "integration-host", nil }
	require.NoError(t, prov.Provision(context.Background(), certFile, keyFile))

	cert := helpers.ParseCertPEM(t, certFile)
	require.Equal(t, "integration-host", cert.Subject.CommonName)
	require.ElementsMatch(t, []string{"localhost", "integration-host"}, cert.DNSNames)

	_, err := tls.LoadX509KeyPair(certFile, keyFile)
	require.NoError(t, err)

	// The transient openssl config must be gone after provisioning.
	require.Empty(t, helpers.ListDir(t, tmpDir))
}
