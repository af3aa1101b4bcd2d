package certgen

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"
	"time"
)

// NativeIssuer issues the certificate with the Go crypto stack instead of
// shelling out. Same profile as the openssl backend: RSA-4096, SHA-256,
// 3650-day validity, DNS SANs.
type NativeIssuer struct{}

// Issue creates a self-signed certificate and PKCS#1 private key at the
// requested paths.
func (NativeIssuer) Issue(ctx context.Context, req Request, sub Subject) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	priv, err := rsa.GenerateKey(rand.Reader, KeyBits)
	if err != nil {
		return &GenerationError{Tool: "x509", Err: fmt.Errorf("generate RSA key: %w", err)}
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return &GenerationError{Tool: "x509", Err: fmt.Errorf("generate serial: %w", err)}
	}

	now := time.Now()
	template := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: sub.CommonName},
		NotBefore:             now.Add(-1 * time.Hour),
		NotAfter:              now.AddDate(0, 0, ValidityDays),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		DNSNames:              append([]string(nil), sub.AltNames...),
		BasicConstraintsValid: true,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &priv.PublicKey, priv)
	if err != nil {
		return &GenerationError{Tool: "x509", Err: fmt.Errorf("create certificate: %w", err)}
	}

	certPem := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPem := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)})

	if err := writeFileAtomic(req.CertFile, certPem, 0o644); err != nil {
		return &GenerationError{Tool: "x509", Err: fmt.Errorf("write certificate: %w", err)}
	}
	if err := writeFileAtomic(req.KeyFile, keyPem, 0o600); err != nil {
		return &GenerationError{Tool: "x509", Err: fmt.Errorf("write key: %w", err)}
	}
	return nil
}

func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, mode); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
