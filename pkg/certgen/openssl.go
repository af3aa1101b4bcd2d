package certgen

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

const defaultOpenSSLBinary = "openssl"

// OpenSSLIssuer shells out to the openssl binary. The request parameters are
// passed through a transient req configuration file which is removed on every
// exit path, including context cancellation.
type OpenSSLIssuer struct {
	Binary  string // openssl binary, defaults to "openssl"
	TempDir string // where the transient config lives, defaults to os.TempDir()
}

// Issue generates the certificate/key pair by invoking
//
//	openssl req -new -x509 -nodes -sha256 -newkey rsa:4096 -days 3650 ...
//
// with the subject and alt_names written to a temporary config file.
func (o *OpenSSLIssuer) Issue(ctx context.Context, req Request, sub Subject) error {
	cnf, err := o.writeReqConfig(sub)
	if err != nil {
		return fmt.Errorf("write openssl config: %w", err)
	}
	defer os.Remove(cnf)

	bin := o.Binary
	if bin == "" {
		bin = defaultOpenSSLBinary
	}
	cmd := exec.CommandContext(ctx, bin,
		"req", "-new", "-x509", "-nodes",
		"-sha256",
		"-newkey", fmt.Sprintf("rsa:%d", KeyBits),
		"-days", strconv.Itoa(ValidityDays),
		"-config", cnf,
		"-extensions", "v3_req",
		"-keyout", req.KeyFile,
		"-out", req.CertFile,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &GenerationError{Tool: bin, Output: string(out), Err: err}
	}
	return nil
}

// reqConfig renders the transient openssl request configuration for sub.
func reqConfig(sub Subject) string {
	var b strings.Builder
	b.WriteString("[req]\n")
	fmt.Fprintf(&b, "default_bits = %d\n", KeyBits)
	b.WriteString("default_md = sha256\n")
	b.WriteString("prompt = no\n")
	b.WriteString("distinguished_name = dn\n")
	b.WriteString("x509_extensions = v3_req\n\n")
	b.WriteString("[dn]\n")
	fmt.Fprintf(&b, "CN = %s\n\n", sub.CommonName)
	b.WriteString("[v3_req]\n")
	b.WriteString("subjectAltName = @alt_names\n\n")
	b.WriteString("[alt_names]\n")
	for i, name := range sub.AltNames {
		fmt.Fprintf(&b, "DNS.%d = %s\n", i+1, name)
	}
	return b.String()
}

func (o *OpenSSLIssuer) writeReqConfig(sub Subject) (string, error) {
	dir := o.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	f, err := os.CreateTemp(dir, "openssl-req-*.cnf")
	if err != nil {
		return "", err
	}
	_, werr := f.WriteString(reqConfig(sub))
	cerr := f.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(f.Name())
		if werr != nil {
			return "", werr
		}
		return "", cerr
	}
	return f.Name(), nil
}
