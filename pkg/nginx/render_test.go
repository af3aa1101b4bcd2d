package nginx

import (
	"strings"
	"testing"
)

// TestRenderTLSMode: two server blocks, TLS directives only in the first.
func TestRenderTLSMode(t *testing.T) {
	out, err := Render(ProxyConfig{
		SSL:      true,
		Port:     9000,
		HTTPPort: 9001,
		CertFile: "/ssl/cert.pem",
		KeyFile:  "/ssl/key.pem",
		Protocol: "http",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if n := strings.Count(out, "server {"); n != 2 {
		t.Fatalf("expected 2 server blocks, got %d:\n%s", n, out)
	}
	for _, want := range []string{
		"listen 9000 ssl",
		"ssl_certificate /ssl/cert.pem;",
		"ssl_certificate_key /ssl/key.pem;",
		"include /etc/nginx/includes/ssl_params.conf;",
		"listen 9001;",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "proxy_pass http://backend;"); n != 2 {
		t.Fatalf("expected both blocks to proxy to http://backend, got %d", n)
	}

	// The plain listener block must carry no TLS directives.
	second := out[strings.LastIndex(out, "server {"):]
	if strings.Contains(second, "ssl") {
		t.Fatalf("plain listener block contains TLS directives:\n%s", second)
	}
}

// TestRenderPlainMode: single default listener, no TLS directives anywhere.
func TestRenderPlainMode(t *testing.T) {
	out, err := Render(ProxyConfig{
		SSL:      false,
		Port:     9000,
		HTTPPort: 9001,
		Protocol: "https",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if n := strings.Count(out, "server {"); n != 1 {
		t.Fatalf("expected 1 server block, got %d:\n%s", n, out)
	}
	if !strings.Contains(out, "listen 9001 default_server;") {
		t.Fatalf("missing default listener on 9001:\n%s", out)
	}
	if !strings.Contains(out, "proxy_pass https://backend;") {
		t.Fatalf("missing https backend proxy_pass:\n%s", out)
	}
	if strings.Contains(out, "ssl") {
		t.Fatalf("plain mode must not contain TLS directives:\n%s", out)
	}
	if strings.Contains(out, "listen 9000") {
		t.Fatalf("plain mode must not open the TLS port:\n%s", out)
	}
}

// TestRenderDeterministic: identical config renders byte-identical output.
func TestRenderDeterministic(t *testing.T) {
	cfg := ProxyConfig{SSL: true, Port: 443, HTTPPort: 80, CertFile: "/ssl/c.pem", KeyFile: "/ssl/k.pem", Protocol: "http"}
	a, err := Render(cfg)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	b, err := Render(cfg)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if a != b {
		t.Fatal("repeated renders differ")
	}
}
