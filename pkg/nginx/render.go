package nginx

import (
	"strings"
	"text/template"
)

// The two modes are separate templates rather than one template with
// branches, so each stays independently testable and deterministic.

var tlsTemplate = template.Must(template.New("tls").Parse(`server {
    listen {{.Port}} ssl http2;

    include /etc/nginx/includes/server_params.conf;
    include /etc/nginx/includes/proxy_params.conf;
    include /etc/nginx/includes/ssl_params.conf;

    ssl_certificate {{.CertFile}};
    ssl_certificate_key {{.KeyFile}};

    location / {
        proxy_pass {{.Protocol}}://backend;
    }
}

server {
    listen {{.HTTPPort}};

    include /etc/nginx/includes/server_params.conf;
    include /etc/nginx/includes/proxy_params.conf;

    location / {
        proxy_pass {{.Protocol}}://backend;
    }
}
`))

var plainTemplate = template.Must(template.New("plain").Parse(`server {
    listen {{.HTTPPort}} default_server;

    include /etc/nginx/includes/server_params.conf;
    include /etc/nginx/includes/proxy_params.conf;

    location / {
        proxy_pass {{.Protocol}}://backend;
    }
}
`))

// Render emits the server configuration for cfg, selecting exactly one mode.
// Output is byte-identical for identical input.
func Render(cfg ProxyConfig) (string, error) {
	if cfg.SSL {
		return renderTLS(cfg)
	}
	return renderPlain(cfg)
}

func renderTLS(cfg ProxyConfig) (string, error)   { return execute(tlsTemplate, cfg) }
func renderPlain(cfg ProxyConfig) (string, error) { return execute(plainTemplate, cfg) }

func execute(t *template.Template, cfg ProxyConfig) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, cfg); err != nil {
		return "", err
	}
	return b.String(), nil
}
