// Command gen-cert regenerates the self-signed TLS certificate/key pair used
// by the bundled reverse proxy. The supervisor invokes it once at container
// start:
//
//	gen-cert <certfile> <keyfile>
//
// Any prior certificate material in the target directories is discarded.
package main

import (
	"errors"
	"os"

	"github.com/jnovack/flag"
	"github.com/rs/zerolog/log"

	"github.com/jnovack/proxy-bootstrap/pkg/certgen"
	"github.com/jnovack/proxy-bootstrap/pkg/logging"
	"github.com/jnovack/proxy-bootstrap/pkg/signals"
)

var (
	flagIssuer   = flag.String("issuer", "openssl", "issuing backend: openssl|native")
	flagOpenSSL  = flag.String("openssl", "openssl", "openssl binary to invoke")
	flagLogLevel = flag.String("log-level", "info", "log level")
)

func main() {
	flag.Parse()
	logging.Setup(*flagLogLevel)

	args := flag.Args()
	if len(args) != 2 {
		log.Error().Int("args", len(args)).Msg("usage: gen-cert <certfile> <keyfile>")
		os.Exit(1)
	}

	var issuer certgen.Issuer
	switch *flagIssuer {
	case "openssl":
		issuer = &certgen.OpenSSLIssuer{Binary: *flagOpenSSL}
	case "native":
		issuer = certgen.NativeIssuer{}
	default:
		log.Error().Str("issuer", *flagIssuer).Msg("unknown issuer backend")
		os.Exit(1)
	}

	ctx := signals.Setup()
	prov := certgen.New(issuer)
	if err := prov.Provision(ctx, args[0], args[1]); err != nil {
		if errors.Is(err, certgen.ErrMissingArgument) {
			log.Error().Err(err).Msg("usage: gen-cert <certfile> <keyfile>")
		} else {
			log.Error().Err(err).Msg("certificate generation failed")
		}
		os.Exit(1)
	}
}
