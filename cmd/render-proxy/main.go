// Command render-proxy emits the nginx server configuration for the
// container's reverse proxy, in TLS-terminating or plain mode depending on
// the supervisor's options document.
package main

import (
	"fmt"
	"os"

	"github.com/jnovack/flag"
	"github.com/rs/zerolog/log"

	"github.com/jnovack/proxy-bootstrap/pkg/logging"
	"github.com/jnovack/proxy-bootstrap/pkg/nginx"
)

var (
	flagOptions  = flag.String("options", "/data/options.yaml", "proxy options document (YAML)")
	flagOut      = flag.String("out", "-", "output file, or - for stdout")
	flagLogLevel = flag.String("log-level", "info", "log level")
)

func main() {
	flag.Parse()
	logging.Setup(*flagLogLevel)

	cfg, err := nginx.LoadConfig(*flagOptions)
	if err != nil {
		log.Fatal().Err(err).Str("options", *flagOptions).Msg("failed to load proxy options")
	}

	out, err := nginx.Render(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to render proxy configuration")
	}

	if *flagOut == "-" {
		fmt.Print(out)
	} else if err := os.WriteFile(*flagOut, []byte(out), 0o644); err != nil {
		log.Fatal().Err(err).Str("file", *flagOut).Msg("failed to write proxy configuration")
	}

	log.Info().Bool("ssl", cfg.SSL).Str("protocol", cfg.Protocol).Msg("proxy configuration rendered")
}
