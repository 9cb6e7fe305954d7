// Command sfss_server runs the Simple File Storage Service: a
// stateless UDP server rooted at a single directory.
package main

import (
	"fmt"
	"os"

	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/config"
	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/logging"
	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/sfss"
)

func main() {
	if len(os.Args) != 2 && len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "Uso: sfss_server <SFSS-root-dir> [config-path]")
		os.Exit(1)
	}
	root := os.Args[1]

	cfg, err := config.Load[config.SFSS](configPath())
	if err != nil {
		// A missing config.json is not fatal — fall back to the
		// protocol's documented default port.
		cfg = config.SFSS{Port: 8888, LogLevel: "INFO"}
	}

	if err := logging.Configure("sfss_server", cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "sfss_server: configure logging: %v\n", err)
		os.Exit(1)
	}

	srv, err := sfss.Listen(root, cfg.Port)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sfss_server: %v\n", err)
		os.Exit(1)
	}
	defer srv.Close()

	logging.Info("sfss_server: listening on :%d, root=%s", cfg.Port, root)
	if err := srv.Serve(); err != nil {
		fmt.Fprintf(os.Stderr, "sfss_server: %v\n", err)
		os.Exit(1)
	}
}

// configPath resolves the config file: a second CLI arg wins, then
// SFSS_CONFIG, then the shared default filename.
func configPath() string {
	if len(os.Args) == 3 {
		return os.Args[2]
	}
	if p := os.Getenv("SFSS_CONFIG"); p != "" {
		return p
	}
	return "config.json"
}
