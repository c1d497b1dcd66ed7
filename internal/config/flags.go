package config

import (
	"flag"

	meshtri "github.com/flywave/go-meshtri"
)

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile = flag.String("log-file", "", "Also write logs to this file")
	flagQuad    = flag.String("quad", "", "Quad split method: beauty, fixed, alternate, shortest_diagonal, longest_diagonal")
	flagNgon    = flag.String("ngon", "", "N-gon split method: beauty, clip")
	flagFormat  = flag.String("format", "", "Output format, also used when the output path has no known extension: mst, obj")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

func Args() []string {
	return flag.Args()
}

func ConfigPath() string {
	return *flagConfig
}

func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagQuad != "" {
		q, err := meshtri.ParseQuadMethod(*flagQuad)
		if err != nil {
			return err
		}
		cfg.Triangulate.QuadMethod = q
	}
	if *flagNgon != "" {
		n, err := meshtri.ParseNgonMethod(*flagNgon)
		if err != nil {
			return err
		}
		cfg.Triangulate.NgonMethod = n
	}
	if *flagFormat != "" {
		cfg.Output.Format = *flagFormat
	}
	return nil
}
