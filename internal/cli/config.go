package cli

import (
	"os"
	"strings"

	"mooltipage/pkg/utils/coerce"
)

// Config is read from the environment, after .env has been loaded.
type Config struct {
	Env        string
	InRoot     string
	OutRoot    string
	LinkBase   string
	Addr       string
	FormatJSON bool
}

func LoadConfig() Config {
	cfg := Config{
		Env:      os.Getenv("APP_ENV"),
		InRoot:   envOr("MOOLTIPAGE_IN", "src"),
		OutRoot:  envOr("MOOLTIPAGE_OUT", "dist"),
		LinkBase: envOr("MOOLTIPAGE_LINK_BASE", "/"),
		Addr:     envOr("MOOLTIPAGE_ADDR", ":3000"),
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	// Unparseable values count as false.
	cfg.FormatJSON, _ = coerce.ToBool(strings.TrimSpace(os.Getenv("MOOLTIPAGE_FORMAT_JSON")))
	return cfg
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// applyArgs lets positional arguments override the input and output roots.
// "--json" switches on JSON output.
func (c Config) applyArgs(args []string) Config {
	var positional []string
	for _, arg := range args {
		if arg == "--json" {
			c.FormatJSON = true
			continue
		}
		positional = append(positional, arg)
	}
	if len(positional) > 0 {
		c.InRoot = positional[0]
	}
	if len(positional) > 1 {
		c.OutRoot = positional[1]
	}
	return c
}
