package config

import (
	"fmt"
	"strconv"
	"strings"

	"diggercli/digger/internal/dns/command"
	"diggercli/digger/internal/dns/domain"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "default-type").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	// An empty string means the key is unset and its default applies.
	Get func(cfg *Config) string

	// Set validates and applies a value for this key to the given Config
	// (in memory only; the caller is responsible for calling Save).
	Set func(cfg *Config, value string) error
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "default-type",
		Description: "Record type used when none is given (A, AAAA, MX, ...)",
		Get:         func(cfg *Config) string { return cfg.DefaultType },
		Set: func(cfg *Config, v string) error {
			rt, err := domain.ParseRecordType(v)
			if err != nil {
				return fmt.Errorf("config: unknown record type %q", v)
			}
			cfg.DefaultType = string(rt)
			return nil
		},
	},
	{
		Name:        "default-server",
		Description: "Nameserver queried when --server is not specified",
		Get:         func(cfg *Config) string { return cfg.DefaultServer },
		Set: func(cfg *Config, v string) error {
			cfg.DefaultServer = strings.TrimSpace(v)
			return nil
		},
	},
	{
		Name:        "timeout-seconds",
		Description: "Seconds to wait for a query before giving up",
		Get: func(cfg *Config) string {
			if cfg.TimeoutSeconds <= 0 {
				return ""
			}
			return strconv.Itoa(cfg.TimeoutSeconds)
		},
		Set: func(cfg *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || n <= 0 {
				return fmt.Errorf("config: timeout-seconds must be a positive integer, got %q", v)
			}
			cfg.TimeoutSeconds = n
			return nil
		},
	},
	{
		Name:        "doh-endpoint",
		Description: "DNS-over-HTTPS endpoint for curl export (cloudflare, google or an https:// URL)",
		Get:         func(cfg *Config) string { return cfg.DoHEndpoint },
		Set: func(cfg *Config, v string) error {
			v = strings.TrimSpace(v)
			if v != "" {
				if _, err := command.EndpointFor(v); err != nil {
					return fmt.Errorf("config: doh-endpoint must be cloudflare, google or an https:// URL, got %q", v)
				}
			}
			cfg.DoHEndpoint = v
			return nil
		},
	},
	{
		Name:        "history-limit",
		Description: "Maximum stored history entries (0 keeps everything)",
		Get: func(cfg *Config) string {
			if cfg.HistoryLimit == nil {
				return ""
			}
			return strconv.Itoa(*cfg.HistoryLimit)
		},
		Set: func(cfg *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || n < 0 {
				return fmt.Errorf("config: history-limit must be zero or a positive integer, got %q", v)
			}
			cfg.HistoryLimit = &n
			return nil
		},
	},
	{
		Name:        "history-enabled",
		Description: "Record completed queries in the local history (true or false)",
		Get:         func(cfg *Config) string { return strconv.FormatBool(!cfg.HistoryDisabled) },
		Set: func(cfg *Config, v string) error {
			enabled, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("config: history-enabled must be true or false, got %q", v)
			}
			cfg.HistoryDisabled = !enabled
			return nil
		},
	},
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	// Find the longest key name for alignment.
	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}
