package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Config is the merged view of flags, PENTASIGN_* environment variables
// and the optional configuration file, in that order of precedence.
type Config struct {
	Sofi            string             `mapstructure:"sofi"`
	Scheme          string             `mapstructure:"scheme"`
	Out             string             `mapstructure:"out"`
	Ledger          string             `mapstructure:"ledger"`
	Addr            string             `mapstructure:"addr"`
	Plausibility    PlausibilityConfig `mapstructure:"plausibility"`
	MaxDocumentSize int64              `mapstructure:"max-document-size"`
	Concurrency     int                `mapstructure:"concurrency"`
	NumericSofi     bool               `mapstructure:"numeric-sofi"`
}

// PlausibilityConfig locates the optional plausibility service.
type PlausibilityConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Insecure bool          `mapstructure:"insecure"`
}

const envPrefix = "PENTASIGN"

// Flags whose config key differs from the flag name.
var flagKeys = map[string]string{
	"plausibility-endpoint": "plausibility.endpoint",
	"plausibility-timeout":  "plausibility.timeout",
	"plausibility-insecure": "plausibility.insecure",
}

func (a *app) loadConfig(cmd *cobra.Command) error {
	v := a.v
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("scheme", "ed25519")
	v.SetDefault("addr", ":8080")
	v.SetDefault("max-document-size", int64(32<<20))
	v.SetDefault("concurrency", 4)
	v.SetDefault("sofi", "")
	v.SetDefault("out", "")
	v.SetDefault("ledger", "")
	v.SetDefault("numeric-sofi", false)
	v.SetDefault("plausibility.endpoint", "")
	v.SetDefault("plausibility.timeout", 30*time.Second)
	v.SetDefault("plausibility.insecure", false)

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key := f.Name
		if mapped, ok := flagKeys[key]; ok {
			key = mapped
		}
		if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	if bindErr != nil {
		return bindErr
	}

	if path := v.GetString(flagConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", path, err)
		}
	}
	return nil
}

func (a *app) config() (Config, error) {
	var cfg Config
	if err := a.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return cfg, nil
}
