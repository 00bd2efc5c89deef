package main

import (
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/taurusgroup/threshold-paillier/internal/params"
)

const (
	defaultParties   = 5
	defaultThreshold = 3
	defaultBits      = params.BitsBlumPrime
	defaultMessage   = "hello"
	defaultLogLevel  = "info"
)

// Config holds the demo configuration.
type Config struct {
	Parties   int       `mapstructure:"parties"`
	Threshold int       `mapstructure:"threshold"`
	Bits      int       `mapstructure:"bits"`
	Message   string    `mapstructure:"message"`
	Log       LogConfig `mapstructure:"log"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// loadConfig loads configuration from flags, environment variables, and defaults
func loadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("parties", defaultParties)
	v.SetDefault("threshold", defaultThreshold)
	v.SetDefault("bits", defaultBits)
	v.SetDefault("message", defaultMessage)
	v.SetDefault("log.level", defaultLogLevel)

	flag.IntP("parties", "n", defaultParties, "number of shareholders")
	flag.IntP("threshold", "t", defaultThreshold, "number of shareholders needed to decrypt")
	flag.IntP("bits", "b", defaultBits, "size in bits of each prime factor of N")
	flag.StringP("message", "m", defaultMessage, "message to encrypt and decrypt")
	flag.StringP("log.level", "l", defaultLogLevel, "log level (debug, info, warn, error)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: example [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Deals a threshold Paillier key, then decrypts a ciphertext and recovers its nonce.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment variables are also available with the same name as flags,\n")
		fmt.Fprintf(os.Stderr, "  prefixed with TPAILLIER_ and with dots (.) replaced by underscores (_).\n")
		fmt.Fprintf(os.Stderr, "  For example, TPAILLIER_PARTIES or TPAILLIER_LOG_LEVEL\n")
	}

	flag.CommandLine.SortFlags = false
	flag.Parse()

	v.SetEnvPrefix("TPAILLIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flag.CommandLine); err != nil {
		return nil, fmt.Errorf("error binding flags: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return cfg, nil
}

// validateConfig validates the loaded configuration
func validateConfig(cfg *Config) error {
	if cfg.Parties < 1 || cfg.Parties > params.MaxParties {
		return fmt.Errorf("number of parties must be in [1, %d], got %d", params.MaxParties, cfg.Parties)
	}
	if cfg.Threshold < 1 || cfg.Threshold > cfg.Parties {
		return fmt.Errorf("threshold must be in [1, %d], got %d", cfg.Parties, cfg.Threshold)
	}
	if cfg.Bits < params.MinBitsBlumPrime {
		return fmt.Errorf("primes must have at least %d bits, got %d", params.MinBitsBlumPrime, cfg.Bits)
	}
	if len(cfg.Message) == 0 {
		return fmt.Errorf("message is empty")
	}
	return nil
}
