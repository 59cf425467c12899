package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/spf13/pflag"
)

const (
	StoreEnv    = "env"
	StoreFile   = "file"
	StoreDB     = "db"
	StoreMemory = "memory"
)

type CertFlags struct {
	KeyStore           string   `env:"KEY_STORE"`
	KeyVariable        string   `env:"KEY_VARIABLE"`
	KeyPassword        string   `env:"CERT_KEY_PASSWORD"`
	KeyFile            string   `env:"KEY_FILE"`
	KeyName            string   `env:"KEY_NAME"`
	DatabaseDSN        string   `env:"DATABASE_DSN"`
	MigrationsPath     string   `env:"MIGRATIONS_PATH"`
	RequireExistingKey bool     `env:"REQUIRE_EXISTING_KEY"`
	LogLevel           string   `env:"LOGLEVEL"`
	MaxRetries         int      `env:"MAX_RETRIES"`
	RetryDelays        []string `env:"RETRY_DELAYS" envSeparator:","`
	AuditFile          string   `env:"AUDIT_FILE"`
	Workers            int      `env:"WORKERS"`

	// только флаги командной строки
	Input         string
	Output        string
	PublicKeyPath string
}

// ParseCertConfig: значения по умолчанию, затем флаги, затем переменные окружения
func ParseCertConfig(name string, args []string) (*CertFlags, error) {
	var cfg CertFlags

	setDefaultCertFlags(&cfg)

	if err := parseCertFlags(&cfg, name, args); err != nil {
		return nil, err
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaultCertFlags(cfg *CertFlags) {
	cfg.KeyStore = StoreEnv
	cfg.KeyVariable = "CERT_PRIVATE_KEY"
	cfg.KeyFile = "signing_key.pem"
	cfg.KeyName = "certificate-signing"
	cfg.MigrationsPath = "migrations"
	cfg.LogLevel = "info"
	cfg.MaxRetries = 3
	cfg.RetryDelays = []string{"1s", "3s", "5s"}
	cfg.Workers = 4
}

func parseCertFlags(cfg *CertFlags, name string, args []string) error {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)

	flags.StringVarP(&cfg.KeyStore, "store", "s", cfg.KeyStore, "Key storage: env, file, db or memory")
	flags.StringVar(&cfg.KeyVariable, "key-variable", cfg.KeyVariable, "Environment variable holding the encrypted key")
	flags.StringVarP(&cfg.KeyPassword, "password", "p", cfg.KeyPassword, "Private key encryption password")
	flags.StringVarP(&cfg.KeyFile, "key-file", "f", cfg.KeyFile, "Path to the encrypted key file")
	flags.StringVarP(&cfg.KeyName, "key-name", "n", cfg.KeyName, "Key name in the database")
	flags.StringVarP(&cfg.DatabaseDSN, "database_dsn", "d", cfg.DatabaseDSN, "DSN string for db connection")
	flags.StringVar(&cfg.MigrationsPath, "migrations", cfg.MigrationsPath, "Path to migrations")
	flags.BoolVarP(&cfg.RequireExistingKey, "require-key", "r", cfg.RequireExistingKey, "Fail instead of generating a missing key")
	flags.StringVarP(&cfg.LogLevel, "loglevel", "g", cfg.LogLevel, "Logger level")
	flags.IntVarP(&cfg.MaxRetries, "max-retries", "m", cfg.MaxRetries, "Maximum number of retry attempts")
	flags.StringSliceVar(&cfg.RetryDelays, "retry-delays", cfg.RetryDelays, "Retry delays between attempts")
	flags.StringVarP(&cfg.AuditFile, "audit-file", "a", cfg.AuditFile, "Append sign and verify events to this JSON lines file")
	flags.IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "Number of concurrent workers for sign-batch")
	flags.StringVarP(&cfg.Input, "in", "i", "", "Input file (- for stdin)")
	flags.StringVarP(&cfg.Output, "out", "o", "", "Output file (- for stdout)")
	flags.StringVar(&cfg.PublicKeyPath, "public-key", "", "Verify with this public key PEM instead of the stored key")

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("error parsing command-line flags: %w", err)
	}

	if flags.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(flags.Args(), " "))
	}

	return nil
}

func (c *CertFlags) validate() error {
	switch c.KeyStore {
	case StoreEnv, StoreFile, StoreMemory:
	case StoreDB:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("key store %q requires a database DSN", StoreDB)
		}
	default:
		return fmt.Errorf("unknown key store %q (expected %s, %s, %s or %s)", c.KeyStore, StoreEnv, StoreFile, StoreDB, StoreMemory)
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}

	if _, err := c.GetRetryDelaysAsDuration(); err != nil {
		return err
	}
	return nil
}

func (c *CertFlags) GetRetryDelaysAsDuration() ([]time.Duration, error) {
	delays := make([]time.Duration, len(c.RetryDelays))
	for i, delayStr := range c.RetryDelays {
		delay, err := time.ParseDuration(strings.TrimSpace(delayStr))
		if err != nil {
			return nil, fmt.Errorf("invalid duration format '%s': %w", delayStr, err)
		}
		delays[i] = delay
	}
	return delays, nil
}
