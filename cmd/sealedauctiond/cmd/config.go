package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/skip-mev/sealed-auction/app"
	"github.com/skip-mev/sealed-auction/indexer"
	"github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

const (
	// EnvPrefix prefixes every environment variable overriding the config file,
	// e.g. SEALEDAUCTION_LISTEN_ADDR.
	EnvPrefix = "SEALEDAUCTION"

	configDir      = "config"
	configFileName = "config.toml"
	genesisName    = "genesis.json"
	dataDir        = "data"
	dbName         = "application"
)

// Config is the node configuration read from <home>/config/config.toml.
type Config struct {
	DBBackend     string        `toml:"db_backend" mapstructure:"db_backend"`
	ListenAddr    string        `toml:"listen_addr" mapstructure:"listen_addr"`
	IndexerPath   string        `toml:"indexer_path" mapstructure:"indexer_path"`
	LogLevel      string        `toml:"log_level" mapstructure:"log_level"`
	LogFormat     string        `toml:"log_format" mapstructure:"log_format"`
	BlockInterval time.Duration `toml:"block_interval" mapstructure:"block_interval"`
	Authority     string        `toml:"authority" mapstructure:"authority"`
	CommitPayer   string        `toml:"commit_payer" mapstructure:"commit_payer"`
	Validators    []string      `toml:"validators" mapstructure:"validators"`

	home string
}

// DefaultConfig returns the configuration written by init.
func DefaultConfig(home string) Config {
	return Config{
		DBBackend:     string(dbm.GoLevelDBBackend),
		ListenAddr:    "localhost:1317",
		IndexerPath:   filepath.Join(dataDir, "index.db"),
		LogLevel:      zerolog.InfoLevel.String(),
		LogFormat:     "plain",
		BlockInterval: time.Second,
		Authority:     app.DefaultAuthority,
		home:          home,
	}
}

// Home returns the directory the config was loaded for.
func (c Config) Home() string {
	return c.home
}

// ConfigPath returns the path of the config file under home.
func ConfigPath(home string) string {
	return filepath.Join(home, configDir, configFileName)
}

// GenesisPath returns the path of the genesis file under home.
func GenesisPath(home string) string {
	return filepath.Join(home, configDir, genesisName)
}

// DataDir returns the directory holding the application database.
func (c Config) DataDir() string {
	return filepath.Join(c.home, dataDir)
}

// IndexerFile resolves the indexer path against home. An empty path disables
// the indexer.
func (c Config) IndexerFile() string {
	if c.IndexerPath == "" || filepath.IsAbs(c.IndexerPath) || c.IndexerPath == indexer.MemoryPath {
		return c.IndexerPath
	}

	return filepath.Join(c.home, c.IndexerPath)
}

// Validate performs basic validation of the config.
func (c Config) Validate() error {
	switch dbm.BackendType(c.DBBackend) {
	case dbm.GoLevelDBBackend, dbm.MemDBBackend:
	default:
		return fmt.Errorf("unsupported db_backend %q", c.DBBackend)
	}

	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr cannot be empty")
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}

	if c.LogFormat != "plain" && c.LogFormat != "json" {
		return fmt.Errorf("log_format must be plain or json, got %q", c.LogFormat)
	}

	if c.BlockInterval <= 0 {
		return fmt.Errorf("block_interval must be positive, got %s", c.BlockInterval)
	}

	if _, err := c.ValidatorAddresses(); err != nil {
		return err
	}

	if c.CommitPayer != "" {
		if _, err := types.ParseAddress(c.CommitPayer); err != nil {
			return fmt.Errorf("invalid commit_payer: %w", err)
		}
	}

	return nil
}

// ValidatorAddresses parses the validators registered with the delegation
// coordinator at genesis.
func (c Config) ValidatorAddresses() ([]types.Address, error) {
	out := make([]types.Address, 0, len(c.Validators))
	for _, v := range c.Validators {
		addr, err := types.ParseAddress(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("invalid validator %q: %w", v, err)
		}

		out = append(out, addr)
	}

	return out, nil
}

// AppOptions returns the app options described by the config.
func (c Config) AppOptions() (app.Options, error) {
	validators, err := c.ValidatorAddresses()
	if err != nil {
		return app.Options{}, err
	}

	opts := app.Options{Authority: c.Authority, Validators: validators}
	if c.CommitPayer != "" {
		if opts.CommitPayer, err = types.ParseAddress(c.CommitPayer); err != nil {
			return app.Options{}, err
		}
	}

	return opts, nil
}

// ReadConfig loads the config of home. Values missing from the config file
// fall back to DefaultConfig and every key may be overridden from the
// environment.
func ReadConfig(v *viper.Viper, home string) (Config, error) {
	defaults := DefaultConfig(home)

	v.SetConfigFile(ConfigPath(home))
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("db_backend", defaults.DBBackend)
	v.SetDefault("listen_addr", defaults.ListenAddr)
	v.SetDefault("indexer_path", defaults.IndexerPath)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)
	v.SetDefault("block_interval", defaults.BlockInterval)
	v.SetDefault("authority", defaults.Authority)
	v.SetDefault("commit_payer", defaults.CommitPayer)
	_ = v.BindEnv("validators")

	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to read %s: %w", ConfigPath(home), err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.home = home

	return cfg, cfg.Validate()
}

// WriteConfig writes cfg to the config file of its home.
func WriteConfig(cfg Config) error {
	path := ConfigPath(cfg.home)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
