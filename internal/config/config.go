package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/zalando/go-keyring"

	"github.com/spelunkhq/spelunk/internal/errdef"
)

const (
	KeyringService = "spelunk"
	KeyringUser    = "token"

	EnvBaseURL   = "SPLUNK_BASE_URL"
	EnvToken     = "SPLUNK_TOKEN"
	EnvVerifySSL = "SPLUNK_VERIFY_SSL"
)

// Config is the resolved runtime configuration. Sources from lowest to
// highest precedence: config.toml, OS keyring (token only, when the file
// left it empty), environment variables, .env in the working directory.
type Config struct {
	BaseURL   string
	Token     string
	VerifySSL bool
	Theme     string
}

// FileConfig mirrors the on-disk TOML document. Pointer fields distinguish
// "absent" from "set to zero value" so partial files merge cleanly.
type FileConfig struct {
	BaseURL   *string `toml:"splunk_base_url"`
	Token     *string `toml:"splunk_token"`
	VerifySSL *bool   `toml:"splunk_verify_ssl"`
	Theme     *string `toml:"theme"`
}

func Load() (Config, error) {
	cfg := Config{VerifySSL: true}

	if fc, err := readFile(FilePath()); err == nil {
		cfg.merge(fc)
	} else if !os.IsNotExist(err) {
		return cfg, errdef.Wrap(errdef.CodeIO, err, "read %s", FilePath())
	}

	if cfg.Token == "" {
		if secret, err := keyring.Get(KeyringService, KeyringUser); err == nil {
			cfg.Token = secret
		}
	}

	// .env wins over the process environment, mirroring the original tool.
	dotenv, _ := godotenv.Read(filepath.Join(".", ".env"))
	lookup := func(key string) (string, bool) {
		if v, ok := dotenv[key]; ok {
			return v, true
		}
		v, ok := os.LookupEnv(key)
		return v, ok
	}

	if v, ok := lookup(EnvBaseURL); ok {
		cfg.BaseURL = v
	}
	if v, ok := lookup(EnvToken); ok {
		cfg.Token = v
	}
	if v, ok := lookup(EnvVerifySSL); ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.VerifySSL = parsed
		}
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errdef.New(errdef.CodeConfig, "Splunk base URL is not configured; run 'spelunk config'")
	}
	if c.Token == "" {
		return errdef.New(errdef.CodeConfig, "Splunk token is not configured; run 'spelunk config'")
	}
	return nil
}

func (c *Config) merge(fc FileConfig) {
	if fc.BaseURL != nil {
		c.BaseURL = *fc.BaseURL
	}
	if fc.Token != nil {
		c.Token = *fc.Token
	}
	if fc.VerifySSL != nil {
		c.VerifySSL = *fc.VerifySSL
	}
	if fc.Theme != nil {
		c.Theme = *fc.Theme
	}
}

// SaveTheme rewrites only the theme key, preserving every other field the
// file already carries.
func SaveTheme(name string) error {
	fc, err := readFile(FilePath())
	if err != nil && !os.IsNotExist(err) {
		return errdef.Wrap(errdef.CodeIO, err, "read %s", FilePath())
	}
	fc.Theme = &name
	return writeFile(FilePath(), fc)
}

func readFile(path string) (FileConfig, error) {
	var fc FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(data, &fc); err != nil {
		return FileConfig{}, errdef.Wrap(errdef.CodeParse, err, "parse %s", path)
	}
	return fc, nil
}

func writeFile(path string, fc FileConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errdef.Wrap(errdef.CodeIO, err, "create config dir")
	}
	data, err := toml.Marshal(fc)
	if err != nil {
		return errdef.Wrap(errdef.CodeIO, err, "encode config")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errdef.Wrap(errdef.CodeIO, err, "write %s", path)
	}
	return nil
}
