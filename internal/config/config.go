package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"

	// EnvConfigPath points at a config file to use instead of the default.
	EnvConfigPath = "TODOTREE_CONFIG"
	// EnvDBPath overrides db_path from the config file.
	EnvDBPath = "DB_PATH"
)

type Keymap struct {
	Quit    string `toml:"quit"`
	Add     string `toml:"add"`
	Up      string `toml:"up"`
	Down    string `toml:"down"`
	Toggle  string `toml:"toggle"`
	Delete  string `toml:"delete"`
	Detail  string `toml:"detail"`
	Confirm string `toml:"confirm"`
	Cancel  string `toml:"cancel"`
}

type Config struct {
	DBPath  string `toml:"db_path"`
	LogPath string `toml:"log_path"`
	Keys    Keymap `toml:"keys"`
}

// ResolveConfigPath picks $TODOTREE_CONFIG, then ~/.config/todotree/config.toml.
// It falls back to config.toml in the working directory when the home
// directory is unknown.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return expand(p)
	}
	home, err := homedir.Dir()
	if err != nil || home == "" {
		return DefaultConfigFileName
	}
	return filepath.Join(home, ".config", "todotree", DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing defaults there first if
// the file does not exist. A relative db_path is taken relative to the
// config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return finish(path, cfg), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return finish(path, cfg), nil
}

func finish(path string, cfg Config) Config {
	if env := strings.TrimSpace(os.Getenv(EnvDBPath)); env != "" {
		cfg.DBPath = env
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	cfg.DBPath = resolve(path, cfg.DBPath)
	if cfg.LogPath != "" {
		cfg.LogPath = resolve(path, cfg.LogPath)
	}
	cfg.Keys = cfg.Keys.withDefaults(defaultConfig().Keys)
	return cfg
}

func resolve(configPath, p string) string {
	p = expand(p)
	if strings.HasPrefix(p, "file:") || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(configPath), p)
}

func expand(p string) string {
	if out, err := homedir.Expand(p); err == nil {
		return out
	}
	return p
}

func (k Keymap) withDefaults(d Keymap) Keymap {
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	return Keymap{
		Quit:    pick(k.Quit, d.Quit),
		Add:     pick(k.Add, d.Add),
		Up:      pick(k.Up, d.Up),
		Down:    pick(k.Down, d.Down),
		Toggle:  pick(k.Toggle, d.Toggle),
		Delete:  pick(k.Delete, d.Delete),
		Detail:  pick(k.Detail, d.Detail),
		Confirm: pick(k.Confirm, d.Confirm),
		Cancel:  pick(k.Cancel, d.Cancel),
	}
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath: DefaultDBName,
		Keys: Keymap{
			Quit:    "q",
			Add:     "a",
			Up:      "up",
			Down:    "down",
			Toggle:  "tab",
			Delete:  "d",
			Detail:  "enter",
			Confirm: "enter",
			Cancel:  "esc",
		},
	}
}
