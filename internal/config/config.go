package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDataFileName   = ".keep_tasks.json"
	DefaultDBName         = "keep.db"
	DefaultOverdueLimit   = 10

	BackendJSON   = "json"
	BackendSQLite = "sqlite"

	envConfigPath = "KEEP_CONFIG"
)

type Keymap struct {
	Quit       string `toml:"quit"`
	Add        string `toml:"add"`
	Edit       string `toml:"edit"`
	Toggle     string `toml:"toggle"`
	Delete     string `toml:"delete"`
	Up         string `toml:"up"`
	Down       string `toml:"down"`
	PrevDay    string `toml:"prev_day"`
	NextDay    string `toml:"next_day"`
	Today      string `toml:"today"`
	SwitchView string `toml:"switch_view"`
	NextField  string `toml:"next_field"`
	Confirm    string `toml:"confirm"`
	Cancel     string `toml:"cancel"`
	SaveNotes  string `toml:"save_notes"`
}

type Config struct {
	Backend       string `toml:"backend"`
	DataPath      string `toml:"data_path"`
	DBPath        string `toml:"db_path"`
	OverdueLimit  int    `toml:"overdue_limit"`
	ConfirmDelete bool   `toml:"confirm_delete"`
	LogPath       string `toml:"log_path"`
	LogLevel      string `toml:"log_level"`
	Keys          Keymap `toml:"keys"`
}

// StorePath is the file the configured backend reads and writes.
func (c Config) StorePath() string {
	if c.Backend == BackendSQLite {
		return c.DBPath
	}
	return c.DataPath
}

// ResolveConfigPath honours KEEP_CONFIG and falls back to the user config dir.
func ResolveConfigPath() string {
	if p := os.Getenv(envConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, "keep", DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.fillDefaults()
	return cfg, nil
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

func (c *Config) fillDefaults() {
	def := Default()
	if c.Backend == "" {
		c.Backend = BackendJSON
	}
	if c.DataPath == "" {
		c.DataPath = def.DataPath
	}
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.OverdueLimit <= 0 {
		c.OverdueLimit = def.OverdueLimit
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	k, dk := &c.Keys, def.Keys
	for _, f := range []struct {
		v   *string
		def string
	}{
		{&k.Quit, dk.Quit}, {&k.Add, dk.Add}, {&k.Edit, dk.Edit},
		{&k.Toggle, dk.Toggle}, {&k.Delete, dk.Delete}, {&k.Up, dk.Up},
		{&k.Down, dk.Down}, {&k.PrevDay, dk.PrevDay}, {&k.NextDay, dk.NextDay},
		{&k.Today, dk.Today}, {&k.SwitchView, dk.SwitchView},
		{&k.NextField, dk.NextField}, {&k.Confirm, dk.Confirm},
		{&k.Cancel, dk.Cancel}, {&k.SaveNotes, dk.SaveNotes},
	} {
		if *f.v == "" {
			*f.v = f.def
		}
	}
}

func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		Backend:       BackendJSON,
		DataPath:      filepath.Join(home, DefaultDataFileName),
		DBPath:        filepath.Join(home, ".local", "share", "keep", DefaultDBName),
		OverdueLimit:  DefaultOverdueLimit,
		ConfirmDelete: true,
		LogLevel:      "info",
		Keys: Keymap{
			Quit:       "q",
			Add:        "n",
			Edit:       "e",
			Toggle:     " ",
			Delete:     "d",
			Up:         "k",
			Down:       "j",
			PrevDay:    "h",
			NextDay:    "l",
			Today:      "t",
			SwitchView: "tab",
			NextField:  "tab",
			Confirm:    "enter",
			Cancel:     "esc",
			SaveNotes:  "ctrl+s",
		},
	}
}
