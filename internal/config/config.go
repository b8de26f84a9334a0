package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// RelativePath is where the config file is searched for under the XDG
// config directories.
const RelativePath = "chess3d/config.yaml"

const (
	BotNone = ""
	BotHTTP = "http"
	BotUCI  = "uci"
)

type Config struct {
	Server  Server  `yaml:"server"`
	Bot     Bot     `yaml:"bot"`
	Storage Storage `yaml:"storage"`
	Clock   Clock   `yaml:"clock"`
	Log     Log     `yaml:"log"`
}

type Server struct {
	Addr         string   `yaml:"addr"`
	AllowOrigins []string `yaml:"allow-origins"`
}

// Bot selects and tunes the move-suggestion collaborator.
type Bot struct {
	Kind     string        `yaml:"kind"` // "", "http" or "uci"
	URL      string        `yaml:"url"`
	Cmd      string        `yaml:"cmd"`
	Args     string        `yaml:"args"`
	Depth    int           `yaml:"depth"`
	Variants int           `yaml:"variants"`
	Timeout  time.Duration `yaml:"timeout"`
}

type Storage struct {
	Dir      string `yaml:"dir"`
	InMemory bool   `yaml:"in-memory"`
}

type Clock struct {
	Initial time.Duration `yaml:"initial"`
}

type Log struct {
	Level string `yaml:"level"`
}

func Default() Config {
	return Config{
		Server: Server{
			Addr:         ":3000",
			AllowOrigins: []string{"http://localhost:5173"},
		},
		Bot: Bot{
			Kind:     BotNone,
			URL:      "https://chess-api.com/v1",
			Depth:    12,
			Variants: 1,
			Timeout:  10 * time.Second,
		},
		Storage: Storage{
			Dir: filepath.Join(xdg.DataHome, "chess3d", "archive"),
		},
		Clock: Clock{Initial: 10 * time.Minute},
		Log:   Log{Level: "info"},
	}
}

// Load reads the config at path over the defaults. With an empty path the
// XDG config directories are searched, and a missing file means defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		found, err := xdg.SearchConfigFile(RelativePath)
		if err != nil {
			logrus.Debug("no config file found, using defaults")
			return cfg, nil
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	logrus.WithField("path", path).Debug("loaded config")
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	switch c.Bot.Kind {
	case BotNone:
	case BotHTTP:
		if c.Bot.URL == "" {
			errs = append(errs, errors.New("bot.url is required for an http bot"))
		}
	case BotUCI:
		if c.Bot.Cmd == "" {
			errs = append(errs, errors.New("bot.cmd is required for a uci bot"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown bot kind %q", c.Bot.Kind))
	}
	if c.Bot.Depth < 0 || c.Bot.Variants < 0 {
		errs = append(errs, errors.New("bot depth and variants must not be negative"))
	}
	if c.Clock.Initial < 0 {
		errs = append(errs, errors.New("clock.initial must not be negative"))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if !c.Storage.InMemory && c.Storage.Dir == "" {
		errs = append(errs, errors.New("storage.dir is required"))
	}
	return errors.Join(errs...)
}
