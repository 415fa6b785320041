// Package config reads client settings from the environment and .env files.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"roomprog/internal/controller"
	"roomprog/internal/format"
	"roomprog/internal/store"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// DefaultEnvFiles are loaded (when present) before the environment is parsed.
var DefaultEnvFiles = []string{".env", ".env.local"}

type Config struct {
	APIURL     string        `env:"ROOMPROG_API_URL" envDefault:"http://localhost:8000"`
	Project    string        `env:"ROOMPROG_PROJECT"`
	Session    string        `env:"ROOMPROG_SESSION"`
	StateDir   string        `env:"ROOMPROG_STATE_DIR"`
	Categories string        `env:"ROOMPROG_CATEGORIES"`
	LogPath    string        `env:"ROOMPROG_LOG"`
	LogLevel   string        `env:"ROOMPROG_LOG_LEVEL" envDefault:"info"`
	Timeout    time.Duration `env:"ROOMPROG_TIMEOUT" envDefault:"0s"`
	Prefetch   string        `env:"ROOMPROG_PREFETCH" envDefault:"category"`
	Format     string        `env:"ROOMPROG_FORMAT" envDefault:"json"`
}

// LoadEnv loads the env files that exist. Values already in the environment win.
func LoadEnv(files []string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if st, err := os.Stat(f); err == nil && !st.IsDir() {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Load reads env files, then the environment.
func Load(files ...string) (Config, error) {
	if _, err := LoadEnv(files); err != nil {
		return Config{}, errors.Wrap(err, "load env files")
	}
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, errors.Wrap(err, "parse environment")
	}
	return c, nil
}

func (c Config) Validate() error {
	u, err := url.Parse(strings.TrimSpace(c.APIURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.Errorf("invalid api url %q", c.APIURL)
	}
	if _, ok := controller.ParsePrefetch(c.Prefetch); !ok {
		return errors.Errorf("invalid prefetch mode %q (want category or room)", c.Prefetch)
	}
	if !format.Valid(c.Format) {
		return errors.Errorf("invalid format %q (want json, edn or text)", c.Format)
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	return nil
}

// PrefetchMode returns the parsed prefetch mode; call Validate first.
func (c Config) PrefetchMode() controller.Prefetch {
	p, _ := controller.ParsePrefetch(c.Prefetch)
	return p
}

// SessionKey scopes persisted selection. By default it is the parent process
// (the invoking shell), so a new terminal starts fresh.
func (c Config) SessionKey() string {
	if s := strings.TrimSpace(c.Session); s != "" {
		return s
	}
	return fmt.Sprintf("ppid-%d", os.Getppid())
}

func (c Config) ResolveStateDir() (string, error) {
	if d := strings.TrimSpace(c.StateDir); d != "" {
		return d, nil
	}
	return store.StateDir()
}
