// Package config carga la configuración del servicio desde YAML con
// overrides por variables de entorno (mismo esquema que .env / compose).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr        string `yaml:"addr"`
		MetricsAddr string `yaml:"metrics_addr"`
	} `yaml:"server"`

	Storage struct {
		// Driver: "postgres" | "memory"
		Driver   string `yaml:"driver"`
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxConns        int    `yaml:"max_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		// Kind: "memory" | "redis"
		Kind  string `yaml:"kind"`
		TTL   string `yaml:"ttl"`
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Auth struct {
		// JWTSecret valida los bearer tokens del pipeline de emisión
		// (HS256). Solo lectura: este servicio no emite tokens.
		JWTSecret string `yaml:"jwt_secret"`
		Issuer    string `yaml:"issuer"`
	} `yaml:"auth"`

	Seed struct {
		// UseCustomizationData habilita el override de seed por archivos
		// en <content_root>/Setup/*.json.
		UseCustomizationData bool   `yaml:"use_customization_data"`
		ContentRoot          string `yaml:"content_root"`
		MaxRetries           int    `yaml:"max_retries"`
		RetryBackoff         string `yaml:"retry_backoff"`
	} `yaml:"seed"`
}

// Load lee el YAML (si existe) y aplica defaults + overrides de ENV.
// Un path vacío o inexistente no es error: queda config por defecto.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		b, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setStr(&cfg.App.Env, "APP_ENV")
	setStr(&cfg.Server.Addr, "SERVER_ADDR")
	setStr(&cfg.Server.MetricsAddr, "METRICS_ADDR")
	setStr(&cfg.Storage.Driver, "STORAGE_DRIVER")
	setStr(&cfg.Storage.DSN, "STORAGE_DSN")
	setStr(&cfg.Cache.Kind, "CACHE_KIND")
	setStr(&cfg.Cache.Redis.Addr, "REDIS_ADDR")
	setStr(&cfg.Auth.JWTSecret, "AUTH_JWT_SECRET")
	setStr(&cfg.Auth.Issuer, "AUTH_ISSUER")
	setBool(&cfg.Seed.UseCustomizationData, "SEED_USE_CUSTOMIZATION_DATA")
	setStr(&cfg.Seed.ContentRoot, "SEED_CONTENT_ROOT")
	setInt(&cfg.Seed.MaxRetries, "SEED_MAX_RETRIES")
}

func applyDefaults(cfg *Config) {
	if cfg.App.Env == "" {
		cfg.App.Env = "dev"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.MetricsAddr == "" {
		cfg.Server.MetricsAddr = ":9090"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "memory"
	}
	if cfg.Cache.Kind == "" {
		cfg.Cache.Kind = "memory"
	}
	if cfg.Seed.ContentRoot == "" {
		if wd, err := os.Getwd(); err == nil {
			cfg.Seed.ContentRoot = wd
		}
	}
	if cfg.Seed.MaxRetries <= 0 {
		cfg.Seed.MaxRetries = 10
	}
	if cfg.Seed.RetryBackoff == "" {
		cfg.Seed.RetryBackoff = "500ms"
	}
	if cfg.Cache.TTL == "" {
		cfg.Cache.TTL = "30s"
	}
}

// RetryBackoff parsea el backoff entre intentos de seed.
func (c *Config) RetryBackoff() time.Duration {
	return parseDuration(c.Seed.RetryBackoff, 500*time.Millisecond)
}

// CacheTTL parsea el TTL por defecto del cache.
func (c *Config) CacheTTL() time.Duration {
	return parseDuration(c.Cache.TTL, 30*time.Second)
}

func parseDuration(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil && d > 0 {
		return d
	}
	return def
}

func setStr(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setInt(dst *int, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
