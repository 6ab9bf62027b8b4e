// Copyright 2025 The Classroom Authors, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// EnvConfigFile points at the YAML config file.
	EnvConfigFile = "CLASSROOM_CONFIG"

	defaultConfigFile = "classroom.yaml"

	StoreSupabase = "supabase"
	StoreSQL      = "sql"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Session  SessionConfig  `mapstructure:"session"`
	Teacher  TeacherConfig  `mapstructure:"teacher"`
	Supabase SupabaseConfig `mapstructure:"supabase"`
	Store    StoreConfig    `mapstructure:"store"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Login    LoginConfig    `mapstructure:"login"`
}

type AppConfig struct {
	Listen        string `mapstructure:"listen"`
	Level         string `mapstructure:"level"`
	SiteDir       string `mapstructure:"site_dir"`
	PublicBaseURL string `mapstructure:"public_base_url"`

	// TrustedProxies lists the proxy addresses or CIDRs whose
	// X-Forwarded-For header is believed. Empty means the peer address is
	// the client address.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
	// TrustedPlatform names a header set by the hosting edge, such as
	// CF-Connecting-IP, that carries the client address.
	TrustedPlatform string `mapstructure:"trusted_platform"`
}

type SessionConfig struct {
	Secret     string        `mapstructure:"secret"`
	CookieName string        `mapstructure:"cookie_name"`
	TTL        time.Duration `mapstructure:"ttl"`
	Secure     bool          `mapstructure:"secure"`
	Domain     string        `mapstructure:"domain"`
	Leeway     time.Duration `mapstructure:"leeway"`
}

type TeacherConfig struct {
	// Password is plain text or a bcrypt hash.
	Password string `mapstructure:"password"`
}

type SupabaseConfig struct {
	URL            string        `mapstructure:"url"`
	ServiceRoleKey string        `mapstructure:"service_role_key"`
	AnonKey        string        `mapstructure:"anon_key"`
	Bucket         string        `mapstructure:"bucket"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type StoreConfig struct {
	Backend string `mapstructure:"backend"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LoginConfig struct {
	Limit  int64         `mapstructure:"limit"`
	Window time.Duration `mapstructure:"window"`
}

// envBindings maps config keys to the variable names the hosted deployment
// has always used. Every other key is read from CLASSROOM_<KEY>.
var envBindings = []struct {
	key string
	env string
}{
	{"session.secret", "SESSION_SECRET"},
	{"teacher.password", "TEACHER_PASSWORD"},
	{"supabase.url", "SUPABASE_URL"},
	{"supabase.service_role_key", "SUPABASE_SERVICE_ROLE_KEY"},
	{"supabase.anon_key", "SUPABASE_ANON_KEY"},
}

// flagBindings maps command line flags to config keys.
var flagBindings = map[string]string{
	"listen": "app.listen",
	"level":  "app.level",
	"site":   "app.site_dir",
	"store":  "store.backend",
}

type ConfigManager struct {
	v *viper.Viper
}

// NewConfigManager returns a ConfigManager with every default registered.
func NewConfigManager() *ConfigManager {
	v := viper.New()
	setDefaults(v)
	return &ConfigManager{v: v}
}

// Viper return viper instance.
func (cm *ConfigManager) Viper() *viper.Viper {
	return cm.v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.listen", ":8080")
	v.SetDefault("app.level", "info")
	v.SetDefault("app.site_dir", "")
	v.SetDefault("app.public_base_url", "")
	v.SetDefault("app.trusted_proxies", []string{})
	v.SetDefault("app.trusted_platform", "")

	v.SetDefault("session.secret", "")
	v.SetDefault("session.cookie_name", "tc")
	v.SetDefault("session.ttl", 8*time.Hour)
	v.SetDefault("session.secure", true)
	v.SetDefault("session.domain", "")
	v.SetDefault("session.leeway", time.Duration(0))

	v.SetDefault("teacher.password", "")

	v.SetDefault("supabase.url", "")
	v.SetDefault("supabase.service_role_key", "")
	v.SetDefault("supabase.anon_key", "")
	v.SetDefault("supabase.bucket", "assignments")
	v.SetDefault("supabase.timeout", 15*time.Second)

	v.SetDefault("store.backend", StoreSupabase)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "classroom.db")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("login.limit", 10)
	v.SetDefault("login.window", 5*time.Minute)
}

// LoadConf reads the config file (when present), the environment and the
// flags of cmd, in increasing order of precedence.
func (cm *ConfigManager) LoadConf(cmd *cobra.Command) (*Config, error) {
	v := cm.v

	path := ""
	if cmd != nil {
		if f := cmd.Flags().Lookup("config"); f != nil {
			path = f.Value.String()
		}
	}
	if err := cm.readFile(path); err != nil {
		return nil, err
	}

	v.SetEnvPrefix("CLASSROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, b := range envBindings {
		if err := v.BindEnv(b.key, b.env); err != nil {
			return nil, err
		}
	}

	if cmd != nil {
		fs := cmd.Flags()
		for name, key := range flagBindings {
			f := fs.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
		if insecure, err := fs.GetBool("insecure-cookie"); err == nil && insecure {
			v.Set("session.secure", false)
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

func (cm *ConfigManager) readFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigFile)
		explicit = path != ""
	}
	if !explicit {
		path = defaultConfigFile
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("config file %s: %w", path, err)
	}

	cm.v.SetConfigFile(path)
	cm.v.SetConfigType("yaml")
	if err := cm.v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the server cannot start with. A missing secret
// or password is not an error here: the server starts and answers the
// affected routes with "server not configured".
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreSupabase, StoreSQL:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Backend == StoreSQL {
		switch c.Database.Driver {
		case "sqlite", "mysql":
		default:
			return fmt.Errorf("unknown database driver %q", c.Database.Driver)
		}
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required for the sql store")
		}
	}
	if c.Session.TTL < time.Second {
		return errors.New("session.ttl must be at least one second")
	}
	if c.Login.Limit < 0 || (c.Login.Limit > 0 && c.Login.Window <= 0) {
		return errors.New("login.window must be positive when login.limit is set")
	}
	return nil
}

// SessionConfigured reports whether tokens can be issued and verified.
func (c *Config) SessionConfigured() bool {
	return c.Session.Secret != ""
}

// LoginConfigured reports whether the teacher login route can work.
func (c *Config) LoginConfigured() bool {
	return c.Session.Secret != "" && c.Teacher.Password != ""
}
