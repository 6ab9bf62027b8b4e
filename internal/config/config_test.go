package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func newCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	fs := cmd.Flags()
	fs.String("config", "", "")
	fs.String("listen", "", "")
	fs.String("level", "", "")
	fs.String("site", "", "")
	fs.String("store", "", "")
	fs.Bool("insecure-cookie", false, "")
	return cmd
}

func TestLoadConf_Defaults(t *testing.T) {
	t.Setenv(EnvConfigFile, "")
	chdir(t, t.TempDir())

	conf, err := NewConfigManager().LoadConf(newCommand())
	if err != nil {
		t.Fatal(err)
	}

	if conf.App.Listen != ":8080" || conf.App.Level != "info" {
		t.Fatalf("unexpected app config %+v", conf.App)
	}
	if len(conf.App.TrustedProxies) != 0 || conf.App.TrustedPlatform != "" {
		t.Fatalf("forwarded headers must not be trusted by default: %+v", conf.App)
	}
	if conf.Session.CookieName != "tc" || conf.Session.TTL != 8*time.Hour || !conf.Session.Secure {
		t.Fatalf("unexpected session config %+v", conf.Session)
	}
	if conf.Store.Backend != StoreSupabase || conf.Supabase.Bucket != "assignments" {
		t.Fatalf("unexpected store config %+v %+v", conf.Store, conf.Supabase)
	}
	if conf.Login.Limit != 10 || conf.Login.Window != 5*time.Minute {
		t.Fatalf("unexpected login config %+v", conf.Login)
	}
	if conf.LoginConfigured() {
		t.Fatal("login must not be configured without secret and password")
	}
}

func TestLoadConf_EnvAndFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "classroom.yaml")
	content := `
app:
  listen: ":9090"
  trusted_proxies: ["10.1.0.0/16", "127.0.0.1"]
session:
  ttl: 2h
  domain: class.example.org
supabase:
  url: https://file.supabase.co
`
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvConfigFile, file)
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("TEACHER_PASSWORD", "chalkboard")
	t.Setenv("SUPABASE_URL", "https://env.supabase.co")
	t.Setenv("CLASSROOM_LOGIN_LIMIT", "3")

	cmd := newCommand()
	if err := cmd.Flags().Set("level", "error"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("insecure-cookie", "true"); err != nil {
		t.Fatal(err)
	}

	conf, err := NewConfigManager().LoadConf(cmd)
	if err != nil {
		t.Fatal(err)
	}

	if conf.App.Listen != ":9090" {
		t.Fatalf("listen = %q", conf.App.Listen)
	}
	if len(conf.App.TrustedProxies) != 2 || conf.App.TrustedProxies[0] != "10.1.0.0/16" {
		t.Fatalf("trusted proxies = %v", conf.App.TrustedProxies)
	}
	if conf.App.Level != "error" {
		t.Fatalf("level = %q", conf.App.Level)
	}
	if conf.Session.TTL != 2*time.Hour || conf.Session.Domain != "class.example.org" {
		t.Fatalf("unexpected session %+v", conf.Session)
	}
	if conf.Session.Secure {
		t.Fatal("insecure-cookie flag ignored")
	}
	if conf.Supabase.URL != "https://env.supabase.co" {
		t.Fatalf("env must override file, got %q", conf.Supabase.URL)
	}
	if conf.Login.Limit != 3 {
		t.Fatalf("login limit = %d", conf.Login.Limit)
	}
	if !conf.LoginConfigured() {
		t.Fatal("expected login to be configured")
	}
}

func TestLoadConf_MissingExplicitFile(t *testing.T) {
	t.Setenv(EnvConfigFile, filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := NewConfigManager().LoadConf(newCommand()); err == nil {
		t.Fatal("expected an error for a missing explicit config file")
	}
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Store:   StoreConfig{Backend: StoreSupabase},
			Session: SessionConfig{TTL: time.Hour},
			Login:   LoginConfig{Limit: 5, Window: time.Minute},
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("base config invalid: %v", err)
	}

	tests := map[string]func(c *Config){
		"unknown backend": func(c *Config) { c.Store.Backend = "s3" },
		"unknown driver": func(c *Config) {
			c.Store.Backend = StoreSQL
			c.Database = DatabaseConfig{Driver: "oracle", DSN: "x"}
		},
		"missing dsn": func(c *Config) {
			c.Store.Backend = StoreSQL
			c.Database = DatabaseConfig{Driver: "sqlite"}
		},
		"short ttl": func(c *Config) {
			c.Session.TTL = time.Millisecond
		},
		"limit without window": func(c *Config) {
			c.Login.Window = 0
		},
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := base()
			mutate(c)
			if err := c.Validate(); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestConfig_EnvReport(t *testing.T) {
	c := &Config{
		Store:    StoreConfig{Backend: StoreSupabase},
		Session:  SessionConfig{Secret: "abcdef"},
		Supabase: SupabaseConfig{URL: "https://x.supabase.co"},
	}

	report := c.EnvReport()
	if report.OK {
		t.Fatal("report must not be ok")
	}
	want := []string{"SUPABASE_SERVICE_ROLE_KEY", "TEACHER_PASSWORD"}
	if len(report.Missing) != len(want) {
		t.Fatalf("missing = %v", report.Missing)
	}
	for i := range want {
		if report.Missing[i] != want[i] {
			t.Fatalf("missing = %v", report.Missing)
		}
	}
	if v := report.Variables["SESSION_SECRET"]; !v.Present || v.Length != 6 {
		t.Fatalf("SESSION_SECRET = %+v", v)
	}
	if v := report.Variables["SUPABASE_ANON_KEY"]; v.Present {
		t.Fatalf("SUPABASE_ANON_KEY = %+v", v)
	}

	t.Run("sql backend does not need supabase", func(t *testing.T) {
		c := &Config{
			Store:   StoreConfig{Backend: StoreSQL},
			Session: SessionConfig{Secret: "abcdef"},
			Teacher: TeacherConfig{Password: "pw"},
		}
		if report := c.EnvReport(); !report.OK {
			t.Fatalf("missing = %v", report.Missing)
		}
	})
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
