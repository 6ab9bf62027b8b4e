package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"classroom/internal/config"
	"classroom/pkg/utils"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--level", "silent"))
	err := root.Execute()
	return out.String(), err
}

func isolate(t *testing.T) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv(config.EnvConfigFile, "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("TEACHER_PASSWORD", "")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "")
}

func TestTokenIssueVerify(t *testing.T) {
	isolate(t)
	t.Setenv("SESSION_SECRET", "cli-secret")

	out, err := run(t, "", "token", "issue", "--ttl", "1h")
	if err != nil {
		t.Fatal(err)
	}
	tok := strings.TrimSpace(out)
	if strings.Count(tok, ".") != 2 {
		t.Fatalf("token = %q", tok)
	}

	out, err = run(t, "", "token", "verify", tok)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"role": "teacher"`) {
		t.Fatalf("claims = %s", out)
	}

	if _, err := run(t, "", "token", "verify", tok+"x"); err == nil {
		t.Fatal("tampered token verified")
	}

	out, err = run(t, "", "token", "issue", "--cookie")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "; Path=/; HttpOnly; SameSite=Lax; Max-Age=28800; Secure") {
		t.Fatalf("cookie = %q", out)
	}
}

func TestTokenIssue_NoSecret(t *testing.T) {
	isolate(t)
	if _, err := run(t, "", "token", "issue"); err == nil {
		t.Fatal("expected an error without SESSION_SECRET")
	}
}

func TestPasswordHash(t *testing.T) {
	isolate(t)

	out, err := run(t, "chalkboard\n", "password", "hash")
	if err != nil {
		t.Fatal(err)
	}
	hash := strings.TrimSpace(out)
	if !utils.IsBcryptHash(hash) || !utils.ComparePassword(hash, "chalkboard") {
		t.Fatalf("hash = %q", hash)
	}

	if _, err := run(t, "", "password", "hash"); err == nil {
		t.Fatal("expected an error for an empty password")
	}
}

func TestEnvCheck(t *testing.T) {
	isolate(t)
	t.Setenv("SESSION_SECRET", "s3cret")

	out, err := run(t, "", "env-check")
	if err == nil {
		t.Fatal("expected missing variables")
	}
	if strings.Contains(out, "s3cret") {
		t.Fatal("env-check printed a value")
	}
	if !strings.Contains(err.Error(), "TEACHER_PASSWORD") {
		t.Fatalf("err = %v", err)
	}

	t.Setenv("TEACHER_PASSWORD", "pw")
	t.Setenv("SUPABASE_URL", "https://x.supabase.co")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "key")
	if _, err := run(t, "", "env-check"); err != nil {
		t.Fatal(err)
	}
}

func TestVersion(t *testing.T) {
	isolate(t)
	out, err := run(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "commit") {
		t.Fatalf("version = %q", out)
	}
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
