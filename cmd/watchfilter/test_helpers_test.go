package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"watchfilter/internal/config"
	"watchfilter/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	tmdb       *testsupport.TMDBServer
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("WATCHFILTER_REGION", "")

	tmdbServer := testsupport.NewTMDBServer(t)
	cfg := testsupport.NewConfig(t, testsupport.WithTMDBBaseURL(tmdbServer.URL))

	configPath := filepath.Join(homeDir, ".config", "watchfilter", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		tmdb:       tmdbServer,
		configPath: configPath,
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[tmdb]\napi_key = %q\nbase_url = %q\nregion = %q\nrequests_per_second = 0\n\n[api]\nbind = %q\n\n[logging]\nlevel = \"error\"\ndir = %q\n",
		cfg.TMDB.APIKey,
		cfg.TMDB.BaseURL,
		cfg.TMDB.Region,
		cfg.API.Bind,
		cfg.Logging.Dir,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}
