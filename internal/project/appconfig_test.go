package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/piwi3910/AtlasPack/internal/binpack"
	"github.com/piwi3910/AtlasPack/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := model.DefaultAppConfig()
	cfg.DefaultPageWidth = 1024
	cfg.DefaultHeuristic = binpack.ContactPoint
	cfg.DefaultMode = model.ModeBatch
	cfg.DefaultLegacyAreaFit = true
	cfg.LogLevel = "debug"
	cfg.RecentProjects = []string{"/tmp/a.atlasproj", "/tmp/b.atlasproj"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultPageWidth != 1024 {
		t.Errorf("expected DefaultPageWidth=1024, got %d", loaded.DefaultPageWidth)
	}
	if loaded.DefaultHeuristic != binpack.ContactPoint {
		t.Errorf("expected ContactPoint, got %v", loaded.DefaultHeuristic)
	}
	if loaded.DefaultMode != model.ModeBatch {
		t.Errorf("expected batch mode, got %q", loaded.DefaultMode)
	}
	if !loaded.DefaultLegacyAreaFit {
		t.Error("expected DefaultLegacyAreaFit to survive the round trip")
	}
	if len(loaded.RecentProjects) != 2 {
		t.Errorf("expected 2 recent projects, got %d", len(loaded.RecentProjects))
	}
}

func TestSaveAppConfigWritesReadableTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"default_page_width = 2048", `default_heuristic = "BestShortSideFit"`, `default_mode = "online"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("expected %q in config:\n%s", want, data)
		}
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	cfg, err := LoadAppConfig(filepath.Join(t.TempDir(), "nonexistent", "config.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	defaults := model.DefaultAppConfig()
	if cfg.DefaultPageWidth != defaults.DefaultPageWidth || cfg.DefaultPadding != defaults.DefaultPadding {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected log level info, got %s", cfg.LogLevel)
	}
}

func TestLoadAppConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "default_padding = 0\ndefault_heuristic = \"cp\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.DefaultPadding != 0 {
		t.Errorf("expected padding 0, got %d", cfg.DefaultPadding)
	}
	if cfg.DefaultHeuristic != binpack.ContactPoint {
		t.Errorf("expected ContactPoint from the abbreviation, got %v", cfg.DefaultHeuristic)
	}
	if cfg.DefaultPageWidth != 2048 {
		t.Errorf("expected default page width, got %d", cfg.DefaultPageWidth)
	}
	if cfg.RecentProjects == nil {
		t.Error("RecentProjects should not be nil")
	}
}

func TestLoadAppConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"syntax":    "default_page_width = = 3",
		"heuristic": "default_heuristic = \"diagonal\"",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadAppConfig(path); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "dir", "config.toml")

	if err := SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
		t.Fatalf("SaveAppConfig should create parent dirs: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := homedir.Dir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	got, err := ExpandPath("~/atlas/config.toml")
	if err != nil {
		t.Fatalf("ExpandPath failed: %v", err)
	}
	if got != filepath.Join(home, "atlas", "config.toml") {
		t.Errorf("unexpected expansion %q", got)
	}

	if got, _ := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("expected absolute path unchanged, got %q", got)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if filepath.Base(path) != "config.toml" {
		t.Errorf("expected config.toml, got %s", filepath.Base(path))
	}
	if filepath.Base(filepath.Dir(path)) != ".atlaspack" {
		t.Errorf("expected parent dir .atlaspack, got %s", filepath.Dir(path))
	}
}
