package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigParsing(t *testing.T) {
	configContent := `# Global options
catalogDir /var/lib/formlab/forms
currency $
logLevel debug

[preview]
hooksEnabled false
hookTimeoutMs 250`

	config, err := LoadFromReader(strings.NewReader(configContent))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.CatalogDir != "/var/lib/formlab/forms" {
		t.Errorf("Expected catalogDir=/var/lib/formlab/forms, got %s", config.CatalogDir)
	}
	if config.Currency != "$" {
		t.Errorf("Expected currency=$, got %s", config.Currency)
	}
	if config.LogLevel != "debug" {
		t.Errorf("Expected logLevel=debug, got %s", config.LogLevel)
	}
	if config.Preview.HooksEnabled {
		t.Error("Expected hooksEnabled=false")
	}
	if config.Preview.HookTimeoutMs != 250 {
		t.Errorf("Expected hookTimeoutMs=250, got %d", config.Preview.HookTimeoutMs)
	}
	if config.SlogLevel() != slog.LevelDebug {
		t.Errorf("Expected slog debug level, got %v", config.SlogLevel())
	}
}

func TestEmptyConfigKeepsDefaults(t *testing.T) {
	config, err := LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Failed to load empty config: %v", err)
	}

	if config.Currency != "₽" {
		t.Errorf("Expected default currency, got %s", config.Currency)
	}
	if !config.Preview.HooksEnabled {
		t.Error("Expected hooks enabled by default")
	}
	if config.Preview.HookTimeoutMs != 5000 {
		t.Errorf("Expected default hookTimeoutMs=5000, got %d", config.Preview.HookTimeoutMs)
	}
}

func TestConfigWarnings(t *testing.T) {
	configContent := `unknownOption value
logLevel shouting

[mystery]
anything goes`

	config, err := LoadFromReader(strings.NewReader(configContent))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if len(config.Warnings) != 3 {
		t.Errorf("Expected 3 warnings, got %d: %v", len(config.Warnings), config.Warnings)
	}
	if config.LogLevel != "warn" {
		t.Errorf("Unknown logLevel must keep the default, got %s", config.LogLevel)
	}
}

func TestConfigUnknownSectionIsInert(t *testing.T) {
	configContent := `[mystery]
currency $
hookTimeoutMs 1

[preview]
hookTimeoutMs 250`

	config, err := LoadFromReader(strings.NewReader(configContent))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.Currency != "₽" {
		t.Errorf("Option inside an unknown section must not apply, got currency %s", config.Currency)
	}
	if config.Preview.HookTimeoutMs != 250 {
		t.Errorf("A later recognized section must resume parsing, got %d", config.Preview.HookTimeoutMs)
	}
	if len(config.Warnings) != 1 {
		t.Errorf("Expected 1 warning (the section header only), got %d: %v", len(config.Warnings), config.Warnings)
	}
}

func TestConfigInvalidPreviewOption(t *testing.T) {
	tests := []string{
		"[preview]\nhooksEnabled maybe",
		"[preview]\nhookTimeoutMs soon",
		"[preview]\nhookTimeoutMs 0",
		"[preview]\nsomethingElse 1",
	}
	for _, content := range tests {
		if _, err := LoadFromReader(strings.NewReader(content)); err == nil {
			t.Errorf("Expected error for config %q", content)
		}
	}
}

func TestLoadFromPathMissingFile(t *testing.T) {
	config, err := LoadFromPath(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("Missing file must yield defaults, got error: %v", err)
	}
	if config.Currency != "₽" {
		t.Errorf("Expected defaults, got currency %s", config.Currency)
	}
}

func TestLoadFromPathRejectsSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real")
	if err := os.WriteFile(target, []byte("currency $"), 0644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	if _, err := LoadFromPath(link); err == nil {
		t.Error("Expected symlinked config to be rejected")
	}
}
