package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsSurviveNormalizeAndValidate(t *testing.T) {
	cfg := Default()
	cfg.Ebay.ClientID = "app-id"
	cfg.Ebay.ClientSecret = "cert-id"

	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if cfg.Ebay.CategoryID != "261328" {
		t.Errorf("CategoryID = %q, want 261328", cfg.Ebay.CategoryID)
	}
	if cfg.Ebay.DailyQuota != 5000 {
		t.Errorf("DailyQuota = %d, want 5000", cfg.Ebay.DailyQuota)
	}
	if cfg.Match.MinScore != 60 {
		t.Errorf("MinScore = %d, want 60", cfg.Match.MinScore)
	}
	if len(cfg.Match.BrandPrefixes["Panini"]) == 0 {
		t.Error("expected default Panini brand prefix table")
	}
}

func TestLoadParsesFileAndExpandsPaths(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(tmpDir, "data") + `"

[ebay]
client_id = "id"
client_secret = "secret"
daily_quota = 100

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be reported as existing")
	}
	if resolved != path {
		t.Errorf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Ebay.DailyQuota != 100 {
		t.Errorf("DailyQuota = %d, want 100", cfg.Ebay.DailyQuota)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) {
		t.Errorf("DataDir not absolute: %q", cfg.Paths.DataDir)
	}
}

func TestValidateRejectsMissingCredentials(t *testing.T) {
	t.Setenv("EBAY_CLIENT_ID", "")
	t.Setenv("EBAY_CLIENT_SECRET", "")

	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for missing credentials")
	}
	if !strings.Contains(err.Error(), "ebay.client_id") {
		t.Errorf("error should name the field: %v", err)
	}
}

func TestNormalizeLotPhrasesDedupes(t *testing.T) {
	cfg := Default()
	cfg.Match.LotPhrases = []string{"Lot", "lot", "  bundle  ", ""}
	cfg.Ebay.ClientID = "id"
	cfg.Ebay.ClientSecret = "secret"

	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	want := []string{"lot", "bundle"}
	if len(cfg.Match.LotPhrases) != len(want) {
		t.Fatalf("LotPhrases = %v, want %v", cfg.Match.LotPhrases, want)
	}
	for i, phrase := range want {
		if cfg.Match.LotPhrases[i] != phrase {
			t.Errorf("LotPhrases[%d] = %q, want %q", i, cfg.Match.LotPhrases[i], phrase)
		}
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	if err := WriteSample(path); err != nil {
		t.Fatalf("WriteSample failed: %v", err)
	}
	if err := WriteSample(path); err == nil {
		t.Fatal("expected error overwriting existing config")
	}
}
