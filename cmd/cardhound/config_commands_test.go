package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, _, err := runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("unexpected init output: %q", out)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[ebay]") {
		t.Fatalf("sample config missing ebay section: %q", data)
	}

	if _, _, err := runCLI(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}
}

func TestConfigShowRedactsCredentials(t *testing.T) {
	configPath := writeTestConfig(t)

	out, _, err := runCLI(t, "", "config", "show", "--config-path", configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "test-client") {
		t.Fatalf("client id leaked into output: %q", out)
	}
	if !strings.Contains(out, "test") {
		t.Fatalf("expected redacted prefix, got %q", out)
	}
	if !strings.Contains(out, "EBAY_US") {
		t.Fatalf("expected marketplace line, got %q", out)
	}
}

func TestRedactCredential(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "(unset)"},
		{"abc", "******"},
		{"abcdefgh", "abcd****"},
	}
	for _, tc := range cases {
		if got := redactCredential(tc.in); got != tc.want {
			t.Errorf("redactCredential(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
