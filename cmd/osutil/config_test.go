package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opensuse-tools/osutil/internal/common/config"
	"github.com/opensuse-tools/osutil/internal/common/output"
)

func TestConfigPathCommand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"config", "path"})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	}()

	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(home, "osutil", "osutil.conf")
	if strings.TrimSpace(buf.String()) != want {
		t.Errorf("Expected %s, got %s", want, buf.String())
	}
}

func TestCheckConfigHidesPassword(t *testing.T) {
	output.NoColor()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	dir := filepath.Join(home, config.AppName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "username = alice\npassword = hunter2\n"
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	configCheckCmd.SetOut(&buf)
	defer configCheckCmd.SetOut(nil)

	if err := checkConfig(configCheckCmd); err != nil {
		t.Fatalf("checkConfig failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "alice") {
		t.Errorf("Expected username in output:\n%s", out)
	}
	if strings.Contains(out, "hunter2") {
		t.Errorf("Password must not be printed:\n%s", out)
	}
	if !strings.Contains(out, config.DefaultRepository) {
		t.Errorf("Expected default repository in output:\n%s", out)
	}
}

func TestCheckConfigMissingPassword(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	dir := filepath.Join(home, config.AppName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte("username = alice\n"), 0600); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	configCheckCmd.SetOut(&buf)
	defer configCheckCmd.SetOut(nil)

	if err := checkConfig(configCheckCmd); !errors.Is(err, config.ErrMissingPassword) {
		t.Errorf("Expected ErrMissingPassword, got %v", err)
	}
}
