package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opensuse-tools/osutil/internal/common/output"
	"github.com/opensuse-tools/osutil/internal/repology"
)

func TestCachePathCommand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", home)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"cache", "path"})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	}()

	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(home, "osutil", repology.CacheFileName)
	if strings.TrimSpace(buf.String()) != want {
		t.Errorf("Expected %s, got %s", want, buf.String())
	}
}

func TestCacheClearCommand(t *testing.T) {
	output.NoColor()
	home := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", home)
	dir := filepath.Join(home, "osutil")

	cache, err := repology.NewCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"cmake", "vim"} {
		if err := cache.Set(name, []repology.Repo{{Repo: "arch", Version: "1.0", Status: repology.StatusNewest}}, ""); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"cache", "clear"})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	}()

	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Removed 2 cached project(s)") {
		t.Errorf("Unexpected output: %s", buf.String())
	}

	reloaded, err := repology.NewCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Len() != 0 {
		t.Errorf("Expected empty cache after clear, got %d entries", reloaded.Len())
	}
}
