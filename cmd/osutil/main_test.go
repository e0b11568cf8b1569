package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestRootWithoutArgsListsCommands runs the root command with no
// arguments and checks it succeeds and lists the available commands
func TestRootWithoutArgsListsCommands(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute without args failed: %v", err)
	}

	out := buf.String()
	for _, name := range []string{"outdated", "config", "cache", "version", "completion"} {
		if !strings.Contains(out, name) {
			t.Errorf("Help output should list %q:\n%s", name, out)
		}
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := map[string]bool{"outdated": false, "config": false, "cache": false, "version": false, "completion": false}
	for _, cmd := range rootCmd.Commands() {
		name := strings.Fields(cmd.Use)[0]
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("%s subcommand should exist", name)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	for _, name := range []string{"verbose", "quiet", "no-color", "log-file"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("root command should have --%s flag", name)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	}()

	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "osutil version") {
		t.Errorf("Unexpected version output: %s", buf.String())
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		var buf bytes.Buffer
		rootCmd.SetOut(&buf)
		rootCmd.SetArgs([]string{"completion", shell})

		if err := rootCmd.Execute(); err != nil {
			t.Errorf("completion %s failed: %v", shell, err)
		}
		if buf.Len() == 0 {
			t.Errorf("completion %s produced no output", shell)
		}
	}
	rootCmd.SetOut(nil)
	rootCmd.SetArgs(nil)
}
