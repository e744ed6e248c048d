// ABOUTME: Tests for the install-skill command.
// ABOUTME: Validates skill installation, confirmation, and embedded content.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSkillDirFor(t *testing.T) {
	got := skillDirFor("/home/me")
	want := filepath.Join("/home/me", ".claude", "skills", "healthlog")
	if got != want {
		t.Errorf("skillDirFor() = %q, want %q", got, want)
	}
}

func TestSkillInstallCreatesDirectory(t *testing.T) {
	skillDir := skillDirFor(t.TempDir())

	var out bytes.Buffer
	if err := installSkillTo(skillDir, true, strings.NewReader(""), &out); err != nil {
		t.Fatalf("installSkillTo failed: %v", err)
	}

	info, err := os.Stat(skillDir)
	if err != nil {
		t.Fatalf("Skill directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("Expected skill path to be a directory")
	}
	if !strings.Contains(out.String(), "Installed healthlog skill") {
		t.Errorf("missing success message in output:\n%s", out.String())
	}
}

func TestSkillInstallWritesEmbeddedContent(t *testing.T) {
	skillDir := skillDirFor(t.TempDir())
	if err := installSkillTo(skillDir, true, strings.NewReader(""), &bytes.Buffer{}); err != nil {
		t.Fatalf("installSkillTo failed: %v", err)
	}

	embedded, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		t.Fatalf("Failed to read embedded skill: %v", err)
	}
	written, err := os.ReadFile(filepath.Join(skillDir, "SKILL.md"))
	if err != nil {
		t.Fatalf("Failed to read installed skill: %v", err)
	}
	if !bytes.Equal(embedded, written) {
		t.Error("installed SKILL.md differs from embedded content")
	}
}

func TestSkillInstallOverwritesExistingFile(t *testing.T) {
	skillDir := skillDirFor(t.TempDir())
	if err := os.MkdirAll(skillDir, 0750); err != nil {
		t.Fatal(err)
	}
	skillPath := filepath.Join(skillDir, "SKILL.md")
	if err := os.WriteFile(skillPath, []byte("old"), 0600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := installSkillTo(skillDir, true, strings.NewReader(""), &out); err != nil {
		t.Fatalf("installSkillTo failed: %v", err)
	}
	if !strings.Contains(out.String(), "already exists") {
		t.Error("expected an overwrite notice")
	}
	content, _ := os.ReadFile(skillPath)
	if string(content) == "old" {
		t.Error("existing skill file was not overwritten")
	}
}

func TestSkillInstallConfirmation(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		installed bool
	}{
		{"yes", "y\n", true},
		{"full yes", "YES\n", true},
		{"no", "n\n", false},
		{"empty", "\n", false},
		{"eof", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skillDir := skillDirFor(t.TempDir())
			var out bytes.Buffer
			if err := installSkillTo(skillDir, false, strings.NewReader(tt.input), &out); err != nil {
				t.Fatalf("installSkillTo failed: %v", err)
			}
			_, err := os.Stat(filepath.Join(skillDir, "SKILL.md"))
			if installed := err == nil; installed != tt.installed {
				t.Errorf("installed = %v, want %v\n%s", installed, tt.installed, out.String())
			}
			if !tt.installed && !strings.Contains(out.String(), "canceled") {
				t.Error("expected cancel message")
			}
		})
	}
}

func TestSkillInstallFilePermissions(t *testing.T) {
	skillDir := skillDirFor(t.TempDir())
	if err := installSkillTo(skillDir, true, strings.NewReader(""), &bytes.Buffer{}); err != nil {
		t.Fatalf("installSkillTo failed: %v", err)
	}
	info, err := os.Stat(filepath.Join(skillDir, "SKILL.md"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file permissions = %o, want 0600", perm)
	}
}

func TestSkillEmbeddedContent(t *testing.T) {
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		t.Fatalf("Failed to read embedded skill: %v", err)
	}
	text := string(content)
	for _, marker := range []string{"name: healthlog", "healthlog symptom", "healthlog course", "healthlog export"} {
		if !strings.Contains(text, marker) {
			t.Errorf("embedded skill missing %q", marker)
		}
	}
}

func TestSkillSkipConfirmFlag(t *testing.T) {
	flag := installSkillCmd.Flags().Lookup("yes")
	if flag == nil {
		t.Fatal("expected --yes flag")
	}
	if flag.Shorthand != "y" {
		t.Errorf("shorthand = %q, want y", flag.Shorthand)
	}
	if flag.DefValue != "false" {
		t.Errorf("default = %q, want false", flag.DefValue)
	}
}
