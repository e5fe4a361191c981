package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/MarcoPoloResearchLab/authors/internal/authors"
)

func runCommand(t *testing.T, databasePath string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("AUTHORS_PASSWORD_MEMORY_KIB", "10240")
	t.Setenv("AUTHORS_PASSWORD_ITERATIONS", "1")

	rootCmd := newRootCommand()
	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--database-path=" + databasePath, "--log-level=error"}, args...))
	err := rootCmd.Execute()
	return stdout.String(), err
}

func decodeShape(t *testing.T, payload string) authors.WireShape {
	t.Helper()
	var shape authors.WireShape
	if err := json.Unmarshal([]byte(payload), &shape); err != nil {
		t.Fatalf("failed to decode %q: %v", payload, err)
	}
	return shape
}

func TestCommandsManageAuthorLifecycle(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "cli.db")

	output, err := runCommand(t, databasePath, "create",
		"--avatar-url", "https://x.test/a.png",
		"--email", "a@b.com",
		"--password", "s3cret",
		"--username", "bob")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	created := decodeShape(t, output)
	authorID := created[authors.WireKeyID]
	if len(authorID) != 36 {
		t.Fatalf("expected canonical id, got %q", authorID)
	}
	if len(created[authors.WireKeyPasswordHash]) != authors.MaxPasswordHashLength {
		t.Fatalf("expected argon2id hash, got %q", created[authors.WireKeyPasswordHash])
	}

	output, err = runCommand(t, databasePath, "update", authorID, "--username", "robert")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if decodeShape(t, output)[authors.WireKeyUsername] != "robert" {
		t.Fatalf("expected updated username, got %s", output)
	}

	output, err = runCommand(t, databasePath, "show", authorID)
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	shown := decodeShape(t, output)
	if shown[authors.WireKeyEmail] != "a@b.com" || shown[authors.WireKeyUsername] != "robert" {
		t.Fatalf("unexpected author: %s", output)
	}

	output, err = runCommand(t, databasePath, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	var listed []authors.WireShape
	if err := json.Unmarshal([]byte(output), &listed); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(listed) != 1 || listed[0][authors.WireKeyID] != authorID {
		t.Fatalf("unexpected list output: %s", output)
	}

	if _, err := runCommand(t, databasePath, "delete", authorID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := runCommand(t, databasePath, "show", authorID); !errors.Is(err, authors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "cli.db")
	_, err := runCommand(t, databasePath, "create",
		"--avatar-url", "https://x.test/a.png",
		"--email", "a@b.com",
		"--password", "s3cret",
		"--username", "a-username-that-does-not-fit-the-column")
	if !errors.Is(err, authors.ErrValueTooLong) {
		t.Fatalf("expected ErrValueTooLong, got %v", err)
	}
}

func TestUpdateRequiresAChange(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "cli.db")
	if _, err := runCommand(t, databasePath, "update", "1b4e28ba-2fa1-11d2-883f-0016d3cca427"); err == nil {
		t.Fatalf("expected error when no flags are set")
	}
}
