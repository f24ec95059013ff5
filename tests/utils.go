package tests

import (
	"os"
	"path/filepath"
	"testing"
)

func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	return p
}

// WriteScript writes a /bin/sh script with the execute bit set.
func WriteScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := WriteFile(t, dir, name, "#!/bin/sh\n"+body)
	if err := os.Chmod(p, 0o755); err != nil {
		t.Fatalf("chmod failed: %v", err)
	}
	return p
}
