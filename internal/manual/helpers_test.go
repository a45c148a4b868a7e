package manual

import (
	"os"
	"path/filepath"
	"testing"
)

// writeTemp writes content to name under a fresh t.TempDir() and returns
// the path.
func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
