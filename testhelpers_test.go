package imagearchiver

import (
	"os"
	"path/filepath"
	"testing"
)

// Stub scripts standing in for the external pull/save tool and the
// compressor. The save branch prints recognizable bytes so tests can check
// what ended up in the archive.
const (
	stubTool = `case "$1" in
pull) exit 0 ;;
save) printf 'image-bytes-for-%s' "$2" ;;
esac`
	stubCompressor = `cat`
)

func writeStubTool(t *testing.T, dir, name, script string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
}

// newStubArchiver returns an Archiver whose docker and xz binaries are shell
// stubs on a PATH entry that shadows the real tools.
func newStubArchiver(t *testing.T, toolScript, compressorScript string) *Archiver {
	t.Helper()
	binDir := t.TempDir()
	writeStubTool(t, binDir, "docker", toolScript)
	writeStubTool(t, binDir, "xz", compressorScript)
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return NewArchiver(t.TempDir())
}

func cleanupTempDir(t *testing.T, path string) {
	t.Helper()
	if err := os.RemoveAll(path); err != nil {
		t.Fatalf("failed to remove temp dir: %v", err)
	}
}
