package testkit

import (
	"path/filepath"
	"testing"
)

func TestMustPanic(t *testing.T) {
	t.Parallel()

	MustPanic(t, func() {
		panic("boom")
	})
}

func TestMustContain(t *testing.T) {
	t.Parallel()

	MustContain(t, "archiving from a to b", "from a")
}

func TestWriteReadFile(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "nested", "dir", "file.txt")
	WriteFile(t, p, "hello")
	if got := ReadFile(t, p); got != "hello" {
		t.Fatalf("ReadFile = %q, want hello", got)
	}
}

func TestMustNotExist(t *testing.T) {
	t.Parallel()

	MustNotExist(t, filepath.Join(t.TempDir(), "missing"))
}
