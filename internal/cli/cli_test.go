package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSource(t *testing.T, name, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestAssembleFile(t *testing.T) {
	t.Parallel()

	src := writeSource(t, "halt.asm", ".ORIG x3000\nHALT\n.END\n")

	if err := AssembleFile(src, Options{}); err != nil {
		t.Fatalf("assemble: %s", err)
	}

	bs, err := os.ReadFile(objectName(src))
	if err != nil {
		t.Fatalf("read object: %s", err)
	}

	want := []byte{0x30, 0x00, 0xF0, 0x25}

	if len(bs) != len(want) {
		t.Fatalf("object = % 02x, want % 02x", bs, want)
	}

	for i := range want {
		if bs[i] != want[i] {
			t.Errorf("byte %d = %#02x, want %#02x", i, bs[i], want[i])
		}
	}
}

func TestAssembleFile_ErrorWritesNoObject(t *testing.T) {
	t.Parallel()

	src := writeSource(t, "dup.asm", ".ORIG x3000\nX AND R0,R0,#0\nX AND R0,R0,#0\n.END\n")

	err := AssembleFile(src, Options{})
	if err == nil {
		t.Fatal("expected a duplicate-label error")
	}

	if _, err := os.Stat(objectName(src)); !os.IsNotExist(err) {
		t.Error("object file written despite error")
	}

	diag := Diagnostic(err)
	if !strings.Contains(diag, "dup.asm:3") {
		t.Errorf("diagnostic %q does not name the file and line", diag)
	}
}
