package gpu

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestBundledKernelNonEmpty(t *testing.T) {
	if BundledKernel() == "" {
		t.Fatal("bundled kernel is empty")
	}
}

func TestReadKernelFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), KernelFileName)
	if err := os.WriteFile(path, []byte("// kernel"), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := readKernelFile(path)
	if err != nil {
		t.Fatalf("readKernelFile: %v", err)
	}
	if src != "// kernel" {
		t.Errorf("source = %q", src)
	}
}

func TestReadKernelFileMissing(t *testing.T) {
	_, err := readKernelFile(filepath.Join(t.TempDir(), "absent.wgsl"))
	if !errors.Is(err, ErrKernelNotFound) {
		t.Errorf("error = %v, want ErrKernelNotFound", err)
	}
}

func TestLocateKernelInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, KernelFileName), []byte("// from cwd"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	src, err := LocateKernel()
	if err != nil {
		t.Fatalf("LocateKernel: %v", err)
	}
	if src != "// from cwd" {
		t.Errorf("source = %q", src)
	}
}

func TestLocateKernelMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LocateKernel()
	if err == nil {
		t.Skip("kernel file present next to the test binary")
	}
	if !errors.Is(err, ErrKernelNotFound) {
		t.Errorf("error = %v, want ErrKernelNotFound", err)
	}
}
