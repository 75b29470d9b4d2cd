package gpu

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

// KernelFileName is the on-disk name of the step kernel, searched for
// next to the executable, in its parent directory, then in the current
// working directory.
const KernelFileName = "life_step.wgsl"

//go:embed shaders/life_step.wgsl
var bundledKernelSource string

// BundledKernel returns the kernel source compiled into the binary.
func BundledKernel() string { return bundledKernelSource }

// readKernelFile loads kernel source from an explicit path. A missing
// file is reported as ErrKernelNotFound so it caches like a failed
// probe.
func readKernelFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrKernelNotFound, path)
		}
		return "", fmt.Errorf("read kernel %s: %w", path, err)
	}
	return string(data), nil
}

// LocateKernel searches the standard probe locations for the kernel
// file and returns its contents. The probe order is executable
// directory, its parent, then the working directory.
func LocateKernel() (string, error) {
	var dirs []string
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		dirs = append(dirs, exeDir, filepath.Dir(exeDir))
	}
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}

	for _, dir := range dirs {
		path := filepath.Join(dir, KernelFileName)
		data, err := os.ReadFile(path)
		if err == nil {
			slogger().Debug("kernel source located", "path", path)
			return string(data), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("read kernel %s: %w", path, err)
		}
	}
	return "", fmt.Errorf("%w: %s not found near executable or in working directory",
		ErrKernelNotFound, KernelFileName)
}
