package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ExecutableDir returns the directory of the running binary with symlinks resolved.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}
	return filepath.Dir(exe), nil
}

// JoinExecutableDir joins name onto dir unless name is already absolute.
func JoinExecutableDir(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// ResolveSource locates a picks file or directory. Absolute paths are returned unchanged;
// relative paths are tried against the working directory first and then
// against the executable's directory. When neither exists the working
// directory path is returned so the load reports the missing file.
func ResolveSource(source string) string {
	if source == "" || filepath.IsAbs(source) {
		return source
	}
	if SourceExists(source) {
		return source
	}
	if exeDir, err := ExecutableDir(); err == nil {
		if candidate := filepath.Join(exeDir, source); SourceExists(candidate) {
			return candidate
		}
	}
	return source
}

// SourceExists reports whether path names an existing file or directory.
func SourceExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
