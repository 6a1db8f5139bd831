package locust

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	tempDirsMu sync.Mutex
	tempDirs   []string
)

// ResolvePath turns an input argument into a comparable run path. Regular
// files and directories pass through unchanged (as do nonexistent paths, so
// LoadReport can report them). A .zip archive is extracted to a tracked
// temporary directory; if the archive root holds exactly one directory that
// inner directory is returned, matching the layout of CI report bundles.
func ResolvePath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return path, nil
	}
	if info.IsDir() || !strings.EqualFold(filepath.Ext(path), ".zip") {
		return path, nil
	}

	dir, err := extractZip(path)
	if err != nil {
		return "", err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(dir, entries[0].Name()), nil
	}
	return dir, nil
}

func extractZip(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("%s is not a valid zip file: %w", path, err)
	}
	defer zr.Close()

	dir, err := os.MkdirTemp("", "locust-compare-")
	if err != nil {
		return "", err
	}
	tempDirsMu.Lock()
	tempDirs = append(tempDirs, dir)
	tempDirsMu.Unlock()

	for _, f := range zr.File {
		target := filepath.Join(dir, filepath.Clean(f.Name))
		if !strings.HasPrefix(target, dir+string(os.PathSeparator)) {
			return "", fmt.Errorf("zip entry escapes extraction root: %s", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return "", err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return "", err
		}
		if err := extractFile(f, target); err != nil {
			return "", err
		}
	}
	return dir, nil
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

// Cleanup removes every temporary directory created by ResolvePath. Callers
// should defer it once around a comparison run.
func Cleanup() {
	tempDirsMu.Lock()
	defer tempDirsMu.Unlock()
	for _, dir := range tempDirs {
		os.RemoveAll(dir)
	}
	tempDirs = nil
}
