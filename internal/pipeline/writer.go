package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/favicongen/internal/hasher"
)

// WriteFile atomically replaces path with data: the bytes go to a temp
// file in the same directory which is then renamed over the target, so a
// failed run never leaves a half-written file under its final name.
// If path already holds identical content it is left untouched and
// unchanged is true.
func WriteFile(path string, data []byte) (hash string, unchanged bool, err error) {
	hash = hasher.ContentHash(data, hasher.Len)
	if existing, err := hasher.FileHash(path, hasher.Len); err == nil && existing == hash {
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() && info.Size() == int64(len(data)) {
			return hash, true, nil
		}
	}

	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return "", false, fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return "", false, err
	}
	if err = tmp.Close(); err != nil {
		return "", false, err
	}
	if err = os.Chmod(tmpPath, 0o644); err != nil {
		return "", false, err
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return "", false, err
	}
	return hash, false, nil
}

// GeneratedFile is a companion file written next to the icons.
type GeneratedFile struct {
	Filename  string
	Path      string
	Size      int64
	Hash      string
	Unchanged bool
}

// WriteCompanion writes a non-icon output such as index.html. A failure is
// reported as a *WriteError so callers map it like any asset write.
func WriteCompanion(path string, data []byte) (GeneratedFile, error) {
	name := filepath.Base(path)
	hash, unchanged, err := WriteFile(path, data)
	if err != nil {
		return GeneratedFile{}, &WriteError{Filename: name, Err: err}
	}
	return GeneratedFile{
		Filename:  name,
		Path:      path,
		Size:      int64(len(data)),
		Hash:      hash,
		Unchanged: unchanged,
	}, nil
}
