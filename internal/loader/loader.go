// Package loader reads files from disk into an upload batch.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"filechat/internal/domain"
)

// ErrNoFiles is returned when the given paths name no readable file.
var ErrNoFiles = errors.New("no files found")

// Load expands each path and reads the files it names. A path is a glob
// pattern, or taken literally when the pattern matches nothing; directories
// contribute their regular files in name order, without recursing. When
// extensions is non-empty, files from directories are kept only if their
// extension is listed.
func Load(paths []string, extensions []string) ([]domain.Upload, error) {
	var uploads []domain.Upload
	for _, p := range paths {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			files, err := expand(m, extensions)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				data, err := os.ReadFile(f)
				if err != nil {
					return nil, fmt.Errorf("read %s: %w", f, err)
				}
				uploads = append(uploads, domain.Upload{Name: filepath.Base(f), Data: data})
			}
		}
	}
	if len(uploads) == 0 {
		return nil, ErrNoFiles
	}
	return uploads, nil
}

func expand(path string, extensions []string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", path, err)
	}
	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !HasExtension(e.Name(), extensions) {
			continue
		}
		files = append(files, filepath.Join(path, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// HasExtension reports whether name ends in one of extensions, ignoring
// case. An empty list accepts every name.
func HasExtension(name string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
