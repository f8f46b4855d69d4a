package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrInputNotFound is returned when the input path does not exist.
var ErrInputNotFound = errors.New("input not found")

// Discover lists the files to process. A file input is returned as is,
// whatever its extension. A directory yields the entries whose extension
// matches exts case-insensitively, sorted by path; subdirectories are only
// entered when recursive is set.
func Discover(input string, exts []string, recursive bool) (files []string, isDir bool, err error) {
	info, err := os.Stat(input)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, fmt.Errorf("%w: %s", ErrInputNotFound, input)
		}
		return nil, false, fmt.Errorf("stat input: %w", err)
	}
	if !info.IsDir() {
		return []string{input}, false, nil
	}

	want := make(map[string]bool, len(exts))
	for _, e := range exts {
		want[strings.ToLower(e)] = true
	}
	err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != input && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		if want[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, true, fmt.Errorf("scan input dir: %w", err)
	}
	sort.Strings(files)
	return files, true, nil
}
