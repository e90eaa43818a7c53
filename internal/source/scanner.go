package source

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanDir walks an inputs directory and classifies every decodable file as
// assumptions or actuals. Files whose name contains "actual" (or that use a
// row format) are actuals; the rest are assumptions.
func ScanDir(dir string) ([]DiscoveredFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		format := FormatOf(path)
		if format == "" {
			return nil
		}
		name := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))

		files = append(files, DiscoveredFile{
			Path:   path,
			Name:   name,
			Format: format,
			Kind:   classify(name, format),
		})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

func classify(name string, format Format) Kind {
	if format == FormatJSONL || format == FormatCSV {
		return KindActuals
	}
	if strings.Contains(strings.ToLower(name), "actual") {
		return KindActuals
	}
	return KindAssumptions
}

// CountKind returns how many discovered files hold the given kind.
func CountKind(files []DiscoveredFile, kind Kind) int {
	n := 0
	for _, f := range files {
		if f.Kind == kind {
			n++
		}
	}
	return n
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
