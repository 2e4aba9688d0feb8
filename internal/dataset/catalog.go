// Package dataset discovers pairs files, turns a loaded edge list into an
// immutable snapshot of every derived view, and tracks the selected one.
package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/Skufu/ddimatrix/internal/edges"
)

var ErrNoDataDir = errors.New("data directory does not exist")

// File is a candidate input found in the data directory.
type File struct {
	Name    string     `json:"name"`
	Path    string     `json:"-"`
	Kind    edges.Kind `json:"kind"`
	Size    int64      `json:"size"`
	ModTime time.Time  `json:"modTime"`
}

// Workbooks come before CSV exports.
var patterns = []string{"*_matrix.xlsx", "*_pairs.csv"}

// Discover lists the pairs files in dir. Matrix workbooks are listed first,
// then CSV exports; each group is ordered newest first, so the head of the
// list is the default selection.
func Discover(dir string) ([]File, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		return nil, fmt.Errorf("%w: %s", ErrNoDataDir, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}

	files := []File{}
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}

		group := make([]File, 0, len(matches))
		for _, path := range matches {
			st, err := os.Stat(path)
			if err != nil || st.IsDir() {
				continue
			}
			kind, err := edges.KindFromName(path)
			if err != nil {
				continue
			}
			group = append(group, File{
				Name:    filepath.Base(path),
				Path:    path,
				Kind:    kind,
				Size:    st.Size(),
				ModTime: st.ModTime(),
			})
		}
		slices.SortStableFunc(group, func(a, b File) int {
			return b.ModTime.Compare(a.ModTime)
		})
		files = append(files, group...)
	}
	return files, nil
}

// Find looks a file up by its base name.
func Find(files []File, name string) (File, bool) {
	for _, f := range files {
		if f.Name == name {
			return f, true
		}
	}
	return File{}, false
}
