package assemble

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yourorg/zebra/internal/errs"
)

// Filter selects stripe files in a directory.
type Filter struct {
	// Extension without the dot; ignored when NoExtension is set or empty.
	Extension   string
	NoExtension bool
	// Name is the stripe prefix to match; empty matches any prefix unless NoName is set.
	Name   string
	NoName bool
}

func (f Filter) matchExt(name string) bool {
	ext := filepath.Ext(name)
	if f.NoExtension || f.Extension == "" {
		return ext == ""
	}
	return ext == "."+f.Extension
}

func (f Filter) matchName(name string) bool {
	stem := StemName(strings.TrimSuffix(name, filepath.Ext(name)))
	switch {
	case f.NoName:
		return stem == ""
	case f.Name == "":
		return true
	default:
		return stem == f.Name
	}
}

// Collect returns the full paths of regular files in dir accepted by f, in ascending string order.
// An empty result is not an error here.
func Collect(dir string, f Filter) ([]string, error) {
	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		return nil, fmt.Errorf("%w: %s", errs.ErrNotADirectory, dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrNotADirectory, dir)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if f.matchExt(e.Name()) && f.matchName(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(paths)
	return paths, nil
}

// StemName strips the trailing index from a stripe stem: "piece_003" -> "piece", "003" -> "".
func StemName(stem string) string {
	s := strings.TrimRight(stem, "0123456789")
	if s != stem {
		s = strings.TrimSuffix(s, "_")
	}
	return s
}
