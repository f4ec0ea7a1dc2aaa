package nodelist

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ErrFileNotFound indicates that no nodelist file matched the requested
// basename in the configured directory.
var ErrFileNotFound = errors.New("nodelist file not found")

// suffixPattern matches the three-digit day-of-year suffix of a published
// nodelist filename, e.g. "nodelist.365".
var suffixPattern = regexp.MustCompile(`\.(\d{3})$`)

// SelectFile returns the name of the nodelist file to load from dir.
//
// When exact is true, name is returned unchanged; a missing file is
// detected downstream when the loader opens it. Otherwise the directory
// is scanned for entries matching `<name>.` plus exactly three digits
// (case-insensitive) and the highest suffix wins. Zero-padded day-of-year
// suffixes sort the same lexicographically and numerically, so a plain
// descending string sort picks the most recent publication.
func SelectFile(dir, name string, exact bool) (string, error) {
	if exact {
		return name, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read nodelist directory %s: %w", dir, err)
	}

	pattern, err := regexp.Compile(`(?i)^` + regexp.QuoteMeta(name) + `\.\d{3}$`)
	if err != nil {
		return "", fmt.Errorf("bad nodelist basename %q: %w", name, err)
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if pattern.MatchString(entry.Name()) {
			candidates = append(candidates, entry.Name())
		}
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: %s in %s", ErrFileNotFound, name, dir)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(candidates)))

	if len(candidates) > 1 {
		slog.Info("multiple nodelist candidates, using most recent",
			"selected", candidates[0],
			"others", strings.Join(candidates[1:], ", "),
		)
	}

	return candidates[0], nil
}

// FileDescriptor identifies a nodelist's publication date, stamped onto
// every row loaded from the file.
type FileDescriptor struct {
	Year    int
	YearDay int
}

// DescribeFile derives a FileDescriptor for the file at path. YearDay
// comes from the three-digit filename suffix (0 when the name has none,
// as with exact-named files); Year comes from the file's modification
// time unless yearOverride is positive.
func DescribeFile(path string, yearOverride int) (FileDescriptor, error) {
	var desc FileDescriptor

	if m := suffixPattern.FindStringSubmatch(filepath.Base(path)); m != nil {
		day, err := strconv.Atoi(m[1])
		if err != nil {
			return desc, fmt.Errorf("bad day-of-year suffix on %s: %w", path, err)
		}
		desc.YearDay = day
	}

	if yearOverride > 0 {
		desc.Year = yearOverride
		return desc, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return desc, fmt.Errorf("stat nodelist file: %w", err)
	}
	desc.Year = info.ModTime().Year()
	return desc, nil
}
