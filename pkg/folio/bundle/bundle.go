// Package bundle audits emitted JavaScript chunks against fixed size
// budgets and produces a report of the result.
//
// All sizes are whole kilobytes, rounded per file; totals are sums of the
// rounded values.
package bundle

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/gobwas/glob"

	"github.com/jamesainslie/folio/pkg/folio/types"
)

// Size budgets in KB. They are not configurable.
const (
	// MainLimitKB bounds any file whose name contains "main".
	MainLimitKB int64 = 250

	// ChunkLimitKB is the recommended bound for every other file.
	ChunkLimitKB int64 = 150

	// TotalLimitKB bounds the sum of all files.
	TotalLimitKB int64 = 500

	// WarningRatio of TotalLimitKB triggers a total-size warning.
	WarningRatio = 0.9

	// LargeFileKB is the file size above which splitting is recommended.
	LargeFileKB int64 = 50

	// LargeTotalKB is the total above which lazy loading is recommended.
	LargeTotalKB int64 = 300
)

// mainMarker identifies the entry bundle by file name.
const mainMarker = "main"

// ErrOutputMissing is returned when the build output directory does not
// exist or is not a directory.
var ErrOutputMissing = errors.New("build output directory not found")

// chunkPattern selects emitted script files.
var chunkPattern = glob.MustCompile("*.js", '/')

// Artifact is one emitted script file.
type Artifact struct {
	Name string `json:"name" yaml:"name"`

	// Size is the file size in KB, rounded.
	Size int64 `json:"size" yaml:"size"`

	Path string `json:"path" yaml:"path"`
}

// IsMain reports whether the artifact is an entry bundle.
func (a Artifact) IsMain() bool {
	return strings.Contains(a.Name, mainMarker)
}

// Collect lists the *.js files directly inside dir, ordered by name.
// Subdirectories are not descended into.
func Collect(dir string) ([]Artifact, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrOutputMissing, dir)
		}
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrOutputMissing, dir)
	}

	root := filepath.Clean(dir)
	conf := fastwalk.Config{Follow: false}

	var (
		mu        sync.Mutex
		artifacts []Artifact
	)

	err = fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == root {
			return nil
		}
		if d.IsDir() {
			return fastwalk.SkipDir
		}
		if !chunkPattern.Match(d.Name()) {
			return nil
		}

		// Symlinked chunks count at the size of their target.
		fi, err := fastwalk.StatDirEntry(path, d)
		if err != nil {
			if d.Type()&fs.ModeSymlink != 0 && errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if !fi.Mode().IsRegular() {
			return nil
		}

		mu.Lock()
		artifacts = append(artifacts, Artifact{
			Name: d.Name(),
			Size: types.ToKB(fi.Size()),
			Path: path,
		})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].Name < artifacts[j].Name
	})
	return artifacts, nil
}

// TotalKB sums the rounded artifact sizes.
func TotalKB(artifacts []Artifact) int64 {
	var total int64
	for _, a := range artifacts {
		total += a.Size
	}
	return total
}

// BySize returns a copy of artifacts ordered by size descending, ties
// broken by name.
func BySize(artifacts []Artifact) []Artifact {
	out := append([]Artifact(nil), artifacts...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Size != out[j].Size {
			return out[i].Size > out[j].Size
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Main returns the largest entry bundle, if any.
func Main(artifacts []Artifact) (Artifact, bool) {
	var (
		best  Artifact
		found bool
	)
	for _, a := range artifacts {
		if a.IsMain() && (!found || a.Size > best.Size) {
			best, found = a, true
		}
	}
	return best, found
}
