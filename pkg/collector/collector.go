// Package collector discovers input files under configured source roots.
//
// Collection is a read-only filesystem walk: every source root is walked
// recursively, regular files are matched by name against the source's glob
// patterns, and the union across all sources is returned as a sorted,
// duplicate-free path list. The sort makes downstream processing
// reproducible across runs and platforms.
//
// Discovery is best-effort per source. A missing or unreadable root
// contributes zero files instead of failing the run, so one bad entry in a
// multi-source configuration cannot abort the whole batch.
package collector

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/corral-io/corral/pkg/config"
	"github.com/corral-io/corral/pkg/logger"
)

// Collect walks every source root and returns the matching regular files
// as a lexicographically sorted, duplicate-free list of paths. Directories
// and symlinks are never returned. A pattern matches the file's base name,
// unless it contains a path separator, in which case it matches the path
// relative to the source root. A source with no patterns matches every file.
func Collect(sources []config.SourceSpec) []string {
	seen := make(map[string]struct{})

	for _, src := range sources {
		collectSource(src, seen)
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func collectSource(src config.SourceSpec, seen map[string]struct{}) {
	log := logger.With(zap.String("source", src.Path))

	info, err := os.Stat(src.Path)
	if err != nil {
		log.Debug("source root not accessible, skipping", zap.Error(err))
		return
	}
	if !info.IsDir() {
		log.Warn("source path is not a directory, skipping")
		return
	}

	patterns := src.Include
	if len(patterns) == 0 {
		patterns = []string{"*"}
	}

	matched := 0
	err = filepath.WalkDir(src.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree: skip it, keep walking the rest.
			log.Debug("skipping unreadable entry", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, relErr := filepath.Rel(src.Path, path)
		if relErr != nil {
			rel = path
		}
		if matchesAny(patterns, d.Name(), filepath.ToSlash(rel), log) {
			seen[path] = struct{}{}
			matched++
		}
		return nil
	})
	if err != nil {
		log.Warn("source walk aborted", zap.Error(err))
		return
	}

	log.Debug("source collected", zap.Int("files_matched", matched))
}

// matchesAny matches a pattern against the base name, or against the
// root-relative path when the pattern contains a path separator.
func matchesAny(patterns []string, name, rel string, log *zap.Logger) bool {
	for _, pattern := range patterns {
		target := name
		if strings.ContainsRune(pattern, '/') {
			target = rel
		}
		ok, err := filepath.Match(pattern, target)
		if err != nil {
			log.Warn("invalid include pattern, skipping", zap.String("pattern", pattern), zap.Error(err))
			continue
		}
		if ok {
			return true
		}
	}
	return false
}
