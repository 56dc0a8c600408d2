package grep

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// searchDir searches every regular file below dir. Unreadable directories are
// reported and skipped; only context cancellation ends the walk early.
func (s *Searcher) searchDir(ctx context.Context, dir string) error {
	// Track the directories on the current descent so that a symlink back to
	// an ancestor is detected instead of recursed into forever.
	key := canonicalPath(dir)
	if s.ancestors[key] {
		s.output.Warningf("%s: recursive directory loop", dir)
		return nil
	}
	s.ancestors[key] = true
	defer delete(s.ancestors, key)

	entries, err := os.ReadDir(dir)
	if err != nil {
		s.output.Errorf("%s: %v", dir, describe(err))
		return nil
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(dir, entry.Name())
		mode := entry.Type()

		if mode&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				s.output.Errorf("%s: %v", path, describe(err))
				continue
			}
			if info.IsDir() && !s.opts.FollowSymlinks {
				s.logger.Debug("skipping symlinked directory", zap.String("path", path))
				continue
			}
			mode = info.Mode().Type()
		}

		switch {
		case mode.IsDir():
			if err := s.searchDir(ctx, path); err != nil {
				return err
			}
		case mode.IsRegular():
			if !s.selected(entry.Name()) {
				s.logger.Debug("skipping filtered file", zap.String("path", path))
				continue
			}
			s.searchFile(path, recursiveFileCount)
		default:
			s.logger.Debug("skipping special file",
				zap.String("path", path),
				zap.Stringer("mode", mode))
		}
	}

	return nil
}

// selected reports whether a file name passes the include and exclude globs.
func (s *Searcher) selected(name string) bool {
	if len(s.opts.Includes) > 0 && !matchAny(s.opts.Includes, name) {
		return false
	}
	return !matchAny(s.opts.Excludes, name)
}

func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		// Patterns were validated before the search started.
		if matched, _ := doublestar.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

// canonicalPath resolves symlinks and makes path absolute. It falls back to
// the cleaned path when resolution fails.
func canonicalPath(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return filepath.Clean(path)
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return resolved
	}
	return abs
}
