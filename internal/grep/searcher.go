// Package grep searches text, files and directory trees for lines matching a
// regular expression.
package grep

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// recursiveFileCount is the file-count context given to every file found by
// walking a directory, so that its lines are always path-prefixed.
const recursiveFileCount = 2

// Searcher orchestrates a single search run.
type Searcher struct {
	output *Output
	logger *zap.Logger

	opts      *Options
	matchers  *Matchers
	ancestors map[string]bool
}

// New creates a new Searcher. A nil logger disables diagnostics.
func New(stdout, stderr io.Writer, colorize, hyperlinks bool, logger *zap.Logger) *Searcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Searcher{
		output: NewOutput(stdout, stderr, colorize, hyperlinks),
		logger: logger,
	}
}

// Search executes the search based on the provided options.
//
// Only an invalid pattern or glob, or a path argument that cannot be stat'ed,
// produces an error. Problems with individual files are reported on stderr
// and the search continues.
func (s *Searcher) Search(ctx context.Context, opts *Options) error {
	matchers, err := Compile(opts.Pattern, opts.IgnoreCase)
	if err != nil {
		return err
	}
	if err := validateGlobs(opts.Includes, opts.Excludes); err != nil {
		return err
	}

	s.opts = opts
	s.matchers = matchers
	s.ancestors = make(map[string]bool)

	s.logger.Debug("search options",
		zap.String("pattern", opts.Pattern),
		zap.Strings("paths", opts.Paths),
		zap.Bool("stdin", opts.Text != nil),
		zap.Bool("recursive", opts.Recursive),
		zap.Bool("ignore_case", opts.IgnoreCase),
		zap.Bool("invert_match", opts.InvertMatch),
		zap.Strings("includes", opts.Includes),
		zap.Strings("excludes", opts.Excludes),
		zap.Int64("max_filesize", opts.MaxFileSize),
		zap.Bool("follow_symlinks", opts.FollowSymlinks))

	if len(opts.Paths) == 0 {
		if opts.Text != nil {
			s.searchText(*opts.Text, "", 1)
		}
		return nil
	}

	numFiles := len(opts.Paths)
	for _, path := range opts.Paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		info, err := os.Stat(path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			if !opts.Recursive {
				s.output.Errorf("%s: is a directory", path)
				continue
			}
			if err := s.searchDir(ctx, path); err != nil {
				return err
			}
			continue
		}

		s.searchFile(path, numFiles)
	}

	return nil
}

func validateGlobs(includes, excludes []string) error {
	for _, p := range includes {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid include pattern %q", p)
		}
	}
	for _, p := range excludes {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	return nil
}
