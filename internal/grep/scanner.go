package grep

import (
	"errors"
	"io"
	"io/fs"
	"iter"
	"os"
	"strings"

	"go.uber.org/zap"
)

// searchFile reads, classifies and searches a single file. Every failure is
// reported on stderr and ends processing of this file only.
func (s *Searcher) searchFile(path string, numFiles int) {
	content, ok, err := s.readFile(path)
	if err != nil {
		s.output.Errorf("%s: %v", path, describe(err))
		return
	}
	if !ok {
		return
	}

	text, isText := Classify(content, s.opts.DecodeBOM)
	s.logger.Debug("scanning file",
		zap.String("path", path),
		zap.Int("size", len(content)),
		zap.Bool("binary", !isText))

	if !isText {
		if s.matchers.Bytes.Match(content) {
			s.output.Binary(path)
		}
		return
	}

	s.searchFileText(text, path, numFiles)
}

// readFile returns the full content of path. ok is false when the file was
// skipped by the size limit.
func (s *Searcher) readFile(path string) (content []byte, ok bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer func() {
		_ = f.Close()
	}()

	if s.opts.MaxFileSize > 0 {
		info, err := f.Stat()
		if err != nil {
			return nil, false, err
		}
		if info.Size() > s.opts.MaxFileSize {
			s.logger.Debug("skipping file over size limit",
				zap.String("path", path),
				zap.Int64("size", info.Size()),
				zap.Int64("max_filesize", s.opts.MaxFileSize))
			return nil, false, nil
		}
	}

	content, err = io.ReadAll(f)
	if err != nil {
		return nil, false, err
	}
	return content, true, nil
}

// searchFileText applies the whole-text gate before searching line by line.
func (s *Searcher) searchFileText(text, path string, numFiles int) {
	if s.gate(text) {
		s.searchText(text, path, numFiles)
		return
	}

	// No line can match.
	if !s.opts.InvertMatch {
		return
	}
	prefix := linePrefix(path, numFiles)
	for line := range lines(text) {
		s.output.Line(prefix, line)
	}
}

// gate reports whether any line of text might match.
func (s *Searcher) gate(text string) bool {
	// The multi-line matcher anchors $ before "\n" only, so a stripped "\r"
	// could hide a line match.
	if strings.IndexByte(text, '\r') != -1 {
		return true
	}
	return s.matchers.MayMatch(text)
}

// searchText runs the line matcher over every line of text.
func (s *Searcher) searchText(text, path string, numFiles int) {
	prefix := linePrefix(path, numFiles)
	for line := range lines(text) {
		s.matchLine(line, prefix)
	}
}

// matchLine writes line if it is selected under the current invert mode.
func (s *Searcher) matchLine(line, prefix string) {
	start, end, matched := s.matchers.MatchLine(line)
	if s.opts.InvertMatch {
		if !matched {
			s.output.Line(prefix, line)
		}
		return
	}
	if matched {
		s.output.Line(prefix, s.output.Highlight(line, start, end))
	}
}

// linePrefix returns the path to show before each line, or "" when only one
// file is being searched.
func linePrefix(path string, numFiles int) string {
	if numFiles > 1 {
		return path
	}
	return ""
}

// lines yields each line of text without its terminator. A "\r" directly
// before the "\n" is removed as well.
func lines(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range strings.Lines(text) {
			if trimmed, ok := strings.CutSuffix(line, "\n"); ok {
				line = strings.TrimSuffix(trimmed, "\r")
			}
			if !yield(line) {
				return
			}
		}
	}
}

// describe strips the operation and path from filesystem errors, since the
// path is already part of every message.
func describe(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}
