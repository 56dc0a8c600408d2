package grep

// Options contains all search parameters.
type Options struct {
	Pattern        string
	Text           *string  // Explicit text source (nil when Paths is set)
	Paths          []string // Files and directories to search
	Recursive      bool
	IgnoreCase     bool
	InvertMatch    bool
	Includes       []string // Basename globs a recursively found file must match
	Excludes       []string // Basename globs that skip a recursively found file
	MaxFileSize    int64    // Maximum file size in bytes (0 = no maximum)
	FollowSymlinks bool     // Follow symlinked directories while recursing
	DecodeBOM      bool     // Honor UTF-8 and UTF-16 byte-order marks when classifying files
}
