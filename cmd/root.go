package cmd

import (
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"unicode"

	"github.com/cli/go-gh/v2/pkg/term"
	"github.com/jparise/rgrep/internal/config"
	"github.com/jparise/rgrep/internal/grep"
	"github.com/jparise/rgrep/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// colorMode represents when to use colored output.
type colorMode string

const (
	colorAuto   colorMode = "auto"
	colorAlways colorMode = "always"
	colorNever  colorMode = "never"
)

// String is used both by fmt.Print and by Cobra in help text.
func (c *colorMode) String() string {
	return string(*c)
}

// Set must have pointer receiver to validate and set the value.
func (c *colorMode) Set(v string) error {
	switch v {
	case "auto", "always", "never":
		*c = colorMode(v)
		return nil
	default:
		return fmt.Errorf("must be one of \"auto\", \"always\", or \"never\"")
	}
}

// Type is only used in help text.
func (c *colorMode) Type() string {
	return "colorMode"
}

var (
	version = "dev"

	// Flags.
	color       = colorAuto
	recursive   bool
	ignoreCase  bool
	invertMatch bool
	hyperlink   bool
	includes    []string
	excludes    []string
	maxFileSize string
	noFollow    bool
	decodeBOM   bool
	configPath  string
)

var rootCmd = &cobra.Command{
	Use:   "rgrep [flags] <pattern> [<file>...]",
	Short: "Search files for lines matching a regular expression",
	Long: `rgrep prints lines that match a regular expression.

<pattern> uses RE2 syntax (https://golang.org/s/re2syntax):
  abc            Literal text
  [a-z] \d \w    Character classes
  ^ $            Start and end of line
  * + ? {n,m}    Repetition
  a|b (...)      Alternation and grouping

With no <file> arguments, standard input is searched. Directories are
searched only with --recursive; files found that way are always shown
with their path.

Files that are not valid UTF-8 are searched as raw bytes and reported
as "binary file matches" instead of printing their lines. With --bom,
UTF-8 byte-order marks are stripped and files starting with a UTF-16
byte-order mark are decoded as text.

Defaults for most flags can be set in a YAML config file, located with
--config, $RGREP_CONFIG, or rgrep/config.yaml in the user config directory.
Set $RGREP_LOG=debug to print diagnostics to stderr.

Examples:
  rgrep foo notes.txt
  rgrep -i 'error|warn' app.log
  rgrep -v '^#' config.ini
  rgrep -r -g '*.go' 'func \w+Test' .
  rgrep -r --exclude '*.min.js' --max-filesize 1M TODO src
  dmesg | rgrep usb`,
	Version: version,
	Args:    cobra.MinimumNArgs(1),
	RunE:    run,

	// main reports returned errors.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().BoolVarP(&recursive, "recursive", "r", false,
		"search directories recursively")
	rootCmd.Flags().BoolVarP(&ignoreCase, "ignore-case", "i", false,
		"case-insensitive pattern matching")
	rootCmd.Flags().BoolVarP(&invertMatch, "invert-match", "v", false,
		"select non-matching lines")
	rootCmd.Flags().Var(&color, "color",
		"colorize output: auto, always, never")
	rootCmd.Flags().BoolVar(&hyperlink, "hyperlink", false,
		"render file paths as terminal hyperlinks")
	rootCmd.Flags().StringArrayVarP(&includes, "include", "g", []string{},
		"only search files whose name matches glob (can be specified multiple times)")
	rootCmd.Flags().StringArrayVar(&excludes, "exclude", []string{},
		"skip files whose name matches glob (can be specified multiple times)")
	rootCmd.Flags().StringVar(&maxFileSize, "max-filesize", "",
		"skip files larger than this size (e.g., 500k, 1M)")
	rootCmd.Flags().BoolVar(&noFollow, "no-follow", false,
		"do not follow symlinked directories when recursing")
	rootCmd.Flags().BoolVar(&decodeBOM, "bom", false,
		"honor UTF-8 and UTF-16 byte-order marks when reading files")
	rootCmd.Flags().StringVar(&configPath, "config", "",
		"path to config file")
}

func Execute() error {
	return rootCmd.Execute()
}

// applyConfig fills in flag values from cfg for every flag not set on the
// command line.
func applyConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if !flags.Changed("color") && cfg.Color != "" {
		if err := color.Set(cfg.Color); err != nil {
			return fmt.Errorf("invalid color %q in config: %w", cfg.Color, err)
		}
	}
	if !flags.Changed("hyperlink") {
		hyperlink = cfg.Hyperlink
	}
	if !flags.Changed("include") {
		includes = cfg.Includes
	}
	if !flags.Changed("exclude") {
		excludes = cfg.Excludes
	}
	if !flags.Changed("max-filesize") {
		maxFileSize = cfg.MaxFileSize
	}
	if !flags.Changed("no-follow") {
		noFollow = cfg.NoFollow
	}
	if !flags.Changed("bom") {
		decodeBOM = cfg.DecodeBOM
	}
	return nil
}

// parseByteSize parses a human-readable size string into bytes.
// Supports formats like "1M", "500k", "1.5G", "1024" (plain bytes).
// Units are case-insensitive and use binary (1024-based) multipliers.
func parseByteSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	// Find where the unit starts (last non-digit character)
	i := len(s) - 1
	for i >= 0 && !unicode.IsDigit(rune(s[i])) && s[i] != '.' {
		i--
	}

	numStr := s[:i+1]
	num, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", numStr, err)
	}
	if num < 0 {
		return 0, fmt.Errorf("size cannot be negative")
	}

	unit := strings.ToLower(strings.TrimSpace(s[i+1:]))
	var multiplier float64
	switch unit {
	case "", "b":
		multiplier = 1
	case "k", "kb", "kib":
		multiplier = 1024
	case "m", "mb", "mib":
		multiplier = 1024 * 1024
	case "g", "gb", "gib":
		multiplier = 1024 * 1024 * 1024
	case "t", "tb", "tib":
		multiplier = 1024 * 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unknown unit %q (supported: b, k, m, g, t)", unit)
	}

	result := num * multiplier
	if result > float64(math.MaxInt64) {
		return 0, fmt.Errorf("size too large (exceeds max int64)")
	}

	return int64(result), nil
}

// parseArgs splits command-line arguments into the pattern and the paths to
// search. args always holds at least the pattern.
func parseArgs(args []string) (pattern string, paths []string) {
	return args[0], args[1:]
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.Path(configPath))
	if err != nil {
		return err
	}
	if err := applyConfig(cmd.Flags(), cfg); err != nil {
		return err
	}

	logger := logging.New(logging.Options{
		Level:  logging.Level(cfg.LogLevel),
		File:   cfg.LogFile,
		Stderr: cmd.ErrOrStderr(),
	})
	defer func() {
		_ = logger.Sync()
	}()

	pattern, paths := parseArgs(args)

	var colorize bool
	switch color {
	case colorAlways:
		colorize = true
	case colorNever:
		colorize = false
	case colorAuto:
		terminal := term.FromEnv()
		colorize = terminal.IsColorEnabled()
	}

	var maxSizeBytes int64
	if maxFileSize != "" {
		size, err := parseByteSize(maxFileSize)
		if err != nil {
			return fmt.Errorf("invalid --max-filesize %q: %w", maxFileSize, err)
		}
		if size == 0 {
			return fmt.Errorf("--max-filesize must be greater than 0")
		}
		maxSizeBytes = size
	}

	// Build search options
	opts := &grep.Options{
		Pattern:        pattern,
		Paths:          paths,
		Recursive:      recursive,
		IgnoreCase:     ignoreCase,
		InvertMatch:    invertMatch,
		Includes:       includes,
		Excludes:       excludes,
		MaxFileSize:    maxSizeBytes,
		FollowSymlinks: !noFollow,
		DecodeBOM:      decodeBOM,
	}

	// Standard input is only read when there is nothing else to search.
	if len(paths) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read standard input: %w", err)
		}
		text := string(data)
		opts.Text = &text
	}

	s := grep.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), colorize, hyperlink, logger)
	return s.Search(ctx, opts)
}
