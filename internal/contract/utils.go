package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Share label constants.
const (
	DominantValue = "Dominant" // Dominant share
	MajorValue    = "Major"    // Major share
	MinorValue    = "Minor"    // Minor share
	TraceValue    = "Trace"    // Trace share
)

// Color variables for console output.
var (
	DominantColor = color.New(color.FgRed, color.Bold)     // DominantColor marks the language that owns most lines.
	MajorColor    = color.New(color.FgMagenta, color.Bold) // MajorColor marks a large but not dominant share.
	MinorColor    = color.New(color.FgYellow)              // MinorColor marks a visible share.
	TraceColor    = color.New(color.FgCyan)                // TraceColor marks a negligible share.
)

// GetPlainLabel returns a plain text label for a language's share of project lines,
// given as a percentage. This is the label used for CSV, JSON and table printing.
func GetPlainLabel(share float64) string {
	switch {
	case share >= 50:
		return DominantValue
	case share >= 20:
		return MajorValue
	case share >= 5:
		return MinorValue
	default:
		return TraceValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(share float64) string {
	text := GetPlainLabel(share)

	switch text {
	case DominantValue:
		return DominantColor.Sprint(text)
	case MajorValue:
		return MajorColor.Sprint(text)
	case MinorValue:
		return MinorColor.Sprint(text)
	default:
		return TraceColor.Sprint(text)
	}
}

// SelectOutputFile returns the file handle for output. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the metrics cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".sloc_cache.db"
	}
	return filepath.Join(homeDir, ".sloc_cache.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 so there is room for "..." and at least one character.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
