package contract

import (
	"testing"
	"unicode/utf8"
)

// FuzzTruncatePath fuzzes TruncatePath with random paths and widths.
func FuzzTruncatePath(f *testing.F) {
	seeds := []struct {
		path  string
		width int
	}{
		{"main.go", 10},
		{"vendor/package/file.go", 8},
		{"", 0},
		{"very/long/path/to/file.txt", 4},
		{"目录/文件.go", 5},
	}
	for _, seed := range seeds {
		f.Add(seed.path, seed.width)
	}

	f.Fuzz(func(t *testing.T, path string, width int) {
		if !utf8.ValidString(path) {
			return
		}
		got := TruncatePath(path, width)
		if width > 3 && utf8.RuneCountInString(got) > width {
			t.Fatalf("TruncatePath(%q, %d) = %q is wider than %d", path, width, got, width)
		}
	})
}
