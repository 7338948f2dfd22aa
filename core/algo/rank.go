// Package algo has ranking helpers used by core.
package algo

import (
	"slices"

	"github.com/huangsam/sloc/schema"
)

// RankBiggestFiles ranks files by total lines in descending order and returns the top
// 'limit' entries. Files with equal totals keep their input order. The input is not modified.
func RankBiggestFiles(files []schema.FileReport, limit int) []schema.BiggestFile {
	ranked := slices.Clone(files)
	slices.SortStableFunc(ranked, func(a, b schema.FileReport) int {
		return b.Stats.Total - a.Stats.Total
	})
	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	biggest := make([]schema.BiggestFile, len(ranked))
	for i, f := range ranked {
		biggest[i] = schema.BiggestFile{Path: f.Path, Lines: f.Stats.Total}
	}
	return biggest
}
