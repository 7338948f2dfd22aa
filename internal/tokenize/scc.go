package tokenize

import (
	"fmt"
	"sync"

	"github.com/boyter/scc/v3/processor"
	"github.com/huangsam/sloc/internal/contract"
	"github.com/huangsam/sloc/schema"
)

var sccInitOnce sync.Once

var _ contract.Tokenizer = &SCC{}

// SCC delegates line counting to scc's processor. scc reports one comment count, so every
// comment line is reported as single and Block is always zero.
type SCC struct{}

// NewSCC loads scc's language database once per process.
func NewSCC() *SCC {
	sccInitOnce.Do(func() {
		processor.ProcessConstants()
	})
	return &SCC{}
}

// Name returns the backend identifier.
func (s *SCC) Name() schema.TokenizerBackend {
	return schema.SCCTokenizer
}

// Supports reports whether scc detects a language for the extension.
func (s *SCC) Supports(ext string) bool {
	possible, _ := processor.DetectLanguage(fileName(ext))
	return len(possible) > 0
}

// Count runs scc's counter on content as if it were a file with the given extension.
func (s *SCC) Count(ext, content string) (schema.CodeStats, error) {
	name := fileName(ext)
	possible, _ := processor.DetectLanguage(name)
	if len(possible) == 0 {
		return schema.CodeStats{}, fmt.Errorf("scc tokenizer: %w: %q", schema.ErrUnknownExtension, ext)
	}

	job := &processor.FileJob{
		Filename:          name,
		Content:           []byte(content),
		Bytes:             int64(len(content)),
		PossibleLanguages: possible,
	}
	job.Language = processor.DetermineLanguage(job.Filename, job.Language, job.PossibleLanguages, job.Content)
	if job.Language == "" {
		return schema.CodeStats{}, fmt.Errorf("scc tokenizer: %w: %q", schema.ErrUnknownExtension, ext)
	}

	processor.CountStats(job)
	if job.Binary {
		return schema.CodeStats{}, nil
	}

	comment := int(job.Comment)
	return schema.CodeStats{
		Total:   int(job.Lines),
		Source:  int(job.Code),
		Comment: comment,
		Single:  comment,
	}, nil
}

func fileName(ext string) string {
	return "file." + normalizeExt(ext)
}
