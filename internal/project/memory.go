package project

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"slices"
	"sort"

	"github.com/huangsam/sloc/internal/contract"
	"github.com/huangsam/sloc/schema"
)

var (
	_ contract.Project       = &Memory{}
	_ contract.Fingerprinter = &Memory{}
)

// Memory is an in-memory project. Files are enumerated in sorted path order.
// A path mapped to ErrUnreadable fails on read, which lets callers exercise the skip path.
type Memory struct {
	identity   schema.ProjectIdentity
	files      map[string]string
	unreadable map[string]bool
	order      []string
}

// ErrUnreadable is returned when reading a file marked unreadable.
var ErrUnreadable = fmt.Errorf("file is unreadable: %w", fs.ErrPermission)

// NewMemory returns a project holding the given path to content map.
func NewMemory(identity schema.ProjectIdentity, files map[string]string) *Memory {
	m := &Memory{
		identity:   identity,
		files:      make(map[string]string, len(files)),
		unreadable: map[string]bool{},
	}
	for p, c := range files {
		m.files[p] = c
		m.order = append(m.order, p)
	}
	sort.Strings(m.order)
	return m
}

// MarkUnreadable makes reads of path fail with ErrUnreadable. The file is still enumerated.
func (m *Memory) MarkUnreadable(path string) {
	if _, ok := m.files[path]; !ok {
		m.files[path] = ""
		m.order = append(m.order, path)
		sort.Strings(m.order)
	}
	m.unreadable[path] = true
}

// Identity returns the project identity.
func (m *Memory) Identity() schema.ProjectIdentity {
	return m.identity
}

// Walk visits every file in sorted path order.
func (m *Memory) Walk(ctx context.Context, fn func(path string) error) error {
	for _, p := range slices.Clone(m.order) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

// ReadFile returns the content stored for path.
func (m *Memory) ReadFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.unreadable[path] {
		return "", fmt.Errorf("%s: %w", path, ErrUnreadable)
	}
	c, ok := m.files[path]
	if !ok {
		return "", fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	return c, nil
}

// TotalFileCount returns the number of files.
func (m *Memory) TotalFileCount(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(m.order), nil
}

// Fingerprint hashes every path and its content.
func (m *Memory) Fingerprint(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	h := sha256.New()
	for _, p := range m.order {
		h.Write([]byte(p))
		h.Write([]byte{0})
		h.Write([]byte(m.files[p]))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
