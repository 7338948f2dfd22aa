// Package project provides the file trees sloc scans and the selection of files per language.
package project

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/huangsam/sloc/internal/contract"
	"github.com/huangsam/sloc/schema"
)

var (
	_ contract.Project       = &Local{}
	_ contract.Fingerprinter = &Local{}
)

// skippedDirs are never descended into.
var skippedDirs = map[string]bool{
	".git": true,
	".hg":  true,
	".svn": true,
}

// Local is a project rooted at a directory on disk.
type Local struct {
	root     string
	identity schema.ProjectIdentity
}

// NewLocal returns a project for the directory at root.
func NewLocal(root string, identity schema.ProjectIdentity) *Local {
	return &Local{root: filepath.Clean(root), identity: identity}
}

// Root returns the directory the project is rooted at.
func (l *Local) Root() string {
	return l.root
}

// Identity returns the project identity.
func (l *Local) Identity() schema.ProjectIdentity {
	return l.identity
}

// Walk visits every regular file below the root in lexical order.
func (l *Local) Walk(ctx context.Context, fn func(path string) error) error {
	return filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != l.root && skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(l.root, path)
		if err != nil {
			return err
		}
		return fn(filepath.ToSlash(rel))
	})
}

// ReadFile reads a file relative to the root.
func (l *Local) ReadFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(filepath.Join(l.root, filepath.FromSlash(path)))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// TotalFileCount counts all regular files below the root.
func (l *Local) TotalFileCount(ctx context.Context) (int, error) {
	n := 0
	err := l.Walk(ctx, func(string) error {
		n++
		return nil
	})
	return n, err
}

// Fingerprint hashes the path, size and modification time of every file.
func (l *Local) Fingerprint(ctx context.Context) (string, error) {
	h := sha256.New()
	h.Write([]byte(l.root))
	err := l.Walk(ctx, func(path string) error {
		info, err := os.Stat(filepath.Join(l.root, filepath.FromSlash(path)))
		if err != nil {
			return fmt.Errorf("fingerprinting %s: %w", path, err)
		}
		h.Write([]byte{0})
		h.Write([]byte(path))
		h.Write([]byte{0})
		h.Write([]byte(strconv.FormatInt(info.Size(), 10)))
		h.Write([]byte{0})
		h.Write([]byte(strconv.FormatInt(info.ModTime().UnixNano(), 10)))
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
