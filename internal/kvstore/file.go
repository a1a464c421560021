// SPDX-License-Identifier: MPL-2.0

package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// ErrCorruptDocument is returned by File.Get when the document on disk is not
// a JSON object of strings.
var ErrCorruptDocument = errors.New("corrupt storage document")

// File is a Store kept as a single JSON object on disk. Every Set rewrites the
// whole document through a temporary file and a rename.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile creates a File store at path. The file and its directory are created
// on the first Set.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the location of the JSON document.
func (f *File) Path() string { return f.path }

// Get returns the value stored under key. A missing document reads as empty.
func (f *File) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := doc[key]
	return v, ok, nil
}

// Set stores value under key. A corrupt document is replaced by a fresh one.
func (f *File) Set(ctx context.Context, key, value string) error {
	return f.update(ctx, func(doc map[string]string) { doc[key] = value })
}

// Delete removes key from the document.
func (f *File) Delete(ctx context.Context, key string) error {
	return f.update(ctx, func(doc map[string]string) { delete(doc, key) })
}

// Close is a no-op; the document is flushed on every write.
func (f *File) Close() error { return nil }

func (f *File) update(ctx context.Context, mutate func(map[string]string)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if errors.Is(err, ErrCorruptDocument) {
		doc = make(map[string]string)
	} else if err != nil {
		return err
	}
	mutate(doc)
	return f.write(doc)
}

// read must be called with mu held.
func (f *File) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage document: %w", err)
	}

	doc := make(map[string]string)
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptDocument, f.path, err)
	}
	if doc == nil {
		// A "null" document decodes without error into a nil map.
		doc = make(map[string]string)
	}
	return doc, nil
}

// write must be called with mu held.
func (f *File) write(doc map[string]string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage document: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".store-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temporary storage file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write storage document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write storage document: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace storage document: %w", err)
	}
	return nil
}
