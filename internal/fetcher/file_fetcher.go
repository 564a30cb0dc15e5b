package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const documentExt = ".json"

// FileFetcher implements Fetcher over a directory of saved documents
// Each document lives in <dir>/<ip>.json, e.g. data/documents/8.8.8.8.json
type FileFetcher struct {
	dir string
}

// NewFileFetcher creates a new file fetcher
//
// Parameters:
//   - dir: directory holding one <ip>.json document per IP
//
// Returns:
//   - *FileFetcher: pointer to the created fetcher
//   - error: if dir does not exist or is not a directory
func NewFileFetcher(dir string) (*FileFetcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open documents directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("documents path %s is not a directory", dir)
	}
	return &FileFetcher{dir: dir}, nil
}

// Name implements the Fetcher interface
func (f *FileFetcher) Name() string {
	return "file"
}

// Fetch implements the Fetcher interface
func (f *FileFetcher) Fetch(ctx context.Context, ip string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The IP becomes a file name, so it must not carry path elements
	if ip == "" || filepath.Base(ip) != ip || ip == "." || ip == ".." {
		return nil, fmt.Errorf("invalid document name %q", ip)
	}

	body, err := os.ReadFile(filepath.Join(f.dir, ip+documentExt))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return body, nil
}

// Each calls fn for every document in the directory, in name order
// Stops at the first error returned by fn
func (f *FileFetcher) Each(fn func(ip string, body []byte) error) error {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), documentExt) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		body, err := os.ReadFile(filepath.Join(f.dir, name))
		if err != nil {
			return fmt.Errorf("failed to read document %s: %w", name, err)
		}
		if err := fn(strings.TrimSuffix(name, documentExt), body); err != nil {
			return err
		}
	}
	return nil
}

// Close implements the Fetcher interface
// Nothing is held open between fetches
func (f *FileFetcher) Close() error {
	return nil
}
