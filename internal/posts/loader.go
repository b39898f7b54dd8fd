package posts

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-crosspost/internal/frontmatter"
)

// LoaderConfig configures where posts are discovered.
type LoaderConfig struct {
	// Dir is the posts directory relative to the filesystem root.
	Dir string
	// Pattern limits discovered files (defaults to "*.md").
	Pattern string
}

// Loader reads posts from a filesystem rooted at the content repository.
type Loader struct {
	fs      fs.FS
	dir     string
	pattern string
}

// NewLoader constructs a Loader for the provided filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := strings.TrimSpace(cfg.Pattern)
	if pattern == "" {
		pattern = "*.md"
	}
	dir := path.Clean(filePathToSlash(strings.TrimSpace(cfg.Dir)))
	return &Loader{
		fs:      filesystem,
		dir:     dir,
		pattern: pattern,
	}
}

// Dir returns the posts directory.
func (l *Loader) Dir() string {
	return l.dir
}

// Contains reports whether the slash separated path names a post file
// directly inside the posts directory.
func (l *Loader) Contains(filePath string) bool {
	clean := path.Clean(filePathToSlash(strings.TrimSpace(filePath)))
	if path.Dir(clean) != l.dir {
		return false
	}
	base := path.Base(clean)
	if strings.HasPrefix(base, "_") {
		return false
	}
	match, err := path.Match(l.pattern, base)
	return err == nil && match
}

// LoadFile reads and parses a single post.
func (l *Loader) LoadFile(ctx context.Context, filePath string) (*Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel := path.Clean(filePathToSlash(filePath))
	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("posts loader read %s: %w", rel, err)
	}

	record, body, err := frontmatter.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("posts loader parse %s: %w", rel, err)
	}

	sum := sha256.Sum256(data)
	return &Candidate{
		Path:        rel,
		Source:      data,
		Body:        body,
		FrontMatter: record,
		Slug:        ResolveSlug(rel, record),
		Checksum:    sum[:],
	}, nil
}

// LoadDirectory loads every post in the posts directory ordered by path.
// Sub-directories and files prefixed with "_" are ignored.
func (l *Loader) LoadDirectory(ctx context.Context) ([]*Candidate, error) {
	entries, err := fs.ReadDir(l.fs, l.dir)
	if err != nil {
		return nil, fmt.Errorf("posts loader list %s: %w", l.dir, err)
	}

	var results []*Candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		rel := path.Join(l.dir, entry.Name())
		if !l.Contains(rel) {
			continue
		}
		candidate, err := l.LoadFile(ctx, rel)
		if err != nil {
			return nil, err
		}
		results = append(results, candidate)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})
	return results, nil
}

// Exists reports whether the path is present in the filesystem.
func (l *Loader) Exists(filePath string) bool {
	_, err := fs.Stat(l.fs, path.Clean(filePathToSlash(filePath)))
	return err == nil
}
