package gitdiff

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path"
	"strings"
)

const (
	DefaultBase = "HEAD~1"
	DefaultHead = "HEAD"
)

// Runner executes git with the provided arguments inside dir and returns
// standard output.
type Runner func(ctx context.Context, dir string, args ...string) ([]byte, error)

// Source lists markdown files added between two revisions.
type Source struct {
	repoDir string
	base    string
	head    string
	run     Runner
}

// Option configures a Source.
type Option func(*Source)

// WithRevisions overrides the compared revisions.
func WithRevisions(base, head string) Option {
	return func(s *Source) {
		if trimmed := strings.TrimSpace(base); trimmed != "" {
			s.base = trimmed
		}
		if trimmed := strings.TrimSpace(head); trimmed != "" {
			s.head = trimmed
		}
	}
}

// WithRunner swaps the git executor.
func WithRunner(run Runner) Option {
	return func(s *Source) {
		if run != nil {
			s.run = run
		}
	}
}

// New constructs a Source for the repository at repoDir.
func New(repoDir string, opts ...Option) *Source {
	s := &Source{
		repoDir: repoDir,
		base:    DefaultBase,
		head:    DefaultHead,
		run:     execGit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddedFiles runs `git diff --name-only --diff-filter=A` limited to markdown
// files in dir. Paths are returned relative to the repository root.
func (s *Source) AddedFiles(ctx context.Context, dir string) ([]string, error) {
	pathspec := path.Join(strings.TrimSuffix(dir, "/"), "*.md")
	out, err := s.run(ctx, s.repoDir, "diff", "--name-only", "--diff-filter=A", s.base, s.head, "--", pathspec)
	if err != nil {
		return nil, fmt.Errorf("gitdiff %s..%s: %w", s.base, s.head, err)
	}

	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			files = append(files, trimmed)
		}
	}
	return files, nil
}

func execGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}
