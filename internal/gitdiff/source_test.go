package gitdiff

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestAddedFilesBuildsDiffCommand(t *testing.T) {
	var gotDir string
	var gotArgs []string
	src := New("/repo", WithRunner(func(_ context.Context, dir string, args ...string) ([]byte, error) {
		gotDir = dir
		gotArgs = args
		return []byte("site/content/posts/a.md\n\nsite/content/posts/b.md\n"), nil
	}))

	files, err := src.AddedFiles(context.Background(), "site/content/posts/")
	if err != nil {
		t.Fatalf("AddedFiles returned error: %v", err)
	}

	wantArgs := []string{"diff", "--name-only", "--diff-filter=A", "HEAD~1", "HEAD", "--", "site/content/posts/*.md"}
	if gotDir != "/repo" || !reflect.DeepEqual(gotArgs, wantArgs) {
		t.Fatalf("unexpected git invocation dir=%s args=%v", gotDir, gotArgs)
	}
	if !reflect.DeepEqual(files, []string{"site/content/posts/a.md", "site/content/posts/b.md"}) {
		t.Fatalf("unexpected files %v", files)
	}
}

func TestAddedFilesUsesCustomRevisions(t *testing.T) {
	var gotArgs []string
	src := New(".", WithRevisions("abc123", " "), WithRunner(func(_ context.Context, _ string, args ...string) ([]byte, error) {
		gotArgs = args
		return nil, nil
	}))

	files, err := src.AddedFiles(context.Background(), "posts")
	if err != nil {
		t.Fatalf("AddedFiles returned error: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no files, got %v", files)
	}
	if gotArgs[3] != "abc123" || gotArgs[4] != DefaultHead {
		t.Fatalf("expected abc123..HEAD, got %v", gotArgs)
	}
}

func TestAddedFilesWrapsRunnerError(t *testing.T) {
	src := New(".", WithRunner(func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("unknown revision")
	}))

	_, err := src.AddedFiles(context.Background(), "posts")
	if err == nil || !strings.Contains(err.Error(), "HEAD~1..HEAD") {
		t.Fatalf("expected wrapped revision error, got %v", err)
	}
}
