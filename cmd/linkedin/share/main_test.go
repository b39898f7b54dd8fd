package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-crosspost/cmd/internal/bootstrap"
	"github.com/goliatone/go-crosspost/internal/di"
	"github.com/goliatone/go-crosspost/internal/posts"
	"github.com/goliatone/go-crosspost/internal/runtimeconfig"
)

type stubDiff struct {
	files []string
}

func (s stubDiff) AddedFiles(context.Context, string) ([]string, error) {
	return s.files, nil
}

func swapBuilder(t *testing.T, out *bytes.Buffer, files ...string) {
	t.Helper()
	original := moduleBuilder
	t.Cleanup(func() { moduleBuilder = original })

	fsys := fstest.MapFS{
		"site/content/posts/azure-review.md": {Data: []byte("---\ntitle: Azure Review\ntags: [azure, review]\n---\n\nA thorough look at what changed in Azure this quarter and why.\n")},
	}
	moduleBuilder = func(opts bootstrap.Options) (*bootstrap.Module, error) {
		opts.Lookup = func(string) (string, bool) { return "", false }
		opts.DIOptions = append(opts.DIOptions,
			di.WithFS(fsys),
			di.WithDiffSource(stubDiff{files: files}),
			di.WithOutput(out),
		)
		return bootstrap.BuildModule(opts)
	}
}

func TestRunShareDryRunPrintsPreview(t *testing.T) {
	var out bytes.Buffer
	swapBuilder(t, &out, "site/content/posts/azure-review.md")

	if err := runShare(context.Background(), []string{"-dry-run", "-log-level", "error"}); err != nil {
		t.Fatalf("runShare returned error: %v", err)
	}
	for _, want := range []string{"#azure #review", "https://azureviking.com/post/azure-review/"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunShareMissingCredentialsFails(t *testing.T) {
	var out bytes.Buffer
	swapBuilder(t, &out)

	err := runShare(context.Background(), []string{"-log-level", "error"})
	if !errors.Is(err, runtimeconfig.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestRunShareUnknownSlugFails(t *testing.T) {
	var out bytes.Buffer
	swapBuilder(t, &out)

	err := runShare(context.Background(), []string{"-dry-run", "-slug", "nope", "-log-level", "error"})
	if !errors.Is(err, posts.ErrPostNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRunShareNothingNewSucceeds(t *testing.T) {
	var out bytes.Buffer
	swapBuilder(t, &out)

	if err := runShare(context.Background(), []string{"-dry-run", "-log-level", "error"}); err != nil {
		t.Fatalf("expected no-op success, got %v", err)
	}
}
