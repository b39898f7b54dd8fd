package main

import (
	"bytes"
	"context"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-crosspost/cmd/internal/bootstrap"
	"github.com/goliatone/go-crosspost/internal/runtimeconfig"
)

const samplePost = `---
title: Azure Weekly Review
description: What changed this week.
tags: [azure, weekly-review]
---

# Heading

Azure shipped a lot of small but meaningful updates this week, here is the digest.
`

func swapDeps(t *testing.T) {
	t.Helper()
	originalLoader, originalRepo := configLoader, openRepo
	t.Cleanup(func() {
		configLoader = originalLoader
		openRepo = originalRepo
	})

	configLoader = func(opts bootstrap.Options) (runtimeconfig.Config, error) {
		opts.Lookup = func(string) (string, bool) { return "", false }
		return bootstrap.LoadConfig(opts)
	}
	openRepo = func(string) fs.FS {
		return fstest.MapFS{
			"site/content/posts/azure-weekly.md": {Data: []byte(samplePost)},
		}
	}
}

func TestRunPreviewPrintsComposedOutputs(t *testing.T) {
	swapDeps(t)
	var out bytes.Buffer

	err := runPreview(context.Background(), []string{"-file", "site/content/posts/azure-weekly.md"}, &out)
	if err != nil {
		t.Fatalf("runPreview returned error: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"Slug: azure-weekly",
		`"title": "Azure Weekly Review"`,
		"Excerpt: Azure shipped a lot",
		"#azure #weeklyreview",
		"https://azureviking.com/post/azure-weekly/",
		"--- Newsletter Fields ---",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Rendered HTML") {
		t.Fatalf("did not expect HTML without -render-html:\n%s", text)
	}
}

func TestRunPreviewRendersHTML(t *testing.T) {
	swapDeps(t)
	var out bytes.Buffer

	err := runPreview(context.Background(), []string{"-file", "site/content/posts/azure-weekly.md", "-render-html"}, &out)
	if err != nil {
		t.Fatalf("runPreview returned error: %v", err)
	}
	if !strings.Contains(out.String(), `<h1 id="heading">Heading</h1>`) {
		t.Fatalf("expected rendered heading:\n%s", out.String())
	}
}

func TestRunPreviewHardWraps(t *testing.T) {
	swapDeps(t)
	var out bytes.Buffer

	args := []string{"-file", "site/content/posts/azure-weekly.md", "-render-html", "-hard-wraps", "-extensions", "gfm,footnote"}
	if err := runPreview(context.Background(), args, &out); err != nil {
		t.Fatalf("runPreview returned error: %v", err)
	}
	if !strings.Contains(out.String(), "Rendered HTML") {
		t.Fatalf("expected rendered HTML:\n%s", out.String())
	}
}

func TestRunPreviewRequiresFile(t *testing.T) {
	swapDeps(t)
	if err := runPreview(context.Background(), nil, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error without -file")
	}
}

func TestRunPreviewMissingFile(t *testing.T) {
	swapDeps(t)
	err := runPreview(context.Background(), []string{"-file", "site/content/posts/missing.md"}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error for a missing post")
	}
}
