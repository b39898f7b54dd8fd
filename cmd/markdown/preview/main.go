package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/goliatone/go-crosspost/cmd/internal/bootstrap"
	"github.com/goliatone/go-crosspost/internal/compose"
	"github.com/goliatone/go-crosspost/internal/excerpt"
	"github.com/goliatone/go-crosspost/internal/markdown"
	"github.com/goliatone/go-crosspost/internal/posts"
	"github.com/goliatone/go-crosspost/internal/runtimeconfig"
)

var (
	configLoader = bootstrap.LoadConfig
	openRepo     = func(dir string) fs.FS { return os.DirFS(dir) }
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := runPreview(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("markdown preview: %v", err)
	}
}

func runPreview(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("markdown-preview", flag.ContinueOnError)
	common := bootstrap.RegisterCommon(fs)
	filePath := fs.String("file", "", "Post file to preview, relative to the repository root")
	renderHTML := fs.Bool("render-html", false, "Render the post body into HTML as part of the preview")
	safe := fs.Bool("safe", false, "Omit raw HTML from the rendered body")
	hardWraps := fs.Bool("hard-wraps", false, "Render soft line breaks as <br>")
	extensions := fs.String("extensions", "", "Comma separated goldmark extensions (default gfm,linkify,tasklist)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*filePath) == "" {
		return errors.New("-file is required")
	}

	cfg, err := configLoader(bootstrap.Options{
		ConfigFile: *common.ConfigFile,
		Configure: func(cfg *runtimeconfig.Config) {
			common.Apply(fs, cfg)
		},
	})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	loader := posts.NewLoader(openRepo(cfg.Site.RepoDir), posts.LoaderConfig{Dir: cfg.Site.PostsDir})
	candidate, err := loader.LoadFile(ctx, *filePath)
	if err != nil {
		return err
	}

	record := candidate.FrontMatter
	title := strings.TrimSpace(record.String("title"))
	if title == "" {
		title = compose.DefaultTitle
	}
	tags := record.Strings("tags")
	description := record.String("description")
	url := compose.ArticleURL(cfg.Site.URL, candidate.Slug)
	body := string(candidate.Body)

	socialExcerpt := excerpt.Extract(body, excerpt.Options{Budget: cfg.Excerpt.SocialBudget, MinLength: cfg.Excerpt.MinLength})
	newsletterExcerpt := excerpt.Extract(body, excerpt.Options{Budget: cfg.Excerpt.NewsletterBudget, MinLength: cfg.Excerpt.MinLength})

	text, source := compose.SocialText("", record, func() string {
		return compose.SocialPost(compose.SocialInput{
			Title:       title,
			Description: description,
			Tags:        tags,
			Excerpt:     socialExcerpt,
			URL:         url,
		})
	})
	fields := compose.Newsletter(record.String("title"), candidate.Slug, url, newsletterExcerpt, description)

	fmt.Fprintf(out, "Path: %s\nSlug: %s\nChecksum: %x\n\n", candidate.Path, candidate.Slug, candidate.Checksum)

	if raw := record.Raw(); len(raw) > 0 {
		header, err := json.MarshalIndent(raw, "", "  ")
		if err != nil {
			return fmt.Errorf("encode frontmatter: %w", err)
		}
		fmt.Fprintf(out, "Frontmatter:\n%s\n\n", header)
	}

	fmt.Fprintf(out, "Category: %s\n", compose.DetectCategory(title, tags))
	fmt.Fprintf(out, "Excerpt: %s\n\n", socialExcerpt)
	fmt.Fprintf(out, "--- LinkedIn Post (%s) ---\n%s\n\n", source, text)
	fmt.Fprintf(out, "--- Newsletter Fields ---\nTitle: %s\nURL: %s\nExcerpt: %s\n", fields.Title, fields.URL, fields.Excerpt)

	if *renderHTML {
		html, err := markdown.Render(candidate.Body, markdown.Options{
			Extensions: strings.Split(*extensions, ","),
			HardWraps:  *hardWraps,
			SafeMode:   *safe,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nRendered HTML:\n%s\n", html)
	}
	return nil
}
