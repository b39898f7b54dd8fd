package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/goliatone/go-crosspost"
	"github.com/goliatone/go-crosspost/cmd/internal/bootstrap"
	"github.com/goliatone/go-crosspost/internal/runtimeconfig"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := runShare(ctx, os.Args[1:]); err != nil {
		log.Fatalf("linkedin share: %v", err)
	}
}

func runShare(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("linkedin-share", flag.ContinueOnError)
	common := bootstrap.RegisterCommon(fs)
	slug := fs.String("slug", "", "Share this post instead of auto-detecting new ones (overrides POST_SLUG)")
	text := fs.String("text", "", "Custom post text (overrides CUSTOM_TEXT)")
	base := fs.String("base", "", "Git base revision for new post detection (overrides GIT_BASE_REF)")
	head := fs.String("head", "", "Git head revision for new post detection (overrides GIT_HEAD_REF)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ConfigFile: *common.ConfigFile,
		Configure: func(cfg *runtimeconfig.Config) {
			common.Apply(fs, cfg)
			if bootstrap.IsSet(fs, "slug") {
				cfg.Selection.Slug = *slug
			}
			if bootstrap.IsSet(fs, "text") {
				cfg.Selection.CustomText = *text
			}
			if bootstrap.IsSet(fs, "base") {
				cfg.Selection.BaseRef = *base
			}
			if bootstrap.IsSet(fs, "head") {
				cfg.Selection.HeadRef = *head
			}
		},
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Module.Close()

	cfg := module.Module.Config()
	if err := module.Module.ShareSocial(ctx, crosspost.ShareSocialCommand{
		Slug:       cfg.Selection.Slug,
		CustomText: cfg.Selection.CustomText,
		DryRun:     cfg.DryRun,
	}); err != nil {
		return err
	}
	module.Logger.Info("linkedin.share.done")
	return nil
}
