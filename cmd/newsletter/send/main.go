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

	if err := runSend(ctx, os.Args[1:]); err != nil {
		log.Fatalf("newsletter send: %v", err)
	}
}

func runSend(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("newsletter-send", flag.ContinueOnError)
	common := bootstrap.RegisterCommon(fs)
	slug := fs.String("slug", "", "Announce this post instead of the newest one (overrides POST_SLUG)")
	base := fs.String("base", "", "Git base revision for new post detection (overrides GIT_BASE_REF)")
	head := fs.String("head", "", "Git head revision for new post detection (overrides GIT_HEAD_REF)")
	throttle := fs.Duration("throttle", 0, "Delay between EmailOctopus requests (overrides EMAILOCTOPUS_THROTTLE)")

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
			if bootstrap.IsSet(fs, "base") {
				cfg.Selection.BaseRef = *base
			}
			if bootstrap.IsSet(fs, "head") {
				cfg.Selection.HeadRef = *head
			}
			if bootstrap.IsSet(fs, "throttle") {
				cfg.Newsletter.Throttle = *throttle
			}
		},
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Module.Close()

	cfg := module.Module.Config()
	if err := module.Module.SendNewsletter(ctx, crosspost.SendNewsletterCommand{
		Slug:   cfg.Selection.Slug,
		DryRun: cfg.DryRun,
	}); err != nil {
		return err
	}
	module.Logger.Info("newsletter.send.done")
	return nil
}
