package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/goliatone/go-crosspost"
	"github.com/goliatone/go-crosspost/cmd/internal/bootstrap"
	"github.com/goliatone/go-crosspost/internal/runtimeconfig"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := runExport(ctx, os.Args[1:]); err != nil {
		log.Fatalf("linkedin export: %v", err)
	}
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("linkedin-export", flag.ContinueOnError)
	common := bootstrap.RegisterCommon(fs)
	outDir := fs.String("out", "", "Directory the domain JSON files are written to (overrides LINKEDIN_EXPORT_DIR)")
	domains := fs.String("domains", "", "Comma separated snapshot domains (defaults to MEMBER_SHARE_INFO,ALL_COMMENTS,ARTICLES)")
	apiVersion := fs.String("api-version", "", "Linkedin-Version header (overrides LINKEDIN_API_VERSION)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ConfigFile: *common.ConfigFile,
		Configure: func(cfg *runtimeconfig.Config) {
			common.Apply(fs, cfg)
			if bootstrap.IsSet(fs, "out") {
				cfg.LinkedIn.ExportDir = *outDir
			}
			if bootstrap.IsSet(fs, "api-version") {
				cfg.LinkedIn.APIVersion = *apiVersion
			}
		},
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Module.Close()

	if err := module.Module.ExportLinkedIn(ctx, crosspost.ExportLinkedInCommand{
		Domains: splitList(*domains),
	}); err != nil {
		return err
	}
	module.Logger.Info("linkedin.export.done", "dir", module.Module.Config().LinkedIn.ExportDir)
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
