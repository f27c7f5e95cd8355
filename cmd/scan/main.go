// Command scan runs one resume scan locally and prints the result JSON.
//
//	go run ./cmd/scan --location Pune --experience 3 ./resume.pdf
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"findmyjob-backend/internal/bootstrap"
	"findmyjob-backend/internal/scans"
	"findmyjob-backend/internal/shared/config"
	"findmyjob-backend/internal/shared/telemetry"
)

const cliUserID = "cli"

type options struct {
	noSearch   bool
	location   string
	experience int
	pages      int
	logLevel   string
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := options{}
	defaults := config.Load().JobSearch

	cmd := &cobra.Command{
		Use:          "scan <resume-file>",
		Short:        "Extract skills from a resume, suggest job titles, and search job boards",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			restore := telemetry.SetOutput(cmd.ErrOrStderr())
			defer restore()
			return runScan(cmd.Context(), out, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.noSearch, "no-search", false, "skip the job board search")
	flags.StringVar(&opts.location, "location", defaults.Location, "job search location")
	flags.IntVar(&opts.experience, "experience", defaults.Experience, "years of experience filter (-1 disables it)")
	flags.IntVar(&opts.pages, "pages", defaults.Pages, "result pages to fetch per job board")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")
	return cmd
}

func runScan(ctx context.Context, out io.Writer, path string, opts options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.pages < 1 {
		return fmt.Errorf("--pages must be at least 1")
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	storeDir, err := os.MkdirTemp("", "findmyjob-scan-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(storeDir)

	app, err := bootstrap.Build(localConfig(config.Load(), storeDir, opts))
	if err != nil {
		return err
	}
	defer app.Close()

	scan, err := app.ScansService.Run(ctx, cliUserID, filepath.Base(path), f)
	if err != nil {
		return err
	}
	if scan.Status == scans.StatusFailed {
		return fmt.Errorf("scan failed: %s", scan.ErrorMessage)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(scan.Result)
}

// localConfig keeps every dependency in process: memory repositories, a
// temporary local object store, an in-memory cache and no queue.
func localConfig(cfg config.Config, storeDir string, opts options) config.Config {
	cfg.Env = "local"
	cfg.LogLevel = opts.logLevel
	cfg.DatabaseURL = ""
	cfg.RedisURL = ""
	cfg.QueueURL = ""
	cfg.ObjectStoreType = "local"
	cfg.LocalStoreDir = storeDir

	cfg.JobSearch.Location = opts.location
	cfg.JobSearch.Experience = opts.experience
	cfg.JobSearch.Pages = opts.pages
	if opts.noSearch {
		cfg.JobSearch.NaukriEnabled = false
		cfg.JobSearch.AdzunaAppID = ""
		cfg.JobSearch.AdzunaAppKey = ""
	}
	return cfg
}
