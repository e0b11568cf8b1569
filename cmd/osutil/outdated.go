package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/opensuse-tools/osutil/internal/common/config"
	"github.com/opensuse-tools/osutil/internal/common/httpclient"
	"github.com/opensuse-tools/osutil/internal/common/logger"
	"github.com/opensuse-tools/osutil/internal/common/output"
	"github.com/opensuse-tools/osutil/internal/common/version"
	"github.com/opensuse-tools/osutil/internal/obs"
	"github.com/opensuse-tools/osutil/internal/outdated"
	"github.com/opensuse-tools/osutil/internal/repology"
	"github.com/spf13/cobra"
)

// outdatedOptions holds the outdated command flags
type outdatedOptions struct {
	showNotFound bool
	showCurrent  bool
	jobs         int
	maintainer   string
	repository   string
	format       string
	noCache      bool
}

var outdatedOpts outdatedOptions

var outdatedCmd = &cobra.Command{
	Use:   "outdated",
	Short: "List maintained packages that are outdated in Tumbleweed",
	Long: `Fetch the packages you maintain on the build service and compare each one
against repology. Packages whose Tumbleweed version lags behind another
distribution are printed as "package: current -> newest".

Examples:
  osutil outdated                       List outdated packages
  osutil outdated -n                    Also list packages repology does not know
  osutil outdated --all -o table        Show every package in a table
  osutil outdated -u otheruser          Check another maintainer's packages
  osutil outdated -o json --no-cache    Machine readable, bypassing the cache`,
	Args: cobra.NoArgs,
	Run:  runOutdated,
}

func init() {
	f := outdatedCmd.Flags()
	f.BoolVarP(&outdatedOpts.showNotFound, "show-packages-not-found", "n", false, "Also list packages repology does not track in the repository")
	f.BoolVar(&outdatedOpts.showCurrent, "all", false, "Also list packages that are up to date")
	f.IntVarP(&outdatedOpts.jobs, "jobs", "j", outdated.DefaultJobs, "Number of concurrent repology lookups")
	f.StringVarP(&outdatedOpts.maintainer, "maintainer", "u", "", "Maintainer to check (default: configured username)")
	f.StringVar(&outdatedOpts.repository, "repository", "", "Repology repository to compare (default: opensuse_tumbleweed)")
	f.StringVarP(&outdatedOpts.format, "output", "o", outdated.FormatText, "Output format: "+strings.Join(outdated.Formats, ", "))
	f.BoolVar(&outdatedOpts.noCache, "no-cache", false, "Ignore cached repology responses")

	rootCmd.AddCommand(outdatedCmd)
}

func runOutdated(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := executeOutdated(ctx, outdatedOpts, cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
		logger.Error("%v", err)
		logger.Default().Close()
		os.Exit(1)
	}
}

// executeOutdated runs the outdated check. Configuration problems are
// reported before any network request is made.
func executeOutdated(ctx context.Context, opts outdatedOptions, stdout, stderr io.Writer) error {
	if opts.jobs < 1 {
		return fmt.Errorf("--jobs must be at least 1, got %d", opts.jobs)
	}
	if !slices.Contains(outdated.Formats, opts.format) {
		return fmt.Errorf("%w: %s (want one of %s)", outdated.ErrUnsupportedFormat, opts.format, strings.Join(outdated.Formats, ", "))
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger.Debug("loaded credentials for %s", cfg.Credentials)

	transport := httpclient.New()
	transport.SetHeader("User-Agent", version.UserAgent())

	buildService := obs.NewClient(cfg.Credentials,
		obs.WithBaseURL(cfg.APIURL),
		obs.WithHTTPClient(transport))

	repologyOpts := []repology.Option{
		repology.WithBaseURL(cfg.RepologyURL),
		repology.WithHTTPClient(transport),
	}
	if !opts.noCache {
		if cache, err := openCache(); err != nil {
			logger.Warn("repology cache disabled: %v", err)
		} else {
			repologyOpts = append(repologyOpts, repology.WithCache(cache))
		}
	}

	repository := cfg.Repository
	if opts.repository != "" {
		repository = opts.repository
	}
	maintainer := cfg.Username
	if opts.maintainer != "" {
		maintainer = opts.maintainer
	}

	checker := outdated.NewChecker(buildService, repology.NewClient(repologyOpts...),
		outdated.WithRepository(repository),
		outdated.WithJobs(opts.jobs))

	report, err := checker.Check(ctx, maintainer)
	if err != nil {
		return err
	}

	if err := outdated.Render(stdout, stderr, report, outdated.RenderOptions{
		Format:       opts.format,
		ShowNotFound: opts.showNotFound,
		ShowCurrent:  opts.showCurrent,
	}); err != nil {
		return err
	}

	logSummary(stderr, report)
	return nil
}

// openCache opens the repology cache and drops expired entries
func openCache() (*repology.Cache, error) {
	cache, err := loadCache()
	if err != nil {
		return nil, err
	}
	if removed, err := cache.Cleanup(); err != nil {
		logger.Warn("repology cache cleanup failed: %v", err)
	} else if removed > 0 {
		logger.Debug("dropped %d expired repology cache entries", removed)
	}
	return cache, nil
}

// logSummary writes the run summary to w unless quiet output was requested
func logSummary(w io.Writer, report *outdated.Report) {
	if logger.Default().Level() > logger.LevelInfo {
		return
	}

	outdatedCount := len(report.Outdated())
	if outdatedCount == 0 {
		output.PrintSuccess(w, "No outdated packages found")
	} else {
		output.PrintInfo(w, "%d of %d package(s) outdated", outdatedCount, len(report.Results))
	}
	if n := len(report.NotFound()); n > 0 {
		logger.Debug("%d package(s) not tracked in %s", n, report.Repository)
	}
	if errCount := len(report.Errors()); errCount > 0 {
		output.PrintWarning(w, "%d package(s) could not be checked", errCount)
	}
}
