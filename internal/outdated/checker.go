// Package outdated decides which maintained packages lag behind other
// distributions according to repology.
package outdated

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	rpmutils "github.com/sassoftware/go-rpmutils"
	"github.com/sourcegraph/conc/pool"

	"github.com/opensuse-tools/osutil/internal/common/config"
	"github.com/opensuse-tools/osutil/internal/common/logger"
	"github.com/opensuse-tools/osutil/internal/obs"
	"github.com/opensuse-tools/osutil/internal/repology"
)

// DefaultJobs is the number of concurrent repology lookups
const DefaultJobs = 4

// UnknownVersion is reported when no repository carries a newest version
const UnknownVersion = "?"

// ErrListPackages is returned when the maintained package list cannot be fetched
var ErrListPackages = errors.New("unable to list maintained packages")

// Status classifies a package
type Status string

const (
	StatusOutdated Status = "outdated"
	StatusCurrent  Status = "current"
	StatusNotFound Status = "not-found"
	StatusError    Status = "error"
)

// PackageLister enumerates the packages a user maintains
type PackageLister interface {
	MaintainedPackages(ctx context.Context, userid string) ([]obs.Package, error)
}

// ProjectFetcher returns repology data for a project
type ProjectFetcher interface {
	Project(ctx context.Context, name string) ([]repology.Repo, error)
}

// Result is the outcome for a single package
type Result struct {
	Package        string `json:"package" yaml:"package"`
	Project        string `json:"project,omitempty" yaml:"project,omitempty"`
	Status         Status `json:"status" yaml:"status"`
	CurrentVersion string `json:"current_version,omitempty" yaml:"current_version,omitempty"`
	NewestVersion  string `json:"newest_version,omitempty" yaml:"newest_version,omitempty"`
	Error          string `json:"error,omitempty" yaml:"error,omitempty"`
	Err            error  `json:"-" yaml:"-"`
}

// Report is the outcome of a full check
type Report struct {
	Maintainer string    `json:"maintainer" yaml:"maintainer"`
	Repository string    `json:"repository" yaml:"repository"`
	CheckedAt  time.Time `json:"checked_at" yaml:"checked_at"`
	Results    []Result  `json:"results" yaml:"results"`
}

func (r *Report) filter(status Status) []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Status == status {
			out = append(out, res)
		}
	}
	return out
}

// Outdated returns the outdated results
func (r *Report) Outdated() []Result { return r.filter(StatusOutdated) }

// NotFound returns packages repology does not track for the repository
func (r *Report) NotFound() []Result { return r.filter(StatusNotFound) }

// Errors returns packages whose lookup failed
func (r *Report) Errors() []Result { return r.filter(StatusError) }

// Checker coordinates the build service and repology lookups
type Checker struct {
	packages   PackageLister
	projects   ProjectFetcher
	repository string
	jobs       int
	nowFunc    func() time.Time
}

// Option configures a Checker
type Option func(*Checker)

// WithRepository sets the repology repository to compare against
func WithRepository(repository string) Option {
	return func(c *Checker) {
		if repository != "" {
			c.repository = repository
		}
	}
}

// WithJobs bounds the number of concurrent repology lookups
func WithJobs(jobs int) Option {
	return func(c *Checker) {
		if jobs > 0 {
			c.jobs = jobs
		}
	}
}

// WithNowFunc sets the clock used for Report.CheckedAt
func WithNowFunc(fn func() time.Time) Option {
	return func(c *Checker) {
		c.nowFunc = fn
	}
}

// NewChecker creates a checker
func NewChecker(packages PackageLister, projects ProjectFetcher, opts ...Option) *Checker {
	c := &Checker{
		packages:   packages,
		projects:   projects,
		repository: config.DefaultRepository,
		jobs:       DefaultJobs,
		nowFunc:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check lists the packages maintainer maintains and classifies each one.
// A failed package listing aborts the check; failed repology lookups are
// recorded on their Result and do not affect other packages.
func (c *Checker) Check(ctx context.Context, maintainer string) (*Report, error) {
	packages, err := c.packages.MaintainedPackages(ctx, maintainer)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListPackages, err)
	}

	logger.Info("Checking %d package(s) maintained by %s against %s", len(packages), maintainer, c.repository)

	p := pool.NewWithResults[Result]().WithMaxGoroutines(c.jobs)
	for _, pkg := range packages {
		pkg := pkg
		p.Go(func() Result {
			return c.checkPackage(ctx, pkg)
		})
	}
	results := p.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Package < results[j].Package })

	return &Report{
		Maintainer: maintainer,
		Repository: c.repository,
		CheckedAt:  c.nowFunc(),
		Results:    results,
	}, nil
}

func (c *Checker) checkPackage(ctx context.Context, pkg obs.Package) Result {
	if err := ctx.Err(); err != nil {
		return errorResult(pkg, err)
	}

	logger.Debug("looking up %s", pkg.Name)
	repos, err := c.projects.Project(ctx, pkg.Name)
	if err != nil {
		return errorResult(pkg, err)
	}

	res := Classify(pkg.Name, repos, c.repository)
	res.Project = pkg.Project
	return res
}

func errorResult(pkg obs.Package, err error) Result {
	return Result{
		Package: pkg.Name,
		Project: pkg.Project,
		Status:  StatusError,
		Error:   err.Error(),
		Err:     err,
	}
}

// Classify compares the entry for repository against the other repos.
// The first entry for repository decides the status; when it is outdated
// the newest version comes from the other repos, see NewestVersion.
func Classify(name string, repos []repology.Repo, repository string) Result {
	res := Result{Package: name, Status: StatusNotFound}

	var target *repology.Repo
	for i := range repos {
		if repos[i].Repo == repository {
			target = &repos[i]
			break
		}
	}
	if target == nil {
		return res
	}

	res.CurrentVersion = target.Version
	if target.Status != repology.StatusOutdated {
		res.Status = StatusCurrent
		return res
	}

	res.Status = StatusOutdated
	res.NewestVersion = NewestVersion(repos, repository, target.Version)
	return res
}

// NewestVersion returns the version of the first repo outside repository
// marked newest. Without one, the highest devel or unique version by rpm
// ordering is used. UnknownVersion is returned when no candidate exists
// or the candidate does not sort above current.
func NewestVersion(repos []repology.Repo, repository, current string) string {
	newest := ""
	for _, r := range repos {
		if r.Repo != repository && r.Status == repology.StatusNewest && r.Version != "" {
			newest = r.Version
			break
		}
	}

	if newest == "" {
		for _, r := range repos {
			if r.Repo == repository || r.Version == "" {
				continue
			}
			if r.Status != repology.StatusDevel && r.Status != repology.StatusUnique {
				continue
			}
			if newest == "" || rpmutils.Vercmp(r.Version, newest) > 0 {
				newest = r.Version
			}
		}
	}

	if newest == "" || (current != "" && rpmutils.Vercmp(newest, current) <= 0) {
		return UnknownVersion
	}
	return newest
}
