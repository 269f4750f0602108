package doctor

import (
	"time"

	"github.com/thoreinstein/syncmcp/internal/platform"
)

// Check is a single diagnostic. Run never fails; problems are reported
// through the result's status.
type Check interface {
	Name() string
	Category() string
	Run() *CheckResult
}

// Runner runs checks in registration order.
type Runner struct {
	checks []Check
	now    func() time.Time
}

func NewRunner(checks ...Check) *Runner {
	return &Runner{checks: checks, now: time.Now}
}

func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

func (r *Runner) Checks() []Check {
	return r.checks
}

// Run runs every check once and tallies the outcome.
func (r *Runner) Run() *Report {
	report := &Report{StartedAt: r.now().UTC()}
	for _, c := range r.checks {
		res := c.Run()
		report.Results = append(report.Results, res)
		report.Summary.add(res.Status)
	}
	if report.Results == nil {
		report.Results = []*CheckResult{}
	}
	return report
}

// Report is the outcome of one doctor run.
type Report struct {
	StartedAt time.Time      `json:"started_at"`
	Results   []*CheckResult `json:"results"`
	Summary   Summary        `json:"summary"`
}

func (r *Report) HasErrors() bool   { return r.Summary.Errors > 0 }
func (r *Report) HasWarnings() bool { return r.Summary.Warnings > 0 }

// Environment is what the standard checks inspect.
type Environment struct {
	Locator  platform.Locator
	Registry *platform.Registry

	// Dirs are sync-mcp's own directories, such as the backup root. Missing
	// directories are skipped.
	Dirs []string

	// LookPath resolves server commands. Nil skips the PATH check.
	LookPath func(string) (string, error)
}

// DefaultChecks returns the standard checks in the order they should run.
func DefaultChecks(env Environment) []Check {
	if env.Registry == nil {
		env.Registry = platform.DefaultRegistry()
	}
	return []Check{
		NewToolCheck(env.Locator),
		NewConfigSyntaxCheck(env.Locator, env.Registry),
		NewServerCheck(env.Locator, env.Registry, env.LookPath),
		NewPathPermissionCheck(env.Locator, env.Registry, env.Dirs...),
	}
}
