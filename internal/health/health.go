// Package health runs the diagnostics behind "occtl doctor".
package health

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ariel-frischer/occtl/internal/git"
	"github.com/ariel-frischer/occtl/internal/opencode"
	"github.com/ariel-frischer/occtl/internal/provider"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	Advice  []string
	// Optional checks are reported but do not fail the report.
	Optional bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Inputs carries everything the checks inspect.
type Inputs struct {
	// Cmd is the configured assistant command.
	Cmd string
	// ProjectRoot is searched for opencode.json.
	ProjectRoot string
	// ConfigErr is the result of loading and validating the configuration.
	ConfigErr error

	// ProviderName is the configured provider setting (e.g. "auto").
	ProviderName string
	// Selected is the provider chosen for ProviderName, nil when SelectErr is set.
	Selected  provider.Provider
	SelectErr error

	// Descriptors are checked one by one with Options.
	Descriptors []provider.Descriptor
	Options     provider.Options

	Detector opencode.Detector
	LookPath func(string) (string, error)
	// GitOpener reads the project's repository; nil uses go-git on disk.
	GitOpener git.Opener
}

func (in Inputs) lookPath(bin string) (string, error) {
	if in.LookPath != nil {
		return in.LookPath(bin)
	}
	return exec.LookPath(bin)
}

// RunHealthChecks runs all health checks and returns a report
func RunHealthChecks(ctx context.Context, in Inputs) *HealthReport {
	report := &HealthReport{Passed: true}
	add := func(c CheckResult) {
		report.Checks = append(report.Checks, c)
		if !c.Passed && !c.Optional {
			report.Passed = false
		}
	}

	add(CheckOpencode(ctx, in))
	add(CheckGit(in))
	add(CheckConfig(in))
	add(CheckProjectSettings(in))
	add(CheckSelection(in))
	for _, c := range CheckProviders(ctx, in) {
		add(c)
	}
	return report
}

// Failed returns the names of the required checks that did not pass.
func (r *HealthReport) Failed() []string {
	var names []string
	for _, c := range r.Checks {
		if !c.Passed && !c.Optional {
			names = append(names, c.Name)
		}
	}
	return names
}

// CheckOpencode checks that the configured command resolves to an executable.
func CheckOpencode(ctx context.Context, in Inputs) CheckResult {
	detector := in.Detector
	if detector.LookPath == nil {
		detector.LookPath = in.LookPath
	}
	exe, err := detector.Detect(ctx, in.Cmd)
	if err != nil {
		return CheckResult{
			Name:    "opencode",
			Message: fmt.Sprintf("%q not found in PATH", in.Cmd),
			Advice: []string{
				"Install opencode: https://opencode.ai/docs",
				"Or point `cmd` at the executable in your occtl config",
			},
		}
	}
	msg := exe.Path
	if exe.Version != "" {
		msg += " (" + exe.Version + ")"
	}
	return CheckResult{Name: "opencode", Passed: true, Message: msg}
}

// CheckGit checks if Git is available. Root detection works without it.
func CheckGit(in Inputs) CheckResult {
	if _, err := in.lookPath("git"); err != nil {
		return CheckResult{
			Name:     "git",
			Message:  "git not found in PATH",
			Advice:   []string{"Project roots are read from the repository directly instead"},
			Optional: true,
		}
	}
	opener := in.GitOpener
	if opener == nil {
		opener = &git.DefaultOpener{}
	}
	state, err := git.CaptureState(opener, in.ProjectRoot)
	if err != nil {
		return CheckResult{Name: "git", Passed: true, Message: "git found"}
	}
	return CheckResult{
		Name:    "git",
		Passed:  true,
		Message: fmt.Sprintf("git found, %s on %s", state.Root, state.BranchName),
	}
}

// CheckConfig reports configuration load and validation errors.
func CheckConfig(in Inputs) CheckResult {
	if in.ConfigErr != nil {
		return CheckResult{
			Name:    "config",
			Message: in.ConfigErr.Error(),
			Advice:  []string{"Run 'occtl config' to see the effective configuration"},
		}
	}
	return CheckResult{Name: "config", Passed: true, Message: "configuration is valid"}
}

// CheckProjectSettings checks the project's opencode.json, when present.
func CheckProjectSettings(in Inputs) CheckResult {
	res := opencode.CheckInDir(in.ProjectRoot)
	return CheckResult{
		Name:     opencode.SettingsFileName,
		Passed:   res.Status != opencode.StatusInvalid,
		Message:  res.Message,
		Optional: res.Status == opencode.StatusMissing,
	}
}

// CheckSelection reports which provider the configuration selects.
func CheckSelection(in Inputs) CheckResult {
	configured := in.ProviderName
	if configured == "" {
		configured = "auto"
	}
	if in.SelectErr != nil || in.Selected == nil {
		msg := "no provider selected"
		if in.SelectErr != nil {
			msg = in.SelectErr.Error()
		}
		return CheckResult{Name: "provider", Message: msg, Advice: []string{"Set `provider` in your occtl config"}}
	}
	return CheckResult{
		Name:    "provider",
		Passed:  true,
		Message: fmt.Sprintf("%s (configured: %s) supports %s", in.Selected.Name(), configured, Capabilities(in.Selected)),
	}
}

// CheckProviders runs every provider's own health check. Only the selected
// provider is required to pass.
func CheckProviders(ctx context.Context, in Inputs) []CheckResult {
	selected := ""
	if in.Selected != nil {
		selected = in.Selected.Name()
	}

	results := make([]CheckResult, 0, len(in.Descriptors))
	for _, d := range in.Descriptors {
		name := "provider." + d.Name
		optional := d.Name != selected

		p, err := d.New(in.Options)
		if err != nil {
			results = append(results, CheckResult{Name: name, Message: err.Error(), Optional: optional})
			continue
		}
		hc, ok := p.(provider.HealthChecker)
		if !ok {
			results = append(results, CheckResult{Name: name, Passed: true, Message: "no health check", Optional: optional})
			continue
		}
		h := hc.Health(ctx)
		msg := "ok"
		if !h.OK {
			msg = h.Err
		}
		results = append(results, CheckResult{Name: name, Passed: h.OK, Message: msg, Advice: h.Advice, Optional: optional})
	}
	return results
}

// Capabilities lists the capabilities p supports, comma separated.
func Capabilities(p provider.Provider) string {
	var caps []string
	for _, c := range provider.Capabilities {
		if provider.Supports(p, c) {
			caps = append(caps, string(c))
		}
	}
	if len(caps) == 0 {
		return "nothing"
	}
	return strings.Join(caps, ", ")
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var b strings.Builder

	for _, check := range report.Checks {
		mark := "✓"
		switch {
		case !check.Passed && check.Optional:
			mark = "-"
		case !check.Passed:
			mark = "✗"
		}
		fmt.Fprintf(&b, "%s %s: %s\n", mark, check.Name, check.Message)
		for _, advice := range check.Advice {
			fmt.Fprintf(&b, "    → %s\n", advice)
		}
	}

	return b.String()
}
