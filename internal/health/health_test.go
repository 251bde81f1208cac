package health

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ariel-frischer/occtl/internal/git"
	"github.com/ariel-frischer/occtl/internal/opencode"
	"github.com/ariel-frischer/occtl/internal/provider"
	"github.com/ariel-frischer/occtl/internal/provider/providertest"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	provider.Base
	health provider.Health
}

func (s *stubProvider) Toggle(context.Context) error           { return nil }
func (s *stubProvider) Health(context.Context) provider.Health { return s.health }

func descriptor(name string, h provider.Health) provider.Descriptor {
	return provider.Descriptor{Name: name, New: func(o provider.Options) (provider.Provider, error) {
		return &stubProvider{Base: provider.NewBase(name, o), health: h}, nil
	}}
}

func baseInputs(t *testing.T) Inputs {
	t.Helper()
	descriptors := []provider.Descriptor{
		descriptor("tmux", provider.Healthy()),
		descriptor("kitty", provider.Unhealthy("KITTY_LISTEN_ON is not set", "Enable remote control")),
	}
	selected, err := descriptors[0].New(provider.Options{Cmd: "opencode"})
	require.NoError(t, err)

	lookPath := providertest.LookPath("opencode", "git")
	return Inputs{
		Cmd:          "opencode",
		ProjectRoot:  t.TempDir(),
		ProviderName: "auto",
		Selected:     selected,
		Descriptors:  descriptors,
		Options:      provider.Options{Cmd: "opencode"},
		Detector:     opencode.Detector{Runner: (&providertest.Runner{}).On("/usr/bin/opencode --version", "1.0.0", nil)},
		LookPath:     lookPath,
	}
}

func names(report *HealthReport) []string {
	out := make([]string, len(report.Checks))
	for i, c := range report.Checks {
		out[i] = c.Name
	}
	return out
}

func TestRunHealthChecks_AllGood(t *testing.T) {
	t.Parallel()

	report := RunHealthChecks(context.Background(), baseInputs(t))
	assert.True(t, report.Passed)
	assert.Equal(t,
		[]string{"opencode", "git", "config", "opencode.json", "provider", "provider.tmux", "provider.kitty"},
		names(report))
	assert.Equal(t, "/usr/bin/opencode (1.0.0)", report.Checks[0].Message)
	assert.Contains(t, report.Checks[4].Message, "tmux (configured: auto) supports toggle, health")
}

func TestRunHealthChecks_Failures(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mutate     func(*Inputs)
		wantPassed bool
		failing    string
	}{
		"opencode missing": {
			mutate:  func(in *Inputs) { in.LookPath = providertest.LookPath("git") },
			failing: "opencode",
		},
		"git missing is optional": {
			mutate:     func(in *Inputs) { in.LookPath = providertest.LookPath("opencode") },
			wantPassed: true,
			failing:    "git",
		},
		"config invalid": {
			mutate:  func(in *Inputs) { in.ConfigErr = errors.New("config validation failed") },
			failing: "config",
		},
		"selection failed": {
			mutate: func(in *Inputs) {
				in.Selected = nil
				in.SelectErr = errors.New(`unknown provider "screen"`)
			},
			failing: "provider",
		},
		"selected provider unhealthy": {
			mutate: func(in *Inputs) {
				p, _ := in.Descriptors[1].New(in.Options)
				in.Selected = p
			},
			failing: "provider.kitty",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			in := baseInputs(t)
			tt.mutate(&in)

			report := RunHealthChecks(context.Background(), in)
			assert.Equal(t, tt.wantPassed, report.Passed)
			if tt.wantPassed {
				assert.Empty(t, report.Failed())
			} else {
				assert.Contains(t, report.Failed(), tt.failing)
			}
			for _, c := range report.Checks {
				if c.Name == tt.failing {
					assert.False(t, c.Passed, "%s should fail", c.Name)
				}
			}
		})
	}
}

type fakeRepo struct{ root, branch string }

func (f fakeRepo) Root() (string, error) { return f.root, nil }
func (f fakeRepo) Head() (*plumbing.Reference, error) {
	return plumbing.NewHashReference(plumbing.NewBranchReferenceName(f.branch), plumbing.ZeroHash), nil
}
func (f fakeRepo) Open(string) (git.Repository, error) { return f, nil }

func TestCheckGit_ReportsRepository(t *testing.T) {
	t.Parallel()

	in := baseInputs(t)
	assert.Equal(t, "git found", CheckGit(in).Message, "temp dir is not a repository")

	in.GitOpener = fakeRepo{root: "/src/app", branch: "main"}
	c := CheckGit(in)
	assert.True(t, c.Passed)
	assert.Equal(t, "git found, /src/app on main", c.Message)
}

func TestCheckProjectSettings(t *testing.T) {
	t.Parallel()

	in := baseInputs(t)
	assert.True(t, CheckProjectSettings(in).Optional, "missing opencode.json is optional")

	require.NoError(t, os.WriteFile(filepath.Join(in.ProjectRoot, opencode.SettingsFileName), []byte("{"), 0o644))
	c := CheckProjectSettings(in)
	assert.False(t, c.Passed)
	assert.False(t, c.Optional)
}

func TestCapabilities(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "nothing", Capabilities(nil))
	p := &stubProvider{Base: provider.NewBase("x", provider.Options{})}
	assert.Equal(t, "toggle, health", Capabilities(p))
}

func TestFormatReport(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		report   *HealthReport
		expected string
	}{
		"All checks pass": {
			report: &HealthReport{
				Checks: []CheckResult{
					{Name: "opencode", Passed: true, Message: "/usr/bin/opencode"},
					{Name: "git", Passed: true, Message: "git found"},
				},
				Passed: true,
			},
			expected: "✓ opencode: /usr/bin/opencode\n✓ git: git found\n",
		},
		"Failure with advice": {
			report: &HealthReport{
				Checks: []CheckResult{
					{Name: "provider.kitty", Message: "KITTY_LISTEN_ON is not set", Advice: []string{"Enable remote control"}},
				},
			},
			expected: "✗ provider.kitty: KITTY_LISTEN_ON is not set\n    → Enable remote control\n",
		},
		"Optional failure": {
			report: &HealthReport{
				Checks: []CheckResult{{Name: "git", Message: "git not found in PATH", Optional: true}},
				Passed: true,
			},
			expected: "- git: git not found in PATH\n",
		},
		"Empty report": {
			report:   &HealthReport{Passed: true},
			expected: "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FormatReport(tt.report))
		})
	}
}
