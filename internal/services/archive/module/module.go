// Package module implements the archive module
package module

import (
	"path/filepath"

	"apmarchive/internal/modkit"
	"apmarchive/internal/platform/exec"
	"apmarchive/internal/platform/validate"
	"apmarchive/internal/services/archive/domain"
	"apmarchive/internal/services/archive/repo"
	"apmarchive/internal/services/archive/service"
	"apmarchive/internal/services/archive/tools"

	perr "apmarchive/internal/platform/errors"
)

// Ports exposed by the archive module
type Ports struct {
	Runner domain.RunnerPort
}

// Tools replaces the external archiver and linter; pass it with modkit.WithPorts
type Tools struct {
	Archiver domain.Archiver
	Linter   domain.Linter
}

// Module implements modkit.Module
type Module struct {
	deps     modkit.Deps
	name     string
	settings domain.Settings
	ports    Ports
}

// New constructs the archive module. Settings are resolved and validated
// here so a bad configuration fails before anything touches disk or spawns
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("archive"),
	}, opts...)...)

	o := merge(FromConfig(deps.Cfg), overrides)
	st, err := resolve(o)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(st); err != nil {
		return nil, err
	}

	var tl Tools
	switch p := b.Ports.(type) {
	case nil:
		r := exec.NewOS()
		tc := tools.Config{
			Node:           o.Node,
			ArchiverScript: o.ArchiverScript,
			LintScript:     o.LintScript,
			LintGlob:       o.LintGlob,
			Dir:            st.RepoRoot,
		}
		tl = Tools{Archiver: tools.NewArchiver(r, tc), Linter: tools.NewLinter(r, tc)}
	case Tools:
		tl = p
	default:
		panic("archive module: expected WithPorts(archive/module.Tools)")
	}
	if tl.Archiver == nil || tl.Linter == nil {
		panic("archive module: Tools missing Archiver or Linter")
	}

	runner := service.New(tl.Archiver, tl.Linter, repo.NewFixtureStore(), repo.NewMetadataRepo(), st)

	return &Module{
		deps:     deps,
		name:     b.Name,
		settings: st,
		ports:    Ports{Runner: runner},
	}, nil
}

// resolve turns options into settings with absolute paths rooted at RepoRoot
func resolve(o Options) (domain.Settings, error) {
	root, err := filepath.Abs(o.RepoRoot)
	if err != nil {
		return domain.Settings{}, perr.Wrapf(err, perr.ErrorCodeConfig, "resolve repo root %q", o.RepoRoot)
	}
	under := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, p)
	}
	return domain.Settings{
		ESURL:        o.ESURL,
		KibanaURL:    o.KibanaURL,
		RepoRoot:     root,
		ArchivesDir:  under(o.ArchivesDir),
		FixturesRoot: under(o.FixturesRoot),
		ArchiveName:  o.ArchiveName,
		Indices:      o.Indices,
		Profiles:     o.Profiles,
		MetadataFile: o.MetadataFile,
		Lookback:     o.Lookback,
		Span:         o.Span,
	}, nil
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Settings returns the resolved settings the runner uses
func (m *Module) Settings() domain.Settings { return m.settings }
