// Package tools adapts the repository's node scripts to the archive ports
package tools

import (
	"context"
	"strings"

	"apmarchive/internal/platform/exec"
	"apmarchive/internal/services/archive/domain"
)

// Config locates the scripts; Dir is the repository root they run from
type Config struct {
	Node           string
	ArchiverScript string
	LintScript     string
	LintGlob       string
	Dir            string
}

// archiver implements domain.Archiver with `node scripts/es_archiver save`
type archiver struct {
	run exec.Runner
	cfg Config
}

// NewArchiver returns the es_archiver adapter
func NewArchiver(r exec.Runner, cfg Config) domain.Archiver {
	return &archiver{run: r, cfg: cfg}
}

// SaveCommand renders the archiver invocation for req
func SaveCommand(cfg Config, req domain.SaveRequest) exec.Command {
	return exec.Command{
		Name: cfg.Node,
		Args: []string{
			cfg.ArchiverScript,
			"save",
			req.Name,
			strings.Join(req.Indices, ","),
			"--dir=" + req.Dir,
			"--kibana-url=" + req.KibanaURL,
			"--es-url=" + req.ESURL,
			"--query=" + req.Query,
		},
		Dir: cfg.Dir,
	}
}

func (a *archiver) Save(ctx context.Context, req domain.SaveRequest) error {
	return a.run.Run(ctx, SaveCommand(a.cfg, req))
}

// linter implements domain.Linter with `node scripts/eslint <glob> --fix`
type linter struct {
	run exec.Runner
	cfg Config
}

// NewLinter returns the eslint adapter
func NewLinter(r exec.Runner, cfg Config) domain.Linter {
	return &linter{run: r, cfg: cfg}
}

// FixCommand renders the linter invocation. The glob is handed to eslint
// unexpanded, eslint resolves it against Dir
func FixCommand(cfg Config) exec.Command {
	return exec.Command{
		Name: cfg.Node,
		Args: []string{cfg.LintScript, cfg.LintGlob, "--fix"},
		Dir:  cfg.Dir,
	}
}

func (l *linter) Fix(ctx context.Context) error {
	return l.run.Run(ctx, FixCommand(l.cfg))
}
