package main

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"apmarchive/internal/core/version"
	"apmarchive/internal/modkit"
	"apmarchive/internal/modkit/module"
	"apmarchive/internal/platform/config"
	"apmarchive/internal/platform/logger"

	archdom "apmarchive/internal/services/archive/domain"
	archmod "apmarchive/internal/services/archive/module"
)

// seams swapped by tests
var (
	newModule = archmod.New
	newRunID  = uuid.NewString
)

type rootFlags struct {
	esURL        string
	kibanaURL    string
	repoRoot     string
	archivesDir  string
	fixturesRoot string
	logLevel     string
	logFormat    string
}

func newRootCmd() *cobra.Command {
	var f rootFlags
	conf := config.New().Prefix("APM_ARCHIVE_")

	cmd := &cobra.Command{
		Use:           "apm-archive",
		Short:         "Create the APM functional test archive from a live cluster",
		Version:       version.Info().String(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.ErrOrStderr(), f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.esURL, "es-url", "", "Elasticsearch URL, with credentials ("+conf.Key("ES_URL")+")")
	fl.StringVar(&f.kibanaURL, "kibana-url", "", "Kibana URL, with credentials ("+conf.Key("KIBANA_URL")+")")
	fl.StringVar(&f.repoRoot, "repo-root", "", "repository root the tools run in ("+conf.Key("REPO_ROOT")+", default .)")
	fl.StringVar(&f.archivesDir, "archives-dir", "", "scratch dir for the archiver, relative to the repo root ("+conf.Key("ARCHIVES_DIR")+")")
	fl.StringVar(&f.fixturesRoot, "fixtures-root", "", "root of the profile fixtures, relative to the repo root ("+conf.Key("FIXTURES_ROOT")+")")
	fl.StringVar(&f.logLevel, "log-level", "", "log level, overrides LOG_LEVEL")
	fl.StringVar(&f.logFormat, "log-format", "", "console or json, overrides LOG_FORMAT")
	return cmd
}

func run(ctx context.Context, logOut io.Writer, f rootFlags) error {
	runID := newRunID()

	opt := logger.FromEnv()
	if f.logLevel != "" {
		opt.Level = f.logLevel
	}
	if f.logFormat != "" {
		opt.Format = f.logFormat
	}
	opt.Service = version.Info().Service
	opt.Writer = logOut
	logger.Override(opt)

	ctx = logger.WithRun(ctx, runID)
	log := logger.C(ctx)

	m, err := newModule(modkit.Deps{Log: *log, Cfg: config.New()}, archmod.Options{
		ESURL:        f.esURL,
		KibanaURL:    f.kibanaURL,
		RepoRoot:     f.repoRoot,
		ArchivesDir:  f.archivesDir,
		FixturesRoot: f.fixturesRoot,
	})
	if err != nil {
		return err
	}

	st := m.Settings()
	log.Info().
		Str("archive", st.ArchiveName).
		Str("repo_root", st.RepoRoot).
		Str("archives_dir", st.ArchivesDir).
		Str("fixtures_root", st.FixturesRoot).
		Strs("profiles", st.Profiles).
		Msg("archive settings resolved")

	res, err := module.MustPortsOf[archdom.RunnerPort](m).Run(ctx)
	if err != nil {
		return err
	}
	for _, p := range res.Profiles {
		log.Info().Str("profile", p.Profile).Str("dir", p.FixtureDir).Bool("changed", p.Changed).Msg("profile updated")
	}
	log.Info().Str("archive", res.Archive).Str("start", res.Window.GTE()).Str("end", res.Window.LT()).Msg("done")
	return nil
}
