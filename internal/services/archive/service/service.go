// Package service provides the archive run: fetch a window of APM and ML data,
// distribute it to every fixture profile and record the window in metadata
package service

import (
	"context"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"apmarchive/internal/core/metadata"
	"apmarchive/internal/core/query"
	"apmarchive/internal/core/window"
	"apmarchive/internal/platform/logger"
	"apmarchive/internal/services/archive/domain"

	perr "apmarchive/internal/platform/errors"
)

// Service implements domain.RunnerPort
type Service struct {
	Archiver domain.Archiver
	Linter   domain.Linter
	Fixtures domain.FixtureStore
	Meta     domain.MetadataRepo
	Cfg      domain.Settings

	// Now is the clock; tests pin it
	Now func() time.Time
}

// New constructs the archive service
func New(
	a domain.Archiver,
	l domain.Linter,
	fx domain.FixtureStore,
	meta domain.MetadataRepo,
	cfg domain.Settings,
) *Service {
	if a == nil || l == nil {
		panic("archive.Service requires a non nil Archiver and Linter")
	}
	if fx == nil || meta == nil {
		panic("archive.Service requires a non nil FixtureStore and MetadataRepo")
	}
	return &Service{
		Archiver: a, Linter: l,
		Fixtures: fx, Meta: meta,
		Cfg: cfg,
		Now: time.Now,
	}
}

// Run executes one archive run. Every step is fatal on error; a failure
// after the archiver ran leaves the scratch dir behind
func (s *Service) Run(ctx context.Context) (domain.Result, error) {
	log := logger.C(ctx)

	w, err := window.New(s.Now(), s.Cfg.Lookback, s.Cfg.Span)
	if err != nil {
		return domain.Result{}, err
	}
	q, err := query.ForWindow(w).JSON()
	if err != nil {
		return domain.Result{}, err
	}

	log.Info().Str("gte", w.GTE()).Str("lt", w.LT()).Msgf("archiving from %s to %s...", w.GTE(), w.LT())

	if err := s.Archiver.Save(ctx, domain.SaveRequest{
		Name:      s.Cfg.ArchiveName,
		Indices:   s.Cfg.Indices,
		Dir:       s.Cfg.ArchivesDir,
		Query:     q,
		ESURL:     s.Cfg.ESURL,
		KibanaURL: s.Cfg.KibanaURL,
	}); err != nil {
		return domain.Result{}, perr.WithOp(err, "archive")
	}

	res := domain.Result{
		Archive:  s.Cfg.ArchiveName,
		Window:   w,
		Profiles: make([]domain.ProfileResult, len(s.Cfg.Profiles)),
	}

	// profiles touch disjoint files; a failing profile does not stop or undo the others
	var g errgroup.Group
	for i, p := range s.Cfg.Profiles {
		g.Go(func() error {
			pr, err := s.distribute(logger.WithProfile(ctx, p), p, w)
			if err != nil {
				return perr.WithOp(err, "distribute "+p)
			}
			res.Profiles[i] = pr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Result{}, err
	}

	log.Debug().Str("dir", s.Cfg.ArchivesDir).Msg("archive: removing scratch dir")
	if err := s.Fixtures.RemoveScratch(s.Cfg.ArchivesDir, s.Cfg.ArchiveName, domain.ArchiveFiles); err != nil {
		return domain.Result{}, perr.WithOp(err, "cleanup")
	}

	log.Info().Msg("archive: linting metadata")
	if err := s.Linter.Fix(ctx); err != nil {
		return domain.Result{}, perr.WithOp(err, "lint")
	}
	return res, nil
}

// distribute copies the scratch archive into one profile and records w for it
func (s *Service) distribute(ctx context.Context, profile string, w window.Window) (domain.ProfileResult, error) {
	log := logger.C(ctx)
	dst := s.Cfg.FixtureDir(profile)

	if err := s.Fixtures.EnsureDir(dst); err != nil {
		return domain.ProfileResult{}, err
	}
	for _, f := range domain.ArchiveFiles {
		if err := s.Fixtures.CopyFile(filepath.Join(s.Cfg.ScratchDir(), f), filepath.Join(dst, f)); err != nil {
			return domain.ProfileResult{}, err
		}
	}
	log.Info().Str("dir", dst).Msg("archive: copied fixtures")

	path := s.Cfg.MetadataPath(profile)
	current, err := s.Meta.Load(ctx, path)
	if err != nil {
		// unreadable or absent metadata starts over from an empty document
		log.Warn().Err(err).Str("path", path).Msg("archive: starting with empty metadata")
		current = metadata.Document{}
	}
	if prev, ok := metadata.EntryOf(current, s.Cfg.ArchiveName); ok {
		log.Debug().Str("start", prev.Start).Str("end", prev.End).Msg("archive: replacing previous window")
	}
	next, err := metadata.Set(current, s.Cfg.ArchiveName, metadata.Entry{Start: w.GTE(), End: w.LT()})
	if err != nil {
		return domain.ProfileResult{}, err
	}
	before, after, err := s.Meta.Save(ctx, path, next)
	if err != nil {
		return domain.ProfileResult{}, err
	}

	diff := metadata.Diff(before, after)
	if diff != "" {
		log.Debug().Str("path", path).Str("diff", diff).Msg("archive: metadata changed")
	}
	log.Info().Str("path", path).Bool("changed", diff != "").Msg("archive: wrote metadata")

	return domain.ProfileResult{
		Profile:      profile,
		FixtureDir:   dst,
		MetadataPath: path,
		Changed:      diff != "",
	}, nil
}
