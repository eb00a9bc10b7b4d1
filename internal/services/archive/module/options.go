package module

import (
	"time"

	"apmarchive/internal/core/window"
	"apmarchive/internal/platform/config"

	pstrings "apmarchive/internal/platform/strings"
)

// Defaults mirror the layout of the repository the tool runs in
const (
	DefaultArchivesDir    = "x-pack/plugins/apm/scripts/create-functional-tests-archive/.archives"
	DefaultFixturesRoot   = "x-pack/test/apm_api_integration"
	DefaultArchiveName    = "apm_8.0.0"
	DefaultMetadataFile   = "archives_metadata.ts"
	DefaultLintGlob       = "**/*/archives_metadata.ts"
	DefaultArchiverScript = "scripts/es_archiver"
	DefaultLintScript     = "scripts/eslint"
)

// DefaultIndices are the APM and ML indices captured in the archive
var DefaultIndices = []string{
	"apm-*-transaction",
	"apm-*-span",
	"apm-*-error",
	"apm-*-metric",
	".ml-anomalies*",
	".ml-config",
}

// DefaultProfiles are the test suites that receive a copy of the archive
var DefaultProfiles = []string{"trial", "basic"}

// Options holds configuration settings for the archive module
type Options struct {
	ESURL     string
	KibanaURL string

	RepoRoot     string
	ArchivesDir  string
	FixturesRoot string

	ArchiveName  string
	Indices      []string
	Profiles     []string
	MetadataFile string

	Lookback time.Duration
	Span     time.Duration

	Node           string
	ArchiverScript string
	LintScript     string
	LintGlob       string
}

// FromConfig extracts Options from APM_ARCHIVE_* settings
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("APM_ARCHIVE_")
	return Options{
		ESURL:          c.MayString("ES_URL", ""),
		KibanaURL:      c.MayString("KIBANA_URL", ""),
		RepoRoot:       c.MayString("REPO_ROOT", "."),
		ArchivesDir:    c.MayString("ARCHIVES_DIR", DefaultArchivesDir),
		FixturesRoot:   c.MayString("FIXTURES_ROOT", DefaultFixturesRoot),
		ArchiveName:    c.MayString("NAME", DefaultArchiveName),
		Indices:        c.MayCSV("INDICES", DefaultIndices),
		Profiles:       c.MayCSV("PROFILES", DefaultProfiles),
		MetadataFile:   c.MayString("METADATA_FILE", DefaultMetadataFile),
		Lookback:       c.MayDuration("LOOKBACK", window.DefaultLookback),
		Span:           c.MayDuration("SPAN", window.DefaultSpan),
		Node:           c.MayString("NODE_BIN", "node"),
		ArchiverScript: c.MayString("ARCHIVER_SCRIPT", DefaultArchiverScript),
		LintScript:     c.MayString("LINT_SCRIPT", DefaultLintScript),
		LintGlob:       c.MayString("LINT_GLOB", DefaultLintGlob),
	}
}

// merge lays the non-zero fields of o over base
func merge(base, o Options) Options {
	return Options{
		ESURL:          pstrings.Or(o.ESURL, base.ESURL),
		KibanaURL:      pstrings.Or(o.KibanaURL, base.KibanaURL),
		RepoRoot:       pstrings.Or(o.RepoRoot, base.RepoRoot),
		ArchivesDir:    pstrings.Or(o.ArchivesDir, base.ArchivesDir),
		FixturesRoot:   pstrings.Or(o.FixturesRoot, base.FixturesRoot),
		ArchiveName:    pstrings.Or(o.ArchiveName, base.ArchiveName),
		Indices:        pstrings.IfEmpty(o.Indices, base.Indices),
		Profiles:       pstrings.IfEmpty(o.Profiles, base.Profiles),
		MetadataFile:   pstrings.Or(o.MetadataFile, base.MetadataFile),
		Lookback:       pstrings.OrZero(o.Lookback, base.Lookback),
		Span:           pstrings.OrZero(o.Span, base.Span),
		Node:           pstrings.Or(o.Node, base.Node),
		ArchiverScript: pstrings.Or(o.ArchiverScript, base.ArchiverScript),
		LintScript:     pstrings.Or(o.LintScript, base.LintScript),
		LintGlob:       pstrings.Or(o.LintGlob, base.LintGlob),
	}
}
