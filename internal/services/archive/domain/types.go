// Package domain holds the types and ports of the fixture archive run
package domain

import (
	"path/filepath"
	"time"

	"apmarchive/internal/core/window"
)

const (
	// DataFile is the compressed document payload written by the archiver
	DataFile = "data.json.gz"
	// MappingsFile is the index mappings written by the archiver
	MappingsFile = "mappings.json"
)

// ArchiveFiles lists the files of one archive in copy and cleanup order
var ArchiveFiles = []string{DataFile, MappingsFile}

// Settings is the full, validated configuration of one run.
// Paths are absolute once the module has resolved them
type Settings struct {
	ESURL     string `flag:"es-url" validate:"required,url"`
	KibanaURL string `flag:"kibana-url" validate:"required,url"`

	RepoRoot     string `flag:"repo-root" validate:"required"`
	ArchivesDir  string `flag:"archives-dir" validate:"required"`
	FixturesRoot string `flag:"fixtures-root" validate:"required"`

	ArchiveName  string   `flag:"archive-name" validate:"required"`
	Indices      []string `flag:"indices" validate:"min=1,dive,required"`
	Profiles     []string `flag:"profiles" validate:"min=1,unique,dive,required"`
	MetadataFile string   `flag:"metadata-file" validate:"required"`

	Lookback time.Duration `flag:"lookback" validate:"gte=0"`
	Span     time.Duration `flag:"span" validate:"gt=0"`
}

// ScratchDir is where the archiver writes the archive before distribution
func (s Settings) ScratchDir() string { return filepath.Join(s.ArchivesDir, s.ArchiveName) }

// ProfileDir is the root of one target profile
func (s Settings) ProfileDir(profile string) string { return filepath.Join(s.FixturesRoot, profile) }

// FixtureDir is where one profile keeps its copy of the archive
func (s Settings) FixtureDir(profile string) string {
	return filepath.Join(s.ProfileDir(profile), "fixtures", "es_archiver", s.ArchiveName)
}

// MetadataPath is the metadata document of one profile
func (s Settings) MetadataPath(profile string) string {
	return filepath.Join(s.ProfileDir(profile), s.MetadataFile)
}

// SaveRequest is what the archiver needs to snapshot the window
type SaveRequest struct {
	Name      string
	Indices   []string
	Dir       string // output root; the archive lands in Dir/Name
	Query     string // serialized query
	ESURL     string
	KibanaURL string
}

// ProfileResult describes what one profile received
type ProfileResult struct {
	Profile      string
	FixtureDir   string
	MetadataPath string
	Changed      bool // metadata content differs from what was on disk
}

// Result summarizes a finished run
type Result struct {
	Archive  string
	Window   window.Window
	Profiles []ProfileResult
}
