package domain

import (
	"context"

	"apmarchive/internal/core/metadata"
)

// RunnerPort is the public port exposed by the module
type RunnerPort interface {
	Run(ctx context.Context) (Result, error)
}

// Archiver snapshots indices to local files
type Archiver interface {
	Save(ctx context.Context, req SaveRequest) error
}

// Linter formats the generated metadata documents in place
type Linter interface {
	Fix(ctx context.Context) error
}

// FixtureStore moves archive files around on disk
type FixtureStore interface {
	// EnsureDir creates dir and its parents; an existing dir is not an error
	EnsureDir(dir string) error

	// CopyFile copies src over dst, replacing any existing file
	CopyFile(src, dst string) error

	// RemoveScratch deletes the archive files, the archive dir and then the
	// scratch root, in that order. Any missing target is an error
	RemoveScratch(root, archive string, files []string) error
}

// MetadataRepo reads and writes per-profile metadata documents
type MetadataRepo interface {
	// Load returns the document stored at path
	Load(ctx context.Context, path string) (metadata.Document, error)

	// Save replaces the document at path, returning the previous and new raw bytes
	Save(ctx context.Context, path string, doc metadata.Document) (before, after []byte, err error)
}
