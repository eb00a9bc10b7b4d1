package repo

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"apmarchive/internal/core/metadata"
	"apmarchive/internal/services/archive/domain"

	perr "apmarchive/internal/platform/errors"
)

// metadataRepo implements domain.MetadataRepo with one file per profile; the
// file extension picks between a bare JSON document and an `export default` module
type metadataRepo struct{}

// NewMetadataRepo returns the file-backed MetadataRepo
func NewMetadataRepo() domain.MetadataRepo { return metadataRepo{} }

func (metadataRepo) Load(_ context.Context, path string) (metadata.Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeMetadata, "no metadata at %s", path), "load")
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeFilesystem, "read %s", path)
	}
	doc, err := metadata.Decode(filepath.Ext(path), b)
	if err != nil {
		return nil, perr.WithOp(err, "load")
	}
	return doc, nil
}

func (metadataRepo) Save(_ context.Context, path string, doc metadata.Document) (before, after []byte, err error) {
	after, err = metadata.Encode(filepath.Ext(path), doc)
	if err != nil {
		return nil, nil, err
	}
	before, _ = os.ReadFile(path) // absent is fine, only used for diffs
	if err := os.WriteFile(path, after, 0o644); err != nil {
		return nil, nil, perr.Wrapf(err, perr.ErrorCodeFilesystem, "write %s", path)
	}
	return before, after, nil
}
