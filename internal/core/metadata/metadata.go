// Package metadata reads, merges and writes the archive metadata documents that
// tell functional tests which time range each fixture archive covers
package metadata

import (
	"bytes"
	"encoding/json"
	"strings"

	perr "apmarchive/internal/platform/errors"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/sergi/go-diff/diffmatchpatch"
	"gopkg.in/yaml.v3"
)

// Entry is the window recorded for one archive
type Entry struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// Document maps archive names to entries. Values stay generic so entries
// written by other tools survive a rewrite untouched
type Document map[string]any

const modulePrefix = "export default"

// IsModule reports whether ext names a source module wrapping the document
// in `export default ...` rather than a bare JSON file
func IsModule(ext string) bool {
	switch strings.ToLower(ext) {
	case ".ts", ".js", ".mjs", ".cjs":
		return true
	default:
		return false
	}
}

// Decode parses a metadata document. JSON and the object literal a formatter
// leaves behind (single quotes, bare keys, trailing commas) are both YAML flow
// mappings, so one YAML decode covers what this tool and the linter write.
// Modules may carry a license header and line or block comments anywhere
// outside string literals
func Decode(ext string, b []byte) (Document, error) {
	body := bytes.TrimSpace(b)
	if IsModule(ext) {
		body = bytes.TrimSpace(stripComments(body))
		body = bytes.TrimSpace(bytes.TrimPrefix(body, []byte(modulePrefix)))
		body = bytes.TrimSpace(bytes.TrimSuffix(body, []byte(";")))
	}
	if len(body) == 0 {
		return Document{}, nil
	}
	var raw map[string]any
	if err := yaml.Unmarshal(body, &raw); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeMetadata, "decode metadata")
	}
	// normalize YAML scalars (timestamps, ints) to their JSON forms
	j, err := json.Marshal(raw)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeMetadata, "normalize metadata")
	}
	var doc Document
	if err := json.Unmarshal(j, &doc); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeMetadata, "normalize metadata")
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// Encode renders doc as indented JSON, wrapped in `export default` for modules
func Encode(ext string, doc Document) ([]byte, error) {
	if doc == nil {
		doc = Document{}
	}
	j, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "encode metadata")
	}
	var buf bytes.Buffer
	if IsModule(ext) {
		buf.WriteString(modulePrefix)
		buf.WriteByte(' ')
	}
	buf.Write(j)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

type patchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// Set returns a copy of doc with name mapped to e. The entry is replaced as a
// whole (RFC 6902 add), every other entry is carried over unchanged
func Set(doc Document, name string, e Entry) (Document, error) {
	if doc == nil {
		doc = Document{}
	}
	base, err := json.Marshal(doc)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "marshal metadata")
	}
	ops, err := json.Marshal([]patchOp{{Op: "add", Path: "/" + escapePointer(name), Value: e}})
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "marshal metadata patch")
	}
	patch, err := jsonpatch.DecodePatch(ops)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeMetadata, "decode metadata patch")
	}
	out, err := patch.Apply(base)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeMetadata, "set metadata entry %q", name)
	}
	merged := Document{}
	if err := json.Unmarshal(out, &merged); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeMetadata, "decode merged metadata")
	}
	return merged, nil
}

// EntryOf extracts the typed entry for name, if present and well formed
func EntryOf(doc Document, name string) (Entry, bool) {
	m, ok := doc[name].(map[string]any)
	if !ok {
		return Entry{}, false
	}
	start, ok1 := m["start"].(string)
	end, ok2 := m["end"].(string)
	if !ok1 || !ok2 {
		return Entry{}, false
	}
	return Entry{Start: start, End: end}, true
}

// Diff renders a compact textual patch from before to after; empty when equal
func Diff(before, after []byte) string {
	if bytes.Equal(before, after) {
		return ""
	}
	dmp := diffmatchpatch.New()
	return dmp.PatchToText(dmp.PatchMake(string(before), string(after)))
}

// stripComments blanks out // and /* */ comments that sit outside quoted
// strings. Newlines are kept so decode errors still point at the right line
func stripComments(b []byte) []byte {
	out := make([]byte, 0, len(b))
	var quote byte // open string delimiter, 0 outside strings
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case quote != 0:
			out = append(out, c)
			if c == '\\' && i+1 < len(b) {
				i++
				out = append(out, b[i])
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'' || c == '`':
			quote = c
			out = append(out, c)
		case c == '/' && i+1 < len(b) && b[i+1] == '/':
			for i < len(b) && b[i] != '\n' {
				i++
			}
			if i < len(b) {
				out = append(out, '\n')
			}
		case c == '/' && i+1 < len(b) && b[i+1] == '*':
			i += 2
			for i < len(b) && !(b[i] == '*' && i+1 < len(b) && b[i+1] == '/') {
				if b[i] == '\n' {
					out = append(out, '\n')
				}
				i++
			}
			i++ // skip the closing slash
			out = append(out, ' ')
		default:
			out = append(out, c)
		}
	}
	return out
}

// escapePointer escapes a JSON Pointer reference token (RFC 6901)
func escapePointer(s string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(s)
}
