// Package snapshot reads and writes index snapshot files, the boundary
// artifact between an external source indexer and the program graph. A
// snapshot lists translation units, each carrying its declaration tree
// and the references those declarations make.
package snapshot

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v3"

	"vestige/internal/errors"
)

// Snapshot is the root of an index snapshot file.
type Snapshot struct {
	Version int    `json:"version" yaml:"version"`
	Indexer string `json:"indexer,omitempty" yaml:"indexer,omitempty"`
	Units   []Unit `json:"units" yaml:"units"`
}

// Unit is one indexed translation unit.
type Unit struct {
	File         string     `json:"file" yaml:"file"`
	Declarations []DeclNode `json:"declarations,omitempty" yaml:"declarations,omitempty"`

	// References not nested under any declaration, e.g. top-level
	// expression statements. They become root references.
	References []RefNode `json:"references,omitempty" yaml:"references,omitempty"`
}

// DeclNode is a declaration with its nested declarations and outgoing
// references.
type DeclNode struct {
	Kind     string   `json:"kind" yaml:"kind"`
	Name     string   `json:"name" yaml:"name"`
	USRs     []string `json:"usrs" yaml:"usrs"`
	Implicit bool     `json:"implicit,omitempty" yaml:"implicit,omitempty"`
	Line     int      `json:"line,omitempty" yaml:"line,omitempty"`
	Column   int      `json:"column,omitempty" yaml:"column,omitempty"`

	Declarations []DeclNode `json:"declarations,omitempty" yaml:"declarations,omitempty"`
	References   []RefNode  `json:"references,omitempty" yaml:"references,omitempty"`
}

// RefNode is a reference edge; nested entries are references contained
// inside this one, e.g. generic arguments.
type RefNode struct {
	Kind    string `json:"kind" yaml:"kind"`
	USR     string `json:"usr" yaml:"usr"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Related bool   `json:"related,omitempty" yaml:"related,omitempty"`
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column  int    `json:"column,omitempty" yaml:"column,omitempty"`

	References []RefNode `json:"references,omitempty" yaml:"references,omitempty"`
}

// Load reads a snapshot from path. The codec follows the file name:
// .json or .yaml/.yml, each optionally wrapped in .gz.
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.SnapshotMissing, "snapshot not found", err).
				WithDetails(map[string]string{"path": path})
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	name := path
	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.New(errors.SnapshotInvalid, "failed to open gzip stream", err)
		}
		defer func() { _ = gz.Close() }()
		r = gz
		name = strings.TrimSuffix(name, ".gz")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.New(errors.SnapshotInvalid, "failed to read snapshot", err)
	}

	snap := &Snapshot{}
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, snap); err != nil {
			return nil, errors.New(errors.SnapshotInvalid, "failed to decode YAML snapshot", err)
		}
	case ".json":
		if err := json.Unmarshal(data, snap); err != nil {
			return nil, errors.New(errors.SnapshotInvalid, "failed to decode JSON snapshot", err)
		}
	default:
		return nil, errors.New(errors.SnapshotInvalid, "unrecognized snapshot extension", nil).
			WithDetails(map[string]string{"path": path})
	}

	return snap, nil
}

// Save writes a snapshot to path, choosing the codec and compression the
// same way Load does.
func Save(snap *Snapshot, path string) error {
	name := path
	compress := false
	if strings.HasSuffix(name, ".gz") {
		compress = true
		name = strings.TrimSuffix(name, ".gz")
	}

	var data []byte
	var err error
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(snap)
	case ".json":
		data, err = json.MarshalIndent(snap, "", "  ")
	default:
		return errors.New(errors.SnapshotInvalid, "unrecognized snapshot extension", nil).
			WithDetails(map[string]string{"path": path})
	}
	if err != nil {
		return err
	}

	if compress {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		if _, err := gz.Write(data); err != nil {
			return err
		}
		if err := gz.Close(); err != nil {
			return err
		}
		data = buf.Bytes()
	}

	return os.WriteFile(path, data, 0644)
}
