package typegen

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/teranos/bspecgen/errors"
	"github.com/teranos/bspecgen/model"
)

// ReadBack loads the canonical JSON bundled in a generated tree and decodes
// it into a model, the same form every SDK's toJSON produces.
func ReadBack(gen Generator, opts Options, outDir string) (*model.CanonicalModel, error) {
	p := filepath.Join(outDir, filepath.FromSlash(gen.DataPath(opts)))
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "read %s bundle", gen.Language()), errors.ErrArtifact)
	}
	return DecodeCanonical(data)
}

// DecodeCanonical parses canonical JSON and checks document keys
func DecodeCanonical(data []byte) (*model.CanonicalModel, error) {
	var m model.CanonicalModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode canonical JSON"), errors.ErrArtifact)
	}
	for code, doc := range m.Documents {
		if code != doc.Code {
			return nil, errors.NewInvariantError("bundle key %s holds document %s", code, doc.Code)
		}
	}
	return &m, nil
}
