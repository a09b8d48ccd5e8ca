package pack

import (
	"context"
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/teranos/bspecgen/errors"
	"github.com/teranos/bspecgen/model"
)

// Artifact is an unpacked archive re-aggregated into a model
type Artifact struct {
	Dir      string // Scratch directory holding the unpacked members
	Members  []string
	Manifest Manifest
	Model    *model.CanonicalModel
	// Bodies holds each document member keyed by document code
	Bodies map[string]DocumentMember
}

// Unpack extracts the archive at archivePath into scratchDir and returns
// the member paths. Errors reading the archive are marked ErrArtifact.
func Unpack(ctx context.Context, archivePath, scratchDir string) ([]string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "cannot open artifact %s", archivePath), errors.ErrArtifact)
	}
	defer f.Close()

	members, err := ReadTarGz(f)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot unpack %s", archivePath)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := WriteTree(scratchDir, members); err != nil {
		return nil, err
	}
	return MemberPaths(members), nil
}

// Open unpacks archivePath into scratchDir and rebuilds the model from the
// unpacked files alone.
func Open(ctx context.Context, archivePath, scratchDir string) (*Artifact, error) {
	if _, err := Unpack(ctx, archivePath, scratchDir); err != nil {
		return nil, err
	}
	return Load(scratchDir)
}

// Load re-aggregates an unpacked member tree. A missing model.json or
// manifest.json, a malformed member, or a manifest that disagrees with the
// tree is an ErrArtifact.
func Load(dir string) (*Artifact, error) {
	members, err := ReadTree(dir)
	if err != nil {
		return nil, errors.Mark(err, errors.ErrArtifact)
	}
	byPath := make(map[string][]byte, len(members))
	for _, m := range members {
		byPath[m.Path] = m.Data
	}

	var meta ModelMetadata
	if err := decodeMember(byPath, ModelMember, &meta); err != nil {
		return nil, err
	}
	var manifest Manifest
	if err := decodeMember(byPath, ManifestMember, &manifest); err != nil {
		return nil, err
	}
	if err := verifyManifest(manifest, byPath); err != nil {
		return nil, err
	}

	bodies := make(map[string]DocumentMember)
	pathOf := make(map[string]string)
	for _, m := range members {
		if !isDocumentMember(m.Path) {
			continue
		}
		var doc DocumentMember
		if err := json.Unmarshal(m.Data, &doc); err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "member %s is not valid JSON", m.Path), errors.ErrArtifact)
		}
		code := doc.Record.Code
		if code == "" || code+".json" != path.Base(m.Path) {
			return nil, errors.NewArtifactError("member %s carries code %q", m.Path, code)
		}
		if prev, dup := pathOf[code]; dup {
			return nil, errors.NewArtifactError("code %s appears in both %s and %s", code, prev, m.Path)
		}
		pathOf[code] = m.Path
		bodies[code] = doc
	}

	if len(bodies) != manifest.DocumentCount {
		return nil, errors.NewArtifactError("manifest declares %d documents, archive holds %d", manifest.DocumentCount, len(bodies))
	}

	mdl := &model.CanonicalModel{
		Version:           meta.Version,
		GeneratedAt:       meta.GeneratedAt,
		Generator:         meta.Generator,
		SourceRevision:    meta.SourceRevision,
		VocabularyVersion: meta.VocabularyVersion,
		Documents:         make(map[string]model.DocumentRecord, len(bodies)),
		Schema:            meta.Schema,
		ConformanceLevels: meta.ConformanceLevels,
		IndustryProfiles:  meta.IndustryProfiles,
		FileIndex:         meta.FileIndex,
	}
	if mdl.Schema == nil {
		mdl.Schema = map[string]model.SchemaField{}
	}
	if mdl.FileIndex == nil {
		mdl.FileIndex = map[string]model.FileEntry{}
	}

	// Documents follow the recorded order; strays are appended by code
	placed := make(map[string]bool, len(bodies))
	for _, code := range meta.DocumentOrder {
		if _, ok := bodies[code]; ok && !placed[code] {
			mdl.DocumentOrder = append(mdl.DocumentOrder, code)
			placed[code] = true
		}
	}
	var strays []string
	for code := range bodies {
		if !placed[code] {
			strays = append(strays, code)
		}
	}
	sort.Strings(strays)
	mdl.DocumentOrder = append(mdl.DocumentOrder, strays...)

	for code, body := range bodies {
		rec := body.Record
		if rec.Examples == nil {
			rec.Examples = []model.Example{}
		}
		mdl.Documents[code] = rec

		// Restore document content into the file index
		entry, ok := mdl.FileIndex[rec.SourcePath]
		if !ok {
			entry = model.FileEntry{
				Path:      rec.SourcePath,
				Name:      body.Metadata.FileName,
				Extension: path.Ext(rec.SourcePath),
				Type:      "markdown",
				Size:      int64(len(body.Content)),
			}
		}
		entry.Content = body.Content
		entry.ParsedContent = body.ParsedContent
		if len(body.Frontmatter) > 0 {
			entry.HasFrontmatter = true
			entry.Frontmatter = body.Frontmatter
		}
		mdl.FileIndex[rec.SourcePath] = entry
	}
	mdl.Domains, mdl.DomainOrder = model.GroupDomains(mdl.OrderedDocuments())

	if manifest.DomainCount != len(mdl.Domains) {
		return nil, errors.NewArtifactError("manifest declares %d domains, archive regroups into %d", manifest.DomainCount, len(mdl.Domains))
	}

	return &Artifact{
		Dir:      dir,
		Members:  MemberPaths(members),
		Manifest: manifest,
		Model:    mdl,
		Bodies:   bodies,
	}, nil
}

func decodeMember(byPath map[string][]byte, name string, v interface{}) error {
	data, ok := byPath[name]
	if !ok {
		return errors.NewArtifactError("artifact is missing %s", name)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Mark(errors.Wrapf(err, "%s is not valid JSON", name), errors.ErrArtifact)
	}
	return nil
}

func verifyManifest(manifest Manifest, byPath map[string][]byte) error {
	for _, info := range manifest.Members {
		data, ok := byPath[info.Path]
		if !ok {
			return errors.NewArtifactError("manifest lists %s but the archive does not contain it", info.Path)
		}
		if int64(len(data)) != info.Size {
			return errors.NewArtifactError("member %s is %d bytes, manifest says %d", info.Path, len(data), info.Size)
		}
	}
	return nil
}

// isDocumentMember reports whether p is a <domain>/<CODE>.json member
func isDocumentMember(p string) bool {
	return strings.Count(p, "/") == 1 && strings.HasSuffix(p, ".json")
}

// manifestOf decodes the manifest member from a member list
func manifestOf(members []Member) (Manifest, error) {
	var manifest Manifest
	for _, m := range members {
		if m.Path == ManifestMember {
			if err := json.Unmarshal(m.Data, &manifest); err != nil {
				return Manifest{}, errors.Wrap(err, "decode manifest")
			}
			return manifest, nil
		}
	}
	return Manifest{}, errors.NewArtifactError("artifact is missing %s", ManifestMember)
}

// ScratchDir creates a fresh unpack directory under parent ("" = system temp)
func ScratchDir(parent, label string) (string, error) {
	dir, err := os.MkdirTemp(parent, "bspecgen-"+label+"-*")
	if err != nil {
		return "", errors.Wrap(err, "create scratch directory")
	}
	return filepath.Clean(dir), nil
}
