// Package pack serializes a canonical model into a versioned tar.gz
// artifact and reads it back.
package pack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/teranos/bspecgen/errors"
	"github.com/teranos/bspecgen/model"
)

// Fixed member names at the archive root
const (
	ModelMember    = "model.json"
	ManifestMember = "manifest.json"
	VersionMember  = "version.txt"
	ReadmeMember   = "README.md"
)

// MemberMetadata is the generation envelope of a document member
type MemberMetadata struct {
	SourceFile   string `json:"source_file"`
	FileName     string `json:"file_name"`
	GeneratedAt  string `json:"generated_at"`
	BspecVersion string `json:"bspec_version"`
}

// DocumentMember is the JSON content of one <domain>/<CODE>.json member
type DocumentMember struct {
	Metadata      MemberMetadata         `json:"metadata"`
	Record        model.DocumentRecord   `json:"record"`
	Frontmatter   map[string]interface{} `json:"frontmatter,omitempty"`
	Content       string                 `json:"content"`
	ParsedContent string                 `json:"parsed_content,omitempty"`
}

// ModelMetadata is the content of model.json. Documents and domains are not
// repeated here; readers re-aggregate them from the document members.
type ModelMetadata struct {
	Version           string                       `json:"version"`
	GeneratedAt       time.Time                    `json:"generated_at"`
	Generator         string                       `json:"generator"`
	SourceRevision    string                       `json:"source_revision,omitempty"`
	VocabularyVersion string                       `json:"vocabulary_version"`
	DocumentOrder     []string                     `json:"document_order"`
	Schema            map[string]model.SchemaField `json:"schema"`
	ConformanceLevels []model.ConformanceLevel     `json:"conformance_levels"`
	IndustryProfiles  []model.IndustryProfile      `json:"industry_profiles"`
	// FileIndex omits the content of document files; it lives in their members
	FileIndex map[string]model.FileEntry `json:"file_index"`
}

// MemberInfo is one manifest line
type MemberInfo struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Manifest summarizes the archive. It lists every member except itself.
type Manifest struct {
	Name          string       `json:"name"`
	Version       string       `json:"version"`
	GeneratedAt   time.Time    `json:"generated_at"`
	DocumentCount int          `json:"document_count"`
	DomainCount   int          `json:"domain_count"`
	FileCount     int          `json:"file_count"`
	MemberCount   int          `json:"member_count"`
	TotalSize     int64        `json:"total_size"`
	Members       []MemberInfo `json:"members"`
}

// Member is one archive entry held in memory
type Member struct {
	Path string
	Data []byte
}

// ArchiveName derives the archive file name from the model version:
// ("bspec", "1.0.0") -> "bspec-v1-0-0.tgz".
func ArchiveName(prefix, version string) string {
	safe := strings.NewReplacer(".", "-", "+", "-", "/", "-", " ", "-").Replace(version)
	return fmt.Sprintf("%s-v%s.tgz", prefix, safe)
}

// DocumentPath is the member path of one document: <domain-slug>/<CODE>.json
func DocumentPath(m *model.CanonicalModel, code string) string {
	slug := "general"
	if d, ok := m.DomainOf(code); ok && d.Slug != "" {
		slug = d.Slug
	}
	return path.Join(slug, code+".json")
}

// BuildMembers renders every archive member, sorted by path.
func BuildMembers(m *model.CanonicalModel, archiveName string, includeDocs bool) ([]Member, error) {
	stamp := m.GeneratedAt.UTC().Format(time.RFC3339)
	var members []Member

	for _, doc := range m.OrderedDocuments() {
		if !model.ValidCode(doc.Code) {
			return nil, errors.Mark(errors.Newf("document code %q cannot name an archive member", doc.Code), errors.ErrInvariant)
		}
		entry := m.FileIndex[doc.SourcePath]
		content := DocumentMember{
			Metadata: MemberMetadata{
				SourceFile:   doc.SourcePath,
				FileName:     path.Base(doc.SourcePath),
				GeneratedAt:  stamp,
				BspecVersion: m.Version,
			},
			Record:        doc,
			Content:       entry.Content,
			ParsedContent: entry.ParsedContent,
		}
		if entry.HasFrontmatter && len(entry.Frontmatter) > 0 {
			content.Frontmatter = entry.Frontmatter
		}
		data, err := marshal(content)
		if err != nil {
			return nil, errors.Wrapf(err, "encode %s", doc.Code)
		}
		members = append(members, Member{Path: DocumentPath(m, doc.Code), Data: data})
	}

	meta := ModelMetadata{
		Version:           m.Version,
		GeneratedAt:       m.GeneratedAt,
		Generator:         m.Generator,
		SourceRevision:    m.SourceRevision,
		VocabularyVersion: m.VocabularyVersion,
		DocumentOrder:     m.DocumentOrder,
		Schema:            m.Schema,
		ConformanceLevels: m.ConformanceLevels,
		IndustryProfiles:  m.IndustryProfiles,
		FileIndex:         indexWithoutDocumentContent(m),
	}
	data, err := marshal(meta)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s", ModelMember)
	}
	members = append(members, Member{Path: ModelMember, Data: data})

	if includeDocs {
		members = append(members,
			Member{Path: VersionMember, Data: []byte(m.Version)},
			Member{Path: ReadmeMember, Data: []byte(readme(m, archiveName))},
		)
	}

	manifest := Manifest{
		Name:          archiveName,
		Version:       m.Version,
		GeneratedAt:   m.GeneratedAt,
		DocumentCount: len(m.Documents),
		DomainCount:   len(m.Domains),
		FileCount:     len(m.FileIndex),
	}
	sortMembers(members)
	for _, mem := range members {
		manifest.Members = append(manifest.Members, MemberInfo{Path: mem.Path, Size: int64(len(mem.Data))})
		manifest.TotalSize += int64(len(mem.Data))
	}
	manifest.MemberCount = len(manifest.Members)
	data, err = marshal(manifest)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s", ManifestMember)
	}
	members = append(members, Member{Path: ManifestMember, Data: data})

	sortMembers(members)
	return members, nil
}

func indexWithoutDocumentContent(m *model.CanonicalModel) map[string]model.FileEntry {
	docPaths := make(map[string]bool, len(m.Documents))
	for _, doc := range m.Documents {
		docPaths[doc.SourcePath] = true
	}
	out := make(map[string]model.FileEntry, len(m.FileIndex))
	for p, entry := range m.FileIndex {
		if docPaths[p] {
			entry.Content = ""
			entry.ParsedContent = ""
		}
		out[p] = entry
	}
	return out
}

func sortMembers(members []Member) {
	sort.Slice(members, func(i, j int) bool { return members[i].Path < members[j].Path })
}

// marshal is indented, HTML-unescaped JSON with a trailing newline
func marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func readme(m *model.CanonicalModel, archiveName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# BSpec JSON SDK\n\n")
	fmt.Fprintf(&b, "JSON package for the BSpec v%s specification, generated by %s.\n\n", m.Version, m.Generator)
	fmt.Fprintf(&b, "## Contents\n\n")
	fmt.Fprintf(&b, "- `<domain>/<CODE>.json` - one file per document type\n")
	fmt.Fprintf(&b, "- `%s` - model metadata: schema, conformance levels, industry profiles, file index\n", ModelMember)
	fmt.Fprintf(&b, "- `%s` - member list with sizes\n", ManifestMember)
	fmt.Fprintf(&b, "- `%s` - version identifier\n\n", VersionMember)
	fmt.Fprintf(&b, "## Statistics\n\n")
	fmt.Fprintf(&b, "- **Archive**: %s\n", archiveName)
	fmt.Fprintf(&b, "- **Version**: %s\n", m.Version)
	fmt.Fprintf(&b, "- **Document Types**: %d\n", len(m.Documents))
	fmt.Fprintf(&b, "- **Domains**: %d\n", len(m.Domains))
	fmt.Fprintf(&b, "- **Files**: %d\n", len(m.FileIndex))
	fmt.Fprintf(&b, "- **Generated**: %s\n", m.GeneratedAt.UTC().Format(time.RFC3339))
	if m.SourceRevision != "" {
		fmt.Fprintf(&b, "- **Source Revision**: %s\n", m.SourceRevision)
	}
	fmt.Fprintf(&b, "\n## Domains\n\n")
	for _, d := range m.OrderedDomains() {
		fmt.Fprintf(&b, "- %s (`%s/`): %s\n", d.DisplayName, d.Slug, strings.Join(d.DocumentCodes, ", "))
	}
	return b.String()
}
