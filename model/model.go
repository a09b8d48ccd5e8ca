// Package model holds the canonical model every output is derived from and
// the Builder that assembles it from extracted facts.
package model

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// codePattern is the shape of a document type code: it becomes an archive
// member name and a constant in every target
var codePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidCode reports whether code is a letters-and-digits identifier
// (underscores and dashes allowed after the first character)
func ValidCode(code string) bool {
	return codePattern.MatchString(code)
}

// Example is an illustrative sub-record of a document type
type Example struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DocumentRecord is one document type's extracted facts
type DocumentRecord struct {
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Domain     string    `json:"domain"`
	Purpose    string    `json:"purpose"`
	SourcePath string    `json:"source_path"`
	Examples   []Example `json:"examples"`
}

// DomainRecord groups document types. DocumentCodes keeps first-seen order.
type DomainRecord struct {
	Name          string   `json:"name"`
	DisplayName   string   `json:"display_name"`
	Slug          string   `json:"slug"`
	Description   string   `json:"description"`
	DocumentCodes []string `json:"document_codes"`
	DocumentCount int      `json:"document_count"`
}

// Requiredness classifies when a front-matter field must be present
type Requiredness string

const (
	Required               Requiredness = "required"
	RequiredForAccepted    Requiredness = "required_for_accepted"
	RequiredForOperational Requiredness = "required_for_operational"
	Optional               Requiredness = "optional"
)

// ValueType is the shape of a front-matter field's value
type ValueType string

const (
	TypeString ValueType = "string"
	TypeDate   ValueType = "date"
	TypeArray  ValueType = "array"
	TypeEnum   ValueType = "enum"
)

// SchemaField is one recognized front-matter key
type SchemaField struct {
	Name              string       `json:"name"`
	Requiredness      Requiredness `json:"requiredness"`
	ValueType         ValueType    `json:"value_type"`
	ValidationPattern string       `json:"validation_pattern,omitempty"`
	Description       string       `json:"description"`
	AllowedValues     []string     `json:"allowed_values,omitempty"`
}

// ConformanceLevel is a completeness tier
type ConformanceLevel struct {
	Name                   string   `json:"name"`
	DisplayName            string   `json:"display_name"`
	MinimumDocumentCount   int      `json:"minimum_document_count"`
	RequiredCodes          []string `json:"required_codes"`
	Description            string   `json:"description"`
	AdditionalRequirements []string `json:"additional_requirements,omitempty"`
}

// IndustryProfile lists extra document types expected in one industry
type IndustryProfile struct {
	Name                string   `json:"name"`
	DisplayName         string   `json:"display_name"`
	AdditionalDocuments []string `json:"additional_documents"`
	SpecializedMetrics  []string `json:"specialized_metrics"`
	Description         string   `json:"description"`
}

// FileEntry is raw metadata for one file in the input tree
type FileEntry struct {
	Path           string                 `json:"path"`
	Name           string                 `json:"name"`
	Type           string                 `json:"type"`
	Extension      string                 `json:"extension"`
	Size           int64                  `json:"size"`
	HasFrontmatter bool                   `json:"has_frontmatter"`
	Frontmatter    map[string]interface{} `json:"frontmatter,omitempty"`
	Content        string                 `json:"content,omitempty"`
	ParsedContent  string                 `json:"parsed_content,omitempty"`
}

// CanonicalModel is the aggregate root
type CanonicalModel struct {
	Version           string    `json:"version"`
	GeneratedAt       time.Time `json:"generated_at"`
	Generator         string    `json:"generator"`
	SourceRevision    string    `json:"source_revision,omitempty"`
	VocabularyVersion string    `json:"vocabulary_version"`

	Documents map[string]DocumentRecord `json:"documents"`
	// DocumentOrder lists codes in the order their documents were read
	DocumentOrder []string                `json:"document_order"`
	Domains       map[string]DomainRecord `json:"domains"`
	// DomainOrder lists domain names in first-seen order
	DomainOrder []string `json:"domain_order"`

	Schema            map[string]SchemaField `json:"schema"`
	ConformanceLevels []ConformanceLevel     `json:"conformance_levels"`
	IndustryProfiles  []IndustryProfile      `json:"industry_profiles"`

	FileIndex map[string]FileEntry `json:"file_index"`
}

// OrderedDocuments returns documents in DocumentOrder
func (m *CanonicalModel) OrderedDocuments() []DocumentRecord {
	out := make([]DocumentRecord, 0, len(m.DocumentOrder))
	for _, code := range m.DocumentOrder {
		if doc, ok := m.Documents[code]; ok {
			out = append(out, doc)
		}
	}
	return out
}

// OrderedDomains returns domains in DomainOrder
func (m *CanonicalModel) OrderedDomains() []DomainRecord {
	out := make([]DomainRecord, 0, len(m.DomainOrder))
	for _, name := range m.DomainOrder {
		if d, ok := m.Domains[name]; ok {
			out = append(out, d)
		}
	}
	return out
}

// SchemaFields returns schema fields sorted by name
func (m *CanonicalModel) SchemaFields() []SchemaField {
	out := make([]SchemaField, 0, len(m.Schema))
	for _, f := range m.Schema {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Codes returns every document code, sorted
func (m *CanonicalModel) Codes() []string {
	out := make([]string, 0, len(m.Documents))
	for code := range m.Documents {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// DomainOf returns the domain record a document belongs to
func (m *CanonicalModel) DomainOf(code string) (DomainRecord, bool) {
	doc, ok := m.Documents[code]
	if !ok {
		return DomainRecord{}, false
	}
	d, ok := m.Domains[doc.Domain]
	return d, ok
}

// Search matches query case-insensitively against code, name and purpose.
// Results follow DocumentOrder.
func (m *CanonicalModel) Search(query string) []DocumentRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []DocumentRecord
	for _, doc := range m.OrderedDocuments() {
		if q == "" ||
			strings.Contains(strings.ToLower(doc.Code), q) ||
			strings.Contains(strings.ToLower(doc.Name), q) ||
			strings.Contains(strings.ToLower(doc.Purpose), q) {
			out = append(out, doc)
		}
	}
	return out
}
