// Package typegen projects a canonical model into a language-neutral IR and
// drives the per-language generators that render it into SDK source trees.
//
// Every name a generator prints is derived from the IR with the transforms
// in typegen/util, so all targets agree on field names, constant names and
// enumerated values.
package typegen

import (
	"bytes"
	"encoding/json"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/teranos/bspecgen/errors"
	"github.com/teranos/bspecgen/model"
	"github.com/teranos/bspecgen/typegen/util"
)

// Kind is the shape of a record field
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
	KindStringList
	KindRecord     // another record, by name
	KindRecordList // list of records
	KindRecordMap  // string-keyed map of records
	KindAnyMap     // string-keyed map of arbitrary JSON
)

// FieldType is a field's Kind plus the record it refers to, if any
type FieldType struct {
	Kind Kind
	Ref  string
}

// Field is one record field. Name is the canonical snake_case JSON key.
type Field struct {
	Name     string
	Type     FieldType
	Optional bool
	Doc      string
}

// Record is one type definition shared by every target
type Record struct {
	Name   string
	Doc    string
	Fields []Field
}

// Enum is a closed set of string values, rendered as a union or enum type
type Enum struct {
	Name   string
	Field  string // Schema field the values belong to
	Doc    string
	Values []string
}

// Constant is one named value. Name is the canonical constant name.
type Constant struct {
	Name  string
	Value string
}

// GroupKind identifies a constant group
type GroupKind string

const (
	GroupDocumentCodes     GroupKind = "document_codes"
	GroupDomains           GroupKind = "domains"
	GroupConformanceLevels GroupKind = "conformance_levels"
	GroupIndustryProfiles  GroupKind = "industry_profiles"
)

// ConstGroup is a named set of constants. Type is the PascalCase name
// targets give the group (DocumentCode, DomainName, ...).
type ConstGroup struct {
	Kind GroupKind
	Type string
	// Prefix qualifies constants in targets with one flat namespace (Go).
	// Empty means the canonical name is used as is.
	Prefix    string
	Doc       string
	Constants []Constant
}

// Ident is the flat-namespace identifier of c: the canonical name, or
// Prefix plus its PascalCase form
func (g ConstGroup) Ident(c Constant) string {
	return flatIdent(g.Prefix, c.Name)
}

func flatIdent(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + util.PascalFromConst(name)
}

// GroupMemberNames are declared inside every group's own namespace next to
// the constants (Rust's ALL slice), so no constant may take them.
var GroupMemberNames = []string{"ALL"}

// ContainerIdents are the top-level identifiers a flat-namespace container
// declares besides records, enums and group types.
var ContainerIdents = []string{"BSpec", "Load", "MustLoad", "FromJSON", "Version"}

// Names returns the constant names in order
func (g ConstGroup) Names() []string {
	out := make([]string, len(g.Constants))
	for i, c := range g.Constants {
		out[i] = c.Name
	}
	return out
}

// IR is everything a generator needs to render one target
type IR struct {
	Version        string
	GeneratedAt    string // RFC3339, UTC
	Generator      string
	SourceRevision string

	Records []Record
	Enums   []Enum
	Groups  []ConstGroup

	// Data is the canonical JSON bundle shipped with every target
	Data []byte

	Model *model.CanonicalModel
}

// Group returns the constant group of the given kind
func (ir *IR) Group(kind GroupKind) ConstGroup {
	for _, g := range ir.Groups {
		if g.Kind == kind {
			return g
		}
	}
	return ConstGroup{Kind: kind}
}

// Record returns the record with the given name
func (ir *IR) Record(name string) (Record, bool) {
	for _, r := range ir.Records {
		if r.Name == name {
			return r, true
		}
	}
	return Record{}, false
}

// Project builds the IR for m. It is a pure function of the model.
func Project(m *model.CanonicalModel) (*IR, error) {
	data, err := CanonicalJSON(m)
	if err != nil {
		return nil, errors.Wrap(err, "encode canonical model")
	}

	ir := &IR{
		Version:        m.Version,
		GeneratedAt:    m.GeneratedAt.UTC().Format(time.RFC3339),
		Generator:      m.Generator,
		SourceRevision: m.SourceRevision,
		Records:        Records(),
		Enums:          schemaEnums(m),
		Data:           data,
		Model:          m,
	}

	codes := m.Codes()
	domains := make([]string, 0, len(m.DomainOrder))
	for _, d := range m.OrderedDomains() {
		domains = append(domains, d.Name)
	}
	sort.Strings(domains)
	var levels, profiles []string
	for _, l := range m.ConformanceLevels {
		levels = append(levels, l.Name)
	}
	for _, p := range m.IndustryProfiles {
		profiles = append(profiles, p.Name)
	}

	ir.Groups = []ConstGroup{
		{Kind: GroupDocumentCodes, Type: "DocumentCode", Doc: "Document type codes"},
		{Kind: GroupDomains, Type: "DomainName", Prefix: "Domain", Doc: "Business domain names"},
		{Kind: GroupConformanceLevels, Type: "ConformanceLevelName", Prefix: "Conformance", Doc: "Conformance level names, lowest tier first"},
		{Kind: GroupIndustryProfiles, Type: "IndustryProfileName", Prefix: "Profile", Doc: "Industry profile names"},
	}
	declared := ir.declaredIdents()
	for i, values := range [][]string{codes, domains, levels, profiles} {
		ir.Groups[i].Constants = nameConstants(values, ir.Groups[i].Prefix, declared)
	}
	return ir, nil
}

// declaredIdents returns every top-level identifier a flat-namespace target
// declares before its constants
func (ir *IR) declaredIdents() map[string]bool {
	declared := make(map[string]bool)
	for _, r := range ir.Records {
		declared[r.Name] = true
	}
	for _, e := range ir.Enums {
		declared[e.Name] = true
	}
	for _, g := range ir.Groups {
		declared[g.Type] = true
	}
	for _, name := range ContainerIdents {
		declared[name] = true
	}
	return declared
}

// nameConstants names each value. A name whose canonical or flat form is
// already used in the group, one of GroupMemberNames, or one whose flat
// identifier is in declared gets a numeric suffix, in value order.
func nameConstants(values []string, prefix string, declared map[string]bool) []Constant {
	used := make(map[string]bool, len(values))
	taken := func(name string) bool {
		ident := flatIdent(prefix, name)
		return used[name] || used[ident] || declared[ident] || slices.Contains(GroupMemberNames, name)
	}
	var out []Constant
	for _, v := range values {
		name := util.ConstName(v)
		if taken(name) {
			for i := 2; ; i++ {
				candidate := name + "_" + strconv.Itoa(i)
				if !taken(candidate) {
					name = candidate
					break
				}
			}
		}
		used[name] = true
		used[flatIdent(prefix, name)] = true
		out = append(out, Constant{Name: name, Value: v})
	}
	return out
}

// schemaEnums turns every schema field with allowed values into an enum,
// named Frontmatter<Field> so it never collides with a record name.
func schemaEnums(m *model.CanonicalModel) []Enum {
	var out []Enum
	for _, f := range m.SchemaFields() {
		if len(f.AllowedValues) == 0 {
			continue
		}
		out = append(out, Enum{
			Name:   "Frontmatter" + util.ToPascalCase(f.Name),
			Field:  f.Name,
			Doc:    f.Description,
			Values: append([]string(nil), f.AllowedValues...),
		})
	}
	return out
}

// CanonicalJSON is the serialized canonical form every target bundles and
// every container's toJSON reproduces. Required lists and maps are always
// present, never null.
func CanonicalJSON(m *model.CanonicalModel) ([]byte, error) {
	m = normalized(m)
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// normalized returns a shallow copy of m with nil required collections
// replaced by empty ones
func normalized(m *model.CanonicalModel) *model.CanonicalModel {
	out := *m
	out.Documents = make(map[string]model.DocumentRecord, len(m.Documents))
	for code, doc := range m.Documents {
		doc.Examples = nonNil(doc.Examples)
		out.Documents[code] = doc
	}
	out.Domains = make(map[string]model.DomainRecord, len(m.Domains))
	for name, d := range m.Domains {
		d.DocumentCodes = nonNil(d.DocumentCodes)
		out.Domains[name] = d
	}
	out.DocumentOrder = nonNil(m.DocumentOrder)
	out.DomainOrder = nonNil(m.DomainOrder)
	if out.Schema == nil {
		out.Schema = map[string]model.SchemaField{}
	}
	if out.FileIndex == nil {
		out.FileIndex = map[string]model.FileEntry{}
	}
	out.ConformanceLevels = make([]model.ConformanceLevel, 0, len(m.ConformanceLevels))
	for _, l := range m.ConformanceLevels {
		l.RequiredCodes = nonNil(l.RequiredCodes)
		out.ConformanceLevels = append(out.ConformanceLevels, l)
	}
	out.IndustryProfiles = make([]model.IndustryProfile, 0, len(m.IndustryProfiles))
	for _, p := range m.IndustryProfiles {
		p.AdditionalDocuments = nonNil(p.AdditionalDocuments)
		p.SpecializedMetrics = nonNil(p.SpecializedMetrics)
		out.IndustryProfiles = append(out.IndustryProfiles, p)
	}
	return &out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
