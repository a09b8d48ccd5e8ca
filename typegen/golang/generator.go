// Package golang renders the Go module: structs, typed constants, an
// embedded-data BSpec container and go.mod. Every .go file is passed through
// goimports and gofumpt before it is written.
package golang

import (
	"fmt"
	"path"
	"strings"

	"golang.org/x/tools/imports"
	"mvdan.cc/gofumpt/format"

	"github.com/teranos/bspecgen/errors"
	"github.com/teranos/bspecgen/typegen"
	"github.com/teranos/bspecgen/typegen/util"
)

const (
	dataFile  = "bspec-data.json"
	goVersion = "1.21"
)

// Generator implements typegen.Generator for Go
type Generator struct{}

// NewGenerator creates a new Go generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Language returns "go"
func (g *Generator) Language() string { return "go" }

// DataPath returns the embedded JSON location
func (g *Generator) DataPath(typegen.Options) string { return dataFile }

// ManifestPath returns "version.go", which holds the Version constant.
// go.mod carries no version of its own.
func (g *Generator) ManifestPath() string { return "version.go" }

// TypeMapping defines how IR scalar kinds map to Go types
var TypeMapping = map[typegen.Kind]string{
	typegen.KindString: "string",
	typegen.KindInt:    "int",
	typegen.KindBool:   "bool",
}

// typeConverterConfig is the Go-specific type conversion configuration
var typeConverterConfig = &typegen.TypeConverterConfig{
	TypeMapping:          TypeMapping,
	ArrayFormat:          func(elem string) string { return "[]" + elem },
	MapFormat:            func(val string) string { return "map[string]" + val },
	StringMapUnknownType: "map[string]any",
	UnknownType:          "any",
}

// initialisms keep Go's spelling of common acronyms in field names
var initialisms = map[string]string{
	"id":   "ID",
	"url":  "URL",
	"json": "JSON",
}

// FieldName converts a canonical snake_case key to an exported Go field name
func FieldName(key string) string {
	var sb strings.Builder
	for _, w := range strings.Split(key, "_") {
		if w == "" {
			continue
		}
		if ini, ok := initialisms[w]; ok {
			sb.WriteString(ini)
			continue
		}
		sb.WriteString(util.ToPascalCase(w))
	}
	return sb.String()
}

// PackageName derives the package clause from a module path
// ("github.com/bspec-foundation/bspec-go" -> "bspec")
func PackageName(module string) string {
	base := path.Base(module)
	base = strings.TrimSuffix(base, "-go")
	base = strings.TrimPrefix(base, "go-")
	var sb strings.Builder
	for _, r := range strings.ToLower(base) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9' && sb.Len() > 0) {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "bspec"
	}
	return sb.String()
}

// Generate renders the complete Go module
func (g *Generator) Generate(ir *typegen.IR, opts typegen.Options) ([]typegen.File, error) {
	module := opts.Package
	if module == "" {
		module = "github.com/bspec-foundation/bspec-go"
	}
	pkg := PackageName(module)
	header := fileHeader(ir)

	sources := []struct {
		name string
		src  string
	}{
		{"version.go", GenerateVersion(header, pkg, ir)},
		{"types.go", GenerateTypes(header, pkg, ir)},
		{"constants.go", GenerateConstants(header, pkg, ir)},
		{"bspec.go", header + "\npackage " + pkg + "\n" + containerSource},
	}

	files := []typegen.File{
		{Path: "go.mod", Data: []byte(fmt.Sprintf("module %s\n\ngo %s\n", module, goVersion))},
		{Path: "version.txt", Data: []byte(ir.Version + "\n")},
		{Path: dataFile, Data: ir.Data},
	}
	for _, s := range sources {
		formatted, err := FormatSource(s.name, []byte(s.src), module)
		if err != nil {
			return nil, err
		}
		files = append(files, typegen.File{Path: s.name, Data: formatted})
	}
	return files, nil
}

// FormatSource fixes import grouping with goimports, then applies gofumpt
func FormatSource(filename string, src []byte, module string) ([]byte, error) {
	out, err := imports.Process(filename, src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "goimports %s", filename)
	}
	out, err = format.Source(out, format.Options{
		LangVersion: "go" + goVersion,
		ModulePath:  module,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "gofumpt %s", filename)
	}
	return out, nil
}

func fileHeader(ir *typegen.IR) string {
	var sb strings.Builder
	for _, line := range typegen.Header(ir) {
		sb.WriteString("// " + line + "\n")
	}
	return sb.String()
}

// GenerateVersion renders version.go
func GenerateVersion(header, pkg string, ir *typegen.IR) string {
	return fmt.Sprintf("%s\npackage %s\n\n// Version is the BSpec version this module was generated from.\nconst Version = %s\n",
		header, pkg, util.Quote(ir.Version))
}

// GenerateStruct creates a Go struct with json tags matching the canonical keys
func GenerateStruct(rec typegen.Record) string {
	var sb strings.Builder
	if rec.Doc != "" {
		sb.WriteString(fmt.Sprintf("// %s is %s.\n", rec.Name, lowerFirst(rec.Doc)))
	}
	sb.WriteString(fmt.Sprintf("type %s struct {\n", rec.Name))
	for _, f := range rec.Fields {
		goType := typegen.ConvertType(f.Type, typeConverterConfig)
		tag := f.Name
		if f.Optional {
			tag += ",omitempty"
		}
		comment := ""
		if f.Doc != "" {
			comment = " // " + f.Doc
		}
		sb.WriteString(fmt.Sprintf("\t%s %s `json:\"%s\"`%s\n", FieldName(f.Name), goType, tag, comment))
	}
	sb.WriteString("}\n")
	return sb.String()
}

// GenerateEnum creates a named string type with one constant per value
func GenerateEnum(e typegen.Enum) string {
	var sb strings.Builder
	if e.Doc != "" {
		sb.WriteString(fmt.Sprintf("// %s: %s\n", e.Name, e.Doc))
	}
	sb.WriteString(fmt.Sprintf("type %s string\n\n", e.Name))
	sb.WriteString("const (\n")
	for _, v := range e.Values {
		sb.WriteString(fmt.Sprintf("\t%s%s %s = %s\n", e.Name, util.PascalFromConst(util.ConstName(v)), e.Name, util.Quote(v)))
	}
	sb.WriteString(")\n")
	return sb.String()
}

// GenerateTypes renders types.go
func GenerateTypes(header, pkg string, ir *typegen.IR) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\npackage " + pkg + "\n")
	for _, e := range ir.Enums {
		sb.WriteString("\n")
		sb.WriteString(GenerateEnum(e))
	}
	for _, rec := range ir.Records {
		sb.WriteString("\n")
		sb.WriteString(GenerateStruct(rec))
	}
	return sb.String()
}

// GenerateConstGroup renders a named string type and one typed constant per value
func GenerateConstGroup(g typegen.ConstGroup) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("// %s enumerates %s.\n", g.Type, lowerFirst(g.Doc)))
	sb.WriteString(fmt.Sprintf("type %s string\n", g.Type))
	if len(g.Constants) == 0 {
		return sb.String()
	}
	sb.WriteString("\nconst (\n")
	for _, c := range g.Constants {
		sb.WriteString(fmt.Sprintf("\t%s %s = %s\n", g.Ident(c), g.Type, util.Quote(c.Value)))
	}
	sb.WriteString(")\n")
	return sb.String()
}

// GenerateConstants renders constants.go
func GenerateConstants(header, pkg string, ir *typegen.IR) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\npackage " + pkg + "\n")
	for _, g := range ir.Groups {
		sb.WriteString("\n")
		sb.WriteString(GenerateConstGroup(g))
	}
	return sb.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

const containerSource = `
import (
	"bytes"
	_ "embed"
	"encoding/json"
	"sort"
	"strings"
)

//go:embed bspec-data.json
var bundled []byte

// BSpec is a read-only view of one BSpec model.
type BSpec struct {
	data BSpecData
}

// Load returns a container over the model embedded in this module.
func Load() (*BSpec, error) {
	return FromJSON(bundled)
}

// MustLoad is Load that panics on a corrupt embedded model.
func MustLoad() *BSpec {
	s, err := Load()
	if err != nil {
		panic(err)
	}
	return s
}

// FromJSON parses canonical JSON produced by ToJSON.
func FromJSON(data []byte) (*BSpec, error) {
	var d BSpecData
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &BSpec{data: d}, nil
}

func (s *BSpec) GetVersion() string {
	return s.data.Version
}

// GetDomain looks a domain up by name. Untyped string constants work too.
func (s *BSpec) GetDomain(name DomainName) (Domain, bool) {
	d, ok := s.data.Domains[string(name)]
	return d, ok
}

func (s *BSpec) GetDomains() []Domain {
	out := make([]Domain, 0, len(s.data.DomainOrder))
	for _, name := range s.data.DomainOrder {
		if d, ok := s.data.Domains[name]; ok {
			out = append(out, d)
		}
	}
	return out
}

func (s *BSpec) GetDocumentType(code DocumentCode) (DocumentType, bool) {
	d, ok := s.data.Documents[string(code)]
	return d, ok
}

func (s *BSpec) GetDocumentTypes() []DocumentType {
	return s.resolve(s.data.DocumentOrder)
}

func (s *BSpec) GetDocumentTypesForDomain(domain DomainName) []DocumentType {
	d, ok := s.data.Domains[string(domain)]
	if !ok {
		return nil
	}
	return s.resolve(d.DocumentCodes)
}

func (s *BSpec) GetFile(path string) (FileEntry, bool) {
	f, ok := s.data.FileIndex[path]
	return f, ok
}

// GetFilesByType returns files of one type, sorted by path.
func (s *BSpec) GetFilesByType(fileType string) []FileEntry {
	paths := make([]string, 0, len(s.data.FileIndex))
	for p, f := range s.data.FileIndex {
		if f.Type == fileType {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	out := make([]FileEntry, len(paths))
	for i, p := range paths {
		out[i] = s.data.FileIndex[p]
	}
	return out
}

// SearchDocumentTypes matches query case-insensitively against code, name and purpose.
func (s *BSpec) SearchDocumentTypes(query string) []DocumentType {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []DocumentType
	for _, d := range s.GetDocumentTypes() {
		if q == "" ||
			strings.Contains(strings.ToLower(d.Code), q) ||
			strings.Contains(strings.ToLower(d.Name), q) ||
			strings.Contains(strings.ToLower(d.Purpose), q) {
			out = append(out, d)
		}
	}
	return out
}

func (s *BSpec) Summary() Summary {
	sum := Summary{
		Version:       s.data.Version,
		DocumentCount: len(s.data.Documents),
		DomainCount:   len(s.data.Domains),
		FileCount:     len(s.data.FileIndex),
		Domains:       []DomainSummary{},
	}
	for _, d := range s.GetDomains() {
		sum.Domains = append(sum.Domains, DomainSummary{Name: d.Name, DocumentCount: d.DocumentCount})
	}
	return sum
}

// Data returns the underlying model.
func (s *BSpec) Data() BSpecData {
	return s.data
}

// ToJSON serializes back to the canonical form.
func (s *BSpec) ToJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *BSpec) resolve(codes []string) []DocumentType {
	out := make([]DocumentType, 0, len(codes))
	for _, code := range codes {
		if d, ok := s.data.Documents[code]; ok {
			out = append(out, d)
		}
	}
	return out
}
`
