// Package python renders the Python SDK: dataclasses with from_dict/to_dict,
// str Enum constant classes, a BSpec container and pyproject.toml.
package python

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/bspecgen/errors"
	"github.com/teranos/bspecgen/typegen"
	"github.com/teranos/bspecgen/typegen/util"
)

// Generator implements typegen.Generator for Python
type Generator struct{}

// NewGenerator creates a new Python generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Language returns "python"
func (g *Generator) Language() string { return "python" }

// DataPath returns the bundled JSON location inside the import package
func (g *Generator) DataPath(opts typegen.Options) string {
	return path.Join(ImportName(distribution(opts)), dataFile)
}

// ManifestPath returns "pyproject.toml"
func (g *Generator) ManifestPath() string { return "pyproject.toml" }

const dataFile = "bspec-data.json"

// TypeMapping defines how IR scalar kinds map to Python types
var TypeMapping = map[typegen.Kind]string{
	typegen.KindString: "str",
	typegen.KindInt:    "int",
	typegen.KindBool:   "bool",
}

// typeConverterConfig is the Python-specific type conversion configuration
var typeConverterConfig = &typegen.TypeConverterConfig{
	TypeMapping:          TypeMapping,
	ArrayFormat:          func(elem string) string { return "list[" + elem + "]" },
	MapFormat:            func(val string) string { return fmt.Sprintf("dict[str, %s]", val) },
	StringMapUnknownType: "dict[str, Any]",
	UnknownType:          "Any",
}

// pythonKeywords are reserved words in Python that need special handling
var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
	// Soft keywords (Python 3.10+)
	"match": true, "case": true, "type": true,
}

// toPythonIdent converts an identifier to a valid Python identifier
// Adds underscore suffix for Python keywords
func toPythonIdent(s string) string {
	if pythonKeywords[s] {
		return s + "_"
	}
	return s
}

// ImportName derives the import package from a distribution name
// ("bspec-sdk" -> "bspec_sdk")
func ImportName(distribution string) string {
	name := util.ToSnakeCase(distribution)
	if name == "" {
		return "bspec"
	}
	return toPythonIdent(name)
}

func distribution(opts typegen.Options) string {
	if opts.Package == "" {
		return "bspec"
	}
	return opts.Package
}

// Generate renders the complete Python package
func (g *Generator) Generate(ir *typegen.IR, opts typegen.Options) ([]typegen.File, error) {
	dist := distribution(opts)
	pkg := ImportName(dist)

	pyproject, err := PyProject(dist, pkg, ir.Version)
	if err != nil {
		return nil, err
	}

	header := fileHeader(ir)
	return []typegen.File{
		{Path: "pyproject.toml", Data: pyproject},
		{Path: "version.txt", Data: []byte(ir.Version + "\n")},
		{Path: path.Join(pkg, dataFile), Data: ir.Data},
		{Path: path.Join(pkg, "py.typed"), Data: []byte{}},
		{Path: path.Join(pkg, "__init__.py"), Data: []byte(GenerateInit(header, ir))},
		{Path: path.Join(pkg, "types.py"), Data: []byte(GenerateTypes(header, ir))},
		{Path: path.Join(pkg, "constants.py"), Data: []byte(GenerateConstants(header, ir))},
		{Path: path.Join(pkg, "bspec.py"), Data: []byte(header + "\n" + containerSource)},
	}, nil
}

func fileHeader(ir *typegen.IR) string {
	var sb strings.Builder
	for _, line := range typegen.Header(ir) {
		sb.WriteString("# " + line + "\n")
	}
	return sb.String()
}

type fieldInfo struct {
	ident      string // Python attribute
	key        string // JSON key
	pyType     string
	isOptional bool
	field      typegen.Field
}

// GenerateDataclass creates a Python dataclass with from_dict and to_dict
func GenerateDataclass(rec typegen.Record) string {
	var fields []fieldInfo
	for _, f := range rec.Fields {
		pyType := typegen.ConvertType(f.Type, typeConverterConfig)
		if f.Optional {
			pyType += " | None"
		}
		fields = append(fields, fieldInfo{
			ident:      toPythonIdent(f.Name),
			key:        f.Name,
			pyType:     pyType,
			isOptional: f.Optional,
			field:      f,
		})
	}

	// Required fields first: dataclass fields with defaults must come last
	sort.SliceStable(fields, func(i, j int) bool {
		return !fields[i].isOptional && fields[j].isOptional
	})

	var sb strings.Builder
	sb.WriteString("@dataclass\n")
	sb.WriteString(fmt.Sprintf("class %s:\n", rec.Name))
	if rec.Doc != "" {
		sb.WriteString(fmt.Sprintf("    \"\"\"%s\"\"\"\n\n", rec.Doc))
	}
	if len(fields) == 0 {
		sb.WriteString("    pass\n")
		return sb.String()
	}

	for _, f := range fields {
		if f.field.Doc != "" {
			sb.WriteString(fmt.Sprintf("    # %s\n", f.field.Doc))
		}
		if f.isOptional {
			sb.WriteString(fmt.Sprintf("    %s: %s = None\n", f.ident, f.pyType))
		} else {
			sb.WriteString(fmt.Sprintf("    %s: %s\n", f.ident, f.pyType))
		}
	}

	// from_dict
	sb.WriteString("\n    @classmethod\n")
	sb.WriteString(fmt.Sprintf("    def from_dict(cls, data: dict[str, Any]) -> %s:\n", rec.Name))
	sb.WriteString("        return cls(\n")
	for _, f := range fields {
		sb.WriteString(fmt.Sprintf("            %s=%s,\n", f.ident, decodeExpr(f.field)))
	}
	sb.WriteString("        )\n")

	// to_dict
	sb.WriteString("\n    def to_dict(self) -> dict[str, Any]:\n")
	sb.WriteString("        out: dict[str, Any] = {}\n")
	for _, f := range rec.Fields {
		ident := toPythonIdent(f.Name)
		expr := encodeExpr(f, "self."+ident)
		if f.Optional {
			sb.WriteString(fmt.Sprintf("        if self.%s is not None:\n", ident))
			sb.WriteString(fmt.Sprintf("            out[%s] = %s\n", util.Quote(f.Name), expr))
		} else {
			sb.WriteString(fmt.Sprintf("        out[%s] = %s\n", util.Quote(f.Name), expr))
		}
	}
	sb.WriteString("        return out\n")
	return sb.String()
}

// decodeExpr reads one field out of a dict named data
func decodeExpr(f typegen.Field) string {
	key := util.Quote(f.Name)
	switch f.Type.Kind {
	case typegen.KindRecord:
		if f.Optional {
			return fmt.Sprintf("%s.from_dict(data[%s]) if data.get(%s) is not None else None", f.Type.Ref, key, key)
		}
		return fmt.Sprintf("%s.from_dict(data.get(%s) or {})", f.Type.Ref, key)
	case typegen.KindRecordList:
		return fmt.Sprintf("[%s.from_dict(v) for v in data.get(%s) or []]", f.Type.Ref, key)
	case typegen.KindRecordMap:
		return fmt.Sprintf("{k: %s.from_dict(v) for k, v in (data.get(%s) or {}).items()}", f.Type.Ref, key)
	case typegen.KindStringList:
		if f.Optional {
			return fmt.Sprintf("list(data[%s]) if data.get(%s) is not None else None", key, key)
		}
		return fmt.Sprintf("list(data.get(%s) or [])", key)
	case typegen.KindAnyMap:
		return fmt.Sprintf("data.get(%s)", key)
	}
	if f.Optional {
		return fmt.Sprintf("data.get(%s)", key)
	}
	return fmt.Sprintf("data.get(%s, %s)", key, zeroValue(f.Type.Kind))
}

func zeroValue(k typegen.Kind) string {
	switch k {
	case typegen.KindInt:
		return "0"
	case typegen.KindBool:
		return "False"
	default:
		return `""`
	}
}

// encodeExpr turns an attribute back into plain JSON data
func encodeExpr(f typegen.Field, attr string) string {
	switch f.Type.Kind {
	case typegen.KindRecord:
		return attr + ".to_dict()"
	case typegen.KindRecordList:
		return fmt.Sprintf("[v.to_dict() for v in %s]", attr)
	case typegen.KindRecordMap:
		return fmt.Sprintf("{k: v.to_dict() for k, v in %s.items()}", attr)
	case typegen.KindStringList:
		return "list(" + attr + ")"
	}
	return attr
}

// GenerateEnum creates a Python Enum class from values
// Uses (str, Enum) for JSON serialization compatibility
func GenerateEnum(name, doc string, constants []typegen.Constant) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("class %s(str, Enum):\n", name))
	if doc != "" {
		sb.WriteString(fmt.Sprintf("    \"\"\"%s\"\"\"\n\n", doc))
	}
	if len(constants) == 0 {
		sb.WriteString("    pass\n")
		return sb.String()
	}
	for _, c := range constants {
		sb.WriteString(fmt.Sprintf("    %s = %s\n", c.Name, util.Quote(c.Value)))
	}
	return sb.String()
}

// enumConstants names enum values with the shared transform
func enumConstants(values []string) []typegen.Constant {
	out := make([]typegen.Constant, len(values))
	for i, v := range values {
		out[i] = typegen.Constant{Name: util.ConstName(v), Value: v}
	}
	return out
}

// GenerateTypes renders types.py
func GenerateTypes(header string, ir *typegen.IR) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n\"\"\"Record types of the BSpec model.\"\"\"\n\n")
	sb.WriteString("from __future__ import annotations\n\n")
	sb.WriteString("from dataclasses import dataclass\n")
	sb.WriteString("from enum import Enum\n")
	sb.WriteString("from typing import Any\n")

	for _, e := range ir.Enums {
		sb.WriteString("\n\n")
		sb.WriteString(GenerateEnum(e.Name, e.Doc, enumConstants(e.Values)))
	}
	for _, rec := range ir.Records {
		sb.WriteString("\n\n")
		sb.WriteString(GenerateDataclass(rec))
	}

	sb.WriteString("\n\n__all__ = [\n")
	for _, name := range typeNames(ir) {
		sb.WriteString(fmt.Sprintf("    %s,\n", util.Quote(name)))
	}
	sb.WriteString("]\n")
	return sb.String()
}

// GenerateConstants renders constants.py
func GenerateConstants(header string, ir *typegen.IR) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n\"\"\"Named constants for document codes, domains, conformance levels and profiles.\"\"\"\n\n")
	sb.WriteString("from __future__ import annotations\n\n")
	sb.WriteString("from enum import Enum\n\n")
	sb.WriteString(fmt.Sprintf("VERSION = %s\n", util.Quote(ir.Version)))

	names := []string{"VERSION"}
	for _, g := range ir.Groups {
		sb.WriteString("\n\n")
		sb.WriteString(GenerateEnum(g.Type, g.Doc, g.Constants))
		names = append(names, g.Type)
	}

	sb.WriteString("\n\n__all__ = [\n")
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("    %s,\n", util.Quote(name)))
	}
	sb.WriteString("]\n")
	return sb.String()
}

// GenerateInit renders __init__.py re-exporting the public surface
func GenerateInit(header string, ir *typegen.IR) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString(fmt.Sprintf("\n\"\"\"BSpec v%s SDK.\"\"\"\n\n", ir.Version))
	sb.WriteString("from .bspec import BSpec, load\n")
	sb.WriteString("from .constants import *  # noqa: F401,F403\n")
	sb.WriteString("from .types import *  # noqa: F401,F403\n")
	sb.WriteString("from .constants import VERSION\n\n")
	sb.WriteString("__version__ = VERSION\n")
	return sb.String()
}

func typeNames(ir *typegen.IR) []string {
	var names []string
	for _, e := range ir.Enums {
		names = append(names, e.Name)
	}
	for _, r := range ir.Records {
		names = append(names, r.Name)
	}
	return names
}

type pyProject struct {
	BuildSystem buildSystem `toml:"build-system"`
	Project     project     `toml:"project"`
	Tool        tool        `toml:"tool"`
}

type buildSystem struct {
	Requires     []string `toml:"requires"`
	BuildBackend string   `toml:"build-backend"`
}

type project struct {
	Name           string `toml:"name"`
	Version        string `toml:"version"`
	Description    string `toml:"description"`
	RequiresPython string `toml:"requires-python"`
}

type tool struct {
	Hatch hatch `toml:"hatch"`
}

type hatch struct {
	Build hatchBuild `toml:"build"`
}

type hatchBuild struct {
	Targets hatchTargets `toml:"targets"`
}

type hatchTargets struct {
	Wheel hatchWheel `toml:"wheel"`
}

type hatchWheel struct {
	Packages []string `toml:"packages"`
}

// PyProject renders pyproject.toml for the distribution
func PyProject(dist, importName, version string) ([]byte, error) {
	doc := pyProject{
		BuildSystem: buildSystem{
			Requires:     []string{"hatchling"},
			BuildBackend: "hatchling.build",
		},
		Project: project{
			Name:           dist,
			Version:        version,
			Description:    fmt.Sprintf("Python SDK for the BSpec v%s specification", version),
			RequiresPython: ">=3.9",
		},
		Tool: tool{Hatch: hatch{Build: hatchBuild{Targets: hatchTargets{Wheel: hatchWheel{
			Packages: []string{importName},
		}}}}},
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "encode pyproject.toml")
	}
	return data, nil
}

const containerSource = `"""Lookup container over the bundled specification model."""

from __future__ import annotations

import json
from importlib import resources
from typing import Any

from .types import BSpecData, DocumentType, Domain, DomainSummary, FileEntry, Summary


class BSpec:
    """Read-only view of one BSpec model."""

    def __init__(self, data: BSpecData | None = None) -> None:
        self._data = data if data is not None else _load_bundled()

    @classmethod
    def from_json(cls, text: str) -> BSpec:
        return cls(BSpecData.from_dict(json.loads(text)))

    def get_version(self) -> str:
        return self._data.version

    def get_domain(self, name: str) -> Domain | None:
        return self._data.domains.get(name)

    def get_domains(self) -> list[Domain]:
        return [self._data.domains[n] for n in self._data.domain_order if n in self._data.domains]

    def get_document_type(self, code: str) -> DocumentType | None:
        return self._data.documents.get(code)

    def get_document_types(self) -> list[DocumentType]:
        return self._resolve(self._data.document_order)

    def get_document_types_for_domain(self, domain: str) -> list[DocumentType]:
        d = self._data.domains.get(domain)
        return self._resolve(d.document_codes) if d is not None else []

    def get_file(self, path: str) -> FileEntry | None:
        return self._data.file_index.get(path)

    def get_files_by_type(self, file_type: str) -> list[FileEntry]:
        index = self._data.file_index
        return [index[p] for p in sorted(index) if index[p].type_ == file_type]

    def search_document_types(self, query: str) -> list[DocumentType]:
        """Case-insensitive substring match on code, name and purpose."""
        q = query.strip().lower()
        return [
            d
            for d in self.get_document_types()
            if not q or q in d.code.lower() or q in d.name.lower() or q in d.purpose.lower()
        ]

    def summary(self) -> Summary:
        return Summary(
            version=self._data.version,
            document_count=len(self._data.documents),
            domain_count=len(self._data.domains),
            file_count=len(self._data.file_index),
            domains=[DomainSummary(name=d.name, document_count=d.document_count) for d in self.get_domains()],
        )

    def to_dict(self) -> dict[str, Any]:
        return self._data.to_dict()

    def to_json(self) -> str:
        return json.dumps(self.to_dict(), indent=2, ensure_ascii=False) + "\n"

    def _resolve(self, codes: list[str]) -> list[DocumentType]:
        return [self._data.documents[c] for c in codes if c in self._data.documents]


def _load_bundled() -> BSpecData:
    text = resources.files(__package__).joinpath("bspec-data.json").read_text(encoding="utf-8")
    return BSpecData.from_dict(json.loads(text))


def load() -> BSpec:
    """Returns a container over the model bundled with this package."""
    return BSpec()
`
