// Package rust renders the Rust crate: serde structs and enums, constant
// modules, a BSpec container and Cargo.toml.
package rust

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/bspecgen/errors"
	"github.com/teranos/bspecgen/typegen"
	"github.com/teranos/bspecgen/typegen/util"
)

const dataPath = "src/bspec-data.json"

// Generator implements typegen.Generator for Rust
type Generator struct{}

// NewGenerator creates a new Rust generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Language returns "rust"
func (g *Generator) Language() string { return "rust" }

// DataPath returns the bundled JSON location
func (g *Generator) DataPath(typegen.Options) string { return dataPath }

// ManifestPath returns "Cargo.toml"
func (g *Generator) ManifestPath() string { return "Cargo.toml" }

// TypeMapping defines how IR scalar kinds map to Rust types
var TypeMapping = map[typegen.Kind]string{
	typegen.KindString: "String",
	typegen.KindInt:    "i64",
	typegen.KindBool:   "bool",
}

// typeConverterConfig is the Rust-specific type conversion configuration
var typeConverterConfig = &typegen.TypeConverterConfig{
	TypeMapping:          TypeMapping,
	ArrayFormat:          func(elem string) string { return "Vec<" + elem + ">" },
	MapFormat:            func(val string) string { return fmt.Sprintf("BTreeMap<String, %s>", val) },
	StringMapUnknownType: "serde_json::Map<String, serde_json::Value>",
	UnknownType:          "serde_json::Value",
}

// Rust keywords that need raw identifier prefix (r#)
var rustKeywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "crate": true, "dyn": true, "else": true, "enum": true,
	"extern": true, "false": true, "fn": true, "for": true, "if": true,
	"impl": true, "in": true, "let": true, "loop": true, "match": true,
	"mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "self": true, "Self": true, "static": true, "struct": true,
	"super": true, "trait": true, "true": true, "type": true, "unsafe": true,
	"use": true, "where": true, "while": true, "yield": true,
}

// toRustIdent converts an identifier to a valid Rust identifier
// Adds r# prefix for Rust keywords
func toRustIdent(s string) string {
	if rustKeywords[s] {
		return "r#" + s
	}
	return s
}

// CrateName normalizes a crate name for Cargo ("bspec-sdk" stays as-is) and
// returns the identifier used in `use` paths ("bspec_sdk")
func CrateName(name string) (cargo, ident string) {
	if name == "" {
		name = "bspec"
	}
	ident = util.ToSnakeCase(name)
	return strings.ReplaceAll(ident, "_", "-"), ident
}

// Generate renders the complete crate
func (g *Generator) Generate(ir *typegen.IR, opts typegen.Options) ([]typegen.File, error) {
	cargoName, _ := CrateName(opts.Package)
	cargo, err := CargoToml(cargoName, ir.Version)
	if err != nil {
		return nil, err
	}

	header := fileHeader(ir)
	return []typegen.File{
		{Path: "Cargo.toml", Data: cargo},
		{Path: "version.txt", Data: []byte(ir.Version + "\n")},
		{Path: dataPath, Data: ir.Data},
		{Path: "src/lib.rs", Data: []byte(GenerateLib(header, ir))},
		{Path: "src/types.rs", Data: []byte(GenerateTypes(header, ir))},
		{Path: "src/constants.rs", Data: []byte(GenerateConstants(header, ir))},
		{Path: "src/bspec.rs", Data: []byte(header + "\n" + containerSource)},
	}, nil
}

func fileHeader(ir *typegen.IR) string {
	var sb strings.Builder
	for _, line := range typegen.Header(ir) {
		sb.WriteString("// " + line + "\n")
	}
	return sb.String()
}

// GenerateStruct creates a serde struct from a record
func GenerateStruct(rec typegen.Record) string {
	var sb strings.Builder
	sb.WriteString(util.CommentLines(rec.Doc, "///", ""))
	sb.WriteString("#[derive(Debug, Clone, PartialEq, Serialize, Deserialize)]\n")
	sb.WriteString(fmt.Sprintf("pub struct %s {\n", rec.Name))

	for _, f := range rec.Fields {
		rustType := typegen.ConvertType(f.Type, typeConverterConfig)
		sb.WriteString(util.CommentLines(f.Doc, "///", "    "))
		switch {
		case f.Optional:
			rustType = "Option<" + rustType + ">"
			sb.WriteString("    #[serde(default, skip_serializing_if = \"Option::is_none\")]\n")
		case f.Type.Kind == typegen.KindStringList, f.Type.Kind == typegen.KindRecordList, f.Type.Kind == typegen.KindRecordMap:
			sb.WriteString("    #[serde(default)]\n")
		}
		sb.WriteString(fmt.Sprintf("    pub %s: %s,\n", toRustIdent(f.Name), rustType))
	}

	sb.WriteString("}\n")
	return sb.String()
}

// GenerateEnum creates a Rust enum whose variants serialize to the raw values
func GenerateEnum(e typegen.Enum) string {
	var sb strings.Builder
	sb.WriteString(util.CommentLines(e.Doc, "///", ""))
	sb.WriteString("#[derive(Debug, Clone, Copy, PartialEq, Eq, Hash, Serialize, Deserialize)]\n")
	sb.WriteString(fmt.Sprintf("pub enum %s {\n", e.Name))
	for _, v := range e.Values {
		sb.WriteString(fmt.Sprintf("    #[serde(rename = %s)]\n", util.Quote(v)))
		sb.WriteString(fmt.Sprintf("    %s,\n", util.PascalFromConst(util.ConstName(v))))
	}
	sb.WriteString("}\n")
	return sb.String()
}

// GenerateTypes renders src/types.rs
func GenerateTypes(header string, ir *typegen.IR) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n#![allow(clippy::all)]\n\n")
	sb.WriteString("use std::collections::BTreeMap;\n\n")
	sb.WriteString("use serde::{Deserialize, Serialize};\n")
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

// ModuleName is the constants module of a group ("DocumentCode" -> "document_code")
func ModuleName(g typegen.ConstGroup) string {
	return util.ToSnakeCase(g.Type)
}

// GenerateConstants renders src/constants.rs: one module per group
func GenerateConstants(header string, ir *typegen.IR) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n#![allow(dead_code)]\n\n")
	sb.WriteString(fmt.Sprintf("pub const VERSION: &str = %s;\n", util.Quote(ir.Version)))
	for _, g := range ir.Groups {
		sb.WriteString("\n")
		sb.WriteString(util.CommentLines(g.Doc, "///", ""))
		sb.WriteString(fmt.Sprintf("pub mod %s {\n", toRustIdent(ModuleName(g))))
		var names []string
		for _, c := range g.Constants {
			sb.WriteString(fmt.Sprintf("    pub const %s: &str = %s;\n", c.Name, util.Quote(c.Value)))
			names = append(names, c.Name)
		}
		if len(names) > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("    pub const ALL: &[&str] = &[%s];\n", strings.Join(names, ", ")))
		sb.WriteString("}\n")
	}
	return sb.String()
}

// GenerateLib renders src/lib.rs
func GenerateLib(header string, ir *typegen.IR) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString(fmt.Sprintf("\n//! BSpec v%s SDK.\n\n", ir.Version))
	sb.WriteString("pub mod bspec;\npub mod constants;\npub mod types;\n\n")
	sb.WriteString("pub use bspec::BSpec;\npub use constants::VERSION;\npub use types::*;\n")
	return sb.String()
}

type cargoManifest struct {
	Package      cargoPackage           `toml:"package"`
	Dependencies map[string]interface{} `toml:"dependencies"`
}

type cargoPackage struct {
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Edition     string `toml:"edition"`
	Description string `toml:"description"`
	License     string `toml:"license"`
}

type cargoDependency struct {
	Version  string   `toml:"version"`
	Features []string `toml:"features,omitempty"`
}

// CargoToml renders Cargo.toml for the crate
func CargoToml(name, version string) ([]byte, error) {
	doc := cargoManifest{
		Package: cargoPackage{
			Name:        name,
			Version:     version,
			Edition:     "2021",
			Description: fmt.Sprintf("Rust SDK for the BSpec v%s specification", version),
			License:     "MIT",
		},
		Dependencies: map[string]interface{}{
			"serde":      cargoDependency{Version: "1", Features: []string{"derive"}},
			"serde_json": "1",
		},
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "encode Cargo.toml")
	}
	return data, nil
}

const containerSource = `//! Lookup container over the bundled specification model.

use crate::types::{BSpecData, DocumentType, Domain, DomainSummary, FileEntry, Summary};

const BUNDLED: &str = include_str!("bspec-data.json");

/// Read-only view of one BSpec model.
#[derive(Debug, Clone)]
pub struct BSpec {
    data: BSpecData,
}

impl BSpec {
    /// Loads the model bundled with this crate.
    pub fn load() -> Result<Self, serde_json::Error> {
        Self::from_json(BUNDLED)
    }

    /// Parses canonical JSON produced by to_json.
    pub fn from_json(text: &str) -> Result<Self, serde_json::Error> {
        Ok(Self { data: serde_json::from_str(text)? })
    }

    pub fn get_version(&self) -> &str {
        &self.data.version
    }

    pub fn get_domain(&self, name: &str) -> Option<&Domain> {
        self.data.domains.get(name)
    }

    pub fn get_domains(&self) -> Vec<&Domain> {
        self.data
            .domain_order
            .iter()
            .filter_map(|name| self.data.domains.get(name))
            .collect()
    }

    pub fn get_document_type(&self, code: &str) -> Option<&DocumentType> {
        self.data.documents.get(code)
    }

    pub fn get_document_types(&self) -> Vec<&DocumentType> {
        self.resolve(&self.data.document_order)
    }

    pub fn get_document_types_for_domain(&self, domain: &str) -> Vec<&DocumentType> {
        match self.data.domains.get(domain) {
            Some(d) => self.resolve(&d.document_codes),
            None => Vec::new(),
        }
    }

    pub fn get_file(&self, path: &str) -> Option<&FileEntry> {
        self.data.file_index.get(path)
    }

    pub fn get_files_by_type(&self, file_type: &str) -> Vec<&FileEntry> {
        self.data
            .file_index
            .values()
            .filter(|f| f.r#type == file_type)
            .collect()
    }

    /// Case-insensitive substring match on code, name and purpose.
    pub fn search_document_types(&self, query: &str) -> Vec<&DocumentType> {
        let q = query.trim().to_lowercase();
        self.get_document_types()
            .into_iter()
            .filter(|d| {
                q.is_empty()
                    || d.code.to_lowercase().contains(&q)
                    || d.name.to_lowercase().contains(&q)
                    || d.purpose.to_lowercase().contains(&q)
            })
            .collect()
    }

    pub fn summary(&self) -> Summary {
        Summary {
            version: self.data.version.clone(),
            document_count: self.data.documents.len() as i64,
            domain_count: self.data.domains.len() as i64,
            file_count: self.data.file_index.len() as i64,
            domains: self
                .get_domains()
                .into_iter()
                .map(|d| DomainSummary {
                    name: d.name.clone(),
                    document_count: d.document_count,
                })
                .collect(),
        }
    }

    /// Serializes back to the canonical form.
    pub fn to_json(&self) -> Result<String, serde_json::Error> {
        serde_json::to_string_pretty(&self.data)
    }

    pub fn data(&self) -> &BSpecData {
        &self.data
    }

    fn resolve(&self, codes: &[String]) -> Vec<&DocumentType> {
        codes
            .iter()
            .filter_map(|code| self.data.documents.get(code))
            .collect()
    }
}
`
