// Package typescript renders the TypeScript SDK: interfaces, const objects,
// a BSpec container class and package.json.
package typescript

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/teranos/bspecgen/errors"
	"github.com/teranos/bspecgen/typegen"
	"github.com/teranos/bspecgen/typegen/util"
)

const (
	dataPath     = "src/bspec-data.json"
	manifestPath = "package.json"
)

// Generator implements typegen.Generator for TypeScript
type Generator struct{}

// NewGenerator creates a new TypeScript generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Language returns "typescript"
func (g *Generator) Language() string { return "typescript" }

// DataPath returns the bundled JSON location
func (g *Generator) DataPath(typegen.Options) string { return dataPath }

// ManifestPath returns "package.json"
func (g *Generator) ManifestPath() string { return manifestPath }

// TypeMapping defines how IR scalar kinds map to TypeScript types
var TypeMapping = map[typegen.Kind]string{
	typegen.KindString: "string",
	typegen.KindInt:    "number",
	typegen.KindBool:   "boolean",
}

// typeConverterConfig is the TypeScript-specific type conversion configuration
var typeConverterConfig = &typegen.TypeConverterConfig{
	TypeMapping:          TypeMapping,
	ArrayFormat:          func(elem string) string { return elem + "[]" },
	MapFormat:            func(val string) string { return "Record<string, " + val + ">" },
	StringMapUnknownType: "Record<string, unknown>",
	UnknownType:          "unknown",
}

// Generate renders the complete TypeScript package
func (g *Generator) Generate(ir *typegen.IR, opts typegen.Options) ([]typegen.File, error) {
	name := opts.Package
	if name == "" {
		name = "@bspec/typescript-sdk"
	}
	pkg, err := packageJSON(name, ir)
	if err != nil {
		return nil, err
	}

	header := fileHeader(ir)
	return []typegen.File{
		{Path: manifestPath, Data: pkg},
		{Path: "tsconfig.json", Data: []byte(tsconfig)},
		{Path: "version.txt", Data: []byte(ir.Version + "\n")},
		{Path: dataPath, Data: ir.Data},
		{Path: "src/types.ts", Data: []byte(GenerateTypes(header, ir))},
		{Path: "src/constants.ts", Data: []byte(GenerateConstants(header, ir))},
		{Path: "src/bspec.ts", Data: []byte(header + "\n" + containerSource)},
		{Path: "src/index.ts", Data: []byte(GenerateIndexFile(header, []string{"types", "constants", "bspec"}))},
	}, nil
}

func fileHeader(ir *typegen.IR) string {
	var sb strings.Builder
	sb.WriteString("/* eslint-disable */\n")
	for _, line := range typegen.Header(ir) {
		sb.WriteString("// " + line + "\n")
	}
	return sb.String()
}

// GenerateInterface renders one record as an exported interface
func GenerateInterface(rec typegen.Record) string {
	var sb strings.Builder
	if rec.Doc != "" {
		sb.WriteString(fmt.Sprintf("/** %s */\n", rec.Doc))
	}
	sb.WriteString(fmt.Sprintf("export interface %s {\n", rec.Name))
	for _, f := range rec.Fields {
		if f.Doc != "" {
			sb.WriteString(fmt.Sprintf("  /** %s */\n", f.Doc))
		}
		optional := ""
		if f.Optional {
			optional = "?"
		}
		sb.WriteString(fmt.Sprintf("  %s%s: %s;\n", f.Name, optional, typegen.ConvertType(f.Type, typeConverterConfig)))
	}
	sb.WriteString("}\n")
	return sb.String()
}

// GenerateUnionType renders an enum as a string literal union
func GenerateUnionType(e typegen.Enum) string {
	values := make([]string, len(e.Values))
	for i, v := range e.Values {
		values[i] = util.Quote(v)
	}
	var sb strings.Builder
	if e.Doc != "" {
		sb.WriteString(fmt.Sprintf("/** %s */\n", e.Doc))
	}
	sb.WriteString(fmt.Sprintf("export type %s = %s;\n", e.Name, strings.Join(values, " | ")))
	return sb.String()
}

// GenerateTypes renders src/types.ts
func GenerateTypes(header string, ir *typegen.IR) string {
	var sb strings.Builder
	sb.WriteString(header)
	for _, e := range ir.Enums {
		sb.WriteString("\n")
		sb.WriteString(GenerateUnionType(e))
	}
	for _, rec := range ir.Records {
		sb.WriteString("\n")
		sb.WriteString(GenerateInterface(rec))
	}
	return sb.String()
}

// GenerateConstGroup renders a group as a const object plus a union of its values
func GenerateConstGroup(g typegen.ConstGroup) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("/** %s */\n", g.Doc))
	if len(g.Constants) == 0 {
		sb.WriteString(fmt.Sprintf("export const %s = {} as const;\n", g.Type))
	} else {
		sb.WriteString(fmt.Sprintf("export const %s = {\n", g.Type))
		for _, c := range g.Constants {
			sb.WriteString(fmt.Sprintf("  %s: %s,\n", c.Name, util.Quote(c.Value)))
		}
		sb.WriteString("} as const;\n")
	}
	sb.WriteString(fmt.Sprintf("export type %s = (typeof %s)[keyof typeof %s];\n", g.Type, g.Type, g.Type))
	return sb.String()
}

// GenerateConstants renders src/constants.ts
func GenerateConstants(header string, ir *typegen.IR) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("export const VERSION = %s;\n", util.Quote(ir.Version)))
	for _, g := range ir.Groups {
		sb.WriteString("\n")
		sb.WriteString(GenerateConstGroup(g))
	}
	return sb.String()
}

type packageManifest struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Main        string            `json:"main"`
	Types       string            `json:"types"`
	Files       []string          `json:"files"`
	Scripts     map[string]string `json:"scripts"`
	DevDeps     map[string]string `json:"devDependencies"`
	License     string            `json:"license"`
}

func packageJSON(name string, ir *typegen.IR) ([]byte, error) {
	manifest := packageManifest{
		Name:        name,
		Version:     ir.Version,
		Description: fmt.Sprintf("TypeScript SDK for the BSpec v%s specification", ir.Version),
		Main:        "dist/index.js",
		Types:       "dist/index.d.ts",
		Files:       []string{"dist"},
		Scripts:     map[string]string{"build": "tsc", "prepublishOnly": "tsc"},
		DevDeps:     map[string]string{"typescript": "^5.4.0"},
		License:     "MIT",
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encode package.json")
	}
	return append(data, '\n'), nil
}

// ConstantNames returns the constant names of one group as they appear in
// src/constants.ts, sorted
func ConstantNames(ir *typegen.IR, kind typegen.GroupKind) []string {
	names := ir.Group(kind).Names()
	sort.Strings(names)
	return names
}

const tsconfig = `{
  "compilerOptions": {
    "target": "ES2020",
    "module": "commonjs",
    "declaration": true,
    "strict": true,
    "esModuleInterop": true,
    "resolveJsonModule": true,
    "outDir": "dist",
    "rootDir": "src"
  },
  "include": ["src"]
}
`

const containerSource = `import bundled from './bspec-data.json';
import type { BSpecData, DocumentType, Domain, FileEntry, Summary } from './types';

/** Lookup container over the bundled specification model */
export class BSpec {
  private readonly data: BSpecData;

  constructor(data: BSpecData = bundled as unknown as BSpecData) {
    this.data = data;
  }

  /** Parses canonical JSON produced by toJSON or bundled with the package */
  static fromJSON(json: string): BSpec {
    return new BSpec(JSON.parse(json) as BSpecData);
  }

  getVersion(): string {
    return this.data.version;
  }

  getDomain(name: string): Domain | undefined {
    return this.data.domains[name];
  }

  getDomains(): Domain[] {
    return this.data.domain_order
      .map((name) => this.data.domains[name])
      .filter((d): d is Domain => d !== undefined);
  }

  getDocumentType(code: string): DocumentType | undefined {
    return this.data.documents[code];
  }

  getDocumentTypes(): DocumentType[] {
    return this.resolve(this.data.document_order);
  }

  getDocumentTypesForDomain(domain: string): DocumentType[] {
    const d = this.data.domains[domain];
    return d ? this.resolve(d.document_codes) : [];
  }

  getFile(path: string): FileEntry | undefined {
    return this.data.file_index[path];
  }

  getFilesByType(type: string): FileEntry[] {
    return Object.keys(this.data.file_index)
      .sort()
      .map((path) => this.data.file_index[path])
      .filter((f) => f.type === type);
  }

  /** Case-insensitive substring match on code, name and purpose */
  searchDocumentTypes(query: string): DocumentType[] {
    const q = query.trim().toLowerCase();
    return this.getDocumentTypes().filter(
      (d) =>
        q === '' ||
        d.code.toLowerCase().includes(q) ||
        d.name.toLowerCase().includes(q) ||
        d.purpose.toLowerCase().includes(q),
    );
  }

  summary(): Summary {
    return {
      version: this.data.version,
      document_count: Object.keys(this.data.documents).length,
      domain_count: Object.keys(this.data.domains).length,
      file_count: Object.keys(this.data.file_index).length,
      domains: this.getDomains().map((d) => ({ name: d.name, document_count: d.document_count })),
    };
  }

  /** Returns the canonical form; JSON.stringify(bspec) uses it */
  toJSON(): BSpecData {
    return this.data;
  }

  serialize(): string {
    return JSON.stringify(this.data, null, 2) + '\n';
  }

  private resolve(codes: string[]): DocumentType[] {
    return codes
      .map((code) => this.data.documents[code])
      .filter((d): d is DocumentType => d !== undefined);
  }
}

/** Container over the model bundled with this package */
export const bspec = new BSpec();
`
