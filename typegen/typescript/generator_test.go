package typescript

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bspectest "github.com/teranos/bspecgen/internal/testing"
	"github.com/teranos/bspecgen/typegen"
)

func sampleIR(t *testing.T) *typegen.IR {
	t.Helper()
	ir, err := typegen.Project(bspectest.SampleModel(t))
	require.NoError(t, err)
	return ir
}

func filesByPath(files []typegen.File) map[string]string {
	out := make(map[string]string, len(files))
	for _, f := range files {
		out[f.Path] = string(f.Data)
	}
	return out
}

// =============================================================================
// Record rendering
// =============================================================================

func TestGenerateInterface(t *testing.T) {
	rec := typegen.Record{
		Name: "FileEntry",
		Doc:  "One file",
		Fields: []typegen.Field{
			{Name: "path", Type: typegen.FieldType{Kind: typegen.KindString}},
			{Name: "size", Type: typegen.FieldType{Kind: typegen.KindInt}, Doc: "Bytes"},
			{Name: "frontmatter", Type: typegen.FieldType{Kind: typegen.KindAnyMap}, Optional: true},
			{Name: "examples", Type: typegen.FieldType{Kind: typegen.KindRecordList, Ref: "Example"}},
			{Name: "documents", Type: typegen.FieldType{Kind: typegen.KindRecordMap, Ref: "DocumentType"}},
		},
	}
	want := `/** One file */
export interface FileEntry {
  path: string;
  /** Bytes */
  size: number;
  frontmatter?: Record<string, unknown>;
  examples: Example[];
  documents: Record<string, DocumentType>;
}
`
	assert.Equal(t, want, GenerateInterface(rec))
}

func TestGenerateUnionType(t *testing.T) {
	e := typegen.Enum{Name: "FrontmatterStatus", Values: []string{"Draft", "Accepted"}}
	assert.Equal(t, "export type FrontmatterStatus = \"Draft\" | \"Accepted\";\n", GenerateUnionType(e))
}

// =============================================================================
// Constants
// =============================================================================

func TestGenerateConstGroup(t *testing.T) {
	g := typegen.ConstGroup{
		Type: "DomainName",
		Doc:  "Business domain names",
		Constants: []typegen.Constant{
			{Name: "STRATEGIC_FOUNDATION", Value: "Strategic Foundation"},
		},
	}
	want := `/** Business domain names */
export const DomainName = {
  STRATEGIC_FOUNDATION: "Strategic Foundation",
} as const;
export type DomainName = (typeof DomainName)[keyof typeof DomainName];
`
	assert.Equal(t, want, GenerateConstGroup(g))

	g.Constants = nil
	assert.Contains(t, GenerateConstGroup(g), "export const DomainName = {} as const;")
}

func TestConstantNames(t *testing.T) {
	ir := sampleIR(t)
	assert.Equal(t, []string{"BUD", "MSN", "VSN"}, ConstantNames(ir, typegen.GroupDocumentCodes))
	assert.Equal(t, []string{"BRONZE", "GOLD", "SILVER"}, ConstantNames(ir, typegen.GroupConformanceLevels))
}

// =============================================================================
// Whole package
// =============================================================================

func TestGenerate(t *testing.T) {
	ir := sampleIR(t)
	files, err := NewGenerator().Generate(ir, typegen.Options{Package: "@acme/bspec"})
	require.NoError(t, err)

	byPath := filesByPath(files)
	for _, p := range []string{
		"package.json", "tsconfig.json", "version.txt", "src/bspec-data.json",
		"src/types.ts", "src/constants.ts", "src/bspec.ts", "src/index.ts",
	} {
		assert.Contains(t, byPath, p)
	}

	var pkg map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(byPath["package.json"]), &pkg))
	assert.Equal(t, "@acme/bspec", pkg["name"])
	assert.Equal(t, "1.0.0", pkg["version"])

	assert.Equal(t, "1.0.0\n", byPath["version.txt"])
	assert.Equal(t, string(ir.Data), byPath["src/bspec-data.json"])

	constants := byPath["src/constants.ts"]
	assert.Contains(t, constants, `export const VERSION = "1.0.0";`)
	assert.Contains(t, constants, `  MSN: "MSN",`)
	assert.Contains(t, constants, `  FINANCIAL_INVESTMENT: "Financial Investment",`)

	types := byPath["src/types.ts"]
	assert.Contains(t, types, "export interface DocumentType {")
	assert.Contains(t, types, "export interface BSpecData {")
	assert.Contains(t, types, `export type FrontmatterStatus = "Draft" | "Review" | "Accepted" | "Deprecated";`)

	index := byPath["src/index.ts"]
	assert.Contains(t, index, "export * from './bspec';\nexport * from './constants';\nexport * from './types';\n")

	for path, content := range byPath {
		if strings.HasSuffix(path, ".ts") {
			assert.True(t, strings.HasPrefix(content, "/* eslint-disable */\n// Code generated by bspecgen from BSpec v1.0.0. DO NOT EDIT.\n"), path)
		}
	}
}

func TestGenerate_DefaultPackageName(t *testing.T) {
	files, err := NewGenerator().Generate(sampleIR(t), typegen.Options{})
	require.NoError(t, err)
	assert.Contains(t, filesByPath(files)["package.json"], `"name": "@bspec/typescript-sdk"`)
}
