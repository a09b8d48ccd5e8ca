package golang

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bspectest "github.com/teranos/bspecgen/internal/testing"
	"github.com/teranos/bspecgen/typegen"
)

func generate(t *testing.T, opts typegen.Options) map[string][]byte {
	t.Helper()
	ir, err := typegen.Project(bspectest.SampleModel(t))
	require.NoError(t, err)
	files, err := NewGenerator().Generate(ir, opts)
	require.NoError(t, err)

	out := make(map[string][]byte, len(files))
	for _, f := range files {
		out[f.Path] = f.Data
	}
	return out
}

// typedConsts returns name -> value for every constant declared with typeName
func typedConsts(t *testing.T, src []byte, typeName string) map[string]string {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "constants.go", src, 0)
	require.NoError(t, err)

	out := make(map[string]string)
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.CONST {
			continue
		}
		for _, spec := range gen.Specs {
			vs := spec.(*ast.ValueSpec)
			ident, ok := vs.Type.(*ast.Ident)
			if !ok || ident.Name != typeName {
				continue
			}
			for i, name := range vs.Names {
				lit := vs.Values[i].(*ast.BasicLit)
				v, err := strconv.Unquote(lit.Value)
				require.NoError(t, err)
				out[name.Name] = v
			}
		}
	}
	return out
}

func TestFieldName(t *testing.T) {
	tests := []struct {
		key, want string
	}{
		{"code", "Code"},
		{"source_path", "SourcePath"},
		{"id", "ID"},
		{"has_frontmatter", "HasFrontmatter"},
		{"file_index", "FileIndex"},
		{"document_codes", "DocumentCodes"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, FieldName(tt.key))
		})
	}
}

func TestPackageName(t *testing.T) {
	tests := []struct {
		module, want string
	}{
		{"github.com/bspec-foundation/bspec-go", "bspec"},
		{"github.com/acme/go-bspec", "bspec"},
		{"example.com/Acme_SDK", "acmesdk"},
		{"example.com/2fast", "fast"},
		{"example.com/---", "bspec"},
	}
	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			assert.Equal(t, tt.want, PackageName(tt.module))
		})
	}
}

func TestGenerateConstGroup_Identifiers(t *testing.T) {
	c := typegen.Constant{Name: "STRATEGIC_FOUNDATION", Value: "Strategic Foundation"}
	tests := []struct {
		prefix string
		want   string
	}{
		{"", "STRATEGIC_FOUNDATION"},
		{"Domain", "DomainStrategicFoundation"},
		{"Conformance", "ConformanceStrategicFoundation"},
		{"Profile", "ProfileStrategicFoundation"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			g := typegen.ConstGroup{Type: "DomainName", Prefix: tt.prefix, Constants: []typegen.Constant{c}}
			assert.Contains(t, GenerateConstGroup(g), "\t"+tt.want+" DomainName = \"Strategic Foundation\"\n")
		})
	}
}

func TestGenerateStruct(t *testing.T) {
	rec := typegen.Record{
		Name: "Example",
		Doc:  "An illustrative instance",
		Fields: []typegen.Field{
			{Name: "id", Type: typegen.FieldType{Kind: typegen.KindString}},
			{Name: "frontmatter", Type: typegen.FieldType{Kind: typegen.KindAnyMap}, Optional: true},
		},
	}
	want := "// Example is an illustrative instance.\n" +
		"type Example struct {\n" +
		"\tID string `json:\"id\"`\n" +
		"\tFrontmatter map[string]any `json:\"frontmatter,omitempty\"`\n" +
		"}\n"
	assert.Equal(t, want, GenerateStruct(rec))
}

func TestGenerate_SourcesParse(t *testing.T) {
	files := generate(t, typegen.Options{})

	assert.Equal(t, "module github.com/bspec-foundation/bspec-go\n\ngo 1.21\n", string(files["go.mod"]))
	for _, name := range []string{"version.go", "types.go", "constants.go", "bspec.go"} {
		f, err := parser.ParseFile(token.NewFileSet(), name, files[name], parser.ParseComments)
		require.NoError(t, err, name)
		assert.Equal(t, "bspec", f.Name.Name, name)
		assert.True(t, ast.IsGenerated(f), "%s carries the generated-code marker", name)
	}
}

func TestGenerate_Constants(t *testing.T) {
	files := generate(t, typegen.Options{Package: "example.com/acme/bspec"})

	assert.Equal(t, map[string]string{"BUD": "BUD", "MSN": "MSN", "VSN": "VSN"},
		typedConsts(t, files["constants.go"], "DocumentCode"))
	assert.Equal(t, map[string]string{
		"DomainFinancialInvestment": "Financial Investment",
		"DomainStrategicFoundation": "Strategic Foundation",
	}, typedConsts(t, files["constants.go"], "DomainName"))

	status := typedConsts(t, files["types.go"], "FrontmatterStatus")
	assert.Equal(t, "Draft", status["FrontmatterStatusDraft"])
	assert.Len(t, status, 4)

	assert.Equal(t, map[string]string{"Version": "1.0.0"}, untypedConsts(t, files["version.go"]))
}

func TestGenerate_ContainerTakesTypedKeys(t *testing.T) {
	files := generate(t, typegen.Options{})
	f, err := parser.ParseFile(token.NewFileSet(), "bspec.go", files["bspec.go"], 0)
	require.NoError(t, err)

	params := make(map[string]string)
	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil || len(fn.Type.Params.List) != 1 {
			continue
		}
		if ident, ok := fn.Type.Params.List[0].Type.(*ast.Ident); ok {
			params[fn.Name.Name] = ident.Name
		}
	}
	assert.Equal(t, "DocumentCode", params["GetDocumentType"])
	assert.Equal(t, "DomainName", params["GetDomain"])
	assert.Equal(t, "DomainName", params["GetDocumentTypesForDomain"])
	assert.Equal(t, "string", params["SearchDocumentTypes"])
}

func untypedConsts(t *testing.T, src []byte) map[string]string {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "version.go", src, 0)
	require.NoError(t, err)
	out := make(map[string]string)
	ast.Inspect(f, func(n ast.Node) bool {
		vs, ok := n.(*ast.ValueSpec)
		if !ok || vs.Type != nil {
			return true
		}
		for i, name := range vs.Names {
			if lit, ok := vs.Values[i].(*ast.BasicLit); ok {
				v, err := strconv.Unquote(lit.Value)
				require.NoError(t, err)
				out[name.Name] = v
			}
		}
		return true
	})
	return out
}

func TestGenerate_EmbedsData(t *testing.T) {
	files := generate(t, typegen.Options{})
	assert.Contains(t, string(files["bspec.go"]), "//go:embed bspec-data.json")
	assert.NotEmpty(t, files["bspec-data.json"])
	assert.Equal(t, "1.0.0\n", string(files["version.txt"]))
}
