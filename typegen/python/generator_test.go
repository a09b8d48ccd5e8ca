package python

import (
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bspectest "github.com/teranos/bspecgen/internal/testing"
	"github.com/teranos/bspecgen/typegen"
)

func TestToPythonIdent(t *testing.T) {
	assert.Equal(t, "type_", toPythonIdent("type"))
	assert.Equal(t, "class_", toPythonIdent("class"))
	assert.Equal(t, "path", toPythonIdent("path"))
}

func TestImportName(t *testing.T) {
	tests := []struct {
		dist, want string
	}{
		{"bspec", "bspec"},
		{"bspec-sdk", "bspec_sdk"},
		{"Acme.BSpec", "acme_b_spec"},
		{"", "bspec"},
		{"import", "import_"},
	}
	for _, tt := range tests {
		t.Run(tt.dist, func(t *testing.T) {
			assert.Equal(t, tt.want, ImportName(tt.dist))
		})
	}
}

func TestGenerateDataclass_RequiredFieldsFirst(t *testing.T) {
	rec := typegen.Record{
		Name: "SchemaField",
		Fields: []typegen.Field{
			{Name: "name", Type: typegen.FieldType{Kind: typegen.KindString}},
			{Name: "validation_pattern", Type: typegen.FieldType{Kind: typegen.KindString}, Optional: true},
			{Name: "description", Type: typegen.FieldType{Kind: typegen.KindString}},
			{Name: "type", Type: typegen.FieldType{Kind: typegen.KindString}},
		},
	}
	out := GenerateDataclass(rec)

	want := "    name: str\n    description: str\n    type_: str\n    validation_pattern: str | None = None\n"
	assert.Contains(t, out, want)
	assert.Contains(t, out, `            type_=data.get("type", ""),`)
	assert.Contains(t, out, "        if self.validation_pattern is not None:\n            out[\"validation_pattern\"] = self.validation_pattern\n")
	assert.Contains(t, out, `        out["type"] = self.type_`)
}

func TestDecodeExpr(t *testing.T) {
	tests := []struct {
		name  string
		field typegen.Field
		want  string
	}{
		{"int", typegen.Field{Name: "size", Type: typegen.FieldType{Kind: typegen.KindInt}}, `data.get("size", 0)`},
		{"bool", typegen.Field{Name: "has_frontmatter", Type: typegen.FieldType{Kind: typegen.KindBool}}, `data.get("has_frontmatter", False)`},
		{"list", typegen.Field{Name: "tags", Type: typegen.FieldType{Kind: typegen.KindStringList}}, `list(data.get("tags") or [])`},
		{
			"record map",
			typegen.Field{Name: "documents", Type: typegen.FieldType{Kind: typegen.KindRecordMap, Ref: "DocumentType"}},
			`{k: DocumentType.from_dict(v) for k, v in (data.get("documents") or {}).items()}`,
		},
		{
			"optional record",
			typegen.Field{Name: "record", Type: typegen.FieldType{Kind: typegen.KindRecord, Ref: "DocumentType"}, Optional: true},
			`DocumentType.from_dict(data["record"]) if data.get("record") is not None else None`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeExpr(tt.field))
		})
	}
}

func TestGenerateEnum(t *testing.T) {
	out := GenerateEnum("DocumentCode", "Document type codes", []typegen.Constant{
		{Name: "MSN", Value: "MSN"},
		{Name: "N90_DAY", Value: "90-day"},
	})
	want := `class DocumentCode(str, Enum):
    """Document type codes"""

    MSN = "MSN"
    N90_DAY = "90-day"
`
	assert.Equal(t, want, out)
	assert.Contains(t, GenerateEnum("Empty", "", nil), "    pass\n")
}

func TestPyProject(t *testing.T) {
	data, err := PyProject("bspec-sdk", "bspec_sdk", "1.2.0")
	require.NoError(t, err)

	var doc struct {
		Project struct {
			Name    string `toml:"name"`
			Version string `toml:"version"`
		} `toml:"project"`
		BuildSystem struct {
			BuildBackend string `toml:"build-backend"`
		} `toml:"build-system"`
	}
	_, err = toml.Decode(string(data), &doc)
	require.NoError(t, err)
	assert.Equal(t, "bspec-sdk", doc.Project.Name)
	assert.Equal(t, "1.2.0", doc.Project.Version)
	assert.Equal(t, "hatchling.build", doc.BuildSystem.BuildBackend)
}

func TestGenerate(t *testing.T) {
	ir, err := typegen.Project(bspectest.SampleModel(t))
	require.NoError(t, err)

	g := NewGenerator()
	opts := typegen.Options{Package: "bspec-sdk"}
	files, err := g.Generate(ir, opts)
	require.NoError(t, err)

	byPath := make(map[string]string)
	for _, f := range files {
		byPath[f.Path] = string(f.Data)
	}
	assert.Equal(t, "bspec_sdk/bspec-data.json", g.DataPath(opts))
	assert.Equal(t, string(ir.Data), byPath[g.DataPath(opts)])
	assert.Contains(t, byPath, "bspec_sdk/py.typed")

	constants := byPath["bspec_sdk/constants.py"]
	assert.Contains(t, constants, "class DocumentCode(str, Enum):")
	assert.Contains(t, constants, `    STRATEGIC_FOUNDATION = "Strategic Foundation"`)
	assert.Contains(t, constants, `VERSION = "1.0.0"`)

	types := byPath["bspec_sdk/types.py"]
	assert.Contains(t, types, "class FrontmatterStatus(str, Enum):")
	assert.Contains(t, types, "@dataclass\nclass DocumentType:")
	assert.Contains(t, types, `            examples=[Example.from_dict(v) for v in data.get("examples") or []],`)

	assert.Contains(t, byPath["bspec_sdk/__init__.py"], "from .bspec import BSpec, load")
}
