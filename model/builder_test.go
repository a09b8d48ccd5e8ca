package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/bspecgen/errors"
	"github.com/teranos/bspecgen/extract"
)

var fixedTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

// emptyTables keeps tests free of warnings from the built-in tables
func emptyTables() Tables { return Tables{} }

func doc(code, name, dir string) extract.Facts {
	text := "**Document Type Code:** " + code + "\n**Document Type Name:** " + name + "\n"
	return extract.Extract(text, dir+"/"+code+"-spec.md")
}

func build(t *testing.T, tables Tables, facts ...extract.Facts) (*CanonicalModel, []Warning) {
	t.Helper()
	m, warnings, err := NewBuilder(WithClock(fixedClock), WithTables(tables)).Build(Input{
		Version: "1.0.0",
		Facts:   facts,
	})
	require.NoError(t, err)
	require.NotNil(t, m)
	return m, warnings
}

func kinds(ws []Warning) []WarningKind {
	var out []WarningKind
	for _, w := range ws {
		out = append(out, w.Kind)
	}
	return out
}

func TestBuild_DomainDerivedFromDirectory(t *testing.T) {
	m, warnings := build(t, emptyTables(), doc("MSN", "Mission", "strategic-foundation"))
	assert.Empty(t, warnings)

	msn := m.Documents["MSN"]
	assert.Equal(t, "Strategic Foundation", msn.Domain)

	d := m.Domains["Strategic Foundation"]
	assert.Equal(t, "strategic-foundation", d.Slug)
	assert.Equal(t, "Business domain for strategic foundation", d.Description)
	assert.Equal(t, []string{"MSN"}, d.DocumentCodes)
	assert.Equal(t, 1, d.DocumentCount)
	assert.Equal(t, fixedTime, m.GeneratedAt)
	assert.Equal(t, "1.0.0", m.Version)
}

func TestBuild_DuplicateCodeFirstWins(t *testing.T) {
	first := doc("VAL", "Values", "strategic-foundation")
	second := doc("VAL", "Valuation", "financial-investment")

	m, warnings := build(t, emptyTables(), first, second)

	require.Len(t, m.Documents, 1)
	assert.Equal(t, "Values", m.Documents["VAL"].Name)
	assert.Equal(t, []string{"VAL"}, m.DocumentOrder)

	require.Len(t, warnings, 1)
	w := warnings[0]
	assert.Equal(t, KindDuplicateCode, w.Kind)
	assert.Equal(t, "VAL", w.Code)
	assert.Equal(t, "financial-investment/VAL-spec.md", w.Path)
	assert.Equal(t, "first defined in strategic-foundation/VAL-spec.md", w.Hint)

	// The dropped document's domain never appears
	_, ok := m.Domains["Financial Investment"]
	assert.False(t, ok)
}

func TestBuild_UnknownConformanceCodeIsWarning(t *testing.T) {
	tables := Tables{ConformanceLevels: []ConformanceLevel{{
		Name:                 "bronze",
		MinimumDocumentCount: 2,
		RequiredCodes:        []string{"MSN", "VSN", "ZZZ"},
	}}}

	m, warnings := build(t, tables,
		doc("MSN", "Mission", "strategic-foundation"),
		doc("VSN", "Vision", "strategic-foundation"),
	)
	require.NotNil(t, m)

	require.Len(t, warnings, 1)
	assert.Equal(t, KindUnknownConformanceCode, warnings[0].Kind)
	assert.Equal(t, "ZZZ", warnings[0].Code)
	assert.Contains(t, warnings[0].Message, "ZZZ")
	assert.Equal(t, []string{"MSN", "VSN", "ZZZ"}, m.ConformanceLevels[0].RequiredCodes)
}

func TestBuild_SuggestsNearbyCode(t *testing.T) {
	tables := Tables{IndustryProfiles: []IndustryProfile{{
		Name:                "software-saas",
		AdditionalDocuments: []string{"MSM"},
	}}}
	_, warnings := build(t, tables, doc("MSN", "Mission", "strategic-foundation"))

	require.Len(t, warnings, 1)
	assert.Equal(t, KindUnknownProfileCode, warnings[0].Kind)
	assert.Equal(t, "did you mean MSN?", warnings[0].Hint)
}

func TestBuild_SkipsDocumentsWithoutCode(t *testing.T) {
	noCode := extract.Extract("# Notes\n", "misc/notes.md")
	m, warnings := build(t, emptyTables(), noCode, doc("RSK", "Risk", "risk-governance"))

	assert.Equal(t, []string{"RSK"}, m.Codes())
	assert.Equal(t, []WarningKind{KindMissingCode}, kinds(warnings))
	assert.Equal(t, "misc/notes.md", warnings[0].Path)
}

func TestBuild_SkipsDocumentsWithInvalidCode(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"path separator", "A/B"},
		{"parent traversal", "../../../ESC"},
		{"backslash", `A\B`},
		{"dot", "M.S"},
		{"punctuation", "X!"},
		{"leading dash", "-MSN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, warnings := build(t, emptyTables(),
				doc(tt.code, "Broken", "strategic-foundation"),
				doc("RSK", "Risk", "risk-governance"),
			)

			assert.Equal(t, []string{"RSK"}, m.Codes())
			require.Equal(t, []WarningKind{KindInvalidCode}, kinds(warnings))
			assert.Equal(t, tt.code, warnings[0].Code)
			assert.Contains(t, warnings[0].Message, "not an identifier")
		})
	}
}

func TestValidCode(t *testing.T) {
	for _, code := range []string{"MSN", "BUD", "msn2", "RISK_REG", "A-1"} {
		assert.True(t, ValidCode(code), code)
	}
	for _, code := range []string{"", "A/B", "..", ".MSN", "M S", "X!", "_MSN"} {
		assert.False(t, ValidCode(code), code)
	}
}

func TestBuild_NoDocumentsIsFatal(t *testing.T) {
	m, _, err := NewBuilder(WithTables(emptyTables())).Build(Input{Version: "1.0.0"})
	assert.Nil(t, m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNoDocuments))
}

func TestBuild_DomainConsistency(t *testing.T) {
	m, _ := build(t, DefaultTables(),
		doc("MSN", "Mission", "strategic-foundation"),
		doc("MKT", "Market", "market-environment"),
		doc("VSN", "Vision", "strategic-foundation"),
		doc("SEG", "Segments", "market-environment"),
	)

	assert.Equal(t, []string{"Strategic Foundation", "Market Environment"}, m.DomainOrder)
	assert.Equal(t, []string{"MSN", "VSN"}, m.Domains["Strategic Foundation"].DocumentCodes)
	for name, d := range m.Domains {
		assert.Equal(t, len(d.DocumentCodes), d.DocumentCount, name)
		for _, code := range d.DocumentCodes {
			rec, ok := m.Documents[code]
			require.True(t, ok, code)
			assert.Equal(t, name, rec.Domain)
		}
	}
}

func TestBuild_DefaultTables(t *testing.T) {
	m, warnings := build(t, DefaultTables(), doc("MSN", "Mission", "strategic-foundation"))

	assert.Len(t, m.ConformanceLevels, 3)
	assert.Len(t, m.IndustryProfiles, 4)
	assert.Equal(t, Required, m.Schema["id"].Requiredness)
	assert.Equal(t, TypeEnum, m.Schema["status"].ValueType)
	assert.Equal(t, []string{"Draft", "Review", "Accepted", "Deprecated"}, m.Schema["status"].AllowedValues)

	for _, w := range warnings {
		assert.Contains(t, []WarningKind{KindUnknownConformanceCode, KindUnknownProfileCode}, w.Kind)
	}

	// Mutating the model must not leak into the next run's tables
	m.ConformanceLevels[0].RequiredCodes[0] = "XXX"
	assert.Equal(t, "MSN", DefaultTables().ConformanceLevels[0].RequiredCodes[0])
}

func TestBuild_DuplicateSchemaField(t *testing.T) {
	tables := Tables{Schema: []SchemaField{
		{Name: "id", Requiredness: Required, ValueType: TypeString},
		{Name: "id", Requiredness: Optional, ValueType: TypeString},
	}}
	m, warnings := build(t, tables, doc("MSN", "Mission", "strategic-foundation"))

	assert.Equal(t, Required, m.Schema["id"].Requiredness)
	assert.Equal(t, []WarningKind{KindDuplicateSchemaField}, kinds(warnings))
}

func TestBuild_CarriesInputWarningsAndFiles(t *testing.T) {
	m, warnings, err := NewBuilder(WithClock(fixedClock), WithTables(emptyTables())).Build(Input{
		Version:  "1.0.0",
		Revision: "abc123",
		Facts:    []extract.Facts{doc("MSN", "Mission", "strategic-foundation")},
		Files:    []FileEntry{{Path: "strategic-foundation/MSN-spec.md", Type: "markdown"}},
		Warnings: []Warning{FileWarning("bad.md", "front-matter is not valid YAML")},
	})
	require.NoError(t, err)

	assert.Equal(t, "abc123", m.SourceRevision)
	assert.Contains(t, m.FileIndex, "strategic-foundation/MSN-spec.md")
	assert.Equal(t, []WarningKind{KindMalformedFile}, kinds(warnings))
}

func TestBuild_Deterministic(t *testing.T) {
	facts := []extract.Facts{
		doc("MSN", "Mission", "strategic-foundation"),
		doc("MKT", "Market", "market-environment"),
	}
	a, _ := build(t, DefaultTables(), facts...)
	b, _ := build(t, DefaultTables(), facts...)
	assert.Equal(t, a, b)
}
