package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const missionDoc = `# Mission Statement: Strategic Foundation

**Document Type Code:** MSN
**Document Type Name:** Mission

## Purpose and Scope

The Mission document states why the organization exists.

## Examples

- **Nonprofit mission**: Feed every child in the county.
- **SaaS mission**: Make invoicing invisible.
- Startup draft

## Sections
`

func TestExtract_ScenarioDomainFromDirectory(t *testing.T) {
	facts := Extract(missionDoc, "strategic-foundation/MSN-spec.md")

	require.True(t, facts.Keep())
	assert.Equal(t, "MSN", facts.Code)
	assert.Equal(t, "Mission", facts.Name)
	assert.Equal(t, "Strategic Foundation", facts.Domain)
	assert.False(t, facts.Found.Domain, "domain was derived, not labeled")
	assert.True(t, facts.Found.Name)
	assert.Equal(t, "strategic-foundation/MSN-spec.md", facts.SourcePath)
}

func TestExtract_Purpose(t *testing.T) {
	facts := Extract(missionDoc, "strategic-foundation/MSN-spec.md")
	assert.True(t, facts.Found.Purpose)
	assert.Equal(t, "The Mission document states why the organization exists.", facts.Purpose)
}

func TestExtract_Examples(t *testing.T) {
	facts := Extract(missionDoc, "strategic-foundation/MSN-spec.md")
	require.Len(t, facts.Examples, 3)
	assert.Equal(t, Example{ID: "nonprofit-mission", Title: "Nonprofit mission", Description: "Feed every child in the county."}, facts.Examples[0])
	assert.Equal(t, "SaaS mission", facts.Examples[1].Title)
	assert.Equal(t, Example{ID: "startup-draft", Title: "Startup draft"}, facts.Examples[2])
	assert.True(t, facts.Found.Examples)
}

func TestExtract_Fields(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		path        string
		wantKeep    bool
		wantCode    string
		wantName    string
		wantDomain  string
		wantPurpose string
		wantFound   Presence
	}{
		{
			name:        "missing code is dropped",
			text:        "# Notes\n\n**Document Type Name:** Notes\n",
			path:        "misc/notes.md",
			wantKeep:    false,
			wantName:    "Notes",
			wantDomain:  "Misc",
			wantPurpose: "Business document of type Notes",
			wantFound:   Presence{Name: true},
		},
		{
			name:        "explicit domain label wins over directory",
			text:        "**Document Type Code:** VAL\n**Domain:** Strategic Foundation\n",
			path:        "other-dir/VAL.md",
			wantKeep:    true,
			wantCode:    "VAL",
			wantName:    "VAL Document",
			wantDomain:  "Strategic Foundation",
			wantPurpose: "Business document of type VAL Document",
			wantFound:   Presence{Code: true, Domain: true},
		},
		{
			name:        "first occurrence wins and values are trimmed",
			text:        "**Document Type Code:**   STR  \n**Document Type Code:** XXX\n**Document Type Name:**  Strategy \n",
			path:        "strategic-foundation/STR.md",
			wantKeep:    true,
			wantCode:    "STR",
			wantName:    "Strategy",
			wantDomain:  "Strategic Foundation",
			wantPurpose: "Business document of type Strategy",
			wantFound:   Presence{Code: true, Name: true},
		},
		{
			name:        "label matching is case sensitive",
			text:        "**document type code:** MSN\n",
			path:        "a/b.md",
			wantKeep:    false,
			wantDomain:  "A",
			wantPurpose: "Business document of type ",
		},
		{
			name:        "heading title used when name label is absent",
			text:        "# Vision Statement: Where we go\n**Document Type Code:** VSN\n",
			path:        "strategic-foundation/VSN.md",
			wantKeep:    true,
			wantCode:    "VSN",
			wantName:    "Vision Statement",
			wantDomain:  "Strategic Foundation",
			wantPurpose: "Business document of type Vision Statement",
			wantFound:   Presence{Code: true},
		},
		{
			name:        "file at root gets the unknown domain",
			text:        "**Document Type Code:** RSK\n**Document Type Name:** Risk\n",
			path:        "RSK.md",
			wantKeep:    true,
			wantCode:    "RSK",
			wantName:    "Risk",
			wantDomain:  "General",
			wantPurpose: "Business document of type Risk",
			wantFound:   Presence{Code: true, Name: true},
		},
		{
			name:        "windows separators and CRLF",
			text:        "**Document Type Code:** PER\r\n**Document Type Name:** Persona\r\n",
			path:        `customer_insights\PER.md`,
			wantKeep:    true,
			wantCode:    "PER",
			wantName:    "Persona",
			wantDomain:  "Customer Insights",
			wantPurpose: "Business document of type Persona",
			wantFound:   Presence{Code: true, Name: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := Extract(tt.text, tt.path)
			assert.Equal(t, tt.wantKeep, facts.Keep())
			assert.Equal(t, tt.wantCode, facts.Code)
			assert.Equal(t, tt.wantName, facts.Name)
			assert.Equal(t, tt.wantDomain, facts.Domain)
			assert.Equal(t, tt.wantPurpose, facts.Purpose)
			assert.Equal(t, tt.wantFound, facts.Found)
		})
	}
}

func TestExtract_PurposeWindow(t *testing.T) {
	within := "## Purpose and Scope\n\n\n\nFound on the fourth line.\n"
	facts := Extract(within, "x/a.md")
	assert.True(t, facts.Found.Purpose)
	assert.Equal(t, "Found on the fourth line.", facts.Purpose)

	beyond := "## Purpose and Scope\n\n\n\n\nToo far away.\n"
	facts = Extract(beyond, "x/a.md")
	assert.False(t, facts.Found.Purpose)

	headingsSkipped := "## Purpose and Scope\n### Detail\nActual purpose.\n"
	facts = Extract(headingsSkipped, "x/a.md")
	assert.Equal(t, "Actual purpose.", facts.Purpose)

	// Plain prose mentioning the phrase is not a heading
	prose := "See Purpose and Scope below.\nnot this\n"
	facts = Extract(prose, "x/a.md")
	assert.False(t, facts.Found.Purpose)
}

func TestCustomVocabulary(t *testing.T) {
	e := New(Vocabulary{
		Version:        "test",
		CodeLabel:      "Code:",
		NameLabel:      "Title:",
		PurposeHeading: "Why",
	})
	facts := e.Extract("Code: ABC\nTitle: Alphabet\n## Why\nBecause.\n", "letters/abc.md")

	assert.Equal(t, "ABC", facts.Code)
	assert.Equal(t, "Alphabet", facts.Name)
	assert.Equal(t, "Because.", facts.Purpose)
	assert.Equal(t, "Letters", facts.Domain)
	assert.Equal(t, 4, e.Vocabulary().PurposeWindow, "zero window falls back to default")
}

func TestHumanize(t *testing.T) {
	tests := map[string]string{
		"strategic-foundation": "Strategic Foundation",
		"go_to_market":         "Go To Market",
		"OPERATIONS":           "Operations",
		"--":                   "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Humanize(in), in)
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Strategic Foundation": "strategic-foundation",
		"  Research & Dev  ":   "research-dev",
		"Customer--Insights 2": "customer-insights-2",
		"":                     "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), in)
	}
}
