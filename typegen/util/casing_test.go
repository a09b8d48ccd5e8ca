package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"review_cycle", []string{"review", "cycle"}},
		{"Strategic Foundation", []string{"Strategic", "Foundation"}},
		{"HTTPSConnection", []string{"HTTPS", "Connection"}},
		{"documentCodes", []string{"document", "Codes"}},
		{"software-saas", []string{"software", "saas"}},
		{"  --  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Words(tt.in))
		})
	}
}

func TestCasing(t *testing.T) {
	tests := []struct {
		in                       string
		snake, screaming, pascal string
		camel                    string
	}{
		{"review_cycle", "review_cycle", "REVIEW_CYCLE", "ReviewCycle", "reviewCycle"},
		{"Strategic Foundation", "strategic_foundation", "STRATEGIC_FOUNDATION", "StrategicFoundation", "strategicFoundation"},
		{"DocumentType", "document_type", "DOCUMENT_TYPE", "DocumentType", "documentType"},
		{"implementation-status", "implementation_status", "IMPLEMENTATION_STATUS", "ImplementationStatus", "implementationStatus"},
		{"", "", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.snake, ToSnakeCase(tt.in))
			assert.Equal(t, tt.screaming, ToScreamingSnake(tt.in))
			assert.Equal(t, tt.pascal, ToPascalCase(tt.in))
			assert.Equal(t, tt.camel, ToCamelCase(tt.in))
		})
	}
}

func TestConstName(t *testing.T) {
	tests := []struct {
		value, want string
	}{
		{"MSN", "MSN"},
		{"Strategic Foundation", "STRATEGIC_FOUNDATION"},
		{"software-saas", "SOFTWARE_SAAS"},
		{"in-progress", "IN_PROGRESS"},
		{"90-day", "N90_DAY"},
		{"", "UNNAMED"},
		{"&&", "UNNAMED"},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, ConstName(tt.value))
		})
	}
}

func TestPascalFromConst(t *testing.T) {
	tests := []struct {
		name, want string
	}{
		{"STRATEGIC_FOUNDATION", "StrategicFoundation"},
		{"N90_DAY", "N90Day"},
		{"MSN", "Msn"},
		{"A_B_2", "AB2"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PascalFromConst(tt.name))
		})
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", `"plain"`},
		{`say "hi"`, `"say \"hi\""`},
		{`C:\path`, `"C:\\path"`},
		{"line\nbreak\ttab", `"line\nbreak\ttab"`},
		{"bell\x07", `"bell\x07"`},
		{"ünïcode", `"ünïcode"`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Quote(tt.in))
		})
	}
}

func TestCommentLines(t *testing.T) {
	assert.Equal(t, "", CommentLines("", "//", ""))
	assert.Equal(t, "    /// first\n    /// second\n", CommentLines("first\n\n  second  ", "///", "    "))
}
